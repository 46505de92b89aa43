package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mihir-M-marathe/CalTrail/middlewares"
	"github.com/mihir-M-marathe/CalTrail/services"

	"github.com/gin-gonic/gin"
)

// actorFrom aborts with 401 when no authenticated actor is on the context.
func actorFrom(c *gin.Context) (services.Actor, bool) {
	actor, ok := middlewares.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return actor, ok
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}

// queryDate parses an optional YYYY-MM-DD query param in server-local time.
func queryDate(c *gin.Context, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", v, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Access denied"})
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "error": what + " not found"})
}
