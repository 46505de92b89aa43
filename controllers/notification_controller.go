package controllers

import (
	"errors"
	"net/http"

	"github.com/mihir-M-marathe/CalTrail/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationController struct {
	Notifications *services.NotificationService
}

func NewNotificationController(n *services.NotificationService) *NotificationController {
	return &NotificationController{Notifications: n}
}

// GET /api/notifications
func (nc *NotificationController) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	out, err := nc.Notifications.ListForUser(actor.ID, queryInt(c, "limit", 50))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

// POST /api/notifications/:id/read
func (nc *NotificationController) MarkRead(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := nc.Notifications.MarkRead(actor.ID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Notification")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
