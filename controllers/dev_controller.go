package controllers

import (
	"net/http"
	"os"

	"github.com/mihir-M-marathe/CalTrail/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DevController struct {
	DB *gorm.DB
}

func NewDevController(db *gorm.DB) *DevController {
	return &DevController{DB: db}
}

// POST /api/dev/seed — only wired when ENABLE_DEV_ROUTES=true.
func (d *DevController) Seed(c *gin.Context) {
	if os.Getenv("ENABLE_DEV_ROUTES") != "true" {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err := config.Seed(d.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
