package services

import (
	"fmt"

	"github.com/mihir-M-marathe/CalTrail/models"
	"github.com/mihir-M-marathe/CalTrail/utils"

	"gorm.io/gorm"
)

type notifierDeps struct {
	db  *gorm.DB
	hub *RealtimeHub
}

var _notifier notifierDeps

func InitNotifier(db *gorm.DB, hub *RealtimeHub) {
	_notifier = notifierDeps{db: db, hub: hub}
}

// EmitCommentNotification records that a nutritionist/admin commented on the
// user's meal entry and pushes it over websockets plus email. Safe to call
// anywhere; a nil db (notifier not initialized, e.g. tests) is a no-op, and
// delivery failures never fail the comment write itself.
func EmitCommentNotification(userID uint, comment *models.Comment) {
	if _notifier.db == nil {
		return
	}

	foodName := comment.MealEntry.Food.Name
	n := &models.Notification{
		UserID:  userID,
		Type:    "comment.created",
		Message: fmt.Sprintf("%s commented on your %s entry", comment.Author.Name, foodName),
	}
	_ = _notifier.db.Create(n).Error

	if _notifier.hub != nil {
		_notifier.hub.BroadcastToUser(userID, map[string]any{
			"kind":         "comment.created",
			"notification": n,
			"comment":      comment,
		})
	}

	var owner models.User
	if err := _notifier.db.First(&owner, userID).Error; err == nil {
		_ = utils.SendCommentEmail(owner.Email, comment.Author.Name, foodName)
	}
}
