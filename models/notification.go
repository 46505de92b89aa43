package models

import "gorm.io/gorm"

// Notification is written when a nutritionist or admin comments on one of the
// user's meal entries, and delivered over the websocket hub and email.
type Notification struct {
	gorm.Model
	UserID  uint   `gorm:"index;not null" json:"userId"`
	Type    string `gorm:"type:varchar(40);not null" json:"type"`
	Message string `gorm:"not null" json:"message"`
	Read    bool   `gorm:"default:false" json:"read"`
}
