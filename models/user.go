package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of actor roles. Stored uppercase; every comparison
// goes through these constants so no handler re-derives its own casing.
type Role string

const (
	RoleUser         Role = "USER"
	RoleNutritionist Role = "NUTRITIONIST"
	RoleAdmin        Role = "ADMIN"
)

type User struct {
	gorm.Model
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`

	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	Height         float64    `json:"height,omitempty"` // cm
	Weight         float64    `json:"weight,omitempty"` // kg
	Gender         string     `json:"gender,omitempty"`
	ActivityLevel  string     `json:"activityLevel,omitempty"`
	Goals          string     `json:"goals,omitempty"`
	ProfilePicture string     `json:"profilePicture,omitempty"`

	// Only meaningful for RoleUser; ignored for nutritionists and admins.
	AssignedNutritionistID *uint `gorm:"index" json:"assignedNutritionistId"`
	AssignedNutritionist   *User `gorm:"foreignKey:AssignedNutritionistID" json:"assignedNutritionist,omitempty"`
}
