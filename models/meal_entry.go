package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"
	MealTypeOther     = "other" // bucket for unset/unrecognized meal types
)

// MealEntry is one logged portion of a food. Owned exclusively by UserID;
// writes are restricted to the owner (or an admin), reads follow the
// access-scoping rules.
type MealEntry struct {
	gorm.Model
	UserID uint `gorm:"index;not null" json:"userId"`
	User   User `json:"user,omitempty"`

	FoodID uint `gorm:"index;not null" json:"foodId"`
	Food   Food `json:"food,omitempty"`

	Quantity float64   `gorm:"not null" json:"quantity"` // grams
	Date     time.Time `gorm:"index;not null" json:"date"`
	MealType string    `gorm:"type:varchar(20)" json:"mealType,omitempty"` // empty means "other"
	Notes    string    `json:"notes,omitempty"`

	Comments []Comment `json:"comments,omitempty"`
}
