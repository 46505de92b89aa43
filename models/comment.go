package models

import "gorm.io/gorm"

// Comment is a nutritionist's (or admin's) note on a meal entry. The author
// must be the entry owner's assigned nutritionist or an admin at creation
// time; updates and deletes stay with the author (or an admin).
type Comment struct {
	gorm.Model
	MealEntryID uint      `gorm:"index;not null" json:"mealEntryId"`
	MealEntry   MealEntry `json:"mealEntry,omitempty"`

	AuthorID uint `gorm:"index;not null" json:"authorId"`
	Author   User `json:"author,omitempty"`

	Message   string `gorm:"not null" json:"message"`
	IsPrivate bool   `gorm:"default:false" json:"isPrivate"`
}
