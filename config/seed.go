package config

import (
	"errors"
	"log"

	"github.com/mihir-M-marathe/CalTrail/models"
	"github.com/mihir-M-marathe/CalTrail/utils"

	"gorm.io/gorm"
)

// Seed provisions the demo accounts and a starter food catalog. Idempotent:
// rows are keyed by email / food name and left alone when they exist.
func Seed(db *gorm.DB) error {
	admin, err := seedUser(db, models.User{
		Name:  "Admin User",
		Email: "admin@caltrail.com",
		Role:  models.RoleAdmin,
	}, "admin123")
	if err != nil {
		return err
	}

	nutritionist, err := seedUser(db, models.User{
		Name:  "Dr. Sarah Johnson",
		Email: "nutritionist@caltrail.com",
		Role:  models.RoleNutritionist,
	}, "nutritionist123")
	if err != nil {
		return err
	}

	demo := []models.User{
		{Name: "Demo User 1", Email: "user1@caltrail.com", Height: 172, Weight: 68, Gender: "male", ActivityLevel: "lightly_active", Goals: "maintain"},
		{Name: "Demo User 2", Email: "user2@caltrail.com", Height: 165, Weight: 74, Gender: "female", ActivityLevel: "moderately_active", Goals: "lose"},
		{Name: "Demo User 3", Email: "user3@caltrail.com", Height: 181, Weight: 90, Gender: "male", ActivityLevel: "sedentary", Goals: "gain"},
	}
	for _, u := range demo {
		u.Role = models.RoleUser
		u.AssignedNutritionistID = &nutritionist.ID
		if _, err := seedUser(db, u, "user123"); err != nil {
			return err
		}
	}

	foods := []models.Food{
		{Name: "Chicken Breast (Cooked)", Description: "Skinless, boneless chicken breast, grilled", Calories: 165, Protein: 31, Fat: 3.6, Carbs: 0, Fiber: 0},
		{Name: "Brown Rice (Cooked)", Description: "Long grain brown rice, cooked", Calories: 112, Protein: 2.6, Fat: 0.9, Carbs: 23, Fiber: 1.8},
		{Name: "Broccoli (Steamed)", Description: "Fresh broccoli, steamed", Calories: 35, Protein: 2.8, Fat: 0.4, Carbs: 7, Fiber: 2.6},
		{Name: "Salmon (Atlantic, Cooked)", Description: "Atlantic salmon, baked or grilled", Calories: 206, Protein: 22, Fat: 12, Carbs: 0, Fiber: 0},
		{Name: "Sweet Potato (Baked)", Description: "Baked sweet potato with skin", Calories: 103, Protein: 2.3, Fat: 0.1, Carbs: 24, Fiber: 3.9},
		{Name: "Greek Yogurt (Plain)", Description: "Non-fat Greek yogurt, plain", Calories: 59, Protein: 10, Fat: 0.4, Carbs: 3.6, Sugar: 3.2},
	}
	for _, f := range foods {
		f.Source = models.FoodSourceCustom
		if err := db.Where("name = ?", f.Name).FirstOrCreate(&f).Error; err != nil {
			return err
		}
	}

	log.Printf("Seed complete: admin=%s nutritionist=%s", admin.Email, nutritionist.Email)
	return nil
}

func seedUser(db *gorm.DB, u models.User, password string) (*models.User, error) {
	var existing models.User
	err := db.Where("email = ?", u.Email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u.Password = hashed
	if err := db.Create(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
