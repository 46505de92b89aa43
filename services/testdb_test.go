package services

import (
	"testing"
	"time"

	"github.com/mihir-M-marathe/CalTrail/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory sqlite database with the full schema.
// Max one open connection, otherwise the pool hands out fresh empty databases.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Food{},
		&models.MealEntry{},
		&models.Comment{},
		&models.Notification{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string, role models.Role, assignedTo *uint) *models.User {
	t.Helper()
	u := &models.User{
		Name:                   name,
		Email:                  name + "@example.com",
		Password:               "x",
		Role:                   role,
		AssignedNutritionistID: assignedTo,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createFood(t *testing.T, db *gorm.DB, name string, calories, protein, fat, carbs float64) *models.Food {
	t.Helper()
	f := &models.Food{
		Name:     name,
		Calories: calories,
		Protein:  protein,
		Fat:      fat,
		Carbs:    carbs,
		Source:   models.FoodSourceCustom,
	}
	require.NoError(t, db.Create(f).Error)
	return f
}

func createEntry(t *testing.T, db *gorm.DB, userID, foodID uint, quantity float64, date time.Time, mealType string) *models.MealEntry {
	t.Helper()
	e := &models.MealEntry{
		UserID:   userID,
		FoodID:   foodID,
		Quantity: quantity,
		Date:     date,
		MealType: mealType,
	}
	require.NoError(t, db.Create(e).Error)
	return e
}
