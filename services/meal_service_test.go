package services

import (
	"testing"
	"time"

	"github.com/mihir-M-marathe/CalTrail/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateEntryMissingFood(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)
	u := createUser(t, db, "alice", models.RoleUser, nil)

	_, err := svc.CreateEntry(u.ID, MealEntryInput{FoodID: 999, Quantity: 100})
	assert.ErrorIs(t, err, ErrFoodNotFound)
}

func TestCreateEntryResolvesFoodAndDefaultsDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)
	u := createUser(t, db, "alice", models.RoleUser, nil)
	f := createFood(t, db, "oats", 389, 16.9, 6.9, 66.3)

	before := time.Now()
	e, err := svc.CreateEntry(u.ID, MealEntryInput{
		FoodID:   f.ID,
		Quantity: 60,
		MealType: models.MealTypeBreakfast,
		Notes:    "with milk",
	})
	require.NoError(t, err)

	assert.Equal(t, u.ID, e.UserID)
	assert.Equal(t, f.ID, e.Food.ID)
	assert.Equal(t, "oats", e.Food.Name)
	assert.False(t, e.Date.Before(before.Add(-time.Second)), "date defaults to now")
}

func TestGetEntryPreloadsOwnerForScoping(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)
	n := createUser(t, db, "nina", models.RoleNutritionist, nil)
	u := createUser(t, db, "alice", models.RoleUser, &n.ID)
	f := createFood(t, db, "rice", 112, 2.6, 0.9, 23)
	created := createEntry(t, db, u.ID, f.ID, 200, time.Now().UTC(), models.MealTypeLunch)

	e, err := svc.GetEntry(created.ID)
	require.NoError(t, err)

	require.NotNil(t, e.User.AssignedNutritionistID)
	assert.Equal(t, n.ID, *e.User.AssignedNutritionistID)
	assert.True(t, CanAccessMealEntry(ActorFor(n), e))
	assert.Equal(t, "rice", e.Food.Name)
}

func TestGetEntryNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)

	_, err := svc.GetEntry(12345)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListForUserFiltersAndTotals(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)
	u := createUser(t, db, "alice", models.RoleUser, nil)
	other := createUser(t, db, "bob", models.RoleUser, nil)
	f := createFood(t, db, "egg", 155, 13, 11, 1.1)

	day := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	createEntry(t, db, u.ID, f.ID, 100, day, models.MealTypeBreakfast)
	createEntry(t, db, u.ID, f.ID, 50, day.Add(4*time.Hour), models.MealTypeLunch)
	createEntry(t, db, other.ID, f.ID, 100, day, models.MealTypeBreakfast)

	entries, totals, page, err := svc.ListForUser(u.ID, MealEntryFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 2, "other users' entries excluded")
	assert.InDelta(t, 232.5, totals.Calories, 0.001) // 155 + 77.5
	assert.Equal(t, int64(2), page.Count)
	assert.Equal(t, 1, page.Current)

	entries, _, _, err = svc.ListForUser(u.ID, MealEntryFilter{MealType: models.MealTypeLunch})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.MealTypeLunch, entries[0].MealType)

	from := day.Add(2 * time.Hour)
	entries, _, _, err = svc.ListForUser(u.ID, MealEntryFilter{StartDate: &from})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestListForUserPagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)
	u := createUser(t, db, "alice", models.RoleUser, nil)
	f := createFood(t, db, "apple", 52, 0.3, 0.2, 14)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		createEntry(t, db, u.ID, f.ID, 100, base.AddDate(0, 0, i), models.MealTypeSnack)
	}

	entries, _, page, err := svc.ListForUser(u.ID, MealEntryFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 2, page.Current)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, int64(5), page.Count)
}

func TestUpdateEntryPartial(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)
	u := createUser(t, db, "alice", models.RoleUser, nil)
	f := createFood(t, db, "yogurt", 59, 10, 0.4, 3.6)
	created := createEntry(t, db, u.ID, f.ID, 150, time.Now().UTC(), models.MealTypeBreakfast)

	q := 200.0
	updated, err := svc.UpdateEntry(created.ID, MealEntryUpdate{Quantity: &q})
	require.NoError(t, err)

	assert.InDelta(t, 200, updated.Quantity, 0.001)
	assert.Equal(t, models.MealTypeBreakfast, updated.MealType, "untouched fields survive")
	assert.Equal(t, "yogurt", updated.Food.Name)
}

func TestDeleteEntryCascadesComments(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)
	n := createUser(t, db, "nina", models.RoleNutritionist, nil)
	u := createUser(t, db, "alice", models.RoleUser, &n.ID)
	f := createFood(t, db, "bread", 265, 9, 3.2, 49)
	created := createEntry(t, db, u.ID, f.ID, 80, time.Now().UTC(), models.MealTypeBreakfast)

	require.NoError(t, db.Create(&models.Comment{
		MealEntryID: created.ID,
		AuthorID:    n.ID,
		Message:     "watch the portion size",
	}).Error)

	require.NoError(t, svc.DeleteEntry(created.ID))

	var comments int64
	require.NoError(t, db.Model(&models.Comment{}).Where("meal_entry_id = ?", created.ID).Count(&comments).Error)
	assert.Zero(t, comments)

	_, err := svc.GetEntry(created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDailySummaryBoundaries(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)
	u := createUser(t, db, "alice", models.RoleUser, nil)
	f := createFood(t, db, "pasta", 131, 5, 1.1, 25)

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	createEntry(t, db, u.ID, f.ID, 100, day.Add(8*time.Hour), models.MealTypeBreakfast)
	createEntry(t, db, u.ID, f.ID, 100, day.Add(20*time.Hour), models.MealTypeDinner)
	createEntry(t, db, u.ID, f.ID, 100, day.AddDate(0, 0, 1).Add(8*time.Hour), models.MealTypeBreakfast)

	sum, err := svc.DailySummary(u.ID, day.Add(12*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "2024-05-01", sum.Date)
	assert.Equal(t, 2, sum.TotalEntries, "next day excluded")
	assert.InDelta(t, 262, sum.Totals.Calories, 0.001)
	assert.Len(t, sum.MealsByType[models.MealTypeBreakfast], 1)
	assert.Len(t, sum.MealsByType[models.MealTypeDinner], 1)
}

func TestWeeklySummaryFromService(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)
	u := createUser(t, db, "alice", models.RoleUser, nil)
	f := createFood(t, db, "steak", 271, 25, 19, 0)

	// week of Sunday 2024-03-10
	createEntry(t, db, u.ID, f.ID, 100, time.Date(2024, 3, 11, 19, 0, 0, 0, time.UTC), models.MealTypeDinner)
	createEntry(t, db, u.ID, f.ID, 100, time.Date(2024, 3, 20, 19, 0, 0, 0, time.UTC), models.MealTypeDinner)

	sum, err := svc.WeeklySummary(u.ID, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "2024-03-10", sum.WeekStart)
	assert.Equal(t, 1, sum.TotalEntries, "entry in the following week excluded")
	require.Len(t, sum.DailyData, 7)
	assert.Equal(t, 1, sum.DailyData[1].Entries)
}
