// services/meal_service.go
package services

import (
	"errors"
	"time"

	"github.com/mihir-M-marathe/CalTrail/models"

	"gorm.io/gorm"
)

var ErrFoodNotFound = errors.New("food not found")

type MealService struct {
	db *gorm.DB
}

func NewMealService(db *gorm.DB) *MealService {
	return &MealService{db: db}
}

type MealEntryInput struct {
	FoodID   uint       `json:"foodId" binding:"required"`
	Quantity float64    `json:"quantity" binding:"required,gt=0"`
	Date     *time.Time `json:"date"`
	MealType string     `json:"mealType" binding:"omitempty,oneof=breakfast lunch dinner snack other"`
	Notes    string     `json:"notes" binding:"max=500"`
}

type MealEntryUpdate struct {
	Quantity *float64   `json:"quantity" binding:"omitempty,gt=0"`
	Date     *time.Time `json:"date"`
	MealType *string    `json:"mealType" binding:"omitempty,oneof=breakfast lunch dinner snack other"`
	Notes    *string    `json:"notes" binding:"omitempty,max=500"`
}

type MealEntryFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	MealType  string
	Page      int
	Limit     int
}

// CreateEntry verifies the referenced food exists before writing; the food
// lookup failing is a NotFound, never an aggregation-time surprise.
func (s *MealService) CreateEntry(userID uint, in MealEntryInput) (*models.MealEntry, error) {
	var food models.Food
	if err := s.db.First(&food, in.FoodID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, err
	}

	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}
	entry := &models.MealEntry{
		UserID:   userID,
		FoodID:   food.ID,
		Quantity: in.Quantity,
		Date:     date,
		MealType: in.MealType,
		Notes:    in.Notes,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, err
	}
	entry.Food = food
	return entry, nil
}

// GetEntry loads the entry with its food, owner, and comments. The owner's
// assignment is needed by the scoping check, so User is always preloaded.
func (s *MealService) GetEntry(id uint) (*models.MealEntry, error) {
	var entry models.MealEntry
	err := s.db.
		Preload("Food").
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Comments.Author").
		First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListForUser returns a page of a user's entries plus the nutrition totals of
// that page.
func (s *MealService) ListForUser(userID uint, f MealEntryFilter) ([]models.MealEntry, *NutrientTotals, Pagination, error) {
	page, limit := clampPageLimit(f.Page, f.Limit, 20, 100)

	q := s.db.Model(&models.MealEntry{}).Where("user_id = ?", userID)
	if f.StartDate != nil {
		q = q.Where("date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("date <= ?", *f.EndDate)
	}
	if f.MealType != "" {
		q = q.Where("meal_type = ?", f.MealType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, nil, Pagination{}, err
	}

	var entries []models.MealEntry
	err := q.
		Preload("Food").
		Order("date DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, nil, Pagination{}, err
	}

	sum, err := AggregateDaily(entries)
	if err != nil {
		return nil, nil, Pagination{}, err
	}
	return entries, &sum.Totals, paginate(page, limit, total), nil
}

func (s *MealService) UpdateEntry(id uint, in MealEntryUpdate) (*models.MealEntry, error) {
	var entry models.MealEntry
	if err := s.db.First(&entry, id).Error; err != nil {
		return nil, err
	}
	if in.Quantity != nil {
		entry.Quantity = *in.Quantity
	}
	if in.Date != nil {
		entry.Date = *in.Date
	}
	if in.MealType != nil {
		entry.MealType = *in.MealType
	}
	if in.Notes != nil {
		entry.Notes = *in.Notes
	}
	if err := s.db.Save(&entry).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("Food").First(&entry, entry.ID).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *MealService) DeleteEntry(id uint) error {
	if err := s.db.Where("meal_entry_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	return s.db.Delete(&models.MealEntry{}, id).Error
}

type DailySummaryResult struct {
	Date string `json:"date"`
	MealTypeSummary
}

// DailySummary fetches a single calendar day (00:00:00.000 to 23:59:59.999
// local) and reduces it through the aggregation engine.
func (s *MealService) DailySummary(userID uint, date time.Time) (*DailySummaryResult, error) {
	entries, err := s.listRange(userID, StartOfDay(date), EndOfDay(date))
	if err != nil {
		return nil, err
	}
	sum, err := AggregateByType(entries)
	if err != nil {
		return nil, err
	}
	return &DailySummaryResult{
		Date:            date.Format("2006-01-02"),
		MealTypeSummary: *sum,
	}, nil
}

// WeeklySummary covers the Sunday-to-Saturday week containing ref.
func (s *MealService) WeeklySummary(userID uint, ref time.Time) (*WeeklySummary, error) {
	weekStart := WeekStartOf(ref)
	entries, err := s.listRange(userID, weekStart, EndOfDay(weekStart.AddDate(0, 0, 6)))
	if err != nil {
		return nil, err
	}
	return AggregateWeekly(entries, ref)
}

func (s *MealService) listRange(userID uint, from, to time.Time) ([]models.MealEntry, error) {
	var entries []models.MealEntry
	err := s.db.
		Preload("Food").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC").
		Find(&entries).Error
	return entries, err
}
