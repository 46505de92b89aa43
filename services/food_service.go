// services/food_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mihir-M-marathe/CalTrail/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	// ErrFoodInUse blocks deletion while meal entries still reference the food.
	ErrFoodInUse = errors.New("food is referenced by meal entries")
)

const usdaCacheTTL = time.Hour

type FoodService struct {
	db    *gorm.DB
	usda  *USDAService
	cache *redis.Client
}

// NewFoodService wires the catalog. usda and cache may be nil (tests, or a
// deployment without the external source); only the USDA endpoints need them.
func NewFoodService(db *gorm.DB, usda *USDAService, cache *redis.Client) *FoodService {
	return &FoodService{db: db, usda: usda, cache: cache}
}

type FoodInput struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Brand       string   `json:"brand" binding:"max=100"`
	Description string   `json:"description" binding:"max=500"`
	Calories    float64  `json:"calories" binding:"min=0"`
	Protein     float64  `json:"protein" binding:"min=0"`
	Fat         float64  `json:"fat" binding:"min=0"`
	Carbs       float64  `json:"carbs" binding:"min=0"`
	Fiber       float64  `json:"fiber" binding:"min=0"`
	Sugar       float64  `json:"sugar" binding:"min=0"`
	Sodium      float64  `json:"sodium" binding:"min=0"`
	VitaminA    *float64 `json:"vitaminA" binding:"omitempty,min=0"`
	VitaminC    *float64 `json:"vitaminC" binding:"omitempty,min=0"`
	Calcium     *float64 `json:"calcium" binding:"omitempty,min=0"`
	Iron        *float64 `json:"iron" binding:"omitempty,min=0"`
}

func (s *FoodService) List(search string, source models.FoodSource, page, limit int) ([]models.Food, Pagination, error) {
	page, limit = clampPageLimit(page, limit, 20, 100)

	q := s.db.Model(&models.Food{})
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}
	if source != "" {
		q = q.Where("source = ?", source)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var foods []models.Food
	err := q.Order("name ASC").Offset((page - 1) * limit).Limit(limit).Find(&foods).Error
	if err != nil {
		return nil, Pagination{}, err
	}
	return foods, paginate(page, limit, total), nil
}

func (s *FoodService) Get(id uint) (*models.Food, error) {
	var food models.Food
	if err := s.db.First(&food, id).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

func (s *FoodService) Create(in FoodInput) (*models.Food, error) {
	food := &models.Food{
		Name:        in.Name,
		Brand:       in.Brand,
		Description: in.Description,
		Calories:    in.Calories,
		Protein:     in.Protein,
		Fat:         in.Fat,
		Carbs:       in.Carbs,
		Fiber:       in.Fiber,
		Sugar:       in.Sugar,
		Sodium:      in.Sodium,
		VitaminA:    in.VitaminA,
		VitaminC:    in.VitaminC,
		Calcium:     in.Calcium,
		Iron:        in.Iron,
		Source:      models.FoodSourceCustom,
	}
	if err := s.db.Create(food).Error; err != nil {
		return nil, err
	}
	return food, nil
}

func (s *FoodService) Update(id uint, in FoodInput) (*models.Food, error) {
	var food models.Food
	if err := s.db.First(&food, id).Error; err != nil {
		return nil, err
	}
	food.Name = in.Name
	food.Brand = in.Brand
	food.Description = in.Description
	food.Calories = in.Calories
	food.Protein = in.Protein
	food.Fat = in.Fat
	food.Carbs = in.Carbs
	food.Fiber = in.Fiber
	food.Sugar = in.Sugar
	food.Sodium = in.Sodium
	food.VitaminA = in.VitaminA
	food.VitaminC = in.VitaminC
	food.Calcium = in.Calcium
	food.Iron = in.Iron
	if err := s.db.Save(&food).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

// Delete refuses while any meal entry still references the food.
func (s *FoodService) Delete(id uint) error {
	var food models.Food
	if err := s.db.First(&food, id).Error; err != nil {
		return err
	}

	var refs int64
	if err := s.db.Model(&models.MealEntry{}).Where("food_id = ?", id).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return ErrFoodInUse
	}
	return s.db.Delete(&food).Error
}

// SearchUSDA proxies the external search, caching result pages in redis so
// repeated catalog lookups don't burn API quota.
func (s *FoodService) SearchUSDA(ctx context.Context, query string, limit int) ([]USDAFood, error) {
	if s.usda == nil {
		return nil, fmt.Errorf("USDA source not configured")
	}
	if limit <= 0 {
		limit = 10
	}

	key := fmt.Sprintf("usda:search:%s:%d", strings.ToLower(query), limit)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Result(); err == nil {
			var cached []USDAFood
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	results, err := s.usda.Search(query, limit)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if b, err := json.Marshal(results); err == nil {
			s.cache.Set(ctx, key, b, usdaCacheTTL)
		}
	}
	return results, nil
}

// ImportUSDA materializes a FoodData Central entry as a local Food row. An
// already-imported fdcId returns the existing row instead of duplicating it.
func (s *FoodService) ImportUSDA(ctx context.Context, fdcID string) (*models.Food, error) {
	if s.usda == nil {
		return nil, fmt.Errorf("USDA source not configured")
	}

	var existing models.Food
	err := s.db.Where("usda_fdc_id = ?", fdcID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	remote, err := s.usda.Fetch(fdcID)
	if err != nil {
		return nil, err
	}

	food := &models.Food{
		Name:      remote.Description,
		Brand:     remote.Brand,
		Calories:  remote.Calories,
		Protein:   remote.Protein,
		Fat:       remote.Fat,
		Carbs:     remote.Carbs,
		Fiber:     remote.Fiber,
		Sugar:     remote.Sugar,
		Sodium:    remote.Sodium,
		Source:    models.FoodSourceUSDA,
		UsdaFdcID: &remote.FdcID,
	}
	if err := s.db.Create(food).Error; err != nil {
		return nil, err
	}
	return food, nil
}
