// services/user_service.go
package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mihir-M-marathe/CalTrail/models"
	"github.com/mihir-M-marathe/CalTrail/utils"

	"gorm.io/gorm"
)

var ErrInvalidNutritionist = errors.New("assigned id does not reference a nutritionist")

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type UserListFilter struct {
	Role   models.Role
	Search string
	Page   int
	Limit  int
}

// List returns the user directory scoped by the actor's role: admins see
// everyone, nutritionists only their assigned users plus themselves. The
// role gate itself (CanListUsers) is the caller's job.
func (s *UserService) List(actor Actor, f UserListFilter) ([]models.User, Pagination, error) {
	page, limit := clampPageLimit(f.Page, f.Limit, 10, 100)

	q := s.db.Model(&models.User{})
	if actor.Role == models.RoleNutritionist {
		q = q.Where("assigned_nutritionist_id = ? OR id = ?", actor.ID, actor.ID)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var users []models.User
	err := q.
		Preload("AssignedNutritionist").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, Pagination{}, err
	}
	return users, paginate(page, limit, total), nil
}

func (s *UserService) Get(id uint) (*models.User, error) {
	var user models.User
	err := s.db.Preload("AssignedNutritionist").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type ProfileInput struct {
	Name          string   `json:"name"`
	DateOfBirth   string   `json:"dateOfBirth"` // YYYY-MM-DD
	Height        *float64 `json:"height" binding:"omitempty,gt=0"`
	Weight        *float64 `json:"weight" binding:"omitempty,gt=0"`
	Gender        string   `json:"gender"`
	ActivityLevel string   `json:"activityLevel"`
	Goals         string   `json:"goals"`
	// data-URI base64 image; uploaded to S3 when present
	ProfilePicture string `json:"profilePicture"`
}

// UpdateProfile applies partial updates to the user's own attributes. Role
// and email are never touched here.
func (s *UserService) UpdateProfile(id uint, in ProfileInput) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", in.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("invalid dateOfBirth: %w", err)
		}
		user.DateOfBirth = &dob
	}
	if in.Height != nil {
		user.Height = *in.Height
	}
	if in.Weight != nil {
		user.Weight = *in.Weight
	}
	if in.Gender != "" {
		user.Gender = in.Gender
	}
	if in.ActivityLevel != "" {
		user.ActivityLevel = in.ActivityLevel
	}
	if in.Goals != "" {
		user.Goals = in.Goals
	}
	if in.ProfilePicture != "" {
		url, err := utils.UploadBase64ImageToS3(in.ProfilePicture, fmt.Sprintf("user-%d", user.ID))
		if err != nil {
			return nil, fmt.Errorf("failed to upload profile picture: %w", err)
		}
		user.ProfilePicture = url
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// AssignNutritionist links (or with nil, unlinks) a user's nutritionist.
// The target of the assignment must actually hold the NUTRITIONIST role.
func (s *UserService) AssignNutritionist(userID uint, nutritionistID *uint) (*models.User, error) {
	if nutritionistID != nil {
		var n models.User
		err := s.db.Where("id = ? AND role = ?", *nutritionistID, models.RoleNutritionist).First(&n).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidNutritionist
			}
			return nil, err
		}
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	user.AssignedNutritionistID = nutritionistID
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return s.Get(user.ID)
}

func (s *UserService) Delete(id uint) error {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return err
	}
	return s.db.Delete(&user).Error
}

type NutritionSummaryResult struct {
	Summary        NutrientTotals `json:"summary"`
	DailyBreakdown []DayTotals    `json:"dailyBreakdown"`
	TotalEntries   int            `json:"totalEntries"`
}

// NutritionSummary reduces a user's entries over an optional date range into
// grand totals plus a per-day breakdown, newest day first.
func (s *UserService) NutritionSummary(userID uint, from, to *time.Time) (*NutritionSummaryResult, error) {
	q := s.db.Preload("Food").Where("user_id = ?", userID)
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}

	var entries []models.MealEntry
	if err := q.Order("date DESC").Find(&entries).Error; err != nil {
		return nil, err
	}

	out := &NutritionSummaryResult{TotalEntries: len(entries)}
	byDay := map[string]*DayTotals{}
	for i := range entries {
		e := &entries[i]
		if err := checkEntry(e); err != nil {
			return nil, err
		}
		m := e.Quantity / 100
		out.Summary.accumulate(&e.Food, m)

		key := e.Date.Format("2006-01-02")
		d, ok := byDay[key]
		if !ok {
			d = &DayTotals{Date: key}
			byDay[key] = d
		}
		d.Calories += e.Food.Calories * m
		d.Protein += e.Food.Protein * m
		d.Fat += e.Food.Fat * m
		d.Carbs += e.Food.Carbs * m
		d.Entries++
	}

	out.DailyBreakdown = make([]DayTotals, 0, len(byDay))
	for _, d := range byDay {
		out.DailyBreakdown = append(out.DailyBreakdown, *d)
	}
	sort.Slice(out.DailyBreakdown, func(i, j int) bool {
		return out.DailyBreakdown[i].Date > out.DailyBreakdown[j].Date
	})
	return out, nil
}
