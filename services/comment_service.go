// services/comment_service.go
package services

import (
	"github.com/mihir-M-marathe/CalTrail/models"

	"gorm.io/gorm"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

type CommentInput struct {
	MealEntryID uint   `json:"mealEntryId" binding:"required"`
	Message     string `json:"message" binding:"required,min=1,max=1000"`
	IsPrivate   bool   `json:"isPrivate"`
}

type CommentUpdate struct {
	Message   string `json:"message" binding:"required,min=1,max=1000"`
	IsPrivate *bool  `json:"isPrivate"`
}

func (s *CommentService) Get(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Create persists the comment. The caller has already resolved the meal entry
// and run CanAuthorComment against it.
func (s *CommentService) Create(authorID uint, in CommentInput) (*models.Comment, error) {
	comment := &models.Comment{
		MealEntryID: in.MealEntryID,
		AuthorID:    authorID,
		Message:     in.Message,
		IsPrivate:   in.IsPrivate,
	}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, err
	}
	err := s.db.
		Preload("Author").
		Preload("MealEntry").
		Preload("MealEntry.Food").
		First(comment, comment.ID).Error
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListForMealEntry(mealEntryID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.
		Preload("Author").
		Where("meal_entry_id = ?", mealEntryID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// ListForUser pages through every comment on the user's meal entries,
// optionally filtered by the private flag.
func (s *CommentService) ListForUser(userID uint, isPrivate *bool, page, limit int) ([]models.Comment, Pagination, error) {
	page, limit = clampPageLimit(page, limit, 20, 100)

	q := s.db.Model(&models.Comment{}).
		Joins("JOIN meal_entries ON meal_entries.id = comments.meal_entry_id").
		Where("meal_entries.user_id = ?", userID)
	if isPrivate != nil {
		q = q.Where("comments.is_private = ?", *isPrivate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var comments []models.Comment
	err := q.
		Preload("Author").
		Preload("MealEntry").
		Preload("MealEntry.Food").
		Order("comments.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, Pagination{}, err
	}
	return comments, paginate(page, limit, total), nil
}

func (s *CommentService) RecentByAuthor(authorID uint, limit int) ([]models.Comment, error) {
	if limit <= 0 {
		limit = 10
	}
	var comments []models.Comment
	err := s.db.
		Preload("MealEntry").
		Preload("MealEntry.Food").
		Preload("MealEntry.User").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

func (s *CommentService) Update(id uint, in CommentUpdate) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	comment.Message = in.Message
	if in.IsPrivate != nil {
		comment.IsPrivate = *in.IsPrivate
	}
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *CommentService) Delete(id uint) error {
	return s.db.Delete(&models.Comment{}, id).Error
}
