package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mihir-M-marathe/CalTrail/models"
	"github.com/mihir-M-marathe/CalTrail/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentController struct {
	Comments *services.CommentService
	Meals    *services.MealService
	Users    *services.UserService
}

func NewCommentController(comments *services.CommentService, meals *services.MealService, users *services.UserService) *CommentController {
	return &CommentController{Comments: comments, Meals: meals, Users: users}
}

// GET /api/comments/meal/:mealEntryId — readable by anyone who can read the
// meal entry itself.
func (cc *CommentController) ListForMealEntry(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "mealEntryId")
	if !ok {
		return
	}

	entry, err := cc.Meals.GetEntry(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Meal entry")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !services.CanAccessMealEntry(actor, entry) {
		forbidden(c)
		return
	}

	comments, err := cc.Comments.ListForMealEntry(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": comments})
}

// GET /api/comments/user/:userId
func (cc *CommentController) ListForUser(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "userId")
	if !ok {
		return
	}

	target, err := cc.Users.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "User")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !services.CanAccessUserData(actor, target) {
		forbidden(c)
		return
	}

	var isPrivate *bool
	if v := c.Query("isPrivate"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid isPrivate"})
			return
		}
		isPrivate = &b
	}

	comments, pg, err := cc.Comments.ListForUser(id, isPrivate, queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"comments": comments, "pagination": pg}})
}

// POST /api/comments (nutritionist/admin, role gate at the route). The meal
// entry is resolved first; only then is the assignment checked.
func (cc *CommentController) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var input services.CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := cc.Meals.GetEntry(input.MealEntryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Meal entry")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !services.CanAuthorComment(actor, entry) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "You can only comment on meal entries of your assigned users"})
		return
	}

	comment, err := cc.Comments.Create(actor.ID, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	services.EmitCommentNotification(entry.UserID, comment)

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": comment})
}

// PUT /api/comments/:id — author or admin only.
func (cc *CommentController) Update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	existing, err := cc.Comments.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Comment")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !services.CanMutateRecord(actor, existing.AuthorID) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Access denied. You can only update your own comments."})
		return
	}

	var input services.CommentUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := cc.Comments.Update(id, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

// DELETE /api/comments/:id — author or admin only.
func (cc *CommentController) Delete(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	existing, err := cc.Comments.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Comment")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !services.CanMutateRecord(actor, existing.AuthorID) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Access denied. You can only delete your own comments."})
		return
	}

	if err := cc.Comments.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Comment deleted successfully"})
}

// GET /api/comments/nutritionist/:nutritionistId/recent — a nutritionist
// reviewing their own activity, or an admin.
func (cc *CommentController) RecentByAuthor(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "nutritionistId")
	if !ok {
		return
	}
	if actor.ID != id && actor.Role != models.RoleAdmin {
		forbidden(c)
		return
	}

	comments, err := cc.Comments.RecentByAuthor(id, queryInt(c, "limit", 10))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": comments})
}
