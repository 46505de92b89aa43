package controllers

import (
	"errors"
	"net/http"

	"github.com/mihir-M-marathe/CalTrail/models"
	"github.com/mihir-M-marathe/CalTrail/services"
	"github.com/mihir-M-marathe/CalTrail/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

// GET /api/users
func (u *UserController) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	if !services.CanListUsers(actor) {
		forbidden(c)
		return
	}

	users, pg, err := u.Users.List(actor, services.UserListFilter{
		Role:   models.Role(c.Query("role")),
		Search: c.Query("search"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"users": users, "pagination": pg}})
}

// GET /api/users/:id — the target must be resolved before the permission
// check so an unknown id reads as 404, never 403.
func (u *UserController) Get(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	target, err := u.Users.Get(id)
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

	resp := gin.H{"success": true, "data": target}
	if bmi, err := utils.CalculateBMI(target.Height, target.Weight); err == nil {
		resp["bmi"] = bmi
		resp["bmiCategory"] = utils.BMICategory(bmi)
	}
	c.JSON(http.StatusOK, resp)
}

// PUT /api/users/:id — profile is self-data; only the owner (or an admin)
// may mutate it, and role/email are untouchable regardless.
func (u *UserController) Update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	target, err := u.Users.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "User")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !services.CanMutateRecord(actor, target.ID) {
		forbidden(c)
		return
	}

	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := u.Users.UpdateProfile(id, input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

type assignInput struct {
	NutritionistID *uint `json:"nutritionistId"`
}

// PUT /api/users/:id/assign-nutritionist (admin, enforced at the route)
func (u *UserController) AssignNutritionist(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input assignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := u.Users.AssignNutritionist(id, input.NutritionistID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidNutritionist):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid nutritionist ID"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			notFound(c, "User")
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

// GET /api/users/:id/nutrition-summary
func (u *UserController) NutritionSummary(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	target, err := u.Users.Get(id)
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

	from, err := queryDate(c, "startDate")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
		return
	}
	to, err := queryDate(c, "endDate")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
		return
	}

	out, err := u.Users.NutritionSummary(id, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

// DELETE /api/users/:id (admin, enforced at the route)
func (u *UserController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := u.Users.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "User")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}
