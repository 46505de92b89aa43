package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/mihir-M-marathe/CalTrail/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MealController struct {
	Meals *services.MealService
	Users *services.UserService
}

func NewMealController(meals *services.MealService, users *services.UserService) *MealController {
	return &MealController{Meals: meals, Users: users}
}

// resolveTargetUser loads the :userId user and runs the scoping check.
// Resolution happens first: a missing user is a 404 even for actors who
// would not have been allowed to see it.
func (m *MealController) resolveTargetUser(c *gin.Context) (uint, bool) {
	actor, ok := actorFrom(c)
	if !ok {
		return 0, false
	}
	id, ok := paramID(c, "userId")
	if !ok {
		return 0, false
	}
	target, err := m.Users.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "User")
			return 0, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return 0, false
	}
	if !services.CanAccessUserData(actor, target) {
		forbidden(c)
		return 0, false
	}
	return id, true
}

// POST /api/meals — entries are always created for the actor themself.
func (m *MealController) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var input services.MealEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := m.Meals.CreateEntry(actor.ID, input)
	if err != nil {
		if errors.Is(err, services.ErrFoodNotFound) {
			notFound(c, "Food")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": entry})
}

// GET /api/meals/:id
func (m *MealController) Get(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	entry, err := m.Meals.GetEntry(id)
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
	c.JSON(http.StatusOK, gin.H{"success": true, "data": entry})
}

// PUT /api/meals/:id — strict ownership; even the assigned nutritionist is
// denied here.
func (m *MealController) Update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	entry, err := m.Meals.GetEntry(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Meal entry")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !services.CanMutateRecord(actor, entry.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Access denied. You can only update your own meal entries."})
		return
	}

	var input services.MealEntryUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := m.Meals.UpdateEntry(id, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

// DELETE /api/meals/:id
func (m *MealController) Delete(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	entry, err := m.Meals.GetEntry(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Meal entry")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !services.CanMutateRecord(actor, entry.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Access denied. You can only delete your own meal entries."})
		return
	}

	if err := m.Meals.DeleteEntry(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Meal entry deleted successfully"})
}

// GET /api/meals/user/:userId
func (m *MealController) ListForUser(c *gin.Context) {
	userID, ok := m.resolveTargetUser(c)
	if !ok {
		return
	}

	start, err := queryDate(c, "startDate")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
		return
	}
	end, err := queryDate(c, "endDate")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
		return
	}

	entries, totals, pg, err := m.Meals.ListForUser(userID, services.MealEntryFilter{
		StartDate: start,
		EndDate:   end,
		MealType:  c.Query("mealType"),
		Page:      queryInt(c, "page", 1),
		Limit:     queryInt(c, "limit", 20),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"mealEntries":     entries,
		"nutritionTotals": totals,
		"pagination":      pg,
	}})
}

// GET /api/meals/user/:userId/daily/:date
func (m *MealController) DailySummary(c *gin.Context) {
	userID, ok := m.resolveTargetUser(c)
	if !ok {
		return
	}
	date, err := time.ParseInLocation("2006-01-02", c.Param("date"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	out, err := m.Meals.DailySummary(userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

// GET /api/meals/user/:userId/weekly?startDate=YYYY-MM-DD
func (m *MealController) WeeklySummary(c *gin.Context) {
	userID, ok := m.resolveTargetUser(c)
	if !ok {
		return
	}

	ref := time.Now()
	if v := c.Query("startDate"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate, expected YYYY-MM-DD"})
			return
		}
		ref = parsed
	}

	out, err := m.Meals.WeeklySummary(userID, ref)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}
