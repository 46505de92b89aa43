package controllers

import (
	"errors"
	"net/http"

	"github.com/mihir-M-marathe/CalTrail/models"
	"github.com/mihir-M-marathe/CalTrail/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FoodController struct {
	Foods *services.FoodService
}

func NewFoodController(foods *services.FoodService) *FoodController {
	return &FoodController{Foods: foods}
}

// GET /api/foods
func (f *FoodController) List(c *gin.Context) {
	foods, pg, err := f.Foods.List(
		c.Query("search"),
		models.FoodSource(c.Query("source")),
		queryInt(c, "page", 1),
		queryInt(c, "limit", 20),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"foods": foods, "pagination": pg}})
}

// GET /api/foods/:id
func (f *FoodController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	food, err := f.Foods.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Food")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": food})
}

// POST /api/foods (nutritionist/admin, enforced at the route)
func (f *FoodController) Create(c *gin.Context) {
	var input services.FoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	food, err := f.Foods.Create(input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": food})
}

// PUT /api/foods/:id (nutritionist/admin, enforced at the route)
func (f *FoodController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input services.FoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	food, err := f.Foods.Update(id, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Food")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": food})
}

// DELETE /api/foods/:id (admin, enforced at the route). Referenced foods
// conflict rather than cascade.
func (f *FoodController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := f.Foods.Delete(id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			notFound(c, "Food")
		case errors.Is(err, services.ErrFoodInUse):
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Cannot delete food that is used in meal entries"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Food deleted successfully"})
}

// GET /api/foods/search/usda?query=apple
func (f *FoodController) SearchUSDA(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}
	out, err := f.Foods.SearchUSDA(c.Request.Context(), query, queryInt(c, "limit", 10))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

type importUSDAInput struct {
	FdcID string `json:"fdcId" binding:"required"`
}

// POST /api/foods/import/usda (nutritionist/admin, enforced at the route)
func (f *FoodController) ImportUSDA(c *gin.Context) {
	var input importUSDAInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	food, err := f.Foods.ImportUSDA(c.Request.Context(), input.FdcID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": food})
}
