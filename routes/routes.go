package routes

import (
	"net/http"
	"time"

	"github.com/mihir-M-marathe/CalTrail/controllers"
	"github.com/mihir-M-marathe/CalTrail/middlewares"
	"github.com/mihir-M-marathe/CalTrail/models"
	"github.com/mihir-M-marathe/CalTrail/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, rdb *redis.Client, hub *services.RealtimeHub) *gin.Engine {
	r := gin.Default()

	authService := services.NewAuthService(db)
	userService := services.NewUserService(db)
	foodService := services.NewFoodService(db, services.NewUSDAService(), rdb)
	mealService := services.NewMealService(db)
	commentService := services.NewCommentService(db)
	notificationService := services.NewNotificationService(db)

	authController := controllers.NewAuthController(authService)
	userController := controllers.NewUserController(userService)
	foodController := controllers.NewFoodController(foodService)
	mealController := controllers.NewMealController(mealService, userService)
	commentController := controllers.NewCommentController(commentService, mealService, userService)
	notificationController := controllers.NewNotificationController(notificationService)
	realtimeController := controllers.NewRealtimeController(hub)
	devController := controllers.NewDevController(db)

	started := time.Now()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(started).String(),
		})
	})

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(db))

	users := api.Group("/users")
	{
		users.GET("", userController.List)
		users.GET("/:id", userController.Get)
		users.PUT("/:id", userController.Update)
		users.PUT("/:id/assign-nutritionist",
			middlewares.RequireRoles(models.RoleAdmin),
			userController.AssignNutritionist)
		users.GET("/:id/nutrition-summary", userController.NutritionSummary)
		users.DELETE("/:id",
			middlewares.RequireRoles(models.RoleAdmin),
			userController.Delete)
	}

	foods := api.Group("/foods")
	{
		foods.GET("", foodController.List)
		foods.GET("/search/usda", foodController.SearchUSDA)
		foods.GET("/:id", foodController.Get)
		foods.POST("",
			middlewares.RequireRoles(models.RoleNutritionist, models.RoleAdmin),
			foodController.Create)
		foods.POST("/import/usda",
			middlewares.RequireRoles(models.RoleNutritionist, models.RoleAdmin),
			foodController.ImportUSDA)
		foods.PUT("/:id",
			middlewares.RequireRoles(models.RoleNutritionist, models.RoleAdmin),
			foodController.Update)
		foods.DELETE("/:id",
			middlewares.RequireRoles(models.RoleAdmin),
			foodController.Delete)
	}

	meals := api.Group("/meals")
	{
		meals.POST("", mealController.Create)
		meals.GET("/:id", mealController.Get)
		meals.PUT("/:id", mealController.Update)
		meals.DELETE("/:id", mealController.Delete)
		meals.GET("/user/:userId", mealController.ListForUser)
		meals.GET("/user/:userId/daily/:date", mealController.DailySummary)
		meals.GET("/user/:userId/weekly", mealController.WeeklySummary)
	}

	comments := api.Group("/comments")
	{
		comments.GET("/meal/:mealEntryId", commentController.ListForMealEntry)
		comments.GET("/user/:userId", commentController.ListForUser)
		comments.POST("",
			middlewares.RequireRoles(models.RoleNutritionist, models.RoleAdmin),
			commentController.Create)
		comments.PUT("/:id", commentController.Update)
		comments.DELETE("/:id", commentController.Delete)
		comments.GET("/nutritionist/:nutritionistId/recent", commentController.RecentByAuthor)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("", notificationController.List)
		notifications.POST("/:id/read", notificationController.MarkRead)
	}

	api.GET("/ws/notifications", realtimeController.NotificationsWS)

	api.POST("/dev/seed", devController.Seed)

	return r
}
