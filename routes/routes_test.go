package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mihir-M-marathe/CalTrail/config"
	"github.com/mihir-M-marathe/CalTrail/models"
	"github.com/mihir-M-marathe/CalTrail/services"
	"github.com/mihir-M-marathe/CalTrail/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAPIServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "integration-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))

	return SetupRouter(db, nil, services.NewRealtimeHub()), db
}

func seedAccount(t *testing.T, db *gorm.DB, name string, role models.Role, assignedTo *uint) *models.User {
	t.Helper()
	u := &models.User{
		Name:                   name,
		Email:                  name + "@example.com",
		Password:               "x",
		Role:                   role,
		AssignedNutritionistID: assignedTo,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedCatalogFood(t *testing.T, db *gorm.DB, name string, calories float64) *models.Food {
	t.Helper()
	f := &models.Food{Name: name, Calories: calories, Source: models.FoodSourceCustom}
	require.NoError(t, db.Create(f).Error)
	return f
}

func bearer(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := utils.GenerateJWT(u.ID, u.Email)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthIsPublic(t *testing.T) {
	r, _ := newAPIServer(t)
	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	r, _ := newAPIServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "s3cret99",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"role":"USER"`)
	assert.NotContains(t, w.Body.String(), "s3cret99", "password never echoed")

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "s3cret99",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	r, _ := newAPIServer(t)
	w := doJSON(t, r, http.MethodGet, "/api/foods", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMealEntryAccessMatrix(t *testing.T) {
	r, db := newAPIServer(t)

	nina := seedAccount(t, db, "nina", models.RoleNutritionist, nil)
	alice := seedAccount(t, db, "alice", models.RoleUser, &nina.ID)
	bob := seedAccount(t, db, "bob", models.RoleUser, nil)
	admin := seedAccount(t, db, "root", models.RoleAdmin, nil)
	food := seedCatalogFood(t, db, "oats", 389)

	w := doJSON(t, r, http.MethodPost, "/api/meals", bearer(t, alice), gin.H{
		"foodId": food.ID, "quantity": 60, "mealType": "breakfast",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data models.MealEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	entryPath := fmt.Sprintf("/api/meals/%d", created.Data.ID)

	// a nonexistent entry is 404 for everyone, before any permission answer
	w = doJSON(t, r, http.MethodGet, "/api/meals/999999", bearer(t, bob), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, entryPath, bearer(t, bob), nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "unrelated user denied")

	w = doJSON(t, r, http.MethodGet, entryPath, bearer(t, nina), nil)
	assert.Equal(t, http.StatusOK, w.Code, "assigned nutritionist can read")

	// reads never imply writes
	w = doJSON(t, r, http.MethodPut, entryPath, bearer(t, nina), gin.H{"quantity": 90})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPut, entryPath, bearer(t, alice), gin.H{"quantity": 90})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, entryPath, bearer(t, admin), nil)
	assert.Equal(t, http.StatusOK, w.Code, "admin may delete any entry")
}

func TestMealsForOtherUserScoped(t *testing.T) {
	r, db := newAPIServer(t)

	nina := seedAccount(t, db, "nina", models.RoleNutritionist, nil)
	alice := seedAccount(t, db, "alice", models.RoleUser, &nina.ID)
	bob := seedAccount(t, db, "bob", models.RoleUser, nil)

	alicePath := fmt.Sprintf("/api/meals/user/%d", alice.ID)

	w := doJSON(t, r, http.MethodGet, "/api/meals/user/999999", bearer(t, bob), nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "missing user stays 404, not 403")

	w = doJSON(t, r, http.MethodGet, alicePath, bearer(t, bob), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, alicePath, bearer(t, nina), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, alicePath+"/daily/2024-05-01", bearer(t, alice), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, alicePath+"/daily/May-1st", bearer(t, alice), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, alicePath+"/weekly?startDate=2024-05-01", bearer(t, alice), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCommentRoleGateAndNotification(t *testing.T) {
	r, db := newAPIServer(t)
	services.InitNotifier(db, services.NewRealtimeHub())
	t.Cleanup(func() { services.InitNotifier(nil, nil) })

	nina := seedAccount(t, db, "nina", models.RoleNutritionist, nil)
	alice := seedAccount(t, db, "alice", models.RoleUser, &nina.ID)
	bob := seedAccount(t, db, "bob", models.RoleUser, nil)
	food := seedCatalogFood(t, db, "salmon", 208)

	entry := &models.MealEntry{UserID: alice.ID, FoodID: food.ID, Quantity: 150, Date: time.Now(), MealType: models.MealTypeDinner}
	require.NoError(t, db.Create(entry).Error)
	bobEntry := &models.MealEntry{UserID: bob.ID, FoodID: food.ID, Quantity: 100, Date: time.Now(), MealType: models.MealTypeDinner}
	require.NoError(t, db.Create(bobEntry).Error)

	// plain users never reach the handler
	w := doJSON(t, r, http.MethodPost, "/api/comments", bearer(t, alice), gin.H{
		"mealEntryId": entry.ID, "message": "note to self",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// nutritionist, but not assigned to bob
	w = doJSON(t, r, http.MethodPost, "/api/comments", bearer(t, nina), gin.H{
		"mealEntryId": bobEntry.ID, "message": "hello",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/comments", bearer(t, nina), gin.H{
		"mealEntryId": entry.ID, "message": "solid dinner choice",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// the comment produced a notification for the entry owner
	w = doJSON(t, r, http.MethodGet, "/api/notifications", bearer(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "comment.created")

	var n models.Notification
	require.NoError(t, db.Where("user_id = ?", alice.ID).First(&n).Error)

	// another user cannot ack it
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", n.ID), bearer(t, bob), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", n.ID), bearer(t, alice), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFoodRoleGatesAndDeleteConflict(t *testing.T) {
	r, db := newAPIServer(t)

	alice := seedAccount(t, db, "alice", models.RoleUser, nil)
	nina := seedAccount(t, db, "nina", models.RoleNutritionist, nil)
	admin := seedAccount(t, db, "root", models.RoleAdmin, nil)

	w := doJSON(t, r, http.MethodPost, "/api/foods", bearer(t, alice), gin.H{"name": "Kale", "calories": 49})
	assert.Equal(t, http.StatusForbidden, w.Code, "plain users cannot manage the catalog")

	w = doJSON(t, r, http.MethodPost, "/api/foods", bearer(t, nina), gin.H{"name": "Kale", "calories": 49})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data models.Food `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	foodPath := fmt.Sprintf("/api/foods/%d", created.Data.ID)

	w = doJSON(t, r, http.MethodDelete, foodPath, bearer(t, nina), nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "delete is admin-only")

	entry := &models.MealEntry{UserID: alice.ID, FoodID: created.Data.ID, Quantity: 100, Date: time.Now()}
	require.NoError(t, db.Create(entry).Error)

	w = doJSON(t, r, http.MethodDelete, foodPath, bearer(t, admin), nil)
	assert.Equal(t, http.StatusConflict, w.Code, "referenced food cannot be deleted")

	require.NoError(t, db.Delete(&models.MealEntry{}, entry.ID).Error)
	w = doJSON(t, r, http.MethodDelete, foodPath, bearer(t, admin), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserDirectoryAndAssignment(t *testing.T) {
	r, db := newAPIServer(t)

	nina := seedAccount(t, db, "nina", models.RoleNutritionist, nil)
	alice := seedAccount(t, db, "alice", models.RoleUser, &nina.ID)
	bob := seedAccount(t, db, "bob", models.RoleUser, nil)
	admin := seedAccount(t, db, "root", models.RoleAdmin, nil)

	w := doJSON(t, r, http.MethodGet, "/api/users", bearer(t, alice), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/users", bearer(t, nina), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
	assert.NotContains(t, w.Body.String(), `"name":"bob"`, "unassigned users hidden from nutritionists")

	// assignment is admin-only and validates the target role
	assignPath := fmt.Sprintf("/api/users/%d/assign-nutritionist", bob.ID)
	w = doJSON(t, r, http.MethodPut, assignPath, bearer(t, nina), gin.H{"nutritionistId": nina.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPut, assignPath, bearer(t, admin), gin.H{"nutritionistId": alice.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code, "target must hold the nutritionist role")

	w = doJSON(t, r, http.MethodPut, assignPath, bearer(t, admin), gin.H{"nutritionistId": nina.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// freshly assigned nutritionist can now read bob's profile
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/users/%d", bob.ID), bearer(t, nina), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMealTypeOtherIsAccepted(t *testing.T) {
	r, db := newAPIServer(t)

	alice := seedAccount(t, db, "alice", models.RoleUser, nil)
	food := seedCatalogFood(t, db, "trail mix", 462)

	w := doJSON(t, r, http.MethodPost, "/api/meals", bearer(t, alice), gin.H{
		"foodId": food.ID, "quantity": 40, "mealType": "other",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data models.MealEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.MealTypeOther, created.Data.MealType)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/meals/%d", created.Data.ID), bearer(t, alice), gin.H{
		"mealType": "other",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/meals", bearer(t, alice), gin.H{
		"foodId": food.ID, "quantity": 40, "mealType": "brunch",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown meal types still rejected")
}
