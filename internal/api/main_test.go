package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
)

const testPageSize = 6

// setupTestServer wires the handlers against an in-memory database the
// same way the server package does, minus redis and S3.
func setupTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	authService := service.NewAuthService(db, "test-secret")
	userService := service.NewUserService(db)
	socialService := service.NewSocialService(db)
	catalogService := service.NewCatalogService(db)
	recipeService := service.NewRecipeService(db)
	cartService := service.NewCartService(db)

	router := gin.New()
	v1 := router.Group("/api/v1")
	NewAuthHandler(authService).RegisterRoutes(v1)
	NewUserHandler(userService, socialService, authService, testPageSize).RegisterRoutes(v1)
	NewCatalogHandler(catalogService).RegisterRoutes(v1)
	NewRecipeHandler(recipeService, socialService, cartService, nil, authService, nil, testPageSize, "").RegisterRoutes(v1)

	return router, db
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		payload = data
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// registerTestUser signs up a user through the API and returns the token.
func registerTestUser(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()

	w := doRequest(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username":   username,
		"email":      username + "@example.com",
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

func userIDByUsername(t *testing.T, db *gorm.DB, username string) uuid.UUID {
	t.Helper()

	var user models.User
	require.NoError(t, db.First(&user, "username = ?", username).Error)
	return user.ID
}

func seedTag(t *testing.T, db *gorm.DB, name, slug string) models.Tag {
	t.Helper()

	tag := models.Tag{Name: name, Color: "#" + uuid.NewString()[:6], Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()

	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return ingredient
}

func recipePayload(name string, tag models.Tag, ingredient models.Ingredient, amount int) gin.H {
	return gin.H{
		"name":         name,
		"text":         "Mix everything and cook.",
		"cooking_time": 30,
		"image":        "https://example.com/images/" + name + ".png",
		"tags":         []uuid.UUID{tag.ID},
		"ingredients": []gin.H{
			{"id": ingredient.ID, "amount": amount},
		},
	}
}
