// internal/handlers/auth_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farmlink/backend/internal/config"
	"github.com/farmlink/backend/internal/middleware"
	"github.com/farmlink/backend/internal/models"
	"github.com/farmlink/backend/internal/services"
	"github.com/farmlink/backend/internal/store"
	"github.com/farmlink/backend/internal/utils"
)

type AuthTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *AuthTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)

	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.Activity{},
	))
	suite.db = db

	cfg := &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  24,
			RefreshTokenTTL: 168,
		},
	}
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	st := store.New(db)
	profileService := services.NewProfileService(st)
	statsService := services.NewStatsService(st)
	activityService := services.NewActivityService(st, statsService, profileService)
	authService := services.NewAuthService(st, cfg, profileService, activityService)
	authHandler := NewAuthHandler(authService)

	suite.router = gin.New()
	auth := suite.router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
	}
}

func (suite *AuthTestSuite) postJSON(path string, body map[string]interface{}) *httptest.ResponseRecorder {
	jsonData, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthTestSuite) TestUserRegistration() {
	w := suite.postJSON("/auth/register", map[string]interface{}{
		"email":    "test@example.com",
		"password": "pw123456",
		"fullName": "Test Farmer",
	})

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), response["success"].(bool))

	data := response["data"].(map[string]interface{})
	assert.NotEmpty(suite.T(), data["token"])

	user := data["user"].(map[string]interface{})
	assert.Equal(suite.T(), "test@example.com", user["email"])
	assert.Nil(suite.T(), user["passwordHash"])
}

func (suite *AuthTestSuite) TestDuplicateRegistrationConflicts() {
	w := suite.postJSON("/auth/register", map[string]interface{}{
		"email":    "test@example.com",
		"password": "pw123456",
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	w = suite.postJSON("/auth/register", map[string]interface{}{
		"email":    "test@example.com",
		"password": "pw123456",
	})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func (suite *AuthTestSuite) TestShortPasswordRejected() {
	w := suite.postJSON("/auth/register", map[string]interface{}{
		"email":    "test@example.com",
		"password": "pw1",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *AuthTestSuite) TestUserLogin() {
	w := suite.postJSON("/auth/register", map[string]interface{}{
		"email":    "test@example.com",
		"password": "pw123456",
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	w = suite.postJSON("/auth/login", map[string]interface{}{
		"email":    "test@example.com",
		"password": "pw123456",
	})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), response["success"].(bool))
}

func (suite *AuthTestSuite) TestWrongPasswordUnauthorized() {
	w := suite.postJSON("/auth/register", map[string]interface{}{
		"email":    "test@example.com",
		"password": "pw123456",
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	w = suite.postJSON("/auth/login", map[string]interface{}{
		"email":    "test@example.com",
		"password": "wrong-pass",
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *AuthTestSuite) TestMeRequiresToken() {
	req, _ := http.NewRequest("GET", "/auth/me", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	// With a valid token the profile comes back.
	reg := suite.postJSON("/auth/register", map[string]interface{}{
		"email":    "test@example.com",
		"password": "pw123456",
	})
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(reg.Body.Bytes(), &response))
	token := response["data"].(map[string]interface{})["token"].(string)

	req, _ = http.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthTestSuite))
}
