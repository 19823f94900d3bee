// internal/services/setup_test.go
package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farmlink/backend/internal/config"
	"github.com/farmlink/backend/internal/models"
	"github.com/farmlink/backend/internal/store"
)

type testEnv struct {
	store      *store.Store
	profiles   *ProfileService
	stats      *StatsService
	activities *ActivityService
	auth       *AuthService
	products   *ProductService
	orders     *OrderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.Activity{},
	))

	st := store.New(db)
	cfg := &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  24,
			RefreshTokenTTL: 168,
		},
	}

	profiles := NewProfileService(st)
	stats := NewStatsService(st)
	activities := NewActivityService(st, stats, profiles)

	return &testEnv{
		store:      st,
		profiles:   profiles,
		stats:      stats,
		activities: activities,
		auth:       NewAuthService(st, cfg, profiles, activities),
		products:   NewProductService(st, activities),
		orders:     NewOrderService(st, activities),
	}
}

func (e *testEnv) newUser(t *testing.T, email string) *models.User {
	t.Helper()

	user := models.NewDefaultProfile(uuid.New(), email, "Test Farmer")
	require.NoError(t, user.SetPassword("pw123456"))
	require.NoError(t, e.store.CreateUser(user))
	return user
}
