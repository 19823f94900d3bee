// internal/store/store_test.go
package store

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farmlink/backend/internal/models"
)

func newTestStore(t *testing.T) *Store {
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

	return New(db)
}

func newTestUser(t *testing.T, st *Store, email string) *models.User {
	t.Helper()

	user := models.NewDefaultProfile(uuid.New(), email, "Test Farmer")
	require.NoError(t, user.SetPassword("pw123456"))
	require.NoError(t, st.CreateUser(user))
	return user
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	st := newTestStore(t)

	newTestUser(t, st, "a@x.com")

	dup := models.NewDefaultProfile(uuid.New(), "a@x.com", "Other Farmer")
	require.NoError(t, dup.SetPassword("pw123456"))

	err := st.CreateUser(dup)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestGetUserNotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.GetUser(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = st.GetUserByEmail("nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUserIdempotent(t *testing.T) {
	st := newTestStore(t)

	user := newTestUser(t, st, "a@x.com")
	require.NoError(t, st.DeleteUser(user.ID))

	// Deleting an absent key is not an error.
	assert.NoError(t, st.DeleteUser(user.ID))

	_, err := st.GetUser(user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUserShallowMerge(t *testing.T) {
	st := newTestStore(t)

	user := newTestUser(t, st, "a@x.com")

	// Updating one scalar field leaves the JSON columns untouched.
	updated, err := st.UpdateUser(user.ID, map[string]interface{}{"full_name": "Ama Mensah"})
	require.NoError(t, err)
	assert.Equal(t, "Ama Mensah", updated.FullName)
	assert.True(t, updated.Preferences.Notifications)
	assert.NotNil(t, updated.Stats)

	// A JSON column in the update replaces the stored value wholesale.
	updated, err = st.UpdateUser(user.ID, map[string]interface{}{
		"stats": models.StatMap{models.StatTotalListings: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(3), updated.Stats.Get(models.StatTotalListings))
	assert.Equal(t, float64(0), updated.Stats.Get(models.StatTotalRevenue))
	assert.Len(t, updated.Stats, 1)
}

func TestUpdateUserNotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.UpdateUser(uuid.New(), map[string]interface{}{"full_name": "Nobody"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmailTaken(t *testing.T) {
	st := newTestStore(t)

	taken, err := st.EmailTaken("a@x.com")
	require.NoError(t, err)
	assert.False(t, taken)

	newTestUser(t, st, "a@x.com")

	taken, err = st.EmailTaken("a@x.com")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestProductLifecycle(t *testing.T) {
	st := newTestStore(t)
	user := newTestUser(t, st, "a@x.com")

	product := &models.Product{UserID: user.ID, Name: "Maize", Price: 120, Stock: 50, Category: "Grains"}
	require.NoError(t, st.CreateProduct(product))
	require.NotZero(t, product.ID)

	byCategory, err := st.GetProductsByCategory("Grains")
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	count, err := st.CountProductsByUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	updated, err := st.UpdateProduct(product.ID, map[string]interface{}{"price": 150.0})
	require.NoError(t, err)
	assert.Equal(t, 150.0, updated.Price)
	assert.Equal(t, "Maize", updated.Name)

	require.NoError(t, st.DeleteProduct(product.ID))
	assert.NoError(t, st.DeleteProduct(product.ID))

	_, err = st.GetProduct(product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteOrderFlipsOnce(t *testing.T) {
	st := newTestStore(t)
	user := newTestUser(t, st, "a@x.com")

	order := &models.Order{UserID: user.ID, ProductName: "Maize", BuyerName: "Kwame", Amount: 240}
	require.NoError(t, st.CreateOrder(order))
	assert.Equal(t, models.OrderStatusPending, order.Status)

	flipped, err := st.CompleteOrder(order.ID)
	require.NoError(t, err)
	assert.True(t, flipped)

	// Replayed completion matches zero rows.
	flipped, err = st.CompleteOrder(order.ID)
	require.NoError(t, err)
	assert.False(t, flipped)

	stored, err := st.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, stored.Status)
	assert.NotNil(t, stored.CompletedAt)
}

func TestActivitiesNewestFirst(t *testing.T) {
	st := newTestStore(t)
	user := newTestUser(t, st, "a@x.com")

	for i := 0; i < 3; i++ {
		require.NoError(t, st.CreateActivity(&models.Activity{
			UserID: user.ID,
			Type:   models.ActivityMarketplaceBrowse,
		}))
	}

	activities, err := st.GetActivitiesByUser(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, activities, 3)

	// Same-timestamp records break the tie on insertion id, newest first.
	assert.Greater(t, activities[0].ID, activities[1].ID)
	assert.Greater(t, activities[1].ID, activities[2].ID)

	limited, err := st.GetActivitiesByUser(user.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestExportImportRoundTrip(t *testing.T) {
	st := newTestStore(t)

	user := newTestUser(t, st, "a@x.com")
	require.NoError(t, st.CreateProduct(&models.Product{UserID: user.ID, Name: "Maize", Price: 120}))
	require.NoError(t, st.CreateOrder(&models.Order{UserID: user.ID, ProductName: "Maize", Amount: 240}))
	require.NoError(t, st.CreateActivity(&models.Activity{UserID: user.ID, Type: models.ActivityProductAdded}))

	snap, err := st.ExportAll()
	require.NoError(t, err)
	require.Len(t, snap.Users, 1)
	assert.NotEmpty(t, snap.Users[0].PasswordHash)

	// Restore into a fresh store.
	dest := newTestStore(t)
	require.NoError(t, dest.ImportAll(snap))

	restored, err := dest.GetUserByEmail("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, restored.ID)

	// Credentials survive the round trip.
	assert.NoError(t, restored.CheckPassword("pw123456"))

	products, err := dest.GetProductsByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	orders, err := dest.GetOrdersByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	activities, err := dest.GetActivitiesByUser(user.ID, 10)
	require.NoError(t, err)
	assert.Len(t, activities, 1)
}

func TestImportReplacesExistingData(t *testing.T) {
	st := newTestStore(t)

	stale := newTestUser(t, st, "stale@x.com")

	src := newTestStore(t)
	newTestUser(t, src, "fresh@x.com")
	snap, err := src.ExportAll()
	require.NoError(t, err)

	require.NoError(t, st.ImportAll(snap))

	_, err = st.GetUser(stale.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := st.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
