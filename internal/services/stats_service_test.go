// internal/services/stats_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmlink/backend/internal/models"
)

func TestApplyDeltaIncrements(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@x.com")

	require.NoError(t, env.stats.ApplyDelta(user.ID, models.StatTotalListings, 1))
	require.NoError(t, env.stats.ApplyDelta(user.ID, models.StatTotalListings, 1))

	stored, err := env.store.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(2), stored.Stats.Get(models.StatTotalListings))
}

func TestApplyDeltaClampsAtZero(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@x.com")

	// Decrementing a zero counter floors at zero instead of going negative.
	require.NoError(t, env.stats.ApplyDelta(user.ID, models.StatPendingOrders, -1))

	stored, err := env.store.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(0), stored.Stats.Get(models.StatPendingOrders))

	require.NoError(t, env.stats.ApplyDelta(user.ID, models.StatPendingOrders, 3))
	require.NoError(t, env.stats.ApplyDelta(user.ID, models.StatPendingOrders, -5))

	stored, err = env.store.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(0), stored.Stats.Get(models.StatPendingOrders))
}

func TestApplyDeltasRevenueAccumulates(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@x.com")

	require.NoError(t, env.stats.ApplyDeltas(user.ID, map[string]float64{
		models.StatTotalRevenue: 240.50,
		models.StatTotalSales:   1,
	}))
	require.NoError(t, env.stats.ApplyDeltas(user.ID, map[string]float64{
		models.StatTotalRevenue: 100,
		models.StatTotalSales:   1,
	}))

	stored, err := env.store.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 340.50, stored.Stats.Get(models.StatTotalRevenue))
	assert.Equal(t, float64(2), stored.Stats.Get(models.StatTotalSales))
}

func TestReconcileOverwritesDrift(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@x.com")

	require.NoError(t, env.store.CreateProduct(&models.Product{UserID: user.ID, Name: "Maize", Price: 120}))
	require.NoError(t, env.store.CreateProduct(&models.Product{UserID: user.ID, Name: "Beans", Price: 90}))

	// Drift the counter away from ground truth.
	require.NoError(t, env.stats.ApplyDelta(user.ID, models.StatTotalListings, 7))

	changed, err := env.stats.Reconcile(user.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	stored, err := env.store.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(2), stored.Stats.Get(models.StatTotalListings))
	assert.Equal(t, 2, stored.Dashboard.Inventory.TotalProducts)
}

func TestReconcileIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@x.com")

	require.NoError(t, env.store.CreateProduct(&models.Product{UserID: user.ID, Name: "Maize", Price: 120}))

	changed, err := env.stats.Reconcile(user.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = env.stats.Reconcile(user.ID)
	require.NoError(t, err)
	assert.False(t, changed)
}
