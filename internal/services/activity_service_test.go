// internal/services/activity_service_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmlink/backend/internal/models"
)

func TestRecordProductAdded(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@x.com")

	activity, err := env.activities.Record(user.ID, models.ActivityProductAdded, models.JSONMap{
		"productName": "Maize",
		"price":       120.0,
		"stock":       50,
	})
	require.NoError(t, err)

	assert.Equal(t, "Added new listing: Maize at ₵120", activity.DisplayText)
	assert.Equal(t, "add-line", activity.Icon)

	stored, err := env.store.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(1), stored.Stats.Get(models.StatTotalListings))
	assert.Equal(t, 1, stored.Dashboard.Inventory.TotalProducts)
	require.Len(t, stored.Dashboard.RecentActivity, 1)
	assert.Equal(t, models.ActivityProductAdded, stored.Dashboard.RecentActivity[0].Type)
}

func TestRecentActivityCappedNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@x.com")

	for i := 0; i < 25; i++ {
		_, err := env.activities.Record(user.ID, models.ActivityProductAdded, models.JSONMap{
			"productName": fmt.Sprintf("Crop %d", i),
			"price":       10.0,
		})
		require.NoError(t, err)
	}

	stored, err := env.store.GetUser(user.ID)
	require.NoError(t, err)

	// The dashboard view holds the newest 20, most recent first.
	require.Len(t, stored.Dashboard.RecentActivity, MaxRecentActivity)
	assert.Contains(t, stored.Dashboard.RecentActivity[0].DisplayText, "Crop 24")
	assert.Contains(t, stored.Dashboard.RecentActivity[19].DisplayText, "Crop 5")

	// The collection itself is unbounded.
	all, err := env.activities.Recent(user.ID, 100)
	require.NoError(t, err)
	assert.Len(t, all, 25)
	assert.Contains(t, all[0].DisplayText, "Crop 24")
}

func TestAchievementsDeduplicated(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@x.com")

	for i := 0; i < 3; i++ {
		_, err := env.activities.Record(user.ID, models.ActivityAchievementUnlocked, models.JSONMap{
			"achievement": "First Sale",
		})
		require.NoError(t, err)
	}

	stored, err := env.store.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"First Sale"}, stored.Achievements)

	// The counter still tracks unlock events, not unique achievements.
	assert.Equal(t, float64(3), stored.Stats.Get(models.StatTotalAchievements))
}

func TestProfileUpdatedOverwritesFields(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@x.com")

	_, err := env.activities.Record(user.ID, models.ActivityProfileUpdated, models.JSONMap{
		"fullName": "Ama Mensah",
		"location": "Kumasi",
		"farmSize": "5 acres",
	})
	require.NoError(t, err)

	stored, err := env.store.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ama Mensah", stored.FullName)
	assert.Equal(t, "Kumasi", stored.Location)
	assert.Equal(t, "5 acres", stored.FarmSize)
	assert.Equal(t, "Profile updated successfully", stored.Dashboard.RecentActivity[0].DisplayText)
}

func TestOrderLifecycleEffects(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@x.com")

	_, err := env.activities.Record(user.ID, models.ActivityOrderReceived, models.JSONMap{
		"orderId":     1,
		"productName": "Maize",
		"buyerName":   "Kwame",
		"location":    "Accra",
		"amount":      240.0,
	})
	require.NoError(t, err)

	stored, err := env.store.GetUser(user.ID)
	require.NoError(t, err)
	require.Len(t, stored.Dashboard.Orders.Pending, 1)
	assert.Equal(t, float64(1), stored.Stats.Get(models.StatPendingOrders))
	assert.Equal(t, "New order for Maize from Kwame in Accra", stored.Dashboard.RecentActivity[0].DisplayText)

	_, err = env.activities.Record(user.ID, models.ActivityOrderCompleted, models.JSONMap{
		"orderId":     1,
		"productName": "Maize",
		"buyerName":   "Kwame",
		"amount":      240.0,
	})
	require.NoError(t, err)

	stored, err = env.store.GetUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Dashboard.Orders.Pending)
	require.Len(t, stored.Dashboard.Orders.Completed, 1)
	assert.Equal(t, float64(0), stored.Stats.Get(models.StatPendingOrders))
	assert.Equal(t, 240.0, stored.Stats.Get(models.StatTotalRevenue))
	assert.Equal(t, float64(1), stored.Stats.Get(models.StatTotalSales))
	assert.Equal(t, "Completed order for Maize - ₵240 earned", stored.Dashboard.RecentActivity[0].DisplayText)
}

func TestDisplayTextFormats(t *testing.T) {
	cases := []struct {
		activityType models.ActivityType
		payload      models.JSONMap
		want         string
	}{
		{models.ActivityProductAdded, models.JSONMap{"productName": "Maize", "price": 120.0}, "Added new listing: Maize at ₵120"},
		{models.ActivityProductUpdated, models.JSONMap{"newName": "Yellow Maize", "oldName": "Maize"}, "Updated listing: Yellow Maize (was Maize)"},
		{models.ActivityProductDeleted, models.JSONMap{"productName": "Maize"}, "Removed listing: Maize"},
		{models.ActivityProductViewed, models.JSONMap{"productName": "Maize", "viewCount": 1}, "Maize listing was viewed 1 time today"},
		{models.ActivityProductViewed, models.JSONMap{"productName": "Maize", "viewCount": 4}, "Maize listing was viewed 4 times today"},
		{models.ActivityBuyerContacted, models.JSONMap{"buyerName": "Kwame", "location": "Accra"}, "New buyer contact: Kwame from Accra"},
		{models.ActivityBuyerContacted, models.JSONMap{}, "New buyer contact: Buyer from Unknown"},
		{models.ActivityWeatherCheck, models.JSONMap{"location": "Tamale"}, "Checked weather for Tamale"},
		{models.ActivityMarketplaceBrowse, models.JSONMap{"category": "Grains"}, "Browsed Grains category in marketplace"},
		{models.ActivityContactSubmitted, nil, "Contact form submitted"},
		{models.ActivityType("mystery_event"), nil, "Activity: mystery_event"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, DisplayText(tc.activityType, tc.payload), string(tc.activityType))
	}
}

func TestIconAndLabelFallbacks(t *testing.T) {
	assert.Equal(t, "add-line", IconFor(models.ActivityProductAdded))
	assert.Equal(t, DefaultActivityIcon, IconFor(models.ActivityProductViewed))
	assert.Equal(t, DefaultActivityIcon, IconFor(models.ActivityType("mystery_event")))

	assert.Equal(t, "Order Completed", LabelFor(models.ActivityOrderCompleted))
	assert.Equal(t, "Activity Performed", LabelFor(models.ActivityType("mystery_event")))
}

func TestUnknownTypeStillRecorded(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "a@x.com")

	activity, err := env.activities.Record(user.ID, models.ActivityType("mystery_event"), nil)
	require.NoError(t, err)
	assert.Equal(t, "Activity: mystery_event", activity.DisplayText)
	assert.Equal(t, DefaultActivityIcon, activity.Icon)

	stored, err := env.store.GetUser(user.ID)
	require.NoError(t, err)
	require.Len(t, stored.Dashboard.RecentActivity, 1)
}
