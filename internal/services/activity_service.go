// internal/services/activity_service.go
package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/farmlink/backend/internal/models"
	"github.com/farmlink/backend/internal/store"
)

// MaxRecentActivity bounds the recentActivity list embedded in the profile
// dashboard. The activities collection itself is unbounded.
const MaxRecentActivity = 20

// DefaultActivityIcon is used for types without a dedicated icon.
const DefaultActivityIcon = "information-line"

// ActivityService appends structured records of tracked domain events and
// applies their side effects: the bounded newest-first dashboard view, the
// counter deltas, achievements and profile-field overwrites. The activity
// record is the primary write; everything layered on top is best-effort
// bookkeeping that logs and continues on failure, so a failed stats update
// never rolls back or blocks the domain write that triggered it.
type ActivityService struct {
	store    *store.Store
	stats    *StatsService
	profiles *ProfileService
}

func NewActivityService(st *store.Store, stats *StatsService, profiles *ProfileService) *ActivityService {
	return &ActivityService{store: st, stats: stats, profiles: profiles}
}

// Record persists one activity for the user and applies its effects.
func (s *ActivityService) Record(userID uuid.UUID, activityType models.ActivityType, payload models.JSONMap) (*models.Activity, error) {
	activity := &models.Activity{
		UserID:      userID,
		Type:        activityType,
		Payload:     payload,
		DisplayText: DisplayText(activityType, payload),
		Icon:        IconFor(activityType),
		Timestamp:   time.Now(),
	}

	if err := s.store.CreateActivity(activity); err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}

	if err := s.stats.ApplyDeltas(userID, statDeltas(activityType, payload)); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"type":    activityType,
		}).Warn("Stats update failed, continuing")
	}

	if err := s.applyProfileEffects(userID, activity); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"type":    activityType,
		}).Warn("Profile update failed, continuing")
	}

	return activity, nil
}

// Recent returns the user's n most recent entries, newest first. This is the
// one canonical ordering; the dashboard view uses the same slice direction.
func (s *ActivityService) Recent(userID uuid.UUID, n int) ([]models.Activity, error) {
	return s.store.GetActivitiesByUser(userID, n)
}

// applyProfileEffects folds the activity into the profile: prepends the
// dashboard entry (truncating to MaxRecentActivity), adjusts the inventory
// and order buckets for product/order events, appends de-duplicated
// achievements and overwrites profile fields on profile_updated.
func (s *ActivityService) applyProfileEffects(userID uuid.UUID, activity *models.Activity) error {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return err
	}

	dashboard := user.Dashboard
	recent := append([]models.ActivityEntry{activity.Entry()}, dashboard.RecentActivity...)
	if len(recent) > MaxRecentActivity {
		recent = recent[:MaxRecentActivity]
	}
	dashboard.RecentActivity = recent

	updates := map[string]interface{}{}
	payload := activity.Payload

	switch activity.Type {
	case models.ActivityProductAdded:
		dashboard.Inventory.TotalProducts++

	case models.ActivityProductDeleted:
		if dashboard.Inventory.TotalProducts > 0 {
			dashboard.Inventory.TotalProducts--
		}

	case models.ActivityOrderReceived:
		dashboard.Orders.Pending = append(dashboard.Orders.Pending, orderRefFromPayload(payload))

	case models.ActivityOrderCompleted:
		ref := orderRefFromPayload(payload)
		dashboard.Orders.Pending = removeOrderRef(dashboard.Orders.Pending, ref.ID)
		dashboard.Orders.Processing = removeOrderRef(dashboard.Orders.Processing, ref.ID)
		dashboard.Orders.Completed = append(dashboard.Orders.Completed, ref)

	case models.ActivityAchievementUnlocked:
		if name := payloadString(payload, "achievement"); name != "" && !user.Achievements.Contains(name) {
			updates["achievements"] = append(user.Achievements, name)
		}

	case models.ActivityProfileUpdated:
		for key, column := range profileFieldColumns {
			if v := payloadString(payload, key); v != "" {
				updates[column] = v
			}
		}
	}

	updates["dashboard"] = dashboard

	updated, err := s.store.UpdateUser(userID, updates)
	if err != nil {
		return err
	}

	s.profiles.Notify(updated)
	return nil
}

// profileFieldColumns maps profile_updated payload keys to user columns.
var profileFieldColumns = map[string]string{
	"fullName":   "full_name",
	"phone":      "phone",
	"location":   "location",
	"farmSize":   "farm_size",
	"farmType":   "farm_type",
	"experience": "experience",
	"bio":        "bio",
}

// statDeltas is the single authoritative effect table mapping each activity
// type to its counter deltas. Decrements are clamped at zero downstream.
func statDeltas(activityType models.ActivityType, payload models.JSONMap) map[string]float64 {
	switch activityType {
	case models.ActivityProductAdded:
		return map[string]float64{models.StatTotalListings: 1}
	case models.ActivityProductDeleted:
		return map[string]float64{models.StatTotalListings: -1}
	case models.ActivityOrderReceived:
		return map[string]float64{
			models.StatPendingOrders: 1,
			models.StatTotalOrders:   1,
		}
	case models.ActivityOrderCompleted:
		return map[string]float64{
			models.StatPendingOrders:   -1,
			models.StatCompletedOrders: 1,
			models.StatTotalRevenue:    payloadFloat(payload, "amount"),
			models.StatTotalSales:      1,
		}
	case models.ActivityProductViewed:
		return map[string]float64{models.StatTotalViews: 1}
	case models.ActivityBuyerContacted:
		return map[string]float64{
			models.StatTotalBuyers:       1,
			models.StatTotalInteractions: 1,
		}
	case models.ActivityAchievementUnlocked:
		return map[string]float64{models.StatTotalAchievements: 1}
	case models.ActivityWeatherCheck:
		return map[string]float64{models.StatWeatherChecks: 1}
	case models.ActivityMarketplaceBrowse:
		return map[string]float64{models.StatMarketplaceVisits: 1}
	case models.ActivityResourceViewed:
		return map[string]float64{models.StatResourcesViewed: 1}
	case models.ActivityLoginAttempt:
		return map[string]float64{models.StatLoginAttempts: 1}
	case models.ActivitySignupAttempt:
		return map[string]float64{models.StatSignupAttempts: 1}
	case models.ActivityContactSubmitted:
		return map[string]float64{models.StatContactSubmissions: 1}
	default:
		return nil
	}
}

// DisplayText renders the human-readable line for an activity. Every known
// type has exactly one format; unknown types fall through to a generic form.
func DisplayText(activityType models.ActivityType, payload models.JSONMap) string {
	switch activityType {
	case models.ActivityProductAdded:
		return fmt.Sprintf("Added new listing: %s at ₵%s",
			payloadString(payload, "productName"), formatAmount(payloadFloat(payload, "price")))
	case models.ActivityProductUpdated:
		return fmt.Sprintf("Updated listing: %s (was %s)",
			payloadString(payload, "newName"), payloadString(payload, "oldName"))
	case models.ActivityProductDeleted:
		return fmt.Sprintf("Removed listing: %s", payloadString(payload, "productName"))
	case models.ActivityOrderReceived:
		return fmt.Sprintf("New order for %s from %s in %s",
			payloadString(payload, "productName"),
			payloadStringOr(payload, "buyerName", "Buyer"),
			payloadStringOr(payload, "location", "Unknown"))
	case models.ActivityOrderCompleted:
		return fmt.Sprintf("Completed order for %s - ₵%s earned",
			payloadString(payload, "productName"), formatAmount(payloadFloat(payload, "amount")))
	case models.ActivityProductViewed:
		count := int(payloadFloat(payload, "viewCount"))
		if count < 1 {
			count = 1
		}
		plural := ""
		if count > 1 {
			plural = "s"
		}
		return fmt.Sprintf("%s listing was viewed %d time%s today",
			payloadString(payload, "productName"), count, plural)
	case models.ActivityBuyerContacted:
		return fmt.Sprintf("New buyer contact: %s from %s",
			payloadStringOr(payload, "buyerName", "Buyer"),
			payloadStringOr(payload, "location", "Unknown"))
	case models.ActivityProfileUpdated:
		return "Profile updated successfully"
	case models.ActivityAchievementUnlocked:
		return fmt.Sprintf("Achievement unlocked: %s", payloadString(payload, "achievement"))
	case models.ActivityWeatherCheck:
		return fmt.Sprintf("Checked weather for %s", payloadString(payload, "location"))
	case models.ActivityMarketplaceBrowse:
		return fmt.Sprintf("Browsed %s category in marketplace", payloadString(payload, "category"))
	case models.ActivityResourceViewed:
		return fmt.Sprintf("Viewed resource: %s", payloadString(payload, "resourceName"))
	case models.ActivityLoginAttempt:
		return fmt.Sprintf("Login attempt via %s", payloadString(payload, "method"))
	case models.ActivitySignupAttempt:
		return fmt.Sprintf("Signup attempt via %s", payloadString(payload, "method"))
	case models.ActivityContactSubmitted:
		return "Contact form submitted"
	default:
		return fmt.Sprintf("Activity: %s", activityType)
	}
}

var activityIcons = map[models.ActivityType]string{
	models.ActivityProductAdded:        "add-line",
	models.ActivityProductUpdated:      "edit-line",
	models.ActivityProductDeleted:      "delete-bin-line",
	models.ActivityOrderReceived:       "shopping-cart-line",
	models.ActivityOrderCompleted:      "check-line",
	models.ActivityProfileUpdated:      "user-settings-line",
	models.ActivityAchievementUnlocked: "medal-line",
	models.ActivityWeatherCheck:        "sun-line",
	models.ActivityMarketplaceBrowse:   "store-line",
	models.ActivityResourceViewed:      "book-open-line",
	models.ActivityLoginAttempt:        "login-box-line",
	models.ActivitySignupAttempt:       "user-add-line",
	models.ActivityContactSubmitted:    "mail-send-line",
}

// IconFor returns the icon tag for an activity type.
func IconFor(activityType models.ActivityType) string {
	if icon, ok := activityIcons[activityType]; ok {
		return icon
	}
	return DefaultActivityIcon
}

var activityLabels = map[models.ActivityType]string{
	models.ActivityProductAdded:        "Product Added",
	models.ActivityProductUpdated:      "Product Updated",
	models.ActivityProductDeleted:      "Product Deleted",
	models.ActivityOrderReceived:       "Order Received",
	models.ActivityOrderCompleted:      "Order Completed",
	models.ActivityProfileUpdated:      "Profile Updated",
	models.ActivityAchievementUnlocked: "Achievement Unlocked",
	models.ActivityWeatherCheck:        "Weather Checked",
	models.ActivityMarketplaceBrowse:   "Marketplace Browsed",
	models.ActivityResourceViewed:      "Resource Viewed",
	models.ActivityLoginAttempt:        "Login Attempt",
	models.ActivitySignupAttempt:       "Signup Attempt",
	models.ActivityContactSubmitted:    "Contact Form Submitted",
}

// LabelFor returns the short display label for an activity type.
func LabelFor(activityType models.ActivityType) string {
	if label, ok := activityLabels[activityType]; ok {
		return label
	}
	return "Activity Performed"
}

func orderRefFromPayload(payload models.JSONMap) models.OrderRef {
	return models.OrderRef{
		ID:          uint(payloadFloat(payload, "orderId")),
		ProductName: payloadStringOr(payload, "productName", "Product"),
		BuyerName:   payloadStringOr(payload, "buyerName", "Buyer"),
		Amount:      payloadFloat(payload, "amount"),
	}
}

func removeOrderRef(refs []models.OrderRef, id uint) []models.OrderRef {
	out := refs[:0]
	for _, r := range refs {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

func payloadString(payload models.JSONMap, key string) string {
	if payload == nil {
		return ""
	}
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func payloadStringOr(payload models.JSONMap, key, fallback string) string {
	if v := payloadString(payload, key); v != "" {
		return v
	}
	return fallback
}

func payloadFloat(payload models.JSONMap, key string) float64 {
	if payload == nil {
		return 0
	}
	switch v := payload[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	default:
		return 0
	}
}

// formatAmount renders prices the way the dashboard shows them: whole cedi
// amounts without a decimal tail.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
