// internal/models/activity.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType tags a tracked domain event. The taxonomy is closed; unknown
// types are still stored and render with a generic display text and icon.
type ActivityType string

const (
	ActivityProductAdded        ActivityType = "product_added"
	ActivityProductUpdated      ActivityType = "product_updated"
	ActivityProductDeleted      ActivityType = "product_deleted"
	ActivityOrderReceived       ActivityType = "order_received"
	ActivityOrderCompleted      ActivityType = "order_completed"
	ActivityProductViewed       ActivityType = "product_viewed"
	ActivityBuyerContacted      ActivityType = "buyer_contacted"
	ActivityProfileUpdated      ActivityType = "profile_updated"
	ActivityAchievementUnlocked ActivityType = "achievement_unlocked"
	ActivityWeatherCheck        ActivityType = "weather_check"
	ActivityMarketplaceBrowse   ActivityType = "marketplace_browse"
	ActivityResourceViewed      ActivityType = "resource_viewed"
	ActivityLoginAttempt        ActivityType = "login_attempt"
	ActivitySignupAttempt       ActivityType = "signup_attempt"
	ActivityContactSubmitted    ActivityType = "contact_submitted"
)

// Activity is one persisted event record. The activities collection is the
// source of truth; the bounded recentActivity list on the profile dashboard is
// a derived view of the newest entries.
type Activity struct {
	ID          uint         `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      uuid.UUID    `json:"userId" gorm:"type:uuid;index;not null"`
	Type        ActivityType `json:"type" gorm:"size:50;not null"`
	Payload     JSONMap      `json:"payload" gorm:"type:jsonb"`
	DisplayText string       `json:"displayText"`
	Icon        string       `json:"icon" gorm:"size:50"`
	Timestamp   time.Time    `json:"timestamp" gorm:"index"`
}

// Entry converts the record to its embedded dashboard form.
func (a *Activity) Entry() ActivityEntry {
	return ActivityEntry{
		Type:        a.Type,
		Payload:     a.Payload,
		Timestamp:   a.Timestamp,
		DisplayText: a.DisplayText,
		Icon:        a.Icon,
	}
}

// ActivityEntry is the dashboard-embedded view of an activity record.
type ActivityEntry struct {
	Type        ActivityType `json:"type"`
	Payload     JSONMap      `json:"payload,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
	DisplayText string       `json:"displayText"`
	Icon        string       `json:"icon"`
}
