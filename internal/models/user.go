// internal/models/user.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is the persisted profile plus credentials. Stats, preferences and the
// dashboard block are denormalized JSON columns so a partial update replaces
// them wholesale, mirroring the shallow-merge semantics of the store.
type User struct {
	ID           uuid.UUID  `json:"uid" gorm:"type:uuid;primaryKey"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	FullName     string     `json:"fullName" gorm:"size:255"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);default:'Farmer'"`
	Phone        string     `json:"phone" gorm:"size:50"`
	Location     string     `json:"location" gorm:"size:255"`
	FarmSize     string     `json:"farmSize" gorm:"size:100"`
	FarmType     string     `json:"farmType" gorm:"size:100"`
	Experience   string     `json:"experience" gorm:"size:100"`
	Bio          string     `json:"bio"`
	ProfileImage string     `json:"profileImage"`
	Stats        StatMap    `json:"stats" gorm:"type:jsonb"`
	Preferences  Prefs      `json:"preferences" gorm:"type:jsonb"`
	Achievements StringList `json:"achievements" gorm:"type:jsonb"`
	Dashboard    Dashboard  `json:"dashboard" gorm:"type:jsonb"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastActive   time.Time  `json:"lastActive"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// StatMap holds the denormalized per-user counters. Values never go below
// zero; decrements clamp at zero.
type StatMap map[string]float64

func (m StatMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *StatMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// Get returns the counter value, defaulting to zero when absent.
func (m StatMap) Get(name string) float64 {
	return m[name]
}

// Counter names used by the stats effect table.
const (
	StatTotalListings      = "totalListings"
	StatPendingOrders      = "pendingOrders"
	StatTotalOrders        = "totalOrders"
	StatCompletedOrders    = "completedOrders"
	StatTotalRevenue       = "totalRevenue"
	StatTotalSales         = "totalSales"
	StatTotalBuyers        = "totalBuyers"
	StatTotalInteractions  = "totalInteractions"
	StatTotalViews         = "totalViews"
	StatTotalAchievements  = "totalAchievements"
	StatRating             = "rating"
	StatCustomerReviews    = "customerReviews"
	StatWeatherChecks      = "weatherChecks"
	StatMarketplaceVisits  = "marketplaceVisits"
	StatResourcesViewed    = "resourcesViewed"
	StatLoginAttempts      = "loginAttempts"
	StatSignupAttempts     = "signupAttempts"
	StatContactSubmissions = "contactSubmissions"
)

// Prefs are the per-user notification toggles.
type Prefs struct {
	Notifications bool `json:"notifications"`
	EmailUpdates  bool `json:"emailUpdates"`
	MarketAlerts  bool `json:"marketAlerts"`
}

func (p Prefs) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Prefs) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// Dashboard is the denormalized per-user dashboard block. RecentActivity is a
// bounded, newest-first view derived from the activities collection.
type Dashboard struct {
	RecentActivity   []ActivityEntry  `json:"recentActivity"`
	UpcomingTasks    []string         `json:"upcomingTasks"`
	WeatherAlerts    []string         `json:"weatherAlerts"`
	FinancialSummary FinancialSummary `json:"financialSummary"`
	Inventory        InventorySummary `json:"inventory"`
	Orders           OrderBuckets     `json:"orders"`
}

func (d Dashboard) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *Dashboard) Scan(value interface{}) error {
	return scanJSON(value, d)
}

type FinancialSummary struct {
	MonthlyRevenue  *float64 `json:"monthlyRevenue"`
	MonthlyExpenses *float64 `json:"monthlyExpenses"`
	ProfitMargin    *float64 `json:"profitMargin"`
}

type InventorySummary struct {
	TotalProducts   int      `json:"totalProducts"`
	LowStockItems   []string `json:"lowStockItems"`
	OutOfStockItems []string `json:"outOfStockItems"`
}

type OrderBuckets struct {
	Pending    []OrderRef `json:"pending"`
	Processing []OrderRef `json:"processing"`
	Completed  []OrderRef `json:"completed"`
}

// OrderRef is the dashboard's lightweight view of an order.
type OrderRef struct {
	ID          uint    `json:"id"`
	ProductName string  `json:"productName"`
	BuyerName   string  `json:"buyerName"`
	Amount      float64 `json:"amount"`
}

// NewDefaultProfile builds the zero-initialized profile created on first
// sign-up. Every counter starts at zero and every list empty.
func NewDefaultProfile(id uuid.UUID, email, fullName string) *User {
	now := time.Now()
	return &User{
		ID:       id,
		Email:    email,
		FullName: fullName,
		Role:     UserRoleFarmer,
		Stats: StatMap{
			StatTotalListings:   0,
			StatPendingOrders:   0,
			StatRating:          0,
			StatTotalBuyers:     0,
			StatTotalSales:      0,
			StatTotalRevenue:    0,
			StatCompletedOrders: 0,
			StatCustomerReviews: 0,
		},
		Preferences: Prefs{
			Notifications: true,
			EmailUpdates:  true,
			MarketAlerts:  true,
		},
		Achievements: StringList{},
		Dashboard: Dashboard{
			RecentActivity: []ActivityEntry{},
			UpcomingTasks:  []string{},
			WeatherAlerts:  []string{},
			Inventory: InventorySummary{
				LowStockItems:   []string{},
				OutOfStockItems: []string{},
			},
			Orders: OrderBuckets{
				Pending:    []OrderRef{},
				Processing: []OrderRef{},
				Completed:  []OrderRef{},
			},
		},
		CreatedAt:  now,
		LastActive: now,
	}
}
