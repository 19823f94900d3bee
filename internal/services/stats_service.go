// internal/services/stats_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/farmlink/backend/internal/models"
	"github.com/farmlink/backend/internal/store"
)

// StatsService keeps the denormalized per-user counters consistent with the
// records they summarize. Incremental deltas are cheap but can drift when a
// bookkeeping write fails after its primary write succeeded; Reconcile is the
// authoritative correction path that recounts against ground truth.
type StatsService struct {
	store *store.Store
}

func NewStatsService(st *store.Store) *StatsService {
	return &StatsService{store: st}
}

// ApplyDelta adjusts one counter. The stored value is re-fetched first, so
// the call is safe even when no profile is loaded in memory, and the result
// is clamped: counters are physical quantities and never go below zero.
func (s *StatsService) ApplyDelta(userID uuid.UUID, stat string, delta float64) error {
	return s.ApplyDeltas(userID, map[string]float64{stat: delta})
}

// ApplyDeltas adjusts several counters in one read-modify-write.
func (s *StatsService) ApplyDeltas(userID uuid.UUID, deltas map[string]float64) error {
	if len(deltas) == 0 {
		return nil
	}

	user, err := s.store.GetUser(userID)
	if err != nil {
		return fmt.Errorf("stats: load user: %w", err)
	}

	stats := user.Stats
	if stats == nil {
		stats = models.StatMap{}
	}
	for name, delta := range deltas {
		next := stats.Get(name) + delta
		if next < 0 {
			next = 0
		}
		stats[name] = next
	}

	if _, err := s.store.UpdateUser(userID, map[string]interface{}{"stats": stats}); err != nil {
		return fmt.Errorf("stats: write counters: %w", err)
	}
	return nil
}

// Reconcile recounts the user's listings and overwrites totalListings and the
// dashboard inventory total when they disagree with the product collection.
// It reports whether anything changed; a second call with no intervening
// product writes is a no-op.
func (s *StatsService) Reconcile(userID uuid.UUID) (bool, error) {
	count, err := s.store.CountProductsByUser(userID)
	if err != nil {
		return false, fmt.Errorf("stats: count products: %w", err)
	}

	user, err := s.store.GetUser(userID)
	if err != nil {
		return false, fmt.Errorf("stats: load user: %w", err)
	}

	actual := float64(count)
	changed := false
	updates := map[string]interface{}{}

	if user.Stats.Get(models.StatTotalListings) != actual {
		stats := user.Stats
		if stats == nil {
			stats = models.StatMap{}
		}
		stats[models.StatTotalListings] = actual
		updates["stats"] = stats
		changed = true
	}

	if user.Dashboard.Inventory.TotalProducts != int(count) {
		dashboard := user.Dashboard
		dashboard.Inventory.TotalProducts = int(count)
		updates["dashboard"] = dashboard
		changed = true
	}

	if !changed {
		return false, nil
	}

	if _, err := s.store.UpdateUser(userID, updates); err != nil {
		return false, fmt.Errorf("stats: write reconciled counters: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"total_listings": count,
	}).Info("Reconciled listing counters")

	return true, nil
}
