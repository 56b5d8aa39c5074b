// Package occupancy layers the two named bed operations over the generic
// document update: assigning an occupant and clearing one.
package occupancy

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hostel-management-backend/internal/store"
)

// Mutator sets or clears the occupant field on a bed document.
//
// Neither operation checks that the bed is currently free or that the user
// exists: the last writer wins, silently replacing any prior occupant. An
// update that matched no bed is still a success; only a store error fails.
type Mutator struct {
	store store.Store
	log   *zap.Logger
}

// NewMutator creates a bed occupancy mutator.
func NewMutator(s store.Store, log *zap.Logger) *Mutator {
	return &Mutator{store: s, log: log}
}

// Assign records userID as the bed's occupant.
func (m *Mutator) Assign(ctx context.Context, bedID, userID string) error {
	res, err := m.store.UpdateByID(ctx, store.Beds, bedID, map[string]any{"occupant": userID})
	if err != nil {
		return fmt.Errorf("assign bed %s: %w", bedID, err)
	}
	if res.Matched == 0 {
		m.log.Warn("assign matched no bed", zap.String("bed_id", bedID), zap.String("user_id", userID))
	}
	return nil
}

// Unassign clears the bed's occupant, leaving an explicit null in the
// document.
func (m *Mutator) Unassign(ctx context.Context, bedID string) error {
	res, err := m.store.UpdateByID(ctx, store.Beds, bedID, map[string]any{"occupant": nil})
	if err != nil {
		return fmt.Errorf("unassign bed %s: %w", bedID, err)
	}
	if res.Matched == 0 {
		m.log.Warn("unassign matched no bed", zap.String("bed_id", bedID))
	}
	return nil
}
