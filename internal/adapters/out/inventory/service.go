// Package inventory adapts the merchant stock port. Stock adjustments run
// from queue jobs after a modification or cancellation commits, so the
// adapter only needs at-least-once semantics.
package inventory

import (
	"context"
	"log/slog"
	"sync"

	"orderpolicy/internal/core/domain/model/kernel"
)

// InMemoryService tracks stock deltas per item. It stands in for the
// merchant inventory system.
type InMemoryService struct {
	logger *slog.Logger

	mu     sync.Mutex
	deltas map[kernel.UUID]int
}

// NewInMemoryService creates a service with no recorded adjustments.
func NewInMemoryService(logger *slog.Logger) *InMemoryService {
	return &InMemoryService{
		logger: logger.With("component", "inventory_service"),
		deltas: make(map[kernel.UUID]int),
	}
}

// AdjustStock implements ports.InventoryService. Positive delta releases
// stock back to the merchant, negative delta reserves it.
func (s *InMemoryService) AdjustStock(ctx context.Context, itemID kernel.UUID, delta int) error {
	if err := itemID.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.deltas[itemID] += delta
	total := s.deltas[itemID]
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "stock adjusted",
		"item_id", itemID.String(), "delta", delta, "total", total)
	return nil
}

// Delta reports the accumulated adjustment for an item.
func (s *InMemoryService) Delta(itemID kernel.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deltas[itemID]
}
