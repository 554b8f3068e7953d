package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/csvplot/internal/store"
)

// Listing bounds for Recent.
const (
	DefaultRecentLimit = 20
	MaxRecentLimit     = 100
)

// Recent lists stored uploads, newest first. A non-positive limit selects
// DefaultRecentLimit; larger values are capped at MaxRecentLimit.
func (s *Service) Recent(ctx context.Context, limit int) ([]store.Summary, error) {
	switch {
	case limit <= 0:
		limit = DefaultRecentLimit
	case limit > MaxRecentLimit:
		limit = MaxRecentLimit
	}

	summaries, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}
	return summaries, nil
}
