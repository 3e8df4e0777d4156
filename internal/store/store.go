package store

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// ErrUnknownMetric is returned when a store has no total for a metric and
// no fallback value.
var ErrUnknownMetric = errors.New("unknown metric")

const MetricPageViews = "page views"

// Store supplies analytics metric totals for the selected report suite.
type Store interface {
	ListMetrics(ctx context.Context) ([]string, error)
	MetricTotal(ctx context.Context, metric string) (int64, error)
}

// Seed holds the canned totals served by MemoryStore.
type Seed struct {
	Totals map[string]int64
	// Fallback is reported for metrics missing from Totals; zero disables it.
	Fallback int64
}

// DefaultSeed returns the totals reported for the current month.
func DefaultSeed() Seed {
	return Seed{
		Totals:   map[string]int64{MetricPageViews: 3871},
		Fallback: 1231,
	}
}

// MemoryStore is a read-only Store backed by a fixed seed. It is safe for
// concurrent use.
type MemoryStore struct {
	totals   map[string]int64
	fallback int64
}

func NewMemoryStore(seed Seed) *MemoryStore {
	totals := make(map[string]int64, len(seed.Totals))
	for name, v := range seed.Totals {
		totals[normalize(name)] = v
	}
	return &MemoryStore{totals: totals, fallback: seed.Fallback}
}

func (s *MemoryStore) ListMetrics(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(s.totals))
	for name := range s.totals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) MetricTotal(ctx context.Context, metric string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if v, ok := s.totals[normalize(metric)]; ok {
		return v, nil
	}
	if s.fallback != 0 {
		return s.fallback, nil
	}
	return 0, ErrUnknownMetric
}

func normalize(metric string) string {
	return strings.ToLower(strings.Join(strings.Fields(metric), " "))
}
