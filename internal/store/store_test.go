package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(DefaultSeed())
	ctx := context.Background()

	metrics, err := s.ListMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{MetricPageViews}, metrics)

	tests := []struct {
		metric string
		want   int64
	}{
		{metric: "page views", want: 3871},
		{metric: "  Page   Views ", want: 3871},
		{metric: "visits", want: 1231},
		{metric: "", want: 1231},
	}
	for _, tt := range tests {
		t.Run(tt.metric, func(t *testing.T) {
			got, err := s.MetricTotal(ctx, tt.metric)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMemoryStoreWithoutFallback(t *testing.T) {
	s := NewMemoryStore(Seed{Totals: map[string]int64{"visits": 10}})

	_, err := s.MetricTotal(context.Background(), "orders")
	assert.ErrorIs(t, err, ErrUnknownMetric)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.MetricTotal(ctx, "visits")
	assert.ErrorIs(t, err, context.Canceled)
}
