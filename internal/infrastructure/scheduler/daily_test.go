package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRun(t *testing.T) {
	t.Parallel()

	seoul := time.FixedZone("KST", 9*60*60)
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"later today", time.Date(2024, 5, 1, 8, 0, 0, 0, seoul), time.Date(2024, 5, 1, 9, 0, 0, 0, seoul)},
		{"exactly now rolls over", time.Date(2024, 5, 1, 9, 0, 0, 0, seoul), time.Date(2024, 5, 2, 9, 0, 0, 0, seoul)},
		{"already passed", time.Date(2024, 5, 1, 23, 0, 0, 0, seoul), time.Date(2024, 5, 2, 9, 0, 0, 0, seoul)},
		{"month end", time.Date(2024, 5, 31, 10, 0, 0, 0, seoul), time.Date(2024, 6, 1, 9, 0, 0, 0, seoul)},
		{"other zone input", time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC), time.Date(2024, 5, 2, 9, 0, 0, 0, seoul)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextRun(tc.now, 9, 0, seoul)
			assert.True(t, tc.want.Equal(got), "want %s, got %s", tc.want, got)
		})
	}
}

func TestDailyScheduler_FiresAndStops(t *testing.T) {
	t.Parallel()

	d := NewDailyScheduler(9, 0, time.UTC)
	// always 20ms before the next run
	d.now = func() time.Time {
		return time.Date(2024, 5, 1, 8, 59, 59, int(980*time.Millisecond), time.UTC)
	}

	fired := make(chan time.Time, 1)
	require.NoError(t, d.Start(context.Background(), func(at time.Time) {
		select {
		case fired <- at:
		default:
		}
	}))
	require.NoError(t, d.Start(context.Background(), func(time.Time) {}), "second start is a no-op")

	select {
	case got := <-fired:
		assert.Equal(t, time.UTC, got.Location())
	case <-time.After(2 * time.Second):
		t.Fatal("job did not fire")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))
	require.NoError(t, d.Stop(ctx), "stop is idempotent")
}

func TestDailyScheduler_NilJob(t *testing.T) {
	t.Parallel()

	d := NewDailyScheduler(9, 0, nil)
	require.NoError(t, d.Start(context.Background(), nil))
	require.NoError(t, d.Stop(context.Background()))
}
