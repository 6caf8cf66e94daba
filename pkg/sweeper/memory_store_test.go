package sweeper

import (
	"context"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreeman451/reachscan/pkg/models"
)

var (
	_ Store = (*InMemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// storeFixture returns results spread over an hour ending at now.
func storeFixture(now time.Time) []models.ScanResult {
	return []models.ScanResult{
		{
			Address: netip.MustParseAddr("10.0.0.1"), Port: 80, Status: models.StatusOpen,
			RTT: rtt(1500 * time.Microsecond), Hostname: "web.lan", CompletedAt: now.Add(-time.Hour),
		},
		{
			Address: netip.MustParseAddr("10.0.0.2"), Port: 80, Status: models.StatusClosed,
			CompletedAt: now.Add(-30 * time.Minute),
		},
		{
			Address: netip.MustParseAddr("10.0.0.3"), Port: 443, Status: models.StatusUnreachable,
			Error: "no route to host", CompletedAt: now,
		},
	}
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	for _, r := range storeFixture(now) {
		require.NoError(t, store.SaveResult(ctx, &r))
	}

	all, err := store.GetResults(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	open, err := store.GetResults(ctx, &models.ResultFilter{Status: models.StatusOpen})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "web.lan", open[0].Hostname)
	require.NotNil(t, open[0].RTT)
	assert.Equal(t, 1500*time.Microsecond, *open[0].RTT)
	assert.True(t, now.Add(-time.Hour).Equal(open[0].CompletedAt))

	byPort, err := store.GetResults(ctx, &models.ResultFilter{Port: 443})
	require.NoError(t, err)
	require.Len(t, byPort, 1)
	assert.Equal(t, "no route to host", byPort[0].Error)
	assert.Nil(t, byPort[0].RTT)

	byAddr, err := store.GetResults(ctx, &models.ResultFilter{Address: netip.MustParseAddr("10.0.0.2")})
	require.NoError(t, err)
	require.Len(t, byAddr, 1)
	assert.Equal(t, models.StatusClosed, byAddr[0].Status)

	recent, err := store.GetResults(ctx, &models.ResultFilter{StartTime: now.Add(-45 * time.Minute)})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	older, err := store.GetResults(ctx, &models.ResultFilter{EndTime: now.Add(-45 * time.Minute)})
	require.NoError(t, err)
	assert.Len(t, older, 1)

	// a rescan replaces the earlier result for the same address and port
	rescan := models.ScanResult{
		Address: netip.MustParseAddr("10.0.0.2"), Port: 80, Status: models.StatusOpen,
		RTT: rtt(time.Millisecond), CompletedAt: now,
	}
	require.NoError(t, store.SaveResult(ctx, &rescan))

	all, err = store.GetResults(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byAddr, err = store.GetResults(ctx, &models.ResultFilter{Address: rescan.Address})
	require.NoError(t, err)
	require.Len(t, byAddr, 1)
	assert.Equal(t, models.StatusOpen, byAddr[0].Status)

	require.NoError(t, store.PruneResults(ctx, 45*time.Minute))

	all, err = store.GetResults(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = store.GetLatestSummary(ctx)
	require.ErrorIs(t, err, errNoSummary)

	first := models.ScanSummary{
		Planned: 3, Submitted: 3, Completed: 3, StartedAt: now.Add(-time.Minute), Elapsed: time.Second,
		StatusCounts: map[models.Status]int{models.StatusOpen: 1, models.StatusClosed: 1, models.StatusUnreachable: 1},
	}
	second := models.ScanSummary{
		Planned: 10, Submitted: 4, Completed: 4, StartedAt: now, Elapsed: 2 * time.Second, Cancelled: true,
		WithHostnames: 1,
		StatusCounts:  map[models.Status]int{models.StatusOpen: 2, models.StatusClosed: 2, models.StatusUnreachable: 0},
	}

	require.NoError(t, store.SaveSummary(ctx, &first))
	require.NoError(t, store.SaveSummary(ctx, &second))

	latest, err := store.GetLatestSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), latest.Planned)
	assert.Equal(t, 4, latest.Submitted)
	assert.True(t, latest.Cancelled)
	assert.Equal(t, 1, latest.WithHostnames)
	assert.Equal(t, 2, latest.Count(models.StatusOpen))
	assert.Equal(t, 2*time.Second, latest.Elapsed)
	assert.True(t, now.Equal(latest.StartedAt))
}

func TestInMemoryStore(t *testing.T) {
	t.Parallel()

	exerciseStore(t, NewInMemoryStore())
}

func TestMatchesFilter_Nil(t *testing.T) {
	t.Parallel()

	assert.True(t, matchesFilter(&models.ScanResult{}, nil))
	assert.True(t, matchesFilter(&models.ScanResult{}, &models.ResultFilter{}))
}
