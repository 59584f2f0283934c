package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackerAccumulates(t *testing.T) {
	tracker := NewTracker(1000, true)

	var last int64
	for i := 0; i < 10; i++ {
		tracker.Add(100)
		snap := tracker.Snapshot()
		require.Greater(t, snap.DownloadedBytes, last, "downloaded bytes must be monotonically non-decreasing")
		require.LessOrEqual(t, snap.DownloadedBytes, snap.TotalBytes)
		last = snap.DownloadedBytes
	}
	snap := tracker.Snapshot()
	require.Equal(t, int64(1000), snap.DownloadedBytes)
	require.InDelta(t, 100.0, snap.Percentage, 0.001)
	require.True(t, tracker.Complete())
}

func TestTrackerConcurrentAdds(t *testing.T) {
	tracker := NewTracker(0, false)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				tracker.Add(1)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int64(8000), tracker.Snapshot().DownloadedBytes)
}

func TestTrackerUnknownSize(t *testing.T) {
	tracker := NewTracker(0, false)
	tracker.Add(512)

	snap := tracker.Snapshot()
	require.Equal(t, int64(512), snap.DownloadedBytes)
	require.Equal(t, int64(0), snap.TotalBytes)
	require.Equal(t, float64(0), snap.Percentage)
	require.False(t, tracker.Complete(), "unknown size never reports complete")

	_, known := tracker.Total()
	require.False(t, known)
}

func TestTrackerRejectsNonPositiveTotal(t *testing.T) {
	tracker := NewTracker(-5, true)
	_, known := tracker.Total()
	require.False(t, known)
}

func TestTokenIdempotentCancel(t *testing.T) {
	tok := NewToken()
	require.False(t, tok.Cancelled())
	tok.Cancel()
	require.True(t, tok.Cancelled())
	tok.Cancel()
	require.True(t, tok.Cancelled(), "cancel is idempotent and irreversible")
}
