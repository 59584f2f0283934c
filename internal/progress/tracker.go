package progress

import (
	"sync"
	"time"
)

// Snapshot is an immutable point-in-time view of a transfer.
// TotalBytes is 0 and Percentage stays 0 while the size is unknown.
type Snapshot struct {
	DownloadedBytes int64
	TotalBytes      int64
	Percentage      float64
	BytesPerSecond  float64
}

// Tracker accumulates bytes written by concurrent workers. All fields
// live behind one mutex; readers only ever get derived snapshots.
type Tracker struct {
	mu         sync.Mutex
	downloaded int64
	total      int64
	sizeKnown  bool
	startTime  time.Time
}

func NewTracker(totalBytes int64, sizeKnown bool) *Tracker {
	if totalBytes <= 0 {
		sizeKnown = false
		totalBytes = 0
	}
	return &Tracker{
		total:     totalBytes,
		sizeKnown: sizeKnown,
		startTime: time.Now(),
	}
}

func (t *Tracker) Add(bytes int64) {
	t.mu.Lock()
	t.downloaded += bytes
	t.mu.Unlock()
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := Snapshot{DownloadedBytes: t.downloaded}
	if t.sizeKnown {
		snap.TotalBytes = t.total
		snap.Percentage = float64(t.downloaded) / float64(t.total) * 100
	}
	if elapsed := time.Since(t.startTime).Seconds(); elapsed > 0 {
		snap.BytesPerSecond = float64(t.downloaded) / elapsed
	}
	return snap
}

// Complete reports whether all known bytes have arrived. It is always
// false when the size is unknown.
func (t *Tracker) Complete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sizeKnown && t.downloaded >= t.total
}

// Total returns the expected size and whether it is known.
func (t *Tracker) Total() (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total, t.sizeKnown
}
