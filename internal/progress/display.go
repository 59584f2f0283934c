package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/swoopdl/swoop/internal/output"
)

// Display forwards tracker snapshots to the console and to an optional
// caller callback. Neither path may stall or abort the transfer:
// console writes are best-effort and callback panics are swallowed.
type Display struct {
	console  bool
	callback func(Snapshot)
	lastPct  float64
}

func NewDisplay(console bool, callback func(Snapshot)) *Display {
	return &Display{console: console, callback: callback, lastPct: -1}
}

// Watch polls the tracker until the download completes, the token is
// cancelled, or stop closes. Run it in its own goroutine.
func (d *Display) Watch(t *Tracker, tok *Token, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if tok.Cancelled() {
				return
			}
			d.Update(t.Snapshot())
			if t.Complete() {
				return
			}
		}
	}
}

func (d *Display) Update(snap Snapshot) {
	d.emit(snap)
	if !d.console {
		return
	}
	// Repaint only on visible movement; unknown-size lines always
	// repaint since the byte count is the only signal.
	if snap.TotalBytes > 0 && snap.Percentage-d.lastPct < 0.1 && d.lastPct >= 0 {
		return
	}
	fmt.Fprintf(os.Stdout, "\r%s\033[K", output.ProgressLine(snap.DownloadedBytes, snap.TotalBytes, snap.Percentage, snap.BytesPerSecond))
	d.lastPct = snap.Percentage
}

// Finish emits the terminal snapshot and closes out the console line.
func (d *Display) Finish(snap Snapshot, success bool) {
	if d.console {
		line := output.ProgressLine(snap.DownloadedBytes, snap.TotalBytes, snap.Percentage, snap.BytesPerSecond)
		if !success {
			line += " " + output.FWarning("- interrupted")
		}
		fmt.Fprintf(os.Stdout, "\r%s\033[K\n", line)
	}
	d.emit(snap)
}

// emit invokes the caller's callback; a panicking callback must never
// take down the transfer.
func (d *Display) emit(snap Snapshot) {
	if d.callback == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	d.callback(snap)
}
