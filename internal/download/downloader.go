package download

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/swoopdl/swoop/internal/auth"
	"github.com/swoopdl/swoop/internal/progress"
	"github.com/swoopdl/swoop/internal/utils"
)

// Downloader sequences one transfer: probe, plan, fetch (single- or
// multi-stream), merge, finalize. It owns the cancellation token for
// the duration of each Download call; a fresh token is created per
// call and never leaks into the next one.
type Downloader struct {
	Config     utils.Config
	HTTPConfig utils.HTTPClientConfig
	Console    bool

	mu     sync.Mutex
	active *progress.Token
}

func New(cfg utils.Config) *Downloader {
	return &Downloader{
		Config:  cfg.WithDefaults(),
		Console: true,
	}
}

// Cancel requests cancellation of the in-flight download, if any. It
// is the hook the host layer bridges OS interrupts into; cancellation
// from a signal and from a caller are indistinguishable downstream.
func (d *Downloader) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active != nil {
		d.active.Cancel()
	}
}

// Download fetches url into outPath. It always returns rather than
// terminating the process: failures come back as success=false with a
// best-effort final snapshot, and no partial file survives any failure
// or cancellation path.
func (d *Downloader) Download(url string, outPath string, cred auth.Credential, callback func(progress.Snapshot)) (bool, progress.Snapshot) {
	log := utils.GetLogger("download").With().Str("jobId", uuid.NewString()[:8]).Logger()
	startTime := time.Now()

	tok := progress.NewToken()
	d.mu.Lock()
	d.active = tok
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.active = nil
		d.mu.Unlock()
	}()

	httpCfg := d.HTTPConfig
	if httpCfg.Timeout == 0 {
		httpCfg.Timeout = d.Config.Timeout
	}
	httpCfg.VerifyTLS = d.Config.VerifyTLS
	if !httpCfg.VerifyTLS {
		log.Debug().Msg("TLS certificate verification is disabled")
	}
	client := utils.NewClient(httpCfg)

	// Probing: both probes are best-effort; failures degrade the plan
	// instead of aborting.
	size, sizeKnown := ResolveSize(url, client, cred)
	if sizeKnown {
		log.Debug().Str("size", utils.FormatBytes(uint64(size))).Msg("Resolved file size")
	} else {
		log.Warn().Str("url", url).Msg("Could not determine file size")
	}
	rangeSupported := SupportsRanges(url, client, cred)

	tracker := progress.NewTracker(size, sizeKnown)
	display := progress.NewDisplay(d.Console, callback)

	// Planning: multi-stream needs a known size, range support, more
	// than one connection, and enough bytes to give every worker a
	// non-empty range.
	useMulti := rangeSupported && sizeKnown && d.Config.Connections > 1 && size >= int64(d.Config.Connections)
	if useMulti {
		log.Debug().Int("connections", d.Config.Connections).Msg("Using multi-stream download")
	} else {
		log.Debug().Bool("rangeSupported", rangeSupported).Bool("sizeKnown", sizeKnown).Msg("Using single-stream download")
	}

	stopCh := make(chan struct{})
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		display.Watch(tracker, tok, d.Config.ProgressInterval, stopCh)
	}()

	chunkSize := d.Config.EffectiveChunkSize()
	var err error
	if useMulti {
		ranges := PlanRanges(size, d.Config.Connections)
		err = multiDownload(client, url, cred, outPath, ranges, chunkSize, tok, tracker)
	} else {
		err = fetchRange(client, url, cred, nil, outPath, chunkSize, tok, tracker)
	}

	close(stopCh)
	<-watchDone

	snap := tracker.Snapshot()
	success := err == nil
	display.Finish(snap, success)
	if success {
		log.Debug().Str("file", outPath).Dur("elapsed", time.Since(startTime)).Msg("Download completed")
	} else {
		if errors.Is(err, ErrCancelled) {
			log.Warn().Str("file", outPath).Msg("Download cancelled")
		} else {
			log.Error().Err(err).Str("file", outPath).Msg("Download failed")
		}
		cleanupPartialFiles(outPath, d.Config.Connections)
	}
	return success, snap
}

// cleanupPartialFiles removes the destination and any residual part
// files. Known part indices are enumerated directly; a glob sweep
// catches leftovers from earlier invocations with other worker counts.
func cleanupPartialFiles(outPath string, numParts int) {
	log := utils.GetLogger("cleanup")
	if err := os.Remove(outPath); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("file", outPath).Msg("Could not remove destination file")
	}
	for i := 0; i < numParts; i++ {
		os.Remove(utils.PartFilePath(outPath, i))
	}
	matches, err := filepath.Glob(outPath + ".part*")
	if err != nil {
		return
	}
	for _, match := range matches {
		if utils.PartFileRegex.MatchString(match) {
			os.Remove(match)
		}
	}
}
