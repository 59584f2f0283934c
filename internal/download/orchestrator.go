package download

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/swoopdl/swoop/internal/auth"
	"github.com/swoopdl/swoop/internal/progress"
	"github.com/swoopdl/swoop/internal/utils"
)

// pollInterval bounds how stale a cancellation or worker failure can
// get while the orchestrator waits.
const pollInterval = 50 * time.Millisecond

// multiDownload runs one worker per planned range and merges the part
// files in index order. It returns as soon as the token is observed
// set or any worker fails, without waiting for the remaining workers
// to wind down gracefully.
func multiDownload(client *utils.Client, url string, cred auth.Credential, outPath string, ranges []utils.ByteRange, chunkSize int, tok *progress.Token, tracker *progress.Tracker) error {
	log := utils.GetLogger("orchestrator")

	var pending atomic.Int32
	pending.Store(int32(len(ranges)))
	var mu sync.Mutex
	var firstErr error
	for i := range ranges {
		go func(rng *utils.ByteRange) {
			defer pending.Add(-1)
			partPath := utils.PartFilePath(outPath, rng.Index)
			if err := fetchRange(client, url, cred, rng, partPath, chunkSize, tok, tracker); err != nil {
				log.Debug().Err(err).Int("part", rng.Index).Msg("Part download failed")
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("part %d: %w", rng.Index, err)
				}
				mu.Unlock()
			}
		}(&ranges[i])
	}

	failed := func() error {
		mu.Lock()
		defer mu.Unlock()
		return firstErr
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for pending.Load() > 0 {
		<-ticker.C
		if tok.Cancelled() {
			return ErrCancelled
		}
		if err := failed(); err != nil && !errors.Is(err, ErrCancelled) {
			// A failed range poisons the whole attempt; cancel the
			// rest and skip the merge.
			tok.Cancel()
			return err
		}
	}
	if err := failed(); err != nil {
		if errors.Is(err, ErrCancelled) {
			return ErrCancelled
		}
		return err
	}
	if tok.Cancelled() {
		return ErrCancelled
	}
	return mergeParts(outPath, ranges)
}

// mergeParts concatenates part files into outPath in ascending index
// order, deleting each part after it is appended. A missing part is
// fatal; nothing is silently skipped.
func mergeParts(outPath string, ranges []utils.ByteRange) error {
	log := utils.GetLogger("merge")
	destFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("error creating destination file: %v", err)
	}
	defer destFile.Close()

	var totalWritten int64
	for _, rng := range ranges {
		partPath := utils.PartFilePath(outPath, rng.Index)
		partFile, err := os.Open(partPath)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", ErrMergeIntegrity, partPath)
			}
			return fmt.Errorf("error opening part file %s: %v", partPath, err)
		}
		written, err := io.Copy(destFile, partFile)
		partFile.Close()
		if err != nil {
			return fmt.Errorf("error copying part data: %v", err)
		}
		if written != rng.Size() {
			return fmt.Errorf("part %d size mismatch: wrote %d bytes, expected %d", rng.Index, written, rng.Size())
		}
		totalWritten += written
		os.Remove(partPath)
	}
	log.Debug().Int64("totalWritten", totalWritten).Int("parts", len(ranges)).Msg("Merge completed")
	return nil
}
