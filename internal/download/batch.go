package download

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/swoopdl/swoop/internal/auth"
	"github.com/swoopdl/swoop/internal/utils"
)

// RunBatch downloads every entry with at most maxParallel transfers in
// flight. Console rendering is disabled because concurrent bars would
// clobber each other; completions are logged instead. Cancelling ctx
// cancels every in-flight download.
func RunBatch(ctx context.Context, entries []utils.DownloadEntry, maxParallel int, cfg utils.Config, httpCfg utils.HTTPClientConfig, cred auth.Credential) error {
	log := utils.GetLogger("batch")
	if maxParallel < 1 {
		maxParallel = 1
	}
	g := new(errgroup.Group)
	g.SetLimit(maxParallel)
	for _, entry := range entries {
		entry := entry
		g.Go(func() error {
			dl := New(cfg)
			dl.HTTPConfig = httpCfg
			dl.Console = false
			stop := context.AfterFunc(ctx, dl.Cancel)
			defer stop()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			ok, snap := dl.Download(entry.URL, entry.OutputPath, cred, nil)
			if !ok {
				return fmt.Errorf("download failed: %s", entry.URL)
			}
			log.Info().Str("file", entry.OutputPath).Str("size", utils.FormatBytes(uint64(snap.DownloadedBytes))).Msg("Completed")
			return nil
		})
	}
	return g.Wait()
}
