package download

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/swoopdl/swoop/internal/auth"
	"github.com/swoopdl/swoop/internal/progress"
	"github.com/swoopdl/swoop/internal/utils"
)

// fetchRange streams one GET into outPath. A nil rng fetches the whole
// resource; otherwise the request carries a Range header and the
// response must be 206 — some servers silently ignore Range and return
// 200 with the full body, which would corrupt the merge if accepted.
// The token is checked before the request, after the response, and
// before every chunk write. The worker never deletes its own output;
// cleanup is centralized in the downloader.
func fetchRange(client *utils.Client, url string, cred auth.Credential, rng *utils.ByteRange, outPath string, chunkSize int, tok *progress.Token, tracker *progress.Tracker) error {
	log := utils.GetLogger("worker")
	if rng != nil {
		log = log.With().Int("part", rng.Index).Logger()
	}
	if tok.Cancelled() {
		return ErrCancelled
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("error creating GET request: %v", err)
	}
	cred.Apply(req)
	if rng != nil {
		rangeHeader := fmt.Sprintf("bytes=%d-%d", rng.StartByte, rng.EndByte)
		req.Header.Set("Range", rangeHeader)
		log.Debug().Str("range", rangeHeader).Msg("Sending range request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error executing GET request: %v", err)
	}
	defer resp.Body.Close()
	if tok.Cancelled() {
		return ErrCancelled
	}
	if rng != nil {
		if resp.StatusCode != http.StatusPartialContent {
			return fmt.Errorf("expected status 206 for range request, got %d", resp.StatusCode)
		}
	} else if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	outFile, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("error creating output file: %v", err)
	}
	defer outFile.Close()

	buffer := make([]byte, chunkSize)
	var written int64
	for {
		bytesRead, readErr := resp.Body.Read(buffer)
		if bytesRead > 0 {
			if tok.Cancelled() {
				return ErrCancelled
			}
			if _, writeErr := outFile.Write(buffer[:bytesRead]); writeErr != nil {
				return fmt.Errorf("error writing to output file: %v", writeErr)
			}
			written += int64(bytesRead)
			tracker.Add(int64(bytesRead))
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return fmt.Errorf("error reading response body: %v", readErr)
		}
	}
	if rng != nil && written != rng.Size() {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", rng.Size(), written)
	}
	log.Debug().Int64("written", written).Msg("Fetch completed")
	return nil
}
