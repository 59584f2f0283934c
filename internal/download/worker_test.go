package download

import (
	"bytes"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/swoopdl/swoop/internal/auth"
	"github.com/swoopdl/swoop/internal/progress"
	"github.com/swoopdl/swoop/internal/utils"
)

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	data := make([]byte, n)
	rng := rand.New(rand.NewSource(42))
	rng.Read(data)
	return data
}

func rangedServer(t *testing.T, content []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "file.bin", time.Time{}, bytes.NewReader(content))
	}))
}

func TestFetchRangeWritesExactSlice(t *testing.T) {
	content := randomBytes(t, 64*1024)
	server := rangedServer(t, content)
	defer server.Close()

	dir := t.TempDir()
	partPath := filepath.Join(dir, "file.bin.part1")
	rng := &utils.ByteRange{Index: 1, StartByte: 1000, EndByte: 32767}
	tok := progress.NewToken()
	tracker := progress.NewTracker(int64(len(content)), true)

	err := fetchRange(newTestClient(), server.URL, auth.Credential{}, rng, partPath, 8192, tok, tracker)
	require.NoError(t, err)

	got, err := os.ReadFile(partPath)
	require.NoError(t, err)
	require.Equal(t, content[1000:32768], got)
	require.Equal(t, rng.Size(), tracker.Snapshot().DownloadedBytes)
}

func TestFetchRangeWholeFile(t *testing.T) {
	content := randomBytes(t, 20*1024)
	server := rangedServer(t, content)
	defer server.Close()

	outPath := filepath.Join(t.TempDir(), "file.bin")
	tok := progress.NewToken()
	tracker := progress.NewTracker(int64(len(content)), true)

	err := fetchRange(newTestClient(), server.URL, auth.Credential{}, nil, outPath, 8192, tok, tracker)
	require.NoError(t, err)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, content, got)
}

func TestFetchRangeRejectsStatus200(t *testing.T) {
	content := randomBytes(t, 4096)
	// Server ignores the Range header and returns the whole body with
	// status 200; accepting it would corrupt the merge.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer server.Close()

	partPath := filepath.Join(t.TempDir(), "file.bin.part0")
	rng := &utils.ByteRange{Index: 0, StartByte: 0, EndByte: 1023}
	tok := progress.NewToken()
	tracker := progress.NewTracker(int64(len(content)), true)

	err := fetchRange(newTestClient(), server.URL, auth.Credential{}, rng, partPath, 8192, tok, tracker)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrCancelled)
	_, statErr := os.Stat(partPath)
	require.True(t, os.IsNotExist(statErr), "no part file should be created on protocol violation")
	require.Equal(t, int64(0), tracker.Snapshot().DownloadedBytes)
}

func TestFetchRangeCancelledBeforeStart(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	outPath := filepath.Join(t.TempDir(), "file.bin")
	tok := progress.NewToken()
	tok.Cancel()
	tracker := progress.NewTracker(0, false)

	err := fetchRange(newTestClient(), server.URL, auth.Credential{}, nil, outPath, 8192, tok, tracker)
	require.ErrorIs(t, err, ErrCancelled)
	require.Equal(t, int32(0), requests.Load(), "no request should be issued after cancellation")
	_, statErr := os.Stat(outPath)
	require.True(t, os.IsNotExist(statErr))
}

func TestFetchRangeCancelledMidStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		junk := make([]byte, 1024)
		for {
			if _, err := w.Write(junk); err != nil {
				return
			}
			flusher.Flush()
			select {
			case <-r.Context().Done():
				return
			case <-time.After(10 * time.Millisecond):
			}
		}
	}))
	defer server.Close()

	outPath := filepath.Join(t.TempDir(), "file.bin")
	tok := progress.NewToken()
	tracker := progress.NewTracker(0, false)

	errCh := make(chan error, 1)
	go func() {
		errCh <- fetchRange(newTestClient(), server.URL, auth.Credential{}, nil, outPath, 8192, tok, tracker)
	}()
	time.Sleep(80 * time.Millisecond)
	tok.Cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, ErrCancelled)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not observe cancellation in time")
	}
}

func TestFetchRangeAppliesCredential(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	outPath := filepath.Join(t.TempDir(), "file.bin")
	tok := progress.NewToken()
	tracker := progress.NewTracker(0, false)
	cred := auth.Credential{Token: "sesame"}

	err := fetchRange(newTestClient(), server.URL, cred, nil, outPath, 8192, tok, tracker)
	require.NoError(t, err)
	require.Equal(t, "Bearer sesame", gotAuth)
}
