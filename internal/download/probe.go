package download

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/swoopdl/swoop/internal/auth"
	"github.com/swoopdl/swoop/internal/utils"
)

// ResolveSize determines the resource size in bytes. It tries a HEAD
// request first and falls back to a streaming GET whose body is
// discarded unread. Both attempts failing is not an error: the size is
// simply unknown and percentage reporting degrades.
func ResolveSize(url string, client *utils.Client, cred auth.Credential) (int64, bool) {
	log := utils.GetLogger("probe")
	for _, method := range []string{http.MethodHead, http.MethodGet} {
		req, err := http.NewRequest(method, url, nil)
		if err != nil {
			return 0, false
		}
		cred.Apply(req)
		resp, err := client.Do(req)
		if err != nil {
			log.Debug().Err(err).Str("method", method).Msg("Size probe request failed")
			continue
		}
		contentLength := resp.Header.Get("Content-Length")
		resp.Body.Close()
		if contentLength == "" {
			continue
		}
		size, err := strconv.ParseInt(contentLength, 10, 64)
		if err != nil || size <= 0 {
			continue
		}
		return size, true
	}
	return 0, false
}

// SupportsRanges checks whether the server honors byte-range requests
// by sending a HEAD with a two-byte range. Any failure means "no",
// which degrades to the single-stream path rather than aborting.
func SupportsRanges(url string, client *utils.Client, cred auth.Credential) bool {
	log := utils.GetLogger("probe")
	req, err := http.NewRequest(http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	cred.Apply(req)
	req.Header.Set("Range", "bytes=0-1")
	resp, err := client.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("Range probe request failed")
		return false
	}
	defer resp.Body.Close()
	return strings.EqualFold(resp.Header.Get("Accept-Ranges"), "bytes") ||
		resp.StatusCode == http.StatusPartialContent ||
		resp.Header.Get("Content-Range") != ""
}
