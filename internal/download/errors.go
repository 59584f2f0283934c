package download

import "errors"

var (
	// ErrCancelled marks any failure caused by the cancellation token.
	// It suppresses error framing in user-facing reporting.
	ErrCancelled = errors.New("download cancelled")

	// ErrMergeIntegrity marks a part file missing at merge time.
	ErrMergeIntegrity = errors.New("part file missing during merge")
)
