package progress

import "sync/atomic"

// Token is the shared cancellation flag for one download. Any party
// (caller, signal handler, internal failure) may set it; setting is
// idempotent and irreversible for the life of the download.
type Token struct {
	flag atomic.Bool
}

func NewToken() *Token {
	return &Token{}
}

func (t *Token) Cancel() {
	t.flag.Store(true)
}

func (t *Token) Cancelled() bool {
	return t.flag.Load()
}
