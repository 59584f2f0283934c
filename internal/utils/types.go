package utils

import "time"

// Config holds the settings for one download invocation. It is
// immutable once the download starts.
type Config struct {
	Connections      int
	ChunkSize        int
	ProgressInterval time.Duration
	Timeout          time.Duration
	VerifyTLS        bool
}

// WithDefaults fills in zero or invalid fields.
func (c Config) WithDefaults() Config {
	if c.Connections < 1 {
		c.Connections = DefaultConnections
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.ProgressInterval <= 0 {
		c.ProgressInterval = DefaultProgressInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// EffectiveChunkSize caps the configured chunk size so that
// cancellation is observed at most one small chunk away.
func (c Config) EffectiveChunkSize() int {
	if c.ChunkSize > MaxChunkSize {
		return MaxChunkSize
	}
	return c.ChunkSize
}

// ByteRange is one worker's slice of the file. EndByte is inclusive;
// Index orders part files for the merge.
type ByteRange struct {
	Index     int
	StartByte int64
	EndByte   int64
}

func (r ByteRange) Size() int64 {
	return r.EndByte - r.StartByte + 1
}

type DownloadEntry struct {
	OutputPath string `yaml:"op"`
	URL        string `yaml:"link"`
}
