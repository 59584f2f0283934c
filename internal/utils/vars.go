package utils

import (
	"regexp"
	"time"
)

const (
	DefaultConnections      = 4
	DefaultChunkSize        = 8192
	MaxChunkSize            = 8192
	DefaultProgressInterval = 100 * time.Millisecond
	DefaultTimeout          = 30 * time.Second
	DefaultKATimeout        = 60 * time.Second
)

const ToolUserAgent = "Swoop-CLI"

var PartFileRegex = regexp.MustCompile(`\.part(\d+)$`)
