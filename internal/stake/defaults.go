package stake

import "time"

const (
	defaultCacheSize   = 1024
	defaultCacheTTL    = time.Hour
	defaultHTTPTimeout = 10 * time.Second
	maxResponseBytes   = 4 << 20

	snapshotPath = "/v1/stake"
	heightPath   = "/v1/height"
)
