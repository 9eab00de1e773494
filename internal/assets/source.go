package assets

import (
	"context"
	"fmt"
	"time"
)

// Source kinds accepted by New.
const (
	SourceDir   = "dir"
	SourceHTTP  = "http"
	SourceMinIO = "minio"
)

// SourceConfig selects and configures one asset source.
type SourceConfig struct {
	Kind    string
	Dir     string
	BaseURL string
	Timeout time.Duration
	MinIO   MinIOConfig
}

// New builds the configured loader wrapped in a DedupLoader bounded by
// cfg.Timeout.
func New(cfg SourceConfig) (Loader, error) {
	var (
		l   Loader
		err error
	)
	switch cfg.Kind {
	case "", SourceDir:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("asset directory is required")
		}
		l = NewDirLoader(cfg.Dir)
	case SourceHTTP:
		l, err = NewHTTPLoader(cfg.BaseURL, cfg.Timeout)
	case SourceMinIO:
		l, err = NewMinIOLoader(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unknown asset source %q", cfg.Kind)
	}
	if err != nil {
		return nil, err
	}
	d := Dedup(l)
	d.Timeout = cfg.Timeout
	return d, nil
}

// Check verifies that a remote source is reachable before serving. Sources
// without a cheap probe always pass.
func Check(ctx context.Context, l Loader) error {
	if d, ok := l.(*DedupLoader); ok {
		l = d.Unwrap()
	}
	if m, ok := l.(*MinIOLoader); ok {
		return m.CheckBucket(ctx)
	}
	return nil
}
