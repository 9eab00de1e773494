package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/singleflight"

	"github.com/rook-computer/vtdash/internal/metrics"
)

// ErrNotFound is returned when an asset does not exist in its source.
var ErrNotFound = errors.New("asset not found")

// Loader resolves an asset URL to a decoded image.
type Loader interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, url string) (image.Image, error)

func (f LoaderFunc) Load(ctx context.Context, url string) (image.Image, error) { return f(ctx, url) }

func decode(r io.Reader, name string) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

func observe(source string, err error) {
	result := metrics.ResultOK
	switch {
	case errors.Is(err, ErrNotFound):
		result = metrics.ResultNotFound
	case err != nil:
		result = metrics.ResultError
	}
	metrics.AssetLoads.WithLabelValues(source, result).Inc()
}

// FSLoader reads assets from a filesystem. URLs are treated as slash
// separated paths relative to the filesystem root.
type FSLoader struct {
	FS fs.FS
}

func NewDirLoader(dir string) *FSLoader {
	return &FSLoader{FS: os.DirFS(dir)}
}

func (l *FSLoader) Load(ctx context.Context, u string) (image.Image, error) {
	img, err := l.load(ctx, u)
	observe("fs", err)
	return img, err
}

func (l *FSLoader) load(ctx context.Context, u string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := path.Clean(strings.TrimPrefix(u, "/"))
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("invalid asset path %q", u)
	}
	f, err := l.FS.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", u, ErrNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", u, err)
	}
	defer f.Close()
	return decode(f, u)
}

// HTTPLoader fetches assets relative to a base URL.
type HTTPLoader struct {
	Base   *url.URL
	Client *http.Client
}

func NewHTTPLoader(base string, timeout time.Duration) (*HTTPLoader, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse asset base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("asset base url must be http or https, got %q", base)
	}
	return &HTTPLoader{Base: u, Client: &http.Client{Timeout: timeout}}, nil
}

func (l *HTTPLoader) Load(ctx context.Context, u string) (image.Image, error) {
	img, err := l.load(ctx, u)
	observe("http", err)
	return img, err
}

func (l *HTTPLoader) load(ctx context.Context, u string) (image.Image, error) {
	ref, err := url.Parse(strings.TrimPrefix(u, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse asset url %q: %w", u, err)
	}
	base := *l.Base
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	target := base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", target, ErrNotFound)
	case resp.StatusCode/100 != 2:
		return nil, fmt.Errorf("fetch %s: status %d", target, resp.StatusCode)
	}
	return decode(resp.Body, target.String())
}

// MinIOConfig selects a bucket on an S3 compatible endpoint.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
}

// MinIOLoader reads assets as objects from a bucket. The URL path is the
// object key.
type MinIOLoader struct {
	client *minio.Client
	bucket string
}

func NewMinIOLoader(cfg MinIOConfig) (*MinIOLoader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("minio bucket is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinIOLoader{client: client, bucket: cfg.Bucket}, nil
}

// CheckBucket verifies the bucket exists; assets are never uploaded here.
func (l *MinIOLoader) CheckBucket(ctx context.Context) error {
	exists, err := l.client.BucketExists(ctx, l.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %q: %w", l.bucket, ErrNotFound)
	}
	return nil
}

func (l *MinIOLoader) Load(ctx context.Context, u string) (image.Image, error) {
	img, err := l.load(ctx, u)
	observe("minio", err)
	return img, err
}

func (l *MinIOLoader) load(ctx context.Context, u string) (image.Image, error) {
	key := strings.TrimPrefix(u, "/")
	obj, err := l.client.GetObject(ctx, l.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer obj.Close()
	if _, err := obj.Stat(); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("stat object %s: %w", key, err)
	}
	return decode(obj, key)
}

// defaultDedupTimeout bounds a shared load when DedupLoader.Timeout is unset.
const defaultDedupTimeout = 30 * time.Second

// DedupLoader collapses concurrent loads of the same URL into one call to
// the wrapped loader. Nothing is cached once the call returns. The shared
// call is detached from its callers' cancellation and bounded by Timeout
// instead, so one caller going away does not fail the others; each caller
// still stops waiting when its own ctx ends.
type DedupLoader struct {
	Timeout time.Duration

	next  Loader
	group singleflight.Group
}

func Dedup(next Loader) *DedupLoader {
	return &DedupLoader{next: next}
}

func (l *DedupLoader) Load(ctx context.Context, u string) (image.Image, error) {
	ch := l.group.DoChan(u, func() (any, error) {
		timeout := l.Timeout
		if timeout <= 0 {
			timeout = defaultDedupTimeout
		}
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		return l.next.Load(shared, u)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		img, _ := res.Val.(image.Image)
		return img, nil
	}
}

// Unwrap returns the wrapped loader.
func (l *DedupLoader) Unwrap() Loader { return l.next }
