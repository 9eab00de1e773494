package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFSLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"res/COLOR_red/body.png": {Data: pngBytes(t, 4, 3, color.White)},
		"res/broken.png":         {Data: []byte("not a png")},
	}
	l := &FSLoader{FS: fsys}
	ctx := context.Background()

	img, err := l.Load(ctx, "/res/COLOR_red/body.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())

	_, err = l.Load(ctx, "/res/missing.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = l.Load(ctx, "/res/broken.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = l.Load(ctx, "/../etc/passwd")
	assert.Error(t, err)
}

func TestHTTPLoader(t *testing.T) {
	body := pngBytes(t, 2, 2, color.Black)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/static/TeslaResources/wheel.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	l, err := NewHTTPLoader(srv.URL+"/static", time.Second)
	require.NoError(t, err)

	img, err := l.Load(context.Background(), "/TeslaResources/wheel.png")
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())

	_, err = l.Load(context.Background(), "/TeslaResources/nope.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = NewHTTPLoader("ftp://example.com", time.Second)
	assert.Error(t, err)
}

func TestNewSource(t *testing.T) {
	l, err := New(SourceConfig{Kind: SourceDir, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &DedupLoader{}, l)
	assert.IsType(t, &FSLoader{}, l.(*DedupLoader).Unwrap())
	assert.NoError(t, Check(context.Background(), l))

	_, err = New(SourceConfig{Kind: SourceDir})
	assert.Error(t, err)
	_, err = New(SourceConfig{Kind: "ftp"})
	assert.Error(t, err)
	_, err = New(SourceConfig{Kind: SourceMinIO, MinIO: MinIOConfig{Endpoint: "localhost:9000"}})
	assert.Error(t, err)
}

func TestWaitAll(t *testing.T) {
	fsys := fstest.MapFS{
		"a.png": {Data: pngBytes(t, 1, 1, color.White)},
		"b.png": {Data: pngBytes(t, 2, 2, color.White)},
	}
	l := &FSLoader{FS: fsys}
	ctx := context.Background()

	imgs, err := LoadAll(ctx, l, map[string]string{"a": "/a.png", "b": "/b.png"}, time.Second)
	require.NoError(t, err)
	require.Len(t, imgs, 2)
	assert.Equal(t, 2, imgs["b"].Bounds().Dx())

	imgs, err = LoadAll(ctx, l, map[string]string{"a": "/a.png", "c": "/c.png"}, time.Second)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, imgs)
}

func TestWaitAllTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	slow := LoaderFunc(func(ctx context.Context, url string) (image.Image, error) {
		select {
		case <-block:
			return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	start := time.Now()
	_, err := LoadAll(context.Background(), slow, map[string]string{"x": "/x.png"}, 20*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestFuture(t *testing.T) {
	boom := errors.New("boom")
	f := Go(context.Background(), LoaderFunc(func(ctx context.Context, url string) (image.Image, error) {
		return nil, boom
	}), "/plug.png")

	<-f.Done()
	assert.True(t, f.Failed())
	assert.Equal(t, "/plug.png", f.URL())
	_, err := f.Wait(context.Background())
	assert.ErrorIs(t, err, boom)

	pending := Go(context.Background(), LoaderFunc(func(ctx context.Context, url string) (image.Image, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), "/slow.png")
	assert.False(t, pending.Failed())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pending.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDedupLoader(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	inner := LoaderFunc(func(ctx context.Context, url string) (image.Image, error) {
		calls.Add(1)
		<-release
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	})
	l := Dedup(inner)

	var wg sync.WaitGroup
	var started sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		started.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			img, err := l.Load(context.Background(), "/same.png")
			assert.NoError(t, err)
			assert.NotNil(t, img)
		}()
	}
	started.Wait()
	// Let every goroutine reach the shared call before releasing it.
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(2))
}

func TestDedupLoaderSurvivesFirstCallerCancel(t *testing.T) {
	entered := make(chan struct{})
	var enterOnce sync.Once
	release := make(chan struct{})
	inner := LoaderFunc(func(ctx context.Context, url string) (image.Image, error) {
		enterOnce.Do(func() { close(entered) })
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-release:
			return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
		}
	})
	l := Dedup(inner)
	l.Timeout = 5 * time.Second

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := l.Load(firstCtx, "/shared.png")
		firstErr <- err
	}()
	<-entered

	second := make(chan error, 1)
	go func() {
		img, err := l.Load(context.Background(), "/shared.png")
		if err == nil && img == nil {
			err = errors.New("nil image")
		}
		second <- err
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	// Give the second caller time to join before the load finishes.
	time.Sleep(20 * time.Millisecond)
	close(release)
	assert.NoError(t, <-second)
}

func TestDedupLoaderTimeout(t *testing.T) {
	l := Dedup(LoaderFunc(func(ctx context.Context, url string) (image.Image, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	l.Timeout = 10 * time.Millisecond

	_, err := l.Load(context.Background(), "/stuck.png")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
