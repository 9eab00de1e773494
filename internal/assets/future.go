package assets

import (
	"context"
	"fmt"
	"image"
	"time"

	"golang.org/x/sync/errgroup"
)

// Future is a single in-flight image load.
type Future struct {
	url  string
	done chan struct{}
	img  image.Image
	err  error
}

// Go starts loading url in its own goroutine.
func Go(ctx context.Context, l Loader, url string) *Future {
	f := &Future{url: url, done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.img, f.err = l.Load(ctx, url)
	}()
	return f
}

func (f *Future) URL() string { return f.url }

// Done is closed once the load has finished, successfully or not.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the load finishes or ctx ends.
func (f *Future) Wait(ctx context.Context) (image.Image, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for %s: %w", f.url, ctx.Err())
	case <-f.done:
		return f.img, f.err
	}
}

// Failed reports whether the load finished with an error. It never blocks.
func (f *Future) Failed() bool {
	select {
	case <-f.done:
		return f.err != nil
	default:
		return false
	}
}

// WaitAll waits for every future and returns the decoded images keyed like
// the input. The first failure cancels the wait and is returned; no partial
// result is handed out.
func WaitAll(ctx context.Context, futures map[string]*Future) (map[string]image.Image, error) {
	g, gctx := errgroup.WithContext(ctx)
	names := make([]string, 0, len(futures))
	for name := range futures {
		names = append(names, name)
	}
	results := make([]image.Image, len(names))
	for i, name := range names {
		f := futures[name]
		g.Go(func() error {
			img, err := f.Wait(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			results[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(map[string]image.Image, len(names))
	for i, name := range names {
		out[name] = results[i]
	}
	return out, nil
}

// LoadAll starts one future per URL and waits for all of them. A positive
// timeout bounds both the loads and the wait.
func LoadAll(ctx context.Context, l Loader, urls map[string]string, timeout time.Duration) (map[string]image.Image, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	futures := make(map[string]*Future, len(urls))
	for name, u := range urls {
		futures[name] = Go(ctx, l, u)
	}
	return WaitAll(ctx, futures)
}
