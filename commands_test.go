package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/vtdash/internal/assets"
	"github.com/rook-computer/vtdash/internal/state"
)

func TestStatusFromFlags(t *testing.T) {
	st, err := statusFromFlags([]string{"rf", " chargePort "}, 40, true, false)
	require.NoError(t, err)
	assert.Equal(t, state.Open, st.RF)
	assert.Equal(t, state.Open, st.ChargePort)
	assert.Equal(t, state.Closed, st.LF)
	assert.Equal(t, 40, st.PanoPct)
	assert.True(t, st.Charging)
	assert.False(t, st.Locked)

	_, err = statusFromFlags([]string{"sunroof"}, 0, false, true)
	assert.Error(t, err)
	_, err = statusFromFlags(nil, 101, false, true)
	assert.Error(t, err)
}

func TestPrintAssets(t *testing.T) {
	urls := map[string]string{
		"body":  "/TeslaResources/COLOR_red/body.png",
		"wheel": "/TeslaResources/wheel.png",
	}

	var out bytes.Buffer
	require.NoError(t, printAssets(context.Background(), &out, urls, nil, time.Second))
	assert.Contains(t, out.String(), "NAME")
	assert.Contains(t, out.String(), "/TeslaResources/COLOR_red/body.png")
	assert.NotContains(t, out.String(), "STATUS")

	loader := assets.LoaderFunc(func(ctx context.Context, url string) (image.Image, error) {
		if url == urls["wheel"] {
			return nil, errors.New("wheel: " + assets.ErrNotFound.Error())
		}
		if url == urls["body"] {
			return image.NewRGBA(image.Rect(0, 0, 540, 285)), nil
		}
		return nil, assets.ErrNotFound
	})
	out.Reset()
	err := printAssets(context.Background(), &out, urls, loader, time.Second)
	assert.EqualError(t, err, "1 of 2 images unavailable")
	assert.Contains(t, out.String(), "ok 540x285")
	assert.Contains(t, out.String(), "error: wheel")
}

func TestRenderCommandWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "battery.png")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"render", "battery", "-o", out, "--pct", "20", "--width", "248", "--height", "80", "--assets.dir", t.TempDir()})
	require.NoError(t, cmd.Execute())

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 248, 80), img.Bounds())
}

func TestRenderCommandRejectsUnknownComponent(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"render", "tachometer", "-o", filepath.Join(t.TempDir(), "x.png")})
	assert.Error(t, cmd.Execute())
}
