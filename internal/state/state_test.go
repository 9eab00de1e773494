package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreDefaultsAndUpdates(t *testing.T) {
	store := NewStore()
	snap := store.Snapshot()
	assert.Equal(t, "white", snap.Vehicle.Color)
	assert.Equal(t, Closed, snap.Status.RF)
	assert.True(t, snap.Status.Locked)
	assert.Zero(t, snap.Seq)

	store.SetGauges(Gauges{Speed: 55, Power: -20, BatteryPct: 70})
	store.SetStatus(VehicleStatus{RF: Open})
	snap = store.Snapshot()
	assert.Equal(t, 55.0, snap.Gauges.Speed)
	assert.True(t, snap.Status.RF.IsOpen())
	assert.Equal(t, uint64(2), snap.Seq)
}

func TestStoreSubscribeCoalesces(t *testing.T) {
	store := NewStore()
	ch, cancel := store.Subscribe()

	store.SetVehicle(VehicleConfig{Color: "red"})
	store.SetVehicle(VehicleConfig{Color: "blue"})

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no change signal")
	}
	select {
	case <-ch:
		t.Fatal("signals should coalesce")
	default:
	}
	assert.Equal(t, "blue", store.Snapshot().Vehicle.Color)

	cancel()
	cancel()
	store.SetVehicle(VehicleConfig{Color: "green"})
	select {
	case <-ch:
		t.Fatal("unsubscribed channel signalled")
	default:
	}
}

func TestOptionCodes(t *testing.T) {
	assert.Equal(t, "newred", ColorForPaintCode("PPMR"))
	assert.Equal(t, "pearl", ColorForPaintCode(" ppsw "))
	assert.Equal(t, "white", ColorForPaintCode("XXXX"))
	assert.Equal(t, "cyclone", WheelsForCode("WTTB"))
	assert.Equal(t, "gray21", WheelsForCode("WTSG"))
	assert.Equal(t, "silver21", WheelsForCode(""))

	assert.Equal(t, "p85+", ModelTier(true, true, 85))
	assert.Equal(t, "p85", ModelTier(false, true, 85))
	assert.Equal(t, "s85", ModelTier(false, false, 85))
	assert.Equal(t, "s60", ModelTier(false, false, 60))
}

func TestOpenIf(t *testing.T) {
	assert.Equal(t, Open, OpenIf(true))
	assert.Equal(t, Closed, OpenIf(false))
	assert.False(t, Openness("").IsOpen())
}

func TestLoadVehicleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vehicle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("color: red\nhasPano: true\nmodel: p85\n"), 0o644))

	cfg, err := LoadVehicleFile(path)
	require.NoError(t, err)
	assert.Equal(t, "red", cfg.Color)
	assert.True(t, cfg.HasPano)
	assert.Equal(t, "p85", cfg.Model)
	// Unset keys keep their defaults.
	assert.Equal(t, "silver21", cfg.Wheels)

	require.NoError(t, os.WriteFile(path, []byte("color: [\n"), 0o644))
	_, err = LoadVehicleFile(path)
	assert.Error(t, err)

	_, err = LoadVehicleFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadVehicleFileOptionCodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vehicle.yaml")
	data := "options:\n  paint: PPMR\n  wheels: WTTB\n  performance: true\n  batteryKWh: 85\nseats: tan\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadVehicleFile(path)
	require.NoError(t, err)
	assert.Equal(t, "newred", cfg.Color)
	assert.Equal(t, "cyclone", cfg.Wheels)
	assert.Equal(t, "p85", cfg.Model)
	assert.Equal(t, "tan", cfg.Seats)

	// Explicit keys win over option codes.
	require.NoError(t, os.WriteFile(path, []byte("color: blue\noptions:\n  paint: PPMR\n"), 0o644))
	cfg, err = LoadVehicleFile(path)
	require.NoError(t, err)
	assert.Equal(t, "blue", cfg.Color)
}

func TestWatchVehicleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vehicle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("color: red\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan VehicleConfig, 8)
	done := make(chan error, 1)
	go func() {
		done <- WatchVehicleFile(ctx, path, func(cfg VehicleConfig) {
			select {
			case changes <- cfg:
			default:
			}
		}, nil)
	}()

	// The watcher may not be registered yet; rewrite until a change arrives.
	var got VehicleConfig
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("color: blue\n"), 0o644)
		select {
		case got = <-changes:
			return got.Color == "blue"
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
