package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// OptionCodes are the raw factory options a host may know instead of the
// resolved appearance.
type OptionCodes struct {
	Paint       string `yaml:"paint"`
	Wheels      string `yaml:"wheels"`
	Performance bool   `yaml:"performance"`
	PerfPlus    bool   `yaml:"perfPlus"`
	BatteryKWh  int    `yaml:"batteryKWh"`
}

// Apply resolves the codes that are set onto cfg.
func (o OptionCodes) Apply(cfg *VehicleConfig) {
	if o.Paint != "" {
		cfg.Color = ColorForPaintCode(o.Paint)
	}
	if o.Wheels != "" {
		cfg.Wheels = WheelsForCode(o.Wheels)
	}
	if o.Performance || o.PerfPlus || o.BatteryKWh > 0 {
		cfg.Model = ModelTier(o.PerfPlus, o.Performance, o.BatteryKWh)
	}
}

// LoadVehicleFile reads a YAML vehicle descriptor. Missing keys keep their
// defaults. An options block is resolved first, so explicit keys such as
// color win over the matching option code.
func LoadVehicleFile(path string) (VehicleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return VehicleConfig{}, fmt.Errorf("read vehicle file: %w", err)
	}
	var withOptions struct {
		Options *OptionCodes `yaml:"options"`
	}
	if err := yaml.Unmarshal(data, &withOptions); err != nil {
		return VehicleConfig{}, fmt.Errorf("parse vehicle file %s: %w", path, err)
	}
	cfg := DefaultVehicleConfig()
	if withOptions.Options != nil {
		withOptions.Options.Apply(&cfg)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return VehicleConfig{}, fmt.Errorf("parse vehicle file %s: %w", path, err)
	}
	return cfg, nil
}

// WatchVehicleFile reloads path whenever it changes and hands the result to
// onChange. The parent directory is watched so editors that replace the
// file by rename are picked up. Parse errors go to onErr and the previous
// configuration stays in effect. Blocks until ctx ends.
func WatchVehicleFile(ctx context.Context, path string, onChange func(VehicleConfig), onErr func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := LoadVehicleFile(abs)
			if err != nil {
				if onErr != nil {
					onErr(err)
				}
				continue
			}
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onErr != nil {
				onErr(err)
			}
		}
	}
}
