//go:build !linux

package system

import "context"

// WatchExitKey is unsupported off Linux; the process stops on signals only.
func WatchExitKey(ctx context.Context, key string, logger Logger, onExit func()) {
	if key != ExitKeyNone {
		infof(logger, "input", "exit key unsupported on this platform")
	}
}
