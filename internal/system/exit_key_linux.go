//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// WatchExitKey watches Linux evdev devices under /dev/input/event* and
// invokes onExit once when the named key is pressed.
//
// It is best-effort: if no input devices are available, it logs and returns.
func WatchExitKey(ctx context.Context, key string, logger Logger, onExit func()) {
	if onExit == nil || key == ExitKeyNone {
		return
	}
	code, err := KeyCode(key)
	if err != nil {
		errorf(logger, "input", "%v", err)
		return
	}

	tvSize := binary.Size(unix.Timeval{})

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		infof(logger, "input", "no evdev devices found for %s exit", key)
		return
	}

	var once sync.Once
	triggerExit := func() {
		once.Do(func() {
			infof(logger, "input", "%s pressed: exiting", key)
			onExit()
		})
	}

	for _, path := range paths {
		go watchDevice(ctx, path, tvSize, code, triggerExit)
	}
}

func watchDevice(ctx context.Context, path string, tvSize int, code uint16, triggerExit func()) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		if containsKeyPress(buf[:n], tvSize, code) {
			triggerExit()
			return
		}
	}
}
