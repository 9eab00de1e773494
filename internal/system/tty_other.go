//go:build !linux

package system

// EnterGraphicsMode is a no-op off Linux.
func EnterGraphicsMode(l Logger) (restore func()) {
	infof(l, "tty", "console mode switch unsupported on this platform")
	return func() {}
}
