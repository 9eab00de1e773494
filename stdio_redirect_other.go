//go:build !unix

package main

import (
	"fmt"
	"os"
)

// Runtime-level stderr output such as panics is not captured here the way
// Dup2 captures it on Unix.
func redirectStdIO(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return fmt.Errorf("open stdio log: %w", err)
	}
	os.Stdout = f
	os.Stderr = f
	return nil
}
