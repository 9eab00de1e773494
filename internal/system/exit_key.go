package system

import (
	"encoding/binary"
	"fmt"
)

const (
	evKey = 0x01

	// Linux input-event-codes.h
	keyEsc = 1
	keyQ   = 16
)

// ExitKeyNone disables the exit key watcher.
const ExitKeyNone = "none"

// KeyCode maps an exit key name to its evdev code.
func KeyCode(name string) (uint16, error) {
	switch name {
	case "esc":
		return keyEsc, nil
	case "q":
		return keyQ, nil
	}
	return 0, fmt.Errorf("unsupported exit key %q", name)
}

// containsKeyPress scans buf as a sequence of input_event records
// (timeval, u16 type, u16 code, s32 value) for a press of code.
func containsKeyPress(buf []byte, tvSize int, code uint16) bool {
	eventSize := tvSize + 2 + 2 + 4
	for off := 0; off+eventSize <= len(buf); off += eventSize {
		rec := buf[off : off+eventSize]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		c := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ == evKey && c == code && value == 1 {
			return true
		}
	}
	return false
}
