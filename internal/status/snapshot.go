// internal/status/snapshot.go
package status

import (
	"errors"
	"time"

	"github.com/goburrow/modbus"
)

// Snapshot is the link health the panel reports.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
}

// Healthy returns the snapshot of a live link.
func Healthy() Snapshot {
	return Snapshot{Health: HealthOK}
}

// Failed returns the snapshot of a link that has been down since `since`.
func Failed(err error, since, now time.Time) Snapshot {
	secs := now.Sub(since) / time.Second
	if secs < 0 {
		secs = 0
	}
	if secs > SecondsInErrorMax {
		secs = SecondsInErrorMax
	}
	return Snapshot{
		Health:         HealthError,
		LastErrorCode:  ErrorCode(err),
		SecondsInError: uint16(secs),
	}
}

// ErrorCode extracts a best-effort uint16 code from an error without assuming concrete types.
// If the error does not expose a code, returns 1 (generic error).
func ErrorCode(err error) uint16 {
	if err == nil {
		return ErrorCodeGeneric
	}

	type coder interface{ Code() uint16 }

	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return uint16(me.ExceptionCode)
	}

	return ErrorCodeGeneric
}
