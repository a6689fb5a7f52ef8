// internal/controller/entry.go
package controller

import (
	"strings"

	"github.com/tamzrod/fixture-panel/internal/keypad"
	"github.com/tamzrod/fixture-panel/internal/param"
)

// EntryResult is the outcome of one entry step.
type EntryResult int

const (
	EntryPending EntryResult = iota
	EntryCommitted
	EntryAbandoned
)

func (r EntryResult) String() string {
	switch r {
	case EntryCommitted:
		return "committed"
	case EntryAbandoned:
		return "abandoned"
	default:
		return "pending"
	}
}

const decimalPoint = "."

// Entry is one numeric value-entry session: the typed buffer and the key latch.
//
// The latch is locked after a digit is appended and unlocked only by a
// no-key scan, so a held key appends once. Backspace and separator are not
// latched. The buffer never exceeds the parameter bound, never holds more
// fraction digits than the register keeps, and never holds a separator for
// integer parameters.
type Entry struct {
	desc   param.Descriptor
	buf    string
	locked bool

	value float64
}

// NewEntry opens a session for k with an empty buffer.
func NewEntry(k param.Kind) *Entry {
	return &Entry{desc: param.MustLookup(k)}
}

func (e *Entry) Kind() param.Kind             { return e.desc.Kind }
func (e *Entry) Descriptor() param.Descriptor { return e.desc }
func (e *Entry) Buffer() string               { return e.buf }

// Value is the committed value. Valid after Step returned EntryCommitted.
func (e *Entry) Value() float64 { return e.value }

// Step consumes one keypad scan and the PLC end-of-entry flag.
func (e *Entry) Step(scan keypad.Key, ended bool) (EntryResult, error) {
	if ended {
		if e.buf == "" {
			return EntryAbandoned, nil
		}
		v, err := e.desc.Parse(e.buf)
		if err != nil {
			return EntryAbandoned, err
		}
		e.value = v
		return EntryCommitted, nil
	}

	switch {
	case scan == keypad.Backspace:
		if e.buf != "" {
			e.buf = e.buf[:len(e.buf)-1]
		}

	case scan == keypad.Separator:
		if e.desc.Integer || strings.Contains(e.buf, decimalPoint) {
			break
		}
		if e.buf == "" {
			e.buf = "0"
		}
		e.buf += decimalPoint

	case scan == keypad.NoKey:
		e.locked = false

	case scan.IsDigit():
		if e.locked {
			break
		}
		if !e.desc.FractionFull(e.buf) {
			e.buf += string(rune(scan))
			e.clamp()
		}
		e.locked = true
	}

	return EntryPending, nil
}

func (e *Entry) clamp() {
	v, err := e.desc.Parse(e.buf)
	if err != nil || v > e.desc.Max {
		e.buf = e.desc.MaxString()
	}
}

// Highlight reports whether the typed value is above the warning threshold.
func (e *Entry) Highlight() bool {
	if e.buf == "" {
		return false
	}
	v, err := e.desc.Parse(e.buf)
	if err != nil {
		return false
	}
	return e.desc.Warning(v)
}
