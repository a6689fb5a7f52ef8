// internal/keypad/keypad.go
package keypad

// Key is one keypad character as printed on the pad.
type Key rune

const (
	// NoKey is returned by Scan when nothing is held down.
	NoKey Key = 0

	// Backspace removes the last entered character.
	Backspace Key = '#'

	// Separator enters a decimal point.
	Separator Key = '*'
)

// IsDigit reports whether k is 0-9.
func (k Key) IsDigit() bool {
	return k >= '0' && k <= '9'
}

func (k Key) String() string {
	if k == NoKey {
		return "none"
	}
	return string(rune(k))
}

// Scanner returns the key currently held down, or NoKey.
// Scanners do not debounce; callers latch.
type Scanner interface {
	Scan() Key
	Close() error
}
