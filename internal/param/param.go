// internal/param/param.go
package param

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies one operator-settable fixture parameter.
type Kind int

const (
	TorchSpeed Kind = iota + 1
	SolderSpeed
)

// Descriptor is the fixed definition of a parameter.
type Descriptor struct {
	Kind    Kind
	Name    string
	Title   string // display heading while entering
	Unit    string
	Max     float64
	Default float64
	Warn    float64 // highlight above this value; 0 disables
	Integer bool

	// Decimals is the number of fraction digits the PLC register keeps
	// (solder speed is stored as V*100).
	Decimals int
}

var descriptors = map[Kind]Descriptor{
	TorchSpeed: {
		Kind:    TorchSpeed,
		Name:    "torch_speed",
		Title:   "SETTING TORCH",
		Unit:    "mm/min",
		Max:     4000,
		Default: 200,
		Warn:    2000,
		Integer: true,
	},
	SolderSpeed: {
		Kind:    SolderSpeed,
		Name:    "solder_speed",
		Title:   "SETTING SOLDER",
		Unit:    "V",
		Max:      10,
		Default:  2,
		Decimals: 2,
	},
}

// MustLookup returns the descriptor for k and panics on an unknown kind.
func MustLookup(k Kind) Descriptor {
	d, ok := descriptors[k]
	if !ok {
		panic(fmt.Sprintf("param: unknown kind %d", int(k)))
	}
	return d
}

func (k Kind) String() string {
	if d, ok := descriptors[k]; ok {
		return d.Name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Parse converts an entry buffer into a value of the descriptor's numeric type.
func (d Descriptor) Parse(s string) (float64, error) {
	if d.Integer {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("param %s: parse %q: %w", d.Name, s, err)
		}
		return float64(v), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("param %s: parse %q: %w", d.Name, s, err)
	}
	return v, nil
}

// Format renders a value the way the operator typed it ("4000", "10", "1.5").
func (d Descriptor) Format(v float64) string {
	if d.Integer {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FractionFull reports whether s already holds all the fraction digits
// the register can store.
func (d Descriptor) FractionFull(s string) bool {
	i := strings.IndexByte(s, '.')
	if d.Integer || i < 0 {
		return false
	}
	return len(s)-i-1 >= d.Decimals
}

// MaxString is the bound in the form written into a clamped entry buffer.
func (d Descriptor) MaxString() string {
	return d.Format(d.Max)
}

// Warning reports whether v is above the highlight threshold.
func (d Descriptor) Warning(v float64) bool {
	return d.Warn > 0 && v > d.Warn
}
