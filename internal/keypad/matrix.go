// internal/keypad/matrix.go
package keypad

import (
	"errors"
	"fmt"

	gpiod "github.com/warthog618/go-gpiocdev"
)

// MatrixConfig describes a row/column keypad wired to GPIO lines.
type MatrixConfig struct {
	Chip   string
	Rows   []int    // driven outputs
	Cols   []int    // pulled-up inputs
	Layout []string // Layout[row][col]
}

// lineSet is the subset of *gpiod.Lines the scanner uses.
type lineSet interface {
	Values(values []int) error
	SetValues(values []int) error
	Close() error
}

// Matrix scans a keypad by pulling one row low at a time and reading the columns.
type Matrix struct {
	rows   lineSet
	cols   lineSet
	layout [][]Key

	rowVals []int
	colVals []int
}

// OpenMatrix requests the row and column lines from the GPIO chip.
func OpenMatrix(cfg MatrixConfig) (*Matrix, error) {
	if len(cfg.Rows) == 0 || len(cfg.Cols) == 0 {
		return nil, errors.New("keypad matrix: rows and cols required")
	}

	idle := make([]int, len(cfg.Rows))
	for i := range idle {
		idle[i] = 1
	}

	rows, err := gpiod.RequestLines(cfg.Chip, cfg.Rows, gpiod.AsOutput(idle...))
	if err != nil {
		return nil, fmt.Errorf("keypad matrix: request rows on %s: %w", cfg.Chip, err)
	}

	cols, err := gpiod.RequestLines(cfg.Chip, cfg.Cols, gpiod.AsInput, gpiod.WithPullUp)
	if err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("keypad matrix: request cols on %s: %w", cfg.Chip, err)
	}

	return newMatrix(rows, cols, cfg.Layout)
}

func newMatrix(rows, cols lineSet, layout []string) (*Matrix, error) {
	m := &Matrix{rows: rows, cols: cols}

	width := -1
	for i, row := range layout {
		keys := []Key{}
		for _, r := range row {
			keys = append(keys, Key(r))
		}
		if width >= 0 && len(keys) != width {
			return nil, fmt.Errorf("keypad matrix: layout row %d has %d keys, want %d", i, len(keys), width)
		}
		width = len(keys)
		m.layout = append(m.layout, keys)
	}
	if len(m.layout) == 0 {
		return nil, errors.New("keypad matrix: empty layout")
	}

	m.rowVals = make([]int, len(m.layout))
	m.colVals = make([]int, width)
	return m, nil
}

// Scan returns the first pressed key in row-major order.
// GPIO errors read as NoKey.
func (m *Matrix) Scan() Key {
	defer m.idle()

	for r := range m.layout {
		for i := range m.rowVals {
			m.rowVals[i] = 1
		}
		m.rowVals[r] = 0

		if err := m.rows.SetValues(m.rowVals); err != nil {
			return NoKey
		}
		if err := m.cols.Values(m.colVals); err != nil {
			return NoKey
		}

		for c, v := range m.colVals {
			if v == 0 {
				return m.layout[r][c]
			}
		}
	}

	return NoKey
}

// idle drives every row high so no column reads low between scans.
func (m *Matrix) idle() {
	for i := range m.rowVals {
		m.rowVals[i] = 1
	}
	_ = m.rows.SetValues(m.rowVals)
}

// Close releases both line requests.
func (m *Matrix) Close() error {
	var errs []error
	if err := m.rows.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close rows: %w", err))
	}
	if err := m.cols.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close cols: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("keypad matrix: %w", errors.Join(errs...))
	}
	return nil
}
