// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	keypadDrivers  = map[string]bool{"": true, "none": true, "matrix": true, "serial": true, "terminal": true}
	displayDrivers = map[string]bool{"": true, "none": true, "tcell": true}
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}

	var errs []string

	// ------------------------------------------------------------
	// PLC LINK
	// ------------------------------------------------------------

	if cfg.PLC.Endpoint == "" {
		errs = append(errs, "plc.endpoint is required")
	}
	if cfg.PLC.TimeoutMs < 0 {
		errs = append(errs, "plc.timeout_ms must be >= 0")
	}
	if cfg.PLC.SolderScale < 0 {
		errs = append(errs, "plc.solder_scale must be >= 0")
	}

	// ------------------------------------------------------------
	// COIL MAP (each flag owns exactly one coil)
	// ------------------------------------------------------------

	coils := []struct {
		name string
		addr uint16
	}{
		{"setting_value", cfg.PLC.Coils.SettingValue},
		{"set_gun_speed", cfg.PLC.Coils.SetGunSpeed},
		{"set_solder_speed", cfg.PLC.Coils.SetSolderSpeed},
		{"setting_value_end", cfg.PLC.Coils.SettingValueEnd},
		{"start_autorun", cfg.PLC.Coils.StartAutorun},
		{"shutdown", cfg.PLC.Coils.Shutdown},
	}

	coilOwner := make(map[uint16]string)
	for _, c := range coils {
		if prev, exists := coilOwner[c.addr]; exists {
			errs = append(errs, fmt.Sprintf(
				"coil collision: address=%d used by %q and %q",
				c.addr, prev, c.name,
			))
			continue
		}
		coilOwner[c.addr] = c.name
	}

	// ------------------------------------------------------------
	// REGISTER MAP
	// ------------------------------------------------------------

	r := cfg.PLC.Registers
	regOwner := map[uint16]string{
		r.Status:     "status",
		r.Status + 1: "status",
	}
	regs := []struct {
		name string
		addr *uint16
	}{
		{"torch_speed", &r.TorchSpeed},
		{"solder_speed", &r.SolderSpeed},
		{"voltage", r.Voltage},
		{"current", r.Current},
	}
	for _, reg := range regs {
		if reg.addr == nil {
			continue
		}
		if prev, exists := regOwner[*reg.addr]; exists {
			errs = append(errs, fmt.Sprintf(
				"register collision: address=%d used by %q and %q",
				*reg.addr, prev, reg.name,
			))
			continue
		}
		regOwner[*reg.addr] = reg.name
	}

	// ------------------------------------------------------------
	// MODE CODES
	// ------------------------------------------------------------

	m := cfg.PLC.Modes
	reset := m.Reset
	if reset == 0 {
		reset = DefaultResetCode
	}
	if m.Auto == m.Manual {
		errs = append(errs, fmt.Sprintf("plc.modes: auto and manual share code %d", m.Auto))
	}
	if reset == m.Auto || reset == m.Manual {
		errs = append(errs, fmt.Sprintf("plc.modes: reset code %d collides with auto/manual", reset))
	}

	// ------------------------------------------------------------
	// PERIPHERALS
	// ------------------------------------------------------------

	if !keypadDrivers[cfg.Keypad.Driver] {
		errs = append(errs, fmt.Sprintf("keypad.driver %q is not supported", cfg.Keypad.Driver))
	}
	switch cfg.Keypad.Driver {
	case "matrix":
		errs = append(errs, validateMatrix(cfg.Keypad.Matrix)...)
	case "serial":
		if cfg.Keypad.Serial.Port == "" {
			errs = append(errs, "keypad.serial.port is required for the serial driver")
		}
	}

	if !displayDrivers[cfg.Display.Driver] {
		errs = append(errs, fmt.Sprintf("display.driver %q is not supported", cfg.Display.Driver))
	}
	if cfg.Keypad.Driver == "terminal" && cfg.Display.Driver == "none" {
		errs = append(errs, "keypad.driver terminal requires the tcell display")
	}

	if cfg.Camera.Enabled && len(cfg.Camera.RecordCommand) > 0 {
		if !containsPlaceholder(cfg.Camera.RecordCommand) {
			errs = append(errs, "camera.record_command must contain the {output} placeholder")
		}
	}
	if cfg.Camera.DurationS < 0 {
		errs = append(errs, "camera.duration_s must be >= 0")
	}

	if len(errs) > 0 {
		return errors.New("config: " + strings.Join(errs, " | "))
	}
	return nil
}

func validateMatrix(mc MatrixKeypadConfig) []string {
	var errs []string

	if len(mc.Rows) == 0 || len(mc.Cols) == 0 {
		errs = append(errs, "keypad.matrix: rows and cols are required")
		return errs
	}
	if len(mc.Layout) != len(mc.Rows) {
		errs = append(errs, fmt.Sprintf(
			"keypad.matrix: layout has %d rows, want %d",
			len(mc.Layout), len(mc.Rows),
		))
		return errs
	}
	for i, row := range mc.Layout {
		if utf8.RuneCountInString(row) != len(mc.Cols) {
			errs = append(errs, fmt.Sprintf(
				"keypad.matrix: layout row %d has %d keys, want %d",
				i, utf8.RuneCountInString(row), len(mc.Cols),
			))
		}
	}

	lines := make(map[int]bool)
	for _, off := range append(append([]int{}, mc.Rows...), mc.Cols...) {
		if lines[off] {
			errs = append(errs, fmt.Sprintf("keypad.matrix: gpio line %d used twice", off))
		}
		lines[off] = true
	}

	return errs
}

func containsPlaceholder(cmd []string) bool {
	for _, arg := range cmd {
		if strings.Contains(arg, "{output}") {
			return true
		}
	}
	return false
}
