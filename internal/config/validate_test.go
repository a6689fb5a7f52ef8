// internal/config/validate_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// helper to build a valid config quickly
func validConfig() *Config {
	return &Config{
		PLC: PLCConfig{
			Endpoint: "192.168.0.10:502",
			Registers: RegisterConfig{
				Status:      0,
				TorchSpeed:  10,
				SolderSpeed: 11,
			},
			Coils: CoilConfig{
				SettingValue:    0,
				SetGunSpeed:     1,
				SetSolderSpeed:  2,
				SettingValueEnd: 3,
				StartAutorun:    4,
				Shutdown:        5,
			},
			Modes: ModeConfig{Auto: 1, Manual: 2},
		},
	}
}

func u16(v uint16) *uint16 { return &v }

// ---- tests ----

func TestValidate_MinimalConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_EndpointRequired(t *testing.T) {
	cfg := validConfig()
	cfg.PLC.Endpoint = ""

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected endpoint error, got nil")
	}
}

func TestValidate_CoilCollisionDetected(t *testing.T) {
	cfg := validConfig()
	cfg.PLC.Coils.Shutdown = cfg.PLC.Coils.StartAutorun

	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected coil collision error, got nil")
	}
	if !strings.Contains(err.Error(), "coil collision") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_StatusOccupiesTwoRegisters(t *testing.T) {
	cfg := validConfig()
	cfg.PLC.Registers.TorchSpeed = 1 // status low word

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected register collision error, got nil")
	}
}

func TestValidate_OptionalReadbackRegisters(t *testing.T) {
	cfg := validConfig()
	cfg.PLC.Registers.Voltage = u16(20)
	cfg.PLC.Registers.Current = u16(20)

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected register collision error, got nil")
	}

	cfg.PLC.Registers.Current = u16(21)
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ModeCodesMustBeDistinct(t *testing.T) {
	cfg := validConfig()
	cfg.PLC.Modes.Manual = cfg.PLC.Modes.Auto

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected mode code error, got nil")
	}

	cfg = validConfig()
	cfg.PLC.Modes.Auto = DefaultResetCode
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected default reset collision, got nil")
	}
}

func TestValidate_MatrixGeometry(t *testing.T) {
	cfg := validConfig()
	cfg.Keypad.Driver = "matrix"
	cfg.Keypad.Matrix = MatrixKeypadConfig{
		Rows:   []int{5, 6, 13, 19},
		Cols:   []int{12, 16, 20, 21},
		Layout: []string{"123A", "456B", "789C", "*0#D"},
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Keypad.Matrix.Layout[2] = "789"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected layout width error, got nil")
	}

	cfg.Keypad.Matrix.Layout[2] = "789C"
	cfg.Keypad.Matrix.Cols[0] = 5
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected duplicate gpio line error, got nil")
	}
}

func TestValidate_MatrixLayoutCountsKeysNotBytes(t *testing.T) {
	cfg := validConfig()
	cfg.Keypad.Driver = "matrix"
	cfg.Keypad.Matrix = MatrixKeypadConfig{
		Rows:   []int{5, 6},
		Cols:   []int{12, 16, 20},
		Layout: []string{"12×", "45÷"},
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("multi-byte key labels: unexpected error: %v", err)
	}
}

func TestValidate_UnknownDrivers(t *testing.T) {
	cfg := validConfig()
	cfg.Keypad.Driver = "usb"
	cfg.Display.Driver = "framebuffer"

	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected driver errors, got nil")
	}
	if !strings.Contains(err.Error(), "keypad.driver") || !strings.Contains(err.Error(), "display.driver") {
		t.Fatalf("expected both driver errors joined, got %v", err)
	}
}

func TestValidate_TerminalKeypadNeedsDisplay(t *testing.T) {
	cfg := validConfig()
	cfg.Keypad.Driver = "terminal"
	cfg.Display.Driver = "none"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected terminal keypad error, got nil")
	}
}

func TestValidate_CameraPlaceholder(t *testing.T) {
	cfg := validConfig()
	cfg.Camera.Enabled = true
	cfg.Camera.RecordCommand = []string{"rpicam-vid", "-o", "out.h264"}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected placeholder error, got nil")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := validConfig()
	Normalize(cfg)

	if cfg.Panel.TickMs != DefaultTickMs {
		t.Fatalf("tick: got=%d want=%d", cfg.Panel.TickMs, DefaultTickMs)
	}
	if cfg.Panel.ReportIntervalMs != DefaultReportIntervalMs {
		t.Fatalf("report interval: got=%d want=%d", cfg.Panel.ReportIntervalMs, DefaultReportIntervalMs)
	}
	if cfg.PLC.Modes.Reset != DefaultResetCode {
		t.Fatalf("reset code: got=%d want=%d", cfg.PLC.Modes.Reset, DefaultResetCode)
	}
	if cfg.Camera.DurationS != DefaultCameraDurationS || cfg.Camera.Extension != ".h264" {
		t.Fatalf("camera defaults not applied: %+v", cfg.Camera)
	}
	if cfg.Keypad.Driver != "none" || cfg.Display.Driver != "tcell" {
		t.Fatalf("driver defaults not applied: keypad=%q display=%q", cfg.Keypad.Driver, cfg.Display.Driver)
	}
	if !containsPlaceholder(cfg.Camera.RecordCommand) {
		t.Fatalf("default record command lacks placeholder: %v", cfg.Camera.RecordCommand)
	}
}

func TestLoad_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "panel.yaml")

	doc := `
plc:
  endpoint: "10.0.0.5:502"
  unit_id: 3
  registers:
    status: 100
    torch_speed: 110
    solder_speed: 111
    voltage: 120
  coils:
    setting_value: 0
    set_gun_speed: 1
    set_solder_speed: 2
    setting_value_end: 3
    start_autorun: 4
    shutdown: 5
  modes:
    auto: 1
    manual: 2
keypad:
  driver: serial
  serial:
    port: /dev/ttyUSB0
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() err=%v", err)
	}

	if cfg.PLC.UnitID != 3 || cfg.PLC.Registers.Status != 100 {
		t.Fatalf("unexpected plc config: %+v", cfg.PLC)
	}
	if cfg.PLC.Registers.Voltage == nil || *cfg.PLC.Registers.Voltage != 120 {
		t.Fatalf("voltage register not parsed")
	}
	if cfg.PLC.Registers.Current != nil {
		t.Fatalf("current register should be unset")
	}
	if cfg.Keypad.Serial.Port != "/dev/ttyUSB0" {
		t.Fatalf("serial port: got=%q", cfg.Keypad.Serial.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
