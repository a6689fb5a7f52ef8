// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Panel    PanelConfig    `yaml:"panel"`
	PLC      PLCConfig      `yaml:"plc"`
	Keypad   KeypadConfig   `yaml:"keypad"`
	Display  DisplayConfig  `yaml:"display"`
	Camera   CameraConfig   `yaml:"camera"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
}

// ---- PANEL ----

type PanelConfig struct {
	TickMs int `yaml:"tick_ms"`

	// Error report throttle while the PLC link is down.
	ReportIntervalMs int `yaml:"report_interval_ms"`
}

// ---- PLC ----

type PLCConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`

	Registers RegisterConfig `yaml:"registers"`
	Coils     CoilConfig     `yaml:"coils"`
	Modes     ModeConfig     `yaml:"modes"`

	// SolderScale converts volts to the raw register value (V * scale).
	SolderScale float64 `yaml:"solder_scale"`

	// ReadingScale divides raw voltage/current read-back registers.
	ReadingScale float64 `yaml:"reading_scale"`
}

// RegisterConfig holds holding register addresses.
type RegisterConfig struct {
	Status      uint16  `yaml:"status"` // 2 registers, high word first
	TorchSpeed  uint16  `yaml:"torch_speed"`
	SolderSpeed uint16  `yaml:"solder_speed"`
	Voltage     *uint16 `yaml:"voltage"` // optional read-back
	Current     *uint16 `yaml:"current"` // optional read-back
}

// CoilConfig holds coil addresses for PLC flags.
type CoilConfig struct {
	SettingValue    uint16 `yaml:"setting_value"`
	SetGunSpeed     uint16 `yaml:"set_gun_speed"`
	SetSolderSpeed  uint16 `yaml:"set_solder_speed"`
	SettingValueEnd uint16 `yaml:"setting_value_end"`
	StartAutorun    uint16 `yaml:"start_autorun"`
	Shutdown        uint16 `yaml:"shutdown"`
}

// ModeConfig maps raw status codes to operating modes.
type ModeConfig struct {
	Auto   uint32 `yaml:"auto"`
	Manual uint32 `yaml:"manual"`
	Reset  uint32 `yaml:"reset"`
}

// ---- KEYPAD ----

type KeypadConfig struct {
	Driver string             `yaml:"driver"` // matrix | serial | terminal | none
	Matrix MatrixKeypadConfig `yaml:"matrix"`
	Serial SerialKeypadConfig `yaml:"serial"`
}

type MatrixKeypadConfig struct {
	Chip   string   `yaml:"chip"`
	Rows   []int    `yaml:"rows"`
	Cols   []int    `yaml:"cols"`
	Layout []string `yaml:"layout"` // one string per row
}

type SerialKeypadConfig struct {
	Port          string `yaml:"port"`
	BaudRate      int    `yaml:"baud_rate"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
}

// ---- DISPLAY ----

type DisplayConfig struct {
	Driver string `yaml:"driver"` // tcell | none
}

// ---- CAMERA ----

type CameraConfig struct {
	Enabled        bool     `yaml:"enabled"`
	OutputDir      string   `yaml:"output_dir"`
	DurationS      int      `yaml:"duration_s"`
	Extension      string   `yaml:"extension"`
	RecordCommand  []string `yaml:"record_command"` // "{output}" is replaced by the file path
	PreviewCommand []string `yaml:"preview_command"`
}

// ---- SHUTDOWN ----

type ShutdownConfig struct {
	Command []string `yaml:"command"`
}

// ---- MQTT ----

type MQTTConfig struct {
	Broker      string `yaml:"broker"` // empty disables telemetry
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// Load reads a YAML config file. It does not validate or normalize.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return &cfg, nil
}
