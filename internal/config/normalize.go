// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultTickMs           = 100
	DefaultReportIntervalMs = 5000
	DefaultTimeoutMs        = 1000
	DefaultSolderScale      = 100
	DefaultReadingScale     = 10
	DefaultResetCode        = 14234423
	DefaultCameraDurationS  = 30
	DefaultCameraExtension  = ".h264"
	DefaultTopicPrefix      = "fixture-panel"
	DefaultSerialBaudRate   = 9600
	DefaultSerialTimeoutMs  = 5
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Panel.TickMs <= 0 {
		cfg.Panel.TickMs = DefaultTickMs
	}
	if cfg.Panel.ReportIntervalMs <= 0 {
		cfg.Panel.ReportIntervalMs = DefaultReportIntervalMs
	}

	// ------------------------------------------------------------
	// PLC
	// ------------------------------------------------------------

	if cfg.PLC.TimeoutMs <= 0 {
		cfg.PLC.TimeoutMs = DefaultTimeoutMs
	}
	if cfg.PLC.UnitID == 0 {
		cfg.PLC.UnitID = 1
	}
	if cfg.PLC.SolderScale <= 0 {
		cfg.PLC.SolderScale = DefaultSolderScale
	}
	if cfg.PLC.ReadingScale <= 0 {
		cfg.PLC.ReadingScale = DefaultReadingScale
	}
	if cfg.PLC.Modes.Reset == 0 {
		cfg.PLC.Modes.Reset = DefaultResetCode
	}

	// ------------------------------------------------------------
	// PERIPHERALS
	// ------------------------------------------------------------

	if cfg.Keypad.Driver == "" {
		cfg.Keypad.Driver = "none"
	}
	if cfg.Keypad.Matrix.Chip == "" {
		cfg.Keypad.Matrix.Chip = "gpiochip0"
	}
	if cfg.Keypad.Serial.BaudRate == 0 {
		cfg.Keypad.Serial.BaudRate = DefaultSerialBaudRate
	}
	if cfg.Keypad.Serial.ReadTimeoutMs <= 0 {
		cfg.Keypad.Serial.ReadTimeoutMs = DefaultSerialTimeoutMs
	}

	if cfg.Display.Driver == "" {
		cfg.Display.Driver = "tcell"
	}

	if cfg.Camera.DurationS <= 0 {
		cfg.Camera.DurationS = DefaultCameraDurationS
	}
	if cfg.Camera.Extension == "" {
		cfg.Camera.Extension = DefaultCameraExtension
	}
	if cfg.Camera.OutputDir == "" {
		cfg.Camera.OutputDir = "."
	}
	if len(cfg.Camera.RecordCommand) == 0 {
		cfg.Camera.RecordCommand = []string{"rpicam-vid", "-t", "0", "--width", "640", "--height", "480", "--brightness", "0.25", "-n", "-o", "{output}"}
	}

	if len(cfg.Shutdown.Command) == 0 {
		cfg.Shutdown.Command = []string{"sudo", "shutdown", "now"}
	}

	if cfg.MQTT.TopicPrefix == "" {
		cfg.MQTT.TopicPrefix = DefaultTopicPrefix
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "fixture-panel"
	}
}
