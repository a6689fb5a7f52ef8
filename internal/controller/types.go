// internal/controller/types.go
package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/tamzrod/fixture-panel/internal/display"
	"github.com/tamzrod/fixture-panel/internal/param"
	"github.com/tamzrod/fixture-panel/internal/plc"
	"github.com/tamzrod/fixture-panel/internal/telemetry"
)

// PLC is the field device link the panel is driven by.
// Implemented by plc.Driver.
type PLC interface {
	Connect() bool
	LastError() error

	Status() (uint32, error)
	SettingValueTriggered() (bool, error)
	IsSettingValue(k param.Kind) (bool, error)
	EntrySessionEnded() (bool, error)
	StartAutorun() (bool, error)
	ShouldShutdown() (bool, error)

	WriteValue(k param.Kind, v float64) error
	Readings() (plc.Readings, error)
}

// Camera records the fixture during an autorun. Implemented by camera.Recorder.
type Camera interface {
	Path(t time.Time) string
	StartRecording(path string) error
	StartPreview() error
	WaitRecording(ctx context.Context, d time.Duration) error
	StopRecording() error
	StopPreview() error
}

// Renderer draws frames and reports the operator quit gesture.
// Implemented by display.Screen and display.Nop.
type Renderer interface {
	Render(f display.Frame) error
	Quit() bool
}

// Publisher receives panel events. Implemented by telemetry.MQTT and telemetry.Nop.
type Publisher interface {
	Publish(ev telemetry.Event)
}

// Shutdowner asks the operating system to power off.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// ---- MODE ----

// Mode is the operating mode derived from the PLC status code.
type Mode int

const (
	ModeDisconnected Mode = iota
	ModeAuto
	ModeManual
	ModeReset
	ModeUnknown
)

func (m Mode) String() string {
	switch m {
	case ModeDisconnected:
		return "disconnected"
	case ModeAuto:
		return "auto"
	case ModeManual:
		return "manual"
	case ModeReset:
		return "reset"
	case ModeUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ModeTable maps raw status codes to modes.
type ModeTable struct {
	Auto   uint32
	Manual uint32
	Reset  uint32
}

// Resolve returns the mode for a status code. Codes not in the table are ModeUnknown.
func (t ModeTable) Resolve(code uint32) Mode {
	switch code {
	case t.Auto:
		return ModeAuto
	case t.Manual:
		return ModeManual
	case t.Reset:
		return ModeReset
	default:
		return ModeUnknown
	}
}

// ---- STATE ----

// State is the panel's cached view of the fixture parameters.
// Owned by the control loop; mutated only by an entry commit or a PLC read-back.
type State struct {
	TorchSpeed  int
	SolderSpeed float64

	Voltage     float64
	Current     float64
	HasReadings bool
}

// NewState returns the power-on defaults.
func NewState() State {
	return State{
		TorchSpeed:  int(param.MustLookup(param.TorchSpeed).Default),
		SolderSpeed: param.MustLookup(param.SolderSpeed).Default,
	}
}

// Value returns the cached value of k.
func (s State) Value(k param.Kind) float64 {
	switch k {
	case param.TorchSpeed:
		return float64(s.TorchSpeed)
	case param.SolderSpeed:
		return s.SolderSpeed
	default:
		return 0
	}
}

// Apply stores a committed value.
func (s *State) Apply(k param.Kind, v float64) {
	switch k {
	case param.TorchSpeed:
		s.TorchSpeed = int(v)
	case param.SolderSpeed:
		s.SolderSpeed = v
	}
}
