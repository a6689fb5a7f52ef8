// internal/controller/dispatcher.go
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/fixture-panel/internal/display"
	"github.com/tamzrod/fixture-panel/internal/param"
	"github.com/tamzrod/fixture-panel/internal/plc"
	"github.com/tamzrod/fixture-panel/internal/telemetry"
)

// DefaultRecordFor is the fixed autorun recording window.
const DefaultRecordFor = 30 * time.Second

const resetText = "RESETTING..."

// Dispatcher runs the behavior of the current mode for one tick.
type Dispatcher struct {
	plc       PLC
	camera    Camera // nil: no camera
	pub       Publisher
	recordFor time.Duration
	now       func() time.Time
	log       *zap.Logger
}

// Dispatch returns the frame for mode, and a new entry session if the PLC
// asked for one. ok is false for modes with no defined behavior; the caller
// keeps the previous frame.
func (d *Dispatcher) Dispatch(ctx context.Context, mode Mode, st *State) (frame display.Frame, entry *Entry, ok bool) {
	switch mode {
	case ModeAuto:
		d.auto(ctx)
		return display.Auto(), nil, true

	case ModeManual:
		e, err := d.openEntry()
		if err != nil {
			d.log.Error("manual mode flags", zap.Error(err))
		}
		if e != nil {
			return entryFrame(e), e, true
		}
		d.refreshReadings(st)
		return manualFrame(st), nil, true

	case ModeReset:
		return display.Message(resetText), nil, true

	default:
		return display.Frame{}, nil, false
	}
}

// ---- AUTO ----

func (d *Dispatcher) auto(ctx context.Context) {
	start, err := d.plc.StartAutorun()
	if err != nil {
		d.log.Error("autorun flag", zap.Error(err))
		return
	}
	if !start {
		return
	}
	if d.camera == nil {
		d.log.Warn("autorun requested but no camera is available")
		return
	}
	d.record(ctx)
}

// record runs the full recording window. It blocks the loop.
func (d *Dispatcher) record(ctx context.Context) {
	path := d.camera.Path(d.now())
	d.log.Info("start recording", zap.String("path", path), zap.Duration("window", d.recordFor))

	err := d.recordTo(ctx, path)

	ev := telemetry.Event{Type: telemetry.TypeRecording, Path: path}
	switch {
	case err == nil:
		d.log.Info("recorded", zap.String("path", path))
	case errors.Is(err, context.Canceled):
		d.log.Warn("recording cut short", zap.String("path", path))
		ev.Error = err.Error()
	default:
		d.log.Error("recording failed", zap.String("path", path), zap.Error(err))
		ev.Error = err.Error()
	}
	d.pub.Publish(ev)
}

func (d *Dispatcher) recordTo(ctx context.Context, path string) error {
	if err := d.camera.StartRecording(path); err != nil {
		return err
	}
	if err := d.camera.StartPreview(); err != nil {
		d.log.Warn("preview unavailable", zap.Error(err))
	}

	errWait := d.camera.WaitRecording(ctx, d.recordFor)
	errRec := d.camera.StopRecording()
	errPrev := d.camera.StopPreview()

	return errors.Join(errWait, errRec, errPrev)
}

// ---- MANUAL ----

// openEntry interprets the value-set flags. The gun and solder flags are
// mutually exclusive; gun wins if both are set.
func (d *Dispatcher) openEntry() (*Entry, error) {
	set, err := d.plc.SettingValueTriggered()
	if err != nil || !set {
		return nil, err
	}

	for _, k := range []param.Kind{param.TorchSpeed, param.SolderSpeed} {
		on, err := d.plc.IsSettingValue(k)
		if err != nil {
			return nil, err
		}
		if on {
			d.log.Info("setting value", zap.Stringer("parameter", k))
			return NewEntry(k), nil
		}
	}
	return nil, nil
}

func (d *Dispatcher) refreshReadings(st *State) {
	r, err := d.plc.Readings()
	if err != nil {
		if !errors.Is(err, plc.ErrNoReadings) {
			d.log.Debug("read-back", zap.Error(err))
		}
		return
	}
	st.Voltage = r.Voltage
	st.Current = r.Current
	st.HasReadings = true
}

// ---- FRAMES ----

func manualFrame(st *State) display.Frame {
	torch := param.MustLookup(param.TorchSpeed)
	solder := param.MustLookup(param.SolderSpeed)

	return display.Manual(
		display.Column{
			Value: torch.Format(float64(st.TorchSpeed)),
			Unit:  torch.Unit,
			Warn:  torch.Warning(float64(st.TorchSpeed)),
		},
		display.Column{
			Value: solder.Format(st.SolderSpeed),
			Unit:  solder.Unit,
		},
		display.Column{
			Value: fmt.Sprintf("%g/%g", st.Voltage, st.Current),
			Unit:  "V/A",
		},
	)
}

func entryFrame(e *Entry) display.Frame {
	return display.Entry(e.Descriptor().Title, e.Buffer(), e.Highlight())
}
