// internal/controller/loop.go
package controller

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/fixture-panel/internal/display"
	"github.com/tamzrod/fixture-panel/internal/keypad"
	"github.com/tamzrod/fixture-panel/internal/status"
	"github.com/tamzrod/fixture-panel/internal/telemetry"
)

// DefaultTick is the control loop period.
const DefaultTick = 100 * time.Millisecond

const connectionErrorText = "Connection Error"

// Config is the runtime configuration of the control loop.
type Config struct {
	Tick           time.Duration
	ReportInterval time.Duration
	RecordFor      time.Duration
	Modes          ModeTable
}

// Deps are the collaborators. Keypad and Camera may be nil.
type Deps struct {
	PLC      PLC
	Display  Renderer
	Keypad   keypad.Scanner
	Camera   Camera
	Shutdown Shutdowner
	Events   Publisher
	Log      *zap.Logger
	Now      func() time.Time
}

// Controller is the fixed-period orchestrator. It owns all panel state and
// must be driven from a single goroutine.
type Controller struct {
	cfg Config

	plc      PLC
	display  Renderer
	keys     keypad.Scanner
	shutdown Shutdowner
	pub      Publisher
	log      *zap.Logger

	monitor    *Monitor
	dispatcher *Dispatcher

	state State
	entry *Entry
	frame display.Frame

	mode         Mode
	code         uint32
	health       uint16
	shutdownHeld bool
}

// New validates the collaborators and returns a controller in its power-on state.
func New(cfg Config, deps Deps) (*Controller, error) {
	if deps.PLC == nil {
		return nil, errors.New("controller: plc required")
	}
	if deps.Display == nil {
		return nil, errors.New("controller: display required")
	}
	if deps.Shutdown == nil {
		return nil, errors.New("controller: shutdown command required")
	}
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}
	if cfg.RecordFor <= 0 {
		cfg.RecordFor = DefaultRecordFor
	}
	if deps.Events == nil {
		deps.Events = telemetry.Nop{}
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	c := &Controller{
		cfg:      cfg,
		plc:      deps.PLC,
		display:  deps.Display,
		keys:     deps.Keypad,
		shutdown: deps.Shutdown,
		pub:      deps.Events,
		log:      deps.Log,
		state:    NewState(),
		mode:     ModeDisconnected,
		health:   status.HealthUnknown,
	}

	c.monitor = NewMonitor(deps.PLC, cfg.ReportInterval, deps.Now, deps.Log.Named("monitor"))

	c.dispatcher = &Dispatcher{
		plc:       deps.PLC,
		camera:    deps.Camera,
		pub:       deps.Events,
		recordFor: cfg.RecordFor,
		now:       deps.Now,
		log:       deps.Log.Named("dispatch"),
	}

	return c, nil
}

// Run ticks until ctx is cancelled or the operator quits.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.Tick)
	defer ticker.Stop()

	c.log.Info("control loop started", zap.Duration("tick", c.cfg.Tick))

	for {
		if !c.Tick(ctx) {
			c.log.Info("control loop stopped")
			return nil
		}

		select {
		case <-ctx.Done():
			c.log.Info("control loop stopped", zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
		}
	}
}

// Tick performs one loop iteration. It returns false when the loop must terminate.
func (c *Controller) Tick(ctx context.Context) bool {
	// 1. quit
	if ctx.Err() != nil || c.display.Quit() {
		return false
	}

	// 2. link
	connected := c.monitor.Check()
	c.publishLink()

	// 3. entry session or mode behavior
	if connected {
		c.step(ctx)
	} else {
		if c.entry != nil {
			c.log.Warn("entry session abandoned, PLC link lost", zap.Stringer("parameter", c.entry.Kind()))
			c.entry = nil
		}
		c.setMode(ModeDisconnected, 0)
		c.frame = display.Error(connectionErrorText)
	}

	// 4. shutdown command
	if connected {
		c.checkShutdown(ctx)
	}

	// 5. refresh
	if err := c.display.Render(c.frame); err != nil {
		c.log.Error("render", zap.Error(err))
	}

	return true
}

func (c *Controller) step(ctx context.Context) {
	if c.entry != nil {
		c.frame = c.stepEntry()
		return
	}

	code, err := c.plc.Status()
	if err != nil {
		c.log.Warn("status read failed", zap.Error(err))
		c.frame = display.Error(connectionErrorText)
		return
	}

	mode := c.cfg.Modes.Resolve(code)
	c.setMode(mode, code)

	frame, entry, ok := c.dispatcher.Dispatch(ctx, mode, &c.state)
	if ok {
		c.frame = frame
	}
	if entry != nil {
		c.resetKeys()
	}
	c.entry = entry
}

// keyResetter is implemented by scanners that buffer presses.
type keyResetter interface {
	Reset()
}

// resetKeys discards presses typed outside an entry session.
func (c *Controller) resetKeys() {
	if r, ok := c.keys.(keyResetter); ok {
		r.Reset()
	}
}

// ---- ENTRY ----

func (c *Controller) stepEntry() display.Frame {
	key := keypad.NoKey
	if c.keys != nil {
		key = c.keys.Scan()
	}

	ended, err := c.plc.EntrySessionEnded()
	if err != nil {
		c.log.Error("entry end flag", zap.Error(err))
		ended = false
	}

	res, err := c.entry.Step(key, ended)
	switch res {
	case EntryCommitted:
		c.commit(c.entry)
	case EntryAbandoned:
		if err != nil {
			c.log.Error("entry rejected", zap.Stringer("parameter", c.entry.Kind()), zap.Error(err))
		} else {
			c.log.Info("entry abandoned", zap.Stringer("parameter", c.entry.Kind()))
		}
	default:
		return entryFrame(c.entry)
	}

	c.entry = nil
	return manualFrame(&c.state)
}

// commit caches the value and writes it to the PLC exactly once.
func (c *Controller) commit(e *Entry) {
	k, v := e.Kind(), e.Value()
	c.state.Apply(k, v)

	ev := telemetry.Event{Type: telemetry.TypeCommit, Parameter: k.String(), Value: telemetry.Float(v)}
	if err := c.plc.WriteValue(k, v); err != nil {
		c.log.Error("write value", zap.Stringer("parameter", k), zap.Float64("value", v), zap.Error(err))
		ev.Error = err.Error()
	} else {
		c.log.Info("value set", zap.Stringer("parameter", k), zap.Float64("value", v))
	}
	c.pub.Publish(ev)
}

// ---- SHUTDOWN ----

// checkShutdown runs the OS shutdown once per rising edge of the PLC flag.
func (c *Controller) checkShutdown(ctx context.Context) {
	on, err := c.plc.ShouldShutdown()
	if err != nil {
		c.log.Debug("shutdown flag", zap.Error(err))
		return
	}

	if on && !c.shutdownHeld {
		c.log.Warn("system shutdown...")
		c.pub.Publish(telemetry.Event{Type: telemetry.TypeShutdown})
		if err := c.shutdown.Shutdown(ctx); err != nil {
			c.log.Error("shutdown command failed", zap.Error(err))
		}
	}
	c.shutdownHeld = on
}

// ---- EVENTS ----

func (c *Controller) setMode(m Mode, code uint32) {
	if m == c.mode && code == c.code {
		return
	}
	prev := c.mode
	c.mode, c.code = m, code

	if m == ModeUnknown {
		c.log.Debug("unrecognized status code", zap.Uint32("code", code))
	} else {
		c.log.Info("mode", zap.Stringer("from", prev), zap.Stringer("to", m))
	}
	c.pub.Publish(telemetry.Event{Type: telemetry.TypeMode, Mode: m.String(), Code: code})
}

func (c *Controller) publishLink() {
	snap := c.monitor.Snapshot()
	if snap.Health == c.health {
		return
	}
	c.health = snap.Health
	c.log.Debug("link health", zap.String("health", status.HealthName(snap.Health)))
	c.pub.Publish(telemetry.Event{Type: telemetry.TypeLink, Link: &snap})
}

// Mode returns the mode observed on the last tick.
func (c *Controller) Mode() Mode { return c.mode }

// State returns a copy of the cached parameters.
func (c *Controller) State() State { return c.state }

// InEntry reports whether a value-entry session is open.
func (c *Controller) InEntry() bool { return c.entry != nil }
