// internal/controller/fakes_test.go
package controller

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tamzrod/fixture-panel/internal/display"
	"github.com/tamzrod/fixture-panel/internal/keypad"
	"github.com/tamzrod/fixture-panel/internal/param"
	"github.com/tamzrod/fixture-panel/internal/plc"
	"github.com/tamzrod/fixture-panel/internal/telemetry"
)

const (
	codeAuto   uint32 = 1
	codeManual uint32 = 2
	codeReset  uint32 = 14234423
)

var testModes = ModeTable{Auto: codeAuto, Manual: codeManual, Reset: codeReset}

// ---- PLC ----

type valueWrite struct {
	kind  param.Kind
	value float64
}

type fakePLC struct {
	down    bool
	linkErr error

	code      uint32
	statusErr error

	trigger bool
	gun     bool
	solder  bool
	flagErr error

	ended    bool
	endedErr error

	autorun  bool
	shutdown bool

	writes   []valueWrite
	writeErr error

	readings plc.Readings
	readErr  error

	statusReads int
	flagReads   int
}

func newFakePLC(code uint32) *fakePLC {
	return &fakePLC{code: code, readErr: plc.ErrNoReadings}
}

func (f *fakePLC) Connect() bool { return !f.down }

func (f *fakePLC) LastError() error {
	if f.down {
		return f.linkErr
	}
	return nil
}

func (f *fakePLC) Status() (uint32, error) {
	f.statusReads++
	return f.code, f.statusErr
}

func (f *fakePLC) SettingValueTriggered() (bool, error) {
	f.flagReads++
	return f.trigger, f.flagErr
}

func (f *fakePLC) IsSettingValue(k param.Kind) (bool, error) {
	f.flagReads++
	if f.flagErr != nil {
		return false, f.flagErr
	}
	switch k {
	case param.TorchSpeed:
		return f.gun, nil
	case param.SolderSpeed:
		return f.solder, nil
	}
	return false, nil
}

func (f *fakePLC) EntrySessionEnded() (bool, error) { return f.ended, f.endedErr }
func (f *fakePLC) StartAutorun() (bool, error)      { return f.autorun, nil }
func (f *fakePLC) ShouldShutdown() (bool, error)    { return f.shutdown, nil }

func (f *fakePLC) WriteValue(k param.Kind, v float64) error {
	f.writes = append(f.writes, valueWrite{kind: k, value: v})
	return f.writeErr
}

func (f *fakePLC) Readings() (plc.Readings, error) { return f.readings, f.readErr }

// ---- keypad ----

type fakeKeys struct {
	scans  []keypad.Key
	resets int
}

func (f *fakeKeys) Scan() keypad.Key {
	if len(f.scans) == 0 {
		return keypad.NoKey
	}
	k := f.scans[0]
	f.scans = f.scans[1:]
	return k
}

func (f *fakeKeys) Close() error { return nil }

func (f *fakeKeys) Reset() {
	f.resets++
	f.scans = nil
}

// ---- camera ----

type fakeCamera struct {
	calls    []string
	startErr error
	waited   time.Duration
}

func (f *fakeCamera) Path(t time.Time) string {
	return "/rec/" + t.Format("20060102--15:04") + ".h264"
}

func (f *fakeCamera) StartRecording(path string) error {
	f.calls = append(f.calls, "start:"+path)
	return f.startErr
}

func (f *fakeCamera) StartPreview() error {
	f.calls = append(f.calls, "preview")
	return nil
}

func (f *fakeCamera) WaitRecording(ctx context.Context, d time.Duration) error {
	f.calls = append(f.calls, "wait")
	f.waited = d
	return ctx.Err()
}

func (f *fakeCamera) StopRecording() error {
	f.calls = append(f.calls, "stop")
	return nil
}

func (f *fakeCamera) StopPreview() error {
	f.calls = append(f.calls, "stop-preview")
	return nil
}

// ---- display ----

type fakeDisplay struct {
	frames []display.Frame
	quit   bool
}

func (f *fakeDisplay) Render(fr display.Frame) error {
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeDisplay) Quit() bool { return f.quit }

func (f *fakeDisplay) last() display.Frame {
	if len(f.frames) == 0 {
		return display.Frame{}
	}
	return f.frames[len(f.frames)-1]
}

// ---- events / shutdown / clock ----

type fakePublisher struct {
	events []telemetry.Event
}

func (f *fakePublisher) Publish(ev telemetry.Event) { f.events = append(f.events, ev) }

func (f *fakePublisher) count(typ string) int {
	n := 0
	for _, ev := range f.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

type fakeShutdown struct {
	runs int
	err  error
}

func (f *fakeShutdown) Shutdown(context.Context) error {
	f.runs++
	return f.err
}

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 5, 14, 9, 30, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// ---- harness ----

type harness struct {
	plc      *fakePLC
	keys     *fakeKeys
	camera   *fakeCamera
	display  *fakeDisplay
	events   *fakePublisher
	shutdown *fakeShutdown
	clock    *fakeClock
	logs     *observer.ObservedLogs

	ctl *Controller
}

type harnessOption func(*Deps)

func withoutCamera() harnessOption {
	return func(d *Deps) { d.Camera = nil }
}

func withoutKeypad() harnessOption {
	return func(d *Deps) { d.Keypad = nil }
}

func newHarness(code uint32, opts ...harnessOption) *harness {
	core, logs := observer.New(zap.DebugLevel)

	h := &harness{
		plc:      newFakePLC(code),
		keys:     &fakeKeys{},
		camera:   &fakeCamera{},
		display:  &fakeDisplay{},
		events:   &fakePublisher{},
		shutdown: &fakeShutdown{},
		clock:    newFakeClock(),
		logs:     logs,
	}

	deps := Deps{
		PLC:      h.plc,
		Display:  h.display,
		Keypad:   h.keys,
		Camera:   h.camera,
		Shutdown: h.shutdown,
		Events:   h.events,
		Log:      zap.New(core),
		Now:      h.clock.Now,
	}
	for _, o := range opts {
		o(&deps)
	}

	ctl, err := New(Config{Modes: testModes}, deps)
	if err != nil {
		panic(err)
	}
	h.ctl = ctl
	return h
}

// tick runs one iteration and advances the clock by one period.
func (h *harness) tick() bool {
	ok := h.ctl.Tick(context.Background())
	h.clock.Advance(DefaultTick)
	return ok
}

func (h *harness) reports() int {
	return h.logs.FilterMessage("PLC connection error, check PLC and ethernet cable").Len()
}

var errLink = errors.New("dial tcp 192.168.0.10:502: connect: connection refused")
