// internal/display/screen.go
package display

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/tamzrod/fixture-panel/internal/keypad"
)

var (
	styleDark   = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleAlarm  = tcell.StyleDefault.Background(tcell.ColorRed).Foreground(tcell.ColorWhite)
	styleValue  = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorYellow)
	styleWarn   = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorRed)
	styleBuffer = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite).Bold(true)
)

// Screen renders frames on a terminal and collects operator keyboard events.
type Screen struct {
	screen tcell.Screen
	keys   *keypad.Queue // optional: terminal keypad

	events chan tcell.Event
	stop   chan struct{}
	quit   bool
}

// New initializes the terminal. keys may be nil.
func New(keys *keypad.Queue) (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("display: create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("display: init screen: %w", err)
	}
	return newScreen(s, keys), nil
}

func newScreen(s tcell.Screen, keys *keypad.Queue) *Screen {
	s.SetStyle(styleDark)
	s.HideCursor()

	d := &Screen{
		screen: s,
		keys:   keys,
		events: make(chan tcell.Event, 64),
		stop:   make(chan struct{}),
	}
	go s.ChannelEvents(d.events, d.stop)
	return d
}

// Quit drains pending terminal events and reports whether the operator
// asked to quit (Esc, q, Ctrl-C). Keypad characters go to the key queue.
func (d *Screen) Quit() bool {
	for {
		select {
		case ev := <-d.events:
			d.handle(ev)
		default:
			return d.quit
		}
	}
}

func (d *Screen) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			d.quit = true
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			d.push(keypad.Backspace)
		case tcell.KeyRune:
			r := ev.Rune()
			switch {
			case r == 'q' || r == 'Q':
				d.quit = true
			case r == '.':
				d.push(keypad.Separator)
			default:
				d.push(keypad.Key(r))
			}
		}
	case *tcell.EventResize:
		d.screen.Sync()
	}
}

func (d *Screen) push(k keypad.Key) {
	if d.keys != nil {
		d.keys.Push(k)
	}
}

// Render draws one frame and shows it.
func (d *Screen) Render(f Frame) error {
	bg := styleDark
	if f.Kind == KindError {
		bg = styleAlarm
	}
	d.screen.SetStyle(bg)
	d.screen.Clear()

	w, h := d.screen.Size()
	mid := h / 2

	switch f.Kind {
	case KindAuto, KindMessage, KindError:
		d.center(mid, f.Title, bg.Bold(true))

	case KindManual:
		d.center(mid-2, f.Title, bg.Bold(true))
		d.columns(w, mid+1, f.Columns)

	case KindEntry:
		d.center(mid-3, f.Title, bg.Bold(true))
		d.center(mid-2, "SPEED VALUE", bg.Bold(true))
		st := styleBuffer
		if f.Highlight {
			st = styleWarn.Bold(true)
		}
		d.center(mid+1, f.Buffer, st)
	}

	d.screen.Show()
	return nil
}

// columns lays values out in equal thirds like the panel's value strip.
func (d *Screen) columns(w, y int, cols []Column) {
	if len(cols) == 0 {
		return
	}
	slot := w / len(cols)
	for i, c := range cols {
		x := slot*i + slot/2
		st := styleValue
		if c.Warn {
			st = styleWarn
		}
		d.text(x-len(c.Value)/2, y, c.Value, st)
		d.text(x-len(c.Unit)/2, y+1, c.Unit, styleValue)
	}
}

func (d *Screen) center(y int, s string, st tcell.Style) {
	w, _ := d.screen.Size()
	d.text((w-len(s))/2, y, s, st)
}

func (d *Screen) text(x, y int, s string, st tcell.Style) {
	for i, r := range s {
		d.screen.SetContent(x+i, y, r, nil, st)
	}
}

// Close stops event delivery and restores the terminal.
func (d *Screen) Close() error {
	close(d.stop)
	d.screen.Fini()
	return nil
}

// Nop is the renderer used when no display is attached.
type Nop struct{}

func (Nop) Render(Frame) error { return nil }
func (Nop) Quit() bool         { return false }
func (Nop) Close() error       { return nil }
