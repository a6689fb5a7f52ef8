// internal/display/screen_test.go
package display

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tamzrod/fixture-panel/internal/keypad"
)

func newSim(t *testing.T, keys *keypad.Queue) (*Screen, tcell.SimulationScreen) {
	t.Helper()

	sim := tcell.NewSimulationScreen("")
	if err := sim.Init(); err != nil {
		t.Fatalf("sim init: %v", err)
	}
	sim.SetSize(60, 16)

	d := newScreen(sim, keys)
	t.Cleanup(func() { _ = d.Close() })
	return d, sim
}

// screenText returns every row of the simulation screen.
func screenText(sim tcell.SimulationScreen) []string {
	cells, w, h := sim.GetContents()
	rows := make([]string, h)
	for y := 0; y < h; y++ {
		var b strings.Builder
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteRune(c.Runes[0])
		}
		rows[y] = b.String()
	}
	return rows
}

func contains(rows []string, s string) bool {
	for _, r := range rows {
		if strings.Contains(r, s) {
			return true
		}
	}
	return false
}

func TestRender_ManualColumns(t *testing.T) {
	d, sim := newSim(t, nil)

	f := Manual(
		Column{Value: "2500", Unit: "mm/min", Warn: true},
		Column{Value: "1.5", Unit: "V"},
	)
	if err := d.Render(f); err != nil {
		t.Fatalf("Render() err=%v", err)
	}

	rows := screenText(sim)
	for _, want := range []string{"MANUAL MODE", "2500", "mm/min", "1.5"} {
		if !contains(rows, want) {
			t.Fatalf("missing %q on screen:\n%s", want, strings.Join(rows, "\n"))
		}
	}
}

func TestRender_WarnColumnIsRed(t *testing.T) {
	d, sim := newSim(t, nil)

	_ = d.Render(Manual(Column{Value: "2500", Unit: "mm/min", Warn: true}))

	cells, w, h := sim.GetContents()
	for i := 0; i < w*h; i++ {
		if len(cells[i].Runes) > 0 && cells[i].Runes[0] == '2' {
			fg, _, _ := cells[i].Style.Decompose()
			if fg != tcell.ColorRed {
				t.Fatalf("warn value foreground: got=%v want=red", fg)
			}
			return
		}
	}
	t.Fatalf("value not drawn")
}

func TestRender_ErrorBackground(t *testing.T) {
	d, sim := newSim(t, nil)

	_ = d.Render(Error("PLC CONNECTION ERROR"))

	rows := screenText(sim)
	if !contains(rows, "PLC CONNECTION ERROR") {
		t.Fatalf("error text missing")
	}
	cells, _, _ := sim.GetContents()
	_, bg, _ := cells[0].Style.Decompose()
	if bg != tcell.ColorRed {
		t.Fatalf("error background: got=%v want=red", bg)
	}
}

func TestRender_EntryBuffer(t *testing.T) {
	d, sim := newSim(t, nil)

	_ = d.Render(Entry("SETTING TORCH", "25", false))

	rows := screenText(sim)
	for _, want := range []string{"SETTING TORCH", "SPEED VALUE", "25"} {
		if !contains(rows, want) {
			t.Fatalf("missing %q", want)
		}
	}
}

func waitQuit(d *Screen) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if d.Quit() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestQuit_Escape(t *testing.T) {
	d, sim := newSim(t, nil)

	if d.Quit() {
		t.Fatalf("no quit requested yet")
	}
	sim.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	if !waitQuit(d) {
		t.Fatalf("Esc should request quit")
	}
}

func TestQuit_LetterQ(t *testing.T) {
	d, sim := newSim(t, nil)

	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	if !waitQuit(d) {
		t.Fatalf("q should request quit")
	}
}

func TestTerminalKeypad_ForwardsKeys(t *testing.T) {
	q := keypad.NewQueue()
	d, sim := newSim(t, q)

	sim.InjectKey(tcell.KeyRune, '7', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, '.', tcell.ModNone)
	sim.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	if !waitQuit(d) {
		t.Fatalf("events not delivered")
	}

	var got []keypad.Key
	for i := 0; i < 6; i++ {
		if k := q.Scan(); k != keypad.NoKey {
			got = append(got, k)
		}
	}
	if len(got) != 2 || got[0] != '7' || got[1] != keypad.Separator {
		t.Fatalf("forwarded keys: got=%v", got)
	}
}

func TestNop(t *testing.T) {
	var n Nop
	if n.Render(Auto()) != nil || n.Quit() || n.Close() != nil {
		t.Fatalf("Nop should do nothing")
	}
}
