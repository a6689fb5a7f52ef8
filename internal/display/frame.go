// internal/display/frame.go
package display

// Kind selects the screen layout.
type Kind int

const (
	KindAuto Kind = iota + 1
	KindManual
	KindMessage
	KindError
	KindEntry
)

func (k Kind) String() string {
	switch k {
	case KindAuto:
		return "auto"
	case KindManual:
		return "manual"
	case KindMessage:
		return "message"
	case KindError:
		return "error"
	case KindEntry:
		return "entry"
	default:
		return "none"
	}
}

// Column is one value column of the manual screen.
type Column struct {
	Value string
	Unit  string
	Warn  bool
}

// Frame is everything needed to draw one screen. The controller builds it;
// the renderer never reads controller state.
type Frame struct {
	Kind Kind

	// Title is the heading (auto/manual), message text (message/error),
	// or parameter heading (entry).
	Title string

	// Manual screen columns, left to right.
	Columns []Column

	// Entry screen.
	Buffer    string
	Highlight bool
}

// Auto is the automatic-mode screen.
func Auto() Frame {
	return Frame{Kind: KindAuto, Title: "AUTO MODE"}
}

// Manual is the manual-mode screen with its value columns.
func Manual(cols ...Column) Frame {
	return Frame{Kind: KindManual, Title: "MANUAL MODE", Columns: cols}
}

// Message is a full-screen notice on a dark background.
func Message(text string) Frame {
	return Frame{Kind: KindMessage, Title: text}
}

// Error is a full-screen notice on a red background.
func Error(text string) Frame {
	return Frame{Kind: KindError, Title: text}
}

// Entry is the value-entry screen.
func Entry(title, buffer string, highlight bool) Frame {
	return Frame{Kind: KindEntry, Title: title, Buffer: buffer, Highlight: highlight}
}
