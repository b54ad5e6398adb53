// Package statusui carries the UpdateScreen event the Supervisor
// emits toward the (external, out of scope per spec.md §1/§6)
// GUI/TUI status display. It is a pure sink: no back-pressure, no
// acknowledgement.
package statusui

// Update is one rendered frame of status lines for the external
// display to show verbatim.
type Update struct {
	Lines []string
}

// Sink receives Updates. The Supervisor is constructed with one to
// decouple it from whatever UI implementation is wired in by the real
// binary; it calls the Sink unconditionally, so pass Discard rather
// than nil when nothing is attached.
type Sink interface {
	UpdateScreen(u Update)
}

// Func adapts a plain function to Sink.
type Func func(Update)

func (f Func) UpdateScreen(u Update) { f(u) }

// Discard is a Sink that drops every update, used where no UI is
// attached (e.g. tests).
var Discard Sink = Func(func(Update) {})
