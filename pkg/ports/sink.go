package ports

// Sink receives user-facing progress messages. The CLI renders them to
// the terminal; tests capture them; a nop sink silences library use.
type Sink interface {
	// Say reports normal progress.
	Say(format string, args ...any)
	// Warn reports something worth attention that did not stop the run.
	Warn(format string, args ...any)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Say(string, ...any)  {}
func (NopSink) Warn(string, ...any) {}
