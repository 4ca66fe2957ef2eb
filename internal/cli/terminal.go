package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/drovertool/drover/pkg/ports"
)

// Terminal renders progress lines for people. Styling engages only when
// the writer is a real TTY, so piping drover into a file stays clean.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	profile termenv.Profile
}

var _ ports.Sink = (*Terminal)(nil)

// NewTerminal creates a sink writing to out.
func NewTerminal(out io.Writer) *Terminal {
	profile := termenv.Ascii
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		profile = termenv.ColorProfile()
	}
	return &Terminal{out: out, profile: profile}
}

// Say reports normal progress.
func (t *Terminal) Say(format string, args ...any) {
	t.println(fmt.Sprintf(format, args...))
}

// Warn reports something worth attention that did not stop the run.
func (t *Terminal) Warn(format string, args ...any) {
	msg := "! " + fmt.Sprintf(format, args...)
	t.println(t.profile.String(msg).Foreground(termenv.ANSIYellow).String())
}

// Fail reports the failure that ended the run.
func (t *Terminal) Fail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	t.println(t.profile.String(msg).Foreground(termenv.ANSIRed).String())
}

// Print writes a preformatted block as-is, for rendered markdown and
// diff previews.
func (t *Terminal) Print(block string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.out, block)
}

func (t *Terminal) println(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, line)
}
