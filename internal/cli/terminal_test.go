package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminal_PlainWriterStaysPlain(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	term.Say("pushed %s", "feat/x")
	term.Warn("remote is %d behind", 2)
	term.Fail("merge refused")

	out := buf.String()
	assert.Equal(t, "pushed feat/x\n! remote is 2 behind\nmerge refused\n", out)
	assert.NotContains(t, out, "\x1b[", "non-TTY output must carry no escape sequences")
}

func TestTerminal_PrintKeepsBlocksVerbatim(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	term.Print("  # Title\n\n  body\n")

	assert.Equal(t, "  # Title\n\n  body\n", buf.String())
}
