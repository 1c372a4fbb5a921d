package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/cbuild/internal/ui/output"
	"go.trai.ch/cbuild/internal/ui/style"
)

func TestProfile(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, output.NoColor())
	assert.Equal(t, termenv.Ascii, output.Profile(output.Detect))
	assert.Equal(t, termenv.Ascii, output.Profile(output.Force))

	t.Setenv("NO_COLOR", "")
	assert.False(t, output.NoColor())
	assert.Equal(t, termenv.ANSI, output.Profile(output.Force))

	p := output.Profile(output.Detect)
	assert.True(t, p >= termenv.TrueColor && p <= termenv.Ascii, "should return a valid profile")
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	out := output.New(&buf, output.Detect)

	_, _ = out.WriteString("test")
	assert.Equal(t, "test", buf.String())

	assert.NotNil(t, output.New(nil, output.Force))
}

func TestPaint(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	colored := output.New(new(bytes.Buffer), output.Force)
	assert.Contains(t, output.Paint(colored, "ok", style.Green), "\x1b[")
	assert.Contains(t, output.Dim(colored, "[core]"), "\x1b[")

	t.Setenv("NO_COLOR", "1")
	plain := output.New(new(bytes.Buffer), output.Force)
	assert.Equal(t, "ok", output.Paint(plain, "ok", style.Green))
	assert.Equal(t, "[core]", output.Dim(plain, "[core]"))
}
