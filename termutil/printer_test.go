package termutil_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appellation/rhai/termutil"
)

func TestBufferPrinter(t *testing.T) {
	p := termutil.NewBufferPrinter()
	p.WriteString("hello")
	assert.Equal(t, "hello", p.String())
	p.Reset()
	p.WriteString("olleh")
	assert.Equal(t, "olleh", p.String())
}

func TestBufferPrinterWriteIntFloat(t *testing.T) {
	p := termutil.NewBufferPrinter()
	p.WriteInt(42)
	p.WriteString(" ")
	p.WriteFloat(3.5)
	assert.Equal(t, "42 3.5", p.String())
}

func TestFilePrinterTruncatesByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	p, err := termutil.NewFilePrinter(path, false)
	require.NoError(t, err)
	p.WriteString("fresh")
	p.Close()

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(got))
}

func TestFilePrinterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0o644))

	p, err := termutil.NewFilePrinter(path, true)
	require.NoError(t, err)
	p.WriteString("second")
	p.Close()

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", string(got))
}

func TestFilePrinterOkAfterOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	p, err := termutil.NewFilePrinter(path, false)
	require.NoError(t, err)
	defer p.Close()

	assert.True(t, p.Ok())
	nCol, nRow := p.ScreenSize()
	assert.Greater(t, nCol, 0)
	assert.Greater(t, nRow, 0)
}

func TestTerminalPrinterWritesWithoutExceedingScreen(t *testing.T) {
	var buf strings.Builder
	p := termutil.NewTerminalPrinter(&buf)
	p.WriteString("one line\n")
	p.WriteString("two\n")
	assert.Equal(t, "one line\ntwo\n", buf.String())
	assert.True(t, p.Ok())
	p.Close()
}

func TestPipePrinterFeedsSubprocessStdin(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available on PATH")
	}
	p, err := termutil.NewPipePrinter("cat")
	require.NoError(t, err)
	p.WriteString("piped")
	p.Close()
}
