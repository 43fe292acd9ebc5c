package output

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var out, errOut bytes.Buffer
	origOut, origErr := Stdout(), Stderr()
	SetStdout(&out)
	SetStderr(&errOut)
	origNoColor := color.NoColor
	color.NoColor = true

	t.Cleanup(func() {
		SetStdout(origOut)
		SetStderr(origErr)
		color.NoColor = origNoColor
	})
	return &out, &errOut
}

func TestInit(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	t.Setenv("NO_COLOR", "1")
	Init()
	assert.True(t, color.NoColor)
}

func TestMessagesGoToStderr(t *testing.T) {
	out, errOut := captureOutput(t)

	Success("ok")
	Successf("ok %d", 2)
	Info("info")
	Infof("info %s", "x")
	Warn("warn")
	Warnf("warn %s", "y")
	Error("bad")
	Errorf("bad %s", "z")

	assert.Empty(t, out.String())
	assert.Equal(t, "ok\nok 2\ninfo\ninfo x\nwarn\nwarn y\nbad\nbad z\n", errOut.String())
}

func TestPlainGoesToStdout(t *testing.T) {
	out, errOut := captureOutput(t)

	Plain("line")
	assert.Equal(t, "line\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestJSON(t *testing.T) {
	out, _ := captureOutput(t)

	require.NoError(t, JSON(map[string]bool{"success": true}))
	assert.Equal(t, "{\n  \"success\": true\n}\n", out.String())

	require.Error(t, JSON(make(chan int)))
}

func TestJSONLine(t *testing.T) {
	out, _ := captureOutput(t)

	require.NoError(t, JSONLine(map[string]int{"a": 1}))
	require.NoError(t, JSONLine(map[string]int{"b": 2}))
	assert.Equal(t, "{\"a\":1}\n{\"b\":2}\n", out.String())
}
