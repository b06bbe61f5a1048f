package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func restore() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestDebug_OnlyWhenVerbose(t *testing.T) {
	defer restore()
	var buf bytes.Buffer
	SetOutput(&buf)

	SetVerbose(false)
	Debug("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debug("shown %d", 2)
	assert.Contains(t, buf.String(), "[DEBUG] shown 2")
}

func TestInfoWarnError_AlwaysPrint(t *testing.T) {
	defer restore()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Info("i %s", "nfo")
	Warn("w %s", "arn")
	Error("e %s", "rror")

	out := buf.String()
	assert.Contains(t, out, "[INFO] i nfo")
	assert.Contains(t, out, "[WARN] w arn")
	assert.Contains(t, out, "[ERROR] e rror")
}

func TestIsVerbose(t *testing.T) {
	defer restore()
	SetVerbose(true)
	assert.True(t, IsVerbose())
	SetVerbose(false)
	assert.False(t, IsVerbose())
}
