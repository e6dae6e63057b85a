package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLoggerLevel(t *testing.T) {
	logger := NewLogger(Config{Level: "warn", Format: "json"})
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("expected warn level, got %s", logger.GetLevel())
	}

	logger = NewLogger(Config{Level: "nonsense"})
	if logger.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("unknown level should fall back to info, got %s", logger.GetLevel())
	}
}

func TestOutputSelection(t *testing.T) {
	if output("stdout") != os.Stdout {
		t.Fatal("stdout not selected")
	}
	if output("") != os.Stderr {
		t.Fatal("stderr should be the default")
	}
}

func TestConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	w := logWriter(Config{Format: "console"}, &buf)
	if _, ok := w.(zerolog.ConsoleWriter); !ok {
		t.Fatalf("expected console writer, got %T", w)
	}
	if logWriter(Config{Format: "json"}, &buf) != &buf {
		t.Fatal("json format should write directly")
	}
}
