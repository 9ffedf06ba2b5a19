package shared

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestParseLogLevel(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  log.Level
	}{
		{name: "empty defaults to info", input: "", want: log.InfoLevel},
		{name: "debug", input: "debug", want: log.DebugLevel},
		{name: "mixed case", input: "WaRn", want: log.WarnLevel},
		{name: "unknown defaults to info", input: "verbose", want: log.InfoLevel},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestShared(t *testing.T) {
	t.Run("GenerateID", func(t *testing.T) {
		id := GenerateID()
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("expected valid uuid, got %q: %v", id, err)
		}
		if id == GenerateID() {
			t.Error("expected unique IDs")
		}
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		compact, err := MarshalJSON(map[string]int{"a": 1}, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(compact) != `{"a":1}` {
			t.Errorf("unexpected compact output %s", compact)
		}

		pretty, err := MarshalJSON(map[string]int{"a": 1}, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(pretty), "\n  \"a\": 1") {
			t.Errorf("unexpected pretty output %s", pretty)
		}
	})

	t.Run("NewLogger Writes To Writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello", "key", "value")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output to contain message, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger Creates Directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "statsdash.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		logger.Info("written")
	})
}
