package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"", LevelInfo},
		{"info", LevelInfo},
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"warn", LevelWarn},
		{"Warning", LevelWarn},
		{"error", LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if err != nil {
				t.Fatalf("ParseLevel(%q) error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseLevel_Unknown(t *testing.T) {
	for _, s := range []string{"trace", "fatal", "loud"} {
		if _, err := ParseLevel(s); !errors.Is(err, ErrUnknownLevel) {
			t.Errorf("ParseLevel(%q) error = %v, want ErrUnknownLevel", s, err)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"", FormatText},
		{"text", FormatText},
		{"TEXT", FormatText},
		{"json", FormatJSON},
		{"Json", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if err != nil {
				t.Fatalf("ParseFormat(%q) error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}

	if _, err := ParseFormat("yaml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(yaml) error = %v, want ErrUnknownFormat", err)
	}
}

func TestNew_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: LevelWarn, Format: FormatJSON, Output: &buf})

	log.Info("dropped")
	log.Warn("kept", "path", "/todos/1")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info message logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"path":"/todos/1"`) {
		t.Errorf("expected JSON attribute in output, got %s", out)
	}
}

func TestFromNames(t *testing.T) {
	var buf bytes.Buffer
	log, err := FromNames(&buf, "debug", "text")
	if err != nil {
		t.Fatalf("FromNames: %v", err)
	}
	log.Debug("replay near miss", "entry", 2)
	if !strings.Contains(buf.String(), "entry=2") {
		t.Errorf("expected text attribute in output, got %s", buf.String())
	}

	if _, err := FromNames(&buf, "loud", ""); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("FromNames with bad level error = %v", err)
	}
	if _, err := FromNames(&buf, "", "xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("FromNames with bad format error = %v", err)
	}
}

func TestNop_Discards(t *testing.T) {
	log := Nop()
	if log.Enabled(t.Context(), LevelError) {
		t.Error("Nop logger reports error level as enabled")
	}
}
