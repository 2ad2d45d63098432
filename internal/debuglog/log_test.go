package debuglog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelOff, "OFF"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{" info ", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"off", LevelOff},
		{"none", LevelOff},
		{"invalid", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestSetupWritesRotatingFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "marquee.log")

	if err := Setup(LevelInfo, Options{Path: logPath, MaxSizeMB: 1, MaxBackups: 1}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	t.Cleanup(func() { _ = Close() })

	Debugf("debug message")
	Infof("info message")
	Warnf("warn message")
	Errorf("error message")

	if err := Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}

	logContent := string(content)
	if strings.Contains(logContent, "debug message") {
		t.Error("DEBUG message should not appear with INFO level")
	}
	for _, want := range []string{"[INFO] info message", "[WARN] warn message", "[ERROR] error message"} {
		if !strings.Contains(logContent, want) {
			t.Errorf("log file missing %q", want)
		}
	}
}

func TestSetupWithLevelOff(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "off.log")

	if err := Setup(LevelOff, Options{Path: logPath}); err != nil {
		t.Fatalf("Setup with LevelOff failed: %v", err)
	}

	if GetLevel() != LevelOff {
		t.Errorf("GetLevel() = %v, want %v", GetLevel(), LevelOff)
	}

	Errorf("error message")

	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Error("no log file should be created when logging is off")
	}
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(LevelWarn, &buf)
	t.Cleanup(func() { _ = Close() })

	Infof("quiet")
	Warnf("loud %d", 1)

	if strings.Contains(buf.String(), "quiet") {
		t.Error("INFO message should be filtered at WARN level")
	}
	if !strings.Contains(buf.String(), "[WARN] loud 1") {
		t.Errorf("buffer = %q, want WARN line", buf.String())
	}
}

func TestFieldLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(LevelDebug, &buf)
	t.Cleanup(func() { _ = Close() })

	logger := WithFields(map[string]interface{}{
		"request_id": "abc",
		"endpoint":   "/search/movie",
		"status":     200,
	})

	logger.Infof("request finished")

	line := buf.String()
	if !strings.Contains(line, "request finished") {
		t.Error("log line should contain the main message")
	}
	if !strings.Contains(line, "[endpoint=/search/movie request_id=abc status=200]") {
		t.Errorf("log line = %q, want sorted fields", line)
	}
}

func TestSetLevel(t *testing.T) {
	SetLevel(LevelDebug)
	if GetLevel() != LevelDebug {
		t.Errorf("SetLevel(LevelDebug) failed, got %v", GetLevel())
	}

	SetLevel(LevelError)
	if GetLevel() != LevelError {
		t.Errorf("SetLevel(LevelError) failed, got %v", GetLevel())
	}

	SetLevel(LevelOff)
}
