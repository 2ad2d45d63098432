package tui

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/pders01/marquee/internal/config"
)

func TestShowBanner(t *testing.T) {
	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	// Call ShowBanner with test version
	ShowBanner("1.0.0-test")

	_ = w.Close()
	os.Stdout = old
	out := <-outC

	// Check if banner contains expected elements
	if !strings.Contains(out, "Movie Browser") {
		t.Errorf("Expected banner to contain 'Movie Browser', got: %s", out)
	}
	// Check for border characters
	if !strings.Contains(out, "╔") || !strings.Contains(out, "╝") {
		t.Errorf("Expected banner to contain border characters, got: %s", out)
	}
	// Check for marquee bulbs
	if !strings.Contains(out, "●") {
		t.Errorf("Expected banner to contain bulb symbols, got: %s", out)
	}
	// Check for version
	if !strings.Contains(out, "v1.0.0-test") {
		t.Errorf("Expected banner to contain version 'v1.0.0-test', got: %s", out)
	}
}

func TestLogoConstants(t *testing.T) {
	// Test that LogoLines is properly defined
	if len(LogoLines) != 5 {
		t.Errorf("Expected 5 logo lines, got %d", len(LogoLines))
	}

	// All lines share one width so the banner centers cleanly
	for i, line := range LogoLines {
		assert.Equal(t, len(LogoLines[0]), len(line), "logo line %d", i)
	}

	// Test that BannerColors is properly defined
	if len(BannerColors) != 5 {
		t.Errorf("Expected 5 banner colors, got %d", len(BannerColors))
	}
}

func TestApplyTheme(t *testing.T) {
	origPrimary, origError := PrimaryColor, ErrorColor
	t.Cleanup(func() {
		ApplyTheme(config.UIColors{Primary: string(origPrimary), Error: string(origError)})
	})

	ApplyTheme(config.UIColors{Primary: "#112233"})

	assert.Equal(t, lipgloss.Color("#112233"), PrimaryColor)
	assert.Equal(t, origError, ErrorColor, "empty entries keep the built-in color")
	assert.Equal(t, lipgloss.Color("#112233"), LogoStyle.GetForeground())
}
