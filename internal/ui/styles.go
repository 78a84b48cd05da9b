package ui

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/groblegark/alertdeck/internal/model"
)

// ANSI256 color codes.
const (
	colorCritical = 196 // red
	colorWarning  = 214 // orange
	colorInfo     = 74  // blue
	colorActive   = 71  // green
	colorMuted    = 245 // medium gray
)

var noColor bool

// RenderSeverity returns the severity label in its color: Critical red,
// Warning orange, Info blue.
func RenderSeverity(s model.Severity) string {
	if noColor {
		return s.String()
	}
	switch s {
	case model.SeverityCritical:
		return colorize(colorCritical, s.String())
	case model.SeverityWarning:
		return colorize(colorWarning, s.String())
	case model.SeverityInfo:
		return colorize(colorInfo, s.String())
	}
	return s.String()
}

// RenderStatus returns the derived status label: Active green, everything
// else muted.
func RenderStatus(s model.Status) string {
	if noColor {
		return string(s)
	}
	if s == model.StatusActive {
		return colorize(colorActive, string(s))
	}
	return colorize(colorMuted, string(s))
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return colorize(colorMuted, s)
}

func colorize(code int, s string) string {
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

// ShouldUseColor returns true when ANSI colors should be used on stdout.
// It respects NO_COLOR, CLICOLOR_FORCE, CLICOLOR, and TTY detection.
func ShouldUseColor() bool {
	// https://no-color.org — any non-empty value disables color.
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
