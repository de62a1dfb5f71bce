package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"copydesk/internal/content"
	"copydesk/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const statusLabelWidth = 18

var statusStyles = map[statusKind]struct{ tag, color string }{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

func paint(text string, kind statusKind, colorize bool) string {
	style, ok := statusStyles[kind]
	if !colorize || !ok {
		return text
	}
	return style.color + text + ansiReset
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	tag := "[" + statusStyles[kind].tag + "]"
	if message != "" {
		tag += " " + message
	}
	return paint(fmt.Sprintf("  %-*s %s", statusLabelWidth, label+":", tag), kind, colorize)
}

// renderCheck maps a preflight result onto a status line. Disabled checks
// are informational.
func renderCheck(result preflight.Result, colorize bool) string {
	kind := statusError
	switch {
	case result.Passed && result.Detail == "Disabled":
		kind = statusInfo
	case result.Passed:
		kind = statusOK
	}
	return renderStatusLine(result.Name, kind, result.Detail, colorize)
}

// articleStatusKind picks the colour for an article status: live content is
// green, work waiting on the author is yellow and dead ends are red.
func articleStatusKind(status string) statusKind {
	switch content.Status(status) {
	case content.StatusPublished, content.StatusScheduled:
		return statusOK
	case content.StatusChangesRequested:
		return statusWarn
	case content.StatusRejected, content.StatusArchived:
		return statusError
	default:
		return statusInfo
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
