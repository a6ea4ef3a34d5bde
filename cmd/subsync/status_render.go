package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// severity classifies a status line for labeling and coloring.
type severity int

const (
	severityInfo severity = iota
	severityOK
	severityWarn
	severityError
)

func (s severity) label() string {
	switch s {
	case severityOK:
		return "OK"
	case severityWarn:
		return "WARN"
	case severityError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (s severity) colors() text.Colors {
	switch s {
	case severityOK:
		return text.Colors{text.FgGreen}
	case severityWarn:
		return text.Colors{text.FgYellow}
	case severityError:
		return text.Colors{text.FgRed}
	default:
		return text.Colors{text.FgBlue}
	}
}

const statusLabelWidth = 20

func statusLine(label string, sev severity, message string, colorize bool) string {
	detail := "[" + sev.label() + "]"
	if message != "" {
		detail += " " + message
	}
	line := fmt.Sprintf("  %-*s %s", statusLabelWidth, label+":", detail)
	if !colorize {
		return line
	}
	return sev.colors().Sprint(line)
}

func sectionHeader(title string, colorize bool) []string {
	heading := "== " + strings.TrimSpace(title) + " =="
	rule := strings.Repeat("-", len(heading))
	if colorize {
		heading = text.FgBlue.Sprint(heading)
		rule = text.FgBlue.Sprint(rule)
	}
	return []string{heading, rule}
}

func colorEnabled(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
