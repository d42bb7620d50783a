package errors

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorWhite = "\033[37m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// colorEnabled controls whether ANSI colors are used.
var colorEnabled = true

// DisableColors disables ANSI color output.
func DisableColors() {
	colorEnabled = false
}

// EnableColors enables ANSI color output.
func EnableColors() {
	colorEnabled = true
}

// painter wraps text in ANSI codes when true.
type painter bool

func (p painter) color(code, text string) string {
	if !p {
		return text
	}
	return code + text + colorReset
}

func (p painter) red(text string) string   { return p.color(colorRed, text) }
func (p painter) white(text string) string { return p.color(colorWhite, text) }
func (p painter) cyan(text string) string  { return p.color(colorCyan, text) }
func (p painter) gray(text string) string  { return p.color(colorGray, text) }
func (p painter) bold(text string) string  { return p.color(colorBold, text) }

// Format returns the error formatted for terminal display.
func (e *Error) Format() string {
	return e.format(painter(colorEnabled))
}

// FormatPlain is Format without ANSI colors, for non-terminal output.
func (e *Error) FormatPlain() string {
	return e.format(painter(false))
}

func (e *Error) format(p painter) string {
	var b strings.Builder

	b.WriteString("\n")
	if e.Code != "" {
		b.WriteString(p.red(p.bold("ERROR ")))
		b.WriteString(p.white(p.bold(e.Code + ": ")))
	} else {
		b.WriteString(p.red(p.bold("ERROR: ")))
	}
	b.WriteString(p.white(e.Message))
	b.WriteString("\n\n")

	if e.Location != nil {
		b.WriteString("  ")
		b.WriteString(p.cyan(e.Location.String()))
		b.WriteString("\n\n")

		if len(e.Context) > 0 {
			startLine := e.Location.Line - len(e.Context)/2
			if startLine < 1 {
				startLine = 1
			}
			for i, line := range e.Context {
				lineNum := startLine + i
				if lineNum == e.Location.Line {
					b.WriteString("  ")
					b.WriteString(p.red("→ "))
					fmt.Fprintf(&b, "%4d", lineNum)
					b.WriteString(p.gray(" │ "))
					b.WriteString(line)
					b.WriteString("\n")
					if e.Location.Column > 0 {
						b.WriteString("       ")
						b.WriteString(p.gray("│ "))
						b.WriteString(strings.Repeat(" ", e.Location.Column-1))
						b.WriteString(p.red("^"))
						b.WriteString("\n")
					}
					continue
				}
				b.WriteString("    ")
				fmt.Fprintf(&b, "%4d", lineNum)
				b.WriteString(p.gray(" │ "))
				b.WriteString(line)
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 70) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if e.Wrapped != nil {
		b.WriteString("  ")
		b.WriteString(p.gray("Cause: "))
		b.WriteString(e.Wrapped.Error())
		b.WriteString("\n\n")
	}

	if e.Suggestion != "" {
		b.WriteString("  ")
		b.WriteString(p.cyan("Hint: "))
		b.WriteString(e.Suggestion)
		b.WriteString("\n\n")
	}

	return b.String()
}

// FormatCompact returns a single-line form suitable for logs.
func (e *Error) FormatCompact() string {
	var b strings.Builder
	if e.Location != nil {
		b.WriteString(e.Location.String())
		b.WriteString(": ")
	}
	b.WriteString(e.Error())
	return b.String()
}

func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= width {
		return []string{text}
	}

	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(text) {
		if current.Len() > 0 && current.Len()+len(word)+1 > width {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// Print writes err to w, formatted when it is an *Error.
func Print(w io.Writer, err error) {
	var e *Error
	if errors.As(err, &e) {
		fmt.Fprint(w, e.Format())
		return
	}
	p := painter(colorEnabled)
	fmt.Fprintf(w, "\n%s %s\n\n", p.red(p.bold("ERROR:")), err.Error())
}
