// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// fnplot color palette
var (
	ColorTealBright  = lipgloss.Color("#2CD7C7")
	ColorTealPrimary = lipgloss.Color("#20B9B4")
	ColorTealDeep    = lipgloss.Color("#16858E")
	ColorSlate       = lipgloss.Color("#2C4A54")

	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title     lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	Box       lipgloss.Style
	HeaderRow lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorTealBright),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorTealBright).Bold(true),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorTealDeep).
		Padding(0, 1),
	HeaderRow: lipgloss.NewStyle().Bold(true).Foreground(ColorTealPrimary),
}

// Icon provides themed status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconBullet  Icon = "•"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	default:
		return string(i)
	}
}

// Printer writes CLI output at one personality level.
type Printer struct {
	out   io.Writer
	level PersonalityLevel
}

// NewPrinter creates a printer for out at level.
func NewPrinter(out io.Writer, level PersonalityLevel) *Printer {
	return &Printer{out: out, level: level}
}

// Level returns the printer's personality level.
func (p *Printer) Level() PersonalityLevel { return p.level }

// Machine reports whether output should be JSON.
func (p *Printer) Machine() bool { return p.level == PersonalityMachine }

// JSON writes v as indented JSON.
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Title prints a styled title. Machine output omits it.
func (p *Printer) Title(text string) {
	switch p.level {
	case PersonalityMachine:
		return
	case PersonalityMinimal:
		fmt.Fprintln(p.out, text)
	default:
		fmt.Fprintln(p.out, Styles.Title.Render(text))
	}
}

// Success prints a success message with checkmark
func (p *Printer) Success(text string) {
	switch p.level {
	case PersonalityMachine:
		fmt.Fprintf(p.out, "OK: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(p.out, "%s %s\n", IconSuccess, text)
	default:
		fmt.Fprintf(p.out, "%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
	}
}

// Warning prints a warning message
func (p *Printer) Warning(text string) {
	switch p.level {
	case PersonalityMachine:
		fmt.Fprintf(p.out, "WARN: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(p.out, "%s %s\n", IconWarning, text)
	default:
		fmt.Fprintf(p.out, "%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
	}
}

// Error prints an error message
func (p *Printer) Error(text string) {
	switch p.level {
	case PersonalityMachine:
		fmt.Fprintf(p.out, "ERROR: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(p.out, "%s %s\n", IconError, text)
	default:
		fmt.Fprintf(p.out, "%s %s\n", IconError.Render(), Styles.Error.Render(text))
	}
}

// Newline prints an empty line. Machine output omits it.
func (p *Printer) Newline() {
	if p.level != PersonalityMachine {
		fmt.Fprintln(p.out)
	}
}

// KeyValue prints an aligned "key: value" line.
func (p *Printer) KeyValue(key string, value any) {
	if p.level == PersonalityFull {
		fmt.Fprintf(p.out, "%s %v\n", Styles.Muted.Render(fmt.Sprintf("%-14s", key+":")), value)
		return
	}
	fmt.Fprintf(p.out, "%s: %v\n", key, value)
}

// Box prints content in a rounded box under title.
func (p *Printer) Box(title, content string) {
	if p.level != PersonalityFull {
		fmt.Fprintf(p.out, "%s\n%s\n", title, content)
		return
	}
	fmt.Fprintln(p.out, Styles.Box.Render(Styles.Title.Render(title)+"\n"+content))
}

// Table prints rows as left-aligned columns. The header is styled at the
// full level.
func (p *Printer) Table(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string) string {
		padded := make([]string, len(cells))
		for i, cell := range cells {
			if i < len(widths) {
				padded[i] = fmt.Sprintf("%-*s", widths[i], cell)
			} else {
				padded[i] = cell
			}
		}
		return strings.TrimRight(strings.Join(padded, "  "), " ")
	}

	head := line(header)
	if p.level == PersonalityFull {
		head = Styles.HeaderRow.Render(head)
	}
	fmt.Fprintln(p.out, head)
	for _, row := range rows {
		fmt.Fprintln(p.out, line(row))
	}
}
