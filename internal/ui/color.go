// Package ui holds the terminal styles used by the command line output.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Renderer is the lipgloss renderer bound to stdout.
var Renderer = newRenderer(os.Stdout)

func newRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if f, ok := w.(*os.File); !ok || !isTerminal(f) {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// Predefined styles for consistent CLI output.
var (
	Green  = Renderer.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	Cyan   = Renderer.NewStyle().Foreground(lipgloss.Color("14"))
	Yellow = Renderer.NewStyle().Foreground(lipgloss.Color("11"))
	Red    = Renderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	Dim    = Renderer.NewStyle().Foreground(lipgloss.Color("245"))
	Header = Renderer.NewStyle().Bold(true).Underline(true)
)

// Success prints a highlighted result line.
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, Green.Render("✓")+" "+fmt.Sprintf(format, args...))
}

// Notice prints a neutral result line, used when a command changed nothing.
func Notice(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, Dim.Render("•")+" "+fmt.Sprintf(format, args...))
}

// Warning prints a warning line.
func Warning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, Yellow.Render("!")+" "+fmt.Sprintf(format, args...))
}
