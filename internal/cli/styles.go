// Package cli holds the terminal styling shared by the binaural commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#2E86AB") // steel blue
	accentColor  = lipgloss.Color("#F18F01") // amber
	mutedColor   = lipgloss.Color("#888888")
	textColor    = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#C0392B"))

	WarnStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(18)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)
)

// AppName is the title shown in help and version output.
const AppName = "binaural 🎧"

// PrintVersion prints version information.
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render(AppName))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError prints an error message to stderr.
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintWarning prints a warning to stderr.
func PrintWarning(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", WarnStyle.Render("Warning:"), message)
}

// KV is one line of a key/value report.
type KV struct {
	Key   string
	Value string
}

// PrintTitle writes a styled section title.
func PrintTitle(w io.Writer, title string) {
	fmt.Fprintln(w, TitleStyle.Render(title))
}

// PrintKV writes aligned key/value lines.
func PrintKV(w io.Writer, rows ...KV) {
	for _, r := range rows {
		fmt.Fprintf(w, "%s %s\n", KeyStyle.Render(r.Key+":"), ValueStyle.Render(r.Value))
	}
}
