package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// Help styles
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Italic(true).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentColor).
				MarginTop(1)

	helpNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AA00")).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Italic(true)
)

// StyledHelpPrinter returns a kong help printer with lipgloss styling. It
// lists the selected command's arguments and flags, or the subcommands
// when no command is selected yet.
func StyledHelpPrinter(description string) kong.HelpPrinter {
	return func(options kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		sb.WriteString(helpTitleStyle.Render(AppName))
		sb.WriteString("\n")
		sb.WriteString(helpDescStyle.Render(description))
		sb.WriteString("\n")

		node := ctx.Model.Node
		if selected := ctx.Selected(); selected != nil {
			node = selected
		}

		sb.WriteString(helpSectionStyle.Render("Usage:"))
		sb.WriteString("\n  ")
		sb.WriteString(node.Summary())
		sb.WriteString("\n")

		if node.Help != "" && node != ctx.Model.Node {
			sb.WriteString("\n  ")
			sb.WriteString(node.Help)
			sb.WriteString("\n")
		}

		writeSection(&sb, "Commands:", commandRows(node))
		writeSection(&sb, "Arguments:", argumentRows(node))
		writeSection(&sb, "Flags:", flagRows(node))

		sb.WriteString("\n")
		fmt.Fprint(ctx.Stdout, sb.String())
		return nil
	}
}

type helpRow struct {
	name       string
	help       string
	defaultVal string
}

func writeSection(sb *strings.Builder, title string, rows []helpRow) {
	if len(rows) == 0 {
		return
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r.name))
	}

	sb.WriteString("\n")
	sb.WriteString(helpSectionStyle.Render(title))
	sb.WriteString("\n")
	for _, r := range rows {
		sb.WriteString("  ")
		sb.WriteString(helpNameStyle.Render(r.name))
		sb.WriteString(strings.Repeat(" ", width-len(r.name)+2))
		sb.WriteString(r.help)
		if r.defaultVal != "" {
			sb.WriteString(" ")
			sb.WriteString(helpDefaultStyle.Render("(default: " + r.defaultVal + ")"))
		}
		sb.WriteString("\n")
	}
}

func commandRows(node *kong.Node) []helpRow {
	var rows []helpRow
	for _, child := range node.Children {
		if child.Hidden {
			continue
		}
		rows = append(rows, helpRow{name: child.Name, help: child.Help})
	}
	return rows
}

func argumentRows(node *kong.Node) []helpRow {
	var rows []helpRow
	for _, arg := range node.Positional {
		rows = append(rows, helpRow{name: arg.Summary(), help: arg.Help})
	}
	return rows
}

func flagRows(node *kong.Node) []helpRow {
	rows := []helpRow{{name: "-h, --help", help: "Show context-sensitive help."}}

	for _, group := range node.AllFlags(true) {
		for _, f := range group {
			if f.Name == "help" {
				continue
			}

			name := "--" + f.Name
			if f.Short != 0 {
				name = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
			}
			if !f.IsBool() && !f.IsCounter() {
				name += "=" + strings.ToUpper(f.FormatPlaceHolder())
			}

			row := helpRow{name: name, help: f.Help}
			if f.HasDefault && f.Default != "" {
				row.defaultVal = f.Default
			}
			rows = append(rows, row)
		}
	}

	return rows
}
