package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-stocktrack/internal/service"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	criticalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
)

// printTable renders a fixed-width table with a styled header row and a rule
// underneath, in the layout the tool has always printed.
func printTable(w io.Writer, widths []int, header []string, rows [][]string) {
	var format strings.Builder
	for _, width := range widths {
		fmt.Fprintf(&format, "%%-%ds ", width)
	}
	format.WriteString("\n")

	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	fmt.Fprint(w, headerStyle.Render(strings.TrimRight(fmt.Sprintf(format.String(), headerCells...), "\n")))
	fmt.Fprintln(w)

	total := 0
	for _, width := range widths {
		total += width + 1
	}
	fmt.Fprintln(w, dimStyle.Render(strings.Repeat("-", total)))

	for _, row := range rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		fmt.Fprintf(w, format.String(), cells...)
	}
}

func styledStatus(status service.StockStatus) string {
	if status == service.StockCritical {
		return criticalStyle.Render(string(status))
	}
	return warnStyle.Render(string(status))
}

func styledPriority(priority service.ReorderPriority) string {
	switch priority {
	case service.PriorityHigh:
		return criticalStyle.Render(string(priority))
	case service.PriorityMedium:
		return warnStyle.Render(string(priority))
	default:
		return okStyle.Render(string(priority))
	}
}
