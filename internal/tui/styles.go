package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	itemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	goStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	waitStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	cellStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	cellLitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
