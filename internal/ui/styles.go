package ui

import (
	"product-console/internal/alert"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))

	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	selectedRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(1, 2)

	fieldLabelStyle    = lipgloss.NewStyle().Bold(true)
	fieldErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	disabledFieldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)

	alertStyles = map[alert.Type]lipgloss.Style{
		alert.TypeSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		alert.TypeError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		alert.TypeWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		alert.TypeInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
	}
)
