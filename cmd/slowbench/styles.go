package main

import "github.com/charmbracelet/lipgloss"

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // Light Gray
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")). // Green
			Bold(true)
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Orange
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)
	titleStyle = lipgloss.NewStyle().
			Bold(true)
)
