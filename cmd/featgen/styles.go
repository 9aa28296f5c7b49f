// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all CLI output.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6")
	ColorVerbose   = lipgloss.Color("#9CA3AF")
)

var (
	// TitleStyle is for primary headers.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	// SubtitleStyle is for secondary text.
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	// SuccessStyle marks successful outcomes.
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	// ErrorStyle marks failures.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	// WarningStyle marks warnings.
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	// CmdStyle is for commands, paths and codes.
	CmdStyle = lipgloss.NewStyle().Foreground(ColorHighlight)
	// VerboseStyle is for supplementary details.
	VerboseStyle = lipgloss.NewStyle().Foreground(ColorVerbose)

	diagCodeStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorHighlight)
	diagFeatureStyle = lipgloss.NewStyle().Bold(true)
	diagDetailStyle  = lipgloss.NewStyle().Foreground(ColorVerbose).PaddingLeft(4)
	diagHintStyle    = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true).PaddingLeft(4)

	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)
