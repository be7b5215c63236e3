// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package rosterui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column widths for the persona list. The role column fills remaining
// space; the others are fixed.
const (
	// columnWidthOrdinal covers " N. " through "99. " plus the
	// leading indent.
	columnWidthOrdinal = 5

	// columnWidthName is the fixed name column, sized for the long
	// compound names rotation tends to produce ("Incident Historian").
	columnWidthName = 22
)

// ListRenderer handles the table-style rendering of persona entries
// within a given width.
type ListRenderer struct {
	theme Theme
	width int
}

// NewListRenderer creates a ListRenderer for the given width.
func NewListRenderer(theme Theme, width int) ListRenderer {
	return ListRenderer{theme: theme, width: width}
}

// RenderRow renders a single persona as a formatted table row. The
// selected flag controls highlight styling. Matched filter positions
// (rune indices into the persona's name) are rendered with the search
// highlight background.
//
// Row layout: indent + ordinal + name + role
//
//	 1. Architect             boundary and tradeoff decisions
//	 2. Red Team              attack the current plan
func (renderer ListRenderer) RenderRow(result FilterResult, selected bool) string {
	name := result.Persona.Name()
	if name == "" {
		name = "(unnamed)"
	}
	role, _ := result.Persona["role"].(string)

	displayName := name
	if lipgloss.Width(displayName) > columnWidthName-1 {
		displayName = truncateString(displayName, columnWidthName-2) + "…"
	}
	namePadding := strings.Repeat(" ", columnWidthName-lipgloss.Width(displayName))

	roleWidth := renderer.width - columnWidthOrdinal - columnWidthName
	if roleWidth < 10 {
		roleWidth = 10
	}
	if lipgloss.Width(role) > roleWidth {
		role = truncateString(role, roleWidth-1) + "…"
	}

	ordinal := fmt.Sprintf(" %2d. ", result.Ordinal)

	if selected {
		return renderer.renderSelectedRow(ordinal, displayName, namePadding, role, name, result.NamePositions)
	}
	return renderer.renderNormalRow(ordinal, displayName, namePadding, role, name, result.NamePositions)
}

// renderNormalRow renders a row with per-component foreground colors
// and no background (default terminal background).
func (renderer ListRenderer) renderNormalRow(ordinal, displayName, namePadding, role, originalName string, matchPositions []int) string {
	ordinalStyle := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
	nameStyle := lipgloss.NewStyle().Foreground(renderer.theme.NormalText)
	roleStyle := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)

	var nameRendered string
	if len(matchPositions) > 0 {
		highlightStyle := lipgloss.NewStyle().
			Foreground(renderer.theme.NormalText).
			Background(renderer.theme.SearchHighlightBackground)
		nameRendered = highlightName(displayName, originalName, matchPositions, nameStyle, highlightStyle)
	} else {
		nameRendered = nameStyle.Render(displayName)
	}

	row := ordinalStyle.Render(ordinal) +
		nameRendered +
		namePadding +
		roleStyle.Render(role)

	return lipgloss.NewStyle().Width(renderer.width).MaxWidth(renderer.width).Render(row)
}

// renderSelectedRow renders the selected row with a highlight
// background. All text uses the selected foreground color.
func (renderer ListRenderer) renderSelectedRow(ordinal, displayName, namePadding, role, originalName string, matchPositions []int) string {
	baseStyle := lipgloss.NewStyle().
		Background(renderer.theme.SelectedBackground).
		Foreground(renderer.theme.SelectedForeground)

	var nameRendered string
	if len(matchPositions) > 0 {
		// On a selected row the background is already the selection
		// color, so a different background tint would be subtle. Use
		// bold+underline to make matches pop against the highlight.
		highlightStyle := baseStyle.Bold(true).Underline(true)
		nameRendered = highlightName(displayName, originalName, matchPositions, baseStyle.Bold(true), highlightStyle)
	} else {
		nameRendered = baseStyle.Bold(true).Render(displayName)
	}

	row := baseStyle.Render(ordinal) +
		nameRendered +
		namePadding +
		baseStyle.Render(role)

	return baseStyle.Width(renderer.width).MaxWidth(renderer.width).Render(row)
}

// highlightName renders a name with character-level highlighting at
// the given rune positions. Positions index into the original name
// (before truncation). Characters at matched positions use
// highlightStyle; all others use baseStyle. Consecutive runs of
// same-style characters are batched into a single Render call to keep
// ANSI output compact.
func highlightName(displayName, originalName string, positions []int, baseStyle, highlightStyle lipgloss.Style) string {
	if len(positions) == 0 {
		return baseStyle.Render(displayName)
	}

	positionSet := make(map[int]bool, len(positions))
	for _, position := range positions {
		positionSet[position] = true
	}

	originalLength := len([]rune(originalName))
	displayRunes := []rune(displayName)

	var result strings.Builder
	runStart := 0
	isHighlighted := len(displayRunes) > 0 && 0 < originalLength && positionSet[0]

	for index := 1; index <= len(displayRunes); index++ {
		currentHighlighted := index < originalLength && positionSet[index]
		if currentHighlighted != isHighlighted || index == len(displayRunes) {
			chunk := string(displayRunes[runStart:index])
			if isHighlighted {
				result.WriteString(highlightStyle.Render(chunk))
			} else {
				result.WriteString(baseStyle.Render(chunk))
			}
			runStart = index
			isHighlighted = currentHighlighted
		}
	}

	return result.String()
}

// truncateString truncates a string to maxWidth visual characters.
// Handles multi-byte characters correctly via lipgloss width
// measurement.
func truncateString(text string, maxWidth int) string {
	if lipgloss.Width(text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for length := len(runes) - 1; length >= 0; length-- {
		candidate := string(runes[:length])
		if lipgloss.Width(candidate) <= maxWidth {
			return candidate
		}
	}
	return ""
}
