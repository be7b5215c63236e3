// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package rosterui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/zenchantlive/Asset-Hatch/lib/roster"
)

// detailHeaderLines is the fixed number of lines consumed by the
// detail pane header. Constant so the scrollable body never shifts
// vertically when switching personas.
//
// Layout:
//
//	Line 1: persona name
//	Line 2: role (or blank)
//	Line 3: separator
const detailHeaderLines = 3

// conventionalFields is the display order for the well-known persona
// fields. Anything else the persona carries renders after these,
// alphabetically.
var conventionalFields = []string{
	"mandate",
	"trust_model",
	"key_questions",
	"always_flags",
	"blind_spots",
	"ledger",
}

// DetailPane is the right-hand pane of the viewer: a fixed header and
// a scrollable body rendering the selected persona's fields as
// terminal markdown.
type DetailPane struct {
	viewport viewport.Model
	theme    Theme
	width    int
	height   int

	// Retained for re-rendering on resize. persona and ordinal are
	// set by SetContent and cleared by Clear. When hasEntry is true,
	// SetSize re-renders the content at the new width so markdown
	// word wrap adapts.
	hasEntry bool
	persona  roster.Persona
	ordinal  int

	// Pre-rendered header string, set by SetContent and rerender.
	header string
}

// NewDetailPane creates an empty detail pane.
func NewDetailPane(theme Theme) DetailPane {
	return DetailPane{
		theme: theme,
	}
}

// bodyHeight returns the number of lines available for the scrollable
// viewport body (total height minus the fixed header).
func (pane DetailPane) bodyHeight() int {
	result := pane.height - detailHeaderLines
	if result < 1 {
		result = 1
	}
	return result
}

// contentWidth returns the usable width for text content (total width
// minus the left padding column and right scrollbar column).
func (pane DetailPane) contentWidth() int {
	return pane.width - 2
}

// SetSize updates the detail pane dimensions. If the width changed
// and there is content displayed, the content is re-rendered at the
// new width so markdown wrapping stays correct.
func (pane *DetailPane) SetSize(width, height int) {
	previousWidth := pane.width
	pane.width = width
	pane.height = height
	pane.viewport.Width = pane.contentWidth()
	pane.viewport.Height = pane.bodyHeight()

	if pane.hasEntry && width != previousWidth {
		pane.rerender()
	}
}

// SetContent updates the detail pane with rendered content for a
// persona. When the displayed persona changes (different ordinal),
// the viewport scrolls back to the top.
func (pane *DetailPane) SetContent(persona roster.Persona, ordinal int) {
	changed := !pane.hasEntry || pane.ordinal != ordinal
	pane.hasEntry = true
	pane.persona = persona
	pane.ordinal = ordinal
	pane.rerender()
	if changed {
		pane.viewport.GotoTop()
	}
}

// Clear empties the pane (no persona selected).
func (pane *DetailPane) Clear() {
	pane.hasEntry = false
	pane.persona = nil
	pane.ordinal = 0
	pane.header = ""
	pane.viewport.SetContent("")
}

// rerender regenerates the header and body at the current width,
// preserving the scroll position as closely as possible.
func (pane *DetailPane) rerender() {
	previousOffset := pane.viewport.YOffset

	contentWidth := pane.contentWidth()
	pane.header = pane.renderHeader(contentWidth)

	body := RenderMarkdown(personaMarkdown(pane.persona), pane.theme, contentWidth)
	// Constrain so no line exceeds the viewport width; overlong
	// unbreakable tokens would otherwise leak into the scrollbar
	// column.
	body = lipgloss.NewStyle().Width(contentWidth).Render(body)
	pane.viewport.SetContent(body)

	// Restore scroll position, clamped to the new content height.
	maxOffset := pane.viewport.TotalLineCount() - pane.viewport.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if previousOffset > maxOffset {
		previousOffset = maxOffset
	}
	pane.viewport.SetYOffset(previousOffset)
}

// renderHeader produces the fixed header lines: name, role, and a
// separator. Always exactly [detailHeaderLines] lines.
func (pane DetailPane) renderHeader(contentWidth int) string {
	name := pane.persona.Name()
	if name == "" {
		name = "(unnamed)"
	}
	role, _ := pane.persona["role"].(string)

	nameStyle := lipgloss.NewStyle().
		Foreground(pane.theme.HeaderForeground).
		Bold(true)
	roleStyle := lipgloss.NewStyle().
		Foreground(pane.theme.FaintText)
	separatorStyle := lipgloss.NewStyle().
		Foreground(pane.theme.BorderColor)

	if lipgloss.Width(name) > contentWidth {
		name = truncateString(name, contentWidth-1) + "…"
	}
	if lipgloss.Width(role) > contentWidth {
		role = truncateString(role, contentWidth-1) + "…"
	}

	return strings.Join([]string{
		nameStyle.Render(name),
		roleStyle.Render(role),
		separatorStyle.Render(strings.Repeat("─", contentWidth)),
	}, "\n")
}

// View renders the detail pane as a docked panel with a fixed header,
// scrollable body, left padding, and a right scrollbar.
func (pane DetailPane) View(focused bool) string {
	contentWidth := pane.contentWidth()

	if !pane.hasEntry {
		emptyStyle := lipgloss.NewStyle().
			Foreground(pane.theme.FaintText)

		contentStyle := lipgloss.NewStyle().
			PaddingLeft(1).
			Width(pane.width - 1).
			Height(pane.height)

		content := contentStyle.Render(
			lipgloss.Place(
				contentWidth, pane.height,
				lipgloss.Center, lipgloss.Center,
				emptyStyle.Render("Select a persona to view details"),
			),
		)

		scrollbar := renderScrollbar(
			pane.theme, pane.height,
			0, pane.height, 0,
			focused,
		)
		return lipgloss.JoinHorizontal(lipgloss.Top, content, scrollbar)
	}

	// Build the content column as exactly pane.height lines: fixed
	// header (detailHeaderLines) + scrollable body (remainder).
	paddingStyle := lipgloss.NewStyle().
		PaddingLeft(1).
		Width(pane.width - 1)

	headerView := paddingStyle.Height(detailHeaderLines).Render(pane.header)
	bodyView := paddingStyle.Height(pane.bodyHeight()).Render(pane.viewport.View())
	content := headerView + "\n" + bodyView

	// Scrollbar: blank column for the header rows, actual scrollbar
	// for the body rows, so the bar only covers the region it
	// scrolls.
	headerColumn := lipgloss.NewStyle().
		Width(1).
		Height(detailHeaderLines).
		Render("")
	bodyScrollbar := renderScrollbar(
		pane.theme, pane.bodyHeight(),
		pane.viewport.TotalLineCount(), pane.viewport.Height, pane.viewport.YOffset,
		focused,
	)
	scrollColumn := headerColumn + "\n" + bodyScrollbar

	return lipgloss.JoinHorizontal(lipgloss.Top, content, scrollColumn)
}

// ScrollUp scrolls the body up one line.
func (pane *DetailPane) ScrollUp() {
	pane.viewport.LineUp(1)
}

// ScrollDown scrolls the body down one line.
func (pane *DetailPane) ScrollDown() {
	pane.viewport.LineDown(1)
}

// PageUp scrolls the body up half a page.
func (pane *DetailPane) PageUp() {
	pane.viewport.HalfViewUp()
}

// PageDown scrolls the body down half a page.
func (pane *DetailPane) PageDown() {
	pane.viewport.HalfViewDown()
}

// GotoTop jumps to the top of the body.
func (pane *DetailPane) GotoTop() {
	pane.viewport.GotoTop()
}

// GotoBottom jumps to the bottom of the body.
func (pane *DetailPane) GotoBottom() {
	pane.viewport.GotoBottom()
}

// personaMarkdown flattens a persona's fields into a markdown
// document for the detail body. Conventional fields render first in a
// fixed order, remaining fields alphabetically; name and role are
// omitted (they live in the header). Strings render as paragraphs,
// sequences as bullet lists, and nested objects (the ledger) as bold
// key/value bullets.
func personaMarkdown(persona roster.Persona) string {
	var builder strings.Builder

	rendered := map[string]bool{"name": true, "role": true}
	for _, field := range conventionalFields {
		if value, ok := persona[field]; ok {
			writeFieldSection(&builder, field, value)
			rendered[field] = true
		}
	}

	var extras []string
	for key := range persona {
		if !rendered[key] {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	for _, key := range extras {
		writeFieldSection(&builder, key, persona[key])
	}

	if builder.Len() == 0 {
		return "*No detail fields recorded.*"
	}
	return strings.TrimRight(builder.String(), "\n")
}

// writeFieldSection appends one "### Label" section for a persona
// field.
func writeFieldSection(builder *strings.Builder, key string, value any) {
	fmt.Fprintf(builder, "### %s\n\n", fieldLabel(key))

	switch typed := value.(type) {
	case string:
		builder.WriteString(typed)
		builder.WriteString("\n\n")
	case []any:
		if len(typed) == 0 {
			builder.WriteString("*(empty)*\n\n")
			return
		}
		for _, item := range typed {
			fmt.Fprintf(builder, "- %s\n", formatScalar(item))
		}
		builder.WriteString("\n")
	case map[string]any:
		if len(typed) == 0 {
			builder.WriteString("*(empty)*\n\n")
			return
		}
		keys := make([]string, 0, len(typed))
		for nested := range typed {
			keys = append(keys, nested)
		}
		sort.Strings(keys)
		for _, nested := range keys {
			fmt.Fprintf(builder, "- **%s:** %s\n", fieldLabel(nested), formatScalar(typed[nested]))
		}
		builder.WriteString("\n")
	default:
		builder.WriteString(formatScalar(value))
		builder.WriteString("\n\n")
	}
}

// fieldLabel turns a snake_case key into a display label:
// "key_questions" becomes "Key questions".
func fieldLabel(key string) string {
	label := strings.ReplaceAll(key, "_", " ")
	runes := []rune(label)
	if len(runes) > 0 {
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	}
	return string(runes)
}

// formatScalar renders a leaf value for bullet display. Strings pass
// through; everything else goes through fmt (json.Number prints its
// literal form).
func formatScalar(value any) string {
	if text, ok := value.(string); ok {
		return text
	}
	return fmt.Sprint(value)
}
