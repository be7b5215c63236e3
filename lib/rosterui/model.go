// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package rosterui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zenchantlive/Asset-Hatch/lib/roster"
)

// FocusRegion identifies which pane has keyboard focus.
type FocusRegion int

const (
	// FocusList means navigation keys move the persona list cursor.
	FocusList FocusRegion = iota
	// FocusDetail means navigation keys scroll the detail viewport.
	FocusDetail
	// FocusFilter means keystrokes go to the filter input.
	FocusFilter
)

// listPaneRatio is the fraction of the terminal width given to the
// persona list; the remainder (minus a 1-column divider) goes to the
// detail pane.
const listPaneRatio = 0.42

// Model is the top-level bubbletea model for the roster viewer TUI.
// The model is read-only over the roster it was constructed with.
type Model struct {
	roster *roster.Roster
	theme  Theme
	keys   KeyMap

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	// Filter and the filtered, score-ordered persona rows.
	filter FilterModel
	rows   []FilterResult

	// List state.
	cursor       int
	scrollOffset int

	// Stable focus: the roster ordinal of the selected persona, so
	// clearing a filter restores the same selection when possible.
	selectedOrdinal int

	// Two-pane layout.
	focusRegion FocusRegion
	priorFocus  FocusRegion // Saved focus when entering filter mode.
	detailPane  DetailPane
}

// NewModel creates a Model over the given roster.
func NewModel(r *roster.Roster) Model {
	model := Model{
		roster:     r,
		theme:      DefaultTheme,
		keys:       DefaultKeyMap,
		detailPane: NewDetailPane(DefaultTheme),
	}
	model.rows = model.filter.ApplyFuzzy(r.Personas)
	if len(model.rows) > 0 {
		model.selectedOrdinal = model.rows[0].Ordinal
	}
	return model
}

// Init implements tea.Model. The viewer has no background sources, so
// there is nothing to start.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Routes keyboard events based on the
// current focus region and handles layout changes.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		// When the filter is active, route all input to it first.
		if model.focusRegion == FocusFilter {
			return model.handleFilterKeys(message)
		}

		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit

		case key.Matches(message, model.keys.FocusToggle):
			if model.focusRegion == FocusList {
				model.focusRegion = FocusDetail
			} else {
				model.focusRegion = FocusList
			}

		case key.Matches(message, model.keys.FilterActivate):
			model.priorFocus = model.focusRegion
			model.focusRegion = FocusFilter
			model.filter.Active = true
			// Reset list position to the top so the user sees
			// results from the beginning as they type.
			model.cursor = 0
			model.scrollOffset = 0

		case key.Matches(message, model.keys.FilterClear):
			if model.filter.Input != "" {
				model.filter.Clear()
				model.applyFilter()
			}

		default:
			if model.focusRegion == FocusList {
				model.handleListKeys(message)
			} else {
				model.handleDetailKeys(message)
			}
		}

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.updatePaneSizes()
		model.ensureCursorVisible()
		model.syncDetailPane()
	}
	return model, nil
}

// handleFilterKeys processes keystrokes while the filter input has
// focus. Esc clears the text (or exits filter mode when already
// empty), Enter confirms and returns focus to the list, and regular
// characters append to the query.
func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		// ctrl+c always quits, even in filter mode.
		if message.Type == tea.KeyCtrlC {
			return model, tea.Quit
		}
		// 'q' is a regular character in filter mode.
		model.filter.HandleRune('q')
		model.applyFilter()
		return model, nil

	case key.Matches(message, model.keys.FilterClear):
		if model.filter.Input != "" {
			model.filter.Clear()
			model.applyFilter()
		} else {
			model.filter.Active = false
			model.focusRegion = model.priorFocus
		}
		return model, nil

	case message.Type == tea.KeyEnter:
		model.filter.Active = false
		model.focusRegion = FocusList
		return model, nil

	case message.Type == tea.KeyBackspace:
		if model.filter.HandleBackspace() {
			model.applyFilter()
		}
		return model, nil

	case message.Type == tea.KeyRunes || message.Type == tea.KeySpace:
		for _, r := range message.Runes {
			model.filter.HandleRune(r)
		}
		model.applyFilter()
		return model, nil
	}

	return model, nil
}

// handleListKeys processes navigation keys while the list has focus.
func (model *Model) handleListKeys(message tea.KeyMsg) {
	previousCursor := model.cursor

	switch {
	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}

	case key.Matches(message, model.keys.Down):
		if model.cursor < len(model.rows)-1 {
			model.cursor++
		}

	case key.Matches(message, model.keys.PageUp):
		target := model.cursor - model.visibleHeight()
		if target < 0 {
			target = 0
		}
		model.cursor = target

	case key.Matches(message, model.keys.PageDown):
		target := model.cursor + model.visibleHeight()
		if len(model.rows) > 0 && target >= len(model.rows) {
			target = len(model.rows) - 1
		}
		model.cursor = target

	case key.Matches(message, model.keys.Home):
		model.cursor = 0

	case key.Matches(message, model.keys.End):
		if len(model.rows) > 0 {
			model.cursor = len(model.rows) - 1
		}
	}

	model.ensureCursorVisible()

	if model.cursor != previousCursor {
		model.syncDetailPane()
	}
}

// handleDetailKeys processes navigation keys while the detail pane
// has focus.
func (model *Model) handleDetailKeys(message tea.KeyMsg) {
	switch {
	case key.Matches(message, model.keys.Up):
		model.detailPane.ScrollUp()
	case key.Matches(message, model.keys.Down):
		model.detailPane.ScrollDown()
	case key.Matches(message, model.keys.PageUp):
		model.detailPane.PageUp()
	case key.Matches(message, model.keys.PageDown):
		model.detailPane.PageDown()
	case key.Matches(message, model.keys.Home):
		model.detailPane.GotoTop()
	case key.Matches(message, model.keys.End):
		model.detailPane.GotoBottom()
	}
}

// applyFilter re-runs the fuzzy filter over the roster. While filter
// text is present the list snaps to the top so the highest-scored
// matches are visible as the user types; when the filter clears, the
// previously selected persona is restored if it survived.
func (model *Model) applyFilter() {
	model.rows = model.filter.ApplyFuzzy(model.roster.Personas)

	if model.filter.Input != "" {
		model.cursor = 0
		model.scrollOffset = 0
		if len(model.rows) > 0 {
			model.selectedOrdinal = model.rows[0].Ordinal
		}
	} else {
		model.restoreSelection()
	}

	model.ensureCursorVisible()
	model.syncDetailPane()
}

// restoreSelection moves the cursor back to the persona identified by
// selectedOrdinal, or clamps the cursor when that persona is gone.
func (model *Model) restoreSelection() {
	for index, row := range model.rows {
		if row.Ordinal == model.selectedOrdinal {
			model.cursor = index
			return
		}
	}
	if model.cursor >= len(model.rows) {
		model.cursor = len(model.rows) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
}

// syncDetailPane pushes the selected persona into the detail pane.
func (model *Model) syncDetailPane() {
	if len(model.rows) == 0 || model.cursor >= len(model.rows) {
		model.detailPane.Clear()
		return
	}
	row := model.rows[model.cursor]
	model.selectedOrdinal = row.Ordinal
	model.detailPane.SetContent(row.Persona, row.Ordinal)
}

// contentStartY returns the Y coordinate where the content area
// begins. The top chrome line is always exactly 1 row: either the
// header (normal) or the filter bar (when the filter is active).
func (model Model) contentStartY() int {
	return 1
}

// visibleHeight returns the number of list rows that fit between the
// chrome elements: the top line, the bottom separator, and the help
// bar.
func (model Model) visibleHeight() int {
	return model.height - model.contentStartY() - 2
}

// listWidth returns the width of the list pane in columns.
func (model Model) listWidth() int {
	return int(float64(model.width) * listPaneRatio)
}

// updatePaneSizes recomputes the detail pane dimensions after a
// resize.
func (model *Model) updatePaneSizes() {
	// 1 column for the vertical divider between panes.
	detailWidth := model.width - model.listWidth() - 1
	if detailWidth < 10 {
		detailWidth = 10
	}
	model.detailPane.SetSize(detailWidth, model.visibleHeight())
}

// ensureCursorVisible adjusts scrollOffset so the cursor is within
// the visible window.
func (model *Model) ensureCursorVisible() {
	visible := model.visibleHeight()
	if visible <= 0 {
		return
	}

	// Clamp scrollOffset so we never scroll past the end of the
	// list. This handles filter changes where the new list is shorter
	// than the old offset.
	maxOffset := len(model.rows) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if model.scrollOffset > maxOffset {
		model.scrollOffset = maxOffset
	}

	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+visible {
		model.scrollOffset = model.cursor - visible + 1
	}
}

// View implements tea.Model. Renders the full TUI frame with two
// panes.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	if len(model.rows) == 0 && model.filter.Input == "" {
		return model.renderEmpty()
	}

	var sections []string

	// Top chrome line: either the header or the filter bar. The
	// filter bar replaces the header so the layout doesn't shift.
	filterView := model.filter.View(model.theme, model.width)
	if filterView != "" {
		sections = append(sections, filterView)
	} else {
		sections = append(sections, model.renderHeader())
	}

	// Two-pane content area with vertical divider.
	listView := model.renderListPane()
	divider := model.renderDivider()
	detailView := model.detailPane.View(model.focusRegion == FocusDetail)
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, listView, divider, detailView))

	// Bottom separator.
	separator := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.width))
	sections = append(sections, separator)

	sections = append(sections, model.renderHelp())

	return strings.Join(sections, "\n")
}

// renderHeader renders the top chrome line: the title on the left and
// roster counts on the right, joined by a separator rule.
func (model Model) renderHeader() string {
	separatorStyle := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(model.theme.HeaderForeground)
	statsStyle := lipgloss.NewStyle().
		Foreground(model.theme.FaintText)

	sep := separatorStyle.Render("─")
	title := "Persona Roster"

	leftPortion := sep + sep + sep + " " + titleStyle.Render(title) + " "
	leftWidth := 3 + 1 + lipgloss.Width(title) + 1

	statsText := fmt.Sprintf("%d personas  %d tensions  %d rotations",
		len(model.roster.Personas), len(model.roster.Tensions), len(model.roster.RotationHistory))
	rightPortion := " " + statsStyle.Render(statsText) + " " + sep
	rightWidth := 1 + lipgloss.Width(statsText) + 1 + 1

	fillCount := model.width - leftWidth - rightWidth
	if fillCount < 1 {
		fillCount = 1
	}
	fill := ""
	for range fillCount {
		fill += sep
	}

	return leftPortion + fill + rightPortion
}

// renderListPane renders the persona list with its scrollbar.
func (model Model) renderListPane() string {
	listWidth := model.listWidth()

	// Always reserve 1 column for the scrollbar so content stays at
	// a fixed position regardless of focus state.
	focused := model.focusRegion == FocusList
	rowWidth := listWidth - 1

	renderer := NewListRenderer(model.theme, rowWidth)

	visible := model.visibleHeight()
	if visible < 0 {
		visible = 0
	}

	var rows []string
	for index := model.scrollOffset; index < model.scrollOffset+visible && index < len(model.rows); index++ {
		rows = append(rows, renderer.RenderRow(model.rows[index], index == model.cursor))
	}

	// Pad empty rows.
	rendered := len(rows)
	if rendered < visible {
		emptyStyle := lipgloss.NewStyle().Width(rowWidth)
		for padding := rendered; padding < visible; padding++ {
			rows = append(rows, emptyStyle.Render(""))
		}
	}

	scrollbar := renderScrollbar(
		model.theme, visible,
		len(model.rows), visible, model.scrollOffset,
		focused,
	)

	contentStyle := lipgloss.NewStyle().
		Width(rowWidth).
		Height(visible)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		contentStyle.Render(strings.Join(rows, "\n")),
		scrollbar,
	)
}

// renderDivider renders the single-column vertical divider between
// the list and detail panes.
func (model Model) renderDivider() string {
	visible := model.visibleHeight()
	if visible < 0 {
		visible = 0
	}

	dividerStyle := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor)

	lines := make([]string, visible)
	for index := range lines {
		lines[index] = "│"
	}

	return dividerStyle.Width(1).Height(visible).Render(strings.Join(lines, "\n"))
}

// renderEmpty renders the empty state for a roster with no personas.
func (model Model) renderEmpty() string {
	messageStyle := lipgloss.NewStyle().
		Foreground(model.theme.FaintText)

	message := "Roster has no personas.\n\nAdd one with: roster add-persona --spec '{\"name\": \"...\"}'"

	return lipgloss.Place(
		model.width, model.height,
		lipgloss.Center, lipgloss.Center,
		messageStyle.Render(message),
	)
}

// renderHelp renders the bottom help bar with key hints and position.
func (model Model) renderHelp() string {
	style := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	focusIndicator := "LIST"
	switch model.focusRegion {
	case FocusDetail:
		focusIndicator = "DETAIL"
	case FocusFilter:
		focusIndicator = "FILTER"
	}

	help := fmt.Sprintf(" [%s] q quit  ↑↓ navigate  Tab focus  / filter", focusIndicator)

	if len(model.rows) > model.visibleHeight() {
		position := ""
		if model.scrollOffset == 0 {
			position = "top"
		} else if model.scrollOffset+model.visibleHeight() >= len(model.rows) {
			position = "bottom"
		} else {
			percent := float64(model.scrollOffset) / float64(len(model.rows)-model.visibleHeight()) * 100
			position = fmt.Sprintf("%d%%", int(percent))
		}
		help += fmt.Sprintf("  [%s] %d/%d", position, model.cursor+1, len(model.rows))
	} else if len(model.rows) > 0 {
		help += fmt.Sprintf("  %d/%d", model.cursor+1, len(model.rows))
	}

	return style.Render(help)
}
