// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package rosterui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/util"

	"github.com/zenchantlive/Asset-Hatch/lib/roster"
)

// FilterModel implements fzf-style fuzzy matching across the
// searchable persona fields: name, role, and mandate. The filter
// narrows the list client-side; scores order the results best-first.
type FilterModel struct {
	// Input is the current filter query text.
	Input string

	// Active is true when the filter input has keyboard focus
	// (the user pressed / to start typing).
	Active bool
}

// FilterResult pairs a persona with its match score and the matched
// rune positions in the persona's name (for highlight rendering).
// Matches against fields other than the name contribute score only.
type FilterResult struct {
	Persona       roster.Persona
	Ordinal       int // 1-based position in the unfiltered roster.
	Score         int
	NamePositions []int
}

// ApplyFuzzy scores every persona against the filter text and returns
// the matches sorted best-first (stable, so roster order breaks ties).
// An empty filter returns all personas in roster order with zero
// scores.
func (filter *FilterModel) ApplyFuzzy(personas []roster.Persona) []FilterResult {
	results := make([]FilterResult, 0, len(personas))

	if filter.Input == "" {
		for index, persona := range personas {
			results = append(results, FilterResult{
				Persona: persona,
				Ordinal: index + 1,
			})
		}
		return results
	}

	pattern := []rune(filter.Input)
	slab := util.MakeSlab(slabChars, slabInts)

	for index, persona := range personas {
		nameMatch := FuzzyMatch(persona.Name(), pattern, slab)
		best := nameMatch.Score
		for _, field := range []string{"role", "mandate"} {
			text, ok := persona[field].(string)
			if !ok || text == "" {
				continue
			}
			if match := FuzzyMatch(text, pattern, slab); match.Score > best {
				best = match.Score
			}
		}
		if best <= 0 {
			continue
		}
		results = append(results, FilterResult{
			Persona:       persona,
			Ordinal:       index + 1,
			Score:         best,
			NamePositions: nameMatch.Positions,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// HandleRune processes a character typed while the filter is active.
// Returns true if the input changed.
func (filter *FilterModel) HandleRune(character rune) bool {
	filter.Input += string(character)
	return true
}

// HandleBackspace removes the last character from the filter input.
// Returns true if the input changed.
func (filter *FilterModel) HandleBackspace() bool {
	if len(filter.Input) == 0 {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear resets the filter text. Focus and the Active flag are managed
// by the model, which owns the filter mode transitions.
func (filter *FilterModel) Clear() {
	filter.Input = ""
}

// View renders the filter bar. When active, shows the input with a
// cursor. When inactive with text, shows the filter text. When
// inactive with no text, returns empty string (hidden).
func (filter *FilterModel) View(theme Theme, width int) string {
	if !filter.Active && filter.Input == "" {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(theme.NormalText).
		Width(width)

	if filter.Active {
		cursor := lipgloss.NewStyle().
			Foreground(theme.HeaderForeground).
			Bold(true).
			Render("▎")
		return style.Render(" / " + filter.Input + cursor)
	}

	// Inactive but has text — show the filter as a subtle indicator.
	dimStyle := lipgloss.NewStyle().
		Foreground(theme.FaintText).
		Width(width)
	return dimStyle.Render(" filter: " + filter.Input)
}
