// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package rosterui

import (
	"sort"
	"strings"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Slab sizes match fzf's own per-worker scratch allocations.
const (
	slabChars = 100 * 1024
	slabInts  = 2048
)

// FuzzyResult is the outcome of matching a pattern against a text:
// the fzf score and the ascending rune positions of the matched
// characters. A zero Score means no match.
type FuzzyResult struct {
	Score     int
	Positions []int
}

// FuzzyMatch runs fzf's FuzzyMatchV2 algorithm against a single text.
// Matching is case-insensitive: both sides are lowercased before the
// algorithm runs, so the returned positions index into the original
// text's runes unchanged. The slab is optional scratch space shared
// across calls; pass nil for one-shot matches.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 || text == "" {
		return FuzzyResult{}
	}

	lowered := make([]rune, len(pattern))
	for index, r := range pattern {
		lowered[index] = unicode.ToLower(r)
	}

	chars := util.ToChars([]byte(strings.ToLower(text)))
	result, positions := algo.FuzzyMatchV2(false, false, true, &chars, lowered, true, slab)
	if result.Start < 0 {
		return FuzzyResult{}
	}

	matched := FuzzyResult{Score: result.Score}
	if positions != nil {
		matched.Positions = append(matched.Positions, *positions...)
		// fzf reports positions back to front; sort so callers can
		// walk the text in display order.
		sort.Ints(matched.Positions)
	}
	return matched
}
