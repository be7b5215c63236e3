// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// maxSuggestionDistance bounds how far a typo can be from a real name
// before we stop suggesting it. Three edits covers transpositions and
// short truncations without matching unrelated names.
const maxSuggestionDistance = 3

// suggestCommand returns the closest subcommand name to input, or ""
// when nothing is within the suggestion distance.
func suggestCommand(input string, subcommands []*Command) string {
	best := ""
	bestDistance := maxSuggestionDistance + 1

	for _, sub := range subcommands {
		distance := levenshtein(input, sub.Name)
		if distance < bestDistance {
			best = sub.Name
			bestDistance = distance
		}
	}
	return best
}

// suggestFlag finds the first unregistered flag in args and returns
// the closest registered flag name (with leading dashes), or "".
// Single-dash spellings of long flags are treated the same as
// double-dash ones, since that is a common way to mistype them.
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name := strings.TrimLeft(arg, "-")
		// Strip an attached =value.
		name, _, _ = strings.Cut(name, "=")
		if name == "" || flagSet.Lookup(name) != nil {
			continue
		}
		if len(name) == 1 && flagSet.ShorthandLookup(name) != nil {
			continue
		}

		best := ""
		bestDistance := maxSuggestionDistance + 1
		flagSet.VisitAll(func(f *pflag.Flag) {
			distance := levenshtein(name, f.Name)
			if distance < bestDistance {
				best = f.Name
				bestDistance = distance
			}
		})
		if best != "" {
			return "--" + best
		}
	}
	return ""
}

// levenshtein computes the edit distance between two strings using
// the two-row dynamic programming formulation.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	previous := make([]int, len(b)+1)
	current := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		previous[j] = j
	}

	for i := 1; i <= len(a); i++ {
		current[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			current[j] = min(previous[j]+1, current[j-1]+1, previous[j-1]+cost)
		}
		previous, current = current, previous
	}
	return previous[len(b)]
}
