// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"context"
	"errors"
	"fmt"
	"syscall"
)

// ExecuteFixes runs the fix action for each fixable failure, updating
// results in place. In dry-run mode, no fixes are executed and an empty
// Outcome is returned.
//
// Fix errors wrapping EPERM or EACCES set Outcome.PermissionDenied;
// other fix errors are appended to the check's message so the operator
// sees what went wrong in place.
func ExecuteFixes(ctx context.Context, results []Result, dryRun bool) Outcome {
	if dryRun {
		return Outcome{}
	}

	var outcome Outcome
	for i := range results {
		if results[i].Status != StatusFail || results[i].fix == nil {
			continue
		}
		if err := results[i].fix(ctx); err != nil {
			if isPermissionDenied(err) {
				outcome.PermissionDenied = true
				results[i].Message = fmt.Sprintf("%s (insufficient permissions)", results[i].Message)
			} else {
				results[i].Message = fmt.Sprintf("%s (fix failed: %v)", results[i].Message, err)
			}
		} else {
			results[i].Status = StatusFixed
			outcome.FixedCount++
		}
	}

	return outcome
}

// isPermissionDenied returns true if err wraps EPERM or EACCES.
func isPermissionDenied(err error) bool {
	return errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.EACCES)
}

// BuildJSON builds the JSON output struct from results and outcome
// metadata.
func BuildJSON(results []Result, dryRun bool, outcome Outcome) JSONOutput {
	anyFailed := false
	for _, result := range results {
		if result.Status == StatusFail {
			anyFailed = true
			break
		}
	}
	return JSONOutput{
		Checks:           results,
		OK:               !anyFailed,
		DryRun:           dryRun,
		PermissionDenied: outcome.PermissionDenied,
	}
}

// MarkRepaired updates results that now pass but were failing in a
// previous iteration — these were repaired by a fix even if they
// didn't directly carry the fix closure. Call this after re-running
// checks with the set of names that failed before fixes were applied.
func MarkRepaired(results []Result, repairedNames map[string]bool) {
	for i := range results {
		if results[i].Status == StatusPass && repairedNames[results[i].Name] {
			results[i].Status = StatusFixed
		}
	}
}
