// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError carries a specific process exit code up through the error
// chain. Commands return it when they have already written their own
// output and only need main to set the exit status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the process exit code. main checks for this method
// via an interface assertion rather than a concrete type, so other
// error types can carry codes too.
func (e *ExitError) ExitCode() int {
	return e.Code
}
