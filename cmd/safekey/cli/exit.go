// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError signals a non-zero exit code without printing an error
// message. `safekey compare` returns one for "the secrets differ": that
// is a result, not a failure, and there is nothing more to say about it
// without saying something about the secrets.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code. main checks for this method to tell
// "handled non-zero exit" apart from an error to display.
func (e *ExitError) ExitCode() int {
	return e.Code
}
