// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Command safekey compares, seals and opens secrets without copying them
// into ordinary process memory.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(); err != nil {
		// compare reports "not equal" as an ExitError with no message.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &application{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	return app.root().Execute(os.Args[1:])
}
