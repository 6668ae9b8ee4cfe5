// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates the structured logger for a command. format is
// "text", "json", or "auto": auto uses slog.TextHandler when output is a
// terminal and slog.JSONHandler when it is piped or redirected.
//
// Callers scope the logger with command context via With():
//
//	logger := cli.NewCommandLogger(os.Stderr, slog.LevelInfo, "auto").With(
//	    "command", "seal",
//	    "label", label,
//	)
//
// Secret types log as redacted values, so passing one as an attribute is
// safe, but there is rarely a reason to.
func NewCommandLogger(output io.Writer, level slog.Leveler, format string) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}

	useText := format == "text"
	if format == "auto" {
		if file, ok := output.(*os.File); ok {
			useText = term.IsTerminal(int(file.Fd()))
		}
	}

	var handler slog.Handler
	if useText {
		handler = slog.NewTextHandler(output, options)
	} else {
		handler = slog.NewJSONHandler(output, options)
	}
	return slog.New(handler)
}
