// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// MaxSecretSize bounds how much ReadFromPath and ReadTrimmed will read.
// Secrets are keys, tokens and passwords; anything larger is almost
// certainly the wrong file.
const MaxSecretSize = 64 * 1024

// ReadFromPath reads a secret from a file path, or from stdin if path is
// "-". See ReadTrimmed for the trimming rules. The returned buffer must
// be closed by the caller.
func ReadFromPath(path string) (*Buffer, error) {
	if path == "-" {
		buffer, err := ReadTrimmed(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading secret from stdin: %w", err)
		}
		return buffer, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buffer, err := ReadTrimmed(file)
	if err != nil {
		return nil, fmt.Errorf("reading secret from %s: %w", path, err)
	}
	return buffer, nil
}

// ReadTrimmed reads up to MaxSecretSize bytes from reader into locked
// memory and returns them with leading and trailing whitespace removed
// (files written by editors and shells end in a newline). The data never
// passes through a heap buffer. Returns an error if nothing but
// whitespace was read.
func ReadTrimmed(reader io.Reader) (*Buffer, error) {
	raw, err := NewBufferFromReader(reader, MaxSecretSize)
	if err != nil {
		return nil, err
	}
	defer raw.Close()

	// TrimSpace returns a subslice of the locked region.
	trimmed := bytes.TrimSpace(raw.Bytes())
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("secret is empty")
	}

	buffer, err := NewBuffer(len(trimmed))
	if err != nil {
		return nil, err
	}
	copy(buffer.Bytes(), trimmed)
	return buffer, nil
}
