// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/safekey/cmd/safekey/cli"
	"github.com/bureau-foundation/safekey/lib/secret"
)

func (a *application) compareCommand() *cli.Command {
	var (
		global globalOptions
		length int
		raw    bool
	)

	return &cli.Command{
		Name:    "compare",
		Summary: "Compare two secrets in constant time",
		Description: `Compare two secrets without revealing where they differ.

Exits 0 when the secrets are equal and 1 when they differ. Nothing about
either secret is printed. With --length both secrets are loaded into
fixed-size keys and must be exactly that many bytes; without it they may
be any size, and secrets of different sizes are unequal.`,
		Usage: "safekey compare [flags] <a> <b>",
		Examples: []cli.Example{
			{
				Description: "Check a 32-byte key against the deployed copy",
				Command:     "safekey compare --length 32 --raw new.key /etc/app/master.key",
			},
			{
				Description: "Compare a token on stdin with a file",
				Command:     "vault read -field=token secret/ci | safekey compare - token.txt",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("compare", pflag.ContinueOnError)
			global.register(flagSet)
			flagSet.IntVar(&length, "length", 0, "required secret length in bytes: 16, 24, 32, 48 or 64")
			flagSet.BoolVar(&raw, "raw", false, "compare the bytes as read, without trimming whitespace")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("compare requires exactly two secrets, got %d arguments", len(args))
			}
			if args[0] == "-" && args[1] == "-" {
				return fmt.Errorf("only one secret can be read from stdin")
			}

			_, logger, err := a.setup(&global, "compare")
			if err != nil {
				return err
			}

			first, err := a.readSecret(args[0], raw)
			if err != nil {
				return err
			}
			defer first.Close()

			second, err := a.readSecret(args[1], raw)
			if err != nil {
				return err
			}
			defer second.Close()

			equal, err := compareSecrets(first, second, length)
			if err != nil {
				return err
			}

			logger.Debug("compared secrets", "fixed_length", length, "equal", equal)
			if !equal {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

// compareSecrets compares two buffers in constant time. A non-zero length
// selects the fixed-size key path.
func compareSecrets(first, second *secret.Buffer, length int) (bool, error) {
	switch length {
	case 0:
		return first.Equal(second), nil
	case 16:
		return compareFixed[secret.Len16](first, second)
	case 24:
		return compareFixed[secret.Len24](first, second)
	case 32:
		return compareFixed[secret.Len32](first, second)
	case 48:
		return compareFixed[secret.Len48](first, second)
	case 64:
		return compareFixed[secret.Len64](first, second)
	default:
		return false, fmt.Errorf("unsupported --length %d (valid: 16, 24, 32, 48, 64)", length)
	}
}

func compareFixed[N secret.Length](first, second *secret.Buffer) (bool, error) {
	a, err := secret.ArrayFromBuffer[N](first)
	if err != nil {
		return false, fmt.Errorf("first secret: %w", err)
	}
	defer a.Close()

	b, err := secret.ArrayFromBuffer[N](second)
	if err != nil {
		return false, fmt.Errorf("second secret: %w", err)
	}
	defer b.Close()

	return a.ConstantTimeEqual(b), nil
}
