// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/safekey/cmd/safekey/cli"
	"github.com/bureau-foundation/safekey/lib/messageformat"
	"github.com/bureau-foundation/safekey/lib/sealed"
)

func (a *application) openCommand() *cli.Command {
	var (
		global       globalOptions
		identityPath string
		format       string
	)

	return &cli.Command{
		Name:    "open",
		Summary: "Open a sealed envelope",
		Description: `Decrypt a sealed envelope with an age identity and write the secret
to stdout.

The identity file is read into locked memory; it is the output of
age-keygen and may contain comments. The decrypted secret goes from the
age stream into locked memory and from there to stdout, and must be
exactly the length the envelope records.`,
		Usage: "safekey open [--identity FILE] [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Open an envelope into a tmpfs file",
				Command:     "safekey open --identity /etc/safekey/identity.txt token.sealed.json > /run/app/token",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("open", pflag.ContinueOnError)
			global.register(flagSet)
			flagSet.StringVarP(&identityPath, "identity", "i", "", "age identity file (default: open.identity_file)")
			flagSet.StringVar(&format, "format", "", "envelope format: binary, json, base64, cbor (default: open.format)")
			return flagSet
		},
		Run: func(args []string) error {
			path, err := inputPath(args)
			if err != nil {
				return err
			}

			cfg, logger, err := a.setup(&global, "open")
			if err != nil {
				return err
			}

			if format == "" {
				format = cfg.Open.Format
			}
			inputFormat, err := messageformat.ParseFormat(format)
			if err != nil {
				return err
			}
			if identityPath == "" {
				identityPath = cfg.Open.IdentityFile
			}
			if identityPath == "-" && path == "-" {
				return fmt.Errorf("the identity and the envelope cannot both be read from stdin")
			}

			envelope, err := a.readEnvelope(path, inputFormat)
			if err != nil {
				return err
			}

			identity, err := a.readSecret(identityPath, false)
			if err != nil {
				return fmt.Errorf("reading identity: %w", err)
			}
			defer identity.Close()

			plaintext, err := sealed.OpenEnvelope(envelope, identity)
			if err != nil {
				return err
			}
			defer plaintext.Close()

			if _, err := plaintext.WriteTo(a.stdout); err != nil {
				return fmt.Errorf("writing secret: %w", err)
			}

			logger.Info("opened envelope", "label", envelope.Label, "length", envelope.Length)
			return nil
		},
	}
}
