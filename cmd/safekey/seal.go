// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/safekey/cmd/safekey/cli"
	"github.com/bureau-foundation/safekey/lib/messageformat"
	"github.com/bureau-foundation/safekey/lib/sealed"
)

func (a *application) sealCommand() *cli.Command {
	var (
		global     globalOptions
		recipients []string
		label      string
		format     string
		raw        bool
	)

	return &cli.Command{
		Name:    "seal",
		Summary: "Seal a secret to age recipients",
		Description: `Encrypt a secret to one or more age recipients and write the sealed
envelope to stdout.

Recipients from --recipient are combined with seal.recipients from the
config file. The envelope records a label, the secret's length and the
recipients; it never contains plaintext. The label defaults to the
input file's base name.`,
		Usage: "safekey seal --recipient KEY [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Seal an API token for a host",
				Command:     "safekey seal --recipient age1... --label ci/deploy token.txt > token.sealed.json",
			},
			{
				Description: "Seal a binary key from stdin as CBOR",
				Command:     "safekey seal --recipient age1... --raw --format cbor < master.key",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("seal", pflag.ContinueOnError)
			global.register(flagSet)
			flagSet.StringArrayVarP(&recipients, "recipient", "r", nil, "age public key to seal to (repeatable)")
			flagSet.StringVar(&label, "label", "", "envelope label (default: input file name)")
			flagSet.StringVar(&format, "format", "", "envelope format: binary, json, base64, cbor (default: seal.format)")
			flagSet.BoolVar(&raw, "raw", false, "seal the bytes as read, without trimming whitespace")
			return flagSet
		},
		Run: func(args []string) error {
			path, err := inputPath(args)
			if err != nil {
				return err
			}

			cfg, logger, err := a.setup(&global, "seal")
			if err != nil {
				return err
			}

			if format == "" {
				format = cfg.Seal.Format
			}
			outputFormat, err := messageformat.ParseFormat(format)
			if err != nil {
				return err
			}

			allRecipients := mergeRecipients(recipients, cfg.Seal.Recipients)
			if len(allRecipients) == 0 {
				return fmt.Errorf("no recipients: pass --recipient or set seal.recipients in the config file")
			}
			if label == "" && path != "-" {
				label = filepath.Base(path)
			}

			plaintext, err := a.readSecret(path, raw)
			if err != nil {
				return err
			}
			defer plaintext.Close()

			envelope, err := sealed.SealEnvelope(label, plaintext.Bytes(), allRecipients)
			if err != nil {
				return err
			}

			encoded, err := messageformat.Encode(outputFormat, envelope)
			if err != nil {
				return err
			}
			if err := a.writeEncoded(outputFormat, encoded); err != nil {
				return err
			}

			logger.Info("sealed secret",
				"label", envelope.Label,
				"length", envelope.Length,
				"recipients", len(envelope.Recipients),
				"format", outputFormat,
			)
			return nil
		},
	}
}

// mergeRecipients returns the flag recipients followed by the configured
// ones, without duplicates.
func mergeRecipients(fromFlags, fromConfig []string) []string {
	var merged []string
	for _, recipient := range slices.Concat(fromFlags, fromConfig) {
		if !slices.Contains(merged, recipient) {
			merged = append(merged, recipient)
		}
	}
	return merged
}
