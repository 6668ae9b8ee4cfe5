// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/safekey/cmd/safekey/cli"
	"github.com/bureau-foundation/safekey/lib/codec"
	"github.com/bureau-foundation/safekey/lib/messageformat"
)

func (a *application) convertCommand() *cli.Command {
	var (
		global   globalOptions
		from     string
		to       string
		diagnose bool
	)

	return &cli.Command{
		Name:    "convert",
		Summary: "Re-encode a sealed envelope",
		Description: `Read a sealed envelope in one format and write it in another. The
ciphertext is carried over unchanged; no key is needed.

JSON input may contain comments and trailing commas. --diagnose prints
the CBOR diagnostic notation (RFC 8949 section 8) of the envelope instead
of encoded bytes.`,
		Usage: "safekey convert --from FORMAT --to FORMAT [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Shrink a JSON envelope to CBOR",
				Command:     "safekey convert --from json --to cbor token.sealed.json > token.sealed.cbor",
			},
			{
				Description: "Inspect a binary envelope",
				Command:     "safekey convert --from base64 --diagnose < token.sealed.b64",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("convert", pflag.ContinueOnError)
			global.register(flagSet)
			flagSet.StringVar(&from, "from", "json", "input format: binary, json, base64, cbor")
			flagSet.StringVar(&to, "to", "json", "output format: binary, json, base64, cbor")
			flagSet.BoolVar(&diagnose, "diagnose", false, "print CBOR diagnostic notation instead of encoded output")
			return flagSet
		},
		Run: func(args []string) error {
			path, err := inputPath(args)
			if err != nil {
				return err
			}

			_, logger, err := a.setup(&global, "convert")
			if err != nil {
				return err
			}

			inputFormat, err := messageformat.ParseFormat(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			outputFormat, err := messageformat.ParseFormat(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}

			envelope, err := a.readEnvelope(path, inputFormat)
			if err != nil {
				return err
			}

			if diagnose {
				encoded, err := messageformat.ToCBOR(envelope)
				if err != nil {
					return err
				}
				notation, err := codec.Diagnose(encoded)
				if err != nil {
					return fmt.Errorf("diagnosing envelope: %w", err)
				}
				_, err = fmt.Fprintln(a.stdout, notation)
				return err
			}

			encoded, err := messageformat.Encode(outputFormat, envelope)
			if err != nil {
				return err
			}
			if err := a.writeEncoded(outputFormat, encoded); err != nil {
				return err
			}

			logger.Debug("converted envelope", "label", envelope.Label, "from", inputFormat, "to", outputFormat)
			return nil
		},
	}
}
