// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/safekey/cmd/safekey/cli"
	"github.com/bureau-foundation/safekey/lib/config"
	"github.com/bureau-foundation/safekey/lib/messageformat"
	"github.com/bureau-foundation/safekey/lib/secret"
	"github.com/bureau-foundation/safekey/lib/sealed"
)

// maxEnvelopeSize bounds envelope input. A sealed MaxSecretSize secret in
// base64 inside JSON stays well below it.
const maxEnvelopeSize = 1 << 20

// application carries the standard streams so tests can run commands
// in-process.
type application struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (a *application) root() *cli.Command {
	return &cli.Command{
		Name:        "safekey",
		Summary:     "Compare, seal and open secrets",
		Description: "safekey handles secrets in locked memory that is wiped on release.\nSecrets are compared in constant time and sealed with age.",
		Output:      a.stderr,
		Subcommands: []*cli.Command{
			a.compareCommand(),
			a.sealCommand(),
			a.openCommand(),
			a.convertCommand(),
			a.versionCommand(),
		},
	}
}

// globalOptions are the flags every command accepts.
type globalOptions struct {
	configPath string
	logLevel   string
}

func (g *globalOptions) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&g.configPath, "config", "", "config file (default: $SAFEKEY_CONFIG, else built-in defaults)")
	flagSet.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
}

// setup loads and validates the configuration and builds the command's
// logger.
func (a *application) setup(global *globalOptions, command string) (*config.Config, *slog.Logger, error) {
	var cfg *config.Config
	var err error
	if global.configPath != "" {
		cfg, err = config.LoadFile(global.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}

	if global.logLevel != "" {
		cfg.Log.Level = global.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := cli.NewCommandLogger(a.stderr, cfg.LogLevel(), cfg.Log.Format).With("command", command)
	return cfg, logger, nil
}

// readSecret reads a secret from path, or from stdin for "-". Surrounding
// whitespace is trimmed unless raw is set.
func (a *application) readSecret(path string, raw bool) (*secret.Buffer, error) {
	if path != "-" && !raw {
		return secret.ReadFromPath(path)
	}

	var reader io.Reader = a.stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		reader = file
	}

	var buffer *secret.Buffer
	var err error
	if raw {
		buffer, err = secret.NewBufferFromReader(reader, secret.MaxSecretSize)
	} else {
		buffer, err = secret.ReadTrimmed(reader)
	}
	if err != nil {
		return nil, fmt.Errorf("reading secret from %s: %w", displayPath(path), err)
	}
	return buffer, nil
}

// readEnvelope decodes an envelope in format from path, or from stdin for
// "-". JSON input may contain comments and trailing commas.
func (a *application) readEnvelope(path string, format messageformat.Format) (*sealed.Envelope, error) {
	var reader io.Reader = a.stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		reader = file
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxEnvelopeSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading envelope from %s: %w", displayPath(path), err)
	}
	if len(data) > maxEnvelopeSize {
		return nil, fmt.Errorf("envelope in %s exceeds %d bytes", displayPath(path), maxEnvelopeSize)
	}
	if format == messageformat.JSON {
		data = jsonc.ToJSON(data)
	}

	var envelope sealed.Envelope
	if err := messageformat.Decode(format, data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding %s envelope from %s: %w", format, displayPath(path), err)
	}
	return &envelope, nil
}

// writeEncoded writes data produced by messageformat.Encode, ending text
// formats with a newline.
func (a *application) writeEncoded(format messageformat.Format, data []byte) error {
	if format == messageformat.JSON || format == messageformat.Base64 {
		data = append(bytes.Clone(data), '\n')
	}
	_, err := a.stdout.Write(data)
	return err
}

func displayPath(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}

// inputPath returns the single optional positional argument, defaulting
// to stdin.
func inputPath(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "-", nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("expected at most one input file, got %d arguments", len(args))
	}
}
