// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "safekey",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(args []string) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "seal",
				Run: func(args []string) error {
					called = "seal"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"seal"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "seal" {
		t.Errorf("dispatched to %q, want %q", called, "seal")
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var recipients []string
	var label string
	var file string

	command := &Command{
		Name: "seal",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("seal", pflag.ContinueOnError)
			flagSet.StringArrayVar(&recipients, "recipient", nil, "age recipient")
			flagSet.StringVar(&label, "label", "", "envelope label")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				file = args[0]
			}
			return nil
		},
	}

	args := []string{"--recipient", "age1a", "--recipient=age1b", "--label", "db", "key.txt"}
	if err := command.Execute(args); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if strings.Join(recipients, ",") != "age1a,age1b" {
		t.Errorf("recipients = %v", recipients)
	}
	if label != "db" {
		t.Errorf("label = %q", label)
	}
	if file != "key.txt" {
		t.Errorf("file = %q", file)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "open",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("open", pflag.ContinueOnError)
			flagSet.String("identity", "", "identity file")
			flagSet.String("format", "json", "envelope format")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--identiy", "key.txt"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --identity") {
		t.Errorf("error = %q, want suggestion for '--identity'", errStr)
	}
	if !strings.Contains(errStr, "identiy") {
		t.Errorf("error = %q, should mention the bad flag", errStr)
	}
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "open",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("open", pflag.ContinueOnError)
			flagSet.String("identity", "", "identity file")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "safekey",
		Subcommands: []*Command{
			{Name: "compare"},
			{Name: "convert"},
			{Name: "version"},
		},
	}

	err := root.Execute([]string{"comapre"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), `did you mean "compare"`) {
		t.Errorf("error = %q, want suggestion for 'compare'", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandNoSuggestion(t *testing.T) {
	root := &Command{
		Name: "safekey",
		Subcommands: []*Command{
			{Name: "seal"},
			{Name: "open"},
		},
	}

	err := root.Execute([]string{"zzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not contain suggestion for distant input", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			var output bytes.Buffer
			root := &Command{
				Name:    "safekey",
				Summary: "Handle secrets without leaking them",
				Output:  &output,
				Subcommands: []*Command{
					{Name: "seal", Summary: "Seal a secret"},
				},
			}

			if err := root.Execute([]string{helpArg}); err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
			if !strings.Contains(output.String(), "Seal a secret") {
				t.Errorf("help output = %q", output.String())
			}
		})
	}
}

func TestCommand_Execute_SubcommandInheritsOutput(t *testing.T) {
	var output bytes.Buffer
	root := &Command{
		Name:   "safekey",
		Output: &output,
		Subcommands: []*Command{
			{Name: "open", Summary: "Open a sealed envelope", Run: func([]string) error { return nil }},
		},
	}

	if err := root.Execute([]string{"open", "--help"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(output.String(), "safekey open [flags]") {
		t.Errorf("help output = %q", output.String())
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	var output bytes.Buffer
	root := &Command{
		Name:   "safekey",
		Output: &output,
		Subcommands: []*Command{
			{Name: "seal", Summary: "Seal a secret"},
		},
	}

	err := root.Execute([]string{})
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing subcommand")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want 'subcommand required'", err.Error())
	}
	if !strings.Contains(output.String(), "Commands:") {
		t.Errorf("help not printed: %q", output.String())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "safekey",
		Description: "Compare, seal and open secrets.",
		Subcommands: []*Command{
			{Name: "compare", Summary: "Compare two secrets in constant time"},
			{Name: "seal", Summary: "Seal a secret to age recipients"},
			{Name: "version", Summary: "Print version information"},
		},
		Examples: []Example{
			{
				Description: "Check a key against the deployed copy",
				Command:     "safekey compare --length 32 new.key /etc/app/key",
			},
			{
				Command: "safekey seal --recipient age1... token.txt",
			},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"Compare, seal and open secrets.",
		"Usage:",
		"safekey <command> [flags]",
		"Commands:",
		"compare",
		"Compare two secrets in constant time",
		"Examples:",
		"# Check a key against the deployed copy",
		"safekey compare --length 32",
		"safekey seal --recipient",
		"Run 'safekey <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_PrintHelp_WithFlags(t *testing.T) {
	command := &Command{
		Name:    "open",
		Summary: "Open a sealed envelope",
		Usage:   "safekey open --identity FILE [flags] [file]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("open", pflag.ContinueOnError)
			flagSet.String("identity", "", "age identity file")
			flagSet.String("format", "json", "envelope format")
			return flagSet
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"safekey open --identity FILE [flags] [file]",
		"Flags:",
		"--identity",
		"--format",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "safekey"}
	seal := &Command{Name: "seal", parent: root}

	if got := root.fullName(); got != "safekey" {
		t.Errorf("root.fullName() = %q, want %q", got, "safekey")
	}
	if got := seal.fullName(); got != "safekey seal" {
		t.Errorf("seal.fullName() = %q, want %q", got, "safekey seal")
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"seal", "", 4},
		{"seal", "seal", 0},
		{"comapre", "compare", 2},
		{"open", "opne", 2},
		{"convert", "conver", 1},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}
