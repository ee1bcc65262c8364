// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package analyze is the analyze subcommand to resolve recorded
// compiler command lines into code-quality settings.
package analyze

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/maruel/subcommands"
	"golang.org/x/sync/errgroup"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/compilecheck/o11y/clog"
	"go.chromium.org/infra/build/compilecheck/toolsupport/msvcutil"
	"go.chromium.org/infra/build/compilecheck/ui"
)

const usage = `resolve recorded compiler command lines

 $ compilecheck analyze [-format text|json] [-warn N] '<cmdline>'...
 $ compilecheck analyze -f cmdlines.txt
 $ compilecheck analyze -compdb compile_commands.json

Each command line is resolved to the code-quality settings it selects:
warning level, warnings-as-errors (/WX), optimization, C runtime
linkage, duplicate string elimination (/GF), whole program optimization
(/GL) and the warning numbers that ended up explicitly disabled.
With -warn N, each result also reports whether warning N was
explicitly disabled for that compilation unit.
`

// Cmd returns the Command for the `analyze` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "analyze [-format text|json] [-warn N] [<cmdline>...]",
		ShortDesc: "resolve recorded compiler command lines",
		LongDesc:  usage,
		CommandRun: func() subcommands.CommandRun {
			c := &run{}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase

	format       string
	warn         int
	fname        string
	compdb       string
	invocationID string
}

func (c *run) init() {
	c.Flags.StringVar(&c.format, "format", "text", "output format. text or json")
	c.Flags.IntVar(&c.warn, "warn", -1, "also report whether this warning number is explicitly disabled")
	c.Flags.StringVar(&c.fname, "f", "", "file with one recorded command line per line. - for stdin")
	c.Flags.StringVar(&c.compdb, "compdb", "", "compile_commands.json to read command lines from")
	c.Flags.StringVar(&c.invocationID, "invocation_id", uuid.New().String(), "ID of this analyze invocation, recorded in logs.")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	err := c.run(ctx, args)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fmt.Fprintf(os.Stderr, "%v\n%s\n", err, usage)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// record is one resolved command line in the analyze output.
type record struct {
	// File is the source file, when the command line came from a
	// compilation database.
	File string `json:"file,omitempty"`

	msvcutil.CommandLine

	// WarnDisabled reports whether the -warn warning number is
	// explicitly disabled. Only set when -warn is given.
	WarnDisabled *bool `json:"warn_disabled,omitempty"`
}

func (c *run) run(ctx context.Context, args []string) error {
	switch c.format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown format %q: %w", c.format, flag.ErrHelp)
	}
	records, err := c.collect(args)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no command lines given: %w", flag.ErrHelp)
	}
	clog.Infof(ctx, "analyze %s: %d command lines", c.invocationID, len(records))

	// Each resolution is independent, so run them in parallel.
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range records {
		g.Go(func() error {
			records[i].CommandLine = msvcutil.ParseCommandLine(records[i].Raw)
			if c.warn >= 0 {
				disabled := records[i].WarningExplicitlyDisabled(c.warn)
				records[i].WarnDisabled = &disabled
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return c.report(records)
}

// collect gathers the command lines to resolve from positional args,
// -f and -compdb, preserving input order. The raw command line of each
// record is stashed in record.Raw until resolution.
func (c *run) collect(args []string) ([]record, error) {
	var records []record
	for _, arg := range args {
		records = append(records, record{CommandLine: msvcutil.CommandLine{Raw: arg}})
	}
	if c.fname != "" {
		var r io.Reader = os.Stdin
		if c.fname != "-" {
			f, err := os.Open(c.fname)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		scanner := bufio.NewScanner(r)
		scanner.Buffer(nil, 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			records = append(records, record{CommandLine: msvcutil.CommandLine{Raw: line}})
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}
	if c.compdb != "" {
		buf, err := os.ReadFile(c.compdb)
		if err != nil {
			return nil, err
		}
		entries, err := parseCompDB(buf)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", c.compdb, err)
		}
		records = append(records, entries...)
	}
	return records, nil
}

// compdbEntry is an entry of compile_commands.json.
// https://clang.llvm.org/docs/JSONCompilationDatabase.html
type compdbEntry struct {
	Directory string   `json:"directory"`
	Command   string   `json:"command"`
	File      string   `json:"file"`
	Arguments []string `json:"arguments"`
}

// parseCompDB extracts command lines from a compilation database.
// Entries that carry an "arguments" array instead of a "command"
// string are skipped; debug info records a single command line string
// and that is the grammar the resolver targets.
func parseCompDB(buf []byte) ([]record, error) {
	var entries []compdbEntry
	err := json.Unmarshal(buf, &entries)
	if err != nil {
		return nil, err
	}
	var records []record
	for _, e := range entries {
		if e.Command == "" {
			if len(e.Arguments) > 0 {
				log.Warnf("skip %s: arguments form is not supported", e.File)
			}
			continue
		}
		records = append(records, record{
			File:        e.File,
			CommandLine: msvcutil.CommandLine{Raw: e.Command},
		})
	}
	return records, nil
}

func (c *run) report(records []record) error {
	if c.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	for _, r := range records {
		name := r.File
		if name == "" {
			name = firstToken(r.Raw)
		}
		ui.Default.Infof("%s: W%d WX=%t opt=%t debugCRT=%t GF=%t GL=%t disabled=%v",
			name, r.WarningLevel, r.WarningsAsErrors, r.OptimizationsEnabled,
			r.UsesDebugCRuntime, r.EliminateDuplicateStrings,
			r.WholeProgramOptimization, r.ExplicitlyDisabledWarnings)
		if r.WarnDisabled != nil {
			ui.Default.Infof("  warning %d explicitly disabled: %t", c.warn, *r.WarnDisabled)
		}
	}
	return nil
}

func firstToken(raw string) string {
	tok, _, _ := strings.Cut(strings.TrimLeft(raw, " \t"), " ")
	return tok
}
