package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/palantir/alphabet-reverser/internal/app"
	"github.com/palantir/alphabet-reverser/internal/config"
	"github.com/palantir/alphabet-reverser/internal/session"
	"github.com/palantir/alphabet-reverser/internal/version"
	"github.com/palantir/alphabet-reverser/pkg/pipeline/schema"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return runPrompt(nil, stdin, stdout, stderr)
	}

	switch args[0] {
	case "help", "-h", "--help":
		usage(stdout)
		return config.ExitOK
	case "prompt":
		return runPrompt(args[1:], stdin, stdout, stderr)
	case "batch":
		return runBatch(ctx, args[1:], stderr)
	case "automaton":
		return runAutomaton(args[1:], stdin, stdout, stderr)
	case "version":
		_, _ = fmt.Fprintln(stdout, version.Current)
		return config.ExitOK
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command: %s\n\n", args[0])
		usage(stderr)
		return config.ExitUsage
	}
}

func runPrompt(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("prompt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config file with prompt overrides (env: REVERSER_CONFIG)")
	if err := fs.Parse(args); err != nil {
		return config.ExitUsage
	}

	// Config problems never stop the session: warn and use the default prompts.
	prompts, err := config.LoadPrompts(*configPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "warning: %s; using default prompts\n", err)
	}

	res, err := session.Run(stdin, stdout, prompts)
	if err != nil {
		return config.Errorf(stderr, config.ExitFailed, "prompt failed: %s", err)
	}
	if w := res.Warning(); w != nil {
		_, _ = fmt.Fprintf(stderr, "warning: %s\n", w)
	}
	return config.ExitOK
}

func runBatch(ctx context.Context, args []string, stderr io.Writer) int {
	envCfg, _, err := config.Load()
	if err != nil {
		return config.Errorf(stderr, config.ExitUsage, "config error: %s", err)
	}

	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inputPath := fs.String("input", "", "Input file path (csv with an 'alphabet' column, jsonl, or one alphabet per line)")
	outputPath := fs.String("output", "", "Output file path")
	inputFormat := fs.String("input-format", "", "Input format: csv, jsonl, lines (default: from file extension)")
	outputFormat := fs.String("format", envCfg.Format, "Output format: csv, jsonl, lines (env: REVERSER_FORMAT, default: from file extension)")
	automatonPath := fs.String("automaton", envCfg.Automaton, "Optional JSON/YAML automaton; adds an 'accepted' column (env: REVERSER_AUTOMATON)")
	workers := fs.Int("workers", envCfg.Workers, "Number of concurrent workers (env: REVERSER_WORKERS)")
	rateLimitRPS := fs.Float64("rate-limit-rps", envCfg.RateLimitRPS, "Global rate limit (items/s), 0 disables (env: REVERSER_RATE_LIMIT_RPS)")
	itemTimeout := fs.Duration("item-timeout", envCfg.ItemTimeout, "Per-item timeout (env: REVERSER_ITEM_TIMEOUT)")
	failFast := fs.Bool("fail-fast", envCfg.FailFast, "Stop on the first item error; otherwise failed items are skipped (env: REVERSER_FAIL_FAST)")
	quiet := fs.Bool("quiet", false, "Suppress progress logging")
	if err := fs.Parse(args); err != nil {
		return config.ExitUsage
	}
	if *inputPath == "" || *outputPath == "" {
		return config.Errorf(stderr, config.ExitUsage, "batch requires --input and --output")
	}
	if *workers < 0 {
		return config.Errorf(stderr, config.ExitUsage, "--workers must be >= 0")
	}

	cfg := app.BatchConfig{
		InputPath:     *inputPath,
		OutputPath:    *outputPath,
		AutomatonPath: *automatonPath,
		Workers:       *workers,
		RateLimitRPS:  *rateLimitRPS,
		ItemTimeout:   *itemTimeout,
		FailFast:      *failFast,
	}
	if *inputFormat != "" {
		if cfg.InputFormat, err = schema.ParseFormat(*inputFormat); err != nil {
			return config.Errorf(stderr, config.ExitUsage, "--input-format: %s", err)
		}
	}
	if *outputFormat != "" {
		if cfg.OutputFormat, err = schema.ParseFormat(*outputFormat); err != nil {
			return config.Errorf(stderr, config.ExitUsage, "--format: %s", err)
		}
	}
	if !*quiet {
		cfg.Logger = log.New(stderr, envCfg.LogPrefix, log.LstdFlags)
	}

	sum, err := app.RunBatch(ctx, cfg)
	if err != nil {
		return config.Errorf(stderr, config.ExitFailed, "batch run failed: %s", err)
	}
	if sum.Failed > 0 {
		_, _ = fmt.Fprintf(stderr, "warning: %d of %d alphabets failed and were skipped\n", sum.Failed, sum.Rows+sum.Failed)
	}
	return config.ExitOK
}

func usage(w io.Writer) {
	_, _ = fmt.Fprintf(w, `reverser: read an alphabet and print it reversed

Usage:
  reverser [command] [flags]

Commands:
  prompt     Interactive mode (default): prompts for an alphabet and a length limit on stdin
  batch      Reverse every alphabet in an input file and write the results
  automaton  Load, run and combine finite automata (run, show, validate, complement,
             union, intersection, difference)
  version    Print the version

Examples:
  echo "abc 5" | reverser
  reverser batch --input alphabets.csv --output reversed.jsonl
  reverser batch --input words.txt --output verdicts.csv --automaton contains-00.json
  reverser automaton run --file contains-00.json 1001 1010
  reverser automaton union --a a.json --b b.yaml --output union.json

Environment:
  REVERSER_CONFIG          Optional YAML config file (prompts + batch defaults)
  REVERSER_WORKERS         Batch workers (default 4)
  REVERSER_RATE_LIMIT_RPS  Batch rate limit in items/s, 0 disables
  REVERSER_ITEM_TIMEOUT    Batch per-item timeout (default 5s)
  REVERSER_FAIL_FAST       Stop a batch on the first item error
  REVERSER_FORMAT          Batch output format (csv, jsonl, lines)
  REVERSER_AUTOMATON       Batch automaton file (JSON or YAML)
  REVERSER_LOG_PREFIX      Prefix for batch log lines

`)
}
