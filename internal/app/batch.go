package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/palantir/alphabet-reverser/pkg/automaton"
	"github.com/palantir/alphabet-reverser/pkg/pipeline/core"
	"github.com/palantir/alphabet-reverser/pkg/pipeline/io/local"
	"github.com/palantir/alphabet-reverser/pkg/pipeline/schema"
	"github.com/palantir/alphabet-reverser/pkg/pipeline/worker"
	"github.com/palantir/alphabet-reverser/pkg/reverse"
)

// BatchConfig describes one file-to-file batch run.
type BatchConfig struct {
	InputPath    string
	OutputPath   string
	InputFormat  schema.Format
	OutputFormat schema.Format

	// AutomatonPath optionally names a JSON or YAML automaton. When set, each
	// row records whether it accepts the alphabet.
	AutomatonPath string

	Workers      int
	RateLimitRPS float64
	ItemTimeout  time.Duration
	FailFast     bool

	// RunID tags log lines. RunBatch generates one when empty.
	RunID string
	// Logger receives run progress. Nil discards it.
	Logger *log.Logger
}

func (cfg BatchConfig) logf() func(format string, args ...any) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return func(format string, args ...any) {
		logger.Printf("run=%s "+format, append([]any{cfg.RunID}, args...)...)
	}
}

// Summary reports what a batch run did.
type Summary struct {
	RunID    string
	Rows     int
	Failed   int
	Bytes    int
	Duration time.Duration
}

// Reverser is the batch processor: one alphabet in, one row out.
type Reverser struct {
	// Automaton, when set, is run over each alphabet to fill Row.Accepted.
	Automaton *automaton.Automaton
}

var _ core.Processor[string, schema.Row] = Reverser{}

// Process reverses alphabet.
func (r Reverser) Process(ctx context.Context, alphabet string) (schema.Row, error) {
	if err := ctx.Err(); err != nil {
		return schema.Row{}, err
	}
	row := schema.Row{
		Alphabet: alphabet,
		Reversed: reverse.String(alphabet),
		Length:   len(alphabet),
	}
	if r.Automaton != nil {
		accepted := r.Automaton.AcceptsString(alphabet)
		row.Accepted = &accepted
	}
	return row, nil
}

// RunBatch reads alphabets from InputPath, reverses each, and writes rows to OutputPath.
func RunBatch(ctx context.Context, cfg BatchConfig) (Summary, error) {
	if cfg.RunID == "" {
		cfg.RunID = fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	logf := cfg.logf()
	runStart := time.Now()

	inFormat := cfg.InputFormat
	if inFormat == "" {
		inFormat = schema.FormatFromPath(cfg.InputPath)
	}
	outFormat := cfg.OutputFormat
	if outFormat == "" {
		outFormat = schema.FormatFromPath(cfg.OutputPath)
	}
	logf(
		"batch start: input=%s(%s) output=%s(%s) workers=%d rateLimitRPS=%g itemTimeout=%s failFast=%t",
		cfg.InputPath, inFormat, cfg.OutputPath, outFormat, cfg.Workers, cfg.RateLimitRPS, cfg.ItemTimeout, cfg.FailFast,
	)

	var proc Reverser
	if cfg.AutomatonPath != "" {
		a, err := automaton.LoadFile(cfg.AutomatonPath)
		if err != nil {
			return Summary{}, err
		}
		proc.Automaton = a
		logf("loaded automaton %s: states=%d symbols=%d", cfg.AutomatonPath, len(a.States), len(a.Alphabet))
	}

	alphabets, err := local.FileInput{Path: cfg.InputPath, Format: inFormat}.Load(ctx)
	if err != nil {
		return Summary{}, err
	}
	logf("loaded %d alphabets", len(alphabets))

	res, err := ReverseAll(ctx, alphabets, proc, cfg)
	if err != nil {
		return Summary{}, err
	}

	if err := (local.FileOutput{Path: cfg.OutputPath, Format: outFormat}).Store(ctx, res.Rows); err != nil {
		return Summary{}, err
	}

	sum := Summary{RunID: cfg.RunID, Rows: len(res.Rows), Failed: len(res.Failed), Duration: time.Since(runStart)}
	for _, r := range res.Rows {
		sum.Bytes += r.Length
	}
	logf("batch complete: rows=%d failed=%d bytes=%d duration=%s", sum.Rows, sum.Failed, sum.Bytes, sum.Duration.Round(time.Millisecond))
	return sum, nil
}

// Outcome is the result of ReverseAll: successful rows in input order plus the
// items that failed.
type Outcome struct {
	Rows   []schema.Row
	Failed []*core.ItemError
}

// ReverseAll runs p over alphabets through the worker pool.
//
// With cfg.FailFast the first item error cancels the run and is returned.
// Otherwise failed items are logged, left out of Rows, and listed in Failed.
func ReverseAll(ctx context.Context, alphabets []string, p core.Processor[string, schema.Row], cfg BatchConfig) (Outcome, error) {
	logf := cfg.logf()
	policy := worker.FailurePolicyPartialOutput
	if cfg.FailFast {
		policy = worker.FailurePolicyFailFast
	}

	completed := 0
	out, err := worker.ProcessAllWithCallback(ctx, alphabets, p.Process, func(res worker.Result[string, schema.Row]) error {
		completed++
		if res.Err != nil {
			cause := res.Err
			if inner := errors.Unwrap(res.Err); inner != nil {
				cause = inner
			}
			logf("item %d failed: %v", res.Index, cause)
			return nil
		}
		logf("processed %d/%d", completed, len(alphabets))
		return nil
	}, worker.Options{
		Workers:       cfg.Workers,
		RateLimitRPS:  cfg.RateLimitRPS,
		ItemTimeout:   cfg.ItemTimeout,
		FailurePolicy: policy,
	})
	if err != nil {
		return Outcome{}, err
	}

	res := Outcome{Rows: make([]schema.Row, 0, len(out))}
	for _, r := range out {
		if r.Err != nil {
			var itemErr *core.ItemError
			if !errors.As(r.Err, &itemErr) {
				itemErr = &core.ItemError{Index: r.Index, Err: r.Err}
			}
			res.Failed = append(res.Failed, itemErr)
			continue
		}
		res.Rows = append(res.Rows, r.Output)
	}
	return res, nil
}
