package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/palantir/alphabet-reverser/internal/config"
	"github.com/palantir/alphabet-reverser/pkg/automaton"
)

func runAutomaton(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		automatonUsage(stderr)
		return config.ExitUsage
	}

	op, args := args[0], args[1:]
	switch op {
	case "run", "show", "validate", "complement":
		return runAutomatonSingle(op, args, stdin, stdout, stderr)
	case "union", "intersection", "difference":
		return runAutomatonPair(op, args, stdout, stderr)
	case "help", "-h", "--help":
		automatonUsage(stdout)
		return config.ExitOK
	default:
		_, _ = fmt.Fprintf(stderr, "unknown automaton command: %s\n\n", op)
		automatonUsage(stderr)
		return config.ExitUsage
	}
}

func runAutomatonSingle(op string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("automaton "+op, flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "Automaton file (JSON, or YAML by .yaml/.yml extension)")
	output := fs.String("output", "", "Write the resulting automaton here instead of stdout (complement only)")
	if err := fs.Parse(args); err != nil {
		return config.ExitUsage
	}
	if *file == "" {
		return config.Errorf(stderr, config.ExitUsage, "automaton %s requires --file", op)
	}

	a, err := automaton.LoadFile(*file)
	if err != nil {
		return config.Errorf(stderr, config.ExitFailed, "load automaton: %s", err)
	}

	switch op {
	case "validate":
		_, _ = fmt.Fprintf(stdout, "valid: states=%d symbols=%d transitions=%d deterministic=%t complete=%t\n",
			len(a.States), len(a.Alphabet), len(a.Transitions), a.IsDeterministic(), a.IsComplete())
		return config.ExitOK
	case "show":
		if err := automaton.WriteQuintuple(stdout, a); err != nil {
			return config.Errorf(stderr, config.ExitFailed, "write automaton: %s", err)
		}
		return config.ExitOK
	case "run":
		return runWords(a, fs.Args(), stdin, stdout, stderr)
	default:
		c, err := automaton.Complement(a)
		if err != nil {
			return config.Errorf(stderr, config.ExitFailed, "automaton complement: %s", err)
		}
		return writeAutomaton(c, *output, stdout, stderr)
	}
}

// runWords checks each word given as an argument, or each stdin line when
// there are none.
func runWords(a *automaton.Automaton, words []string, stdin io.Reader, stdout, stderr io.Writer) int {
	check := func(w string) {
		verdict := "rejected"
		if a.AcceptsString(w) {
			verdict = "accepted"
		}
		_, _ = fmt.Fprintf(stdout, "%q: %s\n", w, verdict)
	}

	if len(words) > 0 {
		for _, w := range words {
			check(w)
		}
		return config.ExitOK
	}
	if stdin == nil {
		return config.ExitOK
	}
	sc := bufio.NewScanner(stdin)
	for sc.Scan() {
		check(strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return config.Errorf(stderr, config.ExitFailed, "read words: %s", err)
	}
	return config.ExitOK
}

func runAutomatonPair(op string, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("automaton "+op, flag.ContinueOnError)
	fs.SetOutput(stderr)
	pathA := fs.String("a", "", "First automaton file")
	pathB := fs.String("b", "", "Second automaton file")
	output := fs.String("output", "", "Write the resulting automaton here instead of stdout")
	if err := fs.Parse(args); err != nil {
		return config.ExitUsage
	}
	if *pathA == "" || *pathB == "" {
		return config.Errorf(stderr, config.ExitUsage, "automaton %s requires --a and --b", op)
	}

	a, err := automaton.LoadFile(*pathA)
	if err != nil {
		return config.Errorf(stderr, config.ExitFailed, "load automaton: %s", err)
	}
	b, err := automaton.LoadFile(*pathB)
	if err != nil {
		return config.Errorf(stderr, config.ExitFailed, "load automaton: %s", err)
	}

	var out *automaton.Automaton
	switch op {
	case "union":
		out = automaton.Union(a, b)
	case "intersection":
		out, err = automaton.Intersection(a, b)
	default:
		out, err = automaton.Difference(a, b)
	}
	if err != nil {
		return config.Errorf(stderr, config.ExitFailed, "automaton %s: %s", op, err)
	}
	return writeAutomaton(out, *output, stdout, stderr)
}

func writeAutomaton(a *automaton.Automaton, path string, stdout, stderr io.Writer) int {
	w := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return config.Errorf(stderr, config.ExitFailed, "create output: %s", err)
		}
		defer f.Close()
		w = f
	}
	if err := automaton.WriteJSON(w, a); err != nil {
		return config.Errorf(stderr, config.ExitFailed, "write automaton: %s", err)
	}
	return config.ExitOK
}

func automatonUsage(w io.Writer) {
	_, _ = fmt.Fprint(w, `Usage:
  reverser automaton <command> [flags]

Commands:
  run          --file F [word ...]   Report whether each word (or stdin line) is accepted
  show         --file F              Print the quintuple (Q, Σ, δ, q0, F)
  validate     --file F              Check the definition and print a summary
  complement   --file F [--output]   Complement of a deterministic automaton
  union        --a A --b B [--output]
  intersection --a A --b B [--output]
  difference   --a A --b B [--output]  Words A accepts and B rejects

Automaton files are JSON, or YAML when the name ends in .yaml/.yml. Both the
from/symbol/to + finalStates and the source/input/target + acceptStates layouts
are accepted.
`)
}
