// Package automaton loads, validates, and runs finite automata over symbol
// sequences, and builds new automata from the classic closure operations.
//
// An automaton may be nondeterministic and may carry ε-transitions (see
// Epsilon). Complement, and therefore Difference, require a deterministic
// input.
package automaton

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"
)

// Epsilon is the symbol of an empty-input transition.
const Epsilon = "ε"

var (
	ErrNoStates          = errors.New("automaton must have a non-empty list of states")
	ErrNoAlphabet        = errors.New("automaton must have a non-empty alphabet")
	ErrNoTransitions     = errors.New("automaton must have a list of transitions")
	ErrNoFinalStates     = errors.New("automaton must have a list of final states")
	ErrBadInitialState   = errors.New("automaton must have a valid initial state")
	ErrUnknownState      = errors.New("unknown state")
	ErrUnknownSymbol     = errors.New("symbol not in alphabet")
	ErrDuplicateState    = errors.New("duplicate state")
	ErrIncompleteEdge    = errors.New("transition requires from, symbol and to")
	ErrNondeterministic  = errors.New("automaton is not deterministic")
	ErrNoCommonSymbols   = errors.New("automata share no alphabet symbols")
	ErrEpsilonTransition = errors.New("operation does not support ε-transitions")
)

// Transition is one edge of the transition relation.
type Transition struct {
	From   string `json:"from" yaml:"from"`
	Symbol string `json:"symbol" yaml:"symbol"`
	To     string `json:"to" yaml:"to"`
}

// Automaton is the quintuple (Q, Σ, δ, q0, F).
type Automaton struct {
	States       []string     `json:"states" yaml:"states"`
	Alphabet     []string     `json:"alphabet" yaml:"alphabet"`
	Transitions  []Transition `json:"transitions" yaml:"transitions"`
	InitialState string       `json:"initialState" yaml:"initialState"`
	FinalStates  []string     `json:"finalStates" yaml:"finalStates"`
}

// Validate checks that every referenced state and symbol is declared.
func (a *Automaton) Validate() error {
	if len(a.States) == 0 {
		return ErrNoStates
	}
	if len(a.Alphabet) == 0 {
		return ErrNoAlphabet
	}
	states := make(map[string]struct{}, len(a.States))
	for _, s := range a.States {
		if _, dup := states[s]; dup {
			return fmt.Errorf("%w %q", ErrDuplicateState, s)
		}
		states[s] = struct{}{}
	}
	if _, ok := states[a.InitialState]; !ok || a.InitialState == "" {
		return ErrBadInitialState
	}
	for _, f := range a.FinalStates {
		if _, ok := states[f]; !ok {
			return fmt.Errorf("final state %q: %w", f, ErrUnknownState)
		}
	}
	for i, t := range a.Transitions {
		if t.From == "" || t.Symbol == "" || t.To == "" {
			return fmt.Errorf("transition %d: %w", i, ErrIncompleteEdge)
		}
		if _, ok := states[t.From]; !ok {
			return fmt.Errorf("transition %d source %q: %w", i, t.From, ErrUnknownState)
		}
		if _, ok := states[t.To]; !ok {
			return fmt.Errorf("transition %d target %q: %w", i, t.To, ErrUnknownState)
		}
		if !slices.Contains(a.Alphabet, t.Symbol) {
			return fmt.Errorf("transition %d symbol %q: %w", i, t.Symbol, ErrUnknownSymbol)
		}
	}
	return nil
}

// IsDeterministic reports whether every (state, symbol) pair has at most one
// target and there are no ε-transitions.
func (a *Automaton) IsDeterministic() bool {
	seen := make(map[[2]string]struct{}, len(a.Transitions))
	for _, t := range a.Transitions {
		if t.Symbol == Epsilon {
			return false
		}
		k := [2]string{t.From, t.Symbol}
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
	}
	return true
}

// IsComplete reports whether every state has a transition on every non-ε symbol.
func (a *Automaton) IsComplete() bool {
	have := a.edgeSet()
	for _, s := range a.States {
		for _, sym := range a.Alphabet {
			if sym == Epsilon {
				continue
			}
			if _, ok := have[[2]string{s, sym}]; !ok {
				return false
			}
		}
	}
	return true
}

func (a *Automaton) edgeSet() map[[2]string]struct{} {
	out := make(map[[2]string]struct{}, len(a.Transitions))
	for _, t := range a.Transitions {
		out[[2]string{t.From, t.Symbol}] = struct{}{}
	}
	return out
}

func (a *Automaton) hasEpsilon() bool {
	for _, t := range a.Transitions {
		if t.Symbol == Epsilon {
			return true
		}
	}
	return false
}

// Accepts runs the automaton over symbols and reports whether it ends in a
// final state. Symbols outside the alphabet reject.
func (a *Automaton) Accepts(symbols []string) bool {
	next := make(map[[2]string][]string, len(a.Transitions))
	for _, t := range a.Transitions {
		k := [2]string{t.From, t.Symbol}
		next[k] = append(next[k], t.To)
	}

	current := a.closure(map[string]struct{}{a.InitialState: {}}, next)
	for _, sym := range symbols {
		step := make(map[string]struct{})
		for s := range current {
			for _, to := range next[[2]string{s, sym}] {
				step[to] = struct{}{}
			}
		}
		if len(step) == 0 {
			return false
		}
		current = a.closure(step, next)
	}
	for _, f := range a.FinalStates {
		if _, ok := current[f]; ok {
			return true
		}
	}
	return false
}

// AcceptsString runs the automaton with one symbol per rune of s.
func (a *Automaton) AcceptsString(s string) bool {
	return a.Accepts(Symbols(s))
}

func (a *Automaton) closure(set map[string]struct{}, next map[[2]string][]string) map[string]struct{} {
	stack := make([]string, 0, len(set))
	for s := range set {
		stack = append(stack, s)
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, to := range next[[2]string{s, Epsilon}] {
			if _, ok := set[to]; !ok {
				set[to] = struct{}{}
				stack = append(stack, to)
			}
		}
	}
	return set
}

// Symbols splits s into one symbol per rune. Invalid UTF-8 bytes become
// single-byte symbols.
func Symbols(s string) []string {
	out := make([]string, 0, len(s))
	for len(s) > 0 {
		_, size := utf8.DecodeRuneInString(s)
		out = append(out, s[:size])
		s = s[size:]
	}
	return out
}

// Clone returns a deep copy of a.
func (a *Automaton) Clone() *Automaton {
	return &Automaton{
		States:       slices.Clone(a.States),
		Alphabet:     slices.Clone(a.Alphabet),
		Transitions:  slices.Clone(a.Transitions),
		InitialState: a.InitialState,
		FinalStates:  slices.Clone(a.FinalStates),
	}
}
