package automaton

import (
	"fmt"
	"slices"
)

const sinkState = "sink"

// Complete returns a copy of a in which every state has a transition on every
// non-ε symbol. Missing transitions go to a fresh sink state. A complete
// automaton is returned as an unchanged copy.
func Complete(a *Automaton) *Automaton {
	out := a.Clone()
	if a.IsComplete() {
		return out
	}

	sink := sinkState
	for i := 1; slices.Contains(out.States, sink); i++ {
		sink = fmt.Sprintf("%s_%d", sinkState, i)
	}
	out.States = append(out.States, sink)

	have := out.edgeSet()
	for _, s := range out.States {
		for _, sym := range out.Alphabet {
			if sym == Epsilon {
				continue
			}
			if _, ok := have[[2]string{s, sym}]; !ok {
				out.Transitions = append(out.Transitions, Transition{From: s, Symbol: sym, To: sink})
			}
		}
	}
	return out
}

// Complement returns the automaton accepting exactly the words over a's
// alphabet that a rejects.
func Complement(a *Automaton) (*Automaton, error) {
	if !a.IsDeterministic() {
		return nil, fmt.Errorf("complement: %w", ErrNondeterministic)
	}
	out := Complete(a)
	finals := out.FinalStates
	out.FinalStates = make([]string, 0, len(out.States))
	for _, s := range out.States {
		if !slices.Contains(finals, s) {
			out.FinalStates = append(out.FinalStates, s)
		}
	}
	return out, nil
}

// Union joins a and b under a new initial state with ε-transitions into each.
// States are prefixed "A_" and "B_" so names cannot collide.
func Union(a, b *Automaton) *Automaton {
	const start = "start"
	prefixed := func(prefix string, states []string) []string {
		out := make([]string, len(states))
		for i, s := range states {
			out[i] = prefix + s
		}
		return out
	}

	out := &Automaton{InitialState: start}
	out.States = append([]string{start}, prefixed("A_", a.States)...)
	out.States = append(out.States, prefixed("B_", b.States)...)
	out.FinalStates = append(prefixed("A_", a.FinalStates), prefixed("B_", b.FinalStates)...)

	for _, sym := range append(append(append([]string{}, a.Alphabet...), b.Alphabet...), Epsilon) {
		if !slices.Contains(out.Alphabet, sym) {
			out.Alphabet = append(out.Alphabet, sym)
		}
	}

	out.Transitions = []Transition{
		{From: start, Symbol: Epsilon, To: "A_" + a.InitialState},
		{From: start, Symbol: Epsilon, To: "B_" + b.InitialState},
	}
	for _, t := range a.Transitions {
		out.Transitions = append(out.Transitions, Transition{From: "A_" + t.From, Symbol: t.Symbol, To: "A_" + t.To})
	}
	for _, t := range b.Transitions {
		out.Transitions = append(out.Transitions, Transition{From: "B_" + t.From, Symbol: t.Symbol, To: "B_" + t.To})
	}
	return out
}

// Intersection builds the product automaton over the symbols a and b share.
// Product states are named "(p,q)"; states unreachable from the initial pair
// are removed.
func Intersection(a, b *Automaton) (*Automaton, error) {
	if a.hasEpsilon() || b.hasEpsilon() {
		return nil, fmt.Errorf("intersection: %w", ErrEpsilonTransition)
	}

	var common []string
	for _, sym := range a.Alphabet {
		if sym != Epsilon && slices.Contains(b.Alphabet, sym) {
			common = append(common, sym)
		}
	}
	if len(common) == 0 {
		return nil, fmt.Errorf("intersection: %w", ErrNoCommonSymbols)
	}

	pair := func(p, q string) string { return "(" + p + "," + q + ")" }
	out := &Automaton{
		Alphabet:     common,
		InitialState: pair(a.InitialState, b.InitialState),
	}
	for _, p := range a.States {
		for _, q := range b.States {
			name := pair(p, q)
			out.States = append(out.States, name)
			if slices.Contains(a.FinalStates, p) && slices.Contains(b.FinalStates, q) {
				out.FinalStates = append(out.FinalStates, name)
			}
		}
	}

	for _, p := range a.States {
		for _, q := range b.States {
			for _, sym := range common {
				for _, ta := range a.Transitions {
					if ta.From != p || ta.Symbol != sym {
						continue
					}
					for _, tb := range b.Transitions {
						if tb.From != q || tb.Symbol != sym {
							continue
						}
						out.Transitions = append(out.Transitions, Transition{
							From:   pair(p, q),
							Symbol: sym,
							To:     pair(ta.To, tb.To),
						})
					}
				}
			}
		}
	}
	return RemoveUnreachable(out), nil
}

// Difference returns an automaton accepting the words a accepts and b rejects,
// built as a ∩ complement(b). b must be deterministic.
func Difference(a, b *Automaton) (*Automaton, error) {
	nb, err := Complement(b)
	if err != nil {
		return nil, fmt.Errorf("difference: %w", err)
	}
	return Intersection(a, nb)
}

// RemoveUnreachable drops states, finals, and transitions that cannot be
// reached from the initial state.
func RemoveUnreachable(a *Automaton) *Automaton {
	reachable := map[string]struct{}{a.InitialState: {}}
	for grew := true; grew; {
		grew = false
		for _, t := range a.Transitions {
			if _, ok := reachable[t.From]; !ok {
				continue
			}
			if _, ok := reachable[t.To]; !ok {
				reachable[t.To] = struct{}{}
				grew = true
			}
		}
	}

	keep := func(s string) bool {
		_, ok := reachable[s]
		return ok
	}
	out := &Automaton{
		Alphabet:     slices.Clone(a.Alphabet),
		InitialState: a.InitialState,
		States:       []string{},
		FinalStates:  []string{},
		Transitions:  []Transition{},
	}
	for _, s := range a.States {
		if keep(s) {
			out.States = append(out.States, s)
		}
	}
	for _, s := range a.FinalStates {
		if keep(s) {
			out.FinalStates = append(out.FinalStates, s)
		}
	}
	for _, t := range a.Transitions {
		if keep(t.From) && keep(t.To) {
			out.Transitions = append(out.Transitions, t)
		}
	}
	return out
}
