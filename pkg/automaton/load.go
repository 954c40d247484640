package automaton

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// definition accepts both file dialects in circulation:
//
//	{"from","symbol","to"} transitions with "finalStates"
//	{"source","input","target"} transitions with "acceptStates"
type definition struct {
	States       []string         `json:"states" yaml:"states"`
	Alphabet     []string         `json:"alphabet" yaml:"alphabet"`
	Transitions  []edgeDefinition `json:"transitions" yaml:"transitions"`
	InitialState string           `json:"initialState" yaml:"initialState"`
	FinalStates  []string         `json:"finalStates" yaml:"finalStates"`
	AcceptStates []string         `json:"acceptStates" yaml:"acceptStates"`
}

type edgeDefinition struct {
	From   string `json:"from" yaml:"from"`
	Symbol string `json:"symbol" yaml:"symbol"`
	To     string `json:"to" yaml:"to"`

	Source string `json:"source" yaml:"source"`
	Input  string `json:"input" yaml:"input"`
	Target string `json:"target" yaml:"target"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func (d definition) automaton() (*Automaton, error) {
	if d.Transitions == nil {
		return nil, ErrNoTransitions
	}
	finals := d.FinalStates
	if finals == nil {
		finals = d.AcceptStates
	}
	if finals == nil {
		return nil, ErrNoFinalStates
	}

	a := &Automaton{
		States:       d.States,
		Alphabet:     d.Alphabet,
		InitialState: d.InitialState,
		FinalStates:  finals,
		Transitions:  make([]Transition, 0, len(d.Transitions)),
	}
	for _, e := range d.Transitions {
		a.Transitions = append(a.Transitions, Transition{
			From:   firstNonEmpty(e.From, e.Source),
			Symbol: firstNonEmpty(e.Symbol, e.Input),
			To:     firstNonEmpty(e.To, e.Target),
		})
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// ParseJSON decodes and validates an automaton definition.
func ParseJSON(b []byte) (*Automaton, error) {
	var d definition
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse automaton JSON: %w", err)
	}
	return d.automaton()
}

// ParseYAML decodes and validates an automaton definition written as YAML.
func ParseYAML(b []byte) (*Automaton, error) {
	var d definition
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse automaton YAML: %w", err)
	}
	return d.automaton()
}

// LoadFile reads an automaton from path. ".yaml" and ".yml" files are parsed
// as YAML; everything else as JSON.
func LoadFile(path string) (*Automaton, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read automaton file: %w", err)
	}
	var a *Automaton
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		a, err = ParseYAML(b)
	default:
		a, err = ParseJSON(b)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// WriteJSON writes a as indented JSON in the from/symbol/to dialect.
func WriteJSON(w io.Writer, a *Automaton) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteQuintuple writes a human-readable (Q, Σ, δ, q0, F) listing.
func WriteQuintuple(w io.Writer, a *Automaton) error {
	var b strings.Builder
	b.WriteString("=== QUINTUPLA DEL AUTÓMATA FINITO ===\n\n")
	fmt.Fprintf(&b, "1. CONJUNTO DE ESTADOS (Q):\n   %s\n\n", strings.Join(a.States, ", "))
	fmt.Fprintf(&b, "2. ALFABETO (Σ):\n   %s\n\n", strings.Join(a.Alphabet, ", "))
	b.WriteString("3. FUNCIÓN DE TRANSICIÓN (δ):\n")
	for _, s := range a.States {
		for _, t := range a.Transitions {
			if t.From == s {
				fmt.Fprintf(&b, "   δ(%s, %s) = %s\n", t.From, t.Symbol, t.To)
			}
		}
	}
	fmt.Fprintf(&b, "\n4. ESTADO INICIAL (q₀):\n   %s\n\n", a.InitialState)
	fmt.Fprintf(&b, "5. CONJUNTO DE ESTADOS DE ACEPTACIÓN (F):\n   %s\n\n", strings.Join(a.FinalStates, ", "))
	fmt.Fprintf(&b, "• Número total de estados: %d\n", len(a.States))
	fmt.Fprintf(&b, "• Tamaño del alfabeto: %d\n", len(a.Alphabet))
	fmt.Fprintf(&b, "• Número total de transiciones: %d\n", len(a.Transitions))
	_, err := io.WriteString(w, b.String())
	return err
}
