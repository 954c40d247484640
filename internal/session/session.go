// Package session runs the interactive prompt flow: ask for an alphabet and a
// length limit, then print the reversed alphabet.
package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/palantir/alphabet-reverser/pkg/reverse"
)

// Prompts holds the user-facing text written to out.
type Prompts struct {
	Alphabet    string
	LengthLimit string
	Result      string
}

// DefaultPrompts returns the built-in Spanish prompt text.
func DefaultPrompts() Prompts {
	return Prompts{
		Alphabet:    "Ingresa un alfabeto: ",
		LengthLimit: "Ingresa el límite de longitud de los palíndromos: ",
		Result:      "Alfabeto invertido: ",
	}
}

// WithDefaults fills empty fields from DefaultPrompts.
func (p Prompts) WithDefaults() Prompts {
	d := DefaultPrompts()
	if p.Alphabet == "" {
		p.Alphabet = d.Alphabet
	}
	if p.LengthLimit == "" {
		p.LengthLimit = d.LengthLimit
	}
	if p.Result == "" {
		p.Result = d.Result
	}
	return p
}

// Field names a value read from input.
type Field string

const (
	FieldAlphabet    Field = "alphabet"
	FieldLengthLimit Field = "length_limit"
)

// Result is what one session read and produced.
type Result struct {
	Alphabet string
	// LengthLimit is kept as typed. Nothing applies it.
	LengthLimit string
	Reversed    string

	// Missing lists fields that fell back to "" because input ran out.
	Missing []Field
	// ReadErr is the first non-EOF error from in, if any.
	ReadErr error
}

// Run executes one prompt/read/reverse/print cycle.
//
// Missing or unreadable input never fails the session: the affected field falls
// back to "" and is recorded on the Result. Only write errors are returned.
func Run(in io.Reader, out io.Writer, prompts Prompts) (Result, error) {
	prompts = prompts.WithDefaults()

	sc := bufio.NewScanner(in)
	// Tokens are unbounded; the scanner grows its buffer as needed.
	sc.Buffer(make([]byte, 0, 64*1024), math.MaxInt)
	sc.Split(bufio.ScanWords)

	var res Result
	next := func(field Field) string {
		if res.ReadErr == nil && sc.Scan() {
			return sc.Text()
		}
		if err := sc.Err(); err != nil && res.ReadErr == nil {
			res.ReadErr = err
		}
		res.Missing = append(res.Missing, field)
		return ""
	}

	if _, err := io.WriteString(out, prompts.Alphabet); err != nil {
		return res, fmt.Errorf("write alphabet prompt: %w", err)
	}
	res.Alphabet = next(FieldAlphabet)

	if _, err := io.WriteString(out, prompts.LengthLimit); err != nil {
		return res, fmt.Errorf("write length limit prompt: %w", err)
	}
	res.LengthLimit = next(FieldLengthLimit)

	res.Reversed = reverse.String(res.Alphabet)
	if _, err := fmt.Fprintf(out, "%s%s\n", prompts.Result, res.Reversed); err != nil {
		return res, fmt.Errorf("write result: %w", err)
	}
	return res, nil
}

// HasMissing reports whether f fell back to "".
func (r Result) HasMissing(f Field) bool {
	for _, m := range r.Missing {
		if m == f {
			return true
		}
	}
	return false
}

// ErrNoInput is reported when neither field could be read.
var ErrNoInput = errors.New("no input provided")

// Warning summarizes input fallbacks for stderr. It returns nil when every field was read.
func (r Result) Warning() error {
	switch {
	case r.ReadErr != nil:
		return fmt.Errorf("read input: %w", r.ReadErr)
	case len(r.Missing) == 2:
		return ErrNoInput
	case len(r.Missing) > 0:
		return fmt.Errorf("missing input for %s, using empty value", r.Missing[0])
	default:
		return nil
	}
}
