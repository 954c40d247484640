package session_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/palantir/alphabet-reverser/internal/session"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	res, err := session.Run(strings.NewReader("abc 5\n"), &out, session.Prompts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Ingresa un alfabeto: " +
		"Ingresa el límite de longitud de los palíndromos: " +
		"Alfabeto invertido: cba\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n got=%q\nwant=%q", out.String(), want)
	}
	if res.Alphabet != "abc" || res.LengthLimit != "5" || res.Reversed != "cba" {
		t.Fatalf("unexpected result: %#v", res)
	}
	if len(res.Missing) != 0 || res.Warning() != nil {
		t.Fatalf("expected no fallbacks, got %#v", res)
	}
}

func TestRunReadsWhitespaceDelimitedTokens(t *testing.T) {
	var out bytes.Buffer
	res, err := session.Run(strings.NewReader("  hello\n\n\t  10 trailing ignored"), &out, session.Prompts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Alphabet != "hello" || res.LengthLimit != "10" || res.Reversed != "olleh" {
		t.Fatalf("unexpected result: %#v", res)
	}
	if !strings.HasSuffix(out.String(), "Alfabeto invertido: olleh\n") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunReadsTokensLargerThanScannerDefault(t *testing.T) {
	alphabet := strings.Repeat("a", 70000) + "z"
	var out bytes.Buffer
	res, err := session.Run(strings.NewReader(alphabet+" 5\n"), &out, session.Prompts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ReadErr != nil || len(res.Missing) != 0 {
		t.Fatalf("expected both fields read, got ReadErr=%v Missing=%v", res.ReadErr, res.Missing)
	}
	if res.LengthLimit != "5" {
		t.Fatalf("LengthLimit=%q want=%q", res.LengthLimit, "5")
	}
	want := "z" + strings.Repeat("a", 70000)
	if res.Reversed != want {
		t.Fatalf("unexpected reversal of %d-byte token (got %d bytes)", len(alphabet), len(res.Reversed))
	}
	if !strings.HasSuffix(out.String(), "Alfabeto invertido: "+want+"\n") {
		t.Fatal("result line does not carry the reversed token")
	}
}

func TestRunMissingInput(t *testing.T) {
	t.Run("no input at all", func(t *testing.T) {
		var out bytes.Buffer
		res, err := session.Run(strings.NewReader(""), &out, session.Prompts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Alphabet != "" || res.Reversed != "" {
			t.Fatalf("expected empty fallback, got %#v", res)
		}
		if !res.HasMissing(session.FieldAlphabet) || !res.HasMissing(session.FieldLengthLimit) {
			t.Fatalf("expected both fields missing, got %v", res.Missing)
		}
		if !errors.Is(res.Warning(), session.ErrNoInput) {
			t.Fatalf("expected ErrNoInput, got %v", res.Warning())
		}
		if !strings.HasSuffix(out.String(), "Alfabeto invertido: \n") {
			t.Fatalf("unexpected output: %q", out.String())
		}
	})

	t.Run("length limit missing", func(t *testing.T) {
		var out bytes.Buffer
		res, err := session.Run(strings.NewReader("aabb"), &out, session.Prompts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Reversed != "bbaa" {
			t.Fatalf("unexpected reversed: %q", res.Reversed)
		}
		if res.HasMissing(session.FieldAlphabet) || !res.HasMissing(session.FieldLengthLimit) {
			t.Fatalf("unexpected missing fields: %v", res.Missing)
		}
		if w := res.Warning(); w == nil || !strings.Contains(w.Error(), "length_limit") {
			t.Fatalf("unexpected warning: %v", w)
		}
	})
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestRunReadErrorFallsBack(t *testing.T) {
	readErr := errors.New("tty gone")
	var out bytes.Buffer
	res, err := session.Run(failingReader{err: readErr}, &out, session.Prompts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !errors.Is(res.ReadErr, readErr) || !errors.Is(res.Warning(), readErr) {
		t.Fatalf("expected read error to be surfaced, got %v", res.ReadErr)
	}
	if len(res.Missing) != 2 {
		t.Fatalf("expected both fields missing, got %v", res.Missing)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRunWriteErrorIsReturned(t *testing.T) {
	_, err := session.Run(strings.NewReader("abc 1"), failingWriter{}, session.Prompts{})
	if err == nil || !strings.Contains(err.Error(), "write alphabet prompt") {
		t.Fatalf("expected prompt write error, got %v", err)
	}
}

func TestRunCustomPrompts(t *testing.T) {
	var out bytes.Buffer
	_, err := session.Run(strings.NewReader("xyz 3"), &out, session.Prompts{
		Alphabet: "Alphabet: ",
		Result:   "Reversed: ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Alphabet: Ingresa el límite de longitud de los palíndromos: Reversed: zyx\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n got=%q\nwant=%q", out.String(), want)
	}
}
