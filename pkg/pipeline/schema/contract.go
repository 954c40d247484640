package schema

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Format is the on-disk layout of a batch input or output file.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
	FormatLines Format = "lines"
)

// Row is the output record for one reversed alphabet.
//
// Reversal is byte-wise, so Reversed is not valid UTF-8 whenever Alphabet
// holds multi-byte runes. The JSON form keeps those bytes intact by writing
// such a field base64-encoded under an "_b64" key instead.
type Row struct {
	Alphabet string
	Reversed string
	Length   int
	// Accepted is set when the batch runs an automaton over each alphabet.
	Accepted *bool
}

type rowJSON struct {
	Alphabet    *string `json:"alphabet,omitempty"`
	AlphabetB64 string  `json:"alphabet_b64,omitempty"`
	Reversed    *string `json:"reversed,omitempty"`
	ReversedB64 string  `json:"reversed_b64,omitempty"`
	Length      int     `json:"length"`
	Accepted    *bool   `json:"accepted,omitempty"`
}

func textOrB64(s string) (*string, string) {
	if utf8.ValidString(s) {
		return &s, ""
	}
	return nil, base64.StdEncoding.EncodeToString([]byte(s))
}

// MarshalJSON writes valid UTF-8 fields as plain strings and anything else as
// base64 under the matching "_b64" key.
func (r Row) MarshalJSON() ([]byte, error) {
	out := rowJSON{Length: r.Length, Accepted: r.Accepted}
	out.Alphabet, out.AlphabetB64 = textOrB64(r.Alphabet)
	out.Reversed, out.ReversedB64 = textOrB64(r.Reversed)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON accepts what MarshalJSON writes.
func (r *Row) UnmarshalJSON(b []byte) error {
	var in rowJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	alphabet, err := DecodeText(in.Alphabet, in.AlphabetB64)
	if err != nil {
		return fmt.Errorf("alphabet_b64: %w", err)
	}
	reversed, err := DecodeText(in.Reversed, in.ReversedB64)
	if err != nil {
		return fmt.Errorf("reversed_b64: %w", err)
	}
	*r = Row{Alphabet: alphabet, Reversed: reversed, Length: in.Length, Accepted: in.Accepted}
	return nil
}

// DecodeText returns *plain when set, otherwise the decoded b64 value.
func DecodeText(plain *string, b64 string) (string, error) {
	if plain != nil {
		return *plain, nil
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Header returns the stable CSV header for Row.
func Header() []string {
	return []string{"alphabet", "reversed", "length"}
}

// HeaderWithAcceptance extends Header with the automaton verdict column.
func HeaderWithAcceptance() []string {
	return append(Header(), "accepted")
}

// ErrUnknownFormat is returned by ParseFormat for names it does not recognize.
var ErrUnknownFormat = errors.New("unknown format")

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(raw string) (Format, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "csv":
		return FormatCSV, nil
	case "jsonl", "ndjson", "json":
		return FormatJSONL, nil
	case "lines", "txt", "text":
		return FormatLines, nil
	default:
		return "", fmt.Errorf("%w %q (want csv, jsonl or lines)", ErrUnknownFormat, raw)
	}
}

// NormalizeFormat is ParseFormat for file extensions: unknown values fall back to CSV.
func NormalizeFormat(raw string) Format {
	f, err := ParseFormat(raw)
	if err != nil {
		return FormatCSV
	}
	return f
}

// FormatFromPath guesses a Format from a file extension.
func FormatFromPath(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return FormatLines
	}
	return NormalizeFormat(ext)
}
