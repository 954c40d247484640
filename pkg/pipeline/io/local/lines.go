package local

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/palantir/alphabet-reverser/pkg/pipeline/schema"
)

// ReadAlphabetLines reads one alphabet per line. Surrounding whitespace is trimmed;
// blank lines are kept as empty alphabets so output rows line up with input lines.
func ReadAlphabetLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	var out []string
	for sc.Scan() {
		out = append(out, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read line %d: %w", len(out)+1, err)
	}
	return out, nil
}

// ReadAlphabetsJSONL reads the "alphabet" field of each JSON object line, or
// the base64 "alphabet_b64" field when the alphabet is not valid UTF-8.
func ReadAlphabetsJSONL(r io.Reader) ([]string, error) {
	dec := json.NewDecoder(r)
	var out []string
	for {
		var rec struct {
			Alphabet    *string `json:"alphabet"`
			AlphabetB64 *string `json:"alphabet_b64"`
		}
		err := dec.Decode(&rec)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", len(out)+1, err)
		}
		if rec.Alphabet == nil && rec.AlphabetB64 == nil {
			return nil, fmt.Errorf("record %d: %w", len(out)+1, ErrMissingColumn)
		}
		var b64 string
		if rec.AlphabetB64 != nil {
			b64 = *rec.AlphabetB64
		}
		alphabet, err := schema.DecodeText(rec.Alphabet, b64)
		if err != nil {
			return nil, fmt.Errorf("record %d: alphabet_b64: %w", len(out)+1, err)
		}
		out = append(out, alphabet)
	}
}

// WriteLines writes only the reversed alphabet of each row, one per line.
func WriteLines(w io.Writer, rows []schema.Row) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		if _, err := bw.WriteString(r.Reversed); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteJSONL writes one JSON object per row. See schema.Row.MarshalJSON for
// how non-UTF-8 fields are kept.
func WriteJSONL(w io.Writer, rows []schema.Row) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// ReadAlphabets dispatches on f.
func ReadAlphabets(r io.Reader, f schema.Format) ([]string, error) {
	switch f {
	case schema.FormatJSONL:
		return ReadAlphabetsJSONL(r)
	case schema.FormatLines:
		return ReadAlphabetLines(r)
	default:
		return ReadAlphabetsCSV(r)
	}
}

// WriteRows dispatches on f.
func WriteRows(w io.Writer, rows []schema.Row, f schema.Format) error {
	switch f {
	case schema.FormatJSONL:
		return WriteJSONL(w, rows)
	case schema.FormatLines:
		return WriteLines(w, rows)
	default:
		return WriteCSV(w, rows)
	}
}
