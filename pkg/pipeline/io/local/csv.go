package local

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/palantir/alphabet-reverser/pkg/pipeline/schema"
)

// ErrMissingColumn is returned when a CSV input lacks the "alphabet" column.
var ErrMissingColumn = errors.New(`missing required column "alphabet"`)

// ReadAlphabetsCSV returns the "alphabet" column of a headed CSV file.
// Cells are returned as stored: no trimming, no validation.
func ReadAlphabetsCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := slices.IndexFunc(header, func(name string) bool {
		return strings.EqualFold(strings.TrimSpace(name), "alphabet")
	})
	if col < 0 {
		return nil, ErrMissingColumn
	}

	var alphabets []string
	for line := 2; ; line++ {
		rec, err := cr.Read()
		switch {
		case err == io.EOF:
			return alphabets, nil
		case err != nil:
			return nil, fmt.Errorf("read row: %w", err)
		case col >= len(rec):
			return nil, fmt.Errorf("line %d: %d columns, %q is column %d", line, len(rec), "alphabet", col+1)
		}
		alphabets = append(alphabets, rec[col])
	}
}

// WriteCSV writes rows as a CSV with the stable schema.Header() ordering. An
// "accepted" column is added when any row carries an automaton verdict.
func WriteCSV(w io.Writer, rows []schema.Row) error {
	withAcceptance := slices.ContainsFunc(rows, func(r schema.Row) bool { return r.Accepted != nil })
	header := schema.Header()
	if withAcceptance {
		header = schema.HeaderWithAcceptance()
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{r.Alphabet, r.Reversed, strconv.Itoa(r.Length)}
		if withAcceptance {
			accepted := ""
			if r.Accepted != nil {
				accepted = strconv.FormatBool(*r.Accepted)
			}
			rec = append(rec, accepted)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
