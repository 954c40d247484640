package schema_test

import (
	"errors"
	"testing"

	"github.com/palantir/alphabet-reverser/pkg/pipeline/schema"
)

func TestNormalizeFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want schema.Format
	}{
		{name: "csv default", in: "", want: schema.FormatCSV},
		{name: "csv explicit", in: "csv", want: schema.FormatCSV},
		{name: "unknown", in: "parquet", want: schema.FormatCSV},
		{name: "jsonl", in: "jsonl", want: schema.FormatJSONL},
		{name: "ndjson", in: " NDJSON ", want: schema.FormatJSONL},
		{name: "lines", in: "Lines", want: schema.FormatLines},
		{name: "txt", in: "txt", want: schema.FormatLines},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := schema.NormalizeFormat(tt.in); got != tt.want {
				t.Fatalf("NormalizeFormat(%q)=%q want=%q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want schema.Format
	}{
		{path: "in.csv", want: schema.FormatCSV},
		{path: "/tmp/out.jsonl", want: schema.FormatJSONL},
		{path: "alphabets.txt", want: schema.FormatLines},
		{path: "alphabets", want: schema.FormatLines},
	}

	for _, tt := range tests {
		if got := schema.FormatFromPath(tt.path); got != tt.want {
			t.Fatalf("FormatFromPath(%q)=%q want=%q", tt.path, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    schema.Format
		wantErr bool
	}{
		{in: "csv", want: schema.FormatCSV},
		{in: " JSON ", want: schema.FormatJSONL},
		{in: "ndjson", want: schema.FormatJSONL},
		{in: "text", want: schema.FormatLines},
		{in: "xml", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := schema.ParseFormat(tt.in)
		if tt.wantErr {
			if !errors.Is(err, schema.ErrUnknownFormat) {
				t.Fatalf("ParseFormat(%q): expected ErrUnknownFormat, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseFormat(%q)=%q,%v want=%q", tt.in, got, err, tt.want)
		}
	}
}
