package local

import (
	"context"
	"fmt"
	"os"

	"github.com/palantir/alphabet-reverser/pkg/pipeline/core"
	"github.com/palantir/alphabet-reverser/pkg/pipeline/schema"
)

var (
	_ core.InputAdapter[string]      = FileInput{}
	_ core.OutputAdapter[schema.Row] = FileOutput{}
)

// FileInput loads alphabets from a local file.
type FileInput struct {
	Path   string
	Format schema.Format
}

func (f FileInput) Load(_ context.Context) ([]string, error) {
	inF, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = inF.Close()
	}()

	alphabets, err := ReadAlphabets(inF, f.Format)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	return alphabets, nil
}

// FileOutput writes rows to a local file, replacing any existing content.
type FileOutput struct {
	Path   string
	Format schema.Format
}

func (f FileOutput) Store(_ context.Context, rows []schema.Row) error {
	outF, err := os.Create(f.Path)
	if err != nil {
		return err
	}
	defer func() {
		_ = outF.Close()
	}()

	if err := WriteRows(outF, rows, f.Format); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	return outF.Close()
}
