package core

import (
	"context"
	"strconv"
)

// InputAdapter loads the alphabets for one batch run.
type InputAdapter[In any] interface {
	Load(ctx context.Context) ([]In, error)
}

// OutputAdapter persists the rows produced by a batch run.
type OutputAdapter[Out any] interface {
	Store(ctx context.Context, rows []Out) error
}

// Processor transforms one input item into one output item.
type Processor[In any, Out any] interface {
	Process(ctx context.Context, in In) (Out, error)
}

// ProcessFunc adapts a function to the Processor interface.
type ProcessFunc[In any, Out any] func(ctx context.Context, in In) (Out, error)

func (f ProcessFunc[In, Out]) Process(ctx context.Context, in In) (Out, error) {
	return f(ctx, in)
}

// ItemError ties a processing failure to the position of its input item.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	if e == nil || e.Err == nil {
		return "item error"
	}
	return "item " + strconv.Itoa(e.Index) + ": " + e.Err.Error()
}

func (e *ItemError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

