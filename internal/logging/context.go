package logging

import (
	"context"
	"slices"
)

type fieldsKey struct{}

// WithFields returns a context carrying key-value pairs that every Logger
// attaches to records emitted with that context. Fields accumulate across
// nested calls.
func WithFields(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}
	return context.WithValue(ctx, fieldsKey{}, slices.Concat(Fields(ctx), args))
}

// Fields returns the key-value pairs stored by WithFields.
func Fields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	f, _ := ctx.Value(fieldsKey{}).([]any)
	return f
}

func withContextFields(ctx context.Context, args []any) []any {
	f := Fields(ctx)
	if len(f) == 0 {
		return args
	}
	return slices.Concat(f, args)
}
