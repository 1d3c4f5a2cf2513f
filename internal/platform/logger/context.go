package logger

import "context"

type fieldsKey struct{}

// ContextWith attaches fields to ctx. Loggers resolved through For carry them.
func ContextWith(ctx context.Context, keysAndValues ...interface{}) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	prev, _ := ctx.Value(fieldsKey{}).([]interface{})
	merged := make([]interface{}, 0, len(prev)+len(keysAndValues))
	merged = append(merged, prev...)
	merged = append(merged, keysAndValues...)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// FieldsFrom returns the fields attached to ctx with ContextWith.
func FieldsFrom(ctx context.Context) []interface{} {
	if ctx == nil {
		return nil
	}
	kv, _ := ctx.Value(fieldsKey{}).([]interface{})
	return kv
}

// For returns l extended with the request fields carried by ctx.
func (l *Logger) For(ctx context.Context) *Logger {
	kv := FieldsFrom(ctx)
	if len(kv) == 0 {
		return l
	}
	return l.With(kv...)
}
