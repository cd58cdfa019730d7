package wizard

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Ignorable is the failure of a best-effort call: it is logged and counted,
// then the flow continues. It does not implement error, so it cannot be
// returned or wrapped as one.
type Ignorable struct {
	op  string
	err error
}

// Failed reports whether the best-effort call failed.
func (i Ignorable) Failed() bool { return i.err != nil }

// Op names the call that failed.
func (i Ignorable) Op() string { return i.op }

// Cause returns the underlying failure, or nil.
func (i Ignorable) Cause() error { return i.err }

func (i Ignorable) String() string {
	if i.err == nil {
		return "ok"
	}
	return i.op + ": " + i.err.Error()
}

// ignore logs and counts a best-effort failure.
func (w *Wizard) ignore(ctx context.Context, op string, err error) Ignorable {
	w.lg.Warn("Best-effort call failed", zap.String("op", op), zap.Error(err))
	w.metrics.ignored.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	return Ignorable{op: op, err: err}
}
