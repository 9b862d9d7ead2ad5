// Package ports holds the three effect surfaces the evaluator is allowed to
// touch: a clock, a randomness source and a log sink. Embedders swap them
// for deterministic replay and log capture.
package ports

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/weft-lang/weft/internal/value"
)

type Clock interface {
	Now() time.Time
}

type Random interface {
	// Next returns a value in [0, 1).
	Next() float64
	// NextInt returns a value in [0, bound); bound must be positive.
	NextInt(bound int64) int64
}

type LogSink interface {
	Emit(level string, message string, v value.Value)
}

type Ports struct {
	Clock  Clock
	Random Random
	Log    LogSink
}

func Defaults() Ports {
	return Ports{
		Clock:  SystemClock{},
		Random: NewMathRandom(time.Now().UnixNano()),
		Log:    SlogSink{},
	}
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant; used by tests.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time { return c.Instant }

type MathRandom struct {
	rng *rand.Rand
}

func NewMathRandom(seed int64) *MathRandom {
	return &MathRandom{rng: rand.New(rand.NewSource(seed))}
}

func (m *MathRandom) Next() float64 { return m.rng.Float64() }

func (m *MathRandom) NextInt(bound int64) int64 { return m.rng.Int63n(bound) }

// SlogSink forwards log calls to the process-wide slog logger.
type SlogSink struct{}

func (SlogSink) Emit(level string, message string, v value.Value) {
	attrs := []any{slog.String("value", v.Inspect())}
	switch level {
	case "debug":
		slog.Debug(message, attrs...)
	case "warn":
		slog.Warn(message, attrs...)
	case "error":
		slog.Error(message, attrs...)
	default:
		slog.Info(message, attrs...)
	}
}
