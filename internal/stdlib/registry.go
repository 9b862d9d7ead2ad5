// Package stdlib provides the builtin function registry. The registry is
// populated once at interpreter construction and read-only afterwards;
// registering a name that already exists replaces the earlier entry.
package stdlib

import (
	"context"
	"strconv"

	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/ports"
	"github.com/weft-lang/weft/internal/value"
)

// Caller is the evaluator-side surface a builtin may use: applying language
// functions, reaching the ports, and observing cancellation.
type Caller interface {
	// Apply invokes a function or builtin value with the given arguments.
	// Surplus arguments beyond the function's parameters are dropped.
	Apply(pos int, fn value.Value, args []value.Value) value.Value
	// EvalParamDefault evaluates the default expression of fn's i-th
	// parameter in the function's closure scope; ok is false when there
	// is none.
	EvalParamDefault(fn value.Value, i int) (v value.Value, ok bool)
	Ports() ports.Ports
	Context() context.Context
}

type BuiltinFn func(c Caller, pos int, args []value.Value) value.Value

// Entry describes one builtin: its arity bounds, the expected kind per
// argument position, and the implementation. MaxArity -1 means variadic;
// an empty kind accepts any value.
type Entry struct {
	Name     string
	MinArity int
	MaxArity int
	ArgKinds []value.Type
	Fn       BuiltinFn
}

type Registry struct {
	entries map[string]*Entry
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
	}
}

func (r *Registry) Register(e Entry) {
	r.entries[e.Name] = &e
}

// RegisterStub installs a placeholder that resolves but fails with
// NotImplementedError. Arguments are accepted unchecked so the failure
// names the function, not its signature.
func (r *Registry) RegisterStub(name string) {
	r.Register(Entry{
		Name:     name,
		MinArity: 0,
		MaxArity: -1,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			return errOf(diag.New(diag.KindNotImplemented, pos,
				"function %q is not implemented", name))
		},
	})
}

func (r *Registry) Get(name string) *Entry {
	return r.entries[name]
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	return names
}

// Call validates arity and argument kinds before dispatching; validation
// failures happen before any side effect of the builtin.
func (r *Registry) Call(c Caller, name string, pos int, args []value.Value) value.Value {
	if err := c.Context().Err(); err != nil {
		return errOf(diag.New(diag.KindCancelled, pos, "evaluation cancelled"))
	}

	entry := r.Get(name)
	if entry == nil {
		return errOf(diag.New(diag.KindUnknownFunction, pos, "unknown function %q", name))
	}

	if len(args) < entry.MinArity || (entry.MaxArity >= 0 && len(args) > entry.MaxArity) {
		return errOf(diag.New(diag.KindType, pos,
			"wrong number of arguments to %s. got=%d, want=%s",
			name, len(args), arityString(entry)))
	}

	for i, arg := range args {
		expected := entry.kindAt(i)
		if expected != "" && arg.Type() != expected {
			return errOf(diag.ArgumentType(name, i+1, string(expected), string(arg.Type()), pos))
		}
	}

	return entry.Fn(c, pos, args)
}

func (e *Entry) kindAt(i int) value.Type {
	if i < len(e.ArgKinds) {
		return e.ArgKinds[i]
	}
	// variadic tail repeats the last declared kind
	if e.MaxArity < 0 && len(e.ArgKinds) > 0 {
		return e.ArgKinds[len(e.ArgKinds)-1]
	}
	return ""
}

func arityString(e *Entry) string {
	switch {
	case e.MaxArity < 0:
		return strconv.Itoa(e.MinArity) + "+"
	case e.MinArity == e.MaxArity:
		return strconv.Itoa(e.MinArity)
	default:
		return strconv.Itoa(e.MinArity) + ".." + strconv.Itoa(e.MaxArity)
	}
}

func errOf(e *diag.Error) value.Value {
	return &value.Error{Diag: e}
}

func newError(kind diag.Kind, pos int, format string, args ...interface{}) value.Value {
	return errOf(diag.New(kind, pos, format, args...))
}

// Default builds the shipped builtin library. read and write start as
// stubs; a front end with codecs registers real implementations over them.
func Default() *Registry {
	r := NewRegistry()
	registerCore(r)
	registerStrings(r)
	registerNumbers(r)
	registerCollections(r)
	registerPorts(r)
	r.RegisterStub("read")
	r.RegisterStub("write")
	return r
}
