// Package interp is the front door: it wires lexing, parsing and evaluation
// behind a small embedding API.
package interp

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/weft-lang/weft/internal/ast"
	"github.com/weft-lang/weft/internal/evaluator"
	"github.com/weft-lang/weft/internal/parser"
	"github.com/weft-lang/weft/internal/ports"
	"github.com/weft-lang/weft/internal/stdlib"
	"github.com/weft-lang/weft/internal/value"
)

func init() {
	// fractional digits kept by division; shared decimal package setting
	decimal.DivisionPrecision = 34
}

type Interp struct {
	registry *stdlib.Registry
	prt      ports.Ports
}

type Option func(*Interp)

func WithPorts(p ports.Ports) Option {
	return func(i *Interp) { i.prt = p }
}

func WithRegistry(r *stdlib.Registry) Option {
	return func(i *Interp) { i.registry = r }
}

// WithStubBuiltins installs not-implemented placeholders for the named
// functions, on top of any entry they previously had.
func WithStubBuiltins(names []string) Option {
	return func(i *Interp) {
		for _, name := range names {
			i.registry.RegisterStub(name)
		}
	}
}

func New(opts ...Option) *Interp {
	i := &Interp{
		registry: stdlib.Default(),
		prt:      ports.Defaults(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Registry exposes the builtin registry so embedders can override entries
// before the first evaluation.
func (i *Interp) Registry() *stdlib.Registry {
	return i.registry
}

// Program is a compiled script. It is immutable and may be shared by
// concurrent Run calls; each run gets its own environment chain.
type Program struct {
	interp *Interp
	src    string
	script *ast.Script
}

func (i *Interp) Compile(source string) (*Program, error) {
	script, err := parser.ParseScript(source)
	if err != nil {
		return nil, err
	}
	return &Program{interp: i, src: source, script: script}, nil
}

// Output reports the script's output directive, if any.
func (p *Program) Output() string {
	return p.script.Output
}

func (p *Program) Run(ctx context.Context, payload value.Value, vars map[string]value.Value) (value.Value, error) {
	env := value.NewEnvironment()
	if payload == nil {
		payload = value.NULL
	}
	env.Define("payload", payload)

	// external vars bind twice: by name, and collectively as the `vars`
	// object (sorted for a deterministic entry order)
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	varsObj := &value.Object{}
	for _, name := range names {
		varsObj.Append(name, vars[name])
	}
	for _, name := range names {
		env.Define(name, vars[name])
	}
	// defined last: the collective binding wins over a var named "vars"
	env.Define("vars", varsObj)

	ev := evaluator.New(ctx, p.src, p.interp.registry, p.interp.prt)
	result := ev.Eval(p.script, env)
	if errV, ok := result.(*value.Error); ok {
		return nil, errV.Diag
	}
	return result, nil
}

// Execute compiles and runs a source in one step.
func (i *Interp) Execute(ctx context.Context, source string, payload value.Value, vars map[string]value.Value) (value.Value, error) {
	program, err := i.Compile(source)
	if err != nil {
		return nil, err
	}
	return program.Run(ctx, payload, vars)
}
