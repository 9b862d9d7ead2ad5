package evaluator

import (
	"context"
	"log/slog"
	"strings"

	"github.com/weft-lang/weft/internal/ast"
	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/ports"
	"github.com/weft-lang/weft/internal/stdlib"
	"github.com/weft-lang/weft/internal/value"
)

// Evaluator walks an AST. It is single threaded; one Evaluator serves one
// evaluation, while the AST and the registry it reads are shared freely.
type Evaluator struct {
	src      string
	ctx      context.Context
	registry *stdlib.Registry
	prt      ports.Ports
}

func New(ctx context.Context, src string, registry *stdlib.Registry, prt ports.Ports) *Evaluator {
	return &Evaluator{
		src:      src,
		ctx:      ctx,
		registry: registry,
		prt:      prt,
	}
}

// Ports and Context expose the effect surfaces to builtins.
func (e *Evaluator) Ports() ports.Ports       { return e.prt }
func (e *Evaluator) Context() context.Context { return e.ctx }

func (e *Evaluator) newError(kind diag.Kind, pos int, format string, args ...interface{}) *value.Error {
	return &value.Error{Diag: diag.New(kind, pos, format, args...).At(e.src)}
}

func isError(v value.Value) bool {
	return value.IsError(v)
}

func (e *Evaluator) Eval(node ast.Node, env *value.Environment) value.Value {
	switch node := node.(type) {
	case *ast.Script:
		return e.evalScript(node, env)
	case *ast.NumberLiteral:
		return &value.Number{Value: node.Value}
	case *ast.StringLiteral:
		return &value.String{Value: node.Value}
	case *ast.InterpolatedString:
		return e.evalInterpolatedString(node, env)
	case *ast.BooleanLiteral:
		return value.NativeBoolToBoolean(node.Value)
	case *ast.NullLiteral:
		return value.NULL
	case *ast.DateTimeLiteral:
		return &value.DateTime{Value: node.Value}
	case *ast.Identifier:
		return e.evalIdentifier(node, env)
	case *ast.ArrayLiteral:
		return e.evalArrayLiteral(node, env)
	case *ast.ObjectLiteral:
		return e.evalObjectLiteral(node, env)
	case *ast.PrefixExpression:
		return e.evalPrefixExpression(node, env)
	case *ast.InfixExpression:
		return e.evalInfixExpression(node, env)
	case *ast.DefaultExpression:
		return e.evalDefaultExpression(node, env)
	case *ast.IfExpression:
		return e.evalIfExpression(node, env)
	case *ast.SelectorExpression:
		return e.evalSelectorExpression(node, env)
	case *ast.IndexExpression:
		return e.evalIndexExpression(node, env)
	case *ast.FunctionLiteral:
		return &value.Function{Parameters: node.Parameters, Body: node.Body, Env: env}
	case *ast.CallExpression:
		return e.evalCallExpression(node, env)
	case *ast.MatchExpression:
		return e.evalMatchExpression(node, env)
	}
	return e.newError(diag.KindType, node.Pos(), "unsupported expression %T", node)
}

func (e *Evaluator) evalScript(script *ast.Script, env *value.Environment) value.Value {
	for _, v := range script.Vars {
		val := e.Eval(v.Value, env)
		if isError(val) {
			return val
		}
		env.Define(v.Name, val)
		slog.Debug("header var bound", slog.String("name", v.Name))
	}
	return e.Eval(script.Body, env)
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *value.Environment) value.Value {
	if v, ok := env.Get(node.Value); ok {
		return v
	}
	if e.registry.Get(node.Value) != nil {
		return &value.Builtin{Name: node.Value}
	}
	return e.newError(diag.KindType, node.Pos(), "identifier not found: %s", node.Value)
}

func (e *Evaluator) evalInterpolatedString(node *ast.InterpolatedString, env *value.Environment) value.Value {
	var out strings.Builder
	for _, part := range node.Parts {
		if part.Expr == nil {
			out.WriteString(part.Text)
			continue
		}
		v := e.Eval(part.Expr, env)
		if isError(v) {
			return v
		}
		out.WriteString(value.Stringify(v))
	}
	return &value.String{Value: out.String()}
}

func (e *Evaluator) evalArrayLiteral(node *ast.ArrayLiteral, env *value.Environment) value.Value {
	elements := make([]value.Value, 0, len(node.Elements))
	for _, el := range node.Elements {
		v := e.Eval(el, env)
		if isError(v) {
			return v
		}
		elements = append(elements, v)
	}
	return &value.Array{Elements: elements}
}

func (e *Evaluator) evalObjectLiteral(node *ast.ObjectLiteral, env *value.Environment) value.Value {
	obj := &value.Object{}
	for _, entry := range node.Entries {
		if entry.Guard != nil {
			guard := e.Eval(entry.Guard, env)
			if isError(guard) {
				return guard
			}
			truth, ok := value.Truthy(guard)
			if !ok {
				return e.newError(diag.KindType, entry.Guard.Pos(),
					"entry guard must be Boolean or Null, got %s", guard.Type())
			}
			if !truth {
				continue
			}
		}
		v := e.Eval(entry.Value, env)
		if isError(v) {
			return v
		}
		obj.Append(entry.Key, v)
	}
	return obj
}

func (e *Evaluator) evalPrefixExpression(node *ast.PrefixExpression, env *value.Environment) value.Value {
	right := e.Eval(node.Right, env)
	if isError(right) {
		return right
	}

	switch node.Operator {
	case "-":
		n, ok := right.(*value.Number)
		if !ok {
			return e.newError(diag.KindType, node.Pos(),
				"unary minus requires a Number, got %s", right.Type())
		}
		return &value.Number{Value: n.Value.Neg()}
	case "not":
		truth, ok := value.Truthy(right)
		if !ok {
			return e.newError(diag.KindType, node.Pos(),
				"not requires Boolean or Null, got %s", right.Type())
		}
		return value.NativeBoolToBoolean(!truth)
	}
	return e.newError(diag.KindType, node.Pos(), "unknown operator %s", node.Operator)
}

func (e *Evaluator) evalDefaultExpression(node *ast.DefaultExpression, env *value.Environment) value.Value {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	if left.Type() == value.NULL_VAL {
		return e.Eval(node.Right, env)
	}
	return left
}

func (e *Evaluator) evalIfExpression(node *ast.IfExpression, env *value.Environment) value.Value {
	cond := e.Eval(node.Condition, env)
	if isError(cond) {
		return cond
	}
	truth, ok := value.Truthy(cond)
	if !ok {
		return e.newError(diag.KindType, node.Condition.Pos(),
			"if condition must be Boolean or Null, got %s", cond.Type())
	}
	if truth {
		return e.Eval(node.Consequence, env)
	}
	if node.Alternative != nil {
		return e.Eval(node.Alternative, env)
	}
	return value.NULL
}

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *value.Environment) value.Value {
	fn := e.evalCallee(node.Function, env)
	if isError(fn) {
		return fn
	}

	args := make([]value.Value, 0, len(node.Arguments))
	for _, a := range node.Arguments {
		v := e.Eval(a, env)
		if isError(v) {
			return v
		}
		args = append(args, v)
	}

	return e.Apply(node.Pos(), fn, args)
}

// evalCallee resolves the function position of a call. An identifier that
// resolves nowhere fails as an unknown function, not as a missing binding.
func (e *Evaluator) evalCallee(node ast.Expression, env *value.Environment) value.Value {
	ident, ok := node.(*ast.Identifier)
	if !ok {
		return e.Eval(node, env)
	}
	if v, found := env.Get(ident.Value); found {
		return v
	}
	if e.registry.Get(ident.Value) != nil {
		return &value.Builtin{Name: ident.Value}
	}
	return e.newError(diag.KindUnknownFunction, ident.Pos(),
		"unknown function %q", ident.Value)
}

// Apply invokes a function or builtin value. Surplus arguments beyond a
// function's parameter list are dropped, which lets single-parameter
// lambdas receive the (item, index) pairs the collection operators pass.
func (e *Evaluator) Apply(pos int, fn value.Value, args []value.Value) value.Value {
	if err := e.ctx.Err(); err != nil {
		return e.newError(diag.KindCancelled, pos, "evaluation cancelled")
	}

	switch fn := fn.(type) {
	case *value.Function:
		return e.applyFunction(pos, fn, args)
	case *value.Builtin:
		return e.registry.Call(e, fn.Name, pos, args)
	}
	return e.newError(diag.KindType, pos, "not a function: %s", fn.Type())
}

func (e *Evaluator) applyFunction(pos int, fn *value.Function, args []value.Value) value.Value {
	env := value.NewEnclosedEnvironment(fn.Env)

	for i, param := range fn.Parameters {
		switch {
		case i < len(args):
			env.Define(param.Name, args[i])
		case param.Default != nil:
			// defaults are evaluated per call, in the closure scope
			v := e.Eval(param.Default, value.NewEnclosedEnvironment(fn.Env))
			if isError(v) {
				return v
			}
			env.Define(param.Name, v)
		default:
			return e.newError(diag.KindType, pos,
				"missing argument for parameter %q", param.Name)
		}
	}

	return e.Eval(fn.Body, env)
}

// EvalParamDefault evaluates the default expression of fn's i-th parameter,
// used by reduce to seed its accumulator.
func (e *Evaluator) EvalParamDefault(fn value.Value, i int) (value.Value, bool) {
	f, ok := fn.(*value.Function)
	if !ok || i >= len(f.Parameters) || f.Parameters[i].Default == nil {
		return nil, false
	}
	return e.Eval(f.Parameters[i].Default, value.NewEnclosedEnvironment(f.Env)), true
}

func (e *Evaluator) evalMatchExpression(node *ast.MatchExpression, env *value.Environment) value.Value {
	subject := e.Eval(node.Subject, env)
	if isError(subject) {
		return subject
	}

	for _, c := range node.Cases {
		switch {
		case c.IsElse:
			return e.Eval(c.Body, env)

		case c.Binding != nil:
			caseEnv := value.NewEnclosedEnvironment(env)
			caseEnv.Define(c.Binding.Value, subject)
			if c.Guard != nil {
				pass := e.evalGuard(c.Guard, caseEnv)
				if isError(pass) {
					return pass
				}
				if pass != value.TRUE {
					continue
				}
			}
			return e.Eval(c.Body, caseEnv)

		default:
			pattern := e.Eval(c.Pattern, env)
			if isError(pattern) {
				return pattern
			}
			if !value.Equals(subject, pattern) {
				continue
			}
			if c.Guard != nil {
				pass := e.evalGuard(c.Guard, env)
				if isError(pass) {
					return pass
				}
				if pass != value.TRUE {
					continue
				}
			}
			return e.Eval(c.Body, env)
		}
	}

	return e.newError(diag.KindMatch, node.Pos(),
		"no matching clause for %s", subject.Inspect())
}

func (e *Evaluator) evalGuard(guard ast.Expression, env *value.Environment) value.Value {
	v := e.Eval(guard, env)
	if isError(v) {
		return v
	}
	truth, ok := value.Truthy(v)
	if !ok {
		return e.newError(diag.KindType, guard.Pos(),
			"guard must be Boolean or Null, got %s", v.Type())
	}
	return value.NativeBoolToBoolean(truth)
}
