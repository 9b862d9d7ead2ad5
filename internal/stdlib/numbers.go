package stdlib

import (
	"github.com/shopspring/decimal"
	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/value"
)

func registerNumbers(r *Registry) {
	unary := func(name string, f func(d decimal.Decimal) decimal.Decimal) {
		r.Register(Entry{
			Name: name, MinArity: 1, MaxArity: 1,
			ArgKinds: []value.Type{value.NUMBER_VAL},
			Fn: func(c Caller, pos int, args []value.Value) value.Value {
				return &value.Number{Value: f(args[0].(*value.Number).Value)}
			},
		})
	}

	unary("abs", func(d decimal.Decimal) decimal.Decimal { return d.Abs() })
	unary("ceil", func(d decimal.Decimal) decimal.Decimal { return d.Ceil() })
	unary("floor", func(d decimal.Decimal) decimal.Decimal { return d.Floor() })
	unary("round", func(d decimal.Decimal) decimal.Decimal { return d.Round(0) })

	r.Register(Entry{
		Name: "mod", MinArity: 2, MaxArity: 2,
		ArgKinds: []value.Type{value.NUMBER_VAL, value.NUMBER_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			b := args[1].(*value.Number).Value
			if b.IsZero() {
				return newError(diag.KindArithmetic, pos, "modulo by zero")
			}
			return &value.Number{Value: args[0].(*value.Number).Value.Mod(b)}
		},
	})

	r.Register(Entry{
		Name: "pow", MinArity: 2, MaxArity: 2,
		ArgKinds: []value.Type{value.NUMBER_VAL, value.NUMBER_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			base := args[0].(*value.Number).Value
			exp := args[1].(*value.Number).Value
			if base.IsZero() && exp.IsNegative() {
				return newError(diag.KindArithmetic, pos, "zero raised to a negative power")
			}
			return &value.Number{Value: base.Pow(exp)}
		},
	})

	r.Register(Entry{
		Name: "min", MinArity: 1, MaxArity: 1,
		ArgKinds: []value.Type{value.ARRAY_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			return extremum(c, "min", pos, args[0].(*value.Array), -1)
		},
	})

	r.Register(Entry{
		Name: "max", MinArity: 1, MaxArity: 1,
		ArgKinds: []value.Type{value.ARRAY_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			return extremum(c, "max", pos, args[0].(*value.Array), 1)
		},
	})

	r.Register(Entry{
		Name: "sum", MinArity: 1, MaxArity: 1,
		ArgKinds: []value.Type{value.ARRAY_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			total := decimal.Zero
			for _, e := range args[0].(*value.Array).Elements {
				n, ok := e.(*value.Number)
				if !ok {
					return newError(diag.KindType, pos,
						"sum: array elements must be numbers, got %s", e.Type())
				}
				total = total.Add(n.Value)
			}
			return &value.Number{Value: total}
		},
	})

	r.Register(Entry{
		Name: "avg", MinArity: 1, MaxArity: 1,
		ArgKinds: []value.Type{value.ARRAY_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			elements := args[0].(*value.Array).Elements
			if len(elements) == 0 {
				return value.NULL
			}
			total := decimal.Zero
			for _, e := range elements {
				n, ok := e.(*value.Number)
				if !ok {
					return newError(diag.KindType, pos,
						"avg: array elements must be numbers, got %s", e.Type())
				}
				total = total.Add(n.Value)
			}
			return &value.Number{Value: total.Div(decimal.NewFromInt(int64(len(elements))))}
		},
	})
}

// extremum scans for the smallest (dir -1) or largest (dir 1) element.
// An empty array yields null.
func extremum(c Caller, name string, pos int, arr *value.Array, dir int) value.Value {
	if len(arr.Elements) == 0 {
		return value.NULL
	}
	best := arr.Elements[0]
	for _, e := range arr.Elements[1:] {
		cmp, ok := value.Compare(e, best)
		if !ok {
			return newError(diag.KindType, pos,
				"%s: cannot compare %s with %s", name, e.Type(), best.Type())
		}
		if cmp*dir > 0 {
			best = e
		}
	}
	return best
}
