package stdlib

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/value"
)

// The builtins backed by the ports: clock, randomness and the log sink.
func registerPorts(r *Registry) {
	r.Register(Entry{
		Name: "now", MinArity: 0, MaxArity: 0,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			return &value.DateTime{Value: c.Ports().Clock.Now()}
		},
	})

	r.Register(Entry{
		Name: "random", MinArity: 0, MaxArity: 0,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			return &value.Number{Value: decimal.NewFromFloat(c.Ports().Random.Next())}
		},
	})

	r.Register(Entry{
		Name: "randomInt", MinArity: 1, MaxArity: 1,
		ArgKinds: []value.Type{value.NUMBER_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			bound := args[0].(*value.Number).Value
			if !bound.Equal(bound.Truncate(0)) || !bound.IsPositive() {
				return newError(diag.KindType, pos,
					"randomInt: bound must be a positive integer")
			}
			return numberOfInt(c.Ports().Random.NextInt(bound.IntPart()))
		},
	})

	r.Register(Entry{
		Name: "uuid", MinArity: 0, MaxArity: 0,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			return &value.String{Value: uuid.NewString()}
		},
	})

	r.Register(Entry{
		Name: "log", MinArity: 1, MaxArity: 2,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			message := ""
			v := args[0]
			if len(args) == 2 {
				m, ok := args[0].(*value.String)
				if !ok {
					return errOf(diag.ArgumentType("log", 1, "String",
						string(args[0].Type()), pos))
				}
				message = m.Value
				v = args[1]
			}
			c.Ports().Log.Emit("info", message, v)
			return value.NULL
		},
	})
}
