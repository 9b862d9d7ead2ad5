package stdlib

import (
	"github.com/shopspring/decimal"
	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/value"
)

var typeNames = map[value.Type]string{
	value.NULL_VAL:     "Null",
	value.BOOLEAN_VAL:  "Boolean",
	value.NUMBER_VAL:   "Number",
	value.STRING_VAL:   "String",
	value.DATETIME_VAL: "DateTime",
	value.ARRAY_VAL:    "Array",
	value.OBJECT_VAL:   "Object",
	value.FUNCTION_VAL: "Function",
	value.BUILTIN_VAL:  "Function",
}

func registerCore(r *Registry) {
	r.Register(Entry{
		Name: "sizeOf", MinArity: 1, MaxArity: 1,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			switch arg := args[0].(type) {
			case *value.String:
				return numberOfInt(int64(len([]rune(arg.Value))))
			case *value.Array:
				return numberOfInt(int64(len(arg.Elements)))
			case *value.Object:
				return numberOfInt(int64(len(arg.Fields)))
			}
			return errOf(diag.ArgumentType("sizeOf", 1, "String, Array or Object",
				string(args[0].Type()), pos))
		},
	})

	r.Register(Entry{
		Name: "typeOf", MinArity: 1, MaxArity: 1,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			return &value.String{Value: typeNames[args[0].Type()]}
		},
	})

	r.Register(Entry{
		Name: "isEmpty", MinArity: 1, MaxArity: 1,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			switch arg := args[0].(type) {
			case *value.Null:
				return value.TRUE
			case *value.String:
				return value.NativeBoolToBoolean(arg.Value == "")
			case *value.Array:
				return value.NativeBoolToBoolean(len(arg.Elements) == 0)
			case *value.Object:
				return value.NativeBoolToBoolean(len(arg.Fields) == 0)
			}
			return errOf(diag.ArgumentType("isEmpty", 1, "Null, String, Array or Object",
				string(args[0].Type()), pos))
		},
	})

	r.Register(Entry{
		Name: "toString", MinArity: 1, MaxArity: 1,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			return &value.String{Value: value.Stringify(args[0])}
		},
	})

	r.Register(Entry{
		Name: "toNumber", MinArity: 1, MaxArity: 1,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			switch arg := args[0].(type) {
			case *value.Number:
				return arg
			case *value.String:
				d, err := decimal.NewFromString(arg.Value)
				if err != nil {
					return newError(diag.KindType, pos,
						"toNumber: cannot parse %q as a number", arg.Value)
				}
				return &value.Number{Value: d}
			}
			return errOf(diag.ArgumentType("toNumber", 1, "String or Number",
				string(args[0].Type()), pos))
		},
	})

	r.Register(Entry{
		Name: "keysOf", MinArity: 1, MaxArity: 1,
		ArgKinds: []value.Type{value.OBJECT_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			obj := args[0].(*value.Object)
			keys := make([]value.Value, len(obj.Fields))
			for i, f := range obj.Fields {
				keys[i] = &value.String{Value: f.Key}
			}
			return &value.Array{Elements: keys}
		},
	})

	r.Register(Entry{
		Name: "valuesOf", MinArity: 1, MaxArity: 1,
		ArgKinds: []value.Type{value.OBJECT_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			return &value.Array{Elements: args[0].(*value.Object).Values()}
		},
	})
}

func numberOfInt(n int64) *value.Number {
	return &value.Number{Value: decimal.NewFromInt(n)}
}
