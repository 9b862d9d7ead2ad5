package stdlib

import (
	"strings"

	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/value"
)

func registerStrings(r *Registry) {
	r.Register(Entry{
		Name: "upper", MinArity: 1, MaxArity: 1,
		ArgKinds: []value.Type{value.STRING_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			return &value.String{Value: strings.ToUpper(args[0].(*value.String).Value)}
		},
	})

	r.Register(Entry{
		Name: "lower", MinArity: 1, MaxArity: 1,
		ArgKinds: []value.Type{value.STRING_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			return &value.String{Value: strings.ToLower(args[0].(*value.String).Value)}
		},
	})

	r.Register(Entry{
		Name: "trim", MinArity: 1, MaxArity: 1,
		ArgKinds: []value.Type{value.STRING_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			return &value.String{Value: strings.TrimSpace(args[0].(*value.String).Value)}
		},
	})

	r.Register(Entry{
		Name: "startsWith", MinArity: 2, MaxArity: 2,
		ArgKinds: []value.Type{value.STRING_VAL, value.STRING_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			s := args[0].(*value.String).Value
			prefix := args[1].(*value.String).Value
			return value.NativeBoolToBoolean(strings.HasPrefix(s, prefix))
		},
	})

	r.Register(Entry{
		Name: "endsWith", MinArity: 2, MaxArity: 2,
		ArgKinds: []value.Type{value.STRING_VAL, value.STRING_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			s := args[0].(*value.String).Value
			suffix := args[1].(*value.String).Value
			return value.NativeBoolToBoolean(strings.HasSuffix(s, suffix))
		},
	})

	r.Register(Entry{
		Name: "contains", MinArity: 2, MaxArity: 2,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			switch subject := args[0].(type) {
			case *value.String:
				sub, ok := args[1].(*value.String)
				if !ok {
					return errOf(diag.ArgumentType("contains", 2, "String",
						string(args[1].Type()), pos))
				}
				return value.NativeBoolToBoolean(strings.Contains(subject.Value, sub.Value))
			case *value.Array:
				for _, e := range subject.Elements {
					if value.Equals(e, args[1]) {
						return value.TRUE
					}
				}
				return value.FALSE
			}
			return errOf(diag.ArgumentType("contains", 1, "String or Array",
				string(args[0].Type()), pos))
		},
	})

	r.Register(Entry{
		Name: "indexOf", MinArity: 2, MaxArity: 2,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			switch subject := args[0].(type) {
			case *value.String:
				sub, ok := args[1].(*value.String)
				if !ok {
					return errOf(diag.ArgumentType("indexOf", 2, "String",
						string(args[1].Type()), pos))
				}
				byteIdx := strings.Index(subject.Value, sub.Value)
				if byteIdx < 0 {
					return numberOfInt(-1)
				}
				return numberOfInt(int64(len([]rune(subject.Value[:byteIdx]))))
			case *value.Array:
				for i, e := range subject.Elements {
					if value.Equals(e, args[1]) {
						return numberOfInt(int64(i))
					}
				}
				return numberOfInt(-1)
			}
			return errOf(diag.ArgumentType("indexOf", 1, "String or Array",
				string(args[0].Type()), pos))
		},
	})

	r.Register(Entry{
		Name: "splitBy", MinArity: 2, MaxArity: 2,
		ArgKinds: []value.Type{value.STRING_VAL, value.STRING_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			parts := strings.Split(args[0].(*value.String).Value, args[1].(*value.String).Value)
			elements := make([]value.Value, len(parts))
			for i, p := range parts {
				elements[i] = &value.String{Value: p}
			}
			return &value.Array{Elements: elements}
		},
	})

	r.Register(Entry{
		Name: "joinBy", MinArity: 2, MaxArity: 2,
		ArgKinds: []value.Type{value.ARRAY_VAL, value.STRING_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			arr := args[0].(*value.Array)
			parts := make([]string, len(arr.Elements))
			for i, e := range arr.Elements {
				parts[i] = value.Stringify(e)
			}
			return &value.String{Value: strings.Join(parts, args[1].(*value.String).Value)}
		},
	})

	r.Register(Entry{
		Name: "replaceAll", MinArity: 3, MaxArity: 3,
		ArgKinds: []value.Type{value.STRING_VAL, value.STRING_VAL, value.STRING_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			s := args[0].(*value.String).Value
			old := args[1].(*value.String).Value
			new := args[2].(*value.String).Value
			return &value.String{Value: strings.ReplaceAll(s, old, new)}
		},
	})
}
