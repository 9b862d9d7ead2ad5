package stdlib

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/value"
)

// The higher-order collection functions. The evaluator dispatches the infix
// operator forms (`items map fn`) through these same entries, so overriding
// one in the registry changes the operator too.
func registerCollections(r *Registry) {
	r.Register(Entry{
		Name: "map", MinArity: 2, MaxArity: 2,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			items, errV := iterable(c, "map", pos, args[0])
			if errV != nil {
				return errV
			}
			result := make([]value.Value, 0, len(items))
			for i, item := range items {
				if cancel := cancelled(c, pos); cancel != nil {
					return cancel
				}
				mapped := c.Apply(pos, args[1], []value.Value{item, numberOfInt(int64(i))})
				if value.IsError(mapped) {
					return mapped
				}
				result = append(result, mapped)
			}
			return &value.Array{Elements: result}
		},
	})

	r.Register(Entry{
		Name: "filter", MinArity: 2, MaxArity: 2,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			items, errV := iterable(c, "filter", pos, args[0])
			if errV != nil {
				return errV
			}
			result := []value.Value{}
			for i, item := range items {
				if cancel := cancelled(c, pos); cancel != nil {
					return cancel
				}
				keep := c.Apply(pos, args[1], []value.Value{item, numberOfInt(int64(i))})
				if value.IsError(keep) {
					return keep
				}
				truth, ok := value.Truthy(keep)
				if !ok {
					return newError(diag.KindType, pos,
						"filter: predicate must return Boolean or Null, got %s", keep.Type())
				}
				if truth {
					result = append(result, item)
				}
			}
			return &value.Array{Elements: result}
		},
	})

	r.Register(Entry{
		Name: "reduce", MinArity: 2, MaxArity: 2,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			items, errV := iterable(c, "reduce", pos, args[0])
			if errV != nil {
				return errV
			}

			// The accumulator seeds from the lambda's second parameter
			// default when one is declared; otherwise the first element
			// seeds and iteration starts at the second.
			var acc value.Value
			start := 0
			if seed, ok := c.EvalParamDefault(args[1], 1); ok {
				if value.IsError(seed) {
					return seed
				}
				acc = seed
			} else {
				if len(items) == 0 {
					return value.NULL
				}
				acc = items[0]
				start = 1
			}

			for _, item := range items[start:] {
				if cancel := cancelled(c, pos); cancel != nil {
					return cancel
				}
				acc = c.Apply(pos, args[1], []value.Value{item, acc})
				if value.IsError(acc) {
					return acc
				}
			}
			return acc
		},
	})

	r.Register(Entry{
		Name: "flatMap", MinArity: 2, MaxArity: 2,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			items, errV := iterable(c, "flatMap", pos, args[0])
			if errV != nil {
				return errV
			}
			result := []value.Value{}
			for i, item := range items {
				if cancel := cancelled(c, pos); cancel != nil {
					return cancel
				}
				mapped := c.Apply(pos, args[1], []value.Value{item, numberOfInt(int64(i))})
				if value.IsError(mapped) {
					return mapped
				}
				arr, ok := mapped.(*value.Array)
				if !ok {
					return newError(diag.KindType, pos,
						"flatMap: function must return Array, got %s", mapped.Type())
				}
				result = append(result, arr.Elements...)
			}
			return &value.Array{Elements: result}
		},
	})

	r.Register(Entry{
		Name: "groupBy", MinArity: 2, MaxArity: 2,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			items, errV := iterable(c, "groupBy", pos, args[0])
			if errV != nil {
				return errV
			}
			groups := map[string]*value.Array{}
			result := &value.Object{}
			for i, item := range items {
				if cancel := cancelled(c, pos); cancel != nil {
					return cancel
				}
				key := c.Apply(pos, args[1], []value.Value{item, numberOfInt(int64(i))})
				if value.IsError(key) {
					return key
				}
				keyStr := value.Stringify(key)
				group, ok := groups[keyStr]
				if !ok {
					group = &value.Array{}
					groups[keyStr] = group
					result.Append(keyStr, group)
				}
				group.Elements = append(group.Elements, item)
			}
			return result
		},
	})

	r.Register(Entry{
		Name: "orderBy", MinArity: 2, MaxArity: 2,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			items, errV := iterable(c, "orderBy", pos, args[0])
			if errV != nil {
				return errV
			}
			type keyed struct {
				item value.Value
				key  value.Value
			}
			pairs := make([]keyed, len(items))
			for i, item := range items {
				if cancel := cancelled(c, pos); cancel != nil {
					return cancel
				}
				key := c.Apply(pos, args[1], []value.Value{item, numberOfInt(int64(i))})
				if value.IsError(key) {
					return key
				}
				pairs[i] = keyed{item: item, key: key}
			}

			var sortErr value.Value
			sort.SliceStable(pairs, func(i, j int) bool {
				cmp, ok := value.Compare(pairs[i].key, pairs[j].key)
				if !ok {
					if sortErr == nil {
						sortErr = newError(diag.KindType, pos,
							"orderBy: cannot compare %s with %s",
							pairs[i].key.Type(), pairs[j].key.Type())
					}
					return false
				}
				return cmp < 0
			})
			if sortErr != nil {
				return sortErr
			}

			result := make([]value.Value, len(pairs))
			for i, p := range pairs {
				result[i] = p.item
			}
			return &value.Array{Elements: result}
		},
	})

	r.Register(Entry{
		Name: "distinctBy", MinArity: 2, MaxArity: 2,
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			items, errV := iterable(c, "distinctBy", pos, args[0])
			if errV != nil {
				return errV
			}
			seen := map[string]bool{}
			result := []value.Value{}
			for i, item := range items {
				if cancel := cancelled(c, pos); cancel != nil {
					return cancel
				}
				key := c.Apply(pos, args[1], []value.Value{item, numberOfInt(int64(i))})
				if value.IsError(key) {
					return key
				}
				keyStr := value.Stringify(key)
				if !seen[keyStr] {
					seen[keyStr] = true
					result = append(result, item)
				}
			}
			return &value.Array{Elements: result}
		},
	})

	r.Register(Entry{
		Name: "to", MinArity: 2, MaxArity: 2,
		ArgKinds: []value.Type{value.NUMBER_VAL, value.NUMBER_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			from := args[0].(*value.Number).Value
			until := args[1].(*value.Number).Value
			if !from.Equal(from.Truncate(0)) || !until.Equal(until.Truncate(0)) {
				return newError(diag.KindType, pos, "to: range bounds must be integers")
			}
			step := decimal.NewFromInt(1)
			if from.GreaterThan(until) {
				step = decimal.NewFromInt(-1)
			}
			elements := []value.Value{}
			for cur := from; ; cur = cur.Add(step) {
				if cancel := cancelled(c, pos); cancel != nil {
					return cancel
				}
				elements = append(elements, &value.Number{Value: cur})
				if cur.Equal(until) {
					break
				}
			}
			return &value.Array{Elements: elements}
		},
	})

	r.Register(Entry{
		Name: "flatten", MinArity: 1, MaxArity: 1,
		ArgKinds: []value.Type{value.ARRAY_VAL},
		Fn: func(c Caller, pos int, args []value.Value) value.Value {
			result := []value.Value{}
			for _, e := range args[0].(*value.Array).Elements {
				if inner, ok := e.(*value.Array); ok {
					result = append(result, inner.Elements...)
				} else {
					result = append(result, e)
				}
			}
			return &value.Array{Elements: result}
		},
	})
}

// iterable adapts a collection subject: arrays iterate their elements,
// objects their values in entry order.
func iterable(c Caller, name string, pos int, v value.Value) ([]value.Value, value.Value) {
	switch v := v.(type) {
	case *value.Array:
		return v.Elements, nil
	case *value.Object:
		return v.Values(), nil
	}
	return nil, errOf(diag.ArgumentType(name, 1, "Array or Object", string(v.Type()), pos))
}

func cancelled(c Caller, pos int) value.Value {
	if err := c.Context().Err(); err != nil {
		return newError(diag.KindCancelled, pos, "evaluation cancelled")
	}
	return nil
}
