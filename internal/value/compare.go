package value

// Equals reports structural equality. Objects compare field by field in
// entry order, so duplicate keys participate like any other entry.
func Equals(a, b Value) bool {
	switch a := a.(type) {
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *Boolean:
		bb, ok := b.(*Boolean)
		return ok && a.Value == bb.Value
	case *Number:
		bn, ok := b.(*Number)
		return ok && a.Value.Equal(bn.Value)
	case *String:
		bs, ok := b.(*String)
		return ok && a.Value == bs.Value
	case *DateTime:
		bd, ok := b.(*DateTime)
		return ok && a.Value.Equal(bd.Value)
	case *Array:
		ba, ok := b.(*Array)
		if !ok || len(a.Elements) != len(ba.Elements) {
			return false
		}
		for i, e := range a.Elements {
			if !Equals(e, ba.Elements[i]) {
				return false
			}
		}
		return true
	case *Object:
		bo, ok := b.(*Object)
		if !ok || len(a.Fields) != len(bo.Fields) {
			return false
		}
		for i, f := range a.Fields {
			if f.Key != bo.Fields[i].Key || !Equals(f.Value, bo.Fields[i].Value) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// Compare orders two values of the same comparable kind: numbers
// numerically, strings lexically, datetimes chronologically, booleans with
// false before true. The second result is false for any other pairing.
func Compare(a, b Value) (int, bool) {
	switch a := a.(type) {
	case *Number:
		bn, ok := b.(*Number)
		if !ok {
			return 0, false
		}
		return a.Value.Cmp(bn.Value), true
	case *String:
		bs, ok := b.(*String)
		if !ok {
			return 0, false
		}
		switch {
		case a.Value < bs.Value:
			return -1, true
		case a.Value > bs.Value:
			return 1, true
		}
		return 0, true
	case *DateTime:
		bd, ok := b.(*DateTime)
		if !ok {
			return 0, false
		}
		switch {
		case a.Value.Before(bd.Value):
			return -1, true
		case a.Value.After(bd.Value):
			return 1, true
		}
		return 0, true
	case *Boolean:
		bb, ok := b.(*Boolean)
		if !ok {
			return 0, false
		}
		av, bv := 0, 0
		if a.Value {
			av = 1
		}
		if bb.Value {
			bv = 1
		}
		return av - bv, true
	}
	return 0, false
}
