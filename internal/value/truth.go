package value

// Truthy maps a value to its condition-position truth. Only booleans and
// null participate; ok is false for every other kind and the caller raises
// the type error.
func Truthy(v Value) (truth bool, ok bool) {
	switch v := v.(type) {
	case *Boolean:
		return v.Value, true
	case *Null:
		return false, true
	}
	return false, false
}
