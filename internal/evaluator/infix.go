package evaluator

import (
	"github.com/weft-lang/weft/internal/ast"
	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/value"
)

// operatorFunctions maps identifier-infix operators to the registry entry
// that implements them; `a map f` and `map(a, f)` share one implementation.
var operatorFunctions = map[string]bool{
	"map":        true,
	"filter":     true,
	"reduce":     true,
	"flatMap":    true,
	"groupBy":    true,
	"orderBy":    true,
	"distinctBy": true,
	"to":         true,
}

func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression, env *value.Environment) value.Value {
	// and/or short-circuit, so the right side is not evaluated up front
	if node.Operator == "and" || node.Operator == "or" {
		return e.evalLogicalExpression(node, env)
	}

	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	right := e.Eval(node.Right, env)
	if isError(right) {
		return right
	}

	if operatorFunctions[node.Operator] {
		return e.registry.Call(e, node.Operator, node.Pos(), []value.Value{left, right})
	}

	switch node.Operator {
	case "+", "-", "*", "/":
		return e.evalArithmetic(node, left, right)
	case "++":
		return e.evalConcat(node, left, right)
	case "--":
		return e.evalRemove(node, left, right)
	case "==":
		return value.NativeBoolToBoolean(value.Equals(left, right))
	case "!=":
		return value.NativeBoolToBoolean(!value.Equals(left, right))
	case "<", "<=", ">", ">=":
		return e.evalComparison(node, left, right)
	}
	return e.newError(diag.KindType, node.Pos(), "unknown operator %s", node.Operator)
}

func (e *Evaluator) evalLogicalExpression(node *ast.InfixExpression, env *value.Environment) value.Value {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	leftTruth, ok := value.Truthy(left)
	if !ok {
		return e.newError(diag.KindType, node.Left.Pos(),
			"%s requires Boolean or Null operands, got %s", node.Operator, left.Type())
	}

	if node.Operator == "and" && !leftTruth {
		return value.FALSE
	}
	if node.Operator == "or" && leftTruth {
		return value.TRUE
	}

	right := e.Eval(node.Right, env)
	if isError(right) {
		return right
	}
	rightTruth, ok := value.Truthy(right)
	if !ok {
		return e.newError(diag.KindType, node.Right.Pos(),
			"%s requires Boolean or Null operands, got %s", node.Operator, right.Type())
	}
	return value.NativeBoolToBoolean(rightTruth)
}

func (e *Evaluator) evalArithmetic(node *ast.InfixExpression, left, right value.Value) value.Value {
	// `+` with a string operand concatenates, coercing the other side
	if node.Operator == "+" {
		if ls, ok := left.(*value.String); ok {
			return &value.String{Value: ls.Value + value.Stringify(right)}
		}
		if rs, ok := right.(*value.String); ok {
			return &value.String{Value: value.Stringify(left) + rs.Value}
		}
	}

	ln, lok := left.(*value.Number)
	rn, rok := right.(*value.Number)
	if !lok || !rok {
		return e.newError(diag.KindType, node.Pos(),
			"operator %s requires Number operands, got %s and %s",
			node.Operator, left.Type(), right.Type())
	}

	switch node.Operator {
	case "+":
		return &value.Number{Value: ln.Value.Add(rn.Value)}
	case "-":
		return &value.Number{Value: ln.Value.Sub(rn.Value)}
	case "*":
		return &value.Number{Value: ln.Value.Mul(rn.Value)}
	case "/":
		if rn.Value.IsZero() {
			return e.newError(diag.KindArithmetic, node.Pos(), "division by zero")
		}
		return &value.Number{Value: ln.Value.Div(rn.Value)}
	}
	return e.newError(diag.KindType, node.Pos(), "unknown operator %s", node.Operator)
}

func (e *Evaluator) evalConcat(node *ast.InfixExpression, left, right value.Value) value.Value {
	switch left := left.(type) {
	case *value.String:
		return &value.String{Value: left.Value + value.Stringify(right)}
	case *value.Array:
		ra, ok := right.(*value.Array)
		if !ok {
			return e.newError(diag.KindType, node.Pos(),
				"++ requires Array on both sides, got %s", right.Type())
		}
		elements := make([]value.Value, 0, len(left.Elements)+len(ra.Elements))
		elements = append(elements, left.Elements...)
		elements = append(elements, ra.Elements...)
		return &value.Array{Elements: elements}
	case *value.Object:
		ro, ok := right.(*value.Object)
		if !ok {
			return e.newError(diag.KindType, node.Pos(),
				"++ requires Object on both sides, got %s", right.Type())
		}
		merged := &value.Object{}
		merged.Fields = append(merged.Fields, left.Fields...)
		merged.Fields = append(merged.Fields, ro.Fields...)
		return merged
	}
	if rs, ok := right.(*value.String); ok {
		return &value.String{Value: value.Stringify(left) + rs.Value}
	}
	return e.newError(diag.KindType, node.Pos(),
		"++ is not defined for %s and %s", left.Type(), right.Type())
}

// evalRemove implements `--`: array minus matching elements, object minus
// the keys named by the right-hand array.
func (e *Evaluator) evalRemove(node *ast.InfixExpression, left, right value.Value) value.Value {
	switch left := left.(type) {
	case *value.Array:
		ra, ok := right.(*value.Array)
		if !ok {
			return e.newError(diag.KindType, node.Pos(),
				"-- requires Array on the right, got %s", right.Type())
		}
		result := []value.Value{}
		for _, el := range left.Elements {
			removed := false
			for _, r := range ra.Elements {
				if value.Equals(el, r) {
					removed = true
					break
				}
			}
			if !removed {
				result = append(result, el)
			}
		}
		return &value.Array{Elements: result}
	case *value.Object:
		ra, ok := right.(*value.Array)
		if !ok {
			return e.newError(diag.KindType, node.Pos(),
				"-- requires an Array of keys on the right, got %s", right.Type())
		}
		drop := map[string]bool{}
		for _, r := range ra.Elements {
			key, ok := r.(*value.String)
			if !ok {
				return e.newError(diag.KindType, node.Pos(),
					"-- key list must contain Strings, got %s", r.Type())
			}
			drop[key.Value] = true
		}
		result := &value.Object{}
		for _, f := range left.Fields {
			if !drop[f.Key] {
				result.Append(f.Key, f.Value)
			}
		}
		return result
	}
	return e.newError(diag.KindType, node.Pos(),
		"-- is not defined for %s", left.Type())
}

func (e *Evaluator) evalComparison(node *ast.InfixExpression, left, right value.Value) value.Value {
	cmp, ok := value.Compare(left, right)
	if !ok {
		return e.newError(diag.KindType, node.Pos(),
			"cannot compare %s with %s", left.Type(), right.Type())
	}
	switch node.Operator {
	case "<":
		return value.NativeBoolToBoolean(cmp < 0)
	case "<=":
		return value.NativeBoolToBoolean(cmp <= 0)
	case ">":
		return value.NativeBoolToBoolean(cmp > 0)
	case ">=":
		return value.NativeBoolToBoolean(cmp >= 0)
	}
	return e.newError(diag.KindType, node.Pos(), "unknown operator %s", node.Operator)
}

func (e *Evaluator) evalSelectorExpression(node *ast.SelectorExpression, env *value.Environment) value.Value {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}

	if node.Safe {
		obj, ok := left.(*value.Object)
		if !ok {
			return value.NULL
		}
		if v, found := obj.Get(node.Key); found {
			return v
		}
		return value.NULL
	}

	// selecting from Null yields Null, so a safe step that produced Null
	// short-circuits the rest of its chain
	if _, isNull := left.(*value.Null); isNull {
		return value.NULL
	}

	obj, ok := left.(*value.Object)
	if !ok {
		return e.newError(diag.KindType, node.Pos(),
			"cannot select %q from %s", node.Key, left.Type())
	}
	if v, found := obj.Get(node.Key); found {
		return v
	}
	return value.NULL
}

func (e *Evaluator) evalIndexExpression(node *ast.IndexExpression, env *value.Environment) value.Value {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	index := e.Eval(node.Index, env)
	if isError(index) {
		return index
	}

	switch left := left.(type) {
	case *value.Array:
		return e.indexSequence(node, index, len(left.Elements), func(i int) value.Value {
			return left.Elements[i]
		})
	case *value.String:
		runes := []rune(left.Value)
		return e.indexSequence(node, index, len(runes), func(i int) value.Value {
			return &value.String{Value: string(runes[i])}
		})
	case *value.Object:
		key, ok := index.(*value.String)
		if !ok {
			return e.newError(diag.KindType, node.Pos(),
				"object index must be a String, got %s", index.Type())
		}
		if v, found := left.Get(key.Value); found {
			return v
		}
		return value.NULL
	}
	return e.newError(diag.KindType, node.Pos(),
		"cannot index %s", left.Type())
}

// indexSequence resolves a numeric index with negative-from-end semantics;
// out of range yields null.
func (e *Evaluator) indexSequence(node *ast.IndexExpression, index value.Value, length int, at func(int) value.Value) value.Value {
	n, ok := index.(*value.Number)
	if !ok {
		return e.newError(diag.KindType, node.Pos(),
			"index must be a Number, got %s", index.Type())
	}
	if !n.Value.Equal(n.Value.Truncate(0)) {
		return e.newError(diag.KindType, node.Pos(), "index must be an integer")
	}
	i := int(n.Value.IntPart())
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return value.NULL
	}
	return at(i)
}
