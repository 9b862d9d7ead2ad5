package value

import (
	"bytes"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/weft-lang/weft/internal/ast"
	"github.com/weft-lang/weft/internal/diag"
)

const (
	NULL_VAL     = "NULL"
	BOOLEAN_VAL  = "BOOLEAN"
	NUMBER_VAL   = "NUMBER"
	STRING_VAL   = "STRING"
	DATETIME_VAL = "DATETIME"

	ARRAY_VAL  = "ARRAY"
	OBJECT_VAL = "OBJECT"

	FUNCTION_VAL = "FUNCTION"
	BUILTIN_VAL  = "BUILTIN"
	ERROR_VAL    = "ERROR"
)

var (
	NULL  = &Null{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

type Type string

type Value interface {
	Type() Type
	Inspect() string
}

type Null struct{}

func (n *Null) Type() Type      { return NULL_VAL }
func (n *Null) Inspect() string { return "null" }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() Type { return BOOLEAN_VAL }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "true"
	}
	return "false"
}

type Number struct {
	Value decimal.Decimal
}

func (n *Number) Type() Type      { return NUMBER_VAL }
func (n *Number) Inspect() string { return FormatNumber(n.Value) }

type String struct {
	Value string
}

func (s *String) Type() Type      { return STRING_VAL }
func (s *String) Inspect() string { return `"` + s.Value + `"` }

type DateTime struct {
	Value time.Time
}

func (d *DateTime) Type() Type      { return DATETIME_VAL }
func (d *DateTime) Inspect() string { return "|" + d.Value.Format(time.RFC3339) + "|" }

type Array struct {
	Elements []Value
}

func (a *Array) Type() Type { return ARRAY_VAL }
func (a *Array) Inspect() string {
	var out bytes.Buffer
	elements := []string{}
	for _, e := range a.Elements {
		elements = append(elements, e.Inspect())
	}
	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")
	return out.String()
}

// Field is a single key/value entry of an Object. Entries keep insertion
// order and keys may repeat.
type Field struct {
	Key   string
	Value Value
}

type Object struct {
	Fields []Field
}

func (o *Object) Type() Type { return OBJECT_VAL }
func (o *Object) Inspect() string {
	var out bytes.Buffer
	fields := []string{}
	for _, f := range o.Fields {
		fields = append(fields, `"`+f.Key+`": `+f.Value.Inspect())
	}
	out.WriteString("{")
	out.WriteString(strings.Join(fields, ", "))
	out.WriteString("}")
	return out.String()
}

// Get returns the value of the first field with the given key.
func (o *Object) Get(key string) (Value, bool) {
	for _, f := range o.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

func (o *Object) Append(key string, v Value) {
	o.Fields = append(o.Fields, Field{Key: key, Value: v})
}

func (o *Object) Keys() []string {
	keys := make([]string, len(o.Fields))
	for i, f := range o.Fields {
		keys[i] = f.Key
	}
	return keys
}

func (o *Object) Values() []Value {
	values := make([]Value, len(o.Fields))
	for i, f := range o.Fields {
		values[i] = f.Value
	}
	return values
}

type Function struct {
	Parameters []*ast.FunctionParameter
	Body       ast.Expression
	Env        *Environment
}

func (f *Function) Type() Type { return FUNCTION_VAL }
func (f *Function) Inspect() string {
	var out bytes.Buffer
	params := []string{}
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") -> ")
	out.WriteString(f.Body.String())
	return out.String()
}

// Builtin is a registry-backed function value. The registry entry itself
// lives outside this package; Name is enough to dispatch through it.
type Builtin struct {
	Name string
}

func (b *Builtin) Type() Type      { return BUILTIN_VAL }
func (b *Builtin) Inspect() string { return "builtin " + b.Name }

// Error is a diagnostic travelling through evaluation as a value. It is
// never observable from the language; the front door unwraps it.
type Error struct {
	Diag *diag.Error
}

func (e *Error) Type() Type      { return ERROR_VAL }
func (e *Error) Inspect() string { return e.Diag.Error() }

func IsError(v Value) bool {
	if v != nil {
		return v.Type() == ERROR_VAL
	}
	return false
}

func NativeBoolToBoolean(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}
