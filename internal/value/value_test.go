package value

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0", "0"},
		{"-0", "0"},
		{"42", "42"},
		{"2.50", "2.5"},
		{"2.000", "2"},
		{"-3.10", "-3.1"},
		{"0.1", "0.1"},
		{"1234567890123456789", "1234567890123456789"},
		{"0.0000001", "0.0000001"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatNumber(dec(tt.input)), "input %s", tt.input)
	}
}

func TestStringify(t *testing.T) {
	dt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		input    Value
		expected string
	}{
		{NULL, ""},
		{TRUE, "true"},
		{&Number{Value: dec("2.50")}, "2.5"},
		{&String{Value: "plain"}, "plain"},
		{&DateTime{Value: dt}, "2024-01-02T03:04:05Z"},
		{&Array{Elements: []Value{&Number{Value: dec("1")}}}, "[1]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Stringify(tt.input))
	}
}

func TestEquals(t *testing.T) {
	a := &Object{}
	a.Append("k", &Number{Value: dec("1")})
	a.Append("k", &Number{Value: dec("2")})

	b := &Object{}
	b.Append("k", &Number{Value: dec("1")})
	b.Append("k", &Number{Value: dec("2")})

	c := &Object{}
	c.Append("k", &Number{Value: dec("2")})
	c.Append("k", &Number{Value: dec("1")})

	assert.True(t, Equals(a, b))
	assert.False(t, Equals(a, c), "entry order participates in equality")

	assert.True(t, Equals(&Number{Value: dec("1")}, &Number{Value: dec("1.0")}))
	assert.True(t, Equals(NULL, &Null{}))
	assert.False(t, Equals(&Number{Value: dec("1")}, &String{Value: "1"}))
	assert.True(t, Equals(
		&Array{Elements: []Value{TRUE, NULL}},
		&Array{Elements: []Value{TRUE, NULL}},
	))
	assert.False(t, Equals(
		&Array{Elements: []Value{TRUE}},
		&Array{Elements: []Value{TRUE, NULL}},
	))
}

func TestCompare(t *testing.T) {
	cmp, ok := Compare(&Number{Value: dec("1")}, &Number{Value: dec("2")})
	require.True(t, ok)
	assert.Negative(t, cmp)

	cmp, ok = Compare(&String{Value: "b"}, &String{Value: "a"})
	require.True(t, ok)
	assert.Positive(t, cmp)

	early := &DateTime{Value: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	late := &DateTime{Value: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	cmp, ok = Compare(early, late)
	require.True(t, ok)
	assert.Negative(t, cmp)

	cmp, ok = Compare(FALSE, TRUE)
	require.True(t, ok)
	assert.Negative(t, cmp)

	_, ok = Compare(&Number{Value: dec("1")}, &String{Value: "1"})
	assert.False(t, ok)
	_, ok = Compare(NULL, NULL)
	assert.False(t, ok)
}

func TestTruthy(t *testing.T) {
	truth, ok := Truthy(TRUE)
	assert.True(t, ok)
	assert.True(t, truth)

	truth, ok = Truthy(NULL)
	assert.True(t, ok)
	assert.False(t, truth)

	_, ok = Truthy(&Number{Value: dec("1")})
	assert.False(t, ok)
	_, ok = Truthy(&String{Value: ""})
	assert.False(t, ok)
}

func TestObjectGetFirstMatch(t *testing.T) {
	o := &Object{}
	o.Append("k", &Number{Value: dec("1")})
	o.Append("k", &Number{Value: dec("2")})

	v, found := o.Get("k")
	require.True(t, found)
	assert.Equal(t, "1", v.Inspect())

	_, found = o.Get("missing")
	assert.False(t, found)

	assert.Equal(t, []string{"k", "k"}, o.Keys())
	require.Len(t, o.Values(), 2)
}

func TestEnvironmentChain(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", &Number{Value: dec("1")})

	inner := NewEnclosedEnvironment(outer)
	inner.Define("y", &Number{Value: dec("2")})

	v, ok := inner.Get("x")
	require.True(t, ok)
	assert.Equal(t, "1", v.Inspect())

	_, ok = outer.Get("y")
	assert.False(t, ok, "inner definitions stay inner")

	// shadowing
	inner.Define("x", &Number{Value: dec("9")})
	v, _ = inner.Get("x")
	assert.Equal(t, "9", v.Inspect())
	v, _ = outer.Get("x")
	assert.Equal(t, "1", v.Inspect())
}
