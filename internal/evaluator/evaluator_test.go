package evaluator

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/parser"
	"github.com/weft-lang/weft/internal/ports"
	"github.com/weft-lang/weft/internal/stdlib"
	"github.com/weft-lang/weft/internal/value"
)

func testEval(t *testing.T, src string, payload value.Value) value.Value {
	t.Helper()
	return testEvalWith(t, src, payload, context.Background(), ports.Defaults())
}

func testEvalWith(t *testing.T, src string, payload value.Value, ctx context.Context, prt ports.Ports) value.Value {
	t.Helper()
	script, perr := parser.ParseScript(src)
	require.Nil(t, perr, "parse %q", src)

	env := value.NewEnvironment()
	if payload == nil {
		payload = value.NULL
	}
	env.Define("payload", payload)

	e := New(ctx, src, stdlib.Default(), prt)
	return e.Eval(script, env)
}

func requireInspect(t *testing.T, src, expected string, payload value.Value) {
	t.Helper()
	v := testEval(t, src, payload)
	require.False(t, value.IsError(v), "eval %q: %s", src, v.Inspect())
	require.Equal(t, expected, v.Inspect(), "eval %q", src)
}

func requireErrKind(t *testing.T, src string, kind diag.Kind, payload value.Value) *diag.Error {
	t.Helper()
	v := testEval(t, src, payload)
	errV, ok := v.(*value.Error)
	require.True(t, ok, "eval %q: expected error, got %s", src, v.Inspect())
	require.Equal(t, kind, errV.Diag.Kind, "eval %q: %s", src, errV.Diag)
	return errV.Diag
}

func num(s string) *value.Number {
	return &value.Number{Value: decimal.RequireFromString(s)}
}

func str(s string) *value.String {
	return &value.String{Value: s}
}

func arr(elements ...value.Value) *value.Array {
	return &value.Array{Elements: elements}
}

func obj(pairs ...any) *value.Object {
	o := &value.Object{}
	for i := 0; i < len(pairs); i += 2 {
		o.Append(pairs[i].(string), pairs[i+1].(value.Value))
	}
	return o
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"5 / 2", "2.5"},
		{"2 - 5", "-3"},
		{"0.1 + 0.2", "0.3"},
		{"2.50 + 0", "2.5"},
		{"-3 * 2", "-6"},
		{`"a" + 1`, `"a1"`},
		{`1 + "a"`, `"1a"`},
		{`"n: " + null`, `"n: "`},
	}
	for _, tt := range tests {
		requireInspect(t, tt.input, tt.expected, nil)
	}
}

func TestDivisionByZero(t *testing.T) {
	requireErrKind(t, "1 / 0", diag.KindArithmetic, nil)
}

func TestArithmeticTypeError(t *testing.T) {
	requireErrKind(t, "1 - true", diag.KindType, nil)
	requireErrKind(t, "[1] * 2", diag.KindType, nil)
}

func TestConcatAndRemove(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[1, 2] ++ [3]", "[1, 2, 3]"},
		{`{a: 1} ++ {a: 2}`, `{"a": 1, "a": 2}`},
		{`"ab" ++ 3`, `"ab3"`},
		{`5 ++ "x"`, `"5x"`},
		{"[1, 2, 2, 3] -- [2]", "[1, 3]"},
		{`{a: 1, b: 2} -- ["a"]`, `{"b": 2}`},
	}
	for _, tt := range tests {
		requireInspect(t, tt.input, tt.expected, nil)
	}

	requireErrKind(t, "[1] ++ 2", diag.KindType, nil)
	requireErrKind(t, `1 -- [1]`, diag.KindType, nil)
}

func TestComparisonsAndEquality(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 < 2", "true"},
		{"2 <= 2", "true"},
		{`"a" < "b"`, "true"},
		{"|2024-01-01| < |2024-06-01|", "true"},
		{"1 == 1.0", "true"},
		{"[1, [2]] == [1, [2]]", "true"},
		{"{a: 1} == {a: 1}", "true"},
		{"{a: 1, b: 2} == {b: 2, a: 1}", "false"},
		{"null == null", "true"},
		{`1 != "1"`, "true"},
	}
	for _, tt := range tests {
		requireInspect(t, tt.input, tt.expected, nil)
	}

	requireErrKind(t, `1 < "a"`, diag.KindType, nil)
}

func TestLogicalOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"true and false", "false"},
		{"true or false", "true"},
		{"not false", "true"},
		{"not null", "true"},
		{"null and true", "false"},
		{"null or true", "true"},
		// short circuit: the right side never runs
		{"false and 1 / 0 == 0", "false"},
		{"true or 1 / 0 == 0", "true"},
	}
	for _, tt := range tests {
		requireInspect(t, tt.input, tt.expected, nil)
	}

	requireErrKind(t, "1 and true", diag.KindType, nil)
	requireErrKind(t, "not 1", diag.KindType, nil)
}

func TestDefaultOperator(t *testing.T) {
	payload := obj("name", str("Ada"))
	tests := []struct {
		input    string
		expected string
	}{
		{"null default 1", "1"},
		{"false default 1", "false"},
		{"0 default 1", "0"},
		{`"" default "x"`, `""`},
		{`payload.missing default "X"`, `"X"`},
		{`payload.name default "X"`, `"Ada"`},
		{"null default null default 3", "3"},
	}
	for _, tt := range tests {
		requireInspect(t, tt.input, tt.expected, payload)
	}
}

func TestSelectors(t *testing.T) {
	payload := obj("user", obj("name", str("Ada")))

	requireInspect(t, "payload.user.name", `"Ada"`, payload)
	requireInspect(t, "payload.user.age", "null", payload)
	requireInspect(t, "payload?.missing", "null", payload)
	requireInspect(t, "payload.user.name?.length", "null", payload)
	requireInspect(t, "null?.anything", "null", payload)

	// once a safe step yields null the rest of the chain stays null
	requireInspect(t, "payload?.missing.name", "null", payload)
	requireInspect(t, "payload?.missing.a.b?.c.d", "null", payload)
	requireInspect(t, "null.anything", "null", payload)

	requireErrKind(t, "payload.user.name.length", diag.KindType, payload)
}

func TestIndexing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[10, 20, 30][0]", "10"},
		{"[10, 20, 30][-1]", "30"},
		{"[10, 20, 30][5]", "null"},
		{"[10, 20, 30][-4]", "null"},
		{`"héllo"[1]`, `"é"`},
		{`"abc"[-1]`, `"c"`},
		{`{a: 1, b: 2}["b"]`, "2"},
		{`{a: 1}["z"]`, "null"},
	}
	for _, tt := range tests {
		requireInspect(t, tt.input, tt.expected, nil)
	}

	requireErrKind(t, "[1][0.5]", diag.KindType, nil)
	requireErrKind(t, `{a: 1}[0]`, diag.KindType, nil)
	requireErrKind(t, "true[0]", diag.KindType, nil)
}

func TestObjectGuardsAndDuplicateKeys(t *testing.T) {
	requireInspect(t, "{ a: 1, a: 2, b: 3 if false, c: 4 if true }",
		`{"a": 1, "a": 2, "c": 4}`, nil)
	requireInspect(t, "{ a: 1 if null }", "{}", nil)
	requireErrKind(t, "{ a: 1 if 2 }", diag.KindType, nil)
}

func TestIfExpression(t *testing.T) {
	requireInspect(t, "if (1 > 2) \"a\"", "null", nil)
	requireInspect(t, "if (true) 1 else 2", "1", nil)
	requireInspect(t, "if (false) 1 else 2", "2", nil)
	requireErrKind(t, "if (1) 2", diag.KindType, nil)
}

func TestInterpolation(t *testing.T) {
	payload := obj("name", str("Ada"), "items", arr(num("5"), num("10"), num("20")))

	requireInspect(t, `"Hello, $(payload.name)!"`, `"Hello, Ada!"`, payload)
	requireInspect(t,
		`"Total: $(payload.items reduce ((item, acc = 0) -> acc + item))"`,
		`"Total: 35"`, payload)
	requireInspect(t, `"x$(null)y"`, `"xy"`, payload)
}

func TestLambdas(t *testing.T) {
	requireInspect(t, "((a, b = 10) -> a + b)(1)", "11", nil)
	requireInspect(t, "((a, b = 10) -> a + b)(1, 2)", "3", nil)
	// surplus arguments are dropped
	requireInspect(t, "((a) -> a)(1, 2)", "1", nil)
	// closures
	requireInspect(t, "((x) -> (y) -> x + y)(1)(2)", "3", nil)

	requireErrKind(t, "((a, b) -> a)(1)", diag.KindType, nil)
	requireErrKind(t, "1(2)", diag.KindType, nil)
}

func TestCollectionOperators(t *testing.T) {
	payload := obj("items", arr(num("5"), num("10"), num("20")))

	tests := []struct {
		input    string
		expected string
	}{
		{"payload.items reduce ((item, acc = 0) -> acc + item)", "35"},
		{"payload.items reduce ((item, acc) -> acc + item)", "35"},
		{"[] reduce ((item, acc) -> acc + item)", "null"},
		{"[] reduce ((item, acc = 0) -> acc + item)", "0"},
		{"[1, 2, 3] map (n) -> n * 2", "[2, 4, 6]"},
		{`["a", "b"] map (s, i) -> s + i`, `["a0", "b1"]`},
		{"1 to 6 filter (n) -> mod(n, 2) == 0", "[2, 4, 6]"},
		{"[1, 2] flatMap (n) -> [n, n * 10]", "[1, 10, 2, 20]"},
		{"[1, 2, 1, 3] distinctBy (n) -> n", "[1, 2, 3]"},
		{"5 to 1", "[5, 4, 3, 2, 1]"},
		{"3 to 3", "[3]"},
		{"flatten([[1, 2], [3], 4])", "[1, 2, 3, 4]"},
		// objects iterate their values in entry order
		{"{a: 1, b: 2} map (v) -> v * 10", "[10, 20]"},
		// operator and call form share one implementation
		{"map([1, 2], (n) -> n + 1)", "[2, 3]"},
	}
	for _, tt := range tests {
		requireInspect(t, tt.input, tt.expected, payload)
	}

	requireErrKind(t, "1 map (n) -> n", diag.KindArgumentType, payload)
	requireErrKind(t, "[1] filter (n) -> n", diag.KindType, payload)
	requireErrKind(t, "[1] flatMap (n) -> n", diag.KindType, payload)
	requireErrKind(t, "1.5 to 3", diag.KindType, payload)
}

func TestGroupByAndOrderBy(t *testing.T) {
	payload := obj("rows", arr(
		obj("k", num("1"), "v", str("a")),
		obj("k", num("1"), "v", str("b")),
		obj("k", num("0"), "v", str("c")),
	))

	requireInspect(t, "payload.rows groupBy (r) -> r.k",
		`{"1": [{"k": 1, "v": "a"}, {"k": 1, "v": "b"}], "0": [{"k": 0, "v": "c"}]}`,
		payload)

	// stable: equal keys keep their input order
	requireInspect(t, "(payload.rows orderBy (r) -> r.k) map (r) -> r.v",
		`["c", "a", "b"]`, payload)

	requireErrKind(t, `[1, "a"] orderBy (x) -> x`, diag.KindType, payload)
}

func TestMatchExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"admin" match { case "admin" -> "full", else -> "none" }`, `"full"`},
		{`"guest" match { case "admin" -> "full", else -> "none" }`, `"none"`},
		{`7 match { case var n when n > 5 -> n * 2, else -> 0 }`, "14"},
		{`3 match { case var n when n > 5 -> n * 2, else -> 0 }`, "0"},
		{`1 match { case 1 when false -> "a", case 1 -> "b" }`, `"b"`},
		{`null match { case null -> "nothing", else -> "some" }`, `"nothing"`},
		{`[1, 2] match { case [1, 2] -> "pair", else -> "other" }`, `"pair"`},
	}
	for _, tt := range tests {
		requireInspect(t, tt.input, tt.expected, nil)
	}

	err := requireErrKind(t, `3 match { case 1 -> "one" }`, diag.KindMatch, nil)
	require.Contains(t, err.Message, "no matching clause")
}

func TestBuiltinDispatch(t *testing.T) {
	requireInspect(t, `upper("abc")`, `"ABC"`, nil)
	requireInspect(t, `sizeOf([1, 2])`, "2", nil)
	requireInspect(t, `sizeOf("héllo")`, "5", nil)
	requireInspect(t, `typeOf(1)`, `"Number"`, nil)
	requireInspect(t, `toNumber("2.5") + 0.5`, "3", nil)
	requireInspect(t, `keysOf({a: 1, a: 2})`, `["a", "a"]`, nil)

	requireErrKind(t, "upper(1)", diag.KindArgumentType, nil)
	requireErrKind(t, `upper("a", "b")`, diag.KindType, nil)
	requireErrKind(t, `read("{}", "json")`, diag.KindNotImplemented, nil)
}

func TestUnknownFunction(t *testing.T) {
	err := requireErrKind(t, "nope(1)", diag.KindUnknownFunction, nil)
	require.Contains(t, err.Message, `unknown function "nope"`)

	// outside call position an unresolved name is still a missing binding
	requireErrKind(t, "nope", diag.KindType, nil)
	requireErrKind(t, "nope + 1", diag.KindType, nil)
}

func TestHeaderVars(t *testing.T) {
	src := `%weft 1.0
var rate = 2
var bump = rate + 1
---
rate * payload.n + bump`
	v := testEval(t, src, obj("n", num("3")))
	require.Equal(t, "9", v.Inspect())
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := testEvalWith(t, "sizeOf([1])", nil, ctx, ports.Defaults())
	errV, ok := v.(*value.Error)
	require.True(t, ok)
	require.Equal(t, diag.KindCancelled, errV.Diag.Kind)
}

func TestClockPort(t *testing.T) {
	instant := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	prt := ports.Defaults()
	prt.Clock = ports.FixedClock{Instant: instant}

	v := testEvalWith(t, "now()", nil, context.Background(), prt)
	dt, ok := v.(*value.DateTime)
	require.True(t, ok)
	require.Equal(t, instant, dt.Value)
}

type captureSink struct {
	level   string
	message string
	logged  value.Value
}

func (s *captureSink) Emit(level, message string, v value.Value) {
	s.level = level
	s.message = message
	s.logged = v
}

func TestLogPort(t *testing.T) {
	sink := &captureSink{}
	prt := ports.Defaults()
	prt.Log = sink

	v := testEvalWith(t, `log("checkpoint", 42)`, nil, context.Background(), prt)
	require.Equal(t, value.NULL, v)
	require.Equal(t, "info", sink.level)
	require.Equal(t, "checkpoint", sink.message)
	require.Equal(t, "42", sink.logged.Inspect())
}
