package formats

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/value"
)

func num(s string) *value.Number {
	return &value.Number{Value: decimal.RequireFromString(s)}
}

func str(s string) *value.String {
	return &value.String{Value: s}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	f, ok := r.Lookup("json")
	require.True(t, ok)
	assert.Equal(t, "json", f.Name())

	f, ok = r.Lookup("application/xml")
	require.True(t, ok)
	assert.Equal(t, "xml", f.Name())

	_, ok = r.Lookup("yaml")
	assert.False(t, ok)
}

func TestJSONReadPreservesOrderAndDuplicates(t *testing.T) {
	v, err := JSON{}.Read([]byte(`{"z": 1, "a": 2, "z": 3}`))
	require.Nil(t, err)

	obj, ok := v.(*value.Object)
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "z"}, obj.Keys())
	assert.Equal(t, `{"z": 1, "a": 2, "z": 3}`, obj.Inspect())
}

func TestJSONReadNumbers(t *testing.T) {
	v, err := JSON{}.Read([]byte(`[0.1, 1e2, 9007199254740993]`))
	require.Nil(t, err)
	assert.Equal(t, "[0.1, 100, 9007199254740993]", v.Inspect())
}

func TestJSONReadErrors(t *testing.T) {
	_, err := JSON{}.Read([]byte(`{"a": }`))
	require.NotNil(t, err)
	assert.Equal(t, diag.KindFormat, err.Kind)

	_, err = JSON{}.Read([]byte(`1 2`))
	require.NotNil(t, err)
	assert.Equal(t, diag.KindFormat, err.Kind)
}

func TestJSONWrite(t *testing.T) {
	obj := &value.Object{}
	obj.Append("name", str("Ada"))
	obj.Append("n", num("2.50"))
	obj.Append("n", value.NULL)
	obj.Append("tags", &value.Array{Elements: []value.Value{str("a"), value.TRUE}})
	obj.Append("empty", &value.Array{Elements: []value.Value{}})

	data, err := JSON{}.Write(obj)
	require.Nil(t, err)
	assert.Equal(t, `{
  "name": "Ada",
  "n": 2.5,
  "n": null,
  "tags": [
    "a",
    true
  ],
  "empty": []
}
`, string(data))
}

func TestJSONWriteRejectsFunctions(t *testing.T) {
	_, err := JSON{}.Write(&value.Builtin{Name: "upper"})
	require.NotNil(t, err)
	assert.Equal(t, diag.KindFormat, err.Kind)
}

func TestJSONRoundTrip(t *testing.T) {
	input := `{"a": [1, {"b": null}], "a": "x"}`
	v, err := JSON{}.Read([]byte(input))
	require.Nil(t, err)

	data, err := JSON{}.Write(v)
	require.Nil(t, err)

	again, err := JSON{}.Read(data)
	require.Nil(t, err)
	assert.True(t, value.Equals(v, again))
}

func TestCSVRead(t *testing.T) {
	v, err := CSV{}.Read([]byte("name,age\nAda,36\nAlan,41\n"))
	require.Nil(t, err)
	assert.Equal(t,
		`[{"name": "Ada", "age": "36"}, {"name": "Alan", "age": "41"}]`,
		v.Inspect())
}

func TestCSVWrite(t *testing.T) {
	row1 := &value.Object{}
	row1.Append("name", str("Ada"))
	row1.Append("age", num("36"))
	row2 := &value.Object{}
	row2.Append("name", str("with,comma"))
	row2.Append("age", value.NULL)

	data, err := CSV{}.Write(&value.Array{Elements: []value.Value{row1, row2}})
	require.Nil(t, err)
	assert.Equal(t, "name,age\nAda,36\n\"with,comma\",\n", string(data))
}

func TestCSVWriteRejectsNonRows(t *testing.T) {
	_, err := CSV{}.Write(str("nope"))
	require.NotNil(t, err)
	assert.Equal(t, diag.KindFormat, err.Kind)

	_, err = CSV{}.Write(&value.Array{Elements: []value.Value{num("1")}})
	require.NotNil(t, err)
	assert.Equal(t, diag.KindFormat, err.Kind)
}

func TestXMLRead(t *testing.T) {
	input := `<order id="7"><item>a</item><item>b</item><empty/></order>`
	v, err := XML{}.Read([]byte(input))
	require.Nil(t, err)
	assert.Equal(t,
		`{"order": {"@id": "7", "item": "a", "item": "b", "empty": null}}`,
		v.Inspect())
}

func TestXMLWrite(t *testing.T) {
	inner := &value.Object{}
	inner.Append("@id", num("7"))
	inner.Append("item", &value.Array{Elements: []value.Value{str("a"), str("b & c")}})
	root := &value.Object{}
	root.Append("order", inner)

	data, err := XML{}.Write(root)
	require.Nil(t, err)
	assert.Equal(t,
		"<order id=\"7\"><item>a</item><item>b &amp; c</item></order>\n",
		string(data))
}

func TestXMLWriteRequiresSingleRoot(t *testing.T) {
	obj := &value.Object{}
	obj.Append("a", num("1"))
	obj.Append("b", num("2"))

	_, err := XML{}.Write(obj)
	require.NotNil(t, err)
	assert.Equal(t, diag.KindFormat, err.Kind)
}

func TestXMLRoundTrip(t *testing.T) {
	input := `<root><a>1</a><b attr="x">two</b></root>`
	v, err := XML{}.Read([]byte(input))
	require.Nil(t, err)

	data, err := XML{}.Write(v)
	require.Nil(t, err)

	again, err := XML{}.Read(data)
	require.Nil(t, err)
	assert.True(t, value.Equals(v, again))
}
