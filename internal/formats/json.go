package formats

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/value"
)

// JSON decodes through the token stream so entry order and duplicate keys
// survive, and encodes by hand for the same reason: encoding/json's map
// marshalling can express neither.
type JSON struct{}

func (JSON) Name() string         { return "json" }
func (JSON) MediaTypes() []string { return []string{"application/json", "text/json"} }

func (JSON) Read(data []byte) (value.Value, *diag.Error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSON(dec)
	if err != nil {
		return nil, diag.New(diag.KindFormat, 0, "json: %v", err)
	}
	if dec.More() {
		return nil, diag.New(diag.KindFormat, 0, "json: trailing content after document")
	}
	return v, nil
}

func decodeJSON(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (value.Value, error) {
	switch tok := tok.(type) {
	case json.Delim:
		switch tok {
		case '{':
			obj := &value.Object{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key := keyTok.(string)
				v, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				obj.Append(key, v)
			}
			if _, err := dec.Token(); err != nil { // consume }
				return nil, err
			}
			return obj, nil
		case '[':
			arr := &value.Array{Elements: []value.Value{}}
			for dec.More() {
				v, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				arr.Elements = append(arr.Elements, v)
			}
			if _, err := dec.Token(); err != nil { // consume ]
				return nil, err
			}
			return arr, nil
		}
	case string:
		return &value.String{Value: tok}, nil
	case json.Number:
		d, err := decimal.NewFromString(tok.String())
		if err != nil {
			return nil, err
		}
		return &value.Number{Value: d}, nil
	case bool:
		return value.NativeBoolToBoolean(tok), nil
	case nil:
		return value.NULL, nil
	}
	return value.NULL, nil
}

func (JSON) Write(v value.Value) ([]byte, *diag.Error) {
	var buf bytes.Buffer
	if err := encodeJSON(&buf, v, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func encodeJSON(buf *bytes.Buffer, v value.Value, depth int) *diag.Error {
	switch v := v.(type) {
	case *value.Null:
		buf.WriteString("null")
	case *value.Boolean:
		buf.WriteString(v.Inspect())
	case *value.Number:
		buf.WriteString(value.FormatNumber(v.Value))
	case *value.String:
		writeJSONString(buf, v.Value)
	case *value.DateTime:
		writeJSONString(buf, v.Value.Format(time.RFC3339))
	case *value.Array:
		if len(v.Elements) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, e := range v.Elements {
			writeIndent(buf, depth+1)
			if err := encodeJSON(buf, e, depth+1); err != nil {
				return err
			}
			if i < len(v.Elements)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeIndent(buf, depth)
		buf.WriteByte(']')
	case *value.Object:
		if len(v.Fields) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i, f := range v.Fields {
			writeIndent(buf, depth+1)
			writeJSONString(buf, f.Key)
			buf.WriteString(": ")
			if err := encodeJSON(buf, f.Value, depth+1); err != nil {
				return err
			}
			if i < len(v.Fields)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeIndent(buf, depth)
		buf.WriteByte('}')
	default:
		return diag.New(diag.KindFormat, 0, "json: cannot encode %s", v.Type())
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

func writeIndent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
}
