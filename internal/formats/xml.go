package formats

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/value"
)

// XML maps elements to objects: attributes become "@name" entries, repeated
// child elements become duplicate keys, and text-only elements decode as
// strings. Mixed content keeps its text under "#text".
type XML struct{}

func (XML) Name() string         { return "xml" }
func (XML) MediaTypes() []string { return []string{"application/xml", "text/xml"} }

func (XML) Read(data []byte) (value.Value, *diag.Error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, diag.New(diag.KindFormat, 0, "xml: no root element")
		}
		if err != nil {
			return nil, diag.New(diag.KindFormat, 0, "xml: %v", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			root, err := decodeXMLElement(dec, start)
			if err != nil {
				return nil, diag.New(diag.KindFormat, 0, "xml: %v", err)
			}
			obj := &value.Object{}
			obj.Append(start.Name.Local, root)
			return obj, nil
		}
	}
}

func decodeXMLElement(dec *xml.Decoder, start xml.StartElement) (value.Value, error) {
	obj := &value.Object{}
	for _, attr := range start.Attr {
		obj.Append("@"+attr.Name.Local, &value.String{Value: attr.Value})
	}

	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			child, err := decodeXMLElement(dec, tok)
			if err != nil {
				return nil, err
			}
			obj.Append(tok.Name.Local, child)
		case xml.CharData:
			text.Write(tok)
		case xml.EndElement:
			trimmed := strings.TrimSpace(text.String())
			if len(obj.Fields) == 0 {
				if trimmed == "" {
					return value.NULL, nil
				}
				return &value.String{Value: trimmed}, nil
			}
			if trimmed != "" {
				obj.Append("#text", &value.String{Value: trimmed})
			}
			return obj, nil
		}
	}
}

func (XML) Write(v value.Value) ([]byte, *diag.Error) {
	obj, ok := v.(*value.Object)
	if !ok || len(obj.Fields) != 1 {
		return nil, diag.New(diag.KindFormat, 0,
			"xml: top-level value must be an Object with a single root entry")
	}

	var buf bytes.Buffer
	root := obj.Fields[0]
	if err := encodeXMLElement(&buf, root.Key, root.Value); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func encodeXMLElement(buf *bytes.Buffer, name string, v value.Value) *diag.Error {
	// repeated elements: an array under a key emits one element per item
	if arr, ok := v.(*value.Array); ok {
		for _, e := range arr.Elements {
			if err := encodeXMLElement(buf, name, e); err != nil {
				return err
			}
		}
		return nil
	}

	obj, ok := v.(*value.Object)
	if !ok {
		buf.WriteString("<" + name + ">")
		escapeXML(buf, value.Stringify(v))
		buf.WriteString("</" + name + ">")
		return nil
	}

	buf.WriteString("<" + name)
	for _, f := range obj.Fields {
		if strings.HasPrefix(f.Key, "@") {
			buf.WriteString(" " + f.Key[1:] + `="`)
			escapeXML(buf, value.Stringify(f.Value))
			buf.WriteString(`"`)
		}
	}
	buf.WriteString(">")

	for _, f := range obj.Fields {
		switch {
		case strings.HasPrefix(f.Key, "@"):
		case f.Key == "#text":
			escapeXML(buf, value.Stringify(f.Value))
		default:
			if err := encodeXMLElement(buf, f.Key, f.Value); err != nil {
				return err
			}
		}
	}

	buf.WriteString("</" + name + ">")
	return nil
}

func escapeXML(buf *bytes.Buffer, s string) {
	_ = xml.EscapeText(buf, []byte(s))
}
