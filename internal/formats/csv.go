package formats

import (
	"bytes"
	"encoding/csv"

	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/value"
)

// CSV maps between delimited text and an array of flat objects. The first
// record is the header; cell values decode as strings.
type CSV struct{}

func (CSV) Name() string         { return "csv" }
func (CSV) MediaTypes() []string { return []string{"text/csv", "application/csv"} }

func (CSV) Read(data []byte) (value.Value, *diag.Error) {
	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return nil, diag.New(diag.KindFormat, 0, "csv: %v", err)
	}
	if len(records) == 0 {
		return &value.Array{Elements: []value.Value{}}, nil
	}

	header := records[0]
	rows := make([]value.Value, 0, len(records)-1)
	for _, record := range records[1:] {
		obj := &value.Object{}
		for i, key := range header {
			cell := ""
			if i < len(record) {
				cell = record[i]
			}
			obj.Append(key, &value.String{Value: cell})
		}
		rows = append(rows, obj)
	}
	return &value.Array{Elements: rows}, nil
}

func (CSV) Write(v value.Value) ([]byte, *diag.Error) {
	arr, ok := v.(*value.Array)
	if !ok {
		return nil, diag.New(diag.KindFormat, 0,
			"csv: top-level value must be an Array of Objects, got %s", v.Type())
	}
	if len(arr.Elements) == 0 {
		return []byte{}, nil
	}

	first, ok := arr.Elements[0].(*value.Object)
	if !ok {
		return nil, diag.New(diag.KindFormat, 0,
			"csv: rows must be Objects, got %s", arr.Elements[0].Type())
	}
	header := first.Keys()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, diag.New(diag.KindFormat, 0, "csv: %v", err)
	}

	for _, row := range arr.Elements {
		obj, ok := row.(*value.Object)
		if !ok {
			return nil, diag.New(diag.KindFormat, 0,
				"csv: rows must be Objects, got %s", row.Type())
		}
		record := make([]string, len(header))
		for i, key := range header {
			if cell, found := obj.Get(key); found {
				record[i] = value.Stringify(cell)
			}
		}
		if err := w.Write(record); err != nil {
			return nil, diag.New(diag.KindFormat, 0, "csv: %v", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, diag.New(diag.KindFormat, 0, "csv: %v", err)
	}
	return buf.Bytes(), nil
}
