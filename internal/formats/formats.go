// Package formats holds the input decoders and output encoders that sit in
// front of the interpreter core. Codecs preserve object entry order and
// duplicate keys wherever the carrier format can express them.
package formats

import (
	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/stdlib"
	"github.com/weft-lang/weft/internal/value"
)

type Format interface {
	Name() string
	MediaTypes() []string
	Read(data []byte) (value.Value, *diag.Error)
	Write(v value.Value) ([]byte, *diag.Error)
}

type Registry struct {
	formats []Format
}

// NewRegistry returns a registry with the shipped codecs.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(JSON{})
	r.Register(CSV{})
	r.Register(XML{})
	return r
}

func (r *Registry) Register(f Format) {
	r.formats = append(r.formats, f)
}

// Lookup resolves a format by short name ("json") or media type
// ("application/json").
func (r *Registry) Lookup(name string) (Format, bool) {
	for _, f := range r.formats {
		if f.Name() == name {
			return f, true
		}
		for _, mt := range f.MediaTypes() {
			if mt == name {
				return f, true
			}
		}
	}
	return nil, false
}

// RegisterBuiltins replaces the read/write stubs with codec-backed
// implementations: read(content, format) and write(value, format).
func (r *Registry) RegisterBuiltins(reg *stdlib.Registry) {
	reg.Register(stdlib.Entry{
		Name: "read", MinArity: 2, MaxArity: 2,
		ArgKinds: []value.Type{value.STRING_VAL, value.STRING_VAL},
		Fn: func(c stdlib.Caller, pos int, args []value.Value) value.Value {
			name := args[1].(*value.String).Value
			f, ok := r.Lookup(name)
			if !ok {
				return &value.Error{Diag: diag.New(diag.KindFormat, pos,
					"unknown format %q", name)}
			}
			v, err := f.Read([]byte(args[0].(*value.String).Value))
			if err != nil {
				err.Position = pos
				return &value.Error{Diag: err}
			}
			return v
		},
	})

	reg.Register(stdlib.Entry{
		Name: "write", MinArity: 2, MaxArity: 2,
		ArgKinds: []value.Type{"", value.STRING_VAL},
		Fn: func(c stdlib.Caller, pos int, args []value.Value) value.Value {
			name := args[1].(*value.String).Value
			f, ok := r.Lookup(name)
			if !ok {
				return &value.Error{Diag: diag.New(diag.KindFormat, pos,
					"unknown format %q", name)}
			}
			data, err := f.Write(args[0])
			if err != nil {
				err.Position = pos
				return &value.Error{Diag: err}
			}
			return &value.String{Value: string(data)}
		},
	})
}
