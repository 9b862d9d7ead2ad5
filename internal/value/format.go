package value

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatNumber renders a number in canonical form: plain fixed-point, never
// scientific notation, trailing fractional zeros trimmed.
func FormatNumber(d decimal.Decimal) string {
	s := d.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// Stringify renders a value the way string interpolation and coercing
// concatenation see it. Strings come through unquoted; composites use their
// deterministic inspected form.
func Stringify(v Value) string {
	switch v := v.(type) {
	case *Null:
		return ""
	case *Boolean:
		return v.Inspect()
	case *Number:
		return FormatNumber(v.Value)
	case *String:
		return v.Value
	case *DateTime:
		return v.Value.Format(time.RFC3339)
	default:
		return v.Inspect()
	}
}
