package ast

import (
	"bytes"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/weft-lang/weft/internal/token"
)

// The base Node interface. Trees are immutable after parsing.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() int
}

type Expression interface {
	Node
	expressionNode()
}

// Script is a parsed source: the optional header (version directive, output
// directive, var declarations) and the body expression.
type Script struct {
	Version string
	Output  string
	Vars    []*VarDirective
	Body    Expression
}

func (s *Script) TokenLiteral() string {
	if s.Body != nil {
		return s.Body.TokenLiteral()
	}
	return ""
}

func (s *Script) Pos() int {
	if s.Body != nil {
		return s.Body.Pos()
	}
	return 0
}

func (s *Script) String() string {
	var out bytes.Buffer
	if s.Version != "" {
		out.WriteString("%weft " + s.Version + "\n")
	}
	if s.Output != "" {
		out.WriteString("output " + s.Output + "\n")
	}
	for _, v := range s.Vars {
		out.WriteString(v.String() + "\n")
	}
	if s.Version != "" || s.Output != "" || len(s.Vars) > 0 {
		out.WriteString("---\n")
	}
	if s.Body != nil {
		out.WriteString(s.Body.String())
	}
	return out.String()
}

type VarDirective struct {
	Token token.Token // the token.VAR token
	Name  string
	Value Expression
}

func (v *VarDirective) TokenLiteral() string { return v.Token.Literal }
func (v *VarDirective) Pos() int             { return v.Token.Position }
func (v *VarDirective) String() string {
	return "var " + v.Name + " = " + v.Value.String()
}

type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() int             { return i.Token.Position }
func (i *Identifier) String() string       { return i.Value }

type NumberLiteral struct {
	Token token.Token
	Value decimal.Decimal
}

func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberLiteral) Pos() int             { return nl.Token.Position }
func (nl *NumberLiteral) String() string       { return nl.Token.Literal }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) Pos() int             { return sl.Token.Position }
func (sl *StringLiteral) String() string       { return `"` + sl.Value + `"` }

// StringPart is one segment of an interpolated string. Expr is nil for
// literal text segments.
type StringPart struct {
	Text string
	Expr Expression
}

type InterpolatedString struct {
	Token token.Token
	Parts []StringPart
}

func (is *InterpolatedString) expressionNode()      {}
func (is *InterpolatedString) TokenLiteral() string { return is.Token.Literal }
func (is *InterpolatedString) Pos() int             { return is.Token.Position }
func (is *InterpolatedString) String() string {
	var out bytes.Buffer
	out.WriteString(`"`)
	for _, p := range is.Parts {
		if p.Expr != nil {
			out.WriteString("$(" + p.Expr.String() + ")")
		} else {
			out.WriteString(p.Text)
		}
	}
	out.WriteString(`"`)
	return out.String()
}

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) Pos() int             { return bl.Token.Position }
func (bl *BooleanLiteral) String() string       { return bl.Token.Literal }

type NullLiteral struct {
	Token token.Token
}

func (nl *NullLiteral) expressionNode()      {}
func (nl *NullLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NullLiteral) Pos() int             { return nl.Token.Position }
func (nl *NullLiteral) String() string       { return "null" }

type DateTimeLiteral struct {
	Token token.Token
	Value time.Time
}

func (dl *DateTimeLiteral) expressionNode()      {}
func (dl *DateTimeLiteral) TokenLiteral() string { return dl.Token.Literal }
func (dl *DateTimeLiteral) Pos() int             { return dl.Token.Position }
func (dl *DateTimeLiteral) String() string       { return "|" + dl.Token.Literal + "|" }

type ArrayLiteral struct {
	Token    token.Token // the [ token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) Pos() int             { return al.Token.Position }
func (al *ArrayLiteral) String() string {
	var out bytes.Buffer
	elements := []string{}
	for _, el := range al.Elements {
		elements = append(elements, el.String())
	}
	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")
	return out.String()
}

// ObjectEntry is one key/value pair of an object literal. Guard, when set,
// is the `if` presence condition of the entry.
type ObjectEntry struct {
	Token token.Token // the key token
	Key   string
	Value Expression
	Guard Expression
}

func (oe *ObjectEntry) String() string {
	var out bytes.Buffer
	out.WriteString(oe.Key + ": " + oe.Value.String())
	if oe.Guard != nil {
		out.WriteString(" if " + oe.Guard.String())
	}
	return out.String()
}

type ObjectLiteral struct {
	Token   token.Token // the { token
	Entries []*ObjectEntry
}

func (ol *ObjectLiteral) expressionNode()      {}
func (ol *ObjectLiteral) TokenLiteral() string { return ol.Token.Literal }
func (ol *ObjectLiteral) Pos() int             { return ol.Token.Position }
func (ol *ObjectLiteral) String() string {
	var out bytes.Buffer
	entries := []string{}
	for _, e := range ol.Entries {
		entries = append(entries, e.String())
	}
	out.WriteString("{")
	out.WriteString(strings.Join(entries, ", "))
	out.WriteString("}")
	return out.String()
}

// SelectorExpression is `left.key`, or `left?.key` when Safe is set.
type SelectorExpression struct {
	Token token.Token // the . or ?. token
	Left  Expression
	Key   string
	Safe  bool
}

func (se *SelectorExpression) expressionNode()      {}
func (se *SelectorExpression) TokenLiteral() string { return se.Token.Literal }
func (se *SelectorExpression) Pos() int             { return se.Token.Position }
func (se *SelectorExpression) String() string {
	op := "."
	if se.Safe {
		op = "?."
	}
	return "(" + se.Left.String() + op + se.Key + ")"
}

type IndexExpression struct {
	Token token.Token // the [ token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) Pos() int             { return ie.Token.Position }
func (ie *IndexExpression) String() string {
	return "(" + ie.Left.String() + "[" + ie.Index.String() + "])"
}

type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) Pos() int             { return pe.Token.Position }
func (pe *PrefixExpression) String() string {
	if pe.Operator == "not" {
		return "(not " + pe.Right.String() + ")"
	}
	return "(" + pe.Operator + pe.Right.String() + ")"
}

// InfixExpression covers the symbolic operators and the identifier operators
// (map, filter, reduce, ...); Operator holds the name either way.
type InfixExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) Pos() int             { return ie.Token.Position }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

// DefaultExpression is `left default right`; right is evaluated lazily.
type DefaultExpression struct {
	Token token.Token
	Left  Expression
	Right Expression
}

func (de *DefaultExpression) expressionNode()      {}
func (de *DefaultExpression) TokenLiteral() string { return de.Token.Literal }
func (de *DefaultExpression) Pos() int             { return de.Token.Position }
func (de *DefaultExpression) String() string {
	return "(" + de.Left.String() + " default " + de.Right.String() + ")"
}

type IfExpression struct {
	Token       token.Token
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (ie *IfExpression) expressionNode()      {}
func (ie *IfExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IfExpression) Pos() int             { return ie.Token.Position }
func (ie *IfExpression) String() string {
	var out bytes.Buffer
	out.WriteString("if (" + ie.Condition.String() + ") " + ie.Consequence.String())
	if ie.Alternative != nil {
		out.WriteString(" else " + ie.Alternative.String())
	}
	return out.String()
}

type FunctionParameter struct {
	Token   token.Token // the parameter name token
	Name    string
	Default Expression
}

func (fp *FunctionParameter) String() string {
	if fp.Default != nil {
		return fp.Name + " = " + fp.Default.String()
	}
	return fp.Name
}

type FunctionLiteral struct {
	Token      token.Token // the ( token
	Parameters []*FunctionParameter
	Body       Expression
}

func (fl *FunctionLiteral) expressionNode()      {}
func (fl *FunctionLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FunctionLiteral) Pos() int             { return fl.Token.Position }
func (fl *FunctionLiteral) String() string {
	var out bytes.Buffer
	params := []string{}
	for _, p := range fl.Parameters {
		params = append(params, p.String())
	}
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") -> ")
	out.WriteString(fl.Body.String())
	return out.String()
}

type CallExpression struct {
	Token     token.Token // the ( token
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) Pos() int             { return ce.Token.Position }
func (ce *CallExpression) String() string {
	var out bytes.Buffer
	args := []string{}
	for _, a := range ce.Arguments {
		args = append(args, a.String())
	}
	out.WriteString(ce.Function.String())
	out.WriteString("(")
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")
	return out.String()
}

// MatchCase is one clause of a match expression. Exactly one of Pattern,
// Binding or IsElse is set; Guard may accompany Pattern or Binding.
type MatchCase struct {
	Token   token.Token
	Pattern Expression
	Binding *Identifier
	Guard   Expression
	Body    Expression
	IsElse  bool
}

func (mc *MatchCase) String() string {
	var out bytes.Buffer
	switch {
	case mc.IsElse:
		out.WriteString("else")
	case mc.Binding != nil:
		out.WriteString("case var " + mc.Binding.Value)
	default:
		out.WriteString("case " + mc.Pattern.String())
	}
	if mc.Guard != nil {
		out.WriteString(" when " + mc.Guard.String())
	}
	out.WriteString(" -> " + mc.Body.String())
	return out.String()
}

type MatchExpression struct {
	Token   token.Token // the match token
	Subject Expression
	Cases   []*MatchCase
}

func (me *MatchExpression) expressionNode()      {}
func (me *MatchExpression) TokenLiteral() string { return me.Token.Literal }
func (me *MatchExpression) Pos() int             { return me.Token.Position }
func (me *MatchExpression) String() string {
	var out bytes.Buffer
	out.WriteString(me.Subject.String() + " match {")
	cases := []string{}
	for _, c := range me.Cases {
		cases = append(cases, c.String())
	}
	out.WriteString(strings.Join(cases, ", "))
	out.WriteString("}")
	return out.String()
}
