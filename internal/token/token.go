package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT    = "IDENT"    // payload, upper, x, ...
	NUMBER   = "NUMBER"   // 1343.456
	STRING   = "STRING"   // "foobar", possibly carrying interpolation segments
	DATETIME = "DATETIME" // |2003-10-01T23:57:59Z|

	// Operators
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"

	CONCAT = "++"
	REMOVE = "--"

	LT    = "<"
	LT_EQ = "<="
	GT    = ">"
	GT_EQ = ">="

	EQ     = "=="
	NOT_EQ = "!="

	ASSIGN = "="
	ARROW  = "->"

	SAFE_DOT = "?."

	// Delimiters
	PERIOD = "."
	COMMA  = ","
	COLON  = ":"

	LPAREN   = "("
	RPAREN   = ")"
	LBRACE   = "{"
	RBRACE   = "}"
	LBRACKET = "["
	RBRACKET = "]"

	// Keywords
	TRUE    = "TRUE"
	FALSE   = "FALSE"
	NULL    = "NULL"
	AND     = "AND"
	OR      = "OR"
	NOT     = "NOT"
	DEFAULT = "DEFAULT"
	IF      = "IF"
	ELSE    = "ELSE"
	MATCH   = "MATCH"
	CASE    = "CASE"
	VAR     = "VAR"
	WHEN    = "WHEN"
)

// Segment is one piece of an interpolated string literal. Literal segments
// carry decoded text; expression segments carry the raw, undecoded source
// slice between `$(` and its matching `)`, to be re-lexed by the parser.
type Segment struct {
	Expr     bool
	Text     string
	Position int // src index of the segment's first byte
}

type Token struct {
	Type     TokenType
	Literal  string
	Position int // the src index of the token
	Segments []Segment
}

var keywords = map[string]TokenType{
	// constants
	"null":  NULL,
	"true":  TRUE,
	"false": FALSE,

	// operators
	"and":     AND,
	"or":      OR,
	"not":     NOT,
	"default": DEFAULT,

	// flow control
	"if":    IF,
	"else":  ELSE,
	"match": MATCH,
	"case":  CASE,
	"when":  WHEN,

	// declarations
	"var": VAR,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
