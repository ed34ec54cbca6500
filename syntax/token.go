package syntax

// Token represents a token read in by the scanner
type Token struct {
	Kind  int
	Value string

	// Line is the line number starting at 1
	Line int
}

// The various kinds of tokens supported by the scanner
const (
	// keywords
	CLASS = iota
	INHERITS
	IF
	THEN
	ELSE
	FI
	WHILE
	LOOP
	POOL
	LET
	IN
	CASE
	OF
	ESAC
	NEW
	ISVOID
	NOT

	// literals
	INTLIT
	STRINGLIT
	BOOLLIT

	// identifiers: type names start uppercase, object names lowercase
	TYPEID
	OBJECTID

	// operators
	ASSIGN // <-
	DARROW // =>
	LT     // <
	LE     // <=
	EQ     // =
	PLUS   // +
	MINUS  // -
	STAR   // *
	FSLASH // /
	TILDE  // ~
	AT     // @
	DOT    // .

	// punctuation
	LPAREN // (
	RPAREN // )
	LBRACE // {
	RBRACE // }
	SEMI   // ;
	COLON  // :
	COMMA  // ,

	// end of file
	EOF
)

// keywords maps lowercased identifier spellings to keyword kinds
var keywords = map[string]int{
	"class":    CLASS,
	"inherits": INHERITS,
	"if":       IF,
	"then":     THEN,
	"else":     ELSE,
	"fi":       FI,
	"while":    WHILE,
	"loop":     LOOP,
	"pool":     POOL,
	"let":      LET,
	"in":       IN,
	"case":     CASE,
	"of":       OF,
	"esac":     ESAC,
	"new":      NEW,
	"isvoid":   ISVOID,
	"not":      NOT,
}
