package syntax

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Scanner works like an io.Reader for a source stream, outputting tokens.
type Scanner struct {
	reader *bufio.Reader
	line   int
	curr   rune
}

// NewScanner creates a scanner over the given source stream.
func NewScanner(r io.Reader) *Scanner {
	s := &Scanner{reader: bufio.NewReader(r), line: 1}
	s.readNext()
	return s
}

// scanError builds a lexical error tagged with the current line.
func (s *Scanner) scanError(msg string) error {
	return fmt.Errorf("[line %d] %s", s.line, msg)
}

// readNext advances the scanner one rune; the zero rune marks end of input.
func (s *Scanner) readNext() {
	r, _, err := s.reader.ReadRune()
	if err != nil {
		s.curr = 0
		return
	}

	if s.curr == '\n' {
		s.line++
	}
	s.curr = r
}

// peekNext returns the next rune without consuming it.
func (s *Scanner) peekNext() rune {
	r, _, err := s.reader.ReadRune()
	if err != nil {
		return 0
	}

	s.reader.UnreadRune()
	return r
}

// skipWhitespaceAndComments advances past whitespace, `--` line comments, and
// nested `(* *)` block comments.
func (s *Scanner) skipWhitespaceAndComments() error {
	for {
		switch {
		case unicode.IsSpace(s.curr):
			s.readNext()
		case s.curr == '-' && s.peekNext() == '-':
			for s.curr != '\n' && s.curr != 0 {
				s.readNext()
			}
		case s.curr == '(' && s.peekNext() == '*':
			s.readNext()
			s.readNext()

			depth := 1
			for depth > 0 {
				if s.curr == 0 {
					return s.scanError("EOF in block comment")
				}
				if s.curr == '(' && s.peekNext() == '*' {
					s.readNext()
					s.readNext()
					depth++
					continue
				}
				if s.curr == '*' && s.peekNext() == ')' {
					s.readNext()
					s.readNext()
					depth--
					continue
				}
				s.readNext()
			}
		default:
			return nil
		}
	}
}

// readString consumes a string literal, processing escapes.
func (s *Scanner) readString() (string, error) {
	var sb strings.Builder
	s.readNext() // consume opening quote

	for s.curr != '"' {
		switch s.curr {
		case 0:
			return "", s.scanError("EOF in string constant")
		case '\n':
			return "", s.scanError("unterminated string constant")
		case '\\':
			s.readNext()
			switch s.curr {
			case 'b':
				sb.WriteRune('\b')
			case 't':
				sb.WriteRune('\t')
			case 'n':
				sb.WriteRune('\n')
			case 'f':
				sb.WriteRune('\f')
			default:
				sb.WriteRune(s.curr)
			}
		default:
			sb.WriteRune(s.curr)
		}
		s.readNext()
	}

	s.readNext() // consume closing quote
	return sb.String(), nil
}

// readNumber consumes an integer literal.
func (s *Scanner) readNumber() string {
	var sb strings.Builder
	for unicode.IsDigit(s.curr) {
		sb.WriteRune(s.curr)
		s.readNext()
	}

	return sb.String()
}

// readIdentifier consumes an identifier or keyword.
func (s *Scanner) readIdentifier() string {
	var sb strings.Builder
	for unicode.IsLetter(s.curr) || unicode.IsDigit(s.curr) || s.curr == '_' {
		sb.WriteRune(s.curr)
		s.readNext()
	}

	return sb.String()
}

// operator kinds for the single-rune operators and punctuation
var simpleTokens = map[rune]int{
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': FSLASH,
	'~': TILDE,
	'@': AT,
	'.': DOT,
	'(': LPAREN,
	')': RPAREN,
	'{': LBRACE,
	'}': RBRACE,
	';': SEMI,
	':': COLON,
	',': COMMA,
}

// NextToken reads a single token from the stream.
func (s *Scanner) NextToken() (*Token, error) {
	if err := s.skipWhitespaceAndComments(); err != nil {
		return nil, err
	}

	tok := &Token{Line: s.line}

	switch {
	case s.curr == 0:
		tok.Kind = EOF
	case s.curr == '=':
		if s.peekNext() == '>' {
			tok.Kind, tok.Value = DARROW, "=>"
			s.readNext()
		} else {
			tok.Kind, tok.Value = EQ, "="
		}
		s.readNext()
	case s.curr == '<':
		switch s.peekNext() {
		case '-':
			tok.Kind, tok.Value = ASSIGN, "<-"
			s.readNext()
		case '=':
			tok.Kind, tok.Value = LE, "<="
			s.readNext()
		default:
			tok.Kind, tok.Value = LT, "<"
		}
		s.readNext()
	case s.curr == '"':
		str, err := s.readString()
		if err != nil {
			return nil, err
		}
		tok.Kind, tok.Value = STRINGLIT, str
	case unicode.IsDigit(s.curr):
		tok.Kind, tok.Value = INTLIT, s.readNumber()
	case unicode.IsLetter(s.curr) || s.curr == '_':
		upper := unicode.IsUpper(s.curr)
		ident := s.readIdentifier()

		if kind, ok := keywords[strings.ToLower(ident)]; ok {
			tok.Kind, tok.Value = kind, ident
		} else if lower := strings.ToLower(ident); !upper && (lower == "true" || lower == "false") {
			tok.Kind, tok.Value = BOOLLIT, lower
		} else if upper {
			tok.Kind, tok.Value = TYPEID, ident
		} else {
			tok.Kind, tok.Value = OBJECTID, ident
		}
	default:
		if kind, ok := simpleTokens[s.curr]; ok {
			tok.Kind, tok.Value = kind, string(s.curr)
			s.readNext()
		} else {
			return nil, s.scanError("unexpected character '" + string(s.curr) + "'")
		}
	}

	return tok, nil
}
