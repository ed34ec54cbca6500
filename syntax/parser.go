package syntax

import (
	"fmt"
	"io"
	"strconv"

	"coolc/ast"
)

// Parser implements a recursive descent parser producing class declarations
// with a source line on every node.
type Parser struct {
	s    *Scanner
	cur  *Token
	peek *Token
}

// NewParser creates a parser and primes the token stream.
func NewParser(s *Scanner) (*Parser, error) {
	p := &Parser{s: s}
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.next(); err != nil {
		return nil, err
	}

	return p, nil
}

// ParseSource is a convenience for parsing an in-memory program.
func ParseSource(r io.Reader) (*ast.Program, error) {
	p, err := NewParser(NewScanner(r))
	if err != nil {
		return nil, err
	}

	return p.ParseProgram()
}

// next advances the tokens.
func (p *Parser) next() error {
	tok, err := p.s.NextToken()
	if err != nil {
		return err
	}

	p.cur = p.peek
	p.peek = tok
	return nil
}

// parseError builds a syntax error tagged with the offending token.
func (p *Parser) parseError(msg string) error {
	if p.cur.Kind == EOF {
		return fmt.Errorf("[line %d] %s, found end of file", p.cur.Line, msg)
	}

	return fmt.Errorf("[line %d] %s, found '%s'", p.cur.Line, msg, p.cur.Value)
}

// expect consumes the current token if it has the wanted kind.
func (p *Parser) expect(kind int, what string) (*Token, error) {
	if p.cur.Kind != kind {
		return nil, p.parseError("expected " + what)
	}

	tok := p.cur
	if err := p.next(); err != nil {
		return nil, err
	}

	return tok, nil
}

// -----------------------------------------------------------------------------

// ParseProgram parses `[class;]+` until end of file.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}

	for p.cur.Kind != EOF {
		decl, err := p.parseClass()
		if err != nil {
			return nil, err
		}

		prog.Classes = append(prog.Classes, decl)
	}

	return prog, nil
}

// parseClass parses `class TYPE [inherits TYPE] { feature* };`.
func (p *Parser) parseClass() (*ast.ClassDecl, error) {
	start, err := p.expect(CLASS, "'class'")
	if err != nil {
		return nil, err
	}

	name, err := p.expect(TYPEID, "a class name")
	if err != nil {
		return nil, err
	}

	decl := &ast.ClassDecl{Name: name.Value, Line: start.Line}

	if p.cur.Kind == INHERITS {
		if err := p.next(); err != nil {
			return nil, err
		}

		parent, err := p.expect(TYPEID, "a parent class name")
		if err != nil {
			return nil, err
		}
		decl.Parent = parent.Value
	}

	if _, err := p.expect(LBRACE, "'{'"); err != nil {
		return nil, err
	}

	for p.cur.Kind != RBRACE {
		feat, err := p.parseFeature()
		if err != nil {
			return nil, err
		}

		decl.Features = append(decl.Features, feat)
	}

	if _, err := p.expect(RBRACE, "'}'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMI, "';' after class declaration"); err != nil {
		return nil, err
	}

	return decl, nil
}

// parseFeature parses an attribute or method; both start with an object name.
func (p *Parser) parseFeature() (ast.Feature, error) {
	name, err := p.expect(OBJECTID, "a feature name")
	if err != nil {
		return nil, err
	}

	if p.cur.Kind == LPAREN {
		return p.parseMethod(name)
	}

	return p.parseAttribute(name)
}

// parseMethod parses `(params) : TYPE { body };` after the method name.
func (p *Parser) parseMethod(name *Token) (*ast.Method, error) {
	m := &ast.Method{Name: name.Value, Line: name.Line}

	if err := p.next(); err != nil { // consume '('
		return nil, err
	}

	for p.cur.Kind != RPAREN {
		if len(m.Params) > 0 {
			if _, err := p.expect(COMMA, "','"); err != nil {
				return nil, err
			}
		}

		pname, err := p.expect(OBJECTID, "a parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(COLON, "':'"); err != nil {
			return nil, err
		}
		ptype, err := p.expect(TYPEID, "a parameter type")
		if err != nil {
			return nil, err
		}

		m.Params = append(m.Params, ast.Param{Name: pname.Value, Type: ptype.Value})
	}

	if err := p.next(); err != nil { // consume ')'
		return nil, err
	}
	if _, err := p.expect(COLON, "':'"); err != nil {
		return nil, err
	}

	ret, err := p.expect(TYPEID, "a return type")
	if err != nil {
		return nil, err
	}
	m.Return = ret.Value

	if _, err := p.expect(LBRACE, "'{'"); err != nil {
		return nil, err
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	m.Body = body

	if _, err := p.expect(RBRACE, "'}'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMI, "';' after method"); err != nil {
		return nil, err
	}

	return m, nil
}

// parseAttribute parses `: TYPE [<- init];` after the attribute name.
func (p *Parser) parseAttribute(name *Token) (*ast.Attribute, error) {
	a := &ast.Attribute{Name: name.Value, Line: name.Line}

	if _, err := p.expect(COLON, "':'"); err != nil {
		return nil, err
	}

	atype, err := p.expect(TYPEID, "an attribute type")
	if err != nil {
		return nil, err
	}
	a.Type = atype.Value

	if p.cur.Kind == ASSIGN {
		if err := p.next(); err != nil {
			return nil, err
		}

		init, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		a.Init = init
	}

	if _, err := p.expect(SEMI, "';' after attribute"); err != nil {
		return nil, err
	}

	return a, nil
}

// -----------------------------------------------------------------------------

// parseExpr parses a full expression.  Precedence, loosest first: assignment,
// not, comparison, additive, multiplicative, isvoid, ~, dispatch.
func (p *Parser) parseExpr() (ast.Expr, error) {
	if p.cur.Kind == OBJECTID && p.peek.Kind == ASSIGN {
		name := p.cur
		if err := p.next(); err != nil {
			return nil, err
		}
		if err := p.next(); err != nil {
			return nil, err
		}

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		return &ast.Assign{Name: name.Value, Value: value, Line: name.Line}, nil
	}

	return p.parseNot()
}

func (p *Parser) parseNot() (ast.Expr, error) {
	if p.cur.Kind == NOT {
		line := p.cur.Line
		if err := p.next(); err != nil {
			return nil, err
		}

		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		return &ast.UnaryOp{Op: "not", Operand: operand, Line: line}, nil
	}

	return p.parseComparison()
}

// parseComparison parses the non-associative `<`, `<=`, and `=` operators.
func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	if p.cur.Kind == LT || p.cur.Kind == LE || p.cur.Kind == EQ {
		op := p.cur
		if err := p.next(); err != nil {
			return nil, err
		}

		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}

		return &ast.BinaryOp{Op: op.Value, Left: left, Right: right, Line: op.Line}, nil
	}

	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for p.cur.Kind == PLUS || p.cur.Kind == MINUS {
		op := p.cur
		if err := p.next(); err != nil {
			return nil, err
		}

		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}

		left = &ast.BinaryOp{Op: op.Value, Left: left, Right: right, Line: op.Line}
	}

	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.cur.Kind == STAR || p.cur.Kind == FSLASH {
		op := p.cur
		if err := p.next(); err != nil {
			return nil, err
		}

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		left = &ast.BinaryOp{Op: op.Value, Left: left, Right: right, Line: op.Line}
	}

	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	switch p.cur.Kind {
	case ISVOID:
		line := p.cur.Line
		if err := p.next(); err != nil {
			return nil, err
		}

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &ast.IsVoid{Operand: operand, Line: line}, nil
	case TILDE:
		line := p.cur.Line
		if err := p.next(); err != nil {
			return nil, err
		}

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &ast.UnaryOp{Op: "~", Operand: operand, Line: line}, nil
	}

	return p.parseDispatch()
}

// parseDispatch parses a primary expression followed by any chain of
// `[@TYPE].method(args)` suffixes.
func (p *Parser) parseDispatch() (ast.Expr, error) {
	recv, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.cur.Kind == AT || p.cur.Kind == DOT {
		static := ""
		if p.cur.Kind == AT {
			if err := p.next(); err != nil {
				return nil, err
			}

			stype, err := p.expect(TYPEID, "a static dispatch type")
			if err != nil {
				return nil, err
			}
			static = stype.Value
		}

		if _, err := p.expect(DOT, "'.'"); err != nil {
			return nil, err
		}

		method, err := p.expect(OBJECTID, "a method name")
		if err != nil {
			return nil, err
		}

		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}

		recv = &ast.Dispatch{
			Recv:   recv,
			Static: static,
			Method: method.Value,
			Args:   args,
			Line:   method.Line,
		}
	}

	return recv, nil
}

// parseArgs parses a parenthesized, comma-separated argument list.
func (p *Parser) parseArgs() ([]ast.Expr, error) {
	if _, err := p.expect(LPAREN, "'('"); err != nil {
		return nil, err
	}

	var args []ast.Expr
	for p.cur.Kind != RPAREN {
		if len(args) > 0 {
			if _, err := p.expect(COMMA, "','"); err != nil {
				return nil, err
			}
		}

		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
	}

	if err := p.next(); err != nil { // consume ')'
		return nil, err
	}

	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch p.cur.Kind {
	case IF:
		return p.parseCond()
	case WHILE:
		return p.parseWhile()
	case LBRACE:
		return p.parseBlock()
	case LET:
		return p.parseLet()
	case CASE:
		return p.parseCase()
	case NEW:
		line := p.cur.Line
		if err := p.next(); err != nil {
			return nil, err
		}

		tname, err := p.expect(TYPEID, "a class name after 'new'")
		if err != nil {
			return nil, err
		}

		return &ast.New{Type: tname.Value, Line: line}, nil
	case LPAREN:
		line := p.cur.Line
		if err := p.next(); err != nil {
			return nil, err
		}

		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(RPAREN, "')'"); err != nil {
			return nil, err
		}

		return &ast.Paren{Inner: inner, Line: line}, nil
	case INTLIT:
		tok := p.cur
		if err := p.next(); err != nil {
			return nil, err
		}

		value, err := strconv.Atoi(tok.Value)
		if err != nil {
			return nil, fmt.Errorf("[line %d] integer literal out of range", tok.Line)
		}

		return &ast.IntLit{Value: value, Line: tok.Line}, nil
	case STRINGLIT:
		tok := p.cur
		if err := p.next(); err != nil {
			return nil, err
		}

		return &ast.StringLit{Value: tok.Value, Line: tok.Line}, nil
	case BOOLLIT:
		tok := p.cur
		if err := p.next(); err != nil {
			return nil, err
		}

		return &ast.BoolLit{Value: tok.Value == "true", Line: tok.Line}, nil
	case OBJECTID:
		tok := p.cur
		if err := p.next(); err != nil {
			return nil, err
		}

		// an object name directly followed by '(' is an implicit dispatch on
		// self
		if p.cur.Kind == LPAREN {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}

			return &ast.Dispatch{Method: tok.Value, Args: args, Line: tok.Line}, nil
		}

		return &ast.Ident{Name: tok.Value, Line: tok.Line}, nil
	}

	return nil, p.parseError("expected an expression")
}

// parseCond parses `if pred then ... else ... fi`.
func (p *Parser) parseCond() (ast.Expr, error) {
	line := p.cur.Line
	if err := p.next(); err != nil {
		return nil, err
	}

	pred, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(THEN, "'then'"); err != nil {
		return nil, err
	}

	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(ELSE, "'else'"); err != nil {
		return nil, err
	}

	orelse, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(FI, "'fi'"); err != nil {
		return nil, err
	}

	return &ast.Cond{Pred: pred, Then: then, Else: orelse, Line: line}, nil
}

// parseWhile parses `while pred loop body pool`.
func (p *Parser) parseWhile() (ast.Expr, error) {
	line := p.cur.Line
	if err := p.next(); err != nil {
		return nil, err
	}

	pred, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(LOOP, "'loop'"); err != nil {
		return nil, err
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(POOL, "'pool'"); err != nil {
		return nil, err
	}

	return &ast.While{Pred: pred, Body: body, Line: line}, nil
}

// parseBlock parses `{ (expr;)+ }`.
func (p *Parser) parseBlock() (ast.Expr, error) {
	line := p.cur.Line
	if err := p.next(); err != nil {
		return nil, err
	}

	block := &ast.Block{Line: line}
	for p.cur.Kind != RBRACE {
		sub, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(SEMI, "';' after block expression"); err != nil {
			return nil, err
		}

		block.Exprs = append(block.Exprs, sub)
	}

	if len(block.Exprs) == 0 {
		return nil, p.parseError("expected at least one expression in block")
	}

	if err := p.next(); err != nil { // consume '}'
		return nil, err
	}

	return block, nil
}

// parseLet parses `let name : TYPE [<- init] (, ...)* in body`.
func (p *Parser) parseLet() (ast.Expr, error) {
	line := p.cur.Line
	if err := p.next(); err != nil {
		return nil, err
	}

	let := &ast.Let{Line: line}
	for {
		name, err := p.expect(OBJECTID, "a binding name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(COLON, "':'"); err != nil {
			return nil, err
		}
		btype, err := p.expect(TYPEID, "a binding type")
		if err != nil {
			return nil, err
		}

		binding := &ast.LetBinding{Name: name.Value, Type: btype.Value, Line: name.Line}
		if p.cur.Kind == ASSIGN {
			if err := p.next(); err != nil {
				return nil, err
			}

			init, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			binding.Init = init
		}

		let.Bindings = append(let.Bindings, binding)

		if p.cur.Kind != COMMA {
			break
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(IN, "'in'"); err != nil {
		return nil, err
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	let.Body = body

	return let, nil
}

// parseCase parses `case expr of (name : TYPE => expr;)* esac`.
func (p *Parser) parseCase() (ast.Expr, error) {
	line := p.cur.Line
	if err := p.next(); err != nil {
		return nil, err
	}

	scrutinee, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(OF, "'of'"); err != nil {
		return nil, err
	}

	cs := &ast.Case{Scrutinee: scrutinee, Line: line}
	for p.cur.Kind != ESAC {
		name, err := p.expect(OBJECTID, "a branch name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(COLON, "':'"); err != nil {
			return nil, err
		}
		btype, err := p.expect(TYPEID, "a branch type")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(DARROW, "'=>'"); err != nil {
			return nil, err
		}

		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(SEMI, "';' after case branch"); err != nil {
			return nil, err
		}

		cs.Branches = append(cs.Branches, &ast.CaseBranch{
			Name: name.Value,
			Type: btype.Value,
			Body: body,
			Line: name.Line,
		})
	}

	if err := p.next(); err != nil { // consume 'esac'
		return nil, err
	}

	return cs, nil
}
