package ltlf

import (
	"fmt"
	"strings"
)

// Dialect selects which temporal operators the parser accepts.
type Dialect int

const (
	// DialectLTLf is LTL over finite traces. WX and last are available.
	DialectLTLf Dialect = iota
	// DialectLTL is LTL over infinite traces. WX and last are rejected.
	DialectLTL
)

func (d Dialect) String() string {
	switch d {
	case DialectLTLf:
		return "ltlf"
	case DialectLTL:
		return "ltl"
	}
	return fmt.Sprintf("dialect(%d)", int(d))
}

// ParseError describes a formula that could not be parsed.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q at offset %d: %s", e.Input, e.Pos, e.Msg)
}

// Parse parses an LTLf formula.
func Parse(input string) (Formula, error) {
	return ParseDialect(input, DialectLTLf)
}

// ParseDialect parses a formula using the given dialect.
//
// Precedence from loosest to tightest: <->, ->, ||, &&, U and R, then the
// unary operators ! X WX F G. -> U and R associate to the right.
func ParseDialect(input string, dialect Dialect) (Formula, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &ParseError{Input: input, Msg: "empty formula"}
	}

	tokens, err := newLexer(input).tokens()
	if err != nil {
		return nil, err
	}

	p := &parser{input: input, tokens: tokens, dialect: dialect}
	formula, err := p.parseEquiv()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, p.errorf(tok, "unexpected %s after complete formula", tok.kind)
	}
	return formula, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(input string) Formula {
	formula, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return formula
}

type parser struct {
	input   string
	tokens  []token
	pos     int
	dialect Dialect
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok token, format string, args ...interface{}) error {
	return &ParseError{Input: p.input, Pos: tok.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parseEquiv() (Formula, error) {
	left, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenEquiv {
		p.advance()
		right, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		left = Equiv{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseImplies() (Formula, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokenImplies {
		return left, nil
	}
	p.advance()
	right, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	return Implies{Left: left, Right: right}, nil
}

func (p *parser) parseOr() (Formula, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Formula, error) {
	left, err := p.parseTemporalBinary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenAnd {
		p.advance()
		right, err := p.parseTemporalBinary()
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseTemporalBinary() (Formula, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	switch p.peek().kind {
	case tokenUntil:
		p.advance()
		right, err := p.parseTemporalBinary()
		if err != nil {
			return nil, err
		}
		return Until{Left: left, Right: right}, nil
	case tokenRelease:
		p.advance()
		right, err := p.parseTemporalBinary()
		if err != nil {
			return nil, err
		}
		return Release{Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseUnary() (Formula, error) {
	tok := p.peek()
	switch tok.kind {
	case tokenNot, tokenNext, tokenWeakNext, tokenEventually, tokenAlways:
		p.advance()
		if tok.kind == tokenWeakNext && p.dialect != DialectLTLf {
			return nil, p.errorf(tok, "weak next is only defined over finite traces")
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenNot:
			return Not{F: operand}, nil
		case tokenNext:
			return Next{F: operand}, nil
		case tokenWeakNext:
			return WeakNext{F: operand}, nil
		case tokenEventually:
			return Eventually{F: operand}, nil
		default:
			return Always{F: operand}, nil
		}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Formula, error) {
	tok := p.advance()
	switch tok.kind {
	case tokenLParen:
		inner, err := p.parseEquiv()
		if err != nil {
			return nil, err
		}
		if closing := p.advance(); closing.kind != tokenRParen {
			return nil, p.errorf(closing, "expected ')' but found %s", closing.kind)
		}
		return inner, nil
	case tokenIdent:
		return Atom{Name: tok.text}, nil
	case tokenTrue:
		return Bool{Value: true}, nil
	case tokenFalse:
		return Bool{Value: false}, nil
	case tokenLast:
		if p.dialect != DialectLTLf {
			return nil, p.errorf(tok, "last is only defined over finite traces")
		}
		return Last{}, nil
	}
	return nil, p.errorf(tok, "expected a formula but found %s", tok.kind)
}
