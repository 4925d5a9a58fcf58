package ltlf

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenLParen
	tokenRParen
	tokenNot
	tokenAnd
	tokenOr
	tokenImplies
	tokenEquiv
	tokenNext
	tokenWeakNext
	tokenEventually
	tokenAlways
	tokenUntil
	tokenRelease
	tokenTrue
	tokenFalse
	tokenLast
	tokenIdent
)

var tokenNames = map[tokenKind]string{
	tokenEOF:        "end of input",
	tokenLParen:     "'('",
	tokenRParen:     "')'",
	tokenNot:        "'!'",
	tokenAnd:        "'&&'",
	tokenOr:         "'||'",
	tokenImplies:    "'->'",
	tokenEquiv:      "'<->'",
	tokenNext:       "'X'",
	tokenWeakNext:   "'WX'",
	tokenEventually: "'F'",
	tokenAlways:     "'G'",
	tokenUntil:      "'U'",
	tokenRelease:    "'R'",
	tokenTrue:       "'true'",
	tokenFalse:      "'false'",
	tokenLast:       "'last'",
	tokenIdent:      "identifier",
}

func (k tokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(k))
}

var keywordTokens = map[string]tokenKind{
	"X":     tokenNext,
	"WX":    tokenWeakNext,
	"F":     tokenEventually,
	"G":     tokenAlways,
	"U":     tokenUntil,
	"R":     tokenRelease,
	"true":  tokenTrue,
	"false": tokenFalse,
	"last":  tokenLast,
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lexer splits a formula string into tokens.
// Operators accept both the ASCII forms and the usual logic symbols.
type lexer struct {
	input string
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) tokens() ([]token, error) {
	var out []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.kind == tokenEOF {
			return out, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	start := l.pos
	if l.pos >= len(l.input) {
		return token{kind: tokenEOF, pos: start}, nil
	}

	rest := l.input[l.pos:]
	for _, op := range operatorTable {
		if strings.HasPrefix(rest, op.text) {
			l.pos += len(op.text)
			return token{kind: op.kind, text: op.text, pos: start}, nil
		}
	}

	r, size := utf8.DecodeRuneInString(rest)
	switch {
	case r == '"':
		return l.quoted()
	case isIdentRune(r):
		for l.pos < len(l.input) {
			r, size = utf8.DecodeRuneInString(l.input[l.pos:])
			if !isIdentRune(r) {
				break
			}
			l.pos += size
		}
		text := l.input[start:l.pos]
		if kind, ok := keywordTokens[text]; ok {
			return token{kind: kind, text: text, pos: start}, nil
		}
		return token{kind: tokenIdent, text: text, pos: start}, nil
	}

	return token{}, &ParseError{Input: l.input, Pos: start, Msg: fmt.Sprintf("unexpected character %q", r)}
}

// operatorTable is ordered so that longer operators match before their prefixes.
var operatorTable = []struct {
	text string
	kind tokenKind
}{
	{"<->", tokenEquiv},
	{"<=>", tokenEquiv},
	{"->", tokenImplies},
	{"=>", tokenImplies},
	{"&&", tokenAnd},
	{"||", tokenOr},
	{"&", tokenAnd},
	{"|", tokenOr},
	{"!", tokenNot},
	{"~", tokenNot},
	{"(", tokenLParen},
	{")", tokenRParen},
	{"¬", tokenNot},
	{"∧", tokenAnd},
	{"∨", tokenOr},
	{"→", tokenImplies},
	{"↔", tokenEquiv},
}

func (l *lexer) quoted() (token, error) {
	start := l.pos
	end := l.pos + 1
	for end < len(l.input) {
		switch l.input[end] {
		case '\\':
			end += 2
			continue
		case '"':
			raw := l.input[start : end+1]
			name, err := strconv.Unquote(raw)
			if err != nil {
				return token{}, &ParseError{Input: l.input, Pos: start, Msg: fmt.Sprintf("invalid quoted atom %s", raw)}
			}
			l.pos = end + 1
			return token{kind: tokenIdent, text: name, pos: start}, nil
		}
		end++
	}
	return token{}, &ParseError{Input: l.input, Pos: start, Msg: "unterminated quoted atom"}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}
