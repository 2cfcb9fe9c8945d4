package icalc

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenIdent
	tokenNumber
	tokenLambda
	tokenLParen
	tokenRParen
	tokenLBrace
	tokenRBrace
	tokenHash
	tokenEqual
	tokenSemicolon
	tokenDup
	tokenLet
)

type token struct {
	typ     tokenType
	literal string
}

// Parse reads a term in the canonical notation produced by Render. Lambdas
// accept λ or @. `let x = v; body` is sugar for `((λx body) v)`. Unbound
// names denote free variables; each distinct free name is assigned one id.
// Binder ids and labels are allocated from the supply, so the parsed term
// never collides with other terms built from the same supply.
func Parse(input string, supply *Supply) (Term, error) {
	p := &parser{input: input, supply: supply, scope: map[string]ID{}, free: map[string]ID{}, labels: map[uint64]Label{}}
	p.next()
	t, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	if p.current.typ != tokenEOF {
		return nil, fmt.Errorf("unexpected trailing %q", p.current.literal)
	}
	return t, nil
}

type parser struct {
	input   string
	pos     int
	current token
	supply  *Supply
	scope   map[string]ID
	free    map[string]ID
	labels  map[uint64]Label
}

func (p *parser) next() {
	p.skipWhitespace()
	if p.pos >= len(p.input) {
		p.current = token{typ: tokenEOF}
		return
	}

	r, width := utf8.DecodeRuneInString(p.input[p.pos:])
	switch {
	case r == 'λ' || r == '@':
		p.current = token{typ: tokenLambda, literal: string(r)}
		p.pos += width
	case isLetter(r):
		start := p.pos
		for p.pos < len(p.input) {
			r, width = utf8.DecodeRuneInString(p.input[p.pos:])
			if !isLetter(r) && !isDigit(r) {
				break
			}
			p.pos += width
		}
		lit := p.input[start:p.pos]
		switch lit {
		case "dup":
			p.current = token{typ: tokenDup, literal: lit}
		case "let":
			p.current = token{typ: tokenLet, literal: lit}
		default:
			p.current = token{typ: tokenIdent, literal: lit}
		}
	case isDigit(r):
		start := p.pos
		for p.pos < len(p.input) && isDigit(rune(p.input[p.pos])) {
			p.pos++
		}
		p.current = token{typ: tokenNumber, literal: p.input[start:p.pos]}
	case r == '(':
		p.current = token{typ: tokenLParen, literal: "("}
		p.pos++
	case r == ')':
		p.current = token{typ: tokenRParen, literal: ")"}
		p.pos++
	case r == '{':
		p.current = token{typ: tokenLBrace, literal: "{"}
		p.pos++
	case r == '}':
		p.current = token{typ: tokenRBrace, literal: "}"}
		p.pos++
	case r == '#':
		p.current = token{typ: tokenHash, literal: "#"}
		p.pos++
	case r == '=':
		p.current = token{typ: tokenEqual, literal: "="}
		p.pos++
	case r == ';':
		p.current = token{typ: tokenSemicolon, literal: ";"}
		p.pos++
	default:
		p.current = token{typ: tokenIdent, literal: string(r)}
		p.pos += width
	}
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '$'
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func (p *parser) expect(typ tokenType, what string) (token, error) {
	if p.current.typ != typ {
		return token{}, fmt.Errorf("expected %s, got %q", what, p.current.literal)
	}
	tok := p.current
	p.next()
	return tok, nil
}

// parseSeq parses one or more atoms up to a terminator and folds them into
// left-associated applications.
func (p *parser) parseSeq() (Term, error) {
	t, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.current.typ {
		case tokenEOF, tokenRParen, tokenRBrace, tokenSemicolon:
			return t, nil
		}
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		t = App{Fun: t, Arg: arg}
	}
}

func (p *parser) parseAtom() (Term, error) {
	switch p.current.typ {
	case tokenIdent:
		name := p.current.literal
		p.next()
		return Var{ID: p.lookup(name)}, nil
	case tokenLambda:
		p.next()
		return p.parseLam()
	case tokenLParen:
		p.next()
		t, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRParen, ")"); err != nil {
			return nil, err
		}
		return t, nil
	case tokenHash:
		p.next()
		return p.parseSup()
	case tokenDup:
		p.next()
		return p.parseDup()
	case tokenLet:
		p.next()
		return p.parseLet()
	default:
		return nil, fmt.Errorf("unexpected %q", p.current.literal)
	}
}

func (p *parser) parseLam() (Term, error) {
	name, err := p.expect(tokenIdent, "binder name")
	if err != nil {
		return nil, err
	}
	id := p.supply.FreshID()
	restore := p.bind(name.literal, id)
	body, err := p.parseSeq()
	restore()
	if err != nil {
		return nil, err
	}
	return Lam{ID: id, Body: body}, nil
}

func (p *parser) parseSup() (Term, error) {
	label, err := p.parseLabel()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenLBrace, "{"); err != nil {
		return nil, err
	}
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	right, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenRBrace, "}"); err != nil {
		return nil, err
	}
	return Sup{Label: label, Left: left, Right: right}, nil
}

func (p *parser) parseDup() (Term, error) {
	if _, err := p.expect(tokenHash, "#"); err != nil {
		return nil, err
	}
	label, err := p.parseLabel()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenLBrace, "{"); err != nil {
		return nil, err
	}
	name0, err := p.expect(tokenIdent, "binder name")
	if err != nil {
		return nil, err
	}
	name1, err := p.expect(tokenIdent, "binder name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenRBrace, "}"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenEqual, "="); err != nil {
		return nil, err
	}
	value, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenSemicolon, ";"); err != nil {
		return nil, err
	}
	id0 := p.supply.FreshID()
	id1 := p.supply.FreshID()
	restore0 := p.bind(name0.literal, id0)
	restore1 := p.bind(name1.literal, id1)
	body, err := p.parseSeq()
	restore1()
	restore0()
	if err != nil {
		return nil, err
	}
	return Dup{Label: label, ID0: id0, ID1: id1, Value: value, Body: body}, nil
}

func (p *parser) parseLet() (Term, error) {
	name, err := p.expect(tokenIdent, "binder name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenEqual, "="); err != nil {
		return nil, err
	}
	value, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenSemicolon, ";"); err != nil {
		return nil, err
	}
	id := p.supply.FreshID()
	restore := p.bind(name.literal, id)
	body, err := p.parseSeq()
	restore()
	if err != nil {
		return nil, err
	}
	return App{Fun: Lam{ID: id, Body: body}, Arg: value}, nil
}

func (p *parser) parseLabel() (Label, error) {
	tok, err := p.expect(tokenNumber, "label number")
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(tok.literal, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("label out of range: %q", tok.literal)
	}
	if l, ok := p.labels[n]; ok {
		return l, nil
	}
	l := p.supply.FreshLabel()
	p.labels[n] = l
	return l, nil
}

func (p *parser) bind(name string, id ID) (restore func()) {
	old, had := p.scope[name]
	p.scope[name] = id
	return func() {
		if had {
			p.scope[name] = old
		} else {
			delete(p.scope, name)
		}
	}
}

func (p *parser) lookup(name string) ID {
	if id, ok := p.scope[name]; ok {
		return id
	}
	if id, ok := p.free[name]; ok {
		return id
	}
	id := p.supply.FreshID()
	p.free[name] = id
	return id
}
