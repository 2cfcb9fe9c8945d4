package icalc

import (
	"fmt"
	"strings"
)

// Render produces the canonical parenthesized notation for t:
//
//	a              variable
//	(λa b)         lambda
//	(f a)          application
//	#0{a b}        superposition
//	(dup #0{a b} = v; body)   duplication
//
// Names and label numbers are assigned by order of first appearance, so the
// output is independent of internal identifiers: traces of equal terms print
// identically, and Parse(Render(t)) is structurally equal to t up to
// renaming.
func Render(t Term) string {
	p := &printer{names: map[ID]string{}, labels: map[Label]uint64{}}
	var sb strings.Builder
	p.walk(&sb, t)
	return sb.String()
}

type printer struct {
	names     map[ID]string
	labels    map[Label]uint64
	nextName  int
	nextLabel uint64
}

func (p *printer) name(id ID) string {
	if n, ok := p.names[id]; ok {
		return n
	}
	n := varName(p.nextName)
	p.nextName++
	p.names[id] = n
	return n
}

func (p *printer) label(l Label) uint64 {
	if n, ok := p.labels[l]; ok {
		return n
	}
	n := p.nextLabel
	p.nextLabel++
	p.labels[l] = n
	return n
}

func (p *printer) walk(sb *strings.Builder, t Term) {
	switch t := t.(type) {
	case Var:
		sb.WriteString(p.name(t.ID))
	case Lam:
		sb.WriteString("(λ")
		sb.WriteString(p.name(t.ID))
		sb.WriteByte(' ')
		p.walk(sb, t.Body)
		sb.WriteByte(')')
	case App:
		sb.WriteByte('(')
		p.walk(sb, t.Fun)
		sb.WriteByte(' ')
		p.walk(sb, t.Arg)
		sb.WriteByte(')')
	case Sup:
		fmt.Fprintf(sb, "#%d{", p.label(t.Label))
		p.walk(sb, t.Left)
		sb.WriteByte(' ')
		p.walk(sb, t.Right)
		sb.WriteByte('}')
	case Dup:
		fmt.Fprintf(sb, "(dup #%d{", p.label(t.Label))
		sb.WriteString(p.name(t.ID0))
		sb.WriteByte(' ')
		sb.WriteString(p.name(t.ID1))
		sb.WriteString("} = ")
		p.walk(sb, t.Value)
		sb.WriteString("; ")
		p.walk(sb, t.Body)
		sb.WriteByte(')')
	}
}

// varName maps 0, 1, 2, ... to a, b, ..., z, a1, b1, ...
func varName(i int) string {
	letter := string(rune('a' + i%26))
	if i < 26 {
		return letter
	}
	return fmt.Sprintf("%s%d", letter, i/26)
}
