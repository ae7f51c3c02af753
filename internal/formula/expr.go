package formula

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// expression evaluates an arithmetic expression over variables:
//
//	expr    = term { ("+" | "-") term }
//	term    = power { ("*" | "/" | "%" | ":") power }
//	power   = unary [ "^" power ]
//	unary   = "-" unary | primary
//	primary = operand | "(" expr ")" | "[" expr "]"
//
// An operand is a run of digits, decimal marks and variables, read with the
// same digit concatenation rule as coordinate tokens.
func (e *env) expression(src string) (float64, error) {
	p := &exprParser{env: e, src: src}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	p.skip()
	if p.pos != len(p.src) {
		return 0, eris.Wrapf(errSyntax, "formula: trailing input in %q", src)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, eris.Wrapf(errSyntax, "formula: %q is not finite", src)
	}
	return v, nil
}

type exprParser struct {
	env *env
	src string
	pos int
}

func (p *exprParser) skip() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	p.skip()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *exprParser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *exprParser) term() (float64, error) {
	left, err := p.power()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' && op != '%' && op != ':' {
			return left, nil
		}
		p.pos++
		right, err := p.power()
		if err != nil {
			return 0, err
		}
		switch op {
		case '*':
			left *= right
		case '%':
			if right == 0 {
				return 0, eris.Wrap(errSyntax, "formula: modulo by zero")
			}
			left = math.Mod(left, right)
		default:
			if right == 0 {
				return 0, eris.Wrap(errSyntax, "formula: division by zero")
			}
			left /= right
		}
	}
}

func (p *exprParser) power() (float64, error) {
	base, err := p.unary()
	if err != nil {
		return 0, err
	}
	if p.peek() != '^' {
		return base, nil
	}
	p.pos++
	exp, err := p.power()
	if err != nil {
		return 0, err
	}
	return math.Pow(base, exp), nil
}

func (p *exprParser) unary() (float64, error) {
	if p.peek() == '-' {
		p.pos++
		v, err := p.unary()
		return -v, err
	}
	return p.primary()
}

func (p *exprParser) primary() (float64, error) {
	switch c := p.peek(); {
	case c == '(' || c == '[':
		closer := byte(')')
		if c == '[' {
			closer = ']'
		}
		p.pos++
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.peek() != closer {
			return 0, eris.Wrapf(errSyntax, "formula: expected %q in %q", closer, p.src)
		}
		p.pos++
		return v, nil
	case c == 0:
		return 0, eris.Wrapf(errSyntax, "formula: unexpected end of %q", p.src)
	}

	start := p.pos
	for p.pos < len(p.src) && isOperandByte(p.src[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		return 0, eris.Wrapf(errSyntax, "formula: unexpected %q in %q", p.src[p.pos], p.src)
	}
	digits, err := p.env.concat(p.src[start:p.pos])
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(digits, ",", "."), 64)
	if err != nil {
		return 0, eris.Wrapf(errSyntax, "formula: number %q", digits)
	}
	return v, nil
}

func isOperandByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.' || c == ',' || isVariable(rune(c))
}
