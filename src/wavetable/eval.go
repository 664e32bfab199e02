package wavetable

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// Formula evaluation over the bound variables t (phase within one cycle,
// [0,1)) and frame (morph position, [0,1]). Formulas are parsed into an
// expression tree once and interpreted per sample; no dynamic code is ever
// executed. Arguments of sin, cos, tan and tanh are implicitly scaled by 2π
// so that t spanning [0,1) covers exactly one cycle.

// ----- Expression Tree ----- //

type evalEnv struct {
	t      float64
	frame  float64
	reason string // first domain error, empty if none
}

func (env *evalEnv) fail(reason string) {
	if env.reason == "" {
		env.reason = reason
	}
}

type node interface {
	eval(env *evalEnv) float64
}

type numNode float64

func (n numNode) eval(*evalEnv) float64 {
	return float64(n)
}

type varNode int

const (
	varT varNode = iota
	varFrame
)

func (n varNode) eval(env *evalEnv) float64 {
	if n == varFrame {
		return env.frame
	}
	return env.t
}

type negNode struct {
	operand node
}

func (n *negNode) eval(env *evalEnv) float64 {
	return -n.operand.eval(env)
}

type binNode struct {
	op       byte // '+', '-', '*', '/', '^'
	lhs, rhs node
}

func (n *binNode) eval(env *evalEnv) float64 {
	a := n.lhs.eval(env)
	b := n.rhs.eval(env)
	switch n.op {
	case '+':
		return a + b
	case '-':
		return a - b
	case '*':
		return a * b
	case '/':
		if b == 0 {
			env.fail("division by zero")
			return 0
		}
		return a / b
	default: // '^'
		return math.Pow(a, b)
	}
}

type callNode struct {
	name string
	fn   func(env *evalEnv, x float64) float64
	arg  node
}

func (n *callNode) eval(env *evalEnv) float64 {
	return n.fn(env, n.arg.eval(env))
}

var exprFuncs = map[string]func(env *evalEnv, x float64) float64{
	"sin": func(_ *evalEnv, x float64) float64 { return math.Sin(2 * math.Pi * x) },
	"cos": func(_ *evalEnv, x float64) float64 { return math.Cos(2 * math.Pi * x) },
	"tan": func(_ *evalEnv, x float64) float64 { return math.Tan(2 * math.Pi * x) },
	"abs": func(_ *evalEnv, x float64) float64 { return math.Abs(x) },
	"sign": func(_ *evalEnv, x float64) float64 {
		if x > 0 {
			return 1
		}
		if x < 0 {
			return -1
		}
		return 0
	},
	"exp": func(_ *evalEnv, x float64) float64 { return math.Exp(x) },
	"log": func(env *evalEnv, x float64) float64 {
		if x <= 0 {
			env.fail("log of non-positive value")
			return 0
		}
		return math.Log(x)
	},
	"sqrt": func(env *evalEnv, x float64) float64 {
		if x < 0 {
			env.fail("sqrt of negative value")
			return 0
		}
		return math.Sqrt(x)
	},
	"tanh": func(_ *evalEnv, x float64) float64 { return math.Tanh(2 * math.Pi * x) },
}

const supportedFuncs = "sin, cos, tan, abs, sign, exp, log, sqrt, tanh"

// ----- Parser ----- //

// Recursive descent over:
//
//	expr  := term (('+'|'-') term)*
//	term  := unary (('*'|'/') unary)*
//	unary := '-' unary | power
//	power := atom ('^' unary)?
//	atom  := number | 'pi' | 't' | 'frame' | func '(' expr ')' | '(' expr ')'
type exprParser struct {
	src []byte
	pos int
}

// Expression is a parsed, immutable formula.
type Expression struct {
	src  string
	root node
}

// ParseExpression parses a formula over t and frame. Identifiers outside the
// whitelist are rejected here, before any evaluation happens.
func ParseExpression(src string) (*Expression, error) {
	p := &exprParser{src: []byte(src)}
	root, err := p.parseExpr()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExpression, err)
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrInvalidExpression, p.src[p.pos], p.pos)
	}
	return &Expression{src: src, root: root}, nil
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *exprParser) parseExpr() (node, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		c := p.peek()
		if c != '+' && c != '-' {
			return lhs, nil
		}
		p.pos++
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		lhs = &binNode{op: c, lhs: lhs, rhs: rhs}
	}
}

func (p *exprParser) parseTerm() (node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		c := p.peek()
		if c != '*' && c != '/' {
			return lhs, nil
		}
		p.pos++
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = &binNode{op: c, lhs: lhs, rhs: rhs}
	}
}

func (p *exprParser) parseUnary() (node, error) {
	if p.peek() == '-' {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &negNode{operand: operand}, nil
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (node, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.peek() != '^' {
		return base, nil
	}
	p.pos++
	// right associative
	exponent, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &binNode{op: '^', lhs: base, rhs: exponent}, nil
}

func (p *exprParser) parseAtom() (node, error) {
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return inner, nil
	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	case isIdentChar(c):
		return p.parseIdent()
	case c == 0:
		return nil, fmt.Errorf("unexpected end of expression")
	default:
		return nil, fmt.Errorf("unexpected %q at position %d", c, p.pos)
	}
}

func (p *exprParser) parseNumber() (node, error) {
	start := p.pos
	for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '.') {
		p.pos++
	}
	value, err := strconv.ParseFloat(string(p.src[start:p.pos]), 64)
	if err != nil {
		return nil, fmt.Errorf("malformed number %q", p.src[start:p.pos])
	}
	return numNode(value), nil
}

func (p *exprParser) parseIdent() (node, error) {
	start := p.pos
	for p.pos < len(p.src) && isIdentChar(p.src[p.pos]) {
		p.pos++
	}
	name := string(p.src[start:p.pos])
	if p.peek() == '(' {
		fn, ok := exprFuncs[name]
		if !ok {
			return nil, fmt.Errorf("function %q is not supported. Supported functions are: %s", name, supportedFuncs)
		}
		p.pos++
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, fmt.Errorf("missing closing parenthesis after %s(...", name)
		}
		p.pos++
		return &callNode{name: name, fn: fn, arg: arg}, nil
	}
	switch name {
	case "t":
		return varT, nil
	case "frame":
		return varFrame, nil
	case "pi":
		return numNode(math.Pi), nil
	default:
		return nil, fmt.Errorf("identifier %q is not supported. Supported identifiers are: t, frame, pi", name)
	}
}

func isIdentChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

// ----- Evaluation ----- //

// Eval evaluates the formula at one point.
func (e *Expression) Eval(t, frame float64) (float64, error) {
	env := evalEnv{t: t, frame: frame}
	value := e.root.eval(&env)
	if env.reason != "" {
		return 0, fmt.Errorf("%w: %s", ErrInvalidExpression, env.reason)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: non-finite result at t=%v", ErrInvalidExpression, t)
	}
	return value, nil
}

// Waveform evaluates one cycle of the formula, t=i/samples for each sample.
func (e *Expression) Waveform(samples int, frame float64) ([]float64, error) {
	out := make([]float64, samples)
	for i := 0; i < samples; i++ {
		value, err := e.Eval(float64(i)/float64(samples), frame)
		if err != nil {
			return nil, err
		}
		out[i] = value
	}
	return out, nil
}

// GenerateFromEquation builds a frame table by evaluating the formula once
// per frame, frame variable running from 0 to 1. Normalization is two-pass:
// the whole table is rescaled by its global peak so that amplitude stays
// consistent across frames.
func GenerateFromEquation(equation string, numFrames, frameSize int) (*FrameTable, error) {
	if numFrames < 1 {
		numFrames = 1
	}
	expr, err := ParseExpression(equation)
	if err != nil {
		return nil, err
	}
	frames := make([][]float64, numFrames)
	maxAmplitude := 0.0
	for i := 0; i < numFrames; i++ {
		frameValue := 0.0
		if numFrames > 1 {
			frameValue = float64(i) / float64(numFrames-1)
		}
		wave, err := expr.Waveform(frameSize, frameValue)
		if err != nil {
			return nil, err
		}
		frames[i] = wave
		maxAmplitude = math.Max(maxAmplitude, peak(wave))
	}
	if maxAmplitude > 0 {
		for _, frame := range frames {
			floats.Scale(1/maxAmplitude, frame)
		}
	}
	return NewFrameTable(frames)
}
