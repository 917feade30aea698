package numeric

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseError reports a malformed set literal.
type ParseError struct {
	Input  string
	Offset int
	Msg    string
	Err    error // construction error, when the literal was well formed
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %q at offset %d: %s: %v", e.Input, e.Offset, e.Msg, e.Err)
	}
	return fmt.Sprintf("parse %q at offset %d: %s", e.Input, e.Offset, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads a set literal.
//
//	5               single point
//	[1, 2]          closed interval; [3] is a single point
//	[-inf, 0]       unbounded below
//	100 ± 5%        relative tolerance (also "+/-")
//	100 ± 2         absolute tolerance
//	{[1, 3], 7}     union of elements; {} is the empty set
func Parse(text string) (Set, error) {
	p := &parser{src: text}
	p.skipSpace()

	var s Set
	if p.accept("{") {
		var ivs []Interval
		p.skipSpace()
		if !p.accept("}") {
			for {
				iv, err := p.element()
				if err != nil {
					return Set{}, err
				}
				ivs = append(ivs, iv)
				p.skipSpace()
				if p.accept("}") {
					break
				}
				if !p.accept(",") {
					return Set{}, p.fail("expected ',' or '}'")
				}
			}
		}
		s = NewSet(ivs)
	} else {
		iv, err := p.element()
		if err != nil {
			return Set{}, err
		}
		s = Of(iv)
	}

	p.skipSpace()
	if p.pos != len(p.src) {
		return Set{}, p.fail("unexpected trailing input")
	}
	return s, nil
}

// MustParse is like Parse but panics on error.
// Use only in tests or for literals known to be valid.
func MustParse(text string) Set {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseInterval reads a literal that must denote exactly one interval.
func ParseInterval(text string) (Interval, error) {
	s, err := Parse(text)
	if err != nil {
		return Interval{}, err
	}
	if s.Len() != 1 {
		return Interval{}, &ParseError{Input: text, Msg: fmt.Sprintf("expected one interval, got %d", s.Len())}
	}
	return s.ivs[0], nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) fail(msg string) error {
	return &ParseError{Input: p.src, Offset: p.pos, Msg: msg}
}

func (p *parser) build(start int, min, max float64) (Interval, error) {
	iv, err := NewInterval(min, max)
	if err != nil {
		return Interval{}, &ParseError{Input: p.src, Offset: start, Msg: "invalid interval", Err: err}
	}
	return iv, nil
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

func (p *parser) accept(tok string) bool {
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *parser) element() (Interval, error) {
	p.skipSpace()
	start := p.pos
	if p.accept("[") {
		lo, err := p.number()
		if err != nil {
			return Interval{}, err
		}
		hi := lo
		p.skipSpace()
		if p.accept(",") {
			if hi, err = p.number(); err != nil {
				return Interval{}, err
			}
			p.skipSpace()
		}
		if !p.accept("]") {
			return Interval{}, p.fail("expected ']'")
		}
		return p.build(start, lo, hi)
	}

	center, err := p.number()
	if err != nil {
		return Interval{}, err
	}
	p.skipSpace()
	if !p.accept("±") && !p.accept("+/-") {
		return p.build(start, center, center)
	}
	tol, err := p.number()
	if err != nil {
		return Interval{}, err
	}
	p.skipSpace()
	if p.accept("%") {
		iv, err := FromCenterRel(center, tol/100)
		if err != nil {
			return Interval{}, &ParseError{Input: p.src, Offset: start, Msg: "invalid tolerance", Err: err}
		}
		return iv, nil
	}
	return p.build(start, center-tol, center+tol)
}

func (p *parser) number() (float64, error) {
	p.skipSpace()
	start := p.pos
	if p.pos < len(p.src) && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
		p.pos++
	}
	if len(p.src)-p.pos >= 3 && strings.EqualFold(p.src[p.pos:p.pos+3], "inf") {
		p.pos += 3
	} else {
		p.digits()
		if p.pos < len(p.src) && p.src[p.pos] == '.' {
			p.pos++
			p.digits()
		}
		if p.pos < len(p.src) && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
			p.pos++
			if p.pos < len(p.src) && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
				p.pos++
			}
			p.digits()
		}
	}

	lit := p.src[start:p.pos]
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		p.pos = start
		return 0, p.fail(fmt.Sprintf("invalid number %q", lit))
	}
	return v, nil
}

func (p *parser) digits() {
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
}
