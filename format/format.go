/*
Copyright 2021 by Milo Christiansen

This software is provided 'as-is', without any express or implied warranty. In
no event will the authors be held liable for any damages arising from the use of
this software.

Permission is granted to anyone to use this software for any purpose, including
commercial applications, and to alter it and redistribute it freely, subject to
the following restrictions:

1. The origin of this software must not be misrepresented; you must not claim
that you wrote the original software. If you use this software in a product, an
acknowledgment in the product documentation would be appreciated but is not
required.

2. Altered source versions must be plainly marked as such, and must not be
misrepresented as being the original software.

3. This notice may not be removed or altered from any source distribution.
*/

/*
Package format compiles report format strings and renders them against ledger records.

A format string is literal text with embedded directives. Each directive starts with a percent
sign, followed by an optional "-" to align left, an optional minimum width, an optional "." and
maximum width, and finally a single character selecting what to print:

	d  The entry date.
	X  "* " if cleared, "! " if pending, otherwise nothing.
	C  The entry code in parentheses, followed by a space.
	p  The entry payee.
	n  The account name below the last displayed parent account.
	N  The full account name (A is accepted as well).
	o  The transaction amount, along with the unit cost if there is one.
	t  The computed value of the record.
	T  The computed total of the record.
	|  Fill, sized so the line reaches the configured line width.
	_  Indent, one unit for every parent account already displayed.

A directive may instead end with an expression in parentheses, like "%12(amount * 2)", which is
evaluated for every record. "%%" prints a percent sign.
*/
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/milochristiansen/ledgerfmt/expr"
	"github.com/milochristiansen/ledgerfmt/parse/lex"
)

// Kind selects what an Element prints.
type Kind int

// Element kinds
const (
	KindLiteral Kind = iota
	KindExpr
	KindDate
	KindCleared
	KindCode
	KindPayee
	KindAccountName
	KindAccountFullName
	KindOptAmount
	KindValue
	KindTotal
	KindSpacer
	KindIndent
)

var kindCodes = map[rune]Kind{
	'd': KindDate,
	'X': KindCleared,
	'C': KindCode,
	'p': KindPayee,
	'n': KindAccountName,
	'N': KindAccountFullName,
	'A': KindAccountFullName,
	'o': KindOptAmount,
	't': KindValue,
	'T': KindTotal,
	'|': KindSpacer,
	'_': KindIndent,
}

var kindNames = [...]string{
	KindLiteral:         "literal",
	KindExpr:            "expression",
	KindDate:            "date",
	KindCleared:         "cleared",
	KindCode:            "code",
	KindPayee:           "payee",
	KindAccountName:     "account name",
	KindAccountFullName: "account full name",
	KindOptAmount:       "optional amount",
	KindValue:           "value",
	KindTotal:           "total",
	KindSpacer:          "spacer",
	KindIndent:          "indent",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// maxWidth is the largest minimum or maximum width a directive can have.
const maxWidth = 0xffff

// Element is a single compiled piece of a format string.
type Element struct {
	Kind      Kind
	AlignLeft bool
	MinWidth  int // 0 for no minimum
	MaxWidth  int // 0 for no maximum

	Text string     // KindLiteral only
	Expr *expr.Expr // KindExpr only
}

// Format is a compiled format string. It is never modified after Parse returns, so it may be shared freely.
type Format struct {
	Elements []Element

	src string
}

func (f *Format) String() string {
	return f.src
}

// ErrMalformedDirective is returned by Parse for an unknown directive kind or an unterminated directive.
type ErrMalformedDirective struct {
	Location lex.Location
	Reason   string
}

func (err *ErrMalformedDirective) Error() string {
	return fmt.Sprintf("Malformed format directive at %v: %v", err.Location, err.Reason)
}

// MustParse is like Parse, but panics on error.
func MustParse(src string) *Format {
	f, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return f
}

// Parse compiles a format string. Errors from compiling embedded expressions are returned unchanged.
func Parse(src string) (*Format, error) {
	f := &Format{src: src}
	cr := lex.NewExactCharReader(src)

	// Literal text is sliced out of src, so bytes that are not valid UTF-8 survive.
	var lit strings.Builder
	start := 0
	flush := func(end int) {
		lit.WriteString(src[start:end])
		if lit.Len() > 0 {
			f.Elements = append(f.Elements, Element{Kind: KindLiteral, Text: lit.String()})
			lit.Reset()
		}
	}

	for !cr.EOF {
		if cr.C != '%' {
			cr.Next()
			continue
		}

		at, end := cr.L, cr.O
		cr.Next()
		if cr.Match("%") {
			lit.WriteString(src[start:end])
			start = cr.O
			cr.Next()
			continue
		}
		flush(end)

		el, err := parseDirective(cr, at)
		if err != nil {
			return nil, err
		}
		f.Elements = append(f.Elements, el)
		start = cr.O
	}
	flush(len(src))

	return f, nil
}

// parseDirective reads everything after the percent sign.
func parseDirective(cr *lex.CharReader, at lex.Location) (Element, error) {
	el := Element{}

	if cr.Match("-") {
		el.AlignLeft = true
		cr.Next()
	}

	el.MinWidth = readWidth(cr)

	if cr.Match(".") {
		cr.Next()
		el.MaxWidth = readWidth(cr)
		if el.MinWidth == 0 {
			el.MinWidth = el.MaxWidth
		}
	}

	if cr.EOF {
		return el, &ErrMalformedDirective{at, "directive kind missing"}
	}

	if cr.C == '(' {
		src, err := readExpr(cr, at)
		if err != nil {
			return el, err
		}
		el.Kind = KindExpr
		el.Expr, err = expr.Compile(src)
		return el, err
	}

	kind, ok := kindCodes[cr.C]
	if !ok {
		return el, &ErrMalformedDirective{at, fmt.Sprintf("unknown directive kind %q", cr.C)}
	}
	el.Kind = kind
	cr.Next()
	return el, nil
}

// readWidth reads an optional width. Widths too large to be useful are clamped to maxWidth.
func readWidth(cr *lex.CharReader) int {
	digits := cr.ReadMatch("0123456789", nil)
	if len(digits) == 0 {
		return 0
	}

	w, err := strconv.Atoi(string(digits))
	if err != nil || w > maxWidth {
		return maxWidth
	}
	return w
}

// readExpr reads a parenthesized expression, leaving the reader after the closing parenthesis. Nested
// parentheses and parentheses inside quoted strings are allowed.
func readExpr(cr *lex.CharReader, at lex.Location) (string, error) {
	buf := new(strings.Builder)
	depth := 0
	var quote rune

	for {
		if cr.EOF {
			return "", &ErrMalformedDirective{at, "unterminated expression"}
		}

		c := cr.C
		cr.Next()

		switch {
		case quote != 0:
			if c == '\\' && !cr.EOF {
				buf.WriteRune(c)
				c = cr.C
				cr.Next()
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '`' || c == '\'':
			quote = c
		case c == '(':
			depth++
			if depth == 1 {
				continue
			}
		case c == ')':
			depth--
			if depth == 0 {
				return buf.String(), nil
			}
		}
		buf.WriteRune(c)
	}
}
