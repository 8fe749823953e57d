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

package format_test

import (
	"errors"
	"testing"

	"github.com/milochristiansen/ledgerfmt/expr"
	"github.com/milochristiansen/ledgerfmt/format"
)

func TestParse(t *testing.T) {
	f, err := format.Parse("%-20A%12t\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Elements) != 3 {
		t.Fatalf("Incorrect number of elements: %v", len(f.Elements))
	}

	el := f.Elements[0]
	if el.Kind != format.KindAccountFullName || !el.AlignLeft || el.MinWidth != 20 || el.MaxWidth != 0 {
		t.Errorf("Incorrect element 0: %#v", el)
	}
	el = f.Elements[1]
	if el.Kind != format.KindValue || el.AlignLeft || el.MinWidth != 12 {
		t.Errorf("Incorrect element 1: %#v", el)
	}
	el = f.Elements[2]
	if el.Kind != format.KindLiteral || el.Text != "\n" {
		t.Errorf("Incorrect element 2: %#v", el)
	}
	if f.String() != "%-20A%12t\n" {
		t.Errorf("Incorrect source: %q", f.String())
	}
}

func TestParseElementCount(t *testing.T) {
	cases := []struct {
		src   string
		kinds []format.Kind
	}{
		{"", nil},
		{"plain\ntext", []format.Kind{format.KindLiteral}},
		{"Date: %d %p", []format.Kind{format.KindLiteral, format.KindDate, format.KindLiteral, format.KindPayee}},
		{"%d%X%C%p%n%N%o%t%T%|%_", []format.Kind{
			format.KindDate, format.KindCleared, format.KindCode, format.KindPayee, format.KindAccountName,
			format.KindAccountFullName, format.KindOptAmount, format.KindValue, format.KindTotal,
			format.KindSpacer, format.KindIndent,
		}},
		{"100%% done", []format.Kind{format.KindLiteral}},
		{"%(amount * (2 + 1))!", []format.Kind{format.KindExpr, format.KindLiteral}},
	}

	for _, c := range cases {
		f, err := format.Parse(c.src)
		if err != nil {
			t.Errorf("Unexpected error for %q: %v", c.src, err)
			continue
		}
		if len(f.Elements) != len(c.kinds) {
			t.Errorf("Incorrect number of elements for %q: %v", c.src, len(f.Elements))
			continue
		}
		for i, k := range c.kinds {
			if f.Elements[i].Kind != k {
				t.Errorf("Incorrect kind for element %v of %q: %v", i, c.src, f.Elements[i].Kind)
			}
		}
	}
}

func TestParseDetails(t *testing.T) {
	f := format.MustParse("100%% done")
	if f.Elements[0].Text != "100% done" {
		t.Errorf("Incorrect literal: %q", f.Elements[0].Text)
	}

	f = format.MustParse("%.10p")
	if f.Elements[0].MinWidth != 10 || f.Elements[0].MaxWidth != 10 {
		t.Errorf("Minimum width must default to the maximum width: %#v", f.Elements[0])
	}

	f = format.MustParse("%5.10p")
	if f.Elements[0].MinWidth != 5 || f.Elements[0].MaxWidth != 10 {
		t.Errorf("Incorrect widths: %#v", f.Elements[0])
	}

	f = format.MustParse("%99999999.123456789012345678901p")
	if f.Elements[0].MinWidth != 0xffff || f.Elements[0].MaxWidth != 0xffff {
		t.Errorf("Oversized widths must be clamped: %#v", f.Elements[0])
	}

	f = format.MustParse("%(amount * (2 + 1))")
	if f.Elements[0].Expr.String() != "amount * (2 + 1)" {
		t.Errorf("Incorrect expression: %q", f.Elements[0].Expr)
	}

	f = format.MustParse(`%(payee == ")")`)
	if f.Elements[0].Expr.String() != `payee == ")"` {
		t.Errorf("Incorrect expression: %q", f.Elements[0].Expr)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{"%Q", "abc%", "%(amount", "%-", "%12", `%(payee == ")`} {
		_, err := format.Parse(src)
		var mdErr *format.ErrMalformedDirective
		if !errors.As(err, &mdErr) {
			t.Errorf("Expected ErrMalformedDirective for %q, got: %v", src, err)
		}
	}

	_, err := format.Parse("ab%Q")
	var mdErr *format.ErrMalformedDirective
	if errors.As(err, &mdErr) && (mdErr.Location.Line() != 1 || mdErr.Location.Column() != 3) {
		t.Errorf("Incorrect error location: %v", mdErr.Location)
	}

	_, err = format.Parse("%(1 +)")
	var exprErr *expr.Error
	if !errors.As(err, &exprErr) {
		t.Errorf("Expected expression error, got: %v", err)
	}
}
