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

package ledger_test

import (
	"testing"

	"github.com/milochristiansen/ledgerfmt/ledger"
	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in, out   string
		commodity string
	}{
		{"$20.00", "$20.00", "$"},
		{"$-12.00", "$-12.00", "$"},
		{"-$5", "$-5", "$"},
		{"10 AAPL", "10 AAPL", "AAPL"},
		{"1,000.50 EUR", "1000.50 EUR", "EUR"},
		{"42.00", "42.00", ""},
		{"EUR 5.5", "EUR 5.5", "EUR"},
	}

	for _, c := range cases {
		a, err := ledger.ParseAmount(c.in)
		if err != nil {
			t.Errorf("Unexpected error for %q: %v", c.in, err)
			continue
		}
		if a.String() != c.out {
			t.Errorf("Incorrect formatting for %q: %q", c.in, a.String())
		}
		if a.Commodity != c.commodity {
			t.Errorf("Incorrect commodity for %q: %q", c.in, a.Commodity)
		}
	}

	for _, bad := range []string{"", "$", "abc", "10 AA PL", "1.2.3"} {
		_, err := ledger.ParseAmount(bad)
		if _, ok := err.(ledger.ErrMalformedAmount); !ok {
			t.Errorf("Expected ErrMalformedAmount for %q, got: %v", bad, err)
		}
	}
}

func TestAmountRoundsToEven(t *testing.T) {
	a := ledger.Amount{Quantity: decimal.RequireFromString("2.345"), Commodity: "$", Precision: 2, Prefix: true}
	if a.String() != "$2.34" {
		t.Errorf("Incorrect rounding: %v", a)
	}
	a.Quantity = decimal.RequireFromString("2.355")
	if a.String() != "$2.36" {
		t.Errorf("Incorrect rounding: %v", a)
	}
}

func TestBalance(t *testing.T) {
	usd := ledger.NewAmount(decimal.RequireFromString("1.00"), "$")
	aapl := ledger.NewAmount(decimal.NewFromInt(2), "AAPL")

	b := ledger.NewBalance(usd, aapl)
	if b.String() != "$1.00, 2 AAPL" {
		t.Errorf("Incorrect balance: %v", b)
	}
	if lines := b.Lines(); len(lines) != 2 || lines[0] != "$1.00" || lines[1] != "2 AAPL" {
		t.Errorf("Incorrect balance lines: %#v", lines)
	}

	c := b.AddAmount(usd.Neg())
	if c.String() != "2 AAPL" {
		t.Errorf("Incorrect balance after subtraction: %v", c)
	}
	if b.String() != "$1.00, 2 AAPL" {
		t.Errorf("Original balance was modified: %v", b)
	}

	if !b.Sub(b).IsZero() {
		t.Errorf("Balance minus itself is not zero.")
	}
	if (ledger.Balance{}).String() != "0" {
		t.Errorf("Incorrect empty balance: %v", ledger.Balance{})
	}
	if !b.Neg().Neg().Equal(b) {
		t.Errorf("Double negation changed the balance.")
	}
	if got := b.Mul(decimal.NewFromInt(3)).Amount("AAPL").String(); got != "6 AAPL" {
		t.Errorf("Incorrect product: %v", got)
	}
}
