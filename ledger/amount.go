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

package ledger

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Amount is a quantity of a single commodity.
type Amount struct {
	Quantity  decimal.Decimal
	Commodity string // "$", "USD", "AAPL", or empty for a plain number
	Precision int32  // Digits displayed after the decimal point.
	Prefix    bool   // True if the commodity is written before the quantity ($20.00 vs 20.00 EUR)
}

// ErrMalformedAmount is returned by ParseAmount when the text is not a valid amount.
type ErrMalformedAmount string

func (err ErrMalformedAmount) Error() string {
	return fmt.Sprintf("Malformed amount: %q", string(err))
}

// NewAmount returns an amount of the given commodity. The display precision is taken from the quantity.
func NewAmount(q decimal.Decimal, commodity string) Amount {
	a := Amount{Quantity: q, Commodity: commodity}
	if exp := q.Exponent(); exp < 0 {
		a.Precision = -exp
	}
	a.Prefix = isSymbol(commodity)
	return a
}

// ParseAmount parses an amount such as "$20.00", "-$5", "$-12.00", "1,000.50 EUR" or "42.00".
func ParseAmount(s string) (Amount, error) {
	raw := s
	s = strings.TrimSpace(s)

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(s[1:])
	}

	a := Amount{}
	start := strings.IndexFunc(s, func(r rune) bool {
		return (r >= '0' && r <= '9') || r == '-' || r == '.'
	})
	if start < 0 {
		return Amount{}, ErrMalformedAmount(raw)
	}
	if start > 0 {
		a.Commodity = strings.TrimSpace(s[:start])
		a.Prefix = true
		s = s[start:]
	}
	if strings.HasPrefix(s, "-") {
		neg = !neg
		s = s[1:]
	}

	num, rest := s, ""
	if end := strings.IndexFunc(s, func(r rune) bool {
		return !((r >= '0' && r <= '9') || r == '.' || r == ',')
	}); end >= 0 {
		num, rest = s[:end], strings.TrimSpace(s[end:])
	}
	if rest != "" {
		if a.Commodity != "" || strings.ContainsAny(rest, " \t") {
			return Amount{}, ErrMalformedAmount(raw)
		}
		a.Commodity = rest
	}

	num = strings.ReplaceAll(num, ",", "")
	q, err := decimal.NewFromString(num)
	if err != nil {
		return Amount{}, ErrMalformedAmount(raw)
	}
	if dot := strings.IndexByte(num, '.'); dot >= 0 {
		a.Precision = int32(len(num) - dot - 1)
	}
	if neg {
		q = q.Neg()
	}
	a.Quantity = q
	return a, nil
}

// A commodity made of a single non-letter rune ($, €, £) is written before the quantity.
func isSymbol(commodity string) bool {
	runes := []rune(commodity)
	return len(runes) == 1 && !unicode.IsLetter(runes[0]) && !unicode.IsDigit(runes[0])
}

// String formats the amount for display, rounding to the display precision via the round to even method.
func (a Amount) String() string {
	q := a.Quantity.StringFixedBank(a.Precision)
	switch {
	case a.Commodity == "":
		return q
	case a.Prefix && isSymbol(a.Commodity):
		return a.Commodity + q
	case a.Prefix:
		return a.Commodity + " " + q
	default:
		return q + " " + a.Commodity
	}
}

// IsZero returns true if the quantity is zero.
func (a Amount) IsZero() bool {
	return a.Quantity.IsZero()
}

// Neg returns the amount with its sign flipped.
func (a Amount) Neg() Amount {
	a.Quantity = a.Quantity.Neg()
	return a
}

// Mul scales the amount.
func (a Amount) Mul(f decimal.Decimal) Amount {
	a.Quantity = a.Quantity.Mul(f)
	return a
}

// Div divides the amount. The display precision is kept.
func (a Amount) Div(f decimal.Decimal) Amount {
	a.Quantity = a.Quantity.Div(f)
	return a
}

// Balance is a sum of amounts in any number of commodities. The zero value is an empty balance.
// Balances are values: every operation returns a new Balance and never modifies the receiver.
type Balance struct {
	amounts map[string]Amount
}

// NewBalance returns the sum of the given amounts.
func NewBalance(amounts ...Amount) Balance {
	b := Balance{}
	for _, a := range amounts {
		b = b.AddAmount(a)
	}
	return b
}

func (b Balance) clone() Balance {
	nb := Balance{amounts: make(map[string]Amount, len(b.amounts)+1)}
	for k, v := range b.amounts {
		nb.amounts[k] = v
	}
	return nb
}

// AddAmount returns b+a.
func (b Balance) AddAmount(a Amount) Balance {
	nb := b.clone()
	cur, ok := nb.amounts[a.Commodity]
	if !ok {
		nb.amounts[a.Commodity] = a
		return nb
	}
	cur.Quantity = cur.Quantity.Add(a.Quantity)
	if a.Precision > cur.Precision {
		cur.Precision = a.Precision
	}
	nb.amounts[a.Commodity] = cur
	return nb
}

// Add returns b+o.
func (b Balance) Add(o Balance) Balance {
	nb := b
	for _, a := range o.amounts {
		nb = nb.AddAmount(a)
	}
	if nb.amounts == nil {
		return b.clone()
	}
	return nb
}

// Sub returns b-o.
func (b Balance) Sub(o Balance) Balance {
	return b.Add(o.Neg())
}

// Neg returns -b.
func (b Balance) Neg() Balance {
	nb := b.clone()
	for k, a := range nb.amounts {
		nb.amounts[k] = a.Neg()
	}
	return nb
}

// Mul scales every amount in the balance.
func (b Balance) Mul(f decimal.Decimal) Balance {
	nb := b.clone()
	for k, a := range nb.amounts {
		nb.amounts[k] = a.Mul(f)
	}
	return nb
}

// Div divides every amount in the balance.
func (b Balance) Div(f decimal.Decimal) Balance {
	nb := b.clone()
	for k, a := range nb.amounts {
		nb.amounts[k] = a.Div(f)
	}
	return nb
}

// Abs returns the balance with every amount made positive.
func (b Balance) Abs() Balance {
	nb := b.clone()
	for k, a := range nb.amounts {
		a.Quantity = a.Quantity.Abs()
		nb.amounts[k] = a
	}
	return nb
}

// IsZero returns true if every commodity in the balance sums to zero.
func (b Balance) IsZero() bool {
	for _, a := range b.amounts {
		if !a.IsZero() {
			return false
		}
	}
	return true
}

// Amount returns the amount held in the given commodity.
func (b Balance) Amount(commodity string) Amount {
	if a, ok := b.amounts[commodity]; ok {
		return a
	}
	return Amount{Commodity: commodity, Prefix: isSymbol(commodity)}
}

// Amounts returns the non-zero amounts in the balance, ordered by commodity.
func (b Balance) Amounts() []Amount {
	keys := maps.Keys(b.amounts)
	slices.Sort(keys)

	rtn := make([]Amount, 0, len(keys))
	for _, k := range keys {
		if a := b.amounts[k]; !a.IsZero() {
			rtn = append(rtn, a)
		}
	}
	return rtn
}

// Quantity returns the sum of all quantities regardless of commodity. This is only meaningful for single
// commodity balances.
func (b Balance) Quantity() decimal.Decimal {
	q := decimal.Zero
	for _, a := range b.amounts {
		q = q.Add(a.Quantity)
	}
	return q
}

// Equal returns true if both balances hold the same quantity of every commodity.
func (b Balance) Equal(o Balance) bool {
	return b.Sub(o).IsZero()
}

// Lines returns one formatted amount per commodity. An empty balance is written as "0".
func (b Balance) Lines() []string {
	amounts := b.Amounts()
	if len(amounts) == 0 {
		return []string{"0"}
	}
	lines := make([]string, len(amounts))
	for i, a := range amounts {
		lines[i] = a.String()
	}
	return lines
}

func (b Balance) String() string {
	return strings.Join(b.Lines(), ", ")
}
