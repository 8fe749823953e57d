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

package expr

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/PaesslerAG/gval"
	"github.com/PaesslerAG/jsonpath"
	"github.com/milochristiansen/ledgerfmt/ledger"
	"github.com/shopspring/decimal"
)

// Infix operators listed before gval.Full take priority over the ones it provides for values that are not
// plain numbers, prefixes listed after it replace its own.
var language = gval.NewLanguage(
	gval.InfixOperator("+", arithmetic(ledger.Balance.Add)),
	gval.InfixOperator("-", arithmetic(ledger.Balance.Sub)),
	gval.InfixOperator("*", multiply),
	gval.InfixOperator("/", divide),
	gval.InfixOperator("==", equal(true)),
	gval.InfixOperator("!=", equal(false)),
	gval.InfixOperator("<", order(func(c int) bool { return c < 0 })),
	gval.InfixOperator("<=", order(func(c int) bool { return c <= 0 })),
	gval.InfixOperator(">", order(func(c int) bool { return c > 0 })),
	gval.InfixOperator(">=", order(func(c int) bool { return c >= 0 })),

	gval.Full(),
	jsonpath.Language(),

	gval.PrefixOperator("-", negate),
	gval.Function("abs", abs),
	gval.Function("quantity", quantity),
	gval.Function("commodity", commodity),
)

var errDivideByZero = errors.New("division by zero")

func arithmetic(op func(a, b ledger.Balance) ledger.Balance) func(a, b interface{}) (interface{}, error) {
	return func(a, b interface{}) (interface{}, error) {
		x, ok := ToBalance(a)
		y, ok2 := ToBalance(b)
		if !ok || !ok2 {
			return nil, fmt.Errorf("invalid operation on (%T) and (%T)", a, b)
		}
		return op(x, y), nil
	}
}

func multiply(a, b interface{}) (interface{}, error) {
	if f, ok := toDecimal(b); ok {
		if x, ok := ToBalance(a); ok {
			return x.Mul(f), nil
		}
	}
	if f, ok := toDecimal(a); ok {
		if y, ok := ToBalance(b); ok {
			return y.Mul(f), nil
		}
	}
	return nil, fmt.Errorf("invalid operation (%T) * (%T)", a, b)
}

func divide(a, b interface{}) (interface{}, error) {
	x, ok := ToBalance(a)
	f, ok2 := toDecimal(b)
	if !ok || !ok2 {
		return nil, fmt.Errorf("invalid operation (%T) / (%T)", a, b)
	}
	if f.IsZero() {
		return nil, errDivideByZero
	}
	return x.Div(f), nil
}

func equal(want bool) func(a, b interface{}) (interface{}, error) {
	return func(a, b interface{}) (interface{}, error) {
		if isValue(a) || isValue(b) {
			x, ok := ToBalance(a)
			y, ok2 := ToBalance(b)
			switch {
			case !ok || !ok2:
			case isValue(a) && isValue(b):
				return x.Equal(y) == want, nil
			default:
				// A plain number is compared against the quantity, whatever the commodity.
				return x.Quantity().Equal(y.Quantity()) == want, nil
			}
		}
		return reflect.DeepEqual(a, b) == want, nil
	}
}

// Ordering compares the sum of all quantities, which is only meaningful for single commodity balances.
func order(test func(c int) bool) func(a, b interface{}) (interface{}, error) {
	return func(a, b interface{}) (interface{}, error) {
		x, ok := ToBalance(a)
		y, ok2 := ToBalance(b)
		if !ok || !ok2 {
			return nil, fmt.Errorf("invalid comparison of (%T) and (%T)", a, b)
		}
		return test(x.Sub(y).Quantity().Sign()), nil
	}
}

func negate(c context.Context, v interface{}) (interface{}, error) {
	if f, ok := toFloat(v); ok {
		return -f, nil
	}
	if b, ok := ToBalance(v); ok {
		return b.Neg(), nil
	}
	return nil, fmt.Errorf("unexpected %v(%T) expected number", v, v)
}

func abs(args ...interface{}) (interface{}, error) {
	if len(args) != 1 {
		return nil, errors.New("abs() expects exactly one argument")
	}
	if f, ok := toFloat(args[0]); ok {
		return math.Abs(f), nil
	}
	if b, ok := ToBalance(args[0]); ok {
		return b.Abs(), nil
	}
	return nil, fmt.Errorf("abs() of (%T)", args[0])
}

func quantity(args ...interface{}) (interface{}, error) {
	if len(args) != 1 {
		return nil, errors.New("quantity() expects exactly one argument")
	}
	b, ok := ToBalance(args[0])
	if !ok {
		return nil, fmt.Errorf("quantity() of (%T)", args[0])
	}
	return b.Quantity().InexactFloat64(), nil
}

func commodity(args ...interface{}) (interface{}, error) {
	if len(args) != 1 {
		return nil, errors.New("commodity() expects exactly one argument")
	}
	b, ok := ToBalance(args[0])
	if !ok {
		return nil, fmt.Errorf("commodity() of (%T)", args[0])
	}
	amounts := b.Amounts()
	if len(amounts) == 0 {
		return "", nil
	}
	return amounts[0].Commodity, nil
}

func isValue(v interface{}) bool {
	switch v.(type) {
	case ledger.Balance, ledger.Amount, decimal.Decimal:
		return true
	}
	return false
}

// ToBalance converts the result of an expression to a balance. Plain numbers become amounts without a
// commodity, nil becomes an empty balance.
func ToBalance(v interface{}) (ledger.Balance, bool) {
	switch v := v.(type) {
	case nil:
		return ledger.Balance{}, true
	case ledger.Balance:
		return v, true
	case ledger.Amount:
		return ledger.NewBalance(v), true
	case *ledger.Amount:
		if v == nil {
			return ledger.Balance{}, true
		}
		return ledger.NewBalance(*v), true
	case decimal.Decimal:
		return ledger.NewBalance(ledger.NewAmount(v, "")), true
	}
	if d, ok := toDecimal(v); ok {
		return ledger.NewBalance(ledger.NewAmount(d, "")), true
	}
	return ledger.Balance{}, false
}

func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch v := v.(type) {
	case decimal.Decimal:
		return v, true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	}
	if f, ok := toFloat(v); ok {
		return decimal.NewFromFloat(f), true
	}
	return decimal.Decimal{}, false
}

func toFloat(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	}
	return 0, false
}

// Params builds the identifiers an expression sees for a record.
func Params(d ledger.Details) map[string]interface{} {
	p := map[string]interface{}{
		"amount":  ledger.Balance{},
		"total":   ledger.Balance{},
		"cost":    nil,
		"count":   0,
		"depth":   0,
		"account": "",
		"payee":   "",
		"code":    "",
		"note":    "",
		"cleared": false,
		"pending": false,
		"virtual": false,
		"year":    0,
		"month":   0,
		"day":     0,
	}
	meta := map[string]interface{}{}
	p["meta"] = meta

	if a := d.Account; a != nil {
		p["amount"] = a.Value
		p["total"] = a.Total
		p["count"] = a.Count
		p["depth"] = a.Depth
		p["account"] = a.FullName()
		p["note"] = a.Note
	}

	if e := d.Entry; e != nil {
		p["payee"] = e.Payee
		p["code"] = e.Code
		p["cleared"] = e.Status == ledger.StatusClear
		p["pending"] = e.Status == ledger.StatusPending
		if !e.Date.IsZero() {
			p["year"] = e.Date.Year()
			p["month"] = int(e.Date.Month())
			p["day"] = e.Date.Day()
		}
		for tag := range e.Tags {
			meta[tag] = true
		}
		for k, v := range e.KVPairs {
			meta[k] = v
		}
	}

	if x := d.Xact; x != nil {
		p["amount"] = ledger.NewBalance(x.Amount)
		p["total"] = x.Total
		if x.Cost != nil {
			p["cost"] = ledger.NewBalance(*x.Cost)
		}
		p["note"] = x.Note
		p["virtual"] = x.Virtual
		p["cleared"] = x.State() == ledger.StatusClear
		p["pending"] = x.State() == ledger.StatusPending
	}

	return p
}
