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
Package expr compiles the value expressions and display predicates used by reports.

Expressions are written in the gval expression language, extended so that the arithmetic
and comparison operators work on ledger balances. The record being reported on is exposed
through a set of identifiers:

	amount    The amount of the transaction, or the value of the account.
	total     The running total of the transaction, or the total of the account.
	cost      The total cost of the transaction, if any.
	count     The number of transactions posted to the account.
	depth     The depth of the account in the account tree.
	account   The full account name.
	payee     The entry payee.
	code      The entry code.
	note      The transaction note, or the account note.
	cleared   True if the transaction or entry is cleared.
	pending   True if the transaction or entry is pending.
	virtual   True if the transaction is virtual.
	year, month, day
	          The entry date.
	meta      The entry metadata, as in meta.Key or $.meta.Key

The functions abs, quantity, and commodity are also available.
*/
package expr

import (
	"context"
	"fmt"
	"strings"

	"github.com/PaesslerAG/gval"
	"github.com/milochristiansen/ledgerfmt/ledger"
	"github.com/shopspring/decimal"
)

// Error is returned when an expression fails to compile or evaluate.
type Error struct {
	Source string
	Err    error
}

func (err *Error) Error() string {
	return fmt.Sprintf("Error in expression %q: %v", err.Source, err.Err)
}

func (err *Error) Unwrap() error {
	return err.Err
}

// Expr is a compiled value expression.
type Expr struct {
	src  string
	eval gval.Evaluable
}

// Compile parses a value expression.
func Compile(src string) (*Expr, error) {
	eval, err := language.NewEvaluable(src)
	if err != nil {
		return nil, &Error{Source: src, Err: err}
	}
	return &Expr{src: src, eval: eval}, nil
}

// MustCompile is like Compile, but panics on error.
func MustCompile(src string) *Expr {
	e, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Expr) String() string {
	return e.src
}

// Eval evaluates the expression against the given record and returns the raw result.
func (e *Expr) Eval(d ledger.Details) (interface{}, error) {
	v, err := e.eval(context.Background(), Params(d))
	if err != nil {
		return nil, &Error{Source: e.src, Err: err}
	}
	return v, nil
}

// Compute evaluates the expression and converts the result to a balance. Plain numbers become amounts
// without a commodity.
func (e *Expr) Compute(d ledger.Details) (ledger.Balance, error) {
	v, err := e.Eval(d)
	if err != nil {
		return ledger.Balance{}, err
	}

	b, ok := ToBalance(v)
	if !ok {
		return ledger.Balance{}, &Error{Source: e.src, Err: fmt.Errorf("result %v (%T) is not a value", v, v)}
	}
	return b, nil
}

// Predicate is a compiled display predicate.
type Predicate struct {
	src  string
	eval gval.Evaluable
}

// CompilePredicate parses a display predicate. An empty predicate matches everything.
func CompilePredicate(src string) (*Predicate, error) {
	if strings.TrimSpace(src) == "" {
		return &Predicate{}, nil
	}

	eval, err := language.NewEvaluable(src)
	if err != nil {
		return nil, &Error{Source: src, Err: err}
	}
	return &Predicate{src: src, eval: eval}, nil
}

func (p *Predicate) String() string {
	return p.src
}

// Match returns true if the record satisfies the predicate. A nil predicate matches everything.
//
// Balances are true if they are not zero, numbers if they are not 0, and strings if they are not empty.
func (p *Predicate) Match(d ledger.Details) (bool, error) {
	if p == nil || p.eval == nil {
		return true, nil
	}

	v, err := p.eval(context.Background(), Params(d))
	if err != nil {
		return false, &Error{Source: p.src, Err: err}
	}
	return truthy(v), nil
}

func truthy(v interface{}) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case ledger.Balance:
		return !v.IsZero()
	case ledger.Amount:
		return !v.IsZero()
	case decimal.Decimal:
		return !v.IsZero()
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	return true
}
