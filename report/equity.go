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

package report

import (
	"io"
	"time"

	"github.com/milochristiansen/ledgerfmt/expr"
	"github.com/milochristiansen/ledgerfmt/format"
	"github.com/milochristiansen/ledgerfmt/ledger"
)

// OpeningBalancesPayee is the payee of the entry written by an equity report.
const OpeningBalancesPayee = "Opening Balances"

// OpeningBalancesAccount is the account balancing an equity report.
const OpeningBalancesAccount = "Equity:Opening Balances"

// Equity writes the balances of accounts as a single entry opening a new period. The entry is closed by a
// transaction to OpeningBalancesAccount for the negated sum of everything written, so the entry balances.
type Equity struct {
	w    io.Writer
	r    *format.Renderer
	next *format.Format
	pred *expr.Predicate

	// Header is the entry written when the report was created.
	Header *ledger.Entry

	total   ledger.Balance
	flushed bool
}

// NewEquity writes the header entry for date with the first format and returns an equity report driver that
// writes accounts with the next format.
func NewEquity(w io.Writer, r *format.Renderer, first, next *format.Format, pred *expr.Predicate, date time.Time) (*Equity, error) {
	q := &Equity{
		w:    w,
		r:    r,
		next: next,
		pred: pred,
		Header: &ledger.Entry{
			Date:    date,
			Payee:   OpeningBalancesPayee,
			KVPairs: map[string]string{"ID": <-ledger.IDService},
		},
	}

	err := r.Render(w, first, ledger.EntryDetails(q.Header))
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (q *Equity) Visit(a *ledger.Account) error {
	ok, err := ShouldDisplay(a, q.pred, false)
	if err != nil || !ok {
		return err
	}

	err = q.r.Render(q.w, q.next, ledger.AccountDetails(a))
	if err != nil {
		return err
	}
	a.Displayed = true
	q.total = q.total.Add(a.Value)
	return nil
}

// Total returns the sum of the balances written so far.
func (q *Equity) Total() ledger.Balance {
	return q.total
}

// Flush writes the balancing transaction. Only the first call has any effect.
func (q *Equity) Flush() error {
	if q.flushed {
		return nil
	}
	q.flushed = true

	counter := &ledger.Account{
		Name:  OpeningBalancesAccount,
		Value: q.total.Neg(),
		Total: q.total.Neg(),
	}
	err := q.r.Render(q.w, q.next, ledger.AccountDetails(counter))
	if err != nil {
		return err
	}
	return flush(q.w)
}
