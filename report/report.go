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
Package report drives compiled formats over the entries and accounts of a journal.

Reports are built from Handlers chained together: a walker feeds every transaction or account
into the first handler, filters and calculators pass them along, and one of the report drivers
(Transactions, Accounts, or Equity) writes them out.
*/
package report

import (
	"io"

	"github.com/milochristiansen/ledgerfmt/expr"
	"github.com/milochristiansen/ledgerfmt/ledger"
)

// Handler is a single step in a report chain.
type Handler[T any] interface {
	// Visit processes a single item.
	Visit(item T) error

	// Flush is called once every item has been visited.
	Flush() error
}

type flusher interface {
	Flush() error
}

// flush flushes w if it is buffered.
func flush(w io.Writer) error {
	if f, ok := w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// WalkTransactions visits every transaction of every entry, in order, then flushes the handler.
func WalkTransactions(entries []*ledger.Entry, h Handler[*ledger.Transaction]) error {
	for _, e := range entries {
		for _, x := range e.Transactions {
			err := h.Visit(x)
			if err != nil {
				return err
			}
		}
	}
	return h.Flush()
}

// WalkAccounts visits root and every account below it, parents before children and children in name order,
// then flushes the handler.
func WalkAccounts(root *ledger.Account, h Handler[*ledger.Account]) error {
	stack := []*ledger.Account{root}
	for len(stack) > 0 {
		acct := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		err := h.Visit(acct)
		if err != nil {
			return err
		}

		children := acct.SortedChildren()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return h.Flush()
}

// Filter passes along the items that match.
type Filter[T any] struct {
	Next  Handler[T]
	Match func(item T) (bool, error)
}

func (f *Filter[T]) Visit(item T) error {
	ok, err := f.Match(item)
	if err != nil || !ok {
		return err
	}
	return f.Next.Visit(item)
}

func (f *Filter[T]) Flush() error {
	return f.Next.Flush()
}

// NewXactFilter returns a Filter passing along the transactions matching pred.
func NewXactFilter(next Handler[*ledger.Transaction], pred *expr.Predicate) *Filter[*ledger.Transaction] {
	return &Filter[*ledger.Transaction]{
		Next: next,
		Match: func(x *ledger.Transaction) (bool, error) {
			return pred.Match(ledger.XactDetails(x))
		},
	}
}

// Calc fills in the running total of each transaction before passing it along.
type Calc struct {
	Next Handler[*ledger.Transaction]

	total ledger.Balance
}

func (c *Calc) Visit(x *ledger.Transaction) error {
	c.total = c.total.AddAmount(x.Amount)
	x.Total = c.total
	return c.Next.Visit(x)
}

func (c *Calc) Flush() error {
	return c.Next.Flush()
}
