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

	"github.com/milochristiansen/ledgerfmt/format"
	"github.com/milochristiansen/ledgerfmt/ledger"
)

// Transactions writes each transaction once. The first transaction of an entry is written with the first
// format, the rest of the entry with the next format, so the date and payee are only shown once.
type Transactions struct {
	w     io.Writer
	r     *format.Renderer
	first *format.Format
	next  *format.Format

	last *ledger.Entry
}

// NewTransactions returns a transaction report driver. If next is nil, first is used for every transaction.
func NewTransactions(w io.Writer, r *format.Renderer, first, next *format.Format) *Transactions {
	if next == nil {
		next = first
	}
	return &Transactions{w: w, r: r, first: first, next: next}
}

func (t *Transactions) Visit(x *ledger.Transaction) error {
	if x.Displayed {
		return flush(t.w)
	}

	f := t.next
	if x.Entry != t.last {
		f = t.first
		t.last = x.Entry
	}

	err := t.r.Render(t.w, f, ledger.XactDetails(x))
	if err != nil {
		return err
	}
	x.Displayed = true

	return flush(t.w)
}

func (t *Transactions) Flush() error {
	return flush(t.w)
}
