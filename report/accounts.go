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

	"github.com/milochristiansen/ledgerfmt/expr"
	"github.com/milochristiansen/ledgerfmt/format"
	"github.com/milochristiansen/ledgerfmt/ledger"
)

// DisplaySubaccounts decides how an account relates to its children in an account report.
//
// If two or more children match pred, or the only matching child has a different total than the account,
// the account is a subtotal of its children and the first return is true if the account itself matches pred.
// If exactly one child matches pred, it carries the entire total of the account, and the account has no
// value of its own, that child is returned: the account is collapsed into it, and the child prints as
// "Account:Child".
func DisplaySubaccounts(a *ledger.Account, pred *expr.Predicate) (bool, *ledger.Account, error) {
	var only *ledger.Account

	for _, child := range a.SortedChildren() {
		ok, err := pred.Match(ledger.AccountDetails(child))
		if err != nil {
			return false, nil, err
		}
		if !ok {
			continue
		}

		if only != nil || !child.Total.Equal(a.Total) {
			matches, err := pred.Match(ledger.AccountDetails(a))
			return matches, nil, err
		}
		only = child
	}

	// An account with a balance of its own is never folded into a child.
	if only != nil && !a.Value.IsZero() {
		matches, err := pred.Match(ledger.AccountDetails(a))
		return matches, nil, err
	}
	return false, only, nil
}

// ShouldDisplay returns true if an account report should print the account.
//
// Accounts are printed once. The master account is only printed if evenTop is set, and is never filtered by
// pred. Any other account is printed if it is a subtotal of its children (see DisplaySubaccounts), or if it was
// not collapsed into a child and matches pred.
func ShouldDisplay(a *ledger.Account, pred *expr.Predicate, evenTop bool) (bool, error) {
	if a.IsMaster() {
		return evenTop && !a.Displayed, nil
	}
	if a.Displayed {
		return false, nil
	}

	subtotal, child, err := DisplaySubaccounts(a, pred)
	if err != nil || subtotal {
		return subtotal, err
	}
	if child != nil {
		return false, nil
	}
	return pred.Match(ledger.AccountDetails(a))
}

// Accounts writes every account that should be displayed.
type Accounts struct {
	w       io.Writer
	r       *format.Renderer
	f       *format.Format
	pred    *expr.Predicate
	evenTop bool

	// TopLevel counts the printed accounts that have no printed parent.
	TopLevel int
}

// NewAccounts returns an account report driver. If evenTop is set, the master account is printed as well.
func NewAccounts(w io.Writer, r *format.Renderer, f *format.Format, pred *expr.Predicate, evenTop bool) *Accounts {
	return &Accounts{w: w, r: r, f: f, pred: pred, evenTop: evenTop}
}

func (h *Accounts) Visit(a *ledger.Account) error {
	ok, err := ShouldDisplay(a, h.pred, h.evenTop)
	if err != nil || !ok {
		return err
	}

	err = h.r.Render(h.w, h.f, ledger.AccountDetails(a))
	if err != nil {
		return err
	}
	if a.DisplayDepth() == 0 {
		h.TopLevel++
	}
	a.Displayed = true
	return nil
}

func (h *Accounts) Flush() error {
	return flush(h.w)
}
