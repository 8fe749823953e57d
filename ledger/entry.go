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
Package ledger contains the data model shared by the journal parser and the report engine.

Entries hold transactions (postings), transactions post amounts to accounts, and accounts
form a tree rooted at a nameless master account. Every type implements String in a form that
ledger itself can read back in.
*/
package ledger

import (
	"bytes"
	"fmt"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Status is the clearing state of an entry or transaction.
type Status int

// Status constants for Entry.Status and Transaction.Status
const (
	StatusUndefined = Status(iota)
	StatusPending
	StatusClear
)

// Entry is a single dated entry from a ledger file, holding a balanced set of transactions.
type Entry struct {
	Date      time.Time // 2020/10/10
	ClearDate time.Time // =2020/10/10 (optional)
	Status    Status    //   | ! | * (optional)
	Code      string    // ( Stuff ) (optional)
	Payee     string    // Spent monie on stuf

	Transactions []*Transaction

	Comments []string // ; Stuff...

	Tags    map[string]bool   // ; :tag:tag:tag:
	KVPairs map[string]string // ; Key: Value

	Line int // The line number where the entry starts.
}

// Transaction is a single posting line in an Entry.
type Transaction struct {
	Entry   *Entry
	Account *Account

	Status Status  //   | ! | *  (optional)
	Amount Amount  // $20.00
	Cost   *Amount // @ $2.00 or @@ $20.00, stored as the total cost. nil if there is none.
	Null   bool    // True if the Amount was implied and filled in when the entry was finalized.

	Virtual  bool // (Account:Name)
	Balanced bool // [Account:Name], only meaningful if Virtual is set.

	Note string // ; Stuff

	// Total is the running total, filled in by report handlers that track one.
	Total Balance

	// Displayed is set by the report drivers once the transaction has been written.
	Displayed bool
}

// AddTransaction appends a transaction to the entry.
func (e *Entry) AddTransaction(x *Transaction) {
	x.Entry = e
	e.Transactions = append(e.Transactions, x)
}

// CleanCopy takes a copy of the entry, safe for editing without making any changes to the parent. The
// transactions are copied as well, but still point at the same accounts.
func (e *Entry) CleanCopy() *Entry {
	ne := *e
	ne.Transactions = make([]*Transaction, 0, len(e.Transactions))
	for _, x := range e.Transactions {
		nx := *x
		nx.Entry = &ne
		ne.Transactions = append(ne.Transactions, &nx)
	}
	ne.Comments = slices.Clone(e.Comments)
	ne.Tags = maps.Clone(e.Tags)
	ne.KVPairs = maps.Clone(e.KVPairs)
	return &ne
}

// Finalize balances the entry. A null transaction receives whatever is needed to make the entry balance; if the
// remainder holds more than one commodity the null transaction is split into one transaction per commodity.
// Real transactions and balanced virtual transactions must each sum to zero on their own, and each may have one
// null transaction. Unbalanced virtual transactions are ignored.
func (e *Entry) Finalize() error {
	var sums [2]Balance
	nulls := [2]int{-1, -1}

	for i, x := range e.Transactions {
		group := 0
		if x.Balanced {
			group = 1
		}

		if x.Null {
			if nulls[group] != -1 {
				return MultipleNullError([2]int{-1, e.Line})
			}
			nulls[group] = i
			continue
		}
		if x.Virtual && !x.Balanced {
			continue
		}

		amt := x.Amount
		if x.Cost != nil {
			amt = *x.Cost
		}
		sums[group] = sums[group].AddAmount(amt)
	}

	// Later nulls first, so splitting one does not move the other.
	order := []int{0, 1}
	if nulls[0] < nulls[1] {
		order = []int{1, 0}
	}
	for _, group := range order {
		null := nulls[group]
		if null == -1 {
			continue
		}
		nx := e.Transactions[null]

		amounts := sums[group].Neg().Amounts()
		if len(amounts) == 0 {
			amounts = []Amount{{}}
		}

		split := make([]*Transaction, 0, len(amounts))
		for _, amt := range amounts {
			x := *nx
			x.Amount = amt
			split = append(split, &x)
		}
		e.Transactions = slices.Insert(slices.Delete(e.Transactions, null, null+1), null, split...)

		if !nx.Virtual || nx.Balanced {
			sums[group] = Balance{}
		}
	}

	if !sums[0].IsZero() || !sums[1].IsZero() {
		return BalanceError([2]int{-1, e.Line})
	}
	return nil
}

// State returns the clearing state of the transaction. A transaction without its own state takes the state of
// its entry.
func (x *Transaction) State() Status {
	if x.Status == StatusUndefined && x.Entry != nil {
		return x.Entry.Status
	}
	return x.Status
}

// AccountName returns the full account name, wrapped the way ledger writes virtual accounts.
func (x *Transaction) AccountName() string {
	name := ""
	if x.Account != nil {
		name = x.Account.FullName()
	}
	return x.wrap(name)
}

// PartialAccountName is like AccountName, but uses the account name below the last displayed parent.
func (x *Transaction) PartialAccountName() string {
	name := ""
	if x.Account != nil {
		name = x.Account.PartialName()
	}
	return x.wrap(name)
}

func (x *Transaction) wrap(name string) string {
	switch {
	case x.Virtual && x.Balanced:
		return "[" + name + "]"
	case x.Virtual:
		return "(" + name + ")"
	}
	return name
}

// UnitCost returns the per unit cost of the transaction, or nil if there is no cost.
func (x *Transaction) UnitCost() *Amount {
	if x.Cost == nil || x.Amount.Quantity.IsZero() {
		return nil
	}
	unit := x.Cost.Div(x.Amount.Quantity.Abs())
	if x.Amount.Quantity.Sign() < 0 {
		unit = unit.Neg()
	}
	return &unit
}

func (e *Entry) String() string {
	buf := new(bytes.Buffer)

	buf.WriteString(e.Date.Format("2006/01/02"))
	if !e.ClearDate.IsZero() {
		fmt.Fprintf(buf, "=%v", e.ClearDate.Format("2006/01/02"))
	}

	switch e.Status {
	case StatusClear:
		buf.WriteString(" * ")
	case StatusPending:
		buf.WriteString(" ! ")
	default:
		buf.WriteString(" ")
	}

	if e.Code != "" {
		fmt.Fprintf(buf, "(%v) ", e.Code)
	}

	fmt.Fprintf(buf, "%v\n", e.Payee)

	// We don't know if the comments and transactions were interleaved in any way,
	// so canonically we will just do the comments and metadata first.
	for _, line := range e.Comments {
		fmt.Fprintf(buf, "\t; %v\n", line)
	}
	if len(e.Tags) != 0 {
		tags := maps.Keys(e.Tags)
		slices.Sort(tags)

		fmt.Fprint(buf, "\t; ")
		for _, tag := range tags {
			fmt.Fprintf(buf, ":%v", tag)
		}
		fmt.Fprint(buf, ":\n")
	}
	keys := maps.Keys(e.KVPairs)
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "\t; %v: %v\n", k, e.KVPairs[k])
	}

	for _, x := range e.Transactions {
		fmt.Fprintf(buf, "\t%v\n", x)
	}

	return buf.String()
}

func (x *Transaction) String() string {
	buf := new(bytes.Buffer)

	switch x.Status {
	case StatusClear:
		buf.WriteString("* ")
	case StatusPending:
		buf.WriteString("! ")
	}

	if !x.Null {
		fmt.Fprintf(buf, "%-50s", x.AccountName())

		// Two spaces at minimum, the account name may be longer than the pad.
		buf.WriteString("  ")
		if x.Amount.Quantity.Sign() >= 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(x.Amount.String())

		if x.Cost != nil {
			cost := *x.Cost
			cost.Quantity = cost.Quantity.Abs()
			fmt.Fprintf(buf, " @@ %v", cost)
		}
	} else {
		buf.WriteString(x.AccountName())
	}

	if x.Note != "" {
		fmt.Fprintf(buf, "  ; %v", x.Note)
	}

	return buf.String()
}

// EntryDateSorter is a helper for sorting a list of entries by date.
type EntryDateSorter []*Entry

func (eds EntryDateSorter) Len() int {
	return len(eds)
}

func (eds EntryDateSorter) Less(i, j int) bool {
	return eds[i].Date.Before(eds[j].Date)
}

func (eds EntryDateSorter) Swap(i, j int) {
	eds[i], eds[j] = eds[j], eds[i]
}

// Error types

// BalanceError is returned by functions that validate entries in some way when the entry isn't balanced.
type BalanceError [2]int

func (err BalanceError) Error() string {
	if err[0] < 0 {
		return fmt.Sprintf("Transaction (defined on line %v) does not balance.", err[1])
	}
	return fmt.Sprintf("Transaction %v (defined on line %v) does not balance.", err[0], err[1])
}

// MultipleNullError is returned by functions that validate entries in some way when the entry has more
// than one null posting.
type MultipleNullError [2]int

func (err MultipleNullError) Error() string {
	if err[0] < 0 {
		return fmt.Sprintf("Transaction (defined on line %v) has multiple null postings.", err[1])
	}
	return fmt.Sprintf("Transaction %v (defined on line %v) has multiple null postings.", err[0], err[1])
}
