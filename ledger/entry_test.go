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
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/milochristiansen/ledgerfmt/ledger"
)

func amt(t *testing.T, s string) ledger.Amount {
	t.Helper()
	a, err := ledger.ParseAmount(s)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestFinalizeNullPosting(t *testing.T) {
	j := ledger.NewJournal()
	e := &ledger.Entry{Payee: "Test", Line: 3}
	e.AddTransaction(&ledger.Transaction{Account: j.Account("Expenses:Food"), Amount: amt(t, "$20.00")})
	e.AddTransaction(&ledger.Transaction{Account: j.Account("Assets:Cash"), Null: true})

	err := j.AddEntry(e)
	if err != nil {
		t.Fatal(err)
	}

	if got := e.Transactions[1].Amount.String(); got != "$-20.00" {
		t.Errorf("Incorrect null posting value: %v", got)
	}
	if got := j.Account("Assets:Cash").Value.String(); got != "$-20.00" {
		t.Errorf("Incorrect account value: %v", got)
	}
	if j.Account("Assets:Cash").Count != 1 {
		t.Errorf("Incorrect account count: %v", j.Account("Assets:Cash").Count)
	}
}

func TestFinalizeSplitsNullPerCommodity(t *testing.T) {
	j := ledger.NewJournal()
	e := &ledger.Entry{Payee: "Mixed"}
	e.AddTransaction(&ledger.Transaction{Account: j.Account("Expenses:Travel"), Amount: amt(t, "$10.00")})
	e.AddTransaction(&ledger.Transaction{Account: j.Account("Expenses:Travel"), Amount: amt(t, "5.00 EUR")})
	e.AddTransaction(&ledger.Transaction{Account: j.Account("Assets:Cash"), Null: true})

	err := j.AddEntry(e)
	if err != nil {
		t.Fatal(err)
	}

	if len(e.Transactions) != 4 {
		t.Fatalf("Incorrect number of transactions: %v", len(e.Transactions))
	}
	if e.Transactions[2].Amount.String() != "$-10.00" || e.Transactions[3].Amount.String() != "-5.00 EUR" {
		t.Errorf("Incorrect split: %v, %v", e.Transactions[2].Amount, e.Transactions[3].Amount)
	}
	if e.Transactions[3].Entry != e || e.Transactions[3].Account != j.Account("Assets:Cash") {
		t.Errorf("Split transaction lost its entry or account.")
	}
}

func TestFinalizeErrors(t *testing.T) {
	e := &ledger.Entry{Line: 7}
	e.AddTransaction(&ledger.Transaction{Amount: amt(t, "$10.00")})
	e.AddTransaction(&ledger.Transaction{Amount: amt(t, "$-9.00")})
	if err := e.Finalize(); err != ledger.BalanceError([2]int{-1, 7}) {
		t.Errorf("Expected balance error, got: %v", err)
	}

	e = &ledger.Entry{Line: 9}
	e.AddTransaction(&ledger.Transaction{Amount: amt(t, "$10.00")})
	e.AddTransaction(&ledger.Transaction{Null: true})
	e.AddTransaction(&ledger.Transaction{Null: true})
	if err := e.Finalize(); err != ledger.MultipleNullError([2]int{-1, 9}) {
		t.Errorf("Expected multiple null error, got: %v", err)
	}
}

func TestFinalizeCostAndVirtual(t *testing.T) {
	cost := amt(t, "$500.00")
	e := &ledger.Entry{}
	e.AddTransaction(&ledger.Transaction{Amount: amt(t, "10 AAPL"), Cost: &cost})
	e.AddTransaction(&ledger.Transaction{Amount: amt(t, "$-500.00")})
	e.AddTransaction(&ledger.Transaction{Amount: amt(t, "$5.00"), Virtual: true})
	if err := e.Finalize(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if got := e.Transactions[0].UnitCost(); got == nil || got.String() != "$50.00" {
		t.Errorf("Incorrect unit cost: %v", got)
	}

	e = &ledger.Entry{}
	e.AddTransaction(&ledger.Transaction{Amount: amt(t, "$5.00"), Virtual: true, Balanced: true})
	if _, ok := e.Finalize().(ledger.BalanceError); !ok {
		t.Errorf("Balanced virtual transactions must balance.")
	}
}

func TestEntryString(t *testing.T) {
	j := ledger.NewJournal()
	e := &ledger.Entry{
		Date:    time.Date(2012, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:  ledger.StatusClear,
		Code:    "42",
		Payee:   "Test",
		Tags:    map[string]bool{"b": true, "a": true},
		KVPairs: map[string]string{"Key": "Value"},
	}
	e.AddTransaction(&ledger.Transaction{Account: j.Account("Expenses:Food"), Amount: amt(t, "$20.00")})
	e.AddTransaction(&ledger.Transaction{Account: j.Account("Budget"), Amount: amt(t, "$-20.00"), Virtual: true})
	e.AddTransaction(&ledger.Transaction{Account: j.Account("Assets:Cash"), Null: true, Note: "wallet"})
	if err := j.AddEntry(e); err != nil {
		t.Fatal(err)
	}

	expected := "2012/03/10 * (42) Test\n" +
		"\t; :a:b:\n" +
		"\t; Key: Value\n" +
		fmt.Sprintf("\t%-50s   $20.00\n", "Expenses:Food") +
		fmt.Sprintf("\t%-50s  $-20.00\n", "(Budget)") +
		"\tAssets:Cash  ; wallet\n"
	if e.String() != expected {
		t.Errorf("Incorrect output:\n%v\nExpected:\n%v", e, expected)
	}

	buf := new(bytes.Buffer)
	j.AddDirective(ledger.Directive{Type: "account", Argument: "Assets:Cash", Lines: []string{"note Wallet"}})
	if err := j.Format(buf); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "\n2012/03/10") || !strings.HasSuffix(buf.String(), "\naccount Assets:Cash\n\tnote Wallet\n") {
		t.Errorf("Incorrect journal output:\n%v", buf)
	}
	if j.Account("Assets:Cash").Note != "Wallet" {
		t.Errorf("Incorrect account note: %q", j.Account("Assets:Cash").Note)
	}
}
