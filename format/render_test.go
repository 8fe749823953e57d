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

package format_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/milochristiansen/ledgerfmt/expr"
	"github.com/milochristiansen/ledgerfmt/format"
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

// testJournal returns a journal with a single entry: Expenses:Food 42.00 against Assets:Cash.
func testJournal(t *testing.T) (*ledger.Journal, *ledger.Entry) {
	t.Helper()

	j := ledger.NewJournal()
	e := &ledger.Entry{
		Date:   time.Date(2020, 10, 10, 0, 0, 0, 0, time.UTC),
		Status: ledger.StatusClear,
		Code:   "42",
		Payee:  "Grocer",
	}
	e.AddTransaction(&ledger.Transaction{Account: j.Account("Expenses:Food"), Amount: amt(t, "42.00")})
	e.AddTransaction(&ledger.Transaction{Account: j.Account("Assets:Cash"), Null: true})
	if err := j.AddEntry(e); err != nil {
		t.Fatal(err)
	}
	j.CalcTotals()
	return j, e
}

func render(t *testing.T, cfg format.Config, src string, d ledger.Details) string {
	t.Helper()
	buf := new(bytes.Buffer)
	err := format.NewRenderer(cfg).Render(buf, format.MustParse(src), d)
	if err != nil {
		t.Fatalf("Unexpected error rendering %q: %v", src, err)
	}
	return buf.String()
}

func noFill() format.Config {
	cfg := format.DefaultConfig()
	cfg.LineWidth = 0
	return cfg
}

func TestRenderExample(t *testing.T) {
	j, _ := testJournal(t)

	got := render(t, noFill(), "%-20A%12t\n", ledger.AccountDetails(j.Account("Expenses:Food")))
	if got != "Expenses:Food       "+"       42.00"+"\n" {
		t.Errorf("Incorrect output: %q", got)
	}
}

func TestRenderLiteralFidelity(t *testing.T) {
	j, e := testJournal(t)

	src := "plain text\n\tline two 100%% sure\r\n"
	want := "plain text\n\tline two 100% sure\r\n"
	for _, d := range []ledger.Details{
		ledger.XactDetails(e.Transactions[0]),
		ledger.AccountDetails(j.Account("Assets")),
		ledger.EntryDetails(e),
	} {
		if got := render(t, format.DefaultConfig(), src, d); got != want {
			t.Errorf("Incorrect output: %q", got)
		}
	}
}

func TestRenderInvalidUTF8(t *testing.T) {
	_, e := testJournal(t)

	for _, src := range []string{"caf\xe9 \xff\n", "\xff%p\xfe", "50\xe9%%\xff"} {
		want := strings.ReplaceAll(src, "%p", "Grocer")
		want = strings.ReplaceAll(want, "%%", "%")
		if got := render(t, noFill(), src, ledger.EntryDetails(e)); got != want {
			t.Errorf("Bytes changed for %q: %q", src, got)
		}
	}
}

func TestRenderWidths(t *testing.T) {
	_, e := testJournal(t)
	e.Payee = "Supermarket"
	d := ledger.XactDetails(e.Transactions[0])

	cases := []struct {
		src, out string
	}{
		{"%15p|", "    Supermarket|"},
		{"%-15p|", "Supermarket    |"},
		{"%5p|", "Supermarket|"},
		{"%.6p|", "Supe..|"},
		{"%-10.6N|", "..Food    |"},
		{"%.2p|", "Su|"},
		{"%-15n|", "Expenses:Food  |"},
	}

	for _, c := range cases {
		if got := render(t, noFill(), c.src, d); got != c.out {
			t.Errorf("Incorrect output for %q: %q", c.src, got)
		}
	}

	// Truncated output is always exactly the maximum width.
	for w := 1; w < 12; w++ {
		f := &format.Format{Elements: []format.Element{{Kind: format.KindAccountFullName, MaxWidth: w}}}
		buf := new(bytes.Buffer)
		if err := format.NewRenderer(noFill()).Render(buf, f, d); err != nil {
			t.Fatal(err)
		}
		if runewidth.StringWidth(buf.String()) != w {
			t.Errorf("Incorrect width for maximum %v: %q", w, buf.String())
		}
	}
}

func TestRenderFields(t *testing.T) {
	j, e := testJournal(t)
	d := ledger.XactDetails(e.Transactions[0])

	if got := render(t, noFill(), "%d %X%C%p", d); got != "2020/10/10 * (42) Grocer" {
		t.Errorf("Incorrect entry fields: %q", got)
	}

	cfg := noFill()
	cfg.DateFormat = "%m-%d"
	if got := render(t, cfg, "%d", d); got != "10-10" {
		t.Errorf("Incorrect date: %q", got)
	}

	e.Transactions[0].Status = ledger.StatusPending
	if got := render(t, noFill(), "%X|", d); got != "! |" {
		t.Errorf("Transaction state must override the entry: %q", got)
	}

	if got := render(t, noFill(), "%d%X%C%p|", ledger.AccountDetails(j.Account("Assets"))); got != "|" {
		t.Errorf("Entry fields must be empty for accounts: %q", got)
	}

	if got := render(t, noFill(), "%N %o %(payee)", d); got != "Expenses:Food 42.00 Grocer" {
		t.Errorf("Incorrect transaction fields: %q", got)
	}
}

func TestRenderCostAndVirtual(t *testing.T) {
	j := ledger.NewJournal()
	cost := amt(t, "$500.00")
	e := &ledger.Entry{Payee: "Broker"}
	e.AddTransaction(&ledger.Transaction{Account: j.Account("Assets:Brokerage"), Amount: amt(t, "10 AAPL"), Cost: &cost})
	e.AddTransaction(&ledger.Transaction{Account: j.Account("Assets:Cash"), Null: true})
	e.AddTransaction(&ledger.Transaction{Account: j.Account("Budget"), Amount: amt(t, "$5.00"), Virtual: true})
	if err := j.AddEntry(e); err != nil {
		t.Fatal(err)
	}

	if got := render(t, noFill(), "%o", ledger.XactDetails(e.Transactions[0])); got != "10 AAPL @ $50.00" {
		t.Errorf("Incorrect amount with cost: %q", got)
	}
	if got := render(t, noFill(), "%N %n", ledger.XactDetails(e.Transactions[2])); got != "(Budget) (Budget)" {
		t.Errorf("Incorrect virtual account: %q", got)
	}
}

func TestRenderSpacer(t *testing.T) {
	_, e := testJournal(t)
	d := ledger.XactDetails(e.Transactions[0])

	cfg := noFill()
	cfg.LineWidth = 20
	if got := render(t, cfg, "%p%|%t\n", d); got != "Grocer         42.00\n" {
		t.Errorf("Incorrect filled line: %q", got)
	}

	// Each line is filled on its own.
	if got := render(t, cfg, "%p%|%t\nab%|c\n", d); got != "Grocer         42.00\nab                 c\n" {
		t.Errorf("Incorrect filled lines: %q", got)
	}

	cfg.LineWidth = 12
	if got := render(t, cfg, "a%|b%|c", d); got != "a     b    c" {
		t.Errorf("Incorrect shared fill: %q", got)
	}

	cfg.LineWidth = 4
	if got := render(t, cfg, "%p%2|x", d); got != "Grocer  x" {
		t.Errorf("Fill must not shrink below its minimum: %q", got)
	}

	if got := render(t, noFill(), "a%3|b", d); got != "a   b" {
		t.Errorf("Incorrect fill without a line width: %q", got)
	}
}

func TestRenderMultiCommodity(t *testing.T) {
	j := ledger.NewJournal()
	e := &ledger.Entry{Payee: "Exchange"}
	e.AddTransaction(&ledger.Transaction{Account: j.Account("Assets"), Amount: amt(t, "$10.00")})
	e.AddTransaction(&ledger.Transaction{Account: j.Account("Assets"), Amount: amt(t, "5.00 EUR")})
	e.AddTransaction(&ledger.Transaction{Account: j.Account("Equity"), Null: true})
	if err := j.AddEntry(e); err != nil {
		t.Fatal(err)
	}

	got := render(t, noFill(), "%-10N%12t\n", ledger.AccountDetails(j.Account("Assets")))
	want := "Assets          $10.00\n" +
		"              5.00 EUR\n"
	if got != want {
		t.Errorf("Incorrect output:\n%q\nExpected:\n%q", got, want)
	}
}

func TestRenderIndent(t *testing.T) {
	j, _ := testJournal(t)
	j.Account("Expenses").Displayed = true

	if got := render(t, noFill(), "%2_%-n|", ledger.AccountDetails(j.Account("Expenses:Food"))); got != "  Food|" {
		t.Errorf("Incorrect indent: %q", got)
	}
	if got := render(t, noFill(), "%_%n|", ledger.AccountDetails(j.Account("Expenses"))); got != "Expenses|" {
		t.Errorf("Incorrect indent for a top level account: %q", got)
	}
}

func TestRenderUnsetValue(t *testing.T) {
	_, e := testJournal(t)
	d := ledger.XactDetails(e.Transactions[0])

	if got := render(t, format.Config{}, "[%t][%5T]", d); got != "[][     ]" {
		t.Errorf("Incorrect output for unset expressions: %q", got)
	}

	ev := format.NewEvaluator(nil, expr.MustCompile("amount * 2"))
	if _, ok, _ := ev.ComputeValue(d); ok {
		t.Errorf("Unset value expression reported as set.")
	}
	b, ok, err := ev.ComputeTotal(d)
	if !ok || err != nil || b.String() != "84.00" {
		t.Errorf("Incorrect total: %v, %v, %v", b, ok, err)
	}
}

func TestRenderErrorKeepsPartialOutput(t *testing.T) {
	_, e := testJournal(t)

	buf := new(bytes.Buffer)
	err := format.NewRenderer(noFill()).Render(buf, format.MustParse("before %(amount / 0) after"), ledger.XactDetails(e.Transactions[0]))

	var exprErr *expr.Error
	if !errors.As(err, &exprErr) {
		t.Errorf("Expected expression error, got: %v", err)
	}
	if buf.String() != "before " {
		t.Errorf("Incorrect partial output: %q", buf.String())
	}
}

func TestTruncateDefault(t *testing.T) {
	if got := format.TruncateDefault("Expenses:Food:Groceries", 10, true); got != "..roceries" {
		t.Errorf("Account names must keep their tail: %q", got)
	}
	if got := format.TruncateDefault("Supermarket", 8, false); got != "Superm.." {
		t.Errorf("Free text must keep its head: %q", got)
	}
	if got := format.TruncateDefault("Short", 8, false); got != "Short" {
		t.Errorf("Short text must not change: %q", got)
	}
	if got := format.TruncateDefault("Supermarket", 2, false); got != "Su" {
		t.Errorf("Text too narrow for the marker must be cut without it: %q", got)
	}
}
