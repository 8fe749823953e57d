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

package format

import (
	"github.com/mattn/go-runewidth"
	"github.com/milochristiansen/ledgerfmt/expr"
	"github.com/milochristiansen/ledgerfmt/ledger"
)

// DefaultDateFormat is the strftime pattern used when Config.DateFormat is empty.
const DefaultDateFormat = "%Y/%m/%d"

// TruncationMarker is appended (or prepended) to text cut short by a maximum width.
const TruncationMarker = ".."

// Config holds the settings shared by every format rendered through a Renderer.
type Config struct {
	DateFormat string     // strftime pattern for the d directive.
	Value      *expr.Expr // Computes the t directive. nil prints nothing.
	Total      *expr.Expr // Computes the T directive. nil prints nothing.
	LineWidth  int        // Width fill directives pad lines out to. 0 disables filling.

	// Truncate shortens text to a maximum display width. If nil, TruncateDefault is used.
	Truncate TruncateFunc
}

// DefaultConfig returns the settings used by ledger's own reports.
func DefaultConfig() Config {
	return Config{
		DateFormat: DefaultDateFormat,
		Value:      expr.MustCompile("amount"),
		Total:      expr.MustCompile("total"),
		LineWidth:  80,
	}
}

// TruncateFunc shortens s to exactly width display cells. account is true if s is an account name.
type TruncateFunc func(s string, width int, account bool) string

// TruncateDefault keeps the start of free text and the end of account names, since the last few
// segments of an account name are the most specific.
func TruncateDefault(s string, width int, account bool) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}

	mw := runewidth.StringWidth(TruncationMarker)
	if width <= mw {
		return runewidth.Truncate(s, width, "")
	}

	if account {
		return runewidth.TruncateLeft(s, runewidth.StringWidth(s)-(width-mw), TruncationMarker)
	}
	return runewidth.Truncate(s, width, TruncationMarker)
}

// Evaluator computes the value and total of a record.
type Evaluator struct {
	value *expr.Expr
	total *expr.Expr
}

// NewEvaluator returns an Evaluator for the given expressions. Either may be nil.
func NewEvaluator(value, total *expr.Expr) Evaluator {
	return Evaluator{value: value, total: total}
}

// ComputeValue evaluates the value expression. Returns false if there is no value expression.
func (ev Evaluator) ComputeValue(d ledger.Details) (ledger.Balance, bool, error) {
	return compute(ev.value, d)
}

// ComputeTotal evaluates the total expression. Returns false if there is no total expression.
func (ev Evaluator) ComputeTotal(d ledger.Details) (ledger.Balance, bool, error) {
	return compute(ev.total, d)
}

func compute(e *expr.Expr, d ledger.Details) (ledger.Balance, bool, error) {
	if e == nil {
		return ledger.Balance{}, false, nil
	}
	b, err := e.Compute(d)
	if err != nil {
		return ledger.Balance{}, true, err
	}
	return b, true, nil
}
