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
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/milochristiansen/ledgerfmt/expr"
	"github.com/milochristiansen/ledgerfmt/ledger"
	"github.com/ncruces/go-strftime"
)

// Renderer writes compiled formats for ledger records. It is never modified after creation, so it may be
// shared between reports.
type Renderer struct {
	cfg  Config
	eval Evaluator
}

// NewRenderer returns a Renderer using the given settings.
func NewRenderer(cfg Config) *Renderer {
	if cfg.DateFormat == "" {
		cfg.DateFormat = DefaultDateFormat
	}
	if cfg.Truncate == nil {
		cfg.Truncate = TruncateDefault
	}
	return &Renderer{cfg: cfg, eval: NewEvaluator(cfg.Value, cfg.Total)}
}

// Evaluator returns the value and total evaluator used by the t and T directives.
func (r *Renderer) Evaluator() Evaluator {
	return r.eval
}

// Render writes f for the given record.
//
// Output is written a line at a time, since fill directives need to know what comes after them. If an
// expression fails, whatever was produced so far is still written before the error is returned.
func (r *Renderer) Render(w io.Writer, f *Format, d ledger.Details) error {
	lb := &lineBuffer{w: w, width: r.cfg.LineWidth}

	for _, el := range f.Elements {
		switch el.Kind {
		case KindLiteral:
			lb.text(el.Text)
			continue
		case KindSpacer:
			lb.spacer(el.MinWidth)
			continue
		case KindIndent:
			lb.text(strings.Repeat(" ", indent(el, d)))
			continue
		}

		lines, err := r.raw(el, d)
		if err != nil {
			lb.flush()
			return err
		}

		account := el.Kind == KindAccountName || el.Kind == KindAccountFullName
		for i := range lines {
			lines[i] = r.fit(el, lines[i], account)
		}
		lb.column(lines)
	}

	return lb.flush()
}

// raw produces the text of an element before any width handling. Balances produce one line per commodity.
func (r *Renderer) raw(el Element, d ledger.Details) ([]string, error) {
	switch el.Kind {
	case KindExpr:
		v, err := el.Expr.Eval(d)
		if err != nil {
			return nil, err
		}
		switch v := v.(type) {
		case string:
			return []string{v}, nil
		case bool:
			return []string{strconv.FormatBool(v)}, nil
		}
		if b, ok := expr.ToBalance(v); ok {
			return b.Lines(), nil
		}
		return []string{fmt.Sprint(v)}, nil

	case KindDate:
		if d.Entry == nil {
			return []string{""}, nil
		}
		return []string{strftime.Format(r.cfg.DateFormat, d.Entry.Date)}, nil

	case KindCleared:
		state := ledger.StatusUndefined
		if d.Xact != nil {
			state = d.Xact.State()
		} else if d.Entry != nil {
			state = d.Entry.Status
		}
		switch state {
		case ledger.StatusClear:
			return []string{"* "}, nil
		case ledger.StatusPending:
			return []string{"! "}, nil
		}
		return []string{""}, nil

	case KindCode:
		if d.Entry == nil || d.Entry.Code == "" {
			return []string{""}, nil
		}
		return []string{"(" + d.Entry.Code + ") "}, nil

	case KindPayee:
		if d.Entry == nil {
			return []string{""}, nil
		}
		return []string{d.Entry.Payee}, nil

	case KindAccountName:
		if d.Xact != nil {
			return []string{d.Xact.PartialAccountName()}, nil
		}
		if d.Account != nil {
			return []string{d.Account.PartialName()}, nil
		}
		return []string{""}, nil

	case KindAccountFullName:
		if d.Xact != nil {
			return []string{d.Xact.AccountName()}, nil
		}
		if d.Account != nil {
			return []string{d.Account.FullName()}, nil
		}
		return []string{""}, nil

	case KindOptAmount:
		if d.Xact == nil {
			return []string{""}, nil
		}
		s := d.Xact.Amount.String()
		if unit := d.Xact.UnitCost(); unit != nil {
			s += " @ " + unit.String()
		}
		return []string{s}, nil

	case KindValue, KindTotal:
		compute := r.eval.ComputeValue
		if el.Kind == KindTotal {
			compute = r.eval.ComputeTotal
		}
		b, ok, err := compute(d)
		if err != nil {
			return nil, err
		}
		if !ok {
			return []string{""}, nil
		}
		return b.Lines(), nil
	}

	return nil, fmt.Errorf("unexpected element kind: %v", el.Kind)
}

// fit applies the maximum width and then the minimum width of an element.
func (r *Renderer) fit(el Element, s string, account bool) string {
	if el.MaxWidth > 0 && runewidth.StringWidth(s) > el.MaxWidth {
		s = r.cfg.Truncate(s, el.MaxWidth, account)
	}
	if el.MinWidth > 0 {
		if el.AlignLeft {
			return runewidth.FillRight(s, el.MinWidth)
		}
		return runewidth.FillLeft(s, el.MinWidth)
	}
	return s
}

func indent(el Element, d ledger.Details) int {
	if d.Account == nil {
		return 0
	}
	unit := el.MinWidth
	if el.MaxWidth > unit {
		unit = el.MaxWidth
	}
	if unit == 0 {
		unit = 1
	}
	return unit * d.Account.DisplayDepth()
}

type piece struct {
	text   string
	spacer bool
	min    int
}

// lineBuffer holds the pieces of the current output line until the line is complete and the fill
// directives on it can be sized.
type lineBuffer struct {
	w      io.Writer
	width  int
	pieces []piece
	err    error
}

func (lb *lineBuffer) text(s string) {
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			if s != "" {
				lb.pieces = append(lb.pieces, piece{text: s})
			}
			return
		}
		lb.pieces = append(lb.pieces, piece{text: s[:i+1]})
		lb.endLine()
		s = s[i+1:]
	}
}

func (lb *lineBuffer) spacer(min int) {
	lb.pieces = append(lb.pieces, piece{spacer: true, min: min})
}

// column writes a (possibly multi-line) column. Later lines are indented so they line up under the first.
func (lb *lineBuffer) column(lines []string) {
	lb.text(lines[0])
	if len(lines) == 1 {
		return
	}

	lb.pieces = append(lb.pieces, piece{text: "\n"})
	first := lb.endLine()
	pad := runewidth.StringWidth(first) - runewidth.StringWidth(lines[0])
	if pad < 0 {
		pad = 0
	}
	prefix := strings.Repeat(" ", pad)

	for _, line := range lines[1 : len(lines)-1] {
		lb.text(prefix + line + "\n")
	}
	lb.text(prefix + lines[len(lines)-1])
}

// resolve sizes the fill pieces and returns the finished line. Fill pieces share whatever width remains,
// any odd cells go to the earliest ones.
func (lb *lineBuffer) resolve() string {
	content, spacers, mins := 0, 0, 0
	for _, p := range lb.pieces {
		if p.spacer {
			spacers++
			mins += p.min
			continue
		}
		content += runewidth.StringWidth(p.text)
	}

	extra := 0
	if spacers > 0 && lb.width > 0 {
		extra = lb.width - content - mins
		if extra < 0 {
			extra = 0
		}
	}

	buf := new(strings.Builder)
	n := 0
	for _, p := range lb.pieces {
		if !p.spacer {
			buf.WriteString(p.text)
			continue
		}
		fill := p.min + extra/spacers
		if n < extra%spacers {
			fill++
		}
		n++
		buf.WriteString(strings.Repeat(" ", fill))
	}
	return buf.String()
}

func (lb *lineBuffer) endLine() string {
	line := lb.resolve()
	lb.pieces = lb.pieces[:0]
	if lb.err == nil {
		_, lb.err = io.WriteString(lb.w, line)
	}
	return line
}

func (lb *lineBuffer) flush() error {
	if len(lb.pieces) > 0 {
		lb.endLine()
	}
	return lb.err
}
