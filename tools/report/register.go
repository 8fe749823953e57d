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

package main

import (
	"bufio"
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/milochristiansen/ledgerfmt/expr"
	"github.com/milochristiansen/ledgerfmt/ledger"
	"github.com/milochristiansen/ledgerfmt/report"
	"github.com/milochristiansen/ledgerfmt/tools"
)

type registerCmd struct {
	*app
	jf tools.JournalFlags
	rf tools.ReportFlags
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "list transactions with a running total" }
func (*registerCmd) Usage() string {
	return `register [-f <file>] [-l <expr>] [-d <expr>] [-F <format>] [-next-format <format>]

  Writes one line per transaction. The first transaction of each entry uses
  the first format, the rest use the continuation format. -l limits which
  transactions count toward the running total, -d only limits which are shown.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	c.jf.SetFlags(f, c.settings)
	c.rf.SetFlags(f, true)
}

func (c *registerCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return tools.Status(c.run())
}

func (c *registerCmd) run() error {
	j, err := c.jf.LoadJournal(c.log)
	if err != nil {
		return err
	}

	r, s, err := c.renderer(&c.rf)
	if err != nil {
		return err
	}

	next := s.RegisterNextFormat
	if c.rf.Format != "" {
		next = c.rf.NextFormat
	}
	first, nf, err := formats(tools.Pick(c.rf.Format, s.RegisterFormat), tools.Pick(c.rf.NextFormat, next))
	if err != nil {
		return err
	}

	display, err := expr.CompilePredicate(c.rf.Display)
	if err != nil {
		return err
	}
	limit, err := expr.CompilePredicate(c.rf.Limit)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(c.out)

	var h report.Handler[*ledger.Transaction] = report.NewTransactions(w, r, first, nf)
	h = report.NewXactFilter(h, display)
	h = &report.Calc{Next: h}
	h = report.NewXactFilter(h, limit)

	err = report.WalkTransactions(j.Entries, h)
	if err != nil {
		// Whatever was rendered before the error still goes out.
		w.Flush()
		return err
	}
	return nil
}
