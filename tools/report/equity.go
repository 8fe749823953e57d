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
	"time"

	"github.com/google/subcommands"

	"github.com/milochristiansen/ledgerfmt/report"
	"github.com/milochristiansen/ledgerfmt/tools"
)

type equityCmd struct {
	*app
	jf tools.JournalFlags
	rf tools.ReportFlags

	now func() time.Time
}

func (*equityCmd) Name() string     { return "equity" }
func (*equityCmd) Synopsis() string { return "write an opening balances entry" }
func (*equityCmd) Usage() string {
	return `equity [-f <file>] [-d <expr>] [-F <format>] [-next-format <format>] [-empty]

  Writes a single entry that moves the balance of every account into an
  "Opening Balances" entry, balanced against Equity:Opening Balances. The
  result can start the journal for a new period.
`
}

func (c *equityCmd) SetFlags(f *flag.FlagSet) {
	c.jf.SetFlags(f, c.settings)
	c.rf.SetFlags(f, false)
}

func (c *equityCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return tools.Status(c.run())
}

func (c *equityCmd) run() error {
	j, err := c.jf.LoadJournal(c.log)
	if err != nil {
		return err
	}

	r, s, err := c.renderer(&c.rf)
	if err != nil {
		return err
	}
	first, next, err := formats(tools.Pick(c.rf.Format, s.EquityFormat), tools.Pick(c.rf.NextFormat, s.EquityNextFormat))
	if err != nil {
		return err
	}
	pred, err := predicate(&c.rf, "amount")
	if err != nil {
		return err
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}

	w := bufio.NewWriter(c.out)
	q, err := report.NewEquity(w, r, first, next, pred, now())
	if err != nil {
		w.Flush()
		return err
	}
	err = report.WalkAccounts(j.Master, q)
	if err != nil {
		w.Flush()
		return err
	}
	c.log.Debug("equity written", "total", q.Total().String())
	return nil
}
