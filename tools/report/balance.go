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
	"fmt"

	"github.com/google/subcommands"

	"github.com/milochristiansen/ledgerfmt/ledger"
	"github.com/milochristiansen/ledgerfmt/report"
	"github.com/milochristiansen/ledgerfmt/tools"
)

type balanceCmd struct {
	*app
	jf tools.JournalFlags
	rf tools.ReportFlags
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show the balance of every account" }
func (*balanceCmd) Usage() string {
	return `balance [-f <file>] [-d <expr>] [-F <format>] [-empty]

  Writes the account tree, one line per account. Accounts with a zero total
  are left out unless -empty is given. A parent with a single child and the
  same total is folded into its child.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	c.jf.SetFlags(f, c.settings)
	c.rf.SetFlags(f, false)
}

func (c *balanceCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return tools.Status(c.run())
}

func (c *balanceCmd) run() error {
	j, err := c.jf.LoadJournal(c.log)
	if err != nil {
		return err
	}

	r, s, err := c.renderer(&c.rf)
	if err != nil {
		return err
	}
	f, _, err := formats(tools.Pick(c.rf.Format, s.BalanceFormat), "")
	if err != nil {
		return err
	}
	pred, err := predicate(&c.rf, "total")
	if err != nil {
		return err
	}

	w := bufio.NewWriter(c.out)
	h := report.NewAccounts(w, r, f, pred, false)
	err = report.WalkAccounts(j.Master, h)
	if err != nil {
		w.Flush()
		return err
	}
	c.log.Debug("accounts written", "top-level", h.TopLevel)

	if h.TopLevel > 1 {
		fmt.Fprintln(w, "--------------------")
		err = r.Render(w, f, ledger.AccountDetails(j.Master))
		if err != nil {
			w.Flush()
			return err
		}
	}
	return w.Flush()
}
