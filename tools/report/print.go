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

	"github.com/milochristiansen/ledgerfmt/tools"
)

type printCmd struct {
	*app
	jf   tools.JournalFlags
	dest string
}

func (*printCmd) Name() string     { return "print" }
func (*printCmd) Synopsis() string { return "write the journal back out in canonical form" }
func (*printCmd) Usage() string {
	return `print [-f <file>] [-ofx <file> -ofx-account <account>] [-S] [-o <file>]

  Writes the journal, along with any imported OFX statement, with null
  amounts filled in. Use it to merge a bank statement into a ledger file.
`
}

func (c *printCmd) SetFlags(f *flag.FlagSet) {
	c.jf.SetFlags(f, c.settings)
	f.StringVar(&c.dest, "o", "-", "The output file `path`.")
}

func (c *printCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return tools.Status(c.run())
}

func (c *printCmd) run() error {
	j, err := c.jf.LoadJournal(c.log)
	if err != nil {
		return err
	}

	if c.dest != "-" {
		return tools.WriteJournal(c.dest, j)
	}
	w := bufio.NewWriter(c.out)
	err = j.Format(w)
	if err != nil {
		return err
	}
	return w.Flush()
}
