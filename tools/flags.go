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

package tools

import (
	"flag"
	"fmt"
	"strings"

	"github.com/milochristiansen/ledgerfmt/config"
	"github.com/milochristiansen/ledgerfmt/ledger"
)

// JournalFlags selects the journal a command reads, and any OFX statements merged into it.
type JournalFlags struct {
	File       string
	OFX        string
	OFXAccount string
	OFXDefault string
	OFXDesc    string
	Sort       bool
}

// SetFlags registers the journal flags. File defaults to the LEDGER_FILE setting.
func (jf *JournalFlags) SetFlags(f *flag.FlagSet, s config.Settings) {
	f.StringVar(&jf.File, "f", s.File, "The ledger file `path`, - for standard input.")
	f.StringVar(&jf.OFX, "ofx", "", "An OFX statement `path` to import before reporting.")
	f.StringVar(&jf.OFXAccount, "ofx-account", "Assets:Bank", "The `account` the OFX statement belongs to.")
	f.StringVar(&jf.OFXDefault, "ofx-default", "Expenses:Unknown", "The counter `account` for imported transactions.")
	f.StringVar(&jf.OFXDesc, "ofx-desc", "name", "Where imported payees come from: name, memo, or both.")
	f.BoolVar(&jf.Sort, "S", false, "Sort entries by date.")
}

// DescSrc returns the OFX payee source named by the -ofx-desc flag.
func (jf *JournalFlags) DescSrc() (ledger.OFXDescSrc, error) {
	switch strings.ToLower(jf.OFXDesc) {
	case "name":
		return ledger.OFXDescName, nil
	case "memo":
		return ledger.OFXDescMemo, nil
	case "both", "name+memo":
		return ledger.OFXDescNameMemo, nil
	}
	return ledger.OFXDescName, fmt.Errorf("unknown OFX description source: %q", jf.OFXDesc)
}

// ReportFlags holds the flags shared by the report commands. Empty strings leave the configured value alone.
type ReportFlags struct {
	Display    string
	Limit      string
	Format     string
	NextFormat string
	Empty      bool
	Columns    int
	DateFormat string
}

// SetFlags registers the report flags. withLimit adds -l, for reports over transactions.
func (rf *ReportFlags) SetFlags(f *flag.FlagSet, withLimit bool) {
	f.StringVar(&rf.Display, "d", "", "Only show the records matching this `expression`.")
	if withLimit {
		f.StringVar(&rf.Limit, "l", "", "Only consider the transactions matching this `expression`.")
	}
	f.StringVar(&rf.Format, "F", "", "The report `format`.")
	f.StringVar(&rf.NextFormat, "next-format", "", "The `format` for every line of an entry after the first.")
	f.BoolVar(&rf.Empty, "empty", false, "Show accounts with a zero balance.")
	f.IntVar(&rf.Columns, "columns", 0, "The line `width` fill directives pad to.")
	f.StringVar(&rf.DateFormat, "date-format", "", "The strftime `pattern` dates are written with.")
}

// Apply copies the flags that were set over the settings.
func (rf *ReportFlags) Apply(s config.Settings) config.Settings {
	if rf.Columns > 0 {
		s.Columns = rf.Columns
	}
	if rf.DateFormat != "" {
		s.DateFormat = rf.DateFormat
	}
	return s
}

// Pick returns the flag value if set, otherwise def.
func Pick(flag, def string) string {
	if flag != "" {
		return flag
	}
	return def
}
