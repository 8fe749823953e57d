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

package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/milochristiansen/ledgerfmt/parse/lex"
)

// Journal holds a parsed ledger file: its entries, its directives, and the account tree the entries post to.
type Journal struct {
	Entries    []*Entry
	Directives []Directive
	Master     *Account
}

// NewJournal returns an empty journal with a fresh master account.
func NewJournal() *Journal {
	return &Journal{Master: NewMaster()}
}

// Directive is a simple type to represent a partially parsed, but not validated, command directive.
type Directive struct {
	Type        string       // The keyword that starts the directive.
	Argument    string       // Any remaining content that was on the first line of the directive.
	Lines       []string     // Subsequent indented lines. Stored here unparsed.
	FoundBefore int          // The entry index this directive precedes.
	Location    lex.Location // Line number this directive begins at.
}

func (d *Directive) String() string {
	buf := new(bytes.Buffer)

	buf.WriteString(d.Type)
	buf.WriteRune(' ')
	buf.WriteString(d.Argument)
	buf.WriteRune('\n')

	for _, line := range d.Lines {
		buf.WriteRune('\t')
		buf.WriteString(line)
		buf.WriteRune('\n')
	}

	return buf.String()
}

// ErrMalformedAccountName is returned by Journal.AddDirective if an account name is malformed.
type ErrMalformedAccountName struct {
	Name     string
	Location lex.Location
}

func (err ErrMalformedAccountName) Error() string {
	return fmt.Sprintf("Malformed account name (%s) at %s", err.Name, err.Location)
}

// AddEntry balances an entry, appends it to the journal, and posts its transactions to their accounts.
// Transactions must already have their Account set to an account in this journal's tree.
func (j *Journal) AddEntry(e *Entry) error {
	err := e.Finalize()
	if err != nil {
		return err
	}

	for _, x := range e.Transactions {
		x.Entry = e
		if x.Account == nil {
			x.Account = j.Master
		}
		x.Account.Post(x.Amount)
	}

	j.Entries = append(j.Entries, e)
	return nil
}

// AddDirective records a directive. Account directives declare their account in the tree, so it is shown even
// if nothing posts to it, and set its note.
func (j *Journal) AddDirective(d Directive) error {
	d.FoundBefore = len(j.Entries)
	j.Directives = append(j.Directives, d)

	if d.Type != "account" {
		return nil
	}

	// filter out some things that cause funny behavior
	if d.Argument == "" || strings.Contains(d.Argument, "  ") || strings.ContainsAny(d.Argument, ";\t") {
		return ErrMalformedAccountName{d.Argument, d.Location}
	}

	acct := j.Master.Find(d.Argument, true)
	for _, sd := range d.Lines {
		if strings.HasPrefix(sd, "note") {
			acct.Note = strings.TrimSpace(sd[len("note"):])
		}
	}
	return nil
}

// Account returns the named account, creating it if needed.
func (j *Journal) Account(name string) *Account {
	return j.Master.Find(name, true)
}

// SortByDate orders the entries by date, keeping source order for entries on the same day. Directive positions
// are not preserved.
func (j *Journal) SortByDate() {
	sort.Stable(EntryDateSorter(j.Entries))
	for i := range j.Directives {
		j.Directives[i].FoundBefore = 0
	}
}

// CalcTotals fills in the totals of every account in the tree.
func (j *Journal) CalcTotals() {
	j.Master.CalcTotals()
}

// ResetDisplayed clears the Displayed flag on every account and transaction so another report can be run.
func (j *Journal) ResetDisplayed() {
	j.Master.ResetDisplayed()
	for _, e := range j.Entries {
		for _, x := range e.Transactions {
			x.Displayed = false
		}
	}
}

// ErrImproperInterleave is returned by Journal.Format if the lists do not interleave properly.
// Caused by bad FoundBefore values in the directives.
var ErrImproperInterleave = errors.New("Ledger file entry and directive lists do not interleave properly.")

// Format writes out a ledger file, interleaving the entries and directives according to the
// "FoundBefore" values in the directives. The directive list is sorted on the FoundBefore values as
// part of this operation.
func (j *Journal) Format(w io.Writer) error {
	// Use a stable sort to be minimally disruptive.
	sort.SliceStable(j.Directives, func(a, b int) bool {
		return j.Directives[a].FoundBefore < j.Directives[b].FoundBefore
	})

	cen, cdr := 0, 0
	for cen < len(j.Entries) || cdr < len(j.Directives) {
		// If we have remaining directives and the next directive goes before the current entry
		if cdr < len(j.Directives) && j.Directives[cdr].FoundBefore == cen {
			_, err := fmt.Fprintf(w, "\n%v", j.Directives[cdr].String())
			if err != nil {
				return err
			}
			cdr++
			continue
		}

		// If we have remaining directives and we are out of entries
		if cen >= len(j.Entries) {
			return ErrImproperInterleave
		}

		_, err := fmt.Fprintf(w, "\n%v", j.Entries[cen].String())
		if err != nil {
			return err
		}
		cen++
	}
	return nil
}
