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

// Package tools contains common code used for implementing the command line tools.
package tools

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/milochristiansen/ledgerfmt/ledger"
	"github.com/milochristiansen/ledgerfmt/parse"
	"github.com/milochristiansen/ledgerfmt/parse/lex"
)

// ErrNoJournal is returned by LoadJournal when no journal file was given.
var ErrNoJournal = errors.New("No ledger file given, use -f or set LEDGER_FILE.")

// ReadJournal parses a journal from r.
func ReadJournal(r io.Reader) (*ledger.Journal, error) {
	// The parser wants every line terminated, including the last.
	src := io.MultiReader(r, strings.NewReader("\n"))
	return parse.ParseJournalRaw(lex.NewRawCharReader(bufio.NewReader(src), 1))
}

// LoadJournal loads the journal named by the flags, imports the OFX statement if one was given, and sorts
// the entries if asked to.
func (jf *JournalFlags) LoadJournal(log *slog.Logger) (*ledger.Journal, error) {
	if jf.File == "" {
		return nil, ErrNoJournal
	}

	var in io.Reader = os.Stdin
	if jf.File != "-" {
		f, err := os.Open(jf.File)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	j, err := ReadJournal(in)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", jf.File, err)
	}
	log.Debug("journal loaded", "file", jf.File, "entries", len(j.Entries), "directives", len(j.Directives))

	if jf.OFX != "" {
		src, err := jf.DescSrc()
		if err != nil {
			return nil, err
		}

		f, err := os.Open(jf.OFX)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		n, err := j.ImportOFX(bufio.NewReader(f), src, jf.OFXAccount, jf.OFXDefault)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", jf.OFX, err)
		}
		log.Info("statement imported", "file", jf.OFX, "account", jf.OFXAccount, "added", n)
	}

	if jf.Sort {
		j.SortByDate()
	}
	j.CalcTotals()
	return j, nil
}

// WriteJournal writes out a journal to the given path, or standard output if the path is "-".
func WriteJournal(path string, j *ledger.Journal) error {
	if path == "-" {
		w := bufio.NewWriter(os.Stdout)
		err := j.Format(w)
		if err != nil {
			return err
		}
		return w.Flush()
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	err = j.Format(w)
	if err == nil {
		err = w.Flush()
	}
	cerr := f.Close()
	if err != nil {
		return err
	}
	return cerr
}

// NewLogger returns a text logger writing to standard error.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}
