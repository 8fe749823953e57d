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

package parse

import (
	"strings"
	"time"

	"github.com/milochristiansen/ledgerfmt/ledger"
	"github.com/milochristiansen/ledgerfmt/parse/lex"
)

/*

Each element is either an entry or a directive.

Entries start with a date, directives start with a keyword. Both may be followed by indented lines that belong to
them. Periodic and automated entries are not supported.

*/

// ParseJournal parses a ledger file from a string into a Journal.
func ParseJournal(input string) (*ledger.Journal, error) {
	if !strings.HasSuffix(input, "\n") {
		input += "\n"
	}
	return ParseJournalRaw(lex.NewCharReader(input, 1))
}

// ParseJournalRaw parses a ledger file from a CharReader into a Journal. Every line, including the last, must
// end with a newline.
func ParseJournalRaw(cr *lex.CharReader) (*ledger.Journal, error) {
	j := ledger.NewJournal()
	for !cr.EOF {
		// Eat any leading white space, also lines that are blank.
		cr.Eat(" \t")
		if cr.EOF {
			break
		}
		if cr.C == '\n' {
			cr.Next()
			continue
		}

		// Consume comments that are not part of the body of an entry.
		if cr.Match(";#") {
			cr.EatUntil("\n")
			cr.Next()
			continue
		}

		if cr.MatchAlpha() {
			d, err := parseDirective(cr)
			if err != nil {
				return nil, err
			}
			err = j.AddDirective(d)
			if err != nil {
				return nil, err
			}
			continue
		}

		e, err := parseEntry(cr, j)
		if err != nil {
			return nil, err
		}
		err = j.AddEntry(e)
		if err != nil {
			return nil, err
		}
	}

	return j, nil
}

func line(cr *lex.CharReader) int {
	return int(cr.L.Line())
}

// parseDirective reads a keyword, the rest of its line, and any indented lines that follow.
func parseDirective(cr *lex.CharReader) (ledger.Directive, error) {
	d := ledger.Directive{Location: cr.L}

	d.Type = string(cr.ReadUntil(" \t\n", nil))
	arg, err := ReadUntilTrimmed(cr, "\n")
	if err != nil {
		return d, err
	}
	d.Argument = arg
	cr.Next()

	for !cr.EOF && cr.Match(" \t") {
		cr.Eat(" \t")
		sub, err := ReadUntilTrimmed(cr, "\n")
		if err != nil {
			return d, err
		}
		cr.Next()
		if sub != "" {
			d.Lines = append(d.Lines, sub)
		}
	}
	return d, nil
}

// parseEntry reads an entry header and its indented lines. Accounts are created in j as they are found.
func parseEntry(cr *lex.CharReader, j *ledger.Journal) (*ledger.Entry, error) {
	current := &ledger.Entry{
		Tags:    map[string]bool{},
		KVPairs: map[string]string{},
		Line:    line(cr),
	}

	// Parse the leading dates(s)
	date, err := ParseDate(cr)
	if err != nil {
		return nil, err
	}
	current.Date = date
	if cr.C == '=' {
		cr.Next()
		date, err := ParseDate(cr)
		if err != nil {
			return nil, err
		}
		current.ClearDate = date
	}

	cr.Eat(" \t")
	if cr.EOF {
		return nil, ErrUnexpectedEnd(line(cr))
	}

	current.Status = parseStatus(cr)

	// Maybe more whitespace (only if there was a cleared indicator)
	cr.Eat(" \t")
	if cr.EOF {
		return nil, ErrUnexpectedEnd(line(cr))
	}

	// An optional "code"
	if cr.C == '(' {
		cr.Next()
		cr.Eat(" \t")
		code, err := ReadUntilTrimmed(cr, ")\n")
		if err != nil {
			return nil, err
		}
		if cr.C == '\n' {
			return nil, ErrMalformed(line(cr))
		}
		current.Code = code
		cr.Next()
	}

	cr.Eat(" \t")
	if cr.EOF {
		return nil, ErrUnexpectedEnd(line(cr))
	}

	// And, to cap the first line off, the payee.
	payee, err := ReadUntilTrimmed(cr, "\n")
	if err != nil {
		return nil, err
	}
	current.Payee = payee
	cr.Next()

	// Now parse the individual postings or comment lines.
	for !cr.EOF && cr.Match(" \t") {
		cr.Eat(" \t")
		if cr.EOF {
			return nil, ErrUnexpectedEnd(line(cr))
		}

		// A blank line that happens to hold white space ends the entry.
		if cr.C == '\n' {
			cr.Next()
			break
		}

		if cr.C == ';' {
			cr.Next()
			err := parseComment(cr, current)
			if err != nil {
				return nil, err
			}
			continue
		}

		x, err := parseTransaction(cr, j)
		if err != nil {
			return nil, err
		}
		current.AddTransaction(x)
	}

	return current, nil
}

func parseStatus(cr *lex.CharReader) ledger.Status {
	switch cr.C {
	case '*':
		cr.Next()
		return ledger.StatusClear
	case '!':
		cr.Next()
		return ledger.StatusPending
	}
	return ledger.StatusUndefined
}

// parseComment reads a comment line attached to an entry, starting just after the ';'. Lines of the form
// ":tag:tag:" add tags, lines of the form "Key: Value" add a key/value pair, anything else is kept as a comment.
func parseComment(cr *lex.CharReader, current *ledger.Entry) error {
	cr.Eat(" \t")
	if cr.EOF {
		return ErrUnexpectedEnd(line(cr))
	}

	// OK, we are going to read the line into a buffer, trying to look for patterns as we go.
	ln := []rune{}
	key := ""

	// 0: Starting.
	// 1: Found a colon first, read tags.
	// 2: Read at least one character, possible k/v
	// 3: Found a colon+space after state 2, finish reading k/v
	// 4: Not consistent with other states, just read as comment.
	state := 0
	for !cr.Match("\n") {
		switch state {
		case 0:
			if cr.C == ':' {
				state = 1
				break
			}
			ln = append(ln, cr.C)
			state = 2

		case 1:
			if cr.C != ':' {
				ln = append(ln, cr.C)
				break
			}
			tag := strings.TrimSpace(string(ln))
			if tag != "" {
				current.Tags[tag] = true
				ln = ln[:0]
			}

		case 2:
			switch {
			case cr.C == ':' && cr.NMatch(" \t"):
				// Dump ln and save aside as the key.
				key = string(ln)
				ln = ln[:0]
				state = 3
				cr.Next()
				cr.Eat(" \t")
				if cr.EOF {
					return ErrUnexpectedEnd(line(cr))
				}
				continue
			case cr.C == ':' || cr.Match(" \t"):
				// Keys cannot hold white space, and a colon must be followed by some.
				state = 4
			}
			ln = append(ln, cr.C)

		default:
			ln = append(ln, cr.C)
		}

		cr.Next()
		if cr.EOF {
			return ErrUnexpectedEnd(line(cr))
		}
	}
	cr.Next()

	switch state {
	case 1:
		for _, c := range ln {
			if c != ' ' && c != '\t' {
				// Character on a tag line that is not part of tags.
				return ErrMalformedTagLine(line(cr) - 1)
			}
		}
	case 3:
		current.KVPairs[key] = strings.TrimSpace(string(ln))
	case 2, 4:
		current.Comments = append(current.Comments, strings.TrimSpace(string(ln)))
	}
	return nil
}

// parseTransaction reads a single posting line.
func parseTransaction(cr *lex.CharReader, j *ledger.Journal) (*ledger.Transaction, error) {
	x := &ledger.Transaction{}
	at := line(cr)

	x.Status = parseStatus(cr)
	cr.Eat(" \t")
	if cr.EOF {
		return nil, ErrUnexpectedEnd(at)
	}

	// Account names may include spaces, but only one in a row. Two or more spaces or a tab ends the name.
	buf := []rune{}
	for !(cr.C == '\t' || cr.C == '\n' || (cr.C == ' ' && cr.NC == ' ')) {
		buf = append(buf, cr.C)
		cr.Next()
		if cr.EOF {
			return nil, ErrUnexpectedEnd(at)
		}
	}
	name := strings.TrimSpace(string(buf))

	switch {
	case strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")"):
		x.Virtual = true
		name = name[1 : len(name)-1]
	case strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]"):
		x.Virtual = true
		x.Balanced = true
		name = name[1 : len(name)-1]
	}
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, "()[]") {
		return nil, ErrMalformed(at)
	}
	x.Account = j.Account(name)

	cr.Eat(" \t")
	if cr.EOF {
		return nil, ErrUnexpectedEnd(at)
	}

	// Everything up to the note is the amount and its cost.
	text, err := ReadUntilTrimmed(cr, ";\n")
	if err != nil {
		return nil, err
	}
	err = parseAmount(text, x, at)
	if err != nil {
		return nil, err
	}

	// Optional note
	if cr.C == ';' {
		cr.Next()
		note, err := ReadUntilTrimmed(cr, "\n")
		if err != nil {
			return nil, err
		}
		x.Note = note
	}
	cr.Next()

	return x, nil
}

// parseAmount fills in the amount and cost of x from text such as "10 AAPL @ $5.00" or "10 AAPL @@ $50.00".
func parseAmount(text string, x *ledger.Transaction, at int) error {
	amt, cost, total := text, "", false
	if i := strings.Index(text, "@@"); i >= 0 {
		amt, cost, total = text[:i], text[i+2:], true
	} else if i := strings.IndexByte(text, '@'); i >= 0 {
		amt, cost = text[:i], text[i+1:]
	}
	amt = strings.TrimSpace(amt)

	if amt == "" {
		if cost != "" {
			return ErrMalformed(at)
		}
		x.Null = true
		return nil
	}

	a, err := ledger.ParseAmount(amt)
	if err != nil {
		return ErrBadAmount(at)
	}
	x.Amount = a

	if strings.TrimSpace(cost) == "" {
		if strings.Contains(text, "@") {
			return ErrBadAmount(at)
		}
		return nil
	}

	c, err := ledger.ParseAmount(cost)
	if err != nil {
		return ErrBadAmount(at)
	}
	c.Quantity = c.Quantity.Abs()
	if !total {
		c.Quantity = c.Quantity.Mul(a.Quantity.Abs())
	}
	if a.Quantity.Sign() < 0 {
		c.Quantity = c.Quantity.Neg()
	}
	x.Cost = &c
	return nil
}

// ReadUntilTrimmed reads characters from the CharReader until one of the characters in `chars` is found.
// The result then has all the whitespace trimmed from the ends.
func ReadUntilTrimmed(cr *lex.CharReader, chars string) (string, error) {
	ln := cr.ReadUntil(chars, nil)
	if cr.EOF {
		return "", ErrUnexpectedEnd(line(cr))
	}
	return strings.Trim(string(ln), " \t"), nil
}

// ParseDate reads a date (in yyyy/mm/dd format, '-' and '.' also work as separators) from the CharReader.
func ParseDate(cr *lex.CharReader) (time.Time, error) {
	date := []rune{}
	var t time.Time

	for i, limit := range []int{4, 2, 2} {
		if i > 0 {
			if !cr.Match("/-.") {
				return t, ErrBadDate(line(cr))
			}
			date = append(date, '/')
			cr.Next()
		}

		ok := false
		ok, date = cr.ReadMatchLimit("0123456789", date, limit)
		if !ok {
			return t, ErrBadDate(line(cr))
		}
		if cr.EOF {
			return t, ErrUnexpectedEnd(line(cr))
		}
	}

	t, err := time.Parse("2006/01/02", string(date))
	if err != nil {
		return t, ErrBadDate(line(cr))
	}
	return t, nil
}
