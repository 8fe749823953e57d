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

// Details is the view of the ledger a report line is rendered against. Exactly one of Xact, Account, or a
// lone Entry is the subject of the view, the other fields are filled in from it where they exist.
type Details struct {
	Entry   *Entry
	Xact    *Transaction
	Account *Account
}

// XactDetails returns a view of a transaction, along with its entry and account.
func XactDetails(x *Transaction) Details {
	return Details{Entry: x.Entry, Xact: x, Account: x.Account}
}

// AccountDetails returns a view of an account.
func AccountDetails(a *Account) Details {
	return Details{Account: a}
}

// EntryDetails returns a view of an entry without any particular transaction.
func EntryDetails(e *Entry) Details {
	return Details{Entry: e}
}
