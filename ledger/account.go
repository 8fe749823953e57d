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
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Account is a single node in the account tree. The master account at the root of the tree has no name.
type Account struct {
	Parent   *Account
	Name     string // The last element of the account name.
	Children map[string]*Account
	Depth    int
	Note     string

	Value Balance // Sum of the amounts posted directly to this account.
	Total Balance // Value plus the totals of all children. Filled in by CalcTotals.
	Count int     // Number of transactions posted directly to this account.

	// Displayed is set by the report drivers once the account has been written.
	Displayed bool
}

// NewMaster returns an empty master account.
func NewMaster() *Account {
	return &Account{Children: map[string]*Account{}}
}

// IsMaster returns true if this is the nameless root of an account tree.
func (a *Account) IsMaster() bool {
	return a.Parent == nil && a.Name == ""
}

// Find looks up a colon separated account path below this account. If create is true, missing accounts are
// added to the tree, otherwise nil is returned for an account that does not exist.
func (a *Account) Find(path string, create bool) *Account {
	if path == "" {
		return a
	}

	acct := a
	for _, part := range strings.Split(path, ":") {
		child, ok := acct.Children[part]
		if !ok {
			if !create {
				return nil
			}
			child = &Account{
				Parent:   acct,
				Name:     part,
				Children: map[string]*Account{},
				Depth:    acct.Depth + 1,
			}
			if acct.Children == nil {
				acct.Children = map[string]*Account{}
			}
			acct.Children[part] = child
		}
		acct = child
	}
	return acct
}

// FullName returns the colon separated path from the master account down to this one.
func (a *Account) FullName() string {
	name := ""
	for acct := a; acct != nil && acct.Name != ""; acct = acct.Parent {
		if name == "" {
			name = acct.Name
		} else {
			name = acct.Name + ":" + name
		}
	}
	return name
}

// PartialName returns the account path below the nearest ancestor that was already displayed. Accounts whose
// parents were collapsed away come out as "Parent:Child".
func (a *Account) PartialName() string {
	name := ""
	for acct := a; acct != nil && acct.Name != ""; acct = acct.Parent {
		if acct != a && acct.Displayed {
			break
		}
		if name == "" {
			name = acct.Name
		} else {
			name = acct.Name + ":" + name
		}
	}
	return name
}

// DisplayDepth returns the number of ancestors that were already displayed.
func (a *Account) DisplayDepth() int {
	depth := 0
	for acct := a.Parent; acct != nil; acct = acct.Parent {
		if acct.Displayed {
			depth++
		}
	}
	return depth
}

// SortedChildren returns the children of this account ordered by name.
func (a *Account) SortedChildren() []*Account {
	keys := maps.Keys(a.Children)
	slices.Sort(keys)

	rtn := make([]*Account, 0, len(keys))
	for _, k := range keys {
		rtn = append(rtn, a.Children[k])
	}
	return rtn
}

// Post adds the amount of a transaction to this account.
func (a *Account) Post(amt Amount) {
	a.Value = a.Value.AddAmount(amt)
	a.Count++
}

// CalcTotals fills in Total for this account and everything below it.
func (a *Account) CalcTotals() Balance {
	total := a.Value
	for _, child := range a.Children {
		total = total.Add(child.CalcTotals())
	}
	a.Total = total
	return total
}

// ResetDisplayed clears the Displayed flag on this account and everything below it.
func (a *Account) ResetDisplayed() {
	a.Displayed = false
	for _, child := range a.Children {
		child.ResetDisplayed()
	}
}

func (a *Account) String() string {
	return a.FullName()
}
