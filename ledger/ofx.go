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
	"errors"
	"io"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// OFXDescSrc selects which OFX transaction fields become the payee of an imported entry.
type OFXDescSrc int

const (
	OFXDescName OFXDescSrc = iota
	OFXDescMemo
	OFXDescNameMemo
)

// ImportOFX imports the OFX response/file into this journal. Already imported transactions will be skipped.
// Each imported entry posts the statement amount to bankAcct and balances against a null transaction in
// defaultAcct. Returns the number of entries added.
func (j *Journal) ImportOFX(ofxFile io.Reader, descSrc OFXDescSrc, bankAcct, defaultAcct string) (int, error) {
	// Load OFX file
	ofxd, err := ofxgo.ParseResponse(ofxFile)
	if err != nil {
		return 0, err
	}

	// Load set of seen transaction ids from ofx
	seenIds := map[string]bool{}
	for _, e := range j.Entries {
		if e.KVPairs["FITID"] == "" || e.KVPairs["Account"] != bankAcct {
			continue
		}
		seenIds[e.KVPairs["FITID"]] = true
	}

	// Convert it to ledger entries
	if len(ofxd.Bank) == 0 && len(ofxd.CreditCard) == 0 {
		return 0, errors.New("No banks or credit cards.")
	}

	added := 0
	for _, msg := range append(ofxd.Bank, ofxd.CreditCard...) {
		var trns []ofxgo.Transaction
		if b, ok := msg.(*ofxgo.StatementResponse); ok {
			if b.BankTranList != nil {
				trns = b.BankTranList.Transactions
			}
		} else if cc, ok := msg.(*ofxgo.CCStatementResponse); ok {
			if cc.BankTranList != nil {
				trns = cc.BankTranList.Transactions
			}
		} else {
			return added, errors.New("Unexpected response type.")
		}

		for _, str := range trns {
			if seenIds[string(str.FiTID)] {
				continue
			}

			q, err := decimal.NewFromString(str.TrnAmt.String())
			if err != nil {
				return added, ErrMalformedAmount(str.TrnAmt.String())
			}
			amt := NewAmount(q, "$")
			amt.Precision = 2

			desc := ""
			switch descSrc {
			case OFXDescName:
				desc = string(str.Name)
			case OFXDescMemo:
				desc = string(str.Memo)
			case OFXDescNameMemo: // because some banks output braindead OFX files
				desc = string(str.Name + str.Memo)
			}

			e := &Entry{
				Payee:  desc,
				Date:   str.DtPosted.Time,
				Status: StatusUndefined,
				KVPairs: map[string]string{
					"ID":      <-IDService,
					"FITID":   string(str.FiTID),
					"TrnTyp":  str.TrnType.String(),
					"Memo":    string(str.Memo),
					"Name":    string(str.Name),
					"Account": bankAcct,
				},
			}
			e.AddTransaction(&Transaction{
				Account: j.Account(bankAcct),
				Amount:  amt,
			})
			e.AddTransaction(&Transaction{
				Account: j.Account(defaultAcct),
				Null:    true,
			})

			err = j.AddEntry(e)
			if err != nil {
				return added, err
			}
			seenIds[string(str.FiTID)] = true
			added++
		}
	}

	return added, nil
}
