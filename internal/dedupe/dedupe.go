// Package dedupe filters out bank transactions that are already recorded in
// the ledger, so re-syncing a date range never imports the same economic
// event twice.
package dedupe

import (
	"strings"

	"github.com/financeflow-app/financeflow/internal/model"
)

// titleKeyLen is how much of the lowercased title goes into the composite
// key. Known approximation: two distinct same-day, same-amount transactions
// with similar short titles can collide and be wrongly dropped.
const titleKeyLen = 20

// Filter returns the candidates not already present in existing, in their
// original order. A candidate is a duplicate if its bank ref is already
// known, or if its date|amount|title composite key matches an existing
// entry (catching events entered manually before bank sync was connected).
func Filter(candidates, existing []model.Transaction) []model.Transaction {
	refs := make(map[string]bool, len(existing))
	keys := make(map[string]bool, len(existing))
	for _, tx := range existing {
		if tx.BankRef != "" {
			refs[tx.BankRef] = true
		}
		keys[compositeKey(tx)] = true
	}

	var fresh []model.Transaction
	for _, tx := range candidates {
		if tx.BankRef != "" && refs[tx.BankRef] {
			continue
		}
		if keys[compositeKey(tx)] {
			continue
		}
		fresh = append(fresh, tx)
	}
	return fresh
}

func compositeKey(tx model.Transaction) string {
	title := strings.ToLower(tx.Title)
	if len(title) > titleKeyLen {
		title = title[:titleKeyLen]
	}
	return tx.Date.Format("2006-01-02") + "|" + tx.Amount.String() + "|" + title
}
