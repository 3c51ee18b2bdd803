// Package normalize maps raw provider transactions into canonical ledger
// transactions, cleaning the free-text descriptions banks attach to them.
package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/financeflow-app/financeflow/internal/categorize"
	"github.com/financeflow-app/financeflow/internal/gocardless"
	"github.com/financeflow-app/financeflow/internal/id"
	"github.com/financeflow-app/financeflow/internal/model"
)

// PlaceholderTitle is used when cleanup leaves nothing usable.
const PlaceholderTitle = "Unknown Transaction"

// FallbackDescription is used when the raw record has no text at all.
const fallbackDescription = "Movimento"

const dateFormat = "2006-01-02"

// Banking boilerplate stripped from titles, in order. Word-boundary matches
// so POS never eats into POSTE.
var boilerplateRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bSDD\s*CORE\b`),
	regexp.MustCompile(`(?i)\bSEPA\b`),
	regexp.MustCompile(`(?i)\bPOS\b`),
	regexp.MustCompile(`(?i)\bPAGAMENTO\b`),
	regexp.MustCompile(`(?i)\bBONIFICO\b`),
	regexp.MustCompile(`(?i)\bADDEBITO\b`),
	regexp.MustCompile(`(?i)\bACCREDITO\b`),
	regexp.MustCompile(`(?i)\bGIROCONTO\b`),
	regexp.MustCompile(`(?i)\bDISP\.\s*N\.\s*`),
	regexp.MustCompile(`(?i)\bRIF\.\s*`),
	regexp.MustCompile(`(?i)\bCRO\s*`),
	regexp.MustCompile(`(?i)\bVS\.\s*`),
}

var (
	longDigitsRe = regexp.MustCompile(`[0-9]{8,}`)
	slashDateRe  = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	dotDateRe    = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)
	cardMaskRe   = regexp.MustCompile(`\*{4}\d{4}`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	leadSepRe    = regexp.MustCompile(`^[\s\-/]+`)
	trailSepRe   = regexp.MustCompile(`[\s\-/]+$`)
)

// CleanTitle strips banking boilerplate, transaction/card id runs, embedded
// dates and card masks from a raw description, then title-cases it.
// Applying CleanTitle to its own output is a no-op.
func CleanTitle(raw string) string {
	if raw == "" {
		return PlaceholderTitle
	}

	clean := raw
	for _, re := range boilerplateRes {
		clean = re.ReplaceAllString(clean, "")
	}
	clean = longDigitsRe.ReplaceAllString(clean, "")
	clean = slashDateRe.ReplaceAllString(clean, "")
	clean = dotDateRe.ReplaceAllString(clean, "")
	clean = cardMaskRe.ReplaceAllString(clean, "")
	clean = whitespaceRe.ReplaceAllString(clean, " ")
	clean = leadSepRe.ReplaceAllString(clean, "")
	clean = trailSepRe.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(clean)

	if clean == "" {
		return PlaceholderTitle
	}
	return titleCase(clean)
}

// titleCase capitalizes each word; words of 2 chars or fewer are lowercased
// so articles and prepositions are not mangled.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if len([]rune(w)) <= 2 {
			words[i] = strings.ToLower(w)
			continue
		}
		runes := []rune(strings.ToLower(w))
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Description picks the raw description text: structured remittance info
// first, then joined remittance lines, then counterparty names, then a
// generic fallback.
func Description(tx gocardless.RawTransaction) string {
	switch {
	case tx.RemittanceInformationUnstructured != "":
		return tx.RemittanceInformationUnstructured
	case len(tx.RemittanceInformationUnstructuredArray) > 0:
		return strings.Join(tx.RemittanceInformationUnstructuredArray, " ")
	case tx.CreditorName != "":
		return tx.CreditorName
	case tx.DebtorName != "":
		return tx.DebtorName
	case tx.AdditionalInformation != "":
		return tx.AdditionalInformation
	}
	return fallbackDescription
}

// Transaction converts one raw provider transaction into canonical form.
// The category comes from the raw description, not the cleaned title, so
// keyword rules can match text the cleanup removes.
func Transaction(raw gocardless.RawTransaction, rules categorize.Rules, accountLabel, ledgerAccountID string) model.Transaction {
	amount, err := decimal.NewFromString(raw.TransactionAmount.Amount)
	if err != nil {
		amount = decimal.Zero
	}

	desc := Description(raw)

	bankRef := raw.TransactionID
	if bankRef == "" {
		bankRef = raw.InternalTransactionID
	}
	if bankRef == "" {
		bankRef = id.NewSyntheticBankRef()
	}

	return model.Transaction{
		ID:           id.NewTransactionID(),
		Title:        CleanTitle(desc),
		Date:         transactionDate(raw),
		Amount:       amount,
		Type:         model.TypeForAmount(amount),
		Category:     rules.Categorize(desc),
		AccountID:    ledgerAccountID,
		AccountLabel: accountLabel,
		Source:       model.SourceBankSync,
		BankRef:      bankRef,
		CreatedAt:    time.Now().UTC(),
	}
}

// Batch converts a raw batch, preserving order.
func Batch(raw []gocardless.RawTransaction, rules categorize.Rules, accountLabel, ledgerAccountID string) []model.Transaction {
	out := make([]model.Transaction, 0, len(raw))
	for _, tx := range raw {
		out = append(out, Transaction(tx, rules, accountLabel, ledgerAccountID))
	}
	return out
}

func transactionDate(raw gocardless.RawTransaction) time.Time {
	if d, err := time.Parse(dateFormat, raw.BookingDate); err == nil {
		return d
	}
	if d, err := time.Parse(dateFormat, raw.ValueDate); err == nil {
		return d
	}
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
