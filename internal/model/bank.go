package model

import "time"

// Institution is a bank supported by the aggregator for some country.
type Institution struct {
	ID             string
	Name           string
	Logo           string
	Countries      []string
	MaxHistoryDays int
}

// RequisitionStatus values returned by the aggregator. Only the ones the
// sync flow branches on are named; others pass through verbatim.
const (
	RequisitionCreated  = "CR"
	RequisitionLinked   = "LN"
	RequisitionRejected = "RJ"
	RequisitionExpired  = "EX"
)

// Requisition is one authorization attempt against one institution. It is
// persisted locally so finalize can be retried and connections audited.
type Requisition struct {
	ID            string    `yaml:"id"`
	InstitutionID string    `yaml:"institution_id"`
	Link          string    `yaml:"link"`
	Status        string    `yaml:"status"`
	CreatedAt     time.Time `yaml:"created_at"`
}

// LinkedAccount is one bank account the user has authorized access to.
type LinkedAccount struct {
	ProviderAccountID string    `yaml:"provider_account_id"`
	RequisitionID     string    `yaml:"requisition_id"`
	InstitutionName   string    `yaml:"institution_name"`
	InstitutionLogo   string    `yaml:"institution_logo,omitempty"`
	IBAN              string    `yaml:"iban,omitempty"`
	OwnerName         string    `yaml:"owner_name,omitempty"`
	Currency          string    `yaml:"currency"`
	Product           string    `yaml:"product,omitempty"`
	LedgerAccountID   string    `yaml:"ledger_account_id,omitempty"`
	LinkedAt          time.Time `yaml:"linked_at"`
}

// Label returns the display name used for imported transactions.
func (a LinkedAccount) Label() string {
	if a.Product != "" && a.Product != a.InstitutionName {
		return a.InstitutionName + " " + a.Product
	}
	return a.InstitutionName
}
