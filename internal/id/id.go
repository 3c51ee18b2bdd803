package id

import (
	"strings"

	"github.com/google/uuid"
)

// syntheticPrefix marks locally generated bank refs. Real provider ids are
// long hex/alphanumeric strings and never start with this prefix.
const syntheticPrefix = "gc_"

// NewTransactionID returns a fresh ledger transaction ID.
func NewTransactionID() string {
	return uuid.NewString()
}

// NewAccountID returns a fresh ledger account ID.
func NewAccountID() string {
	return uuid.NewString()
}

// NewSyntheticBankRef returns a stand-in bank reference for provider
// transactions that carry no transaction id of their own.
func NewSyntheticBankRef() string {
	return syntheticPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// IsSyntheticBankRef reports whether ref was generated locally rather than
// assigned by the provider.
func IsSyntheticBankRef(ref string) bool {
	return strings.HasPrefix(ref, syntheticPrefix)
}
