package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSyntheticBankRef(t *testing.T) {
	ref := NewSyntheticBankRef()
	assert.True(t, IsSyntheticBankRef(ref))
	assert.Len(t, ref, len("gc_")+8)
}

func TestSyntheticRefsDoNotCollide(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		ref := NewSyntheticBankRef()
		assert.False(t, seen[ref], "duplicate ref %s", ref)
		seen[ref] = true
	}
}

func TestIsSyntheticBankRef(t *testing.T) {
	assert.False(t, IsSyntheticBankRef(""))
	assert.False(t, IsSyntheticBankRef("2026030101234567-1"))
	assert.True(t, IsSyntheticBankRef("gc_ab12cd34"))
}

func TestNewTransactionID(t *testing.T) {
	a := NewTransactionID()
	b := NewTransactionID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
