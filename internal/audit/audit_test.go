package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndRead(t *testing.T) {
	dir := t.TempDir()

	first := Entry{
		Timestamp: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Operation: "sync",
		Details:   "imported 3 of 5 transactions",
		Ref:       "acc-1",
	}
	require.NoError(t, Append(dir, []Entry{first}))

	second := Entry{
		Timestamp:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Operation:  "sync",
		Details:    "imported 0 of 5 transactions",
		Ref:        "acc-1",
		CommitHash: "abc1234",
	}
	require.NoError(t, Append(dir, []Entry{second}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first, entries[0])
	assert.Equal(t, second, entries[1])
}

func TestReadMissingFile(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestDetailsWithCommasSurviveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	e := Entry{
		Timestamp: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Operation: "finalize",
		Details:   `linked "Intesa Sanpaolo Conto", skipped 1 account`,
		Ref:       "req-1",
	}
	require.NoError(t, Append(dir, []Entry{e}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, e.Details, entries[0].Details)
}
