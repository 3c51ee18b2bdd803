package banksync

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/financeflow-app/financeflow/internal/audit"
	"github.com/financeflow-app/financeflow/internal/categorize"
	"github.com/financeflow-app/financeflow/internal/config"
	"github.com/financeflow-app/financeflow/internal/gocardless"
	"github.com/financeflow-app/financeflow/internal/ledger"
	"github.com/financeflow-app/financeflow/internal/logger"
	"github.com/financeflow-app/financeflow/internal/model"
)

type stubAPI struct {
	institutions      func(ctx context.Context, country string) ([]model.Institution, error)
	createRequisition func(ctx context.Context, institutionID, redirect, userLanguage string) (model.Requisition, error)
	requisition       func(ctx context.Context, requisitionID string) (gocardless.RequisitionStatus, error)
	accountDetails    func(ctx context.Context, accountID string) (gocardless.AccountDetail, error)
	transactions      func(ctx context.Context, accountID string, from, to time.Time) ([]gocardless.RawTransaction, error)
	balance           func(ctx context.Context, accountID string) (decimal.Decimal, error)
}

func (s *stubAPI) Institutions(ctx context.Context, country string) ([]model.Institution, error) {
	if s.institutions == nil {
		return nil, nil
	}
	return s.institutions(ctx, country)
}

func (s *stubAPI) CreateRequisition(ctx context.Context, institutionID, redirect, userLanguage string) (model.Requisition, error) {
	return s.createRequisition(ctx, institutionID, redirect, userLanguage)
}

func (s *stubAPI) Requisition(ctx context.Context, requisitionID string) (gocardless.RequisitionStatus, error) {
	return s.requisition(ctx, requisitionID)
}

func (s *stubAPI) AccountDetails(ctx context.Context, accountID string) (gocardless.AccountDetail, error) {
	return s.accountDetails(ctx, accountID)
}

func (s *stubAPI) Transactions(ctx context.Context, accountID string, from, to time.Time) ([]gocardless.RawTransaction, error) {
	return s.transactions(ctx, accountID, from, to)
}

func (s *stubAPI) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return s.balance(ctx, accountID)
}

type harness struct {
	service *Service
	store   *config.Store
	ledger  *ledger.Service
	api     *stubAPI
	dataDir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dataDir := t.TempDir()

	store, err := config.NewStore(filepath.Join(dataDir, config.FileName))
	require.NoError(t, err)

	led := ledger.NewService(dataDir)
	require.NoError(t, led.Init())

	api := &stubAPI{}
	service := NewService(store, api, led, categorize.Default(), dataDir, logger.Nop())
	return &harness{service: service, store: store, ledger: led, api: api, dataDir: dataDir}
}

func (h *harness) linkAccount(t *testing.T, providerAccountID string) {
	t.Helper()
	require.NoError(t, h.store.UpsertLinkedAccount(model.LinkedAccount{
		ProviderAccountID: providerAccountID,
		RequisitionID:     "req-1",
		InstitutionName:   "Intesa Sanpaolo",
		Currency:          "EUR",
		Product:           "Conto",
	}))
}

func TestConnectStoresRequisition(t *testing.T) {
	h := newHarness(t)
	h.api.createRequisition = func(_ context.Context, institutionID, redirect, userLanguage string) (model.Requisition, error) {
		assert.Equal(t, "INTESA_BCITITMM", institutionID)
		assert.Equal(t, "https://financeflow.app/bank-callback", redirect)
		assert.Equal(t, "IT", userLanguage)
		return model.Requisition{
			ID:            "req-1",
			InstitutionID: institutionID,
			Link:          "https://ob.gocardless.com/start/req-1",
			Status:        model.RequisitionCreated,
		}, nil
	}

	req, err := h.service.Connect(context.Background(), "INTESA_BCITITMM")
	require.NoError(t, err)
	assert.Equal(t, "https://ob.gocardless.com/start/req-1", req.Link)

	stored := h.store.Requisitions()
	require.Len(t, stored, 1)
	assert.Equal(t, model.RequisitionCreated, stored[0].Status)

	entries, err := audit.Read(h.dataDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "connect", entries[0].Operation)
}

func TestFinalizePendingIsNotAnError(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.AddRequisition(model.Requisition{ID: "req-1", Status: model.RequisitionCreated}))
	h.api.requisition = func(context.Context, string) (gocardless.RequisitionStatus, error) {
		return gocardless.RequisitionStatus{ID: "req-1", Status: model.RequisitionRejected}, nil
	}

	result, err := h.service.Finalize(context.Background(), "req-1")
	require.NoError(t, err)
	assert.False(t, result.Authorized())
	assert.Equal(t, model.RequisitionRejected, result.Status)
	assert.Empty(t, result.Linked)

	reqs := h.store.Requisitions()
	require.Len(t, reqs, 1)
	assert.Equal(t, model.RequisitionRejected, reqs[0].Status, "observed status is persisted")
}

func TestFinalizeLinksAccounts(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.AddRequisition(model.Requisition{
		ID: "req-1", InstitutionID: "INTESA_BCITITMM", Status: model.RequisitionCreated,
	}))

	h.api.requisition = func(context.Context, string) (gocardless.RequisitionStatus, error) {
		return gocardless.RequisitionStatus{
			ID: "req-1", Status: model.RequisitionLinked, Accounts: []string{"acc-1", "acc-2"},
		}, nil
	}
	h.api.institutions = func(context.Context, string) ([]model.Institution, error) {
		return []model.Institution{{ID: "INTESA_BCITITMM", Name: "Intesa Sanpaolo", Logo: "https://cdn/intesa.png"}}, nil
	}
	h.api.accountDetails = func(_ context.Context, accountID string) (gocardless.AccountDetail, error) {
		if accountID == "acc-2" {
			return gocardless.AccountDetail{}, errors.New("details unavailable")
		}
		return gocardless.AccountDetail{
			IBAN: "IT60X0542811101000000123456", OwnerName: "Mario Rossi", Currency: "EUR", Product: "Conto",
		}, nil
	}

	result, err := h.service.Finalize(context.Background(), "req-1")
	require.NoError(t, err)
	assert.True(t, result.Authorized())
	require.Len(t, result.Linked, 1, "unreadable account is skipped, not fatal")
	assert.Equal(t, 1, result.Skipped)

	linked := result.Linked[0]
	assert.Equal(t, "acc-1", linked.ProviderAccountID)
	assert.Equal(t, "Intesa Sanpaolo", linked.InstitutionName)
	assert.Equal(t, "IT60X0542811101000000123456", linked.IBAN)

	accounts := h.store.LinkedAccounts()
	require.Len(t, accounts, 1)
}

func TestFinalizeTwiceDoesNotDuplicate(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.AddRequisition(model.Requisition{
		ID: "req-1", InstitutionID: "INTESA_BCITITMM", Status: model.RequisitionCreated,
	}))
	h.api.requisition = func(context.Context, string) (gocardless.RequisitionStatus, error) {
		return gocardless.RequisitionStatus{ID: "req-1", Status: model.RequisitionLinked, Accounts: []string{"acc-1"}}, nil
	}
	h.api.accountDetails = func(context.Context, string) (gocardless.AccountDetail, error) {
		return gocardless.AccountDetail{Currency: "EUR", Product: "Conto"}, nil
	}

	_, err := h.service.Finalize(context.Background(), "req-1")
	require.NoError(t, err)
	_, err = h.service.Finalize(context.Background(), "req-1")
	require.NoError(t, err)

	assert.Len(t, h.store.LinkedAccounts(), 1)
}

func TestFinalizeLinkedWithoutAccountsFails(t *testing.T) {
	h := newHarness(t)
	h.api.requisition = func(context.Context, string) (gocardless.RequisitionStatus, error) {
		return gocardless.RequisitionStatus{ID: "req-1", Status: model.RequisitionLinked}, nil
	}

	_, err := h.service.Finalize(context.Background(), "req-1")
	assert.Error(t, err)
}

func TestSyncImportsAndIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.linkAccount(t, "acc-1")

	raw := []gocardless.RawTransaction{
		{
			TransactionID:                     "TX123",
			BookingDate:                       "2026-03-01",
			TransactionAmount:                 gocardless.Amount{Amount: "-45.90", Currency: "EUR"},
			RemittanceInformationUnstructured: "PAGAMENTO POS ESSELUNGA MILANO 01/03/2026",
		},
		{
			TransactionID:     "TX124",
			BookingDate:       "2026-03-02",
			TransactionAmount: gocardless.Amount{Amount: "1500.00", Currency: "EUR"},
			CreditorName:      "ACME SRL STIPENDIO",
		},
	}
	h.api.transactions = func(_ context.Context, accountID string, from, to time.Time) ([]gocardless.RawTransaction, error) {
		assert.Equal(t, "acc-1", accountID)
		assert.False(t, from.IsZero(), "sync window start comes from history_days")
		return raw, nil
	}

	result, err := h.service.Sync(context.Background(), "acc-1", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 0, result.Skipped)

	// First sync creates the ledger account and persists the mapping.
	linked, ok := h.store.LinkedAccount("acc-1")
	require.True(t, ok)
	require.NotEmpty(t, linked.LedgerAccountID)

	account, found, err := h.ledger.Account(linked.LedgerAccountID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Intesa Sanpaolo Conto", account.Name)
	assert.Equal(t, "1454.10", account.Balance.StringFixed(2))

	txs, err := h.ledger.Transactions()
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "Esselunga Milano", txs[0].Title)
	assert.Equal(t, "Spesa", txs[0].Category)
	assert.Equal(t, model.TypeExpense, txs[0].Type)
	assert.Equal(t, model.SourceBankSync, txs[0].Source)
	assert.Equal(t, "TX123", txs[0].BankRef)
	assert.Equal(t, "Lavoro", txs[1].Category)
	assert.Equal(t, model.TypeIncome, txs[1].Type)

	// Same window again: everything is a duplicate.
	again, err := h.service.Sync(context.Background(), "acc-1", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Imported)
	assert.Equal(t, 2, again.Total)
	assert.Equal(t, 2, again.Skipped)

	txs, err = h.ledger.Transactions()
	require.NoError(t, err)
	assert.Len(t, txs, 2, "re-sync must not duplicate")
}

func TestSyncSkipsManualDuplicates(t *testing.T) {
	h := newHarness(t)
	h.linkAccount(t, "acc-1")

	manualAccount, err := h.ledger.CreateAccount("Contanti", "EUR")
	require.NoError(t, err)
	_, err = h.ledger.CreateTransaction(model.Transaction{
		Title:     "Esselunga Milano",
		Date:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.RequireFromString("-45.90"),
		Category:  "Spesa",
		AccountID: manualAccount.ID,
	})
	require.NoError(t, err)

	h.api.transactions = func(context.Context, string, time.Time, time.Time) ([]gocardless.RawTransaction, error) {
		return []gocardless.RawTransaction{{
			TransactionID:                     "TX123",
			BookingDate:                       "2026-03-01",
			TransactionAmount:                 gocardless.Amount{Amount: "-45.90", Currency: "EUR"},
			RemittanceInformationUnstructured: "POS ESSELUNGA MILANO",
		}}, nil
	}

	result, err := h.service.Sync(context.Background(), "acc-1", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported, "manual entry for the same event wins")
	assert.Equal(t, 1, result.Skipped)
}

func TestSyncExplicitWindowPassesThrough(t *testing.T) {
	h := newHarness(t)
	h.linkAccount(t, "acc-1")

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	h.api.transactions = func(_ context.Context, _ string, gotFrom, gotTo time.Time) ([]gocardless.RawTransaction, error) {
		assert.Equal(t, from, gotFrom)
		assert.Equal(t, to, gotTo)
		return nil, nil
	}

	result, err := h.service.Sync(context.Background(), "acc-1", from, to)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
}

func TestSyncUnknownAccount(t *testing.T) {
	h := newHarness(t)
	_, err := h.service.Sync(context.Background(), "acc-ghost", time.Time{}, time.Time{})
	assert.Error(t, err)
}

func TestSyncAllContinuesPastFailures(t *testing.T) {
	h := newHarness(t)
	h.linkAccount(t, "acc-1")
	h.linkAccount(t, "acc-2")

	h.api.transactions = func(_ context.Context, accountID string, _, _ time.Time) ([]gocardless.RawTransaction, error) {
		if accountID == "acc-1" {
			return nil, errors.New("institution timeout")
		}
		return []gocardless.RawTransaction{{
			TransactionID:     "TX200",
			BookingDate:       "2026-03-05",
			TransactionAmount: gocardless.Amount{Amount: "-12.00", Currency: "EUR"},
			CreditorName:      "NETFLIX.COM",
		}}, nil
	}

	results := h.service.SyncAll(context.Background())
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	require.NoError(t, results[1].Err)
	assert.Equal(t, 1, results[1].Imported)
}

func TestBalanceRequiresLinkedAccount(t *testing.T) {
	h := newHarness(t)
	h.api.balance = func(context.Context, string) (decimal.Decimal, error) {
		return decimal.RequireFromString("1234.56"), nil
	}

	_, err := h.service.Balance(context.Background(), "acc-1")
	assert.Error(t, err)

	h.linkAccount(t, "acc-1")
	balance, err := h.service.Balance(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "1234.56", balance.StringFixed(2))
}

func TestUnlink(t *testing.T) {
	h := newHarness(t)
	h.linkAccount(t, "acc-1")

	removed, err := h.service.Unlink("acc-1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = h.service.Unlink("acc-1")
	require.NoError(t, err)
	assert.False(t, removed)
}
