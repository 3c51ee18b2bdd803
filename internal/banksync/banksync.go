// Package banksync drives the bank connection lifecycle and the import
// pipeline: authorize with an institution, link its accounts, then pull raw
// transactions through normalization and dedup into the ledger.
package banksync

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/financeflow-app/financeflow/internal/audit"
	"github.com/financeflow-app/financeflow/internal/categorize"
	"github.com/financeflow-app/financeflow/internal/config"
	"github.com/financeflow-app/financeflow/internal/dedupe"
	"github.com/financeflow-app/financeflow/internal/gitops"
	"github.com/financeflow-app/financeflow/internal/gocardless"
	"github.com/financeflow-app/financeflow/internal/model"
	"github.com/financeflow-app/financeflow/internal/normalize"
)

// BankAPI is the slice of the aggregator client the orchestrator uses.
type BankAPI interface {
	Institutions(ctx context.Context, country string) ([]model.Institution, error)
	CreateRequisition(ctx context.Context, institutionID, redirect, userLanguage string) (model.Requisition, error)
	Requisition(ctx context.Context, requisitionID string) (gocardless.RequisitionStatus, error)
	AccountDetails(ctx context.Context, accountID string) (gocardless.AccountDetail, error)
	Transactions(ctx context.Context, accountID string, from, to time.Time) ([]gocardless.RawTransaction, error)
	Balance(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// Ledger is the slice of the ledger service the import pipeline writes into.
type Ledger interface {
	Transactions() ([]model.Transaction, error)
	Account(accountID string) (model.Account, bool, error)
	CreateAccount(name, currency string) (model.Account, error)
	CreateTransaction(tx model.Transaction) (model.Transaction, error)
}

// FinalizeResult reports the outcome of finalizing a requisition.
type FinalizeResult struct {
	Status  string // provider status at the time of the call
	Linked  []model.LinkedAccount
	Skipped int // accounts whose details could not be fetched
}

// Authorized reports whether the user completed the institution's flow.
func (r FinalizeResult) Authorized() bool {
	return r.Status == model.RequisitionLinked
}

// SyncResult reports one account's import run.
type SyncResult struct {
	ProviderAccountID string
	AccountLabel      string
	Imported          int // written to the ledger
	Total             int // fetched from the provider
	Skipped           int // duplicates and write failures
	Err               error
}

// Service orchestrates connections and syncs. It owns no state of its own;
// everything persistent lives in the config store and the ledger.
type Service struct {
	store   *config.Store
	api     BankAPI
	ledger  Ledger
	rules   categorize.Rules
	dataDir string
	log     zerolog.Logger
}

// NewService wires the orchestrator to its collaborators. dataDir is the
// directory holding the ledger files, the sync log and the git repository.
func NewService(store *config.Store, api BankAPI, ledger Ledger, rules categorize.Rules, dataDir string, log zerolog.Logger) *Service {
	return &Service{
		store:   store,
		api:     api,
		ledger:  ledger,
		rules:   rules,
		dataDir: dataDir,
		log:     log,
	}
}

// Institutions lists the banks available for a country. An empty country
// falls back to the configured one.
func (s *Service) Institutions(ctx context.Context, country string) ([]model.Institution, error) {
	if country == "" {
		country = s.store.Sync().Country
	}
	return s.api.Institutions(ctx, country)
}

// Requisitions lists the stored authorization attempts.
func (s *Service) Requisitions() []model.Requisition {
	return s.store.Requisitions()
}

// LinkedAccounts lists the linked bank accounts.
func (s *Service) LinkedAccounts() []model.LinkedAccount {
	return s.store.LinkedAccounts()
}

// Connect starts a new authorization attempt with an institution and stores
// it. The returned requisition carries the link the user must open in a
// browser to authorize on the institution's site.
func (s *Service) Connect(ctx context.Context, institutionID string) (model.Requisition, error) {
	sync := s.store.Sync()
	req, err := s.api.CreateRequisition(ctx, institutionID, sync.RedirectURL, sync.UserLanguage)
	if err != nil {
		return model.Requisition{}, fmt.Errorf("creating requisition for %s: %w", institutionID, err)
	}
	if err := s.store.AddRequisition(req); err != nil {
		return model.Requisition{}, err
	}

	s.audit("connect", fmt.Sprintf("requisition created for %s", institutionID), req.ID, "")
	s.log.Info().Str("requisition", req.ID).Str("institution", institutionID).Msg("authorization started")
	return req, nil
}

// Finalize checks a requisition after the user has (maybe) authorized it.
// A requisition that is not yet linked is a normal outcome, not an error:
// the result carries the provider status so the caller can tell the user to
// finish or retry the flow. Once linked, every authorized account's details
// are fetched and merged into the linked set; an account whose details can't
// be read is skipped, never failing the others.
func (s *Service) Finalize(ctx context.Context, requisitionID string) (FinalizeResult, error) {
	status, err := s.api.Requisition(ctx, requisitionID)
	if err != nil {
		return FinalizeResult{}, fmt.Errorf("fetching requisition %s: %w", requisitionID, err)
	}
	if err := s.store.UpdateRequisitionStatus(requisitionID, status.Status); err != nil {
		return FinalizeResult{}, err
	}

	if status.Status != model.RequisitionLinked {
		s.log.Info().Str("requisition", requisitionID).Str("status", status.Status).Msg("requisition not linked yet")
		return FinalizeResult{Status: status.Status}, nil
	}
	if len(status.Accounts) == 0 {
		return FinalizeResult{}, fmt.Errorf("requisition %s is linked but exposes no accounts", requisitionID)
	}

	req, _ := s.requisition(requisitionID)
	instName, instLogo := s.institutionMeta(ctx, req.InstitutionID)

	result := FinalizeResult{Status: status.Status}
	for _, accountID := range status.Accounts {
		detail, err := s.api.AccountDetails(ctx, accountID)
		if err != nil {
			s.log.Warn().Err(err).Str("account", accountID).Msg("skipping account, details unavailable")
			result.Skipped++
			continue
		}

		linked := model.LinkedAccount{
			ProviderAccountID: accountID,
			RequisitionID:     requisitionID,
			InstitutionName:   instName,
			InstitutionLogo:   instLogo,
			IBAN:              detail.IBAN,
			OwnerName:         detail.OwnerName,
			Currency:          detail.Currency,
			Product:           detail.Product,
			LinkedAt:          time.Now().UTC(),
		}
		if err := s.store.UpsertLinkedAccount(linked); err != nil {
			return FinalizeResult{}, err
		}
		result.Linked = append(result.Linked, linked)
	}

	s.audit("finalize", fmt.Sprintf("linked %d accounts, skipped %d", len(result.Linked), result.Skipped), requisitionID, "")
	return result, nil
}

// Sync imports one linked account's transactions into the ledger. A zero
// from time defaults to the configured history window; a zero to time leaves
// the provider's end of range in place. Running it twice over the same
// window imports nothing the second time.
func (s *Service) Sync(ctx context.Context, providerAccountID string, from, to time.Time) (SyncResult, error) {
	linked, ok := s.store.LinkedAccount(providerAccountID)
	if !ok {
		return SyncResult{}, fmt.Errorf("account %s is not linked", providerAccountID)
	}

	ledgerAccountID, err := s.ensureLedgerAccount(linked)
	if err != nil {
		return SyncResult{}, err
	}

	if from.IsZero() {
		from = time.Now().UTC().AddDate(0, 0, -s.store.Sync().HistoryDays)
	}
	raw, err := s.api.Transactions(ctx, providerAccountID, from, to)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetching transactions for %s: %w", providerAccountID, err)
	}

	label := linked.Label()
	candidates := normalize.Batch(raw, s.rules, label, ledgerAccountID)

	existing, err := s.ledger.Transactions()
	if err != nil {
		return SyncResult{}, err
	}
	fresh := dedupe.Filter(candidates, existing)

	result := SyncResult{
		ProviderAccountID: providerAccountID,
		AccountLabel:      label,
		Total:             len(raw),
	}
	for _, tx := range fresh {
		if _, err := s.ledger.CreateTransaction(tx); err != nil {
			s.log.Warn().Err(err).Str("bank_ref", tx.BankRef).Msg("skipping transaction, ledger write failed")
			continue
		}
		result.Imported++
	}
	result.Skipped = result.Total - result.Imported

	hash := s.commitIfEnabled(fmt.Sprintf("sync: import %d transactions for %s", result.Imported, label))
	s.audit("sync", fmt.Sprintf("imported %d of %d transactions", result.Imported, result.Total), providerAccountID, hash)

	s.log.Info().
		Str("account", providerAccountID).
		Int("imported", result.Imported).
		Int("total", result.Total).
		Int("skipped", result.Skipped).
		Msg("sync complete")
	return result, nil
}

// SyncAll syncs every linked account in order. One account failing does not
// stop the rest; its result carries the error.
func (s *Service) SyncAll(ctx context.Context) []SyncResult {
	var results []SyncResult
	for _, linked := range s.store.LinkedAccounts() {
		result, err := s.Sync(ctx, linked.ProviderAccountID, time.Time{}, time.Time{})
		if err != nil {
			s.log.Error().Err(err).Str("account", linked.ProviderAccountID).Msg("account sync failed")
			result = SyncResult{
				ProviderAccountID: linked.ProviderAccountID,
				AccountLabel:      linked.Label(),
				Err:               err,
			}
		}
		results = append(results, result)
	}
	return results
}

// Balance fetches the provider-side balance of a linked account.
func (s *Service) Balance(ctx context.Context, providerAccountID string) (decimal.Decimal, error) {
	if _, ok := s.store.LinkedAccount(providerAccountID); !ok {
		return decimal.Zero, fmt.Errorf("account %s is not linked", providerAccountID)
	}
	return s.api.Balance(ctx, providerAccountID)
}

// Unlink removes a linked account. Its ledger account and imported
// transactions stay; only the bank connection goes.
func (s *Service) Unlink(providerAccountID string) (bool, error) {
	removed, err := s.store.RemoveLinkedAccount(providerAccountID)
	if err != nil {
		return false, err
	}
	if removed {
		s.audit("unlink", "bank account unlinked", providerAccountID, "")
	}
	return removed, nil
}

// ensureLedgerAccount returns the ledger account this bank account imports
// into, creating one on first sync and repairing the mapping if the ledger
// account has gone missing.
func (s *Service) ensureLedgerAccount(linked model.LinkedAccount) (string, error) {
	if linked.LedgerAccountID != "" {
		_, found, err := s.ledger.Account(linked.LedgerAccountID)
		if err != nil {
			return "", err
		}
		if found {
			return linked.LedgerAccountID, nil
		}
		s.log.Warn().Str("ledger_account", linked.LedgerAccountID).Msg("mapped ledger account missing, recreating")
	}

	currency := linked.Currency
	if currency == "" {
		currency = "EUR"
	}
	account, err := s.ledger.CreateAccount(linked.Label(), currency)
	if err != nil {
		return "", fmt.Errorf("creating ledger account: %w", err)
	}
	if err := s.store.SetLedgerAccount(linked.ProviderAccountID, account.ID); err != nil {
		return "", err
	}
	return account.ID, nil
}

func (s *Service) requisition(requisitionID string) (model.Requisition, bool) {
	for _, req := range s.store.Requisitions() {
		if req.ID == requisitionID {
			return req, true
		}
	}
	return model.Requisition{}, false
}

// institutionMeta resolves an institution's display name and logo. Falls
// back to the raw id when the catalog is unreachable; the link still works.
func (s *Service) institutionMeta(ctx context.Context, institutionID string) (name, logo string) {
	if institutionID == "" {
		return "", ""
	}
	institutions, err := s.api.Institutions(ctx, s.store.Sync().Country)
	if err != nil {
		s.log.Warn().Err(err).Msg("institution catalog unavailable")
		return institutionID, ""
	}
	for _, inst := range institutions {
		if inst.ID == institutionID {
			return inst.Name, inst.Logo
		}
	}
	return institutionID, ""
}

// commitIfEnabled auto-commits the data directory after a sync. Best effort:
// a git failure is logged, never surfaced, because the ledger write already
// succeeded.
func (s *Service) commitIfEnabled(message string) string {
	git := s.store.Git()
	if !git.AutoCommit || !gitops.IsRepo(s.dataDir) {
		return ""
	}
	changed, err := gitops.HasChanges(s.dataDir)
	if err != nil {
		s.log.Warn().Err(err).Msg("git status failed")
		return ""
	}
	if !changed {
		return ""
	}
	hash, err := gitops.CommitAll(s.dataDir, message, git.AuthorName, git.AuthorEmail)
	if err != nil {
		s.log.Warn().Err(err).Msg("git commit failed")
		return ""
	}
	return hash
}

// audit appends a sync-log entry. Best effort, same as commits.
func (s *Service) audit(operation, details, ref, commitHash string) {
	entry := audit.Entry{
		Timestamp:  time.Now().UTC(),
		Operation:  operation,
		Details:    details,
		Ref:        ref,
		CommitHash: commitHash,
	}
	if err := audit.Append(s.dataDir, []audit.Entry{entry}); err != nil {
		s.log.Warn().Err(err).Msg("sync log append failed")
	}
}
