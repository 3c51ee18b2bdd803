package config

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/financeflow-app/financeflow/internal/model"
)

// Environment overrides for the API key pair. Useful for CI and for keeping
// credentials out of the config file entirely (.env files are loaded by the
// CLI entry point).
const (
	EnvSecretID  = "FINANCEFLOW_SECRET_ID"
	EnvSecretKey = "FINANCEFLOW_SECRET_KEY"
)

// Store is the process-wide owner of the config/state file. All access goes
// through it so concurrent operations see one consistent view, and
// credential changes can invalidate dependent state (the cached session
// token) synchronously.
type Store struct {
	path string

	mu  sync.Mutex
	cfg *Config

	onCredentialChange func()
}

// NewStore loads the config at path, falling back to defaults if the file
// does not exist yet.
func NewStore(path string) (*Store, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		err = nil
	}
	if err != nil {
		return nil, err
	}
	return &Store{path: path, cfg: cfg}, nil
}

// OnCredentialChange registers a callback invoked (with the lock released)
// after every credential set/remove.
func (s *Store) OnCredentialChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCredentialChange = fn
}

// Credentials returns the API key pair. Environment variables win over the
// file so a key pair never has to touch disk.
func (s *Store) Credentials() (secretID, secretKey string) {
	if envID, envKey := os.Getenv(EnvSecretID), os.Getenv(EnvSecretKey); envID != "" && envKey != "" {
		return envID, envKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Provider.SecretID, s.cfg.Provider.SecretKey
}

// HasCredentials reports whether an API key pair is configured.
func (s *Store) HasCredentials() bool {
	id, key := s.Credentials()
	return id != "" && key != ""
}

// SetCredentials stores a new key pair and notifies listeners so any cached
// session is dropped.
func (s *Store) SetCredentials(secretID, secretKey string) error {
	s.mu.Lock()
	s.cfg.Provider.SecretID = secretID
	s.cfg.Provider.SecretKey = secretKey
	err := s.saveLocked()
	fn := s.onCredentialChange
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if fn != nil {
		fn()
	}
	return nil
}

// RemoveCredentials clears the key pair and cascades: linked accounts and
// stored requisitions are useless without it, so they go too.
func (s *Store) RemoveCredentials() error {
	s.mu.Lock()
	s.cfg.Provider = ProviderConfig{}
	s.cfg.LinkedAccounts = nil
	s.cfg.Requisitions = nil
	err := s.saveLocked()
	fn := s.onCredentialChange
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if fn != nil {
		fn()
	}
	return nil
}

// Sync returns the sync preferences.
func (s *Store) Sync() SyncConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Sync
}

// Git returns the git integration settings.
func (s *Store) Git() GitConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Git
}

// Requisitions returns the stored authorization attempts, newest last.
func (s *Store) Requisitions() []model.Requisition {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Requisition, len(s.cfg.Requisitions))
	copy(out, s.cfg.Requisitions)
	return out
}

// AddRequisition appends a new authorization attempt.
func (s *Store) AddRequisition(req model.Requisition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Requisitions = append(s.cfg.Requisitions, req)
	return s.saveLocked()
}

// UpdateRequisitionStatus records the latest observed provider status.
func (s *Store) UpdateRequisitionStatus(requisitionID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cfg.Requisitions {
		if s.cfg.Requisitions[i].ID == requisitionID {
			s.cfg.Requisitions[i].Status = status
			return s.saveLocked()
		}
	}
	return nil
}

// LinkedAccounts returns the linked bank accounts.
func (s *Store) LinkedAccounts() []model.LinkedAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.LinkedAccount, len(s.cfg.LinkedAccounts))
	copy(out, s.cfg.LinkedAccounts)
	return out
}

// LinkedAccount returns one linked account by provider account ID.
func (s *Store) LinkedAccount(providerAccountID string) (model.LinkedAccount, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.cfg.LinkedAccounts {
		if a.ProviderAccountID == providerAccountID {
			return a, true
		}
	}
	return model.LinkedAccount{}, false
}

// UpsertLinkedAccount merges an account into the linked set by provider
// account ID: replace if already linked, append otherwise. Re-finalizing a
// connection refreshes metadata instead of duplicating the account.
func (s *Store) UpsertLinkedAccount(account model.LinkedAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.cfg.LinkedAccounts {
		if a.ProviderAccountID == account.ProviderAccountID {
			// Keep the ledger mapping across re-finalization.
			if account.LedgerAccountID == "" {
				account.LedgerAccountID = a.LedgerAccountID
			}
			s.cfg.LinkedAccounts[i] = account
			return s.saveLocked()
		}
	}
	s.cfg.LinkedAccounts = append(s.cfg.LinkedAccounts, account)
	return s.saveLocked()
}

// SetLedgerAccount records which ledger account a linked bank account
// imports into.
func (s *Store) SetLedgerAccount(providerAccountID, ledgerAccountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cfg.LinkedAccounts {
		if s.cfg.LinkedAccounts[i].ProviderAccountID == providerAccountID {
			s.cfg.LinkedAccounts[i].LedgerAccountID = ledgerAccountID
			return s.saveLocked()
		}
	}
	return nil
}

// RemoveLinkedAccount unlinks a bank account. Reports whether it existed.
func (s *Store) RemoveLinkedAccount(providerAccountID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.cfg.LinkedAccounts {
		if a.ProviderAccountID == providerAccountID {
			s.cfg.LinkedAccounts = append(s.cfg.LinkedAccounts[:i], s.cfg.LinkedAccounts[i+1:]...)
			return true, s.saveLocked()
		}
	}
	return false, nil
}

func (s *Store) saveLocked() error {
	return Save(s.path, s.cfg)
}
