// Package ledger is the persistent store of accounts and transactions that
// the reconciliation pipeline writes into.
package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/financeflow-app/financeflow/internal/id"
	"github.com/financeflow-app/financeflow/internal/model"
)

const (
	transactionsFile = "transactions.csv"
	accountsFile     = "accounts.csv"
)

// ErrAccountNotFound is returned when a transaction references an unknown
// ledger account.
var ErrAccountNotFound = errors.New("ledger: account not found")

// Service reads and mutates the ledger files under a data directory.
// All mutation goes through a single mutex: balance updates are
// read-modify-write, so there is exactly one writer at a time.
type Service struct {
	root string
	mu   sync.Mutex
}

// NewService creates a ledger Service rooted at dir.
func NewService(dir string) *Service {
	return &Service{root: dir}
}

// Init writes empty ledger files if they do not exist yet.
func (s *Service) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}
	if _, err := os.Stat(filepath.Join(s.root, transactionsFile)); errors.Is(err, fs.ErrNotExist) {
		if err := s.writeTransactionsLocked(nil); err != nil {
			return err
		}
	}
	if _, err := os.Stat(filepath.Join(s.root, accountsFile)); errors.Is(err, fs.ErrNotExist) {
		if err := s.writeAccountsLocked(nil); err != nil {
			return err
		}
	}
	return nil
}

// Transactions returns all ledger transactions.
func (s *Service) Transactions() ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readTransactionsLocked()
}

// Accounts returns all ledger accounts.
func (s *Service) Accounts() ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAccountsLocked()
}

// Account returns one account by ID.
func (s *Service) Account(accountID string) (model.Account, bool, error) {
	accounts, err := s.Accounts()
	if err != nil {
		return model.Account{}, false, err
	}
	for _, a := range accounts {
		if a.ID == accountID {
			return a, true, nil
		}
	}
	return model.Account{}, false, nil
}

// CreateAccount adds a new account with a zero balance and returns it.
func (s *Service) CreateAccount(name, currency string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.readAccountsLocked()
	if err != nil {
		return model.Account{}, err
	}

	account := model.Account{
		ID:       id.NewAccountID(),
		Name:     name,
		Currency: currency,
	}
	accounts = append(accounts, account)

	if err := s.writeAccountsLocked(accounts); err != nil {
		return model.Account{}, err
	}
	return account, nil
}

// CreateTransaction persists a transaction and adjusts the owning account's
// balance by the signed amount in the same guarded step. Either both files
// land or neither does, so the balance always equals the signed sum of the
// account's transactions.
func (s *Service) CreateTransaction(tx model.Transaction) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.readAccountsLocked()
	if err != nil {
		return model.Transaction{}, err
	}

	idx := -1
	for i, a := range accounts {
		if a.ID == tx.AccountID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Transaction{}, fmt.Errorf("%w: %s", ErrAccountNotFound, tx.AccountID)
	}

	txs, err := s.readTransactionsLocked()
	if err != nil {
		return model.Transaction{}, err
	}

	if tx.ID == "" {
		tx.ID = id.NewTransactionID()
	}
	if tx.Type == "" {
		tx.Type = model.TypeForAmount(tx.Amount)
	}
	if tx.Source == "" {
		tx.Source = model.SourceManual
	}

	txs = append(txs, tx)
	accounts[idx].Balance = accounts[idx].Balance.Add(tx.Amount)

	if err := s.writeTransactionsLocked(txs); err != nil {
		return model.Transaction{}, err
	}
	if err := s.writeAccountsLocked(accounts); err != nil {
		// Roll the append back so no transaction exists without its delta.
		_ = s.writeTransactionsLocked(txs[:len(txs)-1])
		return model.Transaction{}, err
	}
	return tx, nil
}

func (s *Service) readTransactionsLocked() ([]model.Transaction, error) {
	f, err := os.Open(filepath.Join(s.root, transactionsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening transactions: %w", err)
	}
	defer f.Close()
	return ReadTransactions(f)
}

func (s *Service) readAccountsLocked() ([]model.Account, error) {
	f, err := os.Open(filepath.Join(s.root, accountsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening accounts: %w", err)
	}
	defer f.Close()
	return ReadAccounts(f)
}

func (s *Service) writeTransactionsLocked(txs []model.Transaction) error {
	var buf bytes.Buffer
	if err := WriteTransactions(&buf, txs); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(s.root, transactionsFile), buf.Bytes())
}

func (s *Service) writeAccountsLocked(accounts []model.Account) error {
	var buf bytes.Buffer
	if err := WriteAccounts(&buf, accounts); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(s.root, accountsFile), buf.Bytes())
}

// writeFileAtomic writes via a temp file and rename, so a crash mid-write
// never leaves a truncated ledger file behind.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(tmp), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
