package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/financeflow-app/financeflow/internal/model"
)

// TransactionsHeader is the CSV header for transactions.csv.
const TransactionsHeader = "id,date,title,amount,type,category,account_id,account_label,source,bank_ref,created_at"

// AccountsHeader is the CSV header for accounts.csv.
const AccountsHeader = "id,name,currency,balance"

const (
	txNumFields   = 11
	dateFormat    = "2006-01-02"
	colTxID       = 0
	colTxDate     = 1
	colTxTitle    = 2
	colTxAmount   = 3
	colTxType     = 4
	colTxCategory = 5
	colTxAcctID   = 6
	colTxAcctLbl  = 7
	colTxSource   = 8
	colTxBankRef  = 9
	colTxCreated  = 10
)

const (
	acctNumFields   = 4
	colAcctID       = 0
	colAcctName     = 1
	colAcctCurrency = 2
	colAcctBalance  = 3
)

// ReadTransactions reads all transactions from a transactions.csv reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = txNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var txs []model.Transaction
	for i, rec := range records[1:] {
		tx, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// WriteTransactions writes transactions to a writer, header included.
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(TransactionsHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, txNumFields)
	row[colTxID] = tx.ID
	row[colTxDate] = tx.Date.Format(dateFormat)
	row[colTxTitle] = tx.Title
	row[colTxAmount] = tx.Amount.StringFixed(2)
	row[colTxType] = string(tx.Type)
	row[colTxCategory] = tx.Category
	row[colTxAcctID] = tx.AccountID
	row[colTxAcctLbl] = tx.AccountLabel
	row[colTxSource] = tx.Source
	row[colTxBankRef] = tx.BankRef
	if !tx.CreatedAt.IsZero() {
		row[colTxCreated] = tx.CreatedAt.UTC().Format(time.RFC3339)
	}
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != txNumFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", txNumFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colTxDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colTxDate], err)
	}

	amount, err := decimal.NewFromString(record[colTxAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colTxAmount], err)
	}

	var created time.Time
	if record[colTxCreated] != "" {
		created, err = time.Parse(time.RFC3339, record[colTxCreated])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing created_at %q: %w", record[colTxCreated], err)
		}
	}

	return model.Transaction{
		ID:           record[colTxID],
		Date:         date,
		Title:        record[colTxTitle],
		Amount:       amount,
		Type:         model.TransactionType(record[colTxType]),
		Category:     record[colTxCategory],
		AccountID:    record[colTxAcctID],
		AccountLabel: record[colTxAcctLbl],
		Source:       record[colTxSource],
		BankRef:      record[colTxBankRef],
		CreatedAt:    created,
	}, nil
}

// ReadAccounts reads all accounts from an accounts.csv reader.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = acctNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		balance, err := decimal.NewFromString(rec[colAcctBalance])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing balance %q: %w", i+2, rec[colAcctBalance], err)
		}
		accounts = append(accounts, model.Account{
			ID:       rec[colAcctID],
			Name:     rec[colAcctName],
			Currency: rec[colAcctCurrency],
			Balance:  balance,
		})
	}
	return accounts, nil
}

// WriteAccounts writes accounts to a writer, header included.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(AccountsHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, a := range accounts {
		row := make([]string, acctNumFields)
		row[colAcctID] = a.ID
		row[colAcctName] = a.Name
		row[colAcctCurrency] = a.Currency
		row[colAcctBalance] = a.Balance.StringFixed(2)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
