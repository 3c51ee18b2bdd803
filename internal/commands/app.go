package commands

import (
	"fmt"
	"path/filepath"

	"github.com/financeflow-app/financeflow/internal/banksync"
	"github.com/financeflow-app/financeflow/internal/categorize"
	"github.com/financeflow-app/financeflow/internal/config"
	"github.com/financeflow-app/financeflow/internal/gocardless"
	"github.com/financeflow-app/financeflow/internal/ledger"
	"github.com/financeflow-app/financeflow/internal/logger"
)

const rulesFile = "rules/categorization-rules.yaml"

// app is the assembled toolchain every command runs against.
type app struct {
	store   *config.Store
	service *banksync.Service
}

// newApp wires store, provider client, ledger and orchestrator for a data
// directory. Changing credentials drops the client's cached session token.
func newApp(dir string) (*app, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	store, err := config.NewStore(filepath.Join(absDir, config.FileName))
	if err != nil {
		return nil, err
	}

	client := gocardless.NewClient(store)
	store.OnCredentialChange(client.Invalidate)

	rules, err := categorize.Load(filepath.Join(absDir, rulesFile))
	if err != nil {
		rules = categorize.Default()
	}

	led := ledger.NewService(absDir)

	return &app{
		store:   store,
		service: banksync.NewService(store, client, led, rules, absDir, logger.New()),
	}, nil
}
