package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/financeflow-app/financeflow/internal/model"
)

// FileName is the configuration/state file inside the data directory.
const FileName = "financeflow.yaml"

// Config is the top-level financeflow.yaml document. Besides preferences it
// carries the bank-connection state: credentials, requisitions awaiting or
// past authorization, and the accounts already linked.
type Config struct {
	Provider       ProviderConfig        `yaml:"provider"`
	Sync           SyncConfig            `yaml:"sync"`
	Git            GitConfig             `yaml:"git"`
	Requisitions   []model.Requisition   `yaml:"requisitions,omitempty"`
	LinkedAccounts []model.LinkedAccount `yaml:"linked_accounts,omitempty"`
}

// ProviderConfig holds the aggregator API key pair.
type ProviderConfig struct {
	SecretID  string `yaml:"secret_id"`
	SecretKey string `yaml:"secret_key"`
}

// SyncConfig holds bank-sync preferences.
type SyncConfig struct {
	Country      string `yaml:"country"`       // ISO2, for the institution list
	UserLanguage string `yaml:"user_language"` // language of the authorization flow
	RedirectURL  string `yaml:"redirect_url"`  // where the institution sends the user afterwards
	HistoryDays  int    `yaml:"history_days"`  // default sync window
}

// GitConfig controls git integration for the data directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a financeflow.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file. Credentials live in this file, so it
// is written owner-readable only.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default() *Config {
	return &Config{
		Sync: SyncConfig{
			Country:      "IT",
			UserLanguage: "IT",
			RedirectURL:  "https://financeflow.app/bank-callback",
			HistoryDays:  90,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "FinanceFlow",
			AuthorEmail: "sync@financeflow.app",
		},
	}
}
