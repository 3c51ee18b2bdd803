// Package gocardless is a client for the GoCardless Bank Account Data API,
// the PSD2 aggregator that brokers access to bank institutions.
//
// Docs: https://developer.gocardless.com/bank-account-data/overview
package gocardless

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/financeflow-app/financeflow/internal/model"
)

// DefaultBaseURL is the production Bank Account Data endpoint.
const DefaultBaseURL = "https://bankaccountdata.gocardless.com/api/v2"

const (
	requestTimeout        = 30 * time.Second
	maxErrorBodyBytes     = 4096
	defaultMaxHistoryDays = 90
	dateParamFormat       = "2006-01-02"
)

// CredentialSource supplies the current API key pair. Empty values mean no
// credentials are configured.
type CredentialSource interface {
	Credentials() (secretID, secretKey string)
}

// Client talks to the aggregator. The bearer token is cached process-wide
// inside the client and refreshed ahead of expiry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialSource

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a Client against the production API.
func NewClient(creds CredentialSource) *Client {
	return &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		creds:      creds,
	}
}

// Institutions lists the banks supported for an ISO2 country code.
func (c *Client) Institutions(ctx context.Context, country string) ([]model.Institution, error) {
	query := url.Values{"country": {country}}
	var resp []institutionResponse
	if err := c.get(ctx, "/institutions/", query, &resp); err != nil {
		return nil, err
	}

	institutions := make([]model.Institution, 0, len(resp))
	for _, inst := range resp {
		days, err := strconv.Atoi(inst.TransactionTotalDays)
		if err != nil || days <= 0 {
			days = defaultMaxHistoryDays
		}
		institutions = append(institutions, model.Institution{
			ID:             inst.ID,
			Name:           inst.Name,
			Logo:           inst.Logo,
			Countries:      inst.Countries,
			MaxHistoryDays: days,
		})
	}
	return institutions, nil
}

// CreateRequisition starts a new authorization attempt for an institution.
// The returned requisition carries the link the user must open to authorize
// on the institution's own site.
func (c *Client) CreateRequisition(ctx context.Context, institutionID, redirect, userLanguage string) (model.Requisition, error) {
	body := map[string]string{
		"redirect":       redirect,
		"institution_id": institutionID,
		"user_language":  userLanguage,
	}
	var resp requisitionResponse
	if err := c.post(ctx, "/requisitions/", body, &resp); err != nil {
		return model.Requisition{}, err
	}
	return model.Requisition{
		ID:            resp.ID,
		InstitutionID: institutionID,
		Link:          resp.Link,
		Status:        resp.Status,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// Requisition fetches the current status of a requisition, including the
// provider account ids once the user has authorized.
func (c *Client) Requisition(ctx context.Context, requisitionID string) (RequisitionStatus, error) {
	var resp RequisitionStatus
	if err := c.get(ctx, "/requisitions/"+requisitionID+"/", nil, &resp); err != nil {
		return RequisitionStatus{}, err
	}
	return resp, nil
}

// AccountDetails fetches IBAN, owner, product and currency for one
// authorized account.
func (c *Client) AccountDetails(ctx context.Context, accountID string) (AccountDetail, error) {
	var resp accountDetailResponse
	if err := c.get(ctx, "/accounts/"+accountID+"/details/", nil, &resp); err != nil {
		return AccountDetail{}, err
	}
	return resp.Account, nil
}

// Transactions fetches booked transactions for an account. Zero from/to
// times leave the provider's default date range in place. Pending
// transactions are discarded; they change ids once booked.
func (c *Client) Transactions(ctx context.Context, accountID string, from, to time.Time) ([]RawTransaction, error) {
	query := url.Values{}
	if !from.IsZero() {
		query.Set("date_from", from.Format(dateParamFormat))
	}
	if !to.IsZero() {
		query.Set("date_to", to.Format(dateParamFormat))
	}

	var resp transactionsResponse
	if err := c.get(ctx, "/accounts/"+accountID+"/transactions/", query, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions.Booked, nil
}

// Balance fetches the current balance of an account, preferring the
// interimAvailable or expected balance over whatever comes first.
func (c *Client) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var resp balancesResponse
	if err := c.get(ctx, "/accounts/"+accountID+"/balances/", nil, &resp); err != nil {
		return decimal.Zero, err
	}
	if len(resp.Balances) == 0 {
		return decimal.Zero, nil
	}

	main := resp.Balances[0]
	for _, b := range resp.Balances {
		if b.BalanceType == "interimAvailable" || b.BalanceType == "expected" {
			main = b
			break
		}
	}

	amount, err := decimal.NewFromString(main.BalanceAmount.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing balance %q: %w", main.BalanceAmount.Amount, err)
	}
	return amount, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}
	return c.send(ctx, http.MethodGet, path, query, nil, out, token)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}
	return c.send(ctx, http.MethodPost, path, nil, body, out, token)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any, token string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("building request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding %s response: %w", path, err)
		}
	}
	return nil
}
