// Package ledger is the client for the external credit service that owns
// per-user drink balances. The service exposes exactly two operations: read
// a balance and overwrite it.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Ledger abstracts the credit service consulted by the drop workflow
type Ledger interface {
	// GetBalance reads the user's current spendable balance.
	GetBalance(ctx context.Context, username string) (int, error)

	// SetBalance overwrites the user's balance with a new value.
	SetBalance(ctx context.Context, username string, balance int) error
}

// balancePayload is the wire shape for both directions
type balancePayload struct {
	DrinkBalance int `json:"drinkBalance"`
}

// Ensure Client implements Ledger
var _ Ledger = (*Client)(nil)

// Client talks to the credit ledger over HTTP
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a ledger client. baseURL is the service root, token is
// sent on every request as X-Auth-Token.
func NewClient(baseURL string, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// GetBalance reads the user's current spendable balance.
func (c *Client) GetBalance(ctx context.Context, username string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.creditsURL(username), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("X-Auth-Token", c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to read balance for %q: %w", username, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("ledger returned status %d reading balance for %q", resp.StatusCode, username)
	}

	var payload balancePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to decode ledger response for %q: %w", username, err)
	}

	return payload.DrinkBalance, nil
}

// SetBalance overwrites the user's balance with a new value.
func (c *Client) SetBalance(ctx context.Context, username string, balance int) error {
	body, err := json.Marshal(balancePayload{DrinkBalance: balance})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.creditsURL(username), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("X-Auth-Token", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to write balance for %q: %w", username, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("ledger returned status %d writing balance for %q", resp.StatusCode, username)
	}

	return nil
}

func (c *Client) creditsURL(username string) string {
	return fmt.Sprintf("%s/users/%s/credits", c.baseURL, url.PathEscape(username))
}
