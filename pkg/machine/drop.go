// Package machine is the client for the physical drink machines' drop API.
// Each machine is reached at https://<name>.<domain>/drop and authenticates
// callers with a pre-shared token.
package machine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DropClient abstracts the outbound drop call
type DropClient interface {
	// Drop asks the named machine to dispense from the given slot. It
	// returns the machine's HTTP status code, or a non-nil error when the
	// machine could not be reached at all. No retries are attempted.
	Drop(ctx context.Context, machineName string, slot int) (int, error)
}

// Ensure Client implements DropClient
var _ DropClient = (*Client)(nil)

// Client talks to the machines' drop API over HTTPS
type Client struct {
	domain string
	token  string
	client *http.Client

	// endpoint builds the drop URL for a machine; overridable in tests
	endpoint func(machineName string) string
}

// NewClient creates a drop client. domain is the suffix appended to machine
// names to form hostnames, token is the pre-shared X-Auth-Token secret.
func NewClient(domain string, token string, timeout time.Duration) *Client {
	c := &Client{
		domain: domain,
		token:  token,
		client: &http.Client{Timeout: timeout},
	}
	c.endpoint = func(machineName string) string {
		return fmt.Sprintf("https://%s.%s/drop", machineName, c.domain)
	}
	return c
}

// Drop asks the named machine to dispense from the given slot.
func (c *Client) Drop(ctx context.Context, machineName string, slot int) (int, error) {
	body, err := json.Marshal(map[string]int{"slot": slot})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(machineName), bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("X-Auth-Token", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to contact machine %q: %w", machineName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode, nil
}
