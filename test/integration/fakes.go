package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"mizu-in-go/pkg/machine"
)

// FakeLedger is an in-memory stand-in for the credit ledger service. The
// server under test talks to it through the real ledger HTTP client.
type FakeLedger struct {
	Srv   *httptest.Server
	Token string

	mu       sync.Mutex
	balances map[string]int
}

func NewFakeLedger(token string) *FakeLedger {
	f := &FakeLedger{
		Token:    token,
		balances: make(map[string]int),
	}
	f.Srv = httptest.NewServer(http.HandlerFunc(f.handle))
	return f
}

func (f *FakeLedger) handle(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Auth-Token") != f.Token {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	// /users/<username>/credits
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[0] != "users" || parts[2] != "credits" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	username := parts[1]

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		balance, ok := f.balances[username]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]int{"drinkBalance": balance})
	case http.MethodPut:
		var payload struct {
			DrinkBalance int `json:"drinkBalance"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.balances[username] = payload.DrinkBalance
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SetBalance seeds a user's balance
func (f *FakeLedger) SetBalance(username string, balance int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[username] = balance
}

// Balance reads a user's balance directly
func (f *FakeLedger) Balance(username string) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	balance, ok := f.balances[username]
	return balance, ok
}

func (f *FakeLedger) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances = make(map[string]int)
}

func (f *FakeLedger) Close() {
	f.Srv.Close()
}

// Ensure DropRecorder implements machine.DropClient
var _ machine.DropClient = (*DropRecorder)(nil)

// DropCall records one drop request made by the server
type DropCall struct {
	Machine string
	Slot    int
}

// DropRecorder stands in for the physical machines. Each scenario configures
// whether the next drop is accepted, rejected with a status, or fails to
// connect at all.
type DropRecorder struct {
	mu          sync.Mutex
	calls       []DropCall
	status      int
	unreachable bool
}

func NewDropRecorder() *DropRecorder {
	return &DropRecorder{status: http.StatusOK}
}

// Drop implements machine.DropClient
func (d *DropRecorder) Drop(ctx context.Context, machineName string, slot int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.unreachable {
		return 0, fmt.Errorf("failed to contact machine %q: connection refused", machineName)
	}

	d.calls = append(d.calls, DropCall{Machine: machineName, Slot: slot})
	return d.status, nil
}

// Accept makes the next drops succeed
func (d *DropRecorder) Accept() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = http.StatusOK
	d.unreachable = false
}

// Reject makes the next drops return the given status
func (d *DropRecorder) Reject(status int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = status
	d.unreachable = false
}

// Unreachable makes the next drops fail at the transport level
func (d *DropRecorder) Unreachable() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unreachable = true
}

// Calls returns the drops seen so far
func (d *DropRecorder) Calls() []DropCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]DropCall(nil), d.calls...)
}

func (d *DropRecorder) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
	d.status = http.StatusOK
	d.unreachable = false
}
