package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"

	"mizu-in-go/pkg/server/middleware"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	machineIDs   map[string]int
	itemIDs      map[string]int
	lastItemID   int
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:         tc,
		machineIDs: make(map[string]int),
		itemIDs:    make(map[string]int),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		s.response = nil
		s.responseBody = nil
		s.machineIDs = make(map[string]int)
		s.itemIDs = make(map[string]int)
		s.lastItemID = 0
		return ctx, s.tc.Reset()
	})

	// Background steps
	sc.Step(`^a mizu server is running$`, s.aMizuServerIsRunning)
	sc.Step(`^a machine "([^"]*)" named "([^"]*)" exists$`, s.aMachineExists)
	sc.Step(`^an item "([^"]*)" priced (\d+) exists$`, s.anItemExists)
	sc.Step(`^slot (\d+) of "([^"]*)" holds "([^"]*)"$`, s.slotHoldsItem)
	sc.Step(`^the user "([^"]*)" has a balance of (\d+)$`, s.userHasBalance)

	// Machine behavior steps
	sc.Step(`^the machine will accept the next drop$`, s.machineWillAccept)
	sc.Step(`^the machine will reject the next drop with status (\d+)$`, s.machineWillReject)
	sc.Step(`^the machine is unreachable$`, s.machineIsUnreachable)

	// Action steps
	sc.Step(`^"([^"]*)" drops from slot (\d+) of "([^"]*)"$`, s.userDrops)
	sc.Step(`^"([^"]*)" requests the drink listing$`, s.userRequestsListing)
	sc.Step(`^"([^"]*)" requests the drink listing for "([^"]*)"$`, s.userRequestsListingFor)
	sc.Step(`^an unauthenticated request is made for the drink listing$`, s.unauthenticatedListing)
	sc.Step(`^"([^"]*)" creates an item "([^"]*)" priced (\d+)$`, s.userCreatesItem)
	sc.Step(`^"([^"]*)" updates that item to price (\d+)$`, s.userUpdatesItem)
	sc.Step(`^"([^"]*)" deletes that item$`, s.userDeletesItem)

	// Assertion steps
	sc.Step(`^the response status should be (\d+)$`, s.responseStatusShouldBe)
	sc.Step(`^the response should contain message "([^"]*)"$`, s.responseShouldContainMessage)
	sc.Step(`^the response should contain error "([^"]*)"$`, s.responseShouldContainError)
	sc.Step(`^the response should report a drinkBalance of (\d+)$`, s.responseShouldReportBalance)
	sc.Step(`^the ledger balance for "([^"]*)" should be (\d+)$`, s.ledgerBalanceShouldBe)
	sc.Step(`^the machine should have received a drop for slot (\d+)$`, s.machineReceivedDrop)
	sc.Step(`^the machine should not have received any drops$`, s.machineReceivedNoDrops)
	sc.Step(`^the listing should include machine "([^"]*)"$`, s.listingShouldIncludeMachine)
}

func (s *StepsContext) aMizuServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) aMachineExists(name, displayName string) error {
	var id int
	err := s.tc.RawDB.QueryRow(
		`INSERT INTO machines (name, display_name) VALUES ($1, $2) RETURNING id`,
		name, displayName,
	).Scan(&id)
	if err != nil {
		return err
	}
	s.machineIDs[name] = id
	return nil
}

func (s *StepsContext) anItemExists(name string, price int) error {
	var id int
	err := s.tc.RawDB.QueryRow(
		`INSERT INTO items (name, price) VALUES ($1, $2) RETURNING id`,
		name, price,
	).Scan(&id)
	if err != nil {
		return err
	}
	s.itemIDs[name] = id
	return nil
}

func (s *StepsContext) slotHoldsItem(number int, machineName, itemName string) error {
	machineID, ok := s.machineIDs[machineName]
	if !ok {
		return fmt.Errorf("unknown machine %q in scenario", machineName)
	}
	itemID, ok := s.itemIDs[itemName]
	if !ok {
		return fmt.Errorf("unknown item %q in scenario", itemName)
	}

	_, err := s.tc.RawDB.Exec(
		`INSERT INTO slots (machine, number, item, active) VALUES ($1, $2, $3, true)`,
		machineID, number, itemID,
	)
	return err
}

func (s *StepsContext) userHasBalance(username string, balance int) error {
	s.tc.FakeLedger.SetBalance(username, balance)
	return nil
}

func (s *StepsContext) machineWillAccept() error {
	s.tc.Drops.Accept()
	return nil
}

func (s *StepsContext) machineWillReject(status int) error {
	s.tc.Drops.Reject(status)
	return nil
}

func (s *StepsContext) machineIsUnreachable() error {
	s.tc.Drops.Unreachable()
	return nil
}

// mintToken creates a bearer token for the given username, signed with the
// same secret the server was assembled with
func mintToken(username string) (string, error) {
	claims := middleware.Claims{
		PreferredUsername: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
}

func (s *StepsContext) doRequest(username, method, path string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if username != "" {
		token, err := mintToken(username)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

func (s *StepsContext) userDrops(username string, slot int, machineName string) error {
	return s.doRequest(username, http.MethodPost, "/drinks/drop", map[string]interface{}{
		"machine": machineName,
		"slot":    slot,
	})
}

func (s *StepsContext) userRequestsListing(username string) error {
	return s.doRequest(username, http.MethodGet, "/drinks", nil)
}

func (s *StepsContext) userRequestsListingFor(username, machineName string) error {
	return s.doRequest(username, http.MethodGet, "/drinks?machine="+machineName, nil)
}

func (s *StepsContext) unauthenticatedListing() error {
	return s.doRequest("", http.MethodGet, "/drinks", nil)
}

func (s *StepsContext) userCreatesItem(username, name string, price int) error {
	if err := s.doRequest(username, http.MethodPost, "/items", map[string]interface{}{
		"name":  name,
		"price": price,
	}); err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusCreated {
		var created struct {
			Item struct {
				ID int `json:"id"`
			} `json:"item"`
		}
		if err := json.Unmarshal(s.responseBody, &created); err != nil {
			return err
		}
		s.lastItemID = created.Item.ID
	}
	return nil
}

func (s *StepsContext) userUpdatesItem(username string, price int) error {
	return s.doRequest(username, http.MethodPut, "/items", map[string]interface{}{
		"id":    s.lastItemID,
		"price": price,
	})
}

func (s *StepsContext) userDeletesItem(username string) error {
	return s.doRequest(username, http.MethodDelete, "/items", map[string]interface{}{
		"id": s.lastItemID,
	})
}

func (s *StepsContext) responseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response recorded")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d (body: %s)", status, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) decodeResponse() (map[string]interface{}, error) {
	var decoded map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &decoded); err != nil {
		return nil, fmt.Errorf("response is not JSON: %s", s.responseBody)
	}
	return decoded, nil
}

func (s *StepsContext) responseShouldContainMessage(message string) error {
	decoded, err := s.decodeResponse()
	if err != nil {
		return err
	}
	if decoded["message"] != message {
		return fmt.Errorf("expected message %q, got %v", message, decoded["message"])
	}
	return nil
}

func (s *StepsContext) responseShouldContainError(message string) error {
	decoded, err := s.decodeResponse()
	if err != nil {
		return err
	}
	if decoded["error"] != message {
		return fmt.Errorf("expected error %q, got %v", message, decoded["error"])
	}
	return nil
}

func (s *StepsContext) responseShouldReportBalance(balance int) error {
	decoded, err := s.decodeResponse()
	if err != nil {
		return err
	}
	got, ok := decoded["drinkBalance"].(float64)
	if !ok || int(got) != balance {
		return fmt.Errorf("expected drinkBalance %d, got %v", balance, decoded["drinkBalance"])
	}
	return nil
}

func (s *StepsContext) ledgerBalanceShouldBe(username string, balance int) error {
	got, ok := s.tc.FakeLedger.Balance(username)
	if !ok {
		return fmt.Errorf("no ledger balance for %q", username)
	}
	if got != balance {
		return fmt.Errorf("expected ledger balance %d for %q, got %d", balance, username, got)
	}
	return nil
}

func (s *StepsContext) machineReceivedDrop(slot int) error {
	for _, call := range s.tc.Drops.Calls() {
		if call.Slot == slot {
			return nil
		}
	}
	return fmt.Errorf("no drop recorded for slot %d (calls: %v)", slot, s.tc.Drops.Calls())
}

func (s *StepsContext) machineReceivedNoDrops() error {
	if calls := s.tc.Drops.Calls(); len(calls) > 0 {
		return fmt.Errorf("expected no drops, got %v", calls)
	}
	return nil
}

func (s *StepsContext) listingShouldIncludeMachine(machineName string) error {
	decoded, err := s.decodeResponse()
	if err != nil {
		return err
	}
	machines, ok := decoded["machines"].([]interface{})
	if !ok {
		return fmt.Errorf("response has no machines list: %s", s.responseBody)
	}
	for _, m := range machines {
		contents, ok := m.(map[string]interface{})
		if !ok {
			continue
		}
		if contents["name"] == machineName {
			return nil
		}
	}
	return fmt.Errorf("machine %q not in listing: %s", machineName, s.responseBody)
}
