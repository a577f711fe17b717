package endpoints

import (
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"mizu-in-go/pkg/audit"
	"mizu-in-go/pkg/server"
	"mizu-in-go/pkg/server/middleware"
)

const testJWTSecret = "test-jwt-secret"

func TestMain(m *testing.M) {
	// Keep audit lines out of test output
	audit.SetEnabled(false)
	os.Exit(m.Run())
}

// testServer bundles a server assembled from mocks
type testServer struct {
	Server   *server.Server
	Machines *MockMachinesStore
	Items    *MockItemsStore
	Health   *MockHealthStore
	Ledger   *MockLedger
	Drops    *MockDropClient
}

func newTestServer() *testServer {
	machines := NewMockMachinesStore()
	items := NewMockItemsStore()
	health := NewMockHealthStore()
	credits := NewMockLedger()
	drops := NewMockDropClient()

	s := &server.Server{
		Router:         mux.NewRouter().UseEncodedPath(),
		MachinesStore:  machines,
		ItemsStore:     items,
		HealthStore:    health,
		Ledger:         credits,
		Drops:          drops,
		AuthMiddleware: middleware.NewTokenAuthenticator([]byte(testJWTSecret)),
	}

	return &testServer{
		Server:   s,
		Machines: machines,
		Items:    items,
		Health:   health,
		Ledger:   credits,
		Drops:    drops,
	}
}

// testToken mints a bearer token for the given username
func testToken(t *testing.T, username string) string {
	t.Helper()

	claims := middleware.Claims{
		PreferredUsername: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}
