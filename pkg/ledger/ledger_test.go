package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBalance(t *testing.T) {
	t.Run("reads the balance for the user", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/users/mcmurray/credits", r.URL.Path)
			assert.Equal(t, "ledger-token", r.Header.Get("X-Auth-Token"))
			_, _ = w.Write([]byte(`{"drinkBalance": 500}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "ledger-token")
		balance, err := client.GetBalance(context.Background(), "mcmurray")
		require.NoError(t, err)
		assert.Equal(t, 500, balance)
	})

	t.Run("escapes the username in the path", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.EscapedPath()
			_, _ = w.Write([]byte(`{"drinkBalance": 0}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "ledger-token")
		_, err := client.GetBalance(context.Background(), "user/with/slashes")
		require.NoError(t, err)
		assert.Equal(t, "/users/user%2Fwith%2Fslashes/credits", gotPath)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "ledger-token")
		_, err := client.GetBalance(context.Background(), "nobody")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("unreachable service is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		client := NewClient(srv.URL, "ledger-token")
		_, err := client.GetBalance(context.Background(), "mcmurray")
		require.Error(t, err)
	})
}

func TestSetBalance(t *testing.T) {
	t.Run("writes the new balance", func(t *testing.T) {
		var gotBody balancePayload
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/users/mcmurray/credits", r.URL.Path)
			assert.Equal(t, "ledger-token", r.Header.Get("X-Auth-Token"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "ledger-token")
		require.NoError(t, client.SetBalance(context.Background(), "mcmurray", 50))
		assert.Equal(t, 50, gotBody.DrinkBalance)
	})

	t.Run("rejection status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "ledger-token")
		err := client.SetBalance(context.Background(), "mcmurray", 50)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 403")
	})
}
