package github

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newMockedClient(t *testing.T, tokenHandler, userHandler http.HandlerFunc) *Client {
	t.Helper()

	tokenServer := httptest.NewServer(tokenHandler)
	userServer := httptest.NewServer(userHandler)
	t.Cleanup(func() {
		tokenServer.Close()
		userServer.Close()
	})

	client := NewClient("client-id", "client-secret")
	client.BaseTokenURL = tokenServer.URL
	client.BaseUserURL = userServer.URL
	return client
}

func TestExchangeCode(t *testing.T) {
	client := newMockedClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.Equal(t, "client-id", payload["client_id"])
			require.Equal(t, "the-code", payload["code"])

			json.NewEncoder(w).Encode(map[string]string{"access_token": "gho_token"})
		},
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "token gho_token", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]interface{}{"id": 583231, "login": "octocat"})
		})

	info, err := client.ExchangeCode("the-code")
	require.NoError(t, err)
	require.Equal(t, "583231", info.ID)
	require.Equal(t, "octocat", info.Username)
}

func TestExchangeCode_BadCode(t *testing.T) {
	client := newMockedClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			// GitHub reports bad codes with 200 and an error body.
			json.NewEncoder(w).Encode(map[string]string{"error": "bad_verification_code"})
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("user endpoint must not be called without a token")
		})

	_, err := client.ExchangeCode("expired-code")
	require.Error(t, err)
}

func TestExchangeCode_MalformedUserResponse(t *testing.T) {
	client := newMockedClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "gho_token"})
		},
		func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"login": "octocat"})
		})

	_, err := client.ExchangeCode("the-code")
	require.Error(t, err)
}

func TestExchangeCode_UserEndpointError(t *testing.T) {
	client := newMockedClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "gho_token"})
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

	_, err := client.ExchangeCode("the-code")
	require.Error(t, err)
}
