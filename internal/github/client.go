// Package github exchanges OAuth2 authorization codes for the GitHub
// identity of the logged-in user. GitHub is treated as an untrusted remote:
// any shape deviation in a response is reported as an error, never a panic.
package github

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	accessTokenURL = "https://github.com/login/oauth/access_token"
	userInfoURL    = "https://api.github.com/user"
)

// UserInfo is the GitHub identity attached to an access token.
type UserInfo struct {
	ID       string
	Username string
}

// IdentityProvider resolves an OAuth2 authorization code to an external
// identity.
type IdentityProvider interface {
	ExchangeCode(code string) (UserInfo, error)
}

// Client is the GitHub implementation of IdentityProvider.
type Client struct {
	ClientID     string
	ClientSecret string

	// BaseTokenURL and BaseUserURL override the GitHub endpoints in tests.
	BaseTokenURL string
	BaseUserURL  string

	HTTPClient *http.Client
}

// NewClient creates a GitHub OAuth2 client.
func NewClient(clientID, clientSecret string) *Client {
	return &Client{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		BaseTokenURL: accessTokenURL,
		BaseUserURL:  userInfoURL,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// ExchangeCode exchanges a temporary authorization code for an access token,
// then fetches the GitHub user id and login attached to it.
func (c *Client) ExchangeCode(code string) (UserInfo, error) {
	token, err := c.fetchAccessToken(code)
	if err != nil {
		return UserInfo{}, err
	}
	return c.fetchUserInfo(token)
}

func (c *Client) fetchAccessToken(code string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"client_id":     c.ClientID,
		"client_secret": c.ClientSecret,
		"code":          code,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseTokenURL, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach GitHub: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode GitHub token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("GitHub did not return an access token")
	}
	return body.AccessToken, nil
}

func (c *Client) fetchUserInfo(accessToken string) (UserInfo, error) {
	req, err := http.NewRequest(http.MethodGet, c.BaseUserURL, nil)
	if err != nil {
		return UserInfo{}, fmt.Errorf("failed to build user request: %w", err)
	}
	req.Header.Set("Authorization", "token "+accessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return UserInfo{}, fmt.Errorf("failed to reach GitHub: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return UserInfo{}, fmt.Errorf("GitHub user endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		ID    json.Number `json:"id"`
		Login string      `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return UserInfo{}, fmt.Errorf("failed to decode GitHub user response: %w", err)
	}
	if body.ID.String() == "" || body.Login == "" {
		return UserInfo{}, fmt.Errorf("GitHub user response is missing id or login")
	}

	return UserInfo{
		ID:       body.ID.String(),
		Username: body.Login,
	}, nil
}
