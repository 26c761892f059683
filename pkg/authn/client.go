package authn

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// APIError is a 4xx response from the identity provider, surfaced to the
// caller with the provider's message (sign-up conflicts, bad credentials).
type APIError struct {
	Status  int
	Message string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity provider: %s (status %d)", e.Message, e.Status)
}

// Client talks to the GoTrue-style identity API. AnonKey is used for
// user-initiated flows; ServiceKey for privileged admin operations.
type Client struct {
	BaseURL    string
	AnonKey    string
	ServiceKey string
	HTTP       *http.Client
}

func NewClient(baseURL, anonKey, serviceKey string) *Client {
	return &Client{
		BaseURL:    baseURL,
		AnonKey:    anonKey,
		ServiceKey: serviceKey,
		HTTP:       &http.Client{Timeout: 10 * time.Second},
	}
}

// SignUp creates a new identity with email/password credentials.
func (c *Client) SignUp(ctx context.Context, email, password string) (Identity, error) {
	var out struct {
		User Identity `json:"user"`
		// Some providers return the user at the top level instead.
		Identity
	}
	err := c.do(ctx, http.MethodPost, "/signup", c.AnonKey, "",
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return Identity{}, err
	}
	if out.User.ID != "" {
		return out.User, nil
	}
	if out.ID != "" {
		return out.Identity, nil
	}
	return Identity{}, errors.New("identity provider returned no user")
}

// SignInWithPassword exchanges credentials for a token pair.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (Tokens, error) {
	var out tokenResponse
	err := c.do(ctx, http.MethodPost, "/token?grant_type=password", c.AnonKey, "",
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return Tokens{}, err
	}
	return out.tokens(), nil
}

// RefreshSession exchanges a refresh token for a fresh pair.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (Tokens, error) {
	var out tokenResponse
	err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", c.AnonKey, "",
		map[string]string{"refresh_token": refreshToken}, &out)
	if err != nil {
		return Tokens{}, err
	}
	return out.tokens(), nil
}

// SignOut revokes the session behind the access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout", c.AnonKey, accessToken, nil, nil)
}

// DeleteUser removes an identity. Privileged; used to roll back
// registration when shop creation fails.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+userID, c.ServiceKey, c.ServiceKey, nil, nil)
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (t tokenResponse) tokens() Tokens {
	exp := t.ExpiresAt
	if exp == 0 && t.ExpiresIn > 0 {
		exp = time.Now().Unix() + t.ExpiresIn
	}
	return Tokens{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken, ExpiresAt: exp}
}

func (c *Client) do(ctx context.Context, method, path, apiKey, bearer string, body, out any) error {
	var rdr *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(raw)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("apikey", apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
