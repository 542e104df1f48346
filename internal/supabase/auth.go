package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AuthClient talks to the Supabase GoTrue auth endpoint.
type AuthClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// AuthOption configures the AuthClient.
type AuthOption func(*AuthClient)

// WithAuthHTTPClient overrides the default HTTP client.
func WithAuthHTTPClient(hc *http.Client) AuthOption {
	return func(c *AuthClient) {
		c.client = hc
	}
}

// NewAuthClient creates an auth client for the given Supabase project.
func NewAuthClient(baseURL, apiKey string, opts ...AuthOption) *AuthClient {
	c := &AuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthUser is the GoTrue representation of an authenticated user.
type AuthUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// Session holds the tokens returned by sign-up and sign-in.
type Session struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int      `json:"expires_in"`
	User         AuthUser `json:"user"`
}

// SignUp registers a new auth user. Metadata lands in the user's
// raw_user_meta_data.
func (c *AuthClient) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*Session, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
	}
	if len(metadata) > 0 {
		payload["data"] = metadata
	}

	var session Session
	if err := c.post(ctx, "/auth/v1/signup", payload, "", &session); err != nil {
		return nil, fmt.Errorf("signing up: %w", err)
	}
	return &session, nil
}

// SignInWithPassword exchanges email/password credentials for a session.
func (c *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
	}

	var session Session
	if err := c.post(ctx, "/auth/v1/token?grant_type=password", payload, "", &session); err != nil {
		return nil, fmt.Errorf("signing in: %w", err)
	}
	return &session, nil
}

// User returns the auth user for the given access token.
func (c *AuthClient) User(ctx context.Context, accessToken string) (*AuthUser, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+"/auth/v1/user", http.NoBody,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user request: %w", err)
	}
	c.setHeaders(req, accessToken)

	var user AuthUser
	if err := c.execute(req, &user); err != nil {
		return nil, fmt.Errorf("fetching auth user: %w", err)
	}
	return &user, nil
}

func (c *AuthClient) post(ctx context.Context, path string, payload any, token string, dst any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data),
	)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req, token)
	req.Header.Set("Content-Type", "application/json")

	return c.execute(req, dst)
}

func (c *AuthClient) setHeaders(req *http.Request, token string) {
	req.Header.Set("apikey", c.apiKey)
	if token == "" {
		token = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func (c *AuthClient) execute(req *http.Request, dst any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("auth API error (status %d): %s", resp.StatusCode, string(body))
	}

	if dst != nil && len(body) > 0 {
		if err := json.Unmarshal(body, dst); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
