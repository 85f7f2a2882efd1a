package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/handit-ai/handit-cli/internal/models"
)

// Client talks to the Handit HTTP API. It is constructed explicitly and
// passed to whoever needs it; the bearer token is instance state with one
// writer (the client, on successful auth) and many readers.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for the given API base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken seeds the bearer token, e.g. from cached credentials.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the cached bearer token, or "" before authentication.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// AuthResult carries the token plus opaque profile data returned by the
// backend on login or signup.
type AuthResult struct {
	Token   string         `json:"token"`
	Profile map[string]any `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Login authenticates with email and password. On success the token is
// cached and attached to all subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	res, err := request[AuthResult](ctx, c, http.MethodPost, "/auth/login", loginRequest{
		Email:    email,
		Password: password,
	}, http.StatusOK)
	if err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return res, nil
}

// Signup creates a company account. A duplicate account surfaces as
// ErrConflict. On success the token is cached like Login.
func (c *Client) Signup(ctx context.Context, email, password, firstName, lastName string) (*AuthResult, error) {
	res, err := request[AuthResult](ctx, c, http.MethodPost, "/auth/signup-company", signupRequest{
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
	}, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return res, nil
}

type createSessionRequest struct {
	Type    string              `json:"type"`
	Masking models.MaskingRules `json:"maskingRules"`
}

type createSessionResponse struct {
	ID string `json:"id"`
}

// CreateSession asks the backend for a new evaluation session. A failure
// here is non-fatal to the auth that preceded it; callers downgrade it to
// a warning.
func (c *Client) CreateSession(ctx context.Context, typ string, masking models.MaskingRules) (string, error) {
	res, err := request[createSessionResponse](ctx, c, http.MethodPost, "/v1/codegpt/sessions", createSessionRequest{
		Type:    typ,
		Masking: masking,
	}, http.StatusCreated)
	if err != nil {
		return "", err
	}
	return res.ID, nil
}

// InsightsResult is the evaluation outcome for a session.
type InsightsResult struct {
	Insights []models.Insight `json:"insights"`
	Total    int              `json:"total_insights"`
}

// FetchInsights retrieves detected problem/solution pairs for a session.
// Requires a cached token; fails with ErrUnauthenticated otherwise.
func (c *Client) FetchInsights(ctx context.Context, sessionID string) (*InsightsResult, error) {
	if c.Token() == "" {
		return nil, ErrUnauthenticated
	}
	path := fmt.Sprintf("/v1/codegpt/sessions/%s/insights", sessionID)
	res, err := request[InsightsResult](ctx, c, http.MethodGet, path, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	for i := range res.Insights {
		if res.Insights[i].Status == "" {
			res.Insights[i].Status = models.InsightPending
		}
	}
	return res, nil
}

type applyInsightsResponse struct {
	Optimizations []models.Optimization `json:"optimizations"`
}

// ApplyInsights asks the backend to produce optimized prompts. Partial
// success is expected: entries without an applied optimization come back
// with Applied=false and are passed through as-is.
func (c *Client) ApplyInsights(ctx context.Context, sessionID string) ([]models.Optimization, error) {
	if c.Token() == "" {
		return nil, ErrUnauthenticated
	}
	path := fmt.Sprintf("/v1/codegpt/sessions/%s/apply-insights", sessionID)
	res, err := request[applyInsightsResponse](ctx, c, http.MethodPost, path, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return res.Optimizations, nil
}

type providersResponse struct {
	Providers []models.Provider `json:"providers"`
}

// ListProviders returns the AI providers the backend can hold keys for.
func (c *Client) ListProviders(ctx context.Context) ([]models.Provider, error) {
	res, err := request[providersResponse](ctx, c, http.MethodGet, "/providers", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return res.Providers, nil
}

type integrationTokenRequest struct {
	ProviderID string `json:"providerId"`
	Name       string `json:"name"`
	Token      string `json:"token"`
}

// CreateIntegrationToken stores a provider API key with the backend.
func (c *Client) CreateIntegrationToken(ctx context.Context, providerID, name, token string) error {
	if c.Token() == "" {
		return ErrUnauthenticated
	}
	_, err := request[struct{}](ctx, c, http.MethodPost, "/integration-tokens", integrationTokenRequest{
		ProviderID: providerID,
		Name:       name,
		Token:      token,
	}, http.StatusCreated)
	return err
}

// request performs one JSON round trip and decodes the response into T.
func request[T any](ctx context.Context, c *Client, method, path string, body any, expected int) (*T, error) {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		// Tolerate 200/201 mismatches between backend revisions.
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			return nil, statusError(resp.StatusCode)
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	t := new(T)
	if len(data) > 0 {
		if err := json.Unmarshal(data, t); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return t, nil
}
