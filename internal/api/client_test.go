package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handit-ai/handit-cli/internal/models"
)

func TestLoginCachesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "dev@handit.ai", body.Email)

		_ = json.NewEncoder(w).Encode(map[string]any{"token": "tok-abc", "user": map[string]any{"id": 7}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Login(context.Background(), "dev@handit.ai", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", res.Token)
	assert.Equal(t, "tok-abc", c.Token(), "token must be cached for subsequent requests")
}

func TestLoginStatusTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "Unauthorized", status: http.StatusUnauthorized, want: ErrUnauthorized},
		{name: "Bad request", status: http.StatusBadRequest, want: ErrBadRequest},
		{name: "Conflict", status: http.StatusConflict, want: ErrConflict},
		{name: "Server error", status: http.StatusInternalServerError, want: ErrServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			_, err := c.Login(context.Background(), "dev@handit.ai", "pw")
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, c.Token(), "failed login must not cache a token")
		})
	}
}

func TestUnreachableBackend(t *testing.T) {
	// A closed server guarantees a transport error, not an HTTP status.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Login(context.Background(), "dev@handit.ai", "pw")
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestRequestsCarryBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "sess-1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetToken("tok-abc")

	id, err := c.CreateSession(context.Background(), "live", models.MaskingRules{MaskInputs: true, MaskOutputs: true})
	require.NoError(t, err)
	assert.Equal(t, "sess-1", id)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestFetchInsightsRequiresToken(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	_, err := c.FetchInsights(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrUnauthenticated, "no fallback credential exists")

	_, err = c.ApplyInsights(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	err = c.CreateIntegrationToken(context.Background(), "openai", "OpenAI", "sk-x")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestFetchInsightsDefaultsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/codegpt/sessions/sess-1/insights", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"insights": []map[string]string{
				{"problem": "vague", "solution": "be specific"},
				{"problem": "slow", "solution": "trim context", "status": "completed"},
			},
			"total_insights": 5,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetToken("tok")

	res, err := c.FetchInsights(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 5, res.Total, "total may exceed the insights returned")
	require.Len(t, res.Insights, 2)
	assert.Equal(t, "pending", string(res.Insights[0].Status))
	assert.Equal(t, "completed", string(res.Insights[1].Status))
}

func TestApplyInsightsPassesPartialResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/codegpt/sessions/sess-1/apply-insights", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"optimizations": []map[string]any{
				{"originalPrompt": "a", "optimizedPrompt": "A", "optimizationApplied": true},
				{"originalPrompt": "b", "optimizationApplied": false},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetToken("tok")

	opts, err := c.ApplyInsights(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.True(t, opts[0].Applied)
	assert.False(t, opts[1].Applied, "unapplied entries pass through as-is")
}

func TestStatusToleranceBetween200And201(t *testing.T) {
	// Some backend revisions return 200 where others return 201.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK) // CreateSession expects 201
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "sess-1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	id, err := c.CreateSession(context.Background(), "live", models.MaskingRules{MaskInputs: true, MaskOutputs: true})
	require.NoError(t, err)
	assert.Equal(t, "sess-1", id)
}
