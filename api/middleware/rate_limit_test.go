package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mrosales/partsledger-backend/pkg/auth"
	"github.com/mrosales/partsledger-backend/pkg/config"
	"github.com/mrosales/partsledger-backend/pkg/enums"
	pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"
)

type fakeRateLimiter struct {
	counts map[string]int64
	scopes []string
}

func newFakeRateLimiter() *fakeRateLimiter {
	return &fakeRateLimiter{counts: map[string]int64{}}
}

func (f *fakeRateLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	f.counts[scope]++
	f.scopes = append(f.scopes, scope)
	count := f.counts[scope]
	return count <= limit, count, nil
}

func limitedHandler(cfg config.RateLimitConfig, store *fakeRateLimiter, hits *int) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		w.WriteHeader(http.StatusCreated)
	})
	return MutationRateLimit(cfg, store, nil)(next)
}

func TestMutationRateLimit_BlocksOverLimit(t *testing.T) {
	store := newFakeRateLimiter()
	var hits int
	handler := limitedHandler(config.RateLimitConfig{MutationLimit: 2, MutationWindow: time.Minute}, store, &hits)

	principal := auth.Principal{UserID: uuid.New(), OrganizationID: uuid.New(), Role: enums.UserRoleAdmin}
	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(`{}`))
		req = req.WithContext(WithPrincipal(req.Context(), principal))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		return resp
	}

	if resp := send(); resp.Code != http.StatusCreated {
		t.Fatalf("first call expected 201 got %d", resp.Code)
	}
	if resp := send(); resp.Code != http.StatusCreated {
		t.Fatalf("second call expected 201 got %d", resp.Code)
	}

	third := send()
	if third.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", third.Code)
	}
	if hits != 2 {
		t.Fatalf("handler ran %d times, blocked call must not pass", hits)
	}

	var envelope struct {
		Detail string `json:"detail"`
		Code   string `json:"code"`
	}
	if err := json.NewDecoder(third.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Code != string(pkgerrors.CodeRateLimit) {
		t.Fatalf("unexpected code %q", envelope.Code)
	}

	wantScope := "mutation:" + principal.UserID.String()
	if len(store.scopes) == 0 || store.scopes[0] != wantScope {
		t.Fatalf("limiter keyed on %q, want %q", store.scopes, wantScope)
	}
}

func TestMutationRateLimit_ReadsBypassLimiter(t *testing.T) {
	store := newFakeRateLimiter()
	var hits int
	handler := limitedHandler(config.RateLimitConfig{MutationLimit: 1, MutationWindow: time.Minute}, store, &hits)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusCreated {
			t.Fatalf("read %d expected passthrough got %d", i, resp.Code)
		}
	}
	if len(store.counts) != 0 {
		t.Fatalf("reads must not touch the limiter, got %v", store.counts)
	}
}

func TestMutationRateLimit_DisabledConfigPassesThrough(t *testing.T) {
	store := newFakeRateLimiter()
	var hits int
	handler := limitedHandler(config.RateLimitConfig{MutationLimit: 0, MutationWindow: time.Minute}, store, &hits)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parts", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected passthrough got %d", resp.Code)
	}
	if len(store.counts) != 0 {
		t.Fatal("disabled limiter must not count")
	}
}

func TestMutationRateLimit_AnonymousFallsBackToIP(t *testing.T) {
	store := newFakeRateLimiter()
	var hits int
	handler := limitedHandler(config.RateLimitConfig{MutationLimit: 5, MutationWindow: time.Minute}, store, &hits)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/organizations", strings.NewReader(`{}`))
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if len(store.scopes) != 1 || store.scopes[0] != "mutation:ip:203.0.113.9" {
		t.Fatalf("unexpected scope %v", store.scopes)
	}
}
