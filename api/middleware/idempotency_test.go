package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

type fakeIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{entries: map[string]string{}}
}

func (f *fakeIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.entries[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.entries[key]; exists {
		return false, nil
	}
	f.entries[key] = value.(string)
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "pl:idem:" + scope + ":" + id
}

func idempotentRouter(store *fakeIdempotencyStore, hits *int) http.Handler {
	r := chi.NewRouter()
	r.Use(Idempotency(store, nil))
	r.Post("/api/v1/transactions", func(w http.ResponseWriter, req *http.Request) {
		*hits++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"tx-1"}}`))
	})
	r.Post("/api/v1/parts", func(w http.ResponseWriter, req *http.Request) {
		*hits++
		w.WriteHeader(http.StatusCreated)
	})
	return r
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	store := newFakeIdempotencyStore()
	var hits int
	router := idempotentRouter(store, &hits)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(`{"quantity":"4"}`))
		req.Header.Set("Idempotency-Key", "key-1")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	first := send()
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", first.Code)
	}

	second := send()
	if hits != 1 {
		t.Fatalf("handler ran %d times, replay expected", hits)
	}
	if second.Code != http.StatusCreated {
		t.Fatalf("replay must keep status, got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replay body differs: %q vs %q", second.Body.String(), first.Body.String())
	}
	if ct := second.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("replay lost content type, got %q", ct)
	}
}

func TestIdempotency_MissingKeyRejected(t *testing.T) {
	store := newFakeIdempotencyStore()
	var hits int
	router := idempotentRouter(store, &hits)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if hits != 0 {
		t.Fatal("handler must not run without an idempotency key")
	}
}

func TestIdempotency_KeyReuseWithDifferentBody(t *testing.T) {
	store := newFakeIdempotencyStore()
	var hits int
	router := idempotentRouter(store, &hits)

	first := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(`{"quantity":"4"}`))
	first.Header.Set("Idempotency-Key", "key-1")
	router.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(`{"quantity":"9"}`))
	second.Header.Set("Idempotency-Key", "key-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, second)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if hits != 1 {
		t.Fatalf("handler ran %d times, reuse must not re-execute", hits)
	}
}

func TestIdempotency_FailureIsNotReplayed(t *testing.T) {
	store := newFakeIdempotencyStore()
	var hits int
	router := chi.NewRouter()
	router.Use(Idempotency(store, nil))
	router.Post("/api/v1/transactions", func(w http.ResponseWriter, req *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"tx-1"}}`))
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(`{"quantity":"4"}`))
		req.Header.Set("Idempotency-Key", "key-1")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	if first := send(); first.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", first.Code)
	}
	if len(store.entries) != 0 {
		t.Fatal("failed outcome must not be recorded")
	}

	retry := send()
	if retry.Code != http.StatusCreated {
		t.Fatalf("retry must re-execute, got %d", retry.Code)
	}
	if hits != 2 {
		t.Fatalf("handler ran %d times, failed call must not be replayed", hits)
	}

	replay := send()
	if replay.Code != http.StatusCreated || hits != 2 {
		t.Fatalf("successful outcome must replay, code=%d hits=%d", replay.Code, hits)
	}
}

func TestIdempotency_UnguardedRoutePassesThrough(t *testing.T) {
	store := newFakeIdempotencyStore()
	var hits int
	router := idempotentRouter(store, &hits)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parts", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if hits != 1 {
		t.Fatal("unguarded route should reach the handler without a key")
	}
	if len(store.entries) != 0 {
		t.Fatal("unguarded route must not write idempotency records")
	}
}
