package mcpsrv

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGuards(t *testing.T) {
	roomy := Config{RPS: 100, Burst: 100}
	withKey := Config{APIKey: "secret", RPS: 100, Burst: 100}
	withOrigin := Config{AllowedOrigins: []string{"https://app.example"}, RPS: 100, Burst: 100}

	tests := []struct {
		name        string
		cfg         Config
		method      string
		headers     map[string]string
		wantStatus  int
		wantHeaders map[string]string
	}{
		{name: "no guards configured", cfg: roomy, method: http.MethodPost, wantStatus: http.StatusOK},
		{name: "missing api key", cfg: withKey, method: http.MethodPost, wantStatus: http.StatusUnauthorized},
		{name: "wrong api key", cfg: withKey, method: http.MethodPost, headers: map[string]string{"X-API-Key": "nope"}, wantStatus: http.StatusUnauthorized},
		{name: "x-api-key header", cfg: withKey, method: http.MethodPost, headers: map[string]string{"X-API-Key": "secret"}, wantStatus: http.StatusOK},
		{name: "bearer token", cfg: withKey, method: http.MethodPost, headers: map[string]string{"Authorization": "Bearer secret"}, wantStatus: http.StatusOK},
		{name: "bearer scheme is case-insensitive", cfg: withKey, method: http.MethodPost, headers: map[string]string{"Authorization": "bearer secret"}, wantStatus: http.StatusOK},
		{name: "bearer without token", cfg: withKey, method: http.MethodPost, headers: map[string]string{"Authorization": "Bearer"}, wantStatus: http.StatusUnauthorized},
		{name: "basic scheme", cfg: withKey, method: http.MethodPost, headers: map[string]string{"Authorization": "Basic secret"}, wantStatus: http.StatusUnauthorized},
		{name: "wrong header does not hide a good bearer", cfg: withKey, method: http.MethodPost, headers: map[string]string{"X-API-Key": "nope", "Authorization": "Bearer secret"}, wantStatus: http.StatusOK},
		{name: "origin without allowlist", cfg: roomy, method: http.MethodPost, headers: map[string]string{"Origin": "https://app.example"}, wantStatus: http.StatusForbidden},
		{name: "origin not listed", cfg: withOrigin, method: http.MethodPost, headers: map[string]string{"Origin": "https://evil.example"}, wantStatus: http.StatusForbidden},
		{
			name:        "listed origin",
			cfg:         withOrigin,
			method:      http.MethodPost,
			headers:     map[string]string{"Origin": "https://app.example"},
			wantStatus:  http.StatusOK,
			wantHeaders: map[string]string{"Access-Control-Allow-Origin": "https://app.example"},
		},
		{
			name:        "preflight from listed origin",
			cfg:         withOrigin,
			method:      http.MethodOptions,
			headers:     map[string]string{"Origin": "https://app.example", "Access-Control-Request-Method": "POST"},
			wantStatus:  http.StatusNoContent,
			wantHeaders: map[string]string{"Access-Control-Allow-Origin": "https://app.example"},
		},
		{
			name:       "preflight skips the api key",
			cfg:        Config{APIKey: "secret", AllowedOrigins: []string{"https://app.example"}, RPS: 100, Burst: 100},
			method:     http.MethodOptions,
			headers:    map[string]string{"Origin": "https://app.example", "Access-Control-Request-Method": "POST"},
			wantStatus: http.StatusNoContent,
		},
		{name: "preflight from unlisted origin", cfg: withOrigin, method: http.MethodOptions, headers: map[string]string{"Origin": "https://evil.example", "Access-Control-Request-Method": "POST"}, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := WrapMCPHandler(okHandler(), tt.cfg, nil)
			req := httptest.NewRequest(tt.method, "/mcp", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			for k, v := range tt.wantHeaders {
				if got := w.Header().Get(k); got != v {
					t.Fatalf("header %s: expected %q, got %q", k, v, got)
				}
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	h := WrapMCPHandler(okHandler(), Config{RPS: 20, Burst: 1}, nil)
	serve := func() int {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mcp", nil))
		return w.Code
	}

	if got := serve(); got != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", got)
	}
	if got := serve(); got != http.StatusTooManyRequests {
		t.Fatalf("expected second request 429, got %d", got)
	}
	time.Sleep(60 * time.Millisecond)
	if got := serve(); got != http.StatusOK {
		t.Fatalf("expected 200 after refill, got %d", got)
	}
}

func TestGuardedInitialize(t *testing.T) {
	srv := startTestServer(newFakeBackend(), Config{APIKey: "secret"}, &ServerOptions{})
	defer srv.Close()

	resp, err := postInitialize(srv.URL+"/mcp", nil)
	if err != nil {
		t.Fatalf("initialize request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	resp, err = postInitialize(srv.URL+"/mcp", map[string]string{"Authorization": "Bearer secret"})
	if err != nil {
		t.Fatalf("initialize request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
