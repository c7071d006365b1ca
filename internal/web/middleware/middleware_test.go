package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/dataclean/internal/config"
)

func echoRemoteAddr() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.RemoteAddr))
	})
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{"untrusted keeps socket", nil, "203.0.113.5:1234", map[string]string{"X-Real-IP": "1.2.3.4"}, "203.0.113.5:1234"},
		{"trusted real ip", []string{"10.0.0.0/8"}, "10.1.2.3:1234", map[string]string{"X-Real-IP": "1.2.3.4"}, "1.2.3.4"},
		{"trusted xff first hop", []string{"10.0.0.0/8"}, "10.1.2.3:1234", map[string]string{"X-Forwarded-For": "5.6.7.8, 10.1.2.3"}, "5.6.7.8"},
		{"single address entry", []string{"127.0.0.1"}, "127.0.0.1:80", map[string]string{"X-Real-IP": "9.9.9.9"}, "9.9.9.9"},
		{"invalid header ignored", []string{"10.0.0.0/8"}, "10.1.2.3:1234", map[string]string{"X-Real-IP": "not-an-ip"}, "10.1.2.3:1234"},
		{"ipv6 proxy", []string{"2001:db8::/32"}, "[2001:db8::1]:443", map[string]string{"X-Real-IP": "2001:db8:ffff::9"}, "2001:db8:ffff::9"},
		{"bad cidr skipped", []string{"nonsense"}, "10.1.2.3:1234", map[string]string{"X-Real-IP": "1.2.3.4"}, "10.1.2.3:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := TrustedRealIP(tt.trusted)(echoRemoteAddr())
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if got := rec.Body.String(); got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIKeyAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name   string
		cfg    config.SecurityConfig
		key    string
		status int
		code   string
	}{
		{"disabled", config.SecurityConfig{}, "", http.StatusNoContent, ""},
		{"missing key", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"a"}}, "", http.StatusUnauthorized, "AUTH_MISSING_KEY"},
		{"wrong key", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"a"}}, "b", http.StatusForbidden, "AUTH_INVALID_KEY"},
		{"second key", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"a", "b"}}, "b", http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rec := httptest.NewRecorder()
			APIKeyAuth(&cfg)(ok).ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.code != "" && !strings.Contains(rec.Body.String(), tt.code) {
				t.Errorf("body %q should contain %s", rec.Body.String(), tt.code)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("nope"))
	}))
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	line := buf.String()
	for _, want := range []string{`"level":"WARN"`, `"status":404`, `"bytes":4`, `"path":"/missing"`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %s missing %s", line, want)
		}
	}
}
