package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBearerAuthMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name    string
		keys    []string
		path    string
		headers map[string]string
		want    int
		message string
	}{
		{name: "no keys disables auth", path: "/recommendations", want: http.StatusOK},
		{name: "blank keys disable auth", keys: []string{"", "  "}, path: "/recommendations", want: http.StatusOK},
		{
			name: "missing header", keys: []string{"secret"}, path: "/recommendations",
			want: http.StatusUnauthorized, message: "missing authorization header",
		},
		{
			name: "basic scheme", keys: []string{"secret"}, path: "/recommendations",
			headers: map[string]string{"Authorization": "Basic dXNlcjpwYXNz"},
			want:    http.StatusUnauthorized, message: "authorization header must use Bearer scheme",
		},
		{
			name: "wrong bearer", keys: []string{"secret"}, path: "/index",
			headers: map[string]string{"Authorization": "Bearer nope"},
			want:    http.StatusUnauthorized, message: "invalid api key",
		},
		{
			name: "bearer", keys: []string{"secret"}, path: "/index",
			headers: map[string]string{"Authorization": "Bearer secret"},
			want:    http.StatusOK,
		},
		{
			name: "scheme is case insensitive", keys: []string{"secret"}, path: "/index",
			headers: map[string]string{"Authorization": "bearer secret"},
			want:    http.StatusOK,
		},
		{
			name: "second key", keys: []string{"key1", "key2"}, path: "/index/seed",
			headers: map[string]string{"Authorization": "Bearer key2"},
			want:    http.StatusOK,
		},
		{
			name: "api key header", keys: []string{"secret"}, path: "/recommendations",
			headers: map[string]string{"X-API-Key": "secret"},
			want:    http.StatusOK,
		},
		{
			name: "wrong api key header", keys: []string{"secret"}, path: "/recommendations",
			headers: map[string]string{"X-API-Key": "guess"},
			want:    http.StatusUnauthorized, message: "invalid api key",
		},
		{name: "health is public", keys: []string{"secret"}, path: "/health", want: http.StatusOK},
		{name: "metrics is public", keys: []string{"secret"}, path: "/metrics", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, http.NoBody)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			BearerAuthMiddleware(tt.keys)(ok).ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d", rr.Code, tt.want)
			}
			if tt.want != http.StatusUnauthorized {
				return
			}
			if rr.Header().Get("WWW-Authenticate") == "" {
				t.Error("401 without WWW-Authenticate")
			}
			var resp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != CodeUnauthorized || resp.Message != tt.message {
				t.Errorf("error = %+v, want %s %q", resp, CodeUnauthorized, tt.message)
			}
		})
	}
}
