package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	recommenduc "github.com/kailas-cloud/furnimatch/internal/usecase/recommend"
)

func TestRouter_RecoversPanicsAsJSON(t *testing.T) {
	deps := newTestDeps()
	deps.rec.recommendFn = func(context.Context, recommenduc.Request) (recommenduc.Response, error) {
		panic("boom")
	}

	rr := do(t, deps.handler(), "POST", "/recommendations", `{}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if resp := decodeError(t, rr); resp.Code != CodeInternalError {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestRouter_SetsRequestID(t *testing.T) {
	deps := newTestDeps()
	rr := do(t, deps.handler(), "GET", "/health", "")
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}
}

func TestRouter_NotFound(t *testing.T) {
	deps := newTestDeps()
	rr := do(t, deps.handler(), "GET", "/catalog", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestRouter_AuthAndCORS(t *testing.T) {
	deps := newTestDeps()
	s := NewServer(deps.rec, deps.prov, deps.ing, deps.hc, nil)
	h := NewRouter(s, RouterOptions{
		APIKeys:     []string{"secret"},
		CORSOrigins: []string{"https://shop.example.com"},
	}, nil)

	rr := do(t, h, "POST", "/recommendations", `{}`)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d", rr.Code)
	}

	rr = do(t, h, "GET", "/health", "")
	if rr.Code != http.StatusOK {
		t.Errorf("health must stay open: status = %d", rr.Code)
	}

	req := httptest.NewRequest("OPTIONS", "/recommendations", http.NoBody)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	pre := httptest.NewRecorder()
	h.ServeHTTP(pre, req)
	if got := pre.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Errorf("preflight allow-origin = %q", got)
	}
}

func TestRouter_PreflightAllowsAPIKeyHeader(t *testing.T) {
	deps := newTestDeps()
	s := NewServer(deps.rec, deps.prov, deps.ing, deps.hc, nil)
	h := NewRouter(s, RouterOptions{
		APIKeys:     []string{"secret"},
		CORSOrigins: []string{"https://shop.example.com"},
	}, nil)

	req := httptest.NewRequest("OPTIONS", "/recommendations", http.NoBody)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "X-API-Key, Content-Type")
	pre := httptest.NewRecorder()
	h.ServeHTTP(pre, req)
	if got := pre.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Errorf("preflight allow-origin = %q", got)
	}
	if got := pre.Header().Get("Access-Control-Allow-Headers"); got == "" {
		t.Error("preflight did not allow the requested headers")
	}
}
