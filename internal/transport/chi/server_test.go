package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kailas-cloud/furnimatch/internal/domain"
	"github.com/kailas-cloud/furnimatch/internal/domain/batch"
	"github.com/kailas-cloud/furnimatch/internal/domain/catalog"
	domidx "github.com/kailas-cloud/furnimatch/internal/domain/index"
	"github.com/kailas-cloud/furnimatch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/furnimatch/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/furnimatch/internal/usecase/recommend"
)

type fakeRecommender struct {
	recommendFn func(ctx context.Context, req recommenduc.Request) (recommenduc.Response, error)
}

func (f *fakeRecommender) Recommend(ctx context.Context, req recommenduc.Request) (recommenduc.Response, error) {
	return f.recommendFn(ctx, req)
}

type fakeProvisioner struct {
	provisionFn func(ctx context.Context) error
	describeFn  func(ctx context.Context) (domidx.Definition, error)
	def         domidx.Definition
}

func (f *fakeProvisioner) Provision(ctx context.Context) error { return f.provisionFn(ctx) }

func (f *fakeProvisioner) Describe(ctx context.Context) (domidx.Definition, error) {
	return f.describeFn(ctx)
}

func (f *fakeProvisioner) Definition() domidx.Definition { return f.def }

type fakeIngester struct {
	ingestFn func(ctx context.Context, items []catalog.Item) ([]batch.Result, error)
}

func (f *fakeIngester) Ingest(ctx context.Context, items []catalog.Item) ([]batch.Result, error) {
	return f.ingestFn(ctx, items)
}

type fakeHealth struct {
	report healthuc.Report
}

func (f *fakeHealth) Check(context.Context) healthuc.Report { return f.report }

type testDeps struct {
	rec  *fakeRecommender
	prov *fakeProvisioner
	ing  *fakeIngester
	hc   *fakeHealth
}

func newTestDeps() *testDeps {
	return &testDeps{
		rec: &fakeRecommender{recommendFn: func(context.Context, recommenduc.Request) (recommenduc.Response, error) {
			return recommenduc.Response{}, nil
		}},
		prov: &fakeProvisioner{
			provisionFn: func(context.Context) error { return nil },
			describeFn: func(context.Context) (domidx.Definition, error) {
				return domidx.Definition{}, domain.ErrNotFound
			},
			def: domidx.Definition{Name: "furniture-products"},
		},
		ing: &fakeIngester{ingestFn: func(context.Context, []catalog.Item) ([]batch.Result, error) {
			return nil, nil
		}},
		hc: &fakeHealth{report: healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{
			"database": healthuc.CheckOK,
		}}},
	}
}

func (d *testDeps) handler() http.Handler {
	s := NewServer(d.rec, d.prov, d.ing, d.hc, nil)
	return NewRouter(s, RouterOptions{}, nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

func TestRecommend_OK(t *testing.T) {
	deps := newTestDeps()
	rerank := 3.5
	var got recommenduc.Request
	deps.rec.recommendFn = func(_ context.Context, req recommenduc.Request) (recommenduc.Response, error) {
		got = req
		return recommenduc.Response{
			Trace: "Filter: search.in(topCategory, 'ADULT', '|'): Query: blue sofa",
			Results: []result.Ranked{{
				RerankerScore: rerank,
				Score:         0.03,
				Product:       result.Product{ID: "p1", Name: "Blue Sofa"},
			}},
		}, nil
	}

	rr := do(t, deps.handler(), "POST", "/recommendations",
		`{"description":"a blue sofa","conciseDescription":"Color: blue"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if got.Description != "a blue sofa" || got.ConciseDescription != "Color: blue" {
		t.Errorf("request not forwarded: %+v", got)
	}

	var resp struct {
		SemanticQuery   string `json:"semanticQuery"`
		Recommendations []struct {
			RerankerScore float64 `json:"rerankerScore"`
			Score         float64 `json:"score"`
			Product       struct {
				ID string `json:"id"`
			} `json:"product"`
		} `json:"recommendations"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(resp.SemanticQuery, "Filter: ") {
		t.Errorf("semanticQuery = %q", resp.SemanticQuery)
	}
	if len(resp.Recommendations) != 1 || resp.Recommendations[0].Product.ID != "p1" ||
		resp.Recommendations[0].RerankerScore != 3.5 {
		t.Errorf("recommendations = %+v", resp.Recommendations)
	}
}

func TestRecommend_EmptyResultsEncodeAsArray(t *testing.T) {
	deps := newTestDeps()
	rr := do(t, deps.handler(), "POST", "/recommendations", `{"description":"x"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"recommendations":[]`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestRecommend_InvalidBody(t *testing.T) {
	deps := newTestDeps()
	rr := do(t, deps.handler(), "POST", "/recommendations", `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeBadRequest {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestRecommend_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   ErrorCode
	}{
		{"index missing", fmt.Errorf("search: %w", domain.ErrNotFound), http.StatusNotFound, CodeIndexNotFound},
		{"rate limited", &domain.ProviderError{Provider: "openai", StatusCode: 429, Err: domain.ErrRateLimited},
			http.StatusTooManyRequests, CodeRateLimited},
		{"provider failure", fmt.Errorf("embed query: %w", domain.ErrEmbeddingProviderError),
			http.StatusBadGateway, CodeEmbeddingProvider},
		{"unknown semantic config", domain.ErrUnknownSemanticConfig,
			http.StatusBadRequest, CodeUnknownSemanticConfig},
		{"internal", errors.New("connection reset by peer"), http.StatusInternalServerError, CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps()
			deps.rec.recommendFn = func(context.Context, recommenduc.Request) (recommenduc.Response, error) {
				return recommenduc.Response{}, tt.err
			}
			rr := do(t, deps.handler(), "POST", "/recommendations", `{"description":"x"}`)
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			resp := decodeError(t, rr)
			if resp.Code != tt.code {
				t.Errorf("code = %s, want %s", resp.Code, tt.code)
			}
			if strings.Contains(resp.Message, "peer") {
				t.Errorf("internal detail leaked: %q", resp.Message)
			}
		})
	}
}

func TestProvisionIndex(t *testing.T) {
	deps := newTestDeps()
	calls := 0
	deps.prov.provisionFn = func(context.Context) error {
		calls++
		return nil
	}

	rr := do(t, deps.handler(), "POST", "/index", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp IndexResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Index != "furniture-products" || calls != 1 {
		t.Errorf("resp = %+v, calls = %d", resp, calls)
	}
}

func TestProvisionIndex_InvalidSchema(t *testing.T) {
	deps := newTestDeps()
	deps.prov.provisionFn = func(context.Context) error {
		return fmt.Errorf("validate: %w", domain.ErrInvalidSchema)
	}
	rr := do(t, deps.handler(), "POST", "/index", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestDescribeIndex(t *testing.T) {
	deps := newTestDeps()
	rr := do(t, deps.handler(), "GET", "/index", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing index: status = %d", rr.Code)
	}

	deps.prov.describeFn = func(context.Context) (domidx.Definition, error) {
		return domidx.Definition{Name: "furniture-products", KeyPrefix: "furnimatch:product:"}, nil
	}
	rr = do(t, deps.handler(), "GET", "/index", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var def domidx.Definition
	if err := json.NewDecoder(rr.Body).Decode(&def); err != nil {
		t.Fatal(err)
	}
	if def.Name != "furniture-products" {
		t.Errorf("name = %q", def.Name)
	}
}

func TestSeedIndex(t *testing.T) {
	deps := newTestDeps()
	var got []catalog.Item
	deps.ing.ingestFn = func(_ context.Context, items []catalog.Item) ([]batch.Result, error) {
		got = items
		return []batch.Result{
			batch.NewOK("a"),
			batch.NewError("b", fmt.Errorf("merge: %w", domain.ErrInvalidInput)),
			batch.NewError("c", errors.New("OOM command not allowed")),
		}, nil
	}

	rr := do(t, deps.handler(), "POST", "/index/seed",
		`[{"id":"a","name":"Sofa"},{"id":"b"},{"id":"c"}]`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if len(got) != 3 || got[0].Name != "Sofa" {
		t.Errorf("items not forwarded: %+v", got)
	}

	var resp SeedResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Succeeded != 1 || resp.Total != 3 || len(resp.Items) != 3 {
		t.Fatalf("resp = %+v", resp)
	}
	if !resp.Items[0].OK || resp.Items[0].Error != nil {
		t.Errorf("item a = %+v", resp.Items[0])
	}
	if resp.Items[1].Error == nil || resp.Items[1].Error.Code != CodeValidationFailed {
		t.Errorf("item b = %+v", resp.Items[1])
	}
	if resp.Items[2].Error == nil || resp.Items[2].Error.Message != "internal error" {
		t.Errorf("item c = %+v", resp.Items[2])
	}
}

func TestSeedIndex_EmptyBodyFallsBackToIngest(t *testing.T) {
	for _, body := range []string{"", "[]"} {
		deps := newTestDeps()
		called := false
		deps.ing.ingestFn = func(_ context.Context, items []catalog.Item) ([]batch.Result, error) {
			called = true
			if len(items) != 0 {
				t.Errorf("body %q: expected no items, got %d", body, len(items))
			}
			return nil, nil
		}
		rr := do(t, deps.handler(), "POST", "/index/seed", body)
		if rr.Code != http.StatusOK {
			t.Fatalf("body %q: status = %d", body, rr.Code)
		}
		if !called {
			t.Errorf("body %q: ingest not called", body)
		}
		if !strings.Contains(rr.Body.String(), `"items":[]`) {
			t.Errorf("body %q: response = %s", body, rr.Body.String())
		}
	}
}

func TestSeedIndex_NotAnArray(t *testing.T) {
	deps := newTestDeps()
	rr := do(t, deps.handler(), "POST", "/index/seed", `{"id":"a"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		status healthuc.Status
		want   int
	}{
		{"healthy", healthuc.Healthy, http.StatusOK},
		{"degraded", healthuc.Degraded, http.StatusServiceUnavailable},
		{"unhealthy", healthuc.Unhealthy, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps()
			deps.hc.report = healthuc.Report{Status: tt.status, Checks: map[string]healthuc.CheckResult{
				"database": healthuc.CheckOK,
				"index":    healthuc.CheckMissing,
			}}
			rr := do(t, deps.handler(), "GET", "/health", "")
			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d", rr.Code, tt.want)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Status != string(tt.status) || resp.Checks["index"] != "missing" {
				t.Errorf("resp = %+v", resp)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	deps := newTestDeps()
	rr := do(t, deps.handler(), "GET", "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Error("expected default Go collector output")
	}
}
