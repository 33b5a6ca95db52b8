package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/furnimatch/internal/db"
	"github.com/kailas-cloud/furnimatch/internal/domain"
	dombatch "github.com/kailas-cloud/furnimatch/internal/domain/batch"
	"github.com/kailas-cloud/furnimatch/internal/domain/catalog"
	"github.com/kailas-cloud/furnimatch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/furnimatch/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/furnimatch/internal/usecase/recommend"
)

// maxSeedBytes bounds the body of POST /index/seed.
const maxSeedBytes = 16 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the furnimatch HTTP API.
type Server struct {
	recommend     Recommender
	provision     Provisioner
	ingest        Ingester
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	recommend Recommender,
	provision Provisioner,
	ingest Ingester,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		recommend: recommend,
		provision: provision,
		ingest:    ingest,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeIndexNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, CodeAlreadyExists),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, CodeVectorDimMismatch),
		sentinelHandler(domain.ErrInvalidSchema, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrUnknownSemanticConfig, http.StatusBadRequest, CodeUnknownSemanticConfig),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProvider),
		sentinelHandler(domain.ErrGenerationFailed, http.StatusBadGateway, CodeGenerationFailed),
		sentinelHandler(domain.ErrGenerationParse, http.StatusBadGateway, CodeGenerationFailed),
		sentinelHandler(domain.ErrLocked, http.StatusConflict, CodeLocked),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/recommendations", s.Recommend)
	r.Post("/index", s.ProvisionIndex)
	r.Get("/index", s.DescribeIndex)
	r.Post("/index/seed", s.SeedIndex)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Recommend handles POST /recommendations.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resp, err := s.recommend.Recommend(r.Context(), recommenduc.Request{
		Description:        req.Description,
		ConciseDescription: req.ConciseDescription,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	recs := resp.Results
	if recs == nil {
		recs = []result.Ranked{}
	}
	writeJSON(w, http.StatusOK, RecommendResponse{
		SemanticQuery:   resp.Trace,
		Recommendations: recs,
	})
}

// ProvisionIndex handles POST /index. The existing index and its documents are dropped.
func (s *Server) ProvisionIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.provision.Provision(r.Context()); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, IndexResponse{Index: s.provision.Definition().Name})
}

// DescribeIndex handles GET /index.
func (s *Server) DescribeIndex(w http.ResponseWriter, r *http.Request) {
	def, err := s.provision.Describe(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// SeedIndex handles POST /index/seed. An empty array or body loads the seed file.
func (s *Server) SeedIndex(w http.ResponseWriter, r *http.Request) {
	var items []catalog.Item
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSeedBytes)).Decode(&items)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	results, err := s.ingest.Ingest(r.Context(), items)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	out := make([]SeedItem, len(results))
	for i, res := range results {
		out[i] = seedItem(res)
	}
	writeJSON(w, http.StatusOK, SeedResponse{
		Succeeded: dombatch.Succeeded(results),
		Total:     len(results),
		Items:     out,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrVectorDimMismatch,
		domain.ErrInvalidSchema,
		domain.ErrInvalidInput,
		domain.ErrUnknownSemanticConfig,
		domain.ErrRateLimited,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationFailed,
		domain.ErrGenerationParse,
		domain.ErrLocked,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	fields := []zap.Field{zap.Error(err)}
	if op := db.FailedOp(err); op != "" {
		fields = append(fields, zap.String("db_op", op))
	}
	s.logger.Error("internal error", fields...)
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func seedItem(r dombatch.Result) SeedItem {
	item := SeedItem{ID: r.ID(), OK: r.OK()}
	if r.Err() != nil {
		item.Error = &ErrorResponse{
			Code:    itemErrorCode(r.Err()),
			Message: safeDomainMessage(r.Err()),
		}
	}
	return item
}

func itemErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidSchema):
		return CodeValidationFailed
	case errors.Is(err, domain.ErrVectorDimMismatch):
		return CodeVectorDimMismatch
	case errors.Is(err, domain.ErrNotFound):
		return CodeIndexNotFound
	default:
		return CodeInternalError
	}
}
