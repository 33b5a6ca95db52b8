package chi

import (
	"github.com/kailas-cloud/furnimatch/internal/domain/search/result"
)

// ErrorCode is the machine-readable error code of an API error.
type ErrorCode string

// Error codes returned by the API.
const (
	CodeBadRequest            ErrorCode = "bad_request"
	CodeUnauthorized          ErrorCode = "unauthorized"
	CodeValidationFailed      ErrorCode = "validation_failed"
	CodeIndexNotFound         ErrorCode = "index_not_found"
	CodeAlreadyExists         ErrorCode = "already_exists"
	CodeVectorDimMismatch     ErrorCode = "vector_dim_mismatch"
	CodeUnknownSemanticConfig ErrorCode = "unknown_semantic_config"
	CodeRateLimited           ErrorCode = "rate_limited"
	CodeEmbeddingProvider     ErrorCode = "embedding_provider_error"
	CodeGenerationFailed      ErrorCode = "generation_failed"
	CodeLocked                ErrorCode = "locked"
	CodeInternalError         ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// RecommendRequest is the body of POST /recommendations.
type RecommendRequest struct {
	Description        string `json:"description"`
	ConciseDescription string `json:"conciseDescription"`
}

// RecommendResponse is the body returned by POST /recommendations.
type RecommendResponse struct {
	SemanticQuery   string          `json:"semanticQuery"`
	Recommendations []result.Ranked `json:"recommendations"`
}

// IndexResponse is returned after provisioning.
type IndexResponse struct {
	Index string `json:"index"`
}

// SeedItem is the per-document outcome of POST /index/seed.
type SeedItem struct {
	ID    string         `json:"id"`
	OK    bool           `json:"ok"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// SeedResponse is the body returned by POST /index/seed.
type SeedResponse struct {
	Succeeded int        `json:"succeeded"`
	Total     int        `json:"total"`
	Items     []SeedItem `json:"items"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
