package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidSchema signals an invalid index or document definition.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrInvalidInput signals a malformed request payload.
	ErrInvalidInput = errors.New("invalid input")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")

	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationFailed signals a generative service failure.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrGenerationParse signals generated JSON in neither recognized envelope.
	ErrGenerationParse = errors.New("generated catalog is neither a list nor a wrapped list")
	// ErrUnknownSemanticConfig signals a query naming a semantic configuration the index does not declare.
	ErrUnknownSemanticConfig = errors.New("unknown semantic configuration")
	// ErrLocked signals that another backfill run holds the run lock.
	ErrLocked = errors.New("run lock held")
)

// ProviderError carries the upstream HTTP status of an external AI service failure.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
