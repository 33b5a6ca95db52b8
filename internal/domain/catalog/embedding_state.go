package catalog

import (
	"bytes"
	"fmt"
)

// EmbeddingState tracks whether an item's vector has been computed and stored.
type EmbeddingState int

// Embedding states. Unset and Pending are both eligible for backfill.
const (
	EmbeddingUnset EmbeddingState = iota
	EmbeddingPending
	EmbeddingRetrieved
)

// Eligible reports whether the item still needs an embedding.
func (s EmbeddingState) Eligible() bool { return s != EmbeddingRetrieved }

func (s EmbeddingState) String() string {
	switch s {
	case EmbeddingPending:
		return "pending"
	case EmbeddingRetrieved:
		return "retrieved"
	default:
		return "unset"
	}
}

// MarshalJSON encodes Unset as null, Pending as false and Retrieved as true.
func (s EmbeddingState) MarshalJSON() ([]byte, error) {
	switch s {
	case EmbeddingPending:
		return []byte("false"), nil
	case EmbeddingRetrieved:
		return []byte("true"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *EmbeddingState) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "null":
		*s = EmbeddingUnset
	case "false":
		*s = EmbeddingPending
	case "true":
		*s = EmbeddingRetrieved
	default:
		return fmt.Errorf("vectorRetrieved: want true, false or null, got %s", data)
	}
	return nil
}
