package db

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned when a hash, JSON document or string key is absent.
	ErrKeyNotFound = errors.New("db: key not found")
	// ErrIndexNotFound is returned by FT.INFO, FT.SEARCH and FT.DROPINDEX on an unknown index.
	ErrIndexNotFound = errors.New("db: index not found")
	// ErrIndexExists is returned by FT.CREATE when the name is taken.
	ErrIndexExists = errors.New("db: index already exists")
	// ErrModuleMissing means the server lacks RediSearch or RedisJSON.
	ErrModuleMissing = errors.New("db: required module not loaded")
)

// Command names recorded on Error.Op.
const (
	OpCreateIndex = "FT.CREATE"
	OpDropIndex   = "FT.DROPINDEX"
	OpIndexInfo   = "FT.INFO"
	OpSynUpdate   = "FT.SYNUPDATE"
	OpSearch      = "FT.SEARCH"
	OpJSONSet     = "JSON.SET"
	OpJSONMerge   = "JSON.MERGE"
	OpModuleList  = "MODULE LIST"
	OpHReplace    = "MULTI HSET"
	OpHGetAll     = "HGETALL"
	OpDel         = "DEL"
	OpGet         = "GET"
	OpSet         = "SET"
	OpEval        = "EVAL"
)

// Error tags a backend failure with the command that produced it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// FailedOp reports the command name carried by err, or "" when err did not
// come from the store.
func FailedOp(err error) string {
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr.Op
	}
	return ""
}
