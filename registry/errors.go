package registry

import "errors"

// Sentinel errors for consistent error handling.
var (
	ErrNotStarted       = errors.New("registry not started")
	ErrAlreadyStarted   = errors.New("registry already started")
	ErrToolNotFound     = errors.New("tool not found")
	ErrToolExists       = errors.New("tool already registered")
	ErrInvalidArguments = errors.New("invalid tool arguments")
	ErrBackendNotFound  = errors.New("backend not found")
	ErrBackendExists    = errors.New("backend already registered")
	ErrExecutionFailed  = errors.New("tool execution failed")
)

// JSON-RPC 2.0 error codes returned by HandleRequest.
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
	ErrCodeToolNotFound   = -32001
	ErrCodeToolExecFailed = -32002
)
