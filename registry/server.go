package registry

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
)

// maxMessageSize bounds one JSON-RPC message or batch.
const maxMessageSize = 16 << 20

// ServeStdio runs the registry as an MCP server over stdio.
// Blocks until stdin is closed or context is cancelled.
func ServeStdio(ctx context.Context, r *Registry) error {
	return Serve(ctx, r, os.Stdin, os.Stdout)
}

// Serve reads line-delimited JSON-RPC messages from in and writes one reply
// per line to out. A line holds a single request or a batch array.
func Serve(ctx context.Context, r *Registry, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		reply, ok := r.dispatch(ctx, line)
		if !ok {
			continue
		}
		if err := encoder.Encode(reply); err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

// ServeHTTP returns an http.Handler for streamable HTTP transport.
// POST bodies hold a request or a batch. Notifications are answered with 202.
func ServeHTTP(r *Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := readBody(req)
		if err != nil {
			writeJSON(w, errorResponse(nil, ErrCodeParseError, err.Error()))
			return
		}

		reply, ok := r.dispatch(req.Context(), body)
		if !ok {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		writeJSON(w, reply)
	})
}

// ServeSSE returns an http.Handler for Server-Sent Events transport.
// Each POST is answered with one "message" event, or an "error" event when
// the body cannot be parsed.
func ServeSSE(r *Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "SSE not supported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		body, err := readBody(req)
		if err == nil && !json.Valid(body) {
			err = errors.New("invalid JSON")
		}
		if err != nil {
			writeSSEEvent(w, flusher, "error", errorResponse(nil, ErrCodeParseError, err.Error()))
			return
		}

		reply, ok := r.dispatch(req.Context(), body)
		if !ok {
			return
		}
		writeSSEEvent(w, flusher, "message", reply)
	})
}

// dispatch handles one raw message. The reply is an MCPResponse, or a slice
// of them for a batch. ok is false when nothing should be sent back, which
// is the case for notifications and batches made only of notifications.
func (r *Registry) dispatch(ctx context.Context, raw []byte) (reply any, ok bool) {
	if len(raw) > 0 && raw[0] == '[' {
		return r.dispatchBatch(ctx, raw)
	}

	var req MCPRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return errorResponse(nil, ErrCodeParseError, err.Error()), true
	}
	if req.IsNotification() {
		return nil, false
	}
	return r.HandleRequest(ctx, req), true
}

func (r *Registry) dispatchBatch(ctx context.Context, raw []byte) (any, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return errorResponse(nil, ErrCodeParseError, err.Error()), true
	}
	if len(items) == 0 {
		return errorResponse(nil, ErrCodeInvalidRequest, "empty batch"), true
	}

	responses := make([]MCPResponse, 0, len(items))
	for _, item := range items {
		var req MCPRequest
		if err := json.Unmarshal(item, &req); err != nil {
			responses = append(responses, errorResponse(nil, ErrCodeInvalidRequest, err.Error()))
			continue
		}
		if req.IsNotification() {
			continue
		}
		responses = append(responses, r.HandleRequest(ctx, req))
	}
	if len(responses) == 0 {
		return nil, false
	}
	return responses, true
}

func readBody(req *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(req.Body, maxMessageSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxMessageSize {
		return nil, fmt.Errorf("message exceeds %d bytes", maxMessageSize)
	}
	return bytes.TrimSpace(body), nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeSSEEvent(w http.ResponseWriter, f http.Flusher, event string, data any) {
	jsonData, _ := json.Marshal(data)
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return
	}
	f.Flush()
}
