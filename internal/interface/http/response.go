package http

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/campus-hub/grading-system/internal/domain/shared"
	"github.com/campus-hub/grading-system/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE ENVELOPE
// ══════════════════════════════════════════════════════════════════════════════

// Response is the JSON envelope shared by every endpoint. It carries no
// timestamps or request ids, so equal data always encodes to equal bytes.
type Response struct {
	Success    bool             `json:"success"`
	Count      *int             `json:"count,omitempty"`
	Data       any              `json:"data,omitempty"`
	Warnings   []shared.Warning `json:"warnings,omitempty"`
	Enrichment string           `json:"enrichment,omitempty"`
	Error      *APIError        `json:"error,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error codes.
const (
	codeValidation  = "VALIDATION_ERROR"
	codeNotFound    = "NOT_FOUND"
	codeConflict    = "CONFLICT"
	codeUnavailable = "UPSTREAM_UNAVAILABLE"
	codeInternal    = "INTERNAL_ERROR"
)

// ok builds a success envelope.
func ok(data any) Response {
	return Response{Success: true, Data: data}
}

// list builds a success envelope with a count.
func list(data any, n int) Response {
	return Response{Success: true, Count: &n, Data: data}
}

func encode(resp Response) ([]byte, error) {
	body, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append(body, '\n'), nil
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, resp Response) {
	body, err := encode(resp)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, codeInternal, "failed to encode response", nil)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeCacheable writes a 200 response with an ETag derived from the body
// and answers 304 when the client already holds that representation.
func writeCacheable(w http.ResponseWriter, r *http.Request, resp Response) {
	body, err := encode(resp)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, codeInternal, "failed to encode response", nil)
		return
	}

	etag := ETag(body)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// ETag returns the strong entity tag of body: the hex BLAKE2b-256 digest
// in quotes.
func ETag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

// writeJSONError writes an error JSON response.
func writeJSONError(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	writeJSON(w, status, Response{
		Success: false,
		Error:   &APIError{Code: code, Message: message, Details: details},
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeError maps a domain error to its status code. Unexpected errors are
// logged and reported without internals.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)

	var details map[string]any
	message := messageOf(err)

	switch status {
	case http.StatusServiceUnavailable:
		upstream := shared.UpstreamOf(err)
		details = map[string]any{"upstream": upstream}
		message = upstream + " is unavailable"
		logger.FromContext(r.Context()).Warn("upstream unavailable",
			logger.Upstream(upstream), logger.String("path", r.URL.Path), logger.Err(err))
	case http.StatusInternalServerError:
		message = "An unexpected error occurred"
		logger.FromContext(r.Context()).Error("request failed",
			logger.String("path", r.URL.Path), logger.Err(err))
	}

	writeJSONError(w, status, code, message, details)
}

// statusFor checks unavailability first: an upstream's own 404 or 400 is
// wrapped as ErrUpstreamUnavailable but still carries its kind in the chain.
func statusFor(err error) (int, string) {
	switch {
	case shared.IsUpstreamUnavailable(err):
		return http.StatusServiceUnavailable, codeUnavailable
	case shared.IsValidation(err):
		return http.StatusBadRequest, codeValidation
	case shared.IsNotFound(err):
		return http.StatusNotFound, codeNotFound
	case shared.IsAlreadyExists(err):
		return http.StatusConflict, codeConflict
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// messageOf returns the outermost domain message, falling back to the
// error text.
func messageOf(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return err.Error()
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST PARSING
// ══════════════════════════════════════════════════════════════════════════════

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, shared.WrapError("http", "ParseID", shared.ErrInvalidID,
			fmt.Sprintf("%s must be a positive integer", name), err)
	}
	return id, nil
}

// queryID parses an optional positive integer query parameter. Absent is 0.
func queryID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, shared.WrapError("http", "ParseQuery", shared.ErrInvalidID,
			fmt.Sprintf("%s must be a positive integer", name), err)
	}
	return id, nil
}

// queryLimit parses an optional limit. Absent is 0 (server default); an
// explicit value must be a positive integer.
func queryLimit(r *http.Request) (int, error) {
	raw, present := r.URL.Query()["limit"]
	if !present {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw[0]))
	if err != nil || n <= 0 {
		return 0, shared.WrapError("http", "ParseQuery", shared.ErrInvalidLimit,
			"limit must be a positive integer", err)
	}
	return n, nil
}

// getQueryParam extracts a trimmed query parameter.
func getQueryParam(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// getQueryParamBool extracts a boolean query parameter with a default value.
func getQueryParamBool(r *http.Request, key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key))) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

// decodeBody decodes a JSON request body. Malformed input is a validation error.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return shared.Validation("http", "DecodeBody", "request body is required")
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return shared.Validation("http", "DecodeBody", "request body too large")
		}
		return shared.WrapError("http", "DecodeBody", shared.ErrInvalidInput, "invalid JSON body", err)
	}
	return nil
}
