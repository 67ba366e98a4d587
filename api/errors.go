package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Category is a stable classification of a failed API operation. Presentation
// code branches on the category; the Message is what the user sees.
type Category string

const (
	InvalidRequest     Category = "invalid_request"
	Unauthorized       Category = "unauthorized"
	Forbidden          Category = "forbidden"
	NotFound           Category = "not_found"
	UnsupportedMedia   Category = "unsupported_media"
	RateLimited        Category = "rate_limited"
	ServerError        Category = "server_error"
	Unavailable        Category = "unavailable"
	Timeout            Category = "timeout"
	NetworkUnreachable Category = "network_unreachable"
	Unknown            Category = "unknown"
)

// maxErrorBody bounds how much of a non-JSON error body is surfaced to the
// user.
const maxErrorBody = 300

// Error is the uniform shape every failed operation reduces to.
type Error struct {
	Category  Category
	Message   string
	Status    int    // HTTP status, 0 for transport-level failures
	RequestID string // client-generated, stamped on the outbound request
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Category, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// IsCategory reports whether err carries the given category.
func IsCategory(err error, c Category) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Category == c
}

// errorBody matches the two message field spellings the backend uses.
type errorBody struct {
	Message string `json:"message"`
	Err     string `json:"error"`
}

// Classify turns a non-2xx HTTP response into an *Error. The message comes
// from the JSON "message"/"error" field when the body has one, otherwise from
// the raw body truncated to maxErrorBody bytes, otherwise from fallback.
func Classify(res *http.Response, fallback string) *Error {
	msg := fallback
	body, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Message != "":
			msg = parsed.Message
		case parsed.Err != "":
			msg = parsed.Err
		}
	} else if text := strings.TrimSpace(string(body)); text != "" {
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		msg = text
	}

	return &Error{
		Category: classifyStatus(res.StatusCode),
		Message:  msg,
		Status:   res.StatusCode,
	}
}

func classifyStatus(status int) Category {
	switch status {
	case http.StatusBadRequest:
		return InvalidRequest
	case http.StatusUnauthorized:
		return Unauthorized
	case http.StatusForbidden:
		return Forbidden
	case http.StatusNotFound:
		return NotFound
	case http.StatusUnsupportedMediaType:
		return UnsupportedMedia
	case http.StatusTooManyRequests:
		return RateLimited
	case http.StatusInternalServerError:
		return ServerError
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return Unavailable
	default:
		return Unknown
	}
}

// classifyTransport turns a failure that produced no HTTP response into an
// *Error: an elapsed deadline or a caller abort is a Timeout, anything else
// (DNS, connection refused) is NetworkUnreachable.
func classifyTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Category: Timeout, Message: "the server took too long to respond; try again"}
	}
	if errors.Is(err, context.Canceled) {
		return &Error{Category: Timeout, Message: "the request was cancelled before it completed"}
	}
	return &Error{
		Category: NetworkUnreachable,
		Message:  "could not reach the server; check your connection and the configured base URL",
	}
}
