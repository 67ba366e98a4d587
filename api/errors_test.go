package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(status int, contentType, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{contentType}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestClassifyStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   Category
	}{
		{400, InvalidRequest},
		{401, Unauthorized},
		{403, Forbidden},
		{404, NotFound},
		{415, UnsupportedMedia},
		{429, RateLimited},
		{500, ServerError},
		{502, Unavailable},
		{503, Unavailable},
		{504, Unavailable},
		{418, Unknown},
		{302, Unknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := Classify(response(tt.status, "application/json", "{}"), "fallback")
			assert.Equal(t, tt.want, err.Category)
			assert.Equal(t, tt.status, err.Status)
		})
	}
}

func TestClassifyMessageExtraction(t *testing.T) {
	t.Parallel()

	t.Run("json_message_field", func(t *testing.T) {
		err := Classify(response(400, "application/json", `{"message":"Invalid trade data"}`), "fallback")
		assert.Equal(t, "Invalid trade data", err.Message)
	})

	t.Run("json_error_field", func(t *testing.T) {
		err := Classify(response(400, "application/json", `{"error":"Market is closed today. Try the next trading day."}`), "fallback")
		assert.Equal(t, "Market is closed today. Try the next trading day.", err.Message)
	})

	t.Run("raw_text_body", func(t *testing.T) {
		err := Classify(response(500, "text/html", "<h1>Internal Server Error</h1>"), "fallback")
		assert.Equal(t, "<h1>Internal Server Error</h1>", err.Message)
	})

	t.Run("raw_text_truncated", func(t *testing.T) {
		long := strings.Repeat("x", 1000)
		err := Classify(response(500, "text/plain", long), "fallback")
		assert.Len(t, err.Message, maxErrorBody)
	})

	t.Run("empty_body_uses_fallback", func(t *testing.T) {
		err := Classify(response(503, "text/plain", ""), "service is down")
		assert.Equal(t, "service is down", err.Message)
	})

	t.Run("json_without_message_uses_fallback", func(t *testing.T) {
		err := Classify(response(400, "application/json", `{"code":12}`), "fallback")
		assert.Equal(t, "fallback", err.Message)
	})
}

func TestClassifyTransport(t *testing.T) {
	t.Parallel()

	t.Run("deadline_exceeded", func(t *testing.T) {
		err := classifyTransport(fmt.Errorf("Get \"x\": %w", context.DeadlineExceeded))
		assert.Equal(t, Timeout, err.Category)
		assert.Zero(t, err.Status)
	})

	t.Run("cancelled", func(t *testing.T) {
		err := classifyTransport(fmt.Errorf("Get \"x\": %w", context.Canceled))
		assert.Equal(t, Timeout, err.Category)
	})

	t.Run("connection_refused", func(t *testing.T) {
		err := classifyTransport(errors.New("dial tcp 127.0.0.1:1: connect: connection refused"))
		assert.Equal(t, NetworkUnreachable, err.Category)
		assert.Contains(t, err.Message, "connection")
	})
}

func TestIsCategory(t *testing.T) {
	t.Parallel()

	base := &Error{Category: Unauthorized, Message: "token expired", Status: 401}
	wrapped := fmt.Errorf("load portfolio: %w", base)

	assert.True(t, IsCategory(wrapped, Unauthorized))
	assert.False(t, IsCategory(wrapped, Forbidden))
	assert.False(t, IsCategory(errors.New("plain"), Unauthorized))
}

func TestErrorString(t *testing.T) {
	t.Parallel()

	withStatus := &Error{Category: NotFound, Message: "gone", Status: 404}
	assert.Equal(t, "not_found (HTTP 404): gone", withStatus.Error())

	noStatus := &Error{Category: Timeout, Message: "too slow"}
	assert.Equal(t, "timeout: too slow", noStatus.Error())

	var err error = withStatus
	var target *Error
	require.ErrorAs(t, err, &target)
}
