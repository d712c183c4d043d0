package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(Config{
		URL:         url,
		Token:       "secret-token",
		Model:       "modifit-agent",
		Temperature: 0.7,
		MaxTokens:   5000,
		Timeout:     5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// TestCompleteSuccess verifies the request body, headers and the content of
// the first choice being returned.
func TestCompleteSuccess(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"1. Squat: 4x10"}},{"message":{"content":"ignored"}}]}`))
	}))
	defer srv.Close()

	content, err := newTestClient(srv.URL).Complete(context.Background(), "Quiero una rutina de piernas")
	require.NoError(t, err)
	assert.Equal(t, "1. Squat: 4x10", content)

	assert.Equal(t, "modifit-agent", got.Model)
	assert.Equal(t, 0.7, got.Temperature)
	assert.Equal(t, 5000, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, chatMessage{Role: "user", Content: "Quiero una rutina de piernas"}, got.Messages[0])
}

// TestCompleteFailures covers the structured failures reported to callers.
func TestCompleteFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"upstream error", http.StatusUnauthorized, "bad token", 401, "Error 401: bad token"},
		{"server error", http.StatusInternalServerError, `{"error":"down"}`, 500, `Error 500: {"error":"down"}`},
		{"no choices", http.StatusOK, `{"choices":[]}`, 200, "Respuesta inválida del modelo"},
		{"missing choices", http.StatusOK, `{}`, 200, "Respuesta inválida del modelo"},
		{"undecodable body", http.StatusOK, `not json`, 0, "Error al generar ejercicios: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Complete(context.Background(), "prompt de prueba")
			var aiErr *Error
			require.True(t, errors.As(err, &aiErr), "want *Error, got %T", err)
			assert.Equal(t, tt.wantStatus, aiErr.StatusCode)
			assert.True(t, strings.HasPrefix(aiErr.Message, tt.wantMsg), "message %q", aiErr.Message)
		})
	}
}

// TestCompleteTransportError verifies that an unreachable endpoint is a
// structured failure with no status code.
func TestCompleteTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).Complete(context.Background(), "prompt de prueba")
	var aiErr *Error
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, 0, aiErr.StatusCode)
	assert.Contains(t, aiErr.Message, "Error al generar ejercicios")
}

// TestCompleteContextCanceled verifies the call honors cancellation.
func TestCompleteContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv.URL).Complete(ctx, "prompt de prueba")
	var aiErr *Error
	require.ErrorAs(t, err, &aiErr)
	assert.Contains(t, aiErr.Message, "context canceled")
}
