package journal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestWebhookSinkPostsEntry(t *testing.T) {
	var (
		got         Entry
		header      string
		contentType string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	entry := Entry{
		ID:         uuid.New(),
		SessionID:  "session-1",
		Kind:       KindRepetition,
		Phase:      "release",
		Repetition: 2,
		OccurredAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	sink := NewWebhookSink(srv.URL+"/", "secret", time.Second)
	require.NoError(t, sink.Write(context.Background(), entry))

	require.Equal(t, "Bearer secret", header)
	require.Equal(t, "application/json", contentType)
	require.Equal(t, entry, got)
}

func TestWebhookSinkReportsFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookSink(srv.URL, "", time.Second).Write(context.Background(), Entry{})
	var webhookErr *WebhookError
	require.True(t, errors.As(err, &webhookErr))
	require.Equal(t, http.StatusBadGateway, webhookErr.Status)
}
