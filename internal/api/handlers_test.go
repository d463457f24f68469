package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/balancetrainer/internal/auth"
	"example.com/balancetrainer/internal/domain"
	"example.com/balancetrainer/internal/journal"
	"example.com/balancetrainer/internal/presentation"
	"example.com/balancetrainer/internal/session"
)

type fakeSession struct {
	mu       sync.Mutex
	events   []session.Event
	snapshot session.Snapshot
	configs  []domain.ExerciseConfig
}

func (f *fakeSession) Push(ev session.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeSession) Snapshot() session.Snapshot       { return f.snapshot }
func (f *fakeSession) Configs() []domain.ExerciseConfig { return f.configs }

func withScopes(req *http.Request, values ...string) *http.Request {
	claims := &auth.Claims{
		Subject:   "therapist",
		Scopes:    scopesWith(values...),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return req.WithContext(auth.WithClaims(req.Context(), claims))
}

func serve(t *testing.T, h *Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestStatusReturnsSnapshotAndView(t *testing.T) {
	fake := &fakeSession{snapshot: session.Snapshot{SessionID: "abc", Phase: "hold", Repetition: 2}}
	board := presentation.NewBoard()
	board.SetActiveFoot("left")
	board.InstructionSink().SetText("Hold")
	handler := NewHandler(fake, board)

	req := withScopes(httptest.NewRequest(http.MethodGet, "/v1/session", nil), auth.ScopeSessionRead)
	rr := serve(t, handler, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var body StatusResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Equal(t, "abc", body.Session.SessionID)
	require.Equal(t, "hold", body.Session.Phase)
	require.NotNil(t, body.View)
	require.Equal(t, "left", body.View.ActiveFoot)
	require.True(t, body.View.Left.Active)
	require.Equal(t, "Hold", body.View.Instruction)
}

func TestStatusRequiresAuth(t *testing.T) {
	handler := NewHandler(&fakeSession{}, nil)

	rr := serve(t, handler, httptest.NewRequest(http.MethodGet, "/v1/session", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	req := withScopes(httptest.NewRequest(http.MethodGet, "/v1/session", nil), "other:scope")
	rr = serve(t, handler, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestControlScopeImpliesRead(t *testing.T) {
	handler := NewHandler(&fakeSession{configs: domain.DefaultExercises()}, nil)

	req := withScopes(httptest.NewRequest(http.MethodGet, "/v1/configs", nil), auth.ScopeSessionControl)
	rr := serve(t, handler, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Items []domain.ExerciseConfig `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Len(t, body.Items, 2)
}

func TestSubmitConfigQueuesEvent(t *testing.T) {
	fake := &fakeSession{}
	handler := NewHandler(fake, nil)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	handler.now = func() time.Time { return fixed }

	buf, err := json.Marshal(domain.DefaultExercises()[0])
	require.NoError(t, err)

	req := withScopes(httptest.NewRequest(http.MethodPost, "/v1/configs", bytes.NewReader(buf)), auth.ScopeSessionControl)
	rr := serve(t, handler, req)
	require.Equal(t, http.StatusAccepted, rr.Code)

	require.Len(t, fake.events, 1)
	arrived, ok := fake.events[0].(session.ConfigArrived)
	require.True(t, ok)
	require.Equal(t, 1, arrived.Config.ID)
	require.Equal(t, "right", arrived.Config.LegsUsed)
	require.Equal(t, fixed, arrived.ReceivedAt)
}

func TestSubmitConfigRejectsMalformedBody(t *testing.T) {
	fake := &fakeSession{}
	handler := NewHandler(fake, nil)

	req := withScopes(httptest.NewRequest(http.MethodPost, "/v1/configs", bytes.NewBufferString(`{"id":`)), auth.ScopeSessionControl)
	rr := serve(t, handler, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Empty(t, fake.events)
}

func TestSubmitConfigAcceptsZeroIDAndNegativeTimers(t *testing.T) {
	fake := &fakeSession{}
	handler := NewHandler(fake, nil)

	for _, body := range []string{`{"id":0,"legs_used":"left"}`, `{"id":3,"release":-1}`} {
		req := withScopes(httptest.NewRequest(http.MethodPost, "/v1/configs", bytes.NewBufferString(body)), auth.ScopeSessionControl)
		rr := serve(t, handler, req)
		require.Equal(t, http.StatusAccepted, rr.Code, body)
	}
	require.Len(t, fake.events, 2)
	require.Equal(t, 0, fake.events[0].(session.ConfigArrived).Config.ID)
	require.Equal(t, -1, fake.events[1].(session.ConfigArrived).Config.Release)
}

func TestSubmitConfigRequiresControlScope(t *testing.T) {
	fake := &fakeSession{}
	handler := NewHandler(fake, nil)

	req := withScopes(httptest.NewRequest(http.MethodPost, "/v1/configs", bytes.NewBufferString(`{"id":1}`)), auth.ScopeSessionRead)
	rr := serve(t, handler, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Empty(t, fake.events)
}

func TestControlEndpointsQueueEvents(t *testing.T) {
	fake := &fakeSession{}
	handler := NewHandler(fake, nil)

	for _, path := range []string{"/v1/session/restart", "/v1/session/preparation"} {
		req := withScopes(httptest.NewRequest(http.MethodPost, path, nil), auth.ScopeSessionControl)
		rr := serve(t, handler, req)
		require.Equal(t, http.StatusAccepted, rr.Code, path)
	}

	req := withScopes(httptest.NewRequest(http.MethodPost, "/v1/session/feedback",
		bytes.NewBufferString(`{"zone":7,"foot":"Left"}`)), auth.ScopeSessionControl)
	rr := serve(t, handler, req)
	require.Equal(t, http.StatusAccepted, rr.Code)

	require.Equal(t, []session.Event{
		session.RestartRequested{},
		session.PreparationConfirmed{},
		session.ZoneReported{Zone: domain.ZoneBalanceLost, Foot: domain.FootLeft},
	}, fake.events)
}

func TestControlEndpointsRejectGet(t *testing.T) {
	handler := NewHandler(&fakeSession{}, nil)

	req := withScopes(httptest.NewRequest(http.MethodGet, "/v1/session/restart", nil), auth.ScopeSessionControl)
	rr := serve(t, handler, req)
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestFeedbackRequiresFoot(t *testing.T) {
	fake := &fakeSession{}
	handler := NewHandler(fake, nil)

	req := withScopes(httptest.NewRequest(http.MethodPost, "/v1/session/feedback",
		bytes.NewBufferString(`{"zone":2}`)), auth.ScopeSessionControl)
	rr := serve(t, handler, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Empty(t, fake.events)
}

func TestHealthz(t *testing.T) {
	rr := serve(t, NewHandler(&fakeSession{}, nil), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", rr.Body.String())
}

func scopesWith(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

func TestJournalEndpoint(t *testing.T) {
	req := withScopes(httptest.NewRequest(http.MethodGet, "/v1/session/journal", nil), auth.ScopeSessionRead)
	rr := serve(t, NewHandler(&fakeSession{}, nil), req)
	require.Equal(t, http.StatusNotFound, rr.Code)

	sink := journal.NewMemorySink()
	require.NoError(t, sink.Write(context.Background(), journal.Entry{SessionID: "abc", Kind: journal.KindRestart, Phase: "hold"}))

	req = withScopes(httptest.NewRequest(http.MethodGet, "/v1/session/journal", nil), auth.ScopeSessionRead)
	rr = serve(t, NewHandler(&fakeSession{}, nil, WithJournal(sink)), req)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Items []journal.Entry `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Len(t, body.Items, 1)
	require.Equal(t, journal.KindRestart, body.Items[0].Kind)
}
