package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flight-assistant/internal/backend"
	"flight-assistant/internal/chat"
	"flight-assistant/internal/config"
	"flight-assistant/internal/types"
)

type fakeBackend struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeBackend) Chat(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	switch {
	case strings.Contains(req.Message, "vuelos"):
		return types.FlightListResponse{Flights: []types.Flight{
			{Airline: "Avianca", Price: 300, Arrival: types.Endpoint{IATACode: "JFK"}},
			{Airline: "LATAM", Price: 250, Arrival: types.Endpoint{IATACode: "MIA"}},
		}}, nil
	case req.Message == "falla":
		return nil, backend.ErrTransport
	default:
		return types.ConversationalResponse{Reply: "eco: " + req.Message}, nil
	}
}

func newTestServer(t *testing.T) (*Server, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{}
	s, err := newServer(config.Config{
		AllowedOrigin: "*",
		Ordering:      config.OrderingSequenced,
		SessionTTL:    time.Hour,
	}, fb)
	require.NoError(t, err)
	return s, fb
}

func do(t *testing.T, s *Server, method, path, sid, body string) (*httptest.ResponseRecorder, types.ViewState) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sid != "" {
		req.Header.Set("X-Session-Id", sid)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var state types.ViewState
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	}
	return rec, state
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestChatRoundTrip(t *testing.T) {
	s, fb := newTestServer(t)

	rec, state := do(t, s, http.MethodPost, "/api/chat", "s1", `{"message":"vuelos destino: jfk"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", rec.Header().Get("X-Session-Id"))
	assert.Equal(t, 1, fb.calls)

	require.Len(t, state.Turns, 3)
	assert.Equal(t, chat.DefaultMessages().Greeting, state.Turns[0].Text)
	assert.Equal(t, types.Turn{Speaker: types.SpeakerUser, Text: "vuelos destino: jfk"}, state.Turns[1])
	assert.Equal(t, "Se encontraron 1 vuelos para el destino JFK.", state.Turns[2].Text)
	require.Len(t, state.Flights, 1)
	assert.Equal(t, "JFK", state.Flights[0].Arrival.IATACode)
	assert.False(t, state.Busy)

	_, state = do(t, s, http.MethodGet, "/api/state", "s1", "")
	assert.Len(t, state.Turns, 3)
	assert.Len(t, state.Flights, 1)
}

func TestChatWireFormat(t *testing.T) {
	s, _ := newTestServer(t)
	rec, _ := do(t, s, http.MethodPost, "/api/chat", "s1", `{"message":"hola"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Contains(t, raw, "messages")
	assert.Contains(t, raw, "flights")
	assert.Contains(t, raw, "loading")
	assert.Equal(t, []any{}, raw["flights"])
}

func TestChatSessionsAreIsolated(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/chat", "a", `{"message":"hola"}`)

	_, state := do(t, s, http.MethodGet, "/api/state", "b", "")
	assert.Len(t, state.Turns, 1)
}

func TestChatBlankMessage(t *testing.T) {
	s, fb := newTestServer(t)

	rec, _ := do(t, s, http.MethodPost, "/api/chat", "s1", `{"message":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, fb.calls)

	_, state := do(t, s, http.MethodGet, "/api/state", "s1", "")
	assert.Len(t, state.Turns, 1)
}

func TestChatInvalidJSON(t *testing.T) {
	s, fb := newTestServer(t)
	rec, _ := do(t, s, http.MethodPost, "/api/chat", "s1", `{"message":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, fb.calls)
}

func TestChatBackendFailureKeepsFlights(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/chat", "s1", `{"message":"vuelos"}`)

	rec, state := do(t, s, http.MethodPost, "/api/chat", "s1", `{"message":"falla"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, state.Flights, 2)
	assert.Equal(t, chat.DefaultMessages().GenericError, state.Turns[len(state.Turns)-1].Text)
	assert.False(t, state.Busy)
}

func TestResetState(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/chat", "s1", `{"message":"vuelos"}`)

	rec, state := do(t, s, http.MethodDelete, "/api/state", "s1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, state.Turns, 1)
	assert.Empty(t, state.Flights)
}

func TestNewSessionSetsCookie(t *testing.T) {
	s, _ := newTestServer(t)
	rec, _ := do(t, s, http.MethodGet, "/api/state", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	sid := rec.Header().Get("X-Session-Id")
	assert.NotEmpty(t, sid)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, sid, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}
