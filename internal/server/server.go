package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"flight-assistant/internal/backend"
	"flight-assistant/internal/chat"
	"flight-assistant/internal/config"
	"flight-assistant/internal/logger"
	"flight-assistant/internal/store"
	"flight-assistant/internal/types"
)

type Server struct {
	router     *chi.Mux
	store      *store.MemoryStore
	dispatcher *chat.Dispatcher
	cfg        config.Config
}

func NewServer(cfg config.Config) (*Server, error) {
	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	return newServer(cfg, client)
}

func newServer(cfg config.Config, b chat.Backend) (*Server, error) {
	msgs, err := chat.LoadMessages(cfg.MessagesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	ordering, err := chat.ParseOrdering(cfg.Ordering)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", "X-Session-Id"},
		ExposedHeaders:   []string{"X-Session-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router:     r,
		store:      store.NewMemoryStore(msgs.Greeting, cfg.SessionTTL),
		dispatcher: chat.NewDispatcher(b, msgs, ordering),
		cfg:        cfg,
	}
	s.routes()
	logger.Log.Infof("chat backend %s, ordering %s", cfg.BackendURL, ordering)
	return s, nil
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/chat", s.handleChat)
	s.router.Get("/api/state", s.handleState)
	s.router.Delete("/api/state", s.handleReset)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	sid := getOrCreateSessionID(r, w)
	state, err := s.dispatcher.Submit(r.Context(), s.store.Get(sid), req.Message)
	if errors.Is(err, chat.ErrEmptyMessage) {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if err != nil {
		logger.Log.Errorf("[chat] submit failed for session %s: %v", sid, err)
		s.writeError(w, http.StatusInternalServerError, "chat failed")
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sid := getOrCreateSessionID(r, w)
	s.writeJSON(w, http.StatusOK, s.store.Get(sid).State())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sid := getOrCreateSessionID(r, w)
	sess := s.store.Get(sid)
	sess.Reset()
	s.writeJSON(w, http.StatusOK, sess.State())
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, types.ErrorResponse{Error: msg})
}

// getSessionID retrieves the session ID from cookie, header or query parameter
func getSessionID(r *http.Request) string {
	if cookie, err := GetSessionCookie(r); err == nil && cookie != "" {
		return cookie
	}
	if sid := r.Header.Get("X-Session-Id"); sid != "" {
		return sid
	}
	return r.URL.Query().Get("sessionId")
}

// getOrCreateSessionID gets existing session ID or creates a new one, setting the cookie
func getOrCreateSessionID(r *http.Request, w http.ResponseWriter) string {
	sid := getSessionID(r)
	if sid == "" {
		sid = uuid.NewString()
		logger.Log.Debugf("[session] creating new session: %s for endpoint: %s", sid, r.URL.Path)
		SetSessionCookie(w, r, sid)
	}
	w.Header().Set("X-Session-Id", sid)
	return sid
}
