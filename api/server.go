package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/tokenboard/server/config"
	"github.com/tokenboard/server/transport/websocket"
)

// Server is the HTTP front: websocket endpoint, health probe, and the
// static client assets.
type Server struct {
	router *mux.Router
	logger *zap.Logger
}

// NewServer builds the router. The hub owns the /ws endpoint; everything
// not otherwise matched falls through to the static file server.
func NewServer(hub *websocket.Hub, cfg config.StaticConfig, logger *zap.Logger) *Server {
	s := &Server{
		router: mux.NewRouter(),
		logger: logger,
	}

	s.router.HandleFunc("/ws", hub.ServeWS)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.Dir)))

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		s.logger.Error("writing health response", zap.Error(err))
	}
}
