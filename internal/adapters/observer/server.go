package observer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/andrescamacho/bizsim-go/internal/adapters/feed"
	"github.com/andrescamacho/bizsim-go/internal/application/common"
	"github.com/andrescamacho/bizsim-go/internal/application/simulation/queries"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

const (
	writeTimeout = 5 * time.Second
	pingInterval = 30 * time.Second
	readTimeout  = 2 * pingInterval
)

// Config wires the observer endpoints
type Config struct {
	Mediator common.Mediator
	Feed     *feed.Feed
	Logger   common.Logger

	// Metrics is mounted at MetricsPath when set
	Metrics     http.Handler
	MetricsPath string
}

// Server exposes read-only JSON views of the simulation, the live event feed
// over websockets and the Prometheus scrape endpoint
type Server struct {
	mediator common.Mediator
	feed     *feed.Feed
	logger   common.Logger
	upgrader websocket.Upgrader
	router   chi.Router
}

func NewServer(cfg Config) *Server {
	s := &Server{
		mediator: cfg.Mediator,
		feed:     cfg.Feed,
		logger:   shared.LoggerOrNop(cfg.Logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/healthz", s.handleHealth)
	router.Get("/dashboard", s.handleDashboard)
	router.Get("/work-orders", s.handleWorkOrders)
	router.Get("/events", s.handleEvents)
	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, cfg.Metrics)
	}
	s.router = router
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(rw http.ResponseWriter, _ *http.Request) {
	writeJSON(rw, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDashboard(rw http.ResponseWriter, r *http.Request) {
	resp, err := s.mediator.Send(r.Context(), &queries.GetDashboardQuery{
		BusinessID: r.URL.Query().Get("business_id"),
	})
	if err != nil {
		s.writeError(rw, err)
		return
	}
	writeJSON(rw, http.StatusOK, resp.(*queries.GetDashboardResponse).Dashboard)
}

func (s *Server) handleWorkOrders(rw http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	history, _ := strconv.ParseBool(q.Get("history"))
	resp, err := s.mediator.Send(r.Context(), &queries.ListWorkOrdersQuery{
		BusinessID:     q.Get("business_id"),
		Status:         q.Get("status"),
		IncludeHistory: history,
	})
	if err != nil {
		s.writeError(rw, err)
		return
	}
	writeJSON(rw, http.StatusOK, map[string]interface{}{
		"orders": resp.(*queries.ListWorkOrdersResponse).Orders,
	})
}

// handleEvents upgrades to a websocket and streams feed events as JSON text
// frames. ?names=a,b narrows the stream. Anything the client sends is
// ignored apart from keeping the read deadline alive.
func (s *Server) handleEvents(rw http.ResponseWriter, r *http.Request) {
	if s.feed == nil {
		http.Error(rw, "event feed disabled", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := s.feed.Subscribe(splitNames(r.URL.Query().Get("names"))...)
	defer sub.Close()

	s.logger.Log(shared.LevelDebug, "[Observer] Event stream opened", map[string]interface{}{
		"remote": r.RemoteAddr,
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reader: detects the client going away
	go func() {
		defer cancel()
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(readTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
				time.Now().Add(time.Second))
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(event); err != nil {
				s.logger.Log(shared.LevelDebug, "[Observer] Event stream closed", map[string]interface{}{
					"remote":  r.RemoteAddr,
					"dropped": sub.Dropped(),
					"error":   err.Error(),
				})
				return
			}
		}
	}
}

func (s *Server) writeError(rw http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.Log(shared.LevelError, "[Observer] Request failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	writeJSON(rw, code, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	var notFound *shared.NotFoundError
	var validation *shared.ValidationError
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(rw http.ResponseWriter, code int, body interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)
	_ = json.NewEncoder(rw).Encode(body)
}

func splitNames(raw string) []string {
	var names []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
