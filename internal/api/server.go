package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/1broseidon/winpos/internal/logging"
	"github.com/1broseidon/winpos/internal/positioner"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Server mirrors the positioner operations over loopback HTTP.
type Server struct {
	router  *mux.Router
	invoker positioner.Invoker
	listen  string
	http    *http.Server
	log     *zerolog.Logger
}

// PositionRequest is the body of POST /api/windows/position. Title and
// WMClass pick the selector: both set selects by class and title, one set
// selects by that field alone.
type PositionRequest struct {
	Title   *string `json:"title,omitempty"`
	WMClass *string `json:"wm_class,omitempty"`
	X       int     `json:"x"`
	Y       int     `json:"y"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
}

// PositionResponse reports the positioning outcome.
type PositionResponse struct {
	Operation positioner.Operation `json:"operation"`
	Success   bool                 `json:"success"`
}

// NewServer creates a new API server
func NewServer(listen string, invoker positioner.Invoker) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		invoker: invoker,
		listen:  listen,
		log:     logging.WithComponent("http"),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	api := s.router.PathPrefix("/api").Subrouter()
	// A subrouter without its own handler reports method mismatches as 404.
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	api.HandleFunc("/windows/active", s.handleActiveWindow).Methods("GET")
	api.HandleFunc("/windows", s.handleWindowInfo).Methods("GET")
	api.HandleFunc("/windows/position", s.handlePosition).Methods("POST")
	api.HandleFunc("/monitors", s.handleMonitors).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.listen, err)
	}
	s.http = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.Info().Str("addr", ln.Addr().String()).Msg("HTTP mirror listening")

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()
	return nil
}

// Stop shuts the server down, waiting for in-flight requests until ctx ends.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) handleActiveWindow(w http.ResponseWriter, r *http.Request) {
	s.writeDocument(w, positioner.OpGetActiveWindowInfo, positioner.Args{})
}

func (s *Server) handleWindowInfo(w http.ResponseWriter, r *http.Request) {
	s.writeDocument(w, positioner.OpGetWindowInfo, positioner.Args{Title: r.URL.Query().Get("title")})
}

func (s *Server) handleMonitors(w http.ResponseWriter, r *http.Request) {
	s.writeDocument(w, positioner.OpGetMonitorInfo, positioner.Args{})
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	op, args, err := req.operation()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := s.invoker.Invoke(op, args)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PositionResponse{Operation: op, Success: res.Bool})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path), http.StatusMethodNotAllowed)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// writeDocument writes an introspection result verbatim; error payloads
// are results, not HTTP failures.
func (s *Server) writeDocument(w http.ResponseWriter, op positioner.Operation, args positioner.Args) {
	res, err := s.invoker.Invoke(op, args)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(res.JSON))
}

func (p PositionRequest) operation() (positioner.Operation, positioner.Args, error) {
	args := positioner.Args{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
	switch {
	case p.WMClass != nil && p.Title != nil:
		args.Class, args.Title = *p.WMClass, *p.Title
		return positioner.OpPositionWindowByClassAndTitle, args, nil
	case p.WMClass != nil:
		args.Class = *p.WMClass
		return positioner.OpPositionWindowByClass, args, nil
	case p.Title != nil:
		args.Title = *p.Title
		return positioner.OpPositionWindow, args, nil
	default:
		return "", args, fmt.Errorf("one of title or wm_class is required")
	}
}
