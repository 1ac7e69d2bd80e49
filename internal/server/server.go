// Package server exposes the dashboard JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"liquidchecker/internal/domain"
	"liquidchecker/internal/engagement"
	"liquidchecker/internal/liquidlaunch"
	"liquidchecker/internal/observability"
	"liquidchecker/internal/storage"
	"liquidchecker/internal/wallet"
)

// TokenLister fetches token pages and per-token detail from the upstream API.
type TokenLister interface {
	ListTokens(ctx context.Context, q liquidlaunch.Query) (*domain.TokenPage, error)
	TokenStats(ctx context.Context, address string) (*domain.Token, error)
}

// Connector drives wallet connects through the provider bridge.
type Connector interface {
	Connect(ctx context.Context) (string, error)
	Resume(ctx context.Context) (string, error)
	Disconnect()
}

// Server serves the dashboard API.
type Server struct {
	lister    TokenLister
	engage    *engagement.Service
	session   *wallet.Session
	connector Connector // nil when no provider bridge is configured
	snapshots storage.SnapshotStore
	log       zerolog.Logger
	started   time.Time

	httpServer *http.Server
}

// Config holds the server dependencies.
type Config struct {
	Lister    TokenLister
	Engage    *engagement.Service
	Session   *wallet.Session
	Connector Connector
	Snapshots storage.SnapshotStore
	Log       zerolog.Logger
}

// New creates a server. The session drives the engagement service's wallet
// scope for the whole lifetime of the server.
func New(cfg Config) *Server {
	s := &Server{
		lister:    cfg.Lister,
		engage:    cfg.Engage,
		session:   cfg.Session,
		connector: cfg.Connector,
		snapshots: cfg.Snapshots,
		log:       cfg.Log.With().Str("component", "server").Logger(),
		started:   time.Now(),
	}
	cfg.Session.Subscribe(func(addr string) {
		s.engage.SetWallet(addr)
	})
	s.engage.SetWallet(cfg.Session.Address())
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/tokens", s.route("/api/tokens", s.handleTokens))
	mux.HandleFunc("GET /api/tokens/{address}", s.route("/api/tokens/{address}", s.handleTokenDetail))
	mux.HandleFunc("GET /api/stats", s.route("/api/stats", s.handleStats))
	mux.HandleFunc("GET /api/stats/buckets", s.route("/api/stats/buckets", s.handleBuckets))
	mux.HandleFunc("GET /api/stats/history", s.route("/api/stats/history", s.handleHistory))
	mux.HandleFunc("GET /api/rankings/comments", s.route("/api/rankings/comments", s.handleRankings("comments")))
	mux.HandleFunc("GET /api/rankings/votes", s.route("/api/rankings/votes", s.handleRankings("votes")))
	mux.HandleFunc("GET /api/tokens/{address}/comments", s.route("/api/tokens/{address}/comments", s.handleListComments))
	mux.HandleFunc("POST /api/tokens/{address}/comments", s.route("/api/tokens/{address}/comments", s.handleAddComment))
	mux.HandleFunc("POST /api/tokens/{address}/vote", s.route("/api/tokens/{address}/vote", s.handleToggleVote))
	mux.HandleFunc("GET /api/wallet", s.route("/api/wallet", s.handleWallet))
	mux.HandleFunc("POST /api/wallet/connect", s.route("/api/wallet/connect", s.handleWalletConnect))
	mux.HandleFunc("POST /api/wallet/disconnect", s.route("/api/wallet/disconnect", s.handleWalletDisconnect))

	// Preflight requests never reach the method-scoped routes above.
	mux.HandleFunc("OPTIONS /api/", cors(func(http.ResponseWriter, *http.Request) {}))

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.Handle("GET /metrics", observability.Handler())

	return mux
}

// Run serves the API until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("dashboard API started")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// route wraps a handler with CORS and request metrics.
func (s *Server) route(name string, h http.HandlerFunc) http.HandlerFunc {
	return cors(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		observability.RecordHTTPRequest(name, rec.code, time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func cors(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":           "ok",
		"uptime_seconds":   int(time.Since(s.started).Seconds()),
		"wallet_connected": s.session.Connected(),
	}
	// No snapshot yet is a normal state for a fresh deployment.
	if snap, err := s.snapshots.Latest(r.Context()); err == nil {
		resp["last_snapshot"] = snap.TakenAt.UTC().Format(time.RFC3339)
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.log.Error().Err(err).Msg("latest snapshot lookup failed")
	}
	writeJSON(w, resp)
}
