package http

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"scanstation/frontend/batches"
	stockin "scanstation/frontend/stockIn"
	stockout "scanstation/frontend/stockOut"
	"scanstation/infrastructure/audit"
	"scanstation/infrastructure/cache"
	"scanstation/infrastructure/inventory"
	sessioncookie "scanstation/infrastructure/session"
	"scanstation/infrastructure/sqlite"
)

//go:embed assets/*
var assets embed.FS

var ShutdownTimeout = 2 * time.Second

// SweepInterval is how often idle kiosk sessions are dropped.
var SweepInterval = 10 * time.Minute

// Server bundles dependencies and route wiring.
type Server struct {
	Addr   string
	ln     net.Listener
	server *http.Server
	router *chi.Mux

	DB        *sqlite.DB
	Audit     *audit.Service
	Inventory *inventory.Client
	Journal   *batches.Journal
	Role      string

	Hub      *Hub
	StockIn  *stockin.Kiosk
	StockOut *stockout.Kiosk

	stopSweep context.CancelFunc
	sweepDone sync.WaitGroup
}

// NewServer creates a new http server. role is the inventory role of the
// station account and decides which pages are offered.
func NewServer(addr string, db *sqlite.DB, client *inventory.Client, journal *batches.Journal, auditSvc *audit.Service, role string) *Server {
	hub := NewHub()
	var inRecorder stockin.Recorder
	var outRecorder stockout.Recorder
	if journal != nil {
		inRecorder, outRecorder = journal, journal
	}
	s := &Server{
		Addr:      addr,
		router:    chi.NewRouter(),
		DB:        db,
		Audit:     auditSvc,
		Inventory: client,
		Journal:   journal,
		Role:      role,
		Hub:       hub,
		StockIn:   stockin.NewKiosk(cache.NewSessionCache[*stockin.KioskSession](), client, inRecorder, hub),
		StockOut:  stockout.NewKiosk(cache.NewSessionCache[*stockout.KioskFlow](), client, outRecorder),
		server: &http.Server{
			MaxHeaderBytes:    1 << 20,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	// Secure headers first.
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			next.ServeHTTP(w, r)
		})
	})

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.CSRFMiddleware)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/tasker/stock-in", http.StatusSeeOther)
	})

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var assetsFS fs.FS = assets
	if sub, err := fs.Sub(assets, "assets"); err == nil {
		assetsFS = sub
	} else {
		slog.Error("assets subfs init failed; serving fallback fs", slog.Any("err", err))
	}
	s.router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assetsFS))))

	s.router.Route("/tasker", func(r chi.Router) {
		// The feed is a long-lived upgrade and must bypass compression.
		r.Get("/ws/stock-in", StockInFeedHandler(s.Hub, s.StockIn))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Compress(5))
			s.RegisterKioskRoutes(r)
			s.RegisterStockRoutes(r)
			s.RegisterBatchRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(s.RequireAdmin)
				s.RegisterAdminRoutes(r)
			})
		})
	})

	s.server.Handler = s.router
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// RequireAdmin hides admin pages from executive stations.
func (s *Server) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Role != inventory.RoleAdmin {
			http.Error(w, "admin station required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Sweep drops kiosk sessions idle for longer than maxIdle.
func (s *Server) Sweep(maxIdle time.Duration) {
	in := s.StockIn.Sessions().Sweep(maxIdle)
	out := s.StockOut.Flows().Sweep(maxIdle)
	if in+out > 0 {
		slog.Info("swept idle kiosk sessions", slog.Int("stock_in", in), slog.Int("stock_out", out))
	}
}

func (s *Server) startSweeper() {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopSweep = cancel
	s.sweepDone.Add(1)
	go func() {
		defer s.sweepDone.Done()
		ticker := time.NewTicker(SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep(sessioncookie.IdleTimeout)
			}
		}
	}()
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	var err error
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	s.startSweeper()
	go func() {
		if err := s.server.Serve(s.ln); err != nil && err != http.ErrServerClosed {
			slog.Error("http server stopped", slog.Any("err", err))
		}
	}()
	slog.Info("http server listening", slog.String("addr", s.ln.Addr().String()))
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.ln == nil {
		return fmt.Errorf("HTTP server has not been started or is already stopped")
	}
	if s.stopSweep != nil {
		s.stopSweep()
		s.sweepDone.Wait()
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %v", err)
	}
	s.ln = nil
	return nil
}
