package status

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	logx "qotd/pkg/logx"
)

const DefaultAddr = "127.0.0.1:6060"

// Config controls the optional status server.
//
// A non-loopback Addr requires Token.
type Config struct {
	Enabled bool
	Addr    string
	Token   string
	// Pprof mounts net/http/pprof under /debug/pprof/.
	Pprof bool
}

type Server struct {
	cfg     Config
	tracker *Tracker
	log     logx.Logger
}

func New(cfg Config, tracker *Tracker, log logx.Logger) *Server {
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = DefaultAddr
	}
	return &Server{cfg: cfg, tracker: tracker, log: log}
}

// Handler serves /healthz, /status, /metrics and optionally pprof.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			_ = enc.Encode(s.tracker.Snapshot())
		})
		r.Handle("/metrics", promhttp.HandlerFor(s.tracker.Metrics().Registry, promhttp.HandlerOpts{}))
		if s.cfg.Pprof {
			r.Mount("/debug", middleware.Profiler())
		}
	})
	return r
}

// Serve listens on Addr until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	if s.cfg.Token == "" && !IsLoopbackAddr(s.cfg.Addr) {
		return errors.New("status server: non-loopback addr requires a token")
	}
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	s.log.Info("status server started", logx.String("addr", ln.Addr().String()), logx.Bool("pprof", s.cfg.Pprof))
	err = srv.Serve(ln)
	if ctx.Err() != nil || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) auth(next http.Handler) http.Handler {
	tok := strings.TrimSpace(s.cfg.Token)
	if tok == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("token"); got != "" && got == tok {
			next.ServeHTTP(w, r)
			return
		}
		if ah, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && strings.TrimSpace(ah) == tok {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("WWW-Authenticate", "Bearer")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

// IsLoopbackAddr reports whether host:port binds only to loopback.
// An empty host means every interface.
func IsLoopbackAddr(addr string) bool {
	h, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	h = strings.TrimSpace(h)
	if h == "" {
		return false
	}
	if strings.EqualFold(h, "localhost") {
		return true
	}
	ip := net.ParseIP(h)
	return ip != nil && ip.IsLoopback()
}
