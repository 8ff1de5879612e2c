// Package replay serves a mock definition over HTTP.
package replay

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"anino/internal/core/errors"
	"anino/internal/data/definition"
	"anino/internal/shared/observability"
	"anino/internal/shared/util"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const limiterTTL = 10 * time.Minute

type Options struct {
	// Latency delays every response.
	Latency time.Duration
	// RateLimit is the per-client request rate per second; 0 disables.
	RateLimit float64
	Burst     int
	// MetricsPath serves Prometheus metrics when set.
	MetricsPath string
	// ReadTimeout bounds reading request headers.
	ReadTimeout time.Duration
}

type Server struct {
	opts     Options
	routes   []Route
	skipped  []Route
	handler  http.Handler
	limiters *util.LimiterRegistry
}

// New registers every endpoint. Entries whose pattern conflicts with an
// earlier one are skipped and reported by Skipped.
func New(endpoints []definition.Endpoint, opts Options) (*Server, error) {
	if len(endpoints) == 0 {
		return nil, errors.New(errors.CodeNoEndpoints, "definition has no endpoints")
	}
	s := &Server{opts: opts}
	mux := http.NewServeMux()
	for _, ep := range endpoints {
		h := s.respond(ep)
		for _, pattern := range Patterns(ep) {
			route := Route{Pattern: pattern, Endpoint: ep}
			if err := register(mux, pattern, h); err != nil {
				slog.Warn("route not registered", "pattern", pattern, "error", err)
				s.skipped = append(s.skipped, route)
				continue
			}
			s.routes = append(s.routes, route)
		}
	}
	if opts.MetricsPath != "" {
		if err := register(mux, "GET "+opts.MetricsPath, promhttp.Handler()); err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, "metrics path conflicts with a definition route")
		}
	}

	var h http.Handler = mux
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = max(int(opts.RateLimit), 1)
		}
		s.limiters = util.NewLimiterRegistry(opts.RateLimit, burst, limiterTTL)
		h = s.rateLimit(h)
	}
	s.handler = s.accessLog(h)
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.handler }

// Routes lists the registered patterns in definition order.
func (s *Server) Routes() []Route { return s.routes }

func (s *Server) Skipped() []Route { return s.skipped }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "cannot listen"), "addr", addr)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	readTimeout := s.opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readTimeout,
	}
	defer s.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Close releases the rate limiter state.
func (s *Server) Close() {
	if s.limiters != nil {
		s.limiters.Close()
	}
}

func (s *Server) respond(ep definition.Endpoint) http.HandlerFunc {
	body := []byte(ep.Response)
	hasBody := ep.HasBody()
	return func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Latency > 0 {
			timer := time.NewTimer(s.opts.Latency)
			select {
			case <-timer.C:
			case <-r.Context().Done():
				timer.Stop()
				return
			}
		}
		if hasBody {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(ep.StatusCode)
		if hasBody {
			_, _ = w.Write(body)
		}
	}
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiters.Allow(clientKey(r)) {
			observability.ReplayRateLimitedTotal.Inc()
			w.Header().Set("Retry-After", "1")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		observability.ReplayRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"client", clientKey(r),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
