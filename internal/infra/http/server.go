package http

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadyFunc отвечает, готов ли процесс обслуживать трафик; обычно это
// ping пула БД. nil — готовность не проверяется.
type ReadyFunc func(ctx context.Context) error

type Server struct {
	srv *http.Server
}

func New(addr string, exposeMetrics bool, ready ReadyFunc) *Server {
	return &Server{srv: &http.Server{Addr: addr, Handler: newMux(exposeMetrics, ready)}}
}

func newMux(exposeMetrics bool, ready ReadyFunc) *http.ServeMux {
	mux := http.NewServeMux()

	// liveness: процесс жив и отвечает
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// readiness: зависимости (база) доступны
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		if ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(err.Error()))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if exposeMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}
	return mux
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
