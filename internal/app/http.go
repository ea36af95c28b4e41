package app

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"plstrack/pkg/auth"
	"plstrack/pkg/banner"
	"plstrack/pkg/logger"
)

// startHTTP builds the routed handler, wraps it with the security
// middleware and serves until ctx is canceled. Fatal listener errors are
// reported on the returned channel.
func (a *App) startHTTP(ctx context.Context) <-chan error {
	root := http.NewServeMux()
	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	root.HandleFunc("/readyz", a.handleReadyz)
	root.Handle("/metrics", promhttp.Handler())
	root.Handle("/docs/", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))
	root.HandleFunc("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "docs/openapi.yaml")
	})
	root.Handle("/", a.api.Handler())

	sec := a.eff.Config.Security
	keys := make(map[string]struct{}, len(sec.APIKeys.Backend))
	for _, k := range sec.APIKeys.Backend {
		keys[k] = struct{}{}
	}
	handler := auth.Middleware(auth.SecConfig{
		AllowedOrigins: sec.CORS.AllowedOrigins,
		RPS:            sec.RateLimit.RPS,
		Burst:          sec.RateLimit.Burst,
		BackendKeys:    keys,
		AllowUnauth:    sec.APIKeys.AllowUnauth,
	}, root)

	srv := &http.Server{
		Addr:              a.eff.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http_listening", "addr", a.eff.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			logger.Warn("http_shutdown_error", "error", err)
		}
	}()
	return errCh
}

// handleReadyz reports ready once the store answers a read.
func (a *App) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if _, err := a.records.Index(); err != nil {
		http.Error(w, `{"error":"store not ready"}`, http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (a *App) printBanner() {
	banner.PrintWithEff(a.eff, a.version)
	logger.Info("server_starting",
		"version", a.version,
		"commit", a.commit,
		"build_date", a.buildDate,
		"addr", a.eff.Addr,
		"db", a.eff.DBPath,
	)
}
