package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"bitbucket.org/sotavant/analytics-voice-skill/internal/logger"
	"bitbucket.org/sotavant/analytics-voice-skill/internal/observability"
	"bitbucket.org/sotavant/analytics-voice-skill/internal/skill/analytics"
	"bitbucket.org/sotavant/analytics-voice-skill/internal/store"
)

const (
	shutdownTimeout = 5 * time.Second
	serviceName     = "analytics-voice-skill"
	serviceVersion  = "1.0"
)

func main() {
	parseFlags()
	if err := run(); err != nil {
		panic(err)
	}
}

func gzipMiddleware(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ow := w

		acceptEncoding := r.Header.Get("Accept-Encoding")
		supportGzip := strings.Contains(acceptEncoding, "gzip")

		if supportGzip {
			cw := newCompressWriter(w)
			ow = cw
			defer func(cw *compressWriter) {
				if err := cw.Close(); err != nil {
					logger.Log.Debug("compressWriterError", zap.Error(err))
				}
			}(cw)
		}

		contentEncoding := r.Header.Get("Content-Encoding")

		sendsGzip := strings.Contains(contentEncoding, "gzip")
		if sendsGzip {
			cr, err := newCompressReader(r.Body)
			if err != nil {
				logger.Log.Debug("newCompressReaderError", zap.Error(err))
				ow.WriteHeader(http.StatusBadRequest)
				return
			}
			r.Body = cr
			defer func(cr *compressReader) {
				if err := cr.Close(); err != nil {
					logger.Log.Debug("closeCompressReaderError", zap.Error(err))
				}
			}(cr)
		}

		h.ServeHTTP(ow, r)
	}
}

func run() error {
	if err := logger.Initialize(flagLogLevel); err != nil {
		return err
	}
	defer func() { _ = logger.Log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracing := observability.TracerConfig{
		Endpoint:       flagOtelEndpoint,
		Protocol:       flagOtelProtocol,
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
	}
	if tracing.Enabled() {
		tp, err := observability.InitTracer(ctx, tracing)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Log.Warn("cannot flush traces", zap.Error(err))
			}
		}()
		logger.Log.Info("tracing enabled",
			zap.String("endpoint", tracing.Endpoint),
			zap.String("protocol", tracing.Protocol),
		)
	}

	// The router and HTTP handlers pick up the global tracer provider when
	// they are built, so they come after tracing is set up.
	router, err := analytics.NewRouter(store.NewMemoryStore(store.DefaultSeed()))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              flagRunAddr,
		Handler:           newApp(router).routes(flagWebhookPath),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Running server",
			zap.String("address", flagRunAddr),
			zap.String("webhook_path", flagWebhookPath),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
