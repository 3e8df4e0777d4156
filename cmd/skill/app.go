package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"bitbucket.org/sotavant/analytics-voice-skill/internal/logger"
	"bitbucket.org/sotavant/analytics-voice-skill/internal/models"
	"bitbucket.org/sotavant/analytics-voice-skill/internal/skill"
)

type app struct {
	router *skill.Router
}

func newApp(r *skill.Router) *app {
	return &app{router: r}
}

func (a *app) webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		logger.Log.Debug("got request with bad method", zap.String("method", r.Method))

		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	logger.Log.Debug("decoding request")
	var event models.Event
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&event); err != nil {
		logger.Log.Debug("cannot decode request JSON body", zap.Error(err))

		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp, err := a.router.HandleEvent(ctx, event)
	if err != nil {
		logger.Log.Error("cannot handle event",
			zap.String("request_type", event.Request.Type),
			zap.String("intent", event.Request.IntentName()),
			zap.Error(err),
		)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		logger.Log.Debug("error encoding response", zap.Error(err))
		return
	}
	logger.Log.Debug("sending HTTP 200 response")
}

func (a *app) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// routes mounts the webhook on path. Other methods on the webhook path
// get 405 from the webhook itself.
func (a *app) routes(path string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Handle(path, otelhttp.NewHandler(logger.RequestLogger(gzipMiddleware(a.webhook)), "webhook"))
	r.Get("/healthz", a.healthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
