// Package skill routes voice-platform events to intent handlers.
package skill

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"bitbucket.org/sotavant/analytics-voice-skill/internal/logger"
	"bitbucket.org/sotavant/analytics-voice-skill/internal/metrics"
	"bitbucket.org/sotavant/analytics-voice-skill/internal/models"
	"bitbucket.org/sotavant/analytics-voice-skill/internal/speech"
)

const scopeName = "bitbucket.org/sotavant/analytics-voice-skill/internal/skill"

var (
	ErrNoLaunchHandler  = errors.New("launch handler is not set")
	ErrNoDefaultHandler = errors.New("default intent is not registered")
	ErrNoResponse       = errors.New("handler returned no response")
)

// Handler answers one request. intent is the zero value for launches.
type Handler interface {
	Handle(ctx context.Context, intent models.Intent, session models.Session, b *speech.Builder) (*models.Response, error)
}

type HandlerFunc func(ctx context.Context, intent models.Intent, session models.Session, b *speech.Builder) (*models.Response, error)

func (f HandlerFunc) Handle(ctx context.Context, intent models.Intent, session models.Session, b *speech.Builder) (*models.Response, error) {
	return f(ctx, intent, session, b)
}

// Router is immutable after NewRouter and safe for concurrent use.
type Router struct {
	launch        Handler
	intents       map[string]Handler
	defaultIntent string
	tracer        trace.Tracer
}

type Option func(*Router)

// WithTracerProvider sets the provider used for event spans. The default
// is the global provider at the time NewRouter is called.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(rt *Router) {
		rt.tracer = tp.Tracer(scopeName)
	}
}

// NewRouter copies the intent table. Nil entries are dropped so that they
// resolve to the default intent like any unknown name.
func NewRouter(launch Handler, intents map[string]Handler, defaultIntent string, opts ...Option) (*Router, error) {
	if launch == nil {
		return nil, ErrNoLaunchHandler
	}

	table := make(map[string]Handler, len(intents))
	for name, h := range intents {
		if h != nil {
			table[name] = h
		}
	}
	if _, ok := table[defaultIntent]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoDefaultHandler, defaultIntent)
	}

	rt := &Router{
		launch:        launch,
		intents:       table,
		defaultIntent: defaultIntent,
		tracer:        otel.Tracer(scopeName),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt, nil
}

// Intents returns a copy of the registered intent table.
func (rt *Router) Intents() map[string]Handler {
	return maps.Clone(rt.intents)
}

// Resolve returns the handler for name and the intent name it is
// registered under. Unknown names resolve to the default intent.
func (rt *Router) Resolve(name string) (string, Handler) {
	if h, ok := rt.intents[name]; ok {
		return name, h
	}
	return rt.defaultIntent, rt.intents[rt.defaultIntent]
}

// HandleEvent classifies the event and returns the handler's response
// unchanged. Only handler errors, including a missing response, are
// returned.
func (rt *Router) HandleEvent(ctx context.Context, event models.Event) (*models.Response, error) {
	start := time.Now()
	kind := event.Request.Kind()

	ctx, span := rt.tracer.Start(ctx, "handle event")
	defer span.End()
	span.SetAttributes(attribute.String("skill.request_type", kind.String()))

	log := logger.Log.With(
		zap.String("request_type", kind.String()),
		zap.String("session_id", event.Session.SessionID),
	)

	var (
		handler  Handler
		intent   models.Intent
		resolved string
	)

	switch kind {
	case models.KindIntent:
		if event.Request.Intent != nil {
			intent = *event.Request.Intent
		}
		resolved, handler = rt.Resolve(intent.Name)
		if resolved != intent.Name {
			log.Debug("unknown intent, using default",
				zap.String("intent", intent.Name),
				zap.String("resolved_intent", resolved),
			)
			metrics.IntentFallbacks.Inc()
		}
		span.SetAttributes(
			attribute.String("skill.intent", intent.Name),
			attribute.String("skill.resolved_intent", resolved),
		)
	default:
		handler = rt.launch
	}

	log.Debug("dispatching event", zap.String("resolved_intent", resolved))

	b := speech.NewBuilder(event.Session.Attributes)
	resp, err := handler.Handle(ctx, intent, event.Session, b)
	if err == nil && resp == nil {
		err = ErrNoResponse
	}

	metrics.EventDuration.WithLabelValues(kind.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.EventsFailed.WithLabelValues(kind.String(), resolved).Inc()
		return nil, fmt.Errorf("handle %s %q: %w", kind, resolved, err)
	}

	metrics.EventsHandled.WithLabelValues(kind.String(), resolved).Inc()
	return resp, nil
}
