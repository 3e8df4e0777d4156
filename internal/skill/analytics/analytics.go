// Package analytics holds the intent handlers of the analytics reporting skill.
package analytics

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"bitbucket.org/sotavant/analytics-voice-skill/internal/models"
	"bitbucket.org/sotavant/analytics-voice-skill/internal/skill"
	"bitbucket.org/sotavant/analytics-voice-skill/internal/speech"
	"bitbucket.org/sotavant/analytics-voice-skill/internal/store"
)

const (
	IntentHelp         = "AMAZON.HelpIntent"
	IntentStop         = "AMAZON.StopIntent"
	IntentCancel       = "AMAZON.CancelIntent"
	IntentThankYou     = "ThankYouIntent"
	IntentReportSuite  = "PartnerDayWebsiteIntent"
	IntentPageViews    = "PartnerdayPageViewsIntent"
	IntentMetricByName = "PartnerdayPageViews"

	// DefaultIntent receives every intent that is not registered.
	DefaultIntent = IntentHelp

	SlotMetricName = "MetricName"

	defaultMetricName = "default metric"
)

const (
	welcomeText   = "Welcome to Adobe Analytics.. Which report suite would you like to use?... Adobe I/O portal, Partnerday Website."
	welcomeRetry  = "Please say either Adobe I/O Portal or Partnerday Website."
	whatInfoText  = "What information would you like to retrieve from Adobe Analytics?"
	helpText      = "I can tell you the latest page views this month. " + whatInfoText
	farewellText  = "Serverless is cool, isn't it ?  Goodbye !"
	suiteText     = "Ok, using the partner day report suite. How can I help you?"
	suiteRetryFmt = "Currently, I can tell you information about the following metrics: %s"
	metricFmt     = "The total number of %s this month is %d."
)

// printer formats totals with thousands separators.
var printer = message.NewPrinter(language.English)

// NewRouter wires the analytics intents to a router backed by s.
func NewRouter(s store.Store, opts ...skill.Option) (*skill.Router, error) {
	return skill.NewRouter(skill.HandlerFunc(launch), Intents(s), DefaultIntent, opts...)
}

// Intents returns the intent table. Stop and cancel close the session the
// same way a thank-you does.
func Intents(s store.Store) map[string]skill.Handler {
	h := &handlers{store: s}

	return map[string]skill.Handler{
		IntentHelp:         skill.HandlerFunc(help),
		IntentThankYou:     skill.HandlerFunc(farewell),
		IntentStop:         skill.HandlerFunc(farewell),
		IntentCancel:       skill.HandlerFunc(farewell),
		IntentReportSuite:  skill.HandlerFunc(h.reportSuite),
		IntentPageViews:    skill.HandlerFunc(h.pageViews),
		IntentMetricByName: skill.HandlerFunc(h.metricByName),
	}
}

func launch(_ context.Context, _ models.Intent, _ models.Session, b *speech.Builder) (*models.Response, error) {
	return b.Ask(welcomeText, welcomeRetry), nil
}

func help(_ context.Context, _ models.Intent, _ models.Session, b *speech.Builder) (*models.Response, error) {
	return b.Ask(helpText, whatInfoText), nil
}

func farewell(_ context.Context, _ models.Intent, _ models.Session, b *speech.Builder) (*models.Response, error) {
	return b.Tell(farewellText), nil
}

type handlers struct {
	store store.Store
}

func (h *handlers) reportSuite(ctx context.Context, _ models.Intent, _ models.Session, b *speech.Builder) (*models.Response, error) {
	names, err := h.store.ListMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	if len(names) == 0 {
		names = []string{store.MetricPageViews}
	}

	return b.Ask(suiteText, fmt.Sprintf(suiteRetryFmt, strings.Join(names, ", "))), nil
}

func (h *handlers) pageViews(ctx context.Context, _ models.Intent, _ models.Session, b *speech.Builder) (*models.Response, error) {
	return h.answerMetric(ctx, b, store.MetricPageViews)
}

func (h *handlers) metricByName(ctx context.Context, intent models.Intent, _ models.Session, b *speech.Builder) (*models.Response, error) {
	name, ok := intent.SlotValue(SlotMetricName)
	if !ok {
		name = defaultMetricName
	}
	return h.answerMetric(ctx, b, name)
}

func (h *handlers) answerMetric(ctx context.Context, b *speech.Builder, name string) (*models.Response, error) {
	total, err := h.store.MetricTotal(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("metric %q: %w", name, err)
	}
	return b.Answer(printer.Sprintf(metricFmt, name, total)), nil
}
