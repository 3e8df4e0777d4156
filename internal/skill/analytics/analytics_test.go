package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitbucket.org/sotavant/analytics-voice-skill/internal/models"
	"bitbucket.org/sotavant/analytics-voice-skill/internal/store"
	"bitbucket.org/sotavant/analytics-voice-skill/internal/store/mock"
)

func intentEvent(name string, slots map[string]models.Slot) models.Event {
	return models.Event{
		Session: models.Session{SessionID: "SessionId.baae4592", New: true},
		Request: models.Request{
			Type:   models.TypeIntentRequest,
			Intent: &models.Intent{Name: name, Slots: slots},
		},
		Version: models.Version,
	}
}

func TestScenarios(t *testing.T) {
	rt, err := NewRouter(store.NewMemoryStore(store.DefaultSeed()))
	require.NoError(t, err)

	tests := []struct {
		name       string
		event      models.Event
		wantSSML   string
		wantEnd    bool
		wantRetry  string
		noReprompt bool
	}{
		{
			name:      "launch",
			event:     models.Event{Request: models.Request{Type: models.TypeLaunchRequest}},
			wantSSML:  "<speak> " + welcomeText + " </speak>",
			wantRetry: "<speak> " + welcomeRetry + " </speak>",
		},
		{
			name:      "help",
			event:     intentEvent(IntentHelp, nil),
			wantSSML:  "<speak> " + helpText + " </speak>",
			wantRetry: "<speak> " + whatInfoText + " </speak>",
		},
		{
			name:      "report_suite",
			event:     intentEvent(IntentReportSuite, nil),
			wantSSML:  "<speak> " + suiteText + " </speak>",
			wantRetry: "<speak> Currently, I can tell you information about the following metrics: page views </speak>",
		},
		{
			name:       "page_views",
			event:      intentEvent(IntentPageViews, nil),
			wantSSML:   "<speak> The total number of page views this month is 3,871. </speak>",
			noReprompt: true,
		},
		{
			name:       "metric_slot",
			event:      intentEvent(IntentMetricByName, map[string]models.Slot{SlotMetricName: {Name: SlotMetricName, Value: "visits"}}),
			wantSSML:   "<speak> The total number of visits this month is 1,231. </speak>",
			noReprompt: true,
		},
		{
			name:       "metric_slot_without_value",
			event:      intentEvent(IntentMetricByName, map[string]models.Slot{SlotMetricName: {Name: SlotMetricName}}),
			wantSSML:   "<speak> The total number of default metric this month is 1,231. </speak>",
			noReprompt: true,
		},
		{
			name:       "metric_no_slots",
			event:      intentEvent(IntentMetricByName, nil),
			wantSSML:   "<speak> The total number of default metric this month is 1,231. </speak>",
			noReprompt: true,
		},
		{
			name:       "thank_you",
			event:      intentEvent(IntentThankYou, nil),
			wantSSML:   "<speak> " + farewellText + " </speak>",
			wantEnd:    true,
			noReprompt: true,
		},
		{
			name:       "stop",
			event:      intentEvent(IntentStop, nil),
			wantSSML:   "<speak> " + farewellText + " </speak>",
			wantEnd:    true,
			noReprompt: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := rt.HandleEvent(context.Background(), tt.event)
			require.NoError(t, err)

			assert.Equal(t, models.Version, resp.Version)
			assert.Equal(t, models.SpeechTypeSSML, resp.Response.OutputSpeech.Type)
			assert.Equal(t, tt.wantSSML, resp.Response.OutputSpeech.SSML)
			assert.Equal(t, tt.wantEnd, resp.Response.ShouldEndSession)

			if tt.noReprompt {
				assert.Nil(t, resp.Response.Reprompt)
				return
			}
			require.NotNil(t, resp.Response.Reprompt)
			assert.Equal(t, tt.wantRetry, resp.Response.Reprompt.OutputSpeech.SSML)
		})
	}
}

func TestUnknownIntentMatchesHelp(t *testing.T) {
	rt, err := NewRouter(store.NewMemoryStore(store.DefaultSeed()))
	require.NoError(t, err)

	attrs := map[string]any{"suite": "partnerday"}
	help := intentEvent(IntentHelp, nil)
	help.Session.Attributes = attrs
	unknown := intentEvent("UnknownXyz", nil)
	unknown.Session.Attributes = attrs

	want, err := rt.HandleEvent(context.Background(), help)
	require.NoError(t, err)

	for _, ev := range []models.Event{unknown, {Session: help.Session, Request: models.Request{Type: models.TypeIntentRequest}}} {
		got, err := rt.HandleEvent(context.Background(), ev)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestMetricHandlersUseStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mock.NewMockStore(ctrl)

	s.EXPECT().MetricTotal(gomock.Any(), store.MetricPageViews).Return(int64(1000000), nil)
	s.EXPECT().MetricTotal(gomock.Any(), "orders").Return(int64(12), nil)
	s.EXPECT().ListMetrics(gomock.Any()).Return([]string{"orders", "page views", "visits"}, nil)

	rt, err := NewRouter(s)
	require.NoError(t, err)
	ctx := context.Background()

	resp, err := rt.HandleEvent(ctx, intentEvent(IntentPageViews, nil))
	require.NoError(t, err)
	assert.Contains(t, resp.Response.OutputSpeech.SSML, "page views this month is 1,000,000.")

	resp, err = rt.HandleEvent(ctx, intentEvent(IntentMetricByName, map[string]models.Slot{SlotMetricName: {Value: "orders"}}))
	require.NoError(t, err)
	assert.Contains(t, resp.Response.OutputSpeech.SSML, "orders this month is 12.")

	resp, err = rt.HandleEvent(ctx, intentEvent(IntentReportSuite, nil))
	require.NoError(t, err)
	require.NotNil(t, resp.Response.Reprompt)
	assert.Contains(t, resp.Response.Reprompt.OutputSpeech.SSML, "metrics: orders, page views, visits")
}

func TestStoreErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mock.NewMockStore(ctrl)

	unavailable := errors.New("analytics backend unavailable")
	s.EXPECT().MetricTotal(gomock.Any(), defaultMetricName).Return(int64(0), unavailable)
	s.EXPECT().ListMetrics(gomock.Any()).Return(nil, unavailable)

	rt, err := NewRouter(s)
	require.NoError(t, err)

	_, err = rt.HandleEvent(context.Background(), intentEvent(IntentMetricByName, nil))
	assert.ErrorIs(t, err, unavailable)

	_, err = rt.HandleEvent(context.Background(), intentEvent(IntentReportSuite, nil))
	assert.ErrorIs(t, err, unavailable)
}

func TestLaunchKeepsSpeechPauses(t *testing.T) {
	rt, err := NewRouter(store.NewMemoryStore(store.DefaultSeed()))
	require.NoError(t, err)

	resp, err := rt.HandleEvent(context.Background(), models.Event{})
	require.NoError(t, err)
	assert.Equal(t,
		"<speak> Welcome to Adobe Analytics.. Which report suite would you like to use?... Adobe I/O portal, Partnerday Website. </speak>",
		resp.Response.OutputSpeech.SSML,
	)
}
