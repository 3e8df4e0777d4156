// Command invoke runs a single event through the skill and prints the
// response envelope, the way a serverless action would be invoked.
//
// The event is read from -f (or stdin when -f is "-"). Without -f an event
// is synthesized from -type, -intent and -slot.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bitbucket.org/sotavant/analytics-voice-skill/internal/logger"
	"bitbucket.org/sotavant/analytics-voice-skill/internal/models"
	"bitbucket.org/sotavant/analytics-voice-skill/internal/skill/analytics"
	"bitbucket.org/sotavant/analytics-voice-skill/internal/store"
)

type slotFlags map[string]models.Slot

func (s slotFlags) String() string {
	pairs := make([]string, 0, len(s))
	for name, slot := range s {
		pairs = append(pairs, name+"="+slot.Value)
	}
	return strings.Join(pairs, ",")
}

func (s slotFlags) Set(v string) error {
	name, value, ok := strings.Cut(v, "=")
	if !ok || name == "" {
		return fmt.Errorf("slot must be name=value, got %q", v)
	}
	s[name] = models.Slot{Name: name, Value: value}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("invoke", flag.ContinueOnError)
	file := fs.String("f", "", "event JSON file, - for stdin")
	reqType := fs.String("type", models.TypeLaunchRequest, "request type when synthesizing an event")
	intent := fs.String("intent", "", "intent name; implies IntentRequest")
	logLevel := fs.String("l", "error", "log level")
	slots := slotFlags{}
	fs.Var(slots, "slot", "slot as name=value, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := logger.Initialize(*logLevel); err != nil {
		return err
	}
	defer func() { _ = logger.Log.Sync() }()

	event, err := loadEvent(*file, stdin)
	if err != nil {
		return err
	}
	if *file == "" {
		event = synthesize(*reqType, *intent, slots)
	}

	router, err := analytics.NewRouter(store.NewMemoryStore(store.DefaultSeed()))
	if err != nil {
		return err
	}

	logger.Log.Debug("invoking skill",
		zap.String("request_type", event.Request.Type),
		zap.String("intent", event.Request.IntentName()),
	)

	resp, err := router.HandleEvent(context.Background(), event)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func loadEvent(path string, stdin io.Reader) (models.Event, error) {
	var event models.Event
	if path == "" {
		return event, nil
	}

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return event, fmt.Errorf("open event: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&event); err != nil {
		return event, fmt.Errorf("decode event: %w", err)
	}
	return event, nil
}

func synthesize(reqType, intent string, slots slotFlags) models.Event {
	event := models.Event{
		Session: models.Session{
			SessionID: "SessionId." + uuid.NewString(),
			New:       true,
		},
		Request: models.Request{
			Type:      reqType,
			RequestID: "EdwRequestId." + uuid.NewString(),
		},
		Version: models.Version,
	}

	if intent != "" {
		event.Request.Type = models.TypeIntentRequest
		event.Request.Intent = &models.Intent{Name: intent, Slots: slots}
	}
	return event
}
