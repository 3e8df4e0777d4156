package models

import (
	"bytes"
	"encoding/json"
)

const (
	TypeLaunchRequest = "LaunchRequest"
	TypeIntentRequest = "IntentRequest"

	SpeechTypePlainText = "PlainText"
	SpeechTypeSSML      = "SSML"

	// Version is the envelope schema version returned with every response.
	Version = "1.0"
)

// RequestKind is the classification of an incoming event.
type RequestKind int

const (
	KindLaunch RequestKind = iota
	KindIntent
)

func (k RequestKind) String() string {
	if k == KindIntent {
		return TypeIntentRequest
	}
	return TypeLaunchRequest
}

// Event is an incoming voice-platform request.
type Event struct {
	Session Session `json:"session"`
	Request Request `json:"request"`
	Version string  `json:"version"`
}

type Session struct {
	SessionID   string         `json:"sessionId"`
	New         bool           `json:"new"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	User        User           `json:"user"`
	Application Application    `json:"application"`
}

type User struct {
	UserID string `json:"userId"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type Request struct {
	Type      string  `json:"type"`
	RequestID string  `json:"requestId,omitempty"`
	Locale    string  `json:"locale,omitempty"`
	Timestamp string  `json:"timestamp,omitempty"`
	Intent    *Intent `json:"intent,omitempty"`
}

// Kind classifies the request. Anything other than an intent request,
// including a missing type, is treated as a launch.
func (r Request) Kind() RequestKind {
	if r.Type == TypeIntentRequest {
		return KindIntent
	}
	return KindLaunch
}

// IntentName returns the recognized intent name or "" when there is none.
func (r Request) IntentName() string {
	if r.Intent == nil {
		return ""
	}
	return r.Intent.Name
}

type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

// SlotValue reports the value of the named slot. Missing slots and slots
// without a value are both reported as absent.
func (i Intent) SlotValue(name string) (string, bool) {
	slot, ok := i.Slots[name]
	if !ok || slot.Value == "" {
		return "", false
	}
	return slot.Value, true
}

type Slot struct {
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
}

// Response is the envelope returned to the platform.
type Response struct {
	Version           string          `json:"version"`
	Response          ResponsePayload `json:"response"`
	SessionAttributes map[string]any  `json:"sessionAttributes,omitempty"`
}

type ResponsePayload struct {
	OutputSpeech     OutputSpeech `json:"outputSpeech"`
	Reprompt         *Reprompt    `json:"reprompt,omitempty"`
	ShouldEndSession bool         `json:"shouldEndSession"`
}

type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

// OutputSpeech carries either plain text or speech markup, never both.
type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	SSML string `json:"ssml,omitempty"`
}

// MarshalJSON always emits the content field matching Type, even when it
// is empty. Markup is left unescaped.
func (o OutputSpeech) MarshalJSON() ([]byte, error) {
	if o.Type == SpeechTypeSSML {
		return marshalRaw(struct {
			Type string `json:"type"`
			SSML string `json:"ssml"`
		}{o.Type, o.SSML})
	}

	typ := o.Type
	if typ == "" {
		typ = SpeechTypePlainText
	}
	return marshalRaw(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{typ, o.Text})
}

func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
