// Package speech turns spoken-output descriptions into response envelopes.
package speech

import (
	"maps"
	"strings"

	"bitbucket.org/sotavant/analytics-voice-skill/internal/models"
)

const (
	markupOpen  = "<speak>"
	markupClose = "</speak>"
)

type Kind int

const (
	KindPlainText Kind = iota
	KindMarkup
)

// Output is a single utterance. Markup content is raw text; the builder
// adds the root element.
type Output struct {
	Kind    Kind
	Content string
}

func PlainText(text string) Output {
	return Output{Kind: KindPlainText, Content: text}
}

func Markup(text string) Output {
	return Output{Kind: KindMarkup, Content: text}
}

// Reply describes one turn of the conversation.
type Reply struct {
	Output     Output
	Reprompt   *Output
	EndSession bool
}

// Builder assembles envelopes. It holds no mutable state; the session
// attributes it forwards are copied into every envelope it produces.
type Builder struct {
	attributes map[string]any
}

func NewBuilder(attributes map[string]any) *Builder {
	return &Builder{attributes: attributes}
}

// Ask keeps the session open and always carries a reprompt.
func (b *Builder) Ask(output, reprompt string) *models.Response {
	r := Markup(reprompt)
	return b.Build(Reply{Output: Markup(output), Reprompt: &r})
}

// Tell closes the session. The envelope has no reprompt.
func (b *Builder) Tell(output string) *models.Response {
	return b.Build(Reply{Output: Markup(output), EndSession: true})
}

// Answer speaks the output and keeps the session open without a reprompt.
func (b *Builder) Answer(output string) *models.Response {
	return b.Build(Reply{Output: Markup(output)})
}

func (b *Builder) Build(r Reply) *models.Response {
	resp := &models.Response{
		Version: models.Version,
		Response: models.ResponsePayload{
			OutputSpeech:     render(r.Output),
			ShouldEndSession: r.EndSession,
		},
	}

	if r.Reprompt != nil && !r.EndSession {
		resp.Response.Reprompt = &models.Reprompt{OutputSpeech: render(*r.Reprompt)}
	}

	// An empty attribute map carries no state; it is omitted like a nil one.
	if len(b.attributes) > 0 {
		resp.SessionAttributes = maps.Clone(b.attributes)
	}

	return resp
}

func render(o Output) models.OutputSpeech {
	if o.Kind == KindMarkup {
		return models.OutputSpeech{Type: models.SpeechTypeSSML, SSML: wrap(o.Content)}
	}
	return models.OutputSpeech{Type: models.SpeechTypePlainText, Text: o.Content}
}

// wrap encloses text in the markup root element. Text that is already
// wrapped is returned unchanged. No escaping is applied.
func wrap(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, markupOpen) && strings.HasSuffix(trimmed, markupClose) {
		return trimmed
	}
	return markupOpen + " " + text + " " + markupClose
}
