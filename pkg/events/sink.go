// Package events decouples the waitlist flow from whichever analytics
// transport the page uses. Producers call OnEvent; what happens next is up
// to the Sink implementation.
package events

import "go.uber.org/zap"

// Event names understood by the tag manager container.
const (
	FormStart        = "form_start_lista_espera"
	FormSubmit       = "form_submit_lista_espera"
	FormSuccess      = "form_success_lista_espera"
	FormError        = "form_error_lista_espera"
	LeadQualified    = "lead_qualified"
	WhatsAppProvided = "whatsapp_provided"
)

// Payload keys shared by the form events.
const (
	KeyFormName         = "form_name"
	KeyFormLocation     = "form_location"
	KeyFormFields       = "form_fields"
	KeyValidationErrors = "validation_errors"
)

type Sink interface {
	OnEvent(name string, payload map[string]interface{})
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(name string, payload map[string]interface{})

func (f SinkFunc) OnEvent(name string, payload map[string]interface{}) {
	f(name, payload)
}

type nopSink struct{}

func (nopSink) OnEvent(string, map[string]interface{}) {}

// Nop discards every event.
var Nop Sink = nopSink{}

type logSink struct {
	log *zap.SugaredLogger
}

// NewLogSink writes events to the structured log at debug level.
func NewLogSink(log *zap.SugaredLogger) Sink {
	return &logSink{log: log}
}

func (s *logSink) OnEvent(name string, payload map[string]interface{}) {
	kv := make([]interface{}, 0, 2+2*len(payload))
	kv = append(kv, "event", name)
	for k, v := range payload {
		kv = append(kv, k, v)
	}
	s.log.Debugw("Tracking event", kv...)
}
