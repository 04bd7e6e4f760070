// Package form drives the waitlist form: it keeps field values, touched
// flags and errors, derives the completion percentage and submits the lead
// through the intake client.
package form

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/agropricing/waitlist-api/pkg/clients/intake"
	"github.com/agropricing/waitlist-api/pkg/events"
	"github.com/agropricing/waitlist-api/pkg/models"
	"github.com/agropricing/waitlist-api/pkg/validation"
)

type State int

const (
	Idle State = iota
	Editing
	Submitting
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	ErrInvalidForm    = errors.New("form has invalid or missing fields")
	ErrUnknownField   = errors.New("unknown form field")
)

// Result is the status message shown under the form after a submission.
type Result struct {
	Success bool
	Message string
}

// UIState is a copy of everything the page needs to render the form.
type UIState struct {
	State      State
	Values     map[string]string
	Checked    map[string]bool
	Touched    map[string]bool
	Errors     map[string]string
	Submitting bool
	Result     *Result
	Progress   int
}

type event struct {
	name    string
	payload map[string]interface{}
}

// Controller is safe for concurrent use. At most one submission runs at a
// time; the network call happens outside the lock.
type Controller struct {
	schema    Schema
	submitter intake.Client
	sink      events.Sink

	mu       sync.Mutex
	state    State
	values   map[string]string
	checked  map[string]bool
	touched  map[string]bool
	errs     map[string]string
	inFlight bool
	result   *Result
	started  bool
}

// NewController creates a controller for schema. sink may be nil.
func NewController(schema Schema, submitter intake.Client, sink events.Sink) *Controller {
	if sink == nil {
		sink = events.Nop
	}
	c := &Controller{
		schema:    schema,
		submitter: submitter,
		sink:      sink,
	}
	c.clear()
	return c
}

func (c *Controller) clear() {
	c.values = make(map[string]string, len(c.schema.Fields))
	c.checked = make(map[string]bool)
	c.touched = make(map[string]bool)
	c.errs = make(map[string]string)
}

// Change records a keystroke in a text field and returns the stored value,
// which for phone fields is the masked rendition.
func (c *Controller) Change(name, value string) (string, error) {
	c.mu.Lock()
	f, ok := c.schema.field(name)
	if !ok {
		c.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	if f.Kind == KindPhone {
		value = validation.FormatPhone(value)
	}
	c.values[name] = value

	wasTouched := c.touched[name]
	c.touched[name] = true
	if wasTouched || f.Kind == KindPhone {
		c.setError(name, f.validate(value, false))
	}

	pending := c.edited()
	c.mu.Unlock()

	c.emit(pending)
	return value, nil
}

// SetChecked updates a checkbox field such as the terms agreement.
func (c *Controller) SetChecked(name string, checked bool) error {
	c.mu.Lock()
	f, ok := c.schema.field(name)
	if !ok || f.Kind != KindCheckbox {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	c.checked[name] = checked
	c.touched[name] = true
	c.setError(name, f.validate("", checked))

	pending := c.edited()
	c.mu.Unlock()

	c.emit(pending)
	return nil
}

// Blur marks a field as touched and shows its error, if any.
func (c *Controller) Blur(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, ok := c.schema.field(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	c.touched[name] = true
	c.setError(name, f.validate(c.values[name], c.checked[name]))
	return nil
}

// Progress is the share of required fields that are filled in and valid,
// rounded to a whole percentage. It is feedback only and does not gate Submit.
func (c *Controller) Progress() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress()
}

func (c *Controller) progress() int {
	var required, done int
	for _, f := range c.schema.Fields {
		if !f.Required {
			continue
		}
		required++
		v, ch := c.values[f.Name], c.checked[f.Name]
		if f.filled(v, ch) && f.validate(v, ch) == "" {
			done++
		}
	}
	if required == 0 {
		return 100
	}
	return int(math.Round(float64(done) * 100 / float64(required)))
}

// CanSubmit reports whether the submit button should be enabled: every
// field passes its rules and nothing is in flight.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.inFlight && len(c.invalidFields()) == 0
}

func (c *Controller) invalidFields() []string {
	var invalid []string
	for _, f := range c.schema.Fields {
		if f.validate(c.values[f.Name], c.checked[f.Name]) != "" {
			invalid = append(invalid, f.Name)
		}
	}
	return invalid
}

// Submit validates every field and, when the form is complete, posts it.
// Failed submissions keep the entered values; successful ones clear them.
// The returned error is ErrInvalidForm, ErrSubmitInFlight or the intake
// client's error; Result always holds the message to display.
func (c *Controller) Submit(ctx context.Context) (Result, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return Result{}, ErrSubmitInFlight
	}

	for _, f := range c.schema.Fields {
		c.touched[f.Name] = true
		c.setError(f.Name, f.validate(c.values[f.Name], c.checked[f.Name]))
	}
	if invalid := c.invalidFields(); len(invalid) > 0 {
		if c.state != Idle {
			c.state = Editing
		}
		pending := []event{{events.FormError, c.trackingPayload(map[string]interface{}{
			events.KeyValidationErrors: invalid,
		})}}
		c.mu.Unlock()
		c.emit(pending)
		return Result{}, ErrInvalidForm
	}

	c.inFlight = true
	c.state = Submitting
	c.result = nil
	payload := models.WaitlistSubmission{
		Name:   c.values[FieldName],
		Email:  c.values[FieldEmail],
		Phone:  c.values[FieldPhone],
		Source: c.schema.Source,
	}
	pending := []event{{events.FormSubmit, c.trackingPayload(nil)}}
	c.mu.Unlock()
	c.emit(pending)

	msg, err := c.submitter.Submit(ctx, payload)

	c.mu.Lock()
	c.inFlight = false
	var res Result
	if err != nil {
		res = Result{Success: false, Message: failureMessage(err)}
		c.state = Failed
		pending = []event{{events.FormError, c.trackingPayload(map[string]interface{}{"error_message": res.Message})}}
	} else {
		res = Result{Success: true, Message: msg}
		pending = []event{{events.FormSuccess, c.trackingPayload(nil)}}
		c.state = Success
		c.clear()
	}
	c.result = &res
	c.mu.Unlock()

	c.emit(pending)
	return res, err
}

func failureMessage(err error) string {
	var submitErr *intake.SubmitError
	if errors.As(err, &submitErr) && submitErr.Message != "" {
		return submitErr.Message
	}
	return intake.MsgSubmitFailed
}

// Snapshot returns a copy of the current form state.
func (c *Controller) Snapshot() UIState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := UIState{
		State:      c.state,
		Values:     make(map[string]string, len(c.values)),
		Checked:    make(map[string]bool, len(c.checked)),
		Touched:    make(map[string]bool, len(c.touched)),
		Errors:     make(map[string]string, len(c.errs)),
		Submitting: c.inFlight,
		Progress:   c.progress(),
	}
	for k, v := range c.values {
		s.Values[k] = v
	}
	for k, v := range c.checked {
		s.Checked[k] = v
	}
	for k, v := range c.touched {
		s.Touched[k] = v
	}
	for k, v := range c.errs {
		s.Errors[k] = v
	}
	if c.result != nil {
		r := *c.result
		s.Result = &r
	}
	return s
}

// Reset returns the form to its pristine state unless a submission is running.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return
	}
	c.clear()
	c.state = Idle
	c.result = nil
	c.started = false
}

func (c *Controller) setError(name, msg string) {
	if msg == "" {
		delete(c.errs, name)
		return
	}
	c.errs[name] = msg
}

// edited moves the form into Editing after user input and reports the
// start event on the first interaction. Must hold c.mu.
func (c *Controller) edited() []event {
	if c.state != Submitting {
		c.state = Editing
	}
	if c.started {
		return nil
	}
	c.started = true
	return []event{{events.FormStart, c.trackingPayload(nil)}}
}

func (c *Controller) trackingPayload(extra map[string]interface{}) map[string]interface{} {
	filled := make([]string, 0, len(c.schema.Fields))
	for _, f := range c.schema.Fields {
		if f.filled(c.values[f.Name], c.checked[f.Name]) {
			filled = append(filled, f.Name)
		}
	}
	p := map[string]interface{}{
		events.KeyFormName:     c.schema.FormName,
		events.KeyFormLocation: c.schema.Location,
		events.KeyFormFields:   filled,
	}
	for k, v := range extra {
		p[k] = v
	}
	return p
}

func (c *Controller) emit(pending []event) {
	for _, e := range pending {
		c.sink.OnEvent(e.name, e.payload)
	}
}
