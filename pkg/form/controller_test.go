package form

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agropricing/waitlist-api/pkg/clients/intake"
	"github.com/agropricing/waitlist-api/pkg/events"
	"github.com/agropricing/waitlist-api/pkg/models"
	"github.com/agropricing/waitlist-api/pkg/validation"
)

type mockIntake struct {
	mock.Mock
}

func (m *mockIntake) Submit(ctx context.Context, sub models.WaitlistSubmission) (string, error) {
	args := m.Called(ctx, sub)
	return args.String(0), args.Error(1)
}

type recordedEvent struct {
	name    string
	payload map[string]interface{}
}

type recorder struct {
	events []recordedEvent
}

func (r *recorder) OnEvent(name string, payload map[string]interface{}) {
	r.events = append(r.events, recordedEvent{name, payload})
}

func (r *recorder) names() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.name)
	}
	return out
}

func fill(t *testing.T, c *Controller) {
	t.Helper()
	_, err := c.Change(FieldName, "Maria Souza")
	require.NoError(t, err)
	_, err = c.Change(FieldEmail, "maria@exemplo.com")
	require.NoError(t, err)
	_, err = c.Change(FieldPhone, "11988887777")
	require.NoError(t, err)
}

func TestChange_FormatsPhoneOnEveryKeystroke(t *testing.T) {
	c := NewController(DefaultSchema(), new(mockIntake), nil)

	v, err := c.Change(FieldPhone, "119")
	require.NoError(t, err)
	assert.Equal(t, "(11) 9", v)
	assert.Equal(t, validation.MsgPhoneFormat, c.Snapshot().Errors[FieldPhone])

	v, err = c.Change(FieldPhone, "(11) 98888-7777")
	require.NoError(t, err)
	assert.Equal(t, "(11) 98888-7777", v)
	assert.Empty(t, c.Snapshot().Errors[FieldPhone])
}

func TestChange_ValidatesOnlyAfterFirstTouch(t *testing.T) {
	c := NewController(DefaultSchema(), new(mockIntake), nil)

	_, err := c.Change(FieldName, "J")
	require.NoError(t, err)
	assert.Empty(t, c.Snapshot().Errors[FieldName], "first keystroke shows no error")

	_, err = c.Change(FieldName, "J1")
	require.NoError(t, err)
	assert.Equal(t, validation.MsgNameLetters, c.Snapshot().Errors[FieldName])

	_, err = c.Change(FieldName, "João")
	require.NoError(t, err)
	assert.Empty(t, c.Snapshot().Errors[FieldName])
}

func TestBlur_ShowsError(t *testing.T) {
	c := NewController(DefaultSchema(), new(mockIntake), nil)

	require.NoError(t, c.Blur(FieldEmail))
	s := c.Snapshot()
	assert.True(t, s.Touched[FieldEmail])
	assert.Equal(t, validation.MsgEmailRequired, s.Errors[FieldEmail])

	assert.ErrorIs(t, c.Blur("company"), ErrUnknownField)
}

func TestChange_UnknownField(t *testing.T) {
	c := NewController(DefaultSchema(), new(mockIntake), nil)
	_, err := c.Change("company", "Fazenda Boa Vista")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestProgress(t *testing.T) {
	c := NewController(DefaultSchema(), new(mockIntake), nil)
	assert.Equal(t, 0, c.Progress())

	_, _ = c.Change(FieldName, "Maria Souza")
	assert.Equal(t, 33, c.Progress())

	_, _ = c.Change(FieldEmail, "maria@")
	assert.Equal(t, 33, c.Progress(), "invalid email does not count")

	_, _ = c.Change(FieldEmail, "maria@exemplo.com")
	assert.Equal(t, 67, c.Progress())

	_, _ = c.Change(FieldPhone, "11988887777")
	assert.Equal(t, 100, c.Progress())
}

func TestProgress_IgnoresOptionalFields(t *testing.T) {
	schema := DefaultSchema().With(Field{Name: "experience", Kind: KindText})
	c := NewController(schema, new(mockIntake), nil)
	fill(t, c)
	assert.Equal(t, 100, c.Progress())
	assert.True(t, c.CanSubmit())
}

func TestCanSubmit_RequiresEveryFieldValid(t *testing.T) {
	schema := DefaultSchema().With(Field{Name: "terms", Kind: KindCheckbox, Required: true})
	c := NewController(schema, new(mockIntake), nil)

	assert.False(t, c.CanSubmit())
	fill(t, c)
	assert.False(t, c.CanSubmit(), "terms not accepted")
	assert.Equal(t, 75, c.Progress())

	require.NoError(t, c.SetChecked("terms", true))
	assert.True(t, c.CanSubmit())
	assert.Equal(t, 100, c.Progress())

	assert.ErrorIs(t, c.SetChecked(FieldName, true), ErrUnknownField)
}

func TestSubmit_InvalidFormNeverCallsServer(t *testing.T) {
	client := new(mockIntake)
	rec := &recorder{}
	c := NewController(DefaultSchema(), client, rec)

	_, _ = c.Change(FieldName, "Maria Souza")
	res, err := c.Submit(context.Background())

	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Equal(t, Result{}, res)
	s := c.Snapshot()
	assert.Equal(t, Editing, s.State)
	assert.Equal(t, validation.MsgEmailRequired, s.Errors[FieldEmail])
	assert.Equal(t, validation.MsgPhoneRequired, s.Errors[FieldPhone])
	client.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, events.FormError, last.name)
	assert.Equal(t, []string{FieldEmail, FieldPhone}, last.payload[events.KeyValidationErrors])
}

func TestSubmit_Success(t *testing.T) {
	client := new(mockIntake)
	client.On("Submit", mock.Anything, models.WaitlistSubmission{
		Name:   "Maria Souza",
		Email:  "maria@exemplo.com",
		Phone:  "(11) 98888-7777",
		Source: "hero",
	}).Return("Parabéns!", nil).Once()

	rec := &recorder{}
	schema := DefaultSchema()
	schema.Source = "hero"
	c := NewController(schema, client, rec)
	fill(t, c)

	res, err := c.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Result{Success: true, Message: "Parabéns!"}, res)
	s := c.Snapshot()
	assert.Equal(t, Success, s.State)
	assert.False(t, s.Submitting)
	assert.Empty(t, s.Values, "fields are reset after success")
	require.NotNil(t, s.Result)
	assert.True(t, s.Result.Success)
	assert.Equal(t, []string{events.FormStart, events.FormSubmit, events.FormSuccess}, rec.names())
	client.AssertExpectations(t)

	_, _ = c.Change(FieldName, "Ana")
	assert.Equal(t, Editing, c.Snapshot().State)
}

func TestSubmit_FailureKeepsValues(t *testing.T) {
	client := new(mockIntake)
	client.On("Submit", mock.Anything, mock.Anything).
		Return("", &intake.SubmitError{StatusCode: 400, Message: "Este email já está cadastrado em nossa lista!"}).Once()

	c := NewController(DefaultSchema(), client, nil)
	fill(t, c)

	res, err := c.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, Result{Success: false, Message: "Este email já está cadastrado em nossa lista!"}, res)
	s := c.Snapshot()
	assert.Equal(t, Failed, s.State)
	assert.False(t, s.Submitting)
	assert.Equal(t, "Maria Souza", s.Values[FieldName])
	assert.Equal(t, "(11) 98888-7777", s.Values[FieldPhone])
}

func TestSubmit_GenericFailureMessage(t *testing.T) {
	client := new(mockIntake)
	client.On("Submit", mock.Anything, mock.Anything).Return("", errors.New("boom")).Once()

	c := NewController(DefaultSchema(), client, nil)
	fill(t, c)

	res, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, intake.MsgSubmitFailed, res.Message)
}

type blockingIntake struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingIntake) Submit(ctx context.Context, sub models.WaitlistSubmission) (string, error) {
	close(b.entered)
	<-b.release
	return "ok", nil
}

func TestSubmit_RejectsReentrantSubmission(t *testing.T) {
	client := &blockingIntake{entered: make(chan struct{}), release: make(chan struct{})}
	c := NewController(DefaultSchema(), client, nil)
	fill(t, c)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()

	<-client.entered
	assert.Equal(t, Submitting, c.Snapshot().State)
	assert.True(t, c.Snapshot().Submitting)
	assert.False(t, c.CanSubmit())

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(client.release)
	require.NoError(t, <-done)
	assert.Equal(t, Success, c.Snapshot().State)
}

func TestReset(t *testing.T) {
	c := NewController(DefaultSchema(), new(mockIntake), nil)
	fill(t, c)
	c.Reset()

	s := c.Snapshot()
	assert.Equal(t, Idle, s.State)
	assert.Empty(t, s.Values)
	assert.Equal(t, 0, s.Progress)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "error", Failed.String())
	assert.Equal(t, "state(9)", State(9).String())
}
