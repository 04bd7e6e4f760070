// Package intake is the client side of POST /api/newsletter, used by the
// waitlist form to submit a lead.
package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agropricing/waitlist-api/pkg/models"
)

// MsgSubmitFailed is shown when the server gave no usable error message.
const MsgSubmitFailed = "Erro ao processar sua inscrição. Tente novamente."

// Client defines the interface for submitting the waitlist form
type Client interface {
	Submit(ctx context.Context, sub models.WaitlistSubmission) (string, error)
}

// SubmitError carries the message the visitor should see.
type SubmitError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *SubmitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("waitlist submission failed (status %d): %s: %v", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("waitlist submission failed (status %d): %s", e.StatusCode, e.Message)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

type clientImpl struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client posting to endpoint, e.g.
// https://agropricing.com.br/api/newsletter. A zero timeout means none.
func NewClient(endpoint string, timeout time.Duration) Client {
	return &clientImpl{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *clientImpl) Submit(ctx context.Context, sub models.WaitlistSubmission) (string, error) {
	jsonPayload, err := json.Marshal(sub)
	if err != nil {
		return "", &SubmitError{Message: MsgSubmitFailed, Err: fmt.Errorf("error creating payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonPayload))
	if err != nil {
		return "", &SubmitError{Message: MsgSubmitFailed, Err: fmt.Errorf("error creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &SubmitError{Message: MsgSubmitFailed, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &SubmitError{StatusCode: resp.StatusCode, Message: MsgSubmitFailed, Err: err}
	}

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	// An unparsable body is treated like one without success:true.
	_ = json.Unmarshal(body, &result)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !result.Success {
		msg := result.Error
		if msg == "" {
			msg = MsgSubmitFailed
		}
		return "", &SubmitError{StatusCode: resp.StatusCode, Message: msg}
	}

	return result.Message, nil
}
