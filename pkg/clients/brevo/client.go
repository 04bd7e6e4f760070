package brevo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client defines the interface for interacting with the Brevo API
type Client interface {
	CreateContact(ctx context.Context, req CreateContactRequest) (int64, error)
	SendTransacEmail(ctx context.Context, req SendEmailRequest) (string, error)
}

// CreateContactRequest is the body of POST /contacts.
type CreateContactRequest struct {
	Email      string                 `json:"email"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	ListIDs    []int64                `json:"listIds,omitempty"`
}

type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SendEmailRequest is the body of POST /smtp/email for a stored template.
type SendEmailRequest struct {
	TemplateID int64                  `json:"templateId"`
	To         []Recipient            `json:"to"`
	Params     map[string]interface{} `json:"params,omitempty"`
}

// APIError is returned for any non-2xx answer from Brevo.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("error from Brevo API (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("error from Brevo API (status %d): %s", e.StatusCode, e.Message)
}

type clientImpl struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Brevo client
func NewClient(apiKey, baseURL string, timeout time.Duration) Client {
	return &clientImpl{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *clientImpl) CreateContact(ctx context.Context, req CreateContactRequest) (int64, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := c.post(ctx, "/contacts", req, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *clientImpl) SendTransacEmail(ctx context.Context, req SendEmailRequest) (string, error) {
	var resp struct {
		MessageID string `json:"messageId"`
	}
	if err := c.post(ctx, "/smtp/email", req, &resp); err != nil {
		return "", err
	}
	return resp.MessageID, nil
}

func (c *clientImpl) post(ctx context.Context, path string, payload, out interface{}) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonPayload))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling Brevo %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil || (apiErr.Message == "" && apiErr.Code == "") {
			apiErr.Message = string(body)
		}
		return apiErr
	}

	// 204 and empty 201 bodies carry nothing to decode.
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error parsing response: %w", err)
	}
	return nil
}
