package brevo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateContact(t *testing.T) {
	var captured CreateContactRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/contacts", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":42}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL+"/v3", 5*time.Second)
	id, err := client.CreateContact(context.Background(), CreateContactRequest{
		Email:      "maria@exemplo.com",
		Attributes: map[string]interface{}{"FIRSTNAME": "Maria"},
		ListIDs:    []int64{4},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "maria@exemplo.com", captured.Email)
	assert.Equal(t, []int64{4}, captured.ListIDs)
	assert.Equal(t, "Maria", captured.Attributes["FIRSTNAME"])
}

func TestCreateContact_APIError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantMsg  string
	}{
		{
			name:     "duplicate",
			status:   http.StatusBadRequest,
			body:     `{"code":"duplicate_parameter","message":"Contact already exist"}`,
			wantCode: "duplicate_parameter",
			wantMsg:  "Contact already exist",
		},
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    `{"code":"unauthorized","message":"Key not found"}`,
			wantMsg: "Key not found",
		},
		{
			name:    "non json body",
			status:  http.StatusBadGateway,
			body:    `upstream unavailable`,
			wantMsg: "upstream unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient("k", srv.URL, time.Second).CreateContact(context.Background(), CreateContactRequest{Email: "a@b.com"})

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, apiErr.Code)
			}
		})
	}
}

func TestSendTransacEmail(t *testing.T) {
	var captured SendEmailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/smtp/email", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<201@smtp-relay.mailin.fr>"}`))
	}))
	defer srv.Close()

	id, err := NewClient("k", srv.URL, time.Second).SendTransacEmail(context.Background(), SendEmailRequest{
		TemplateID: 1,
		To:         []Recipient{{Email: "maria@exemplo.com", Name: "Maria Souza"}},
		Params:     map[string]interface{}{"NOME": "Maria Souza"},
	})

	require.NoError(t, err)
	assert.Equal(t, "<201@smtp-relay.mailin.fr>", id)
	assert.Equal(t, int64(1), captured.TemplateID)
	assert.Equal(t, "Maria Souza", captured.To[0].Name)
	assert.Equal(t, "Maria Souza", captured.Params["NOME"])
}

func TestCreateContact_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	id, err := NewClient("k", srv.URL, time.Second).CreateContact(context.Background(), CreateContactRequest{Email: "a@b.com"})
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestCreateContact_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient("k", srv.URL, time.Second).CreateContact(ctx, CreateContactRequest{Email: "a@b.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
