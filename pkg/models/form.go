package models

import "time"

// WaitlistSubmission is the payload posted by the landing page waitlist form.
type WaitlistSubmission struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required"`
	Phone  string `json:"phone" binding:"required"`
	Source string `json:"source,omitempty"`
}

// SubscribeResponse is the body returned when the contact was registered.
type SubscribeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every 4xx/5xx reply from the intake endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewsletterHealth reports whether the intake endpoint can reach its provider.
type NewsletterHealth struct {
	Status          string    `json:"status"`
	Timestamp       time.Time `json:"timestamp"`
	BrevoConfigured bool      `json:"brevoConfigured"`
}
