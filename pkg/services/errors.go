package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/agropricing/waitlist-api/pkg/clients/brevo"
)

// User-facing messages returned by the intake endpoint.
const (
	MsgFieldsRequired   = "Todos os campos são obrigatórios"
	MsgInvalidEmail     = "Email inválido"
	MsgInvalidPhone     = "Telefone inválido. Use o formato (11) 99999-9999"
	MsgNotConfigured    = "Configuração de email não encontrada"
	MsgSubscribed       = "Parabéns! Você foi adicionado à Lista de Espera com 50% de desconto!"
	MsgAlreadyListed    = "Este email já está cadastrado em nossa lista!"
	MsgProviderEmail    = "Email inválido. Verifique se digitou corretamente."
	MsgProviderPhone    = "Formato do WhatsApp inválido. Use apenas números com DDD (ex: 11999999999)."
	MsgSetupIncomplete  = "Configuração do Brevo incompleta. Verifique as configurações da API."
	MsgAuthFailure      = "Erro de configuração da API. Tente novamente mais tarde."
	MsgListNotFound     = "Configuração da lista de contatos não encontrada."
	MsgInternal         = "Erro interno do servidor. Tente novamente em alguns minutos."
	msgValidationPrefix = "Erro de validação: "
	msgValidationBlank  = "Dados inválidos"
)

// ErrNotConfigured is the cause of intake failures while the provider
// credential is missing.
var ErrNotConfigured = errors.New("brevo api key not configured")

// IntakeError is the only error shape the HTTP layer renders: a status code
// and a message that is safe to show to the visitor.
type IntakeError struct {
	Status  int
	Message string
	Cause   error
}

func (e *IntakeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("intake failed with %d: %s: %v", e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("intake failed with %d: %s", e.Status, e.Message)
}

func (e *IntakeError) Unwrap() error {
	return e.Cause
}

func badRequest(msg string, cause error) *IntakeError {
	return &IntakeError{Status: http.StatusBadRequest, Message: msg, Cause: cause}
}

func serverError(msg string, cause error) *IntakeError {
	return &IntakeError{Status: http.StatusInternalServerError, Message: msg, Cause: cause}
}

// ClassifyError translates any failure of the intake pipeline into an
// IntakeError. Provider business errors keep a 400, configuration problems
// and unknown failures become 500 with a generic message.
func ClassifyError(err error) *IntakeError {
	var intakeErr *IntakeError
	if errors.As(err, &intakeErr) {
		return intakeErr
	}

	var apiErr *brevo.APIError
	if !errors.As(err, &apiErr) {
		return serverError(MsgInternal, err)
	}

	msg := strings.ToLower(apiErr.Message)

	switch apiErr.StatusCode {
	case http.StatusBadRequest:
		switch {
		case strings.Contains(msg, "contact already exist") || apiErr.Code == "duplicate_parameter":
			return badRequest(MsgAlreadyListed, err)
		case strings.Contains(msg, "invalid email"):
			return badRequest(MsgProviderEmail, err)
		case strings.Contains(msg, "invalid whatsapp number") || strings.Contains(msg, "invalid phone number"):
			return badRequest(MsgProviderPhone, err)
		case strings.Contains(msg, "list not found") || apiErr.Code == "invalid_parameter":
			return serverError(MsgSetupIncomplete, err)
		case apiErr.Message != "":
			return badRequest(msgValidationPrefix+apiErr.Message, err)
		default:
			return badRequest(msgValidationPrefix+msgValidationBlank, err)
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		return serverError(MsgAuthFailure, err)
	case http.StatusNotFound:
		return serverError(MsgListNotFound, err)
	default:
		return serverError(MsgInternal, err)
	}
}
