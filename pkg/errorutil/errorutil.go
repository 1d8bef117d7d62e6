package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes returned by core operations. Business-rule codes map to 4xx
// statuses so the presentation layer can show actionable messages;
// PERSISTENCE_ERROR and INTERNAL_ERROR map to 5xx.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeAlreadyLinked      = "ALREADY_LINKED"
	CodeInvalidAssociation = "INVALID_ASSOCIATION"
	CodeTicketTerminal     = "TICKET_TERMINAL"
	CodePersistence        = "PERSISTENCE_ERROR"
	CodeValidation         = "VALIDATION_FAILED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeInternal           = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, details)
}

// NewInvalidTransition rejects a status move the state machine disallows.
func NewInvalidTransition(current, requested string) error {
	return NewDomainError(CodeInvalidTransition,
		fmt.Sprintf("transition from %s to %s is not allowed", current, requested),
		http.StatusConflict,
		map[string]any{"current_status": current, "requested_status": requested})
}

// NewAlreadyLinked rejects triage toward an already linked case slot.
func NewAlreadyLinked(caseType string) error {
	return NewDomainError(CodeAlreadyLinked,
		fmt.Sprintf("ticket already has a linked %s case", caseType),
		http.StatusConflict,
		map[string]any{"case_type": caseType})
}

// NewInvalidAssociation rejects an attachment/case/ticket mismatch.
func NewInvalidAssociation(message string, details map[string]any) error {
	return NewDomainError(CodeInvalidAssociation, message, http.StatusUnprocessableEntity, details)
}

// NewTicketTerminal rejects mutation of a closed or cancelled ticket.
func NewTicketTerminal(status string) error {
	return NewDomainError(CodeTicketTerminal,
		fmt.Sprintf("ticket is %s and can no longer be modified", status),
		http.StatusConflict,
		map[string]any{"status": status})
}

// NewPersistenceError wraps a store failure. Atomic units never commit
// partially, so callers may treat this as "no state changed".
func NewPersistenceError(err error) error {
	return &DomainError{
		Code:       CodePersistence,
		Message:    "persistence failure",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
