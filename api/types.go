package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/xraph/forge"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/flow"
	"github.com/chanderbhanswami/vardhman-mills-sub017/progress"
	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
)

// Error codes returned in the error envelope.
const (
	CodeValidationError   = "VALIDATION_ERROR"
	CodeInvalidJSON       = "INVALID_JSON"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeCardNotFound      = "CARD_NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternalError     = "INTERNAL_ERROR"
)

// Envelope is the uniform response shape for every route.
type Envelope struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// ErrorBody carries the error code and human-readable message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respond(ctx forge.Context, status int, data any) error {
	return ctx.JSON(status, Envelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

func respondError(ctx forge.Context, status int, code, message string) error {
	return ctx.JSON(status, Envelope{
		Success:   false,
		Error:     &ErrorBody{Code: code, Message: message},
		Timestamp: time.Now().UTC(),
	})
}

// fail maps a domain error onto the error envelope with a mirrored
// HTTP status.
func (a *API) fail(ctx forge.Context, err error) error {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed", "error", err.Error())
	}
	return respondError(ctx, status, code, err.Error())
}

// classify maps sentinel errors to (status, code) pairs.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, checkout.ErrUnauthorized):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, checkout.ErrGiftCardNotFound):
		return http.StatusNotFound, CodeCardNotFound
	case errors.Is(err, checkout.ErrCartNotFound),
		errors.Is(err, checkout.ErrOrderNotFound),
		errors.Is(err, checkout.ErrSessionNotFound),
		errors.Is(err, checkout.ErrAnnouncementNotFound),
		errors.Is(err, checkout.ErrCampaignNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, checkout.ErrInsufficientStock):
		return http.StatusConflict, CodeInsufficientStock
	case errors.Is(err, checkout.ErrConflict),
		errors.Is(err, checkout.ErrSessionCompleted):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, checkout.ErrUnknownStep),
		errors.Is(err, checkout.ErrForwardJump):
		return http.StatusBadRequest, CodeValidationError
	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}

// ── Request payloads ────────────────────────────────

// AddCartItemRequest is the add-to-cart proxy payload.
type AddCartItemRequest struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId,omitempty"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest changes a cart line's quantity.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// RedeemGiftCardRequest redeems a gift card by code.
type RedeemGiftCardRequest struct {
	Code string `json:"code"`
}

// VerifyEmailRequest requests verification of an address.
type VerifyEmailRequest struct {
	Email string `json:"email"`
}

// CreateSessionRequest starts a checkout session. SessionKey is
// optional; a fresh key is generated when absent.
type CreateSessionRequest struct {
	SessionKey string `json:"sessionKey,omitempty"`
}

// GoToStepRequest names the backward-jump target.
type GoToStepRequest struct {
	Step string `json:"step"`
}

// SaveStepDataRequest stores an opaque payload for a step.
type SaveStepDataRequest struct {
	Step string         `json:"step"`
	Data map[string]any `json:"data"`
}

// DismissRequest records an announcement dismissal for a session.
type DismissRequest struct {
	SessionKey string `json:"sessionKey"`
}

// ── Response payloads ───────────────────────────────

// SessionState is the wire representation of a checkout session.
type SessionState struct {
	Key            string            `json:"key"`
	CurrentStep    step.Step         `json:"currentStep"`
	CompletedSteps []step.Step       `json:"completedSteps"`
	Errors         []string          `json:"errors,omitempty"`
	Done           bool              `json:"done"`
	Progress       progress.Snapshot `json:"progress"`
}

func sessionState(s *flow.Sequencer) SessionState {
	return SessionState{
		Key:            s.Key(),
		CurrentStep:    s.Current(),
		CompletedSteps: s.CompletedSteps(),
		Errors:         s.Errors(),
		Done:           s.Done(),
		Progress:       s.Progress(),
	}
}
