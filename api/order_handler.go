package api

import (
	"net/http"
	"strings"

	"github.com/xraph/forge"
)

func (a *API) getOrder(ctx forge.Context) error {
	orderID := ctx.Param("orderId")
	if !isUUID(orderID) {
		return respondError(ctx, http.StatusBadRequest, CodeValidationError, "orderId must be a UUID")
	}

	order, err := a.client.GetOrder(ctx.Context(), orderID)
	if err != nil {
		return a.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, order)
}

func (a *API) getGiftCard(ctx forge.Context) error {
	code := strings.TrimSpace(ctx.Param("code"))
	if code == "" {
		return respondError(ctx, http.StatusBadRequest, CodeValidationError, "code must not be empty")
	}

	card, err := a.client.GetGiftCard(ctx.Context(), code)
	if err != nil {
		return a.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, card)
}

func (a *API) redeemGiftCard(ctx forge.Context) error {
	var req RedeemGiftCardRequest
	if err := ctx.Bind(&req); err != nil {
		return respondError(ctx, http.StatusBadRequest, CodeInvalidJSON, "malformed JSON body")
	}
	if strings.TrimSpace(req.Code) == "" {
		return respondError(ctx, http.StatusBadRequest, CodeValidationError, "code must not be empty")
	}

	card, err := a.client.RedeemGiftCard(ctx.Context(), req.Code)
	if err != nil {
		return a.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, card)
}
