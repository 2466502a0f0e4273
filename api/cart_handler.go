package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/xraph/forge"

	"github.com/chanderbhanswami/vardhman-mills-sub017/backend"
)

func (a *API) getCart(ctx forge.Context) error {
	c, err := a.client.GetCart(ctx.Context())
	if err != nil {
		return a.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, c)
}

func (a *API) addCartItem(ctx forge.Context) error {
	var req AddCartItemRequest
	if err := ctx.Bind(&req); err != nil {
		return respondError(ctx, http.StatusBadRequest, CodeInvalidJSON, "malformed JSON body")
	}
	if msgs := validateAddItem(req); len(msgs) > 0 {
		return respondError(ctx, http.StatusBadRequest, CodeValidationError, strings.Join(msgs, "; "))
	}

	c, err := a.client.AddCartItem(ctx.Context(), backend.AddItemRequest{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return a.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, c)
}

func (a *API) updateCartItem(ctx forge.Context) error {
	itemID := ctx.Param("itemId")
	if !isUUID(itemID) {
		return respondError(ctx, http.StatusBadRequest, CodeValidationError, "itemId must be a UUID")
	}

	var req UpdateCartItemRequest
	if err := ctx.Bind(&req); err != nil {
		return respondError(ctx, http.StatusBadRequest, CodeInvalidJSON, "malformed JSON body")
	}
	if req.Quantity < 1 {
		return respondError(ctx, http.StatusBadRequest, CodeValidationError, "quantity must be at least 1")
	}

	c, err := a.client.UpdateCartItem(ctx.Context(), itemID, backend.UpdateItemRequest{Quantity: req.Quantity})
	if err != nil {
		return a.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, c)
}

func (a *API) removeCartItem(ctx forge.Context) error {
	itemID := ctx.Param("itemId")
	if !isUUID(itemID) {
		return respondError(ctx, http.StatusBadRequest, CodeValidationError, "itemId must be a UUID")
	}

	c, err := a.client.RemoveCartItem(ctx.Context(), itemID)
	if err != nil {
		return a.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, c)
}

func validateAddItem(req AddCartItemRequest) []string {
	var msgs []string
	if !isUUID(req.ProductID) {
		msgs = append(msgs, "productId must be a UUID")
	}
	if req.VariantID != "" && !isUUID(req.VariantID) {
		msgs = append(msgs, "variantId must be a UUID")
	}
	if req.Quantity < 1 {
		msgs = append(msgs, "quantity must be at least 1")
	}
	return msgs
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
