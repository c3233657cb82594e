package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-perfumery/app/middlewares"
	"github.com/Rakhulsr/go-perfumery/app/services"
	"github.com/Rakhulsr/go-perfumery/app/utils/renderer"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	render      *render.Render
	checkoutSvc *services.CheckoutService
	logger      *zap.Logger
}

func NewCheckoutHandler(r *render.Render, checkoutSvc *services.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{render: r, checkoutSvc: checkoutSvc, logger: logger}
}

type checkoutResponse struct {
	Message string `json:"message"`
	*services.CheckoutResult
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req services.CheckoutRequest
	if err := DecodeJSON(r, &req); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	res, err := h.checkoutSvc.PlaceOrder(r.Context(), middlewares.ClaimsFromContext(r.Context()), &req)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	h.render.JSON(w, http.StatusCreated, checkoutResponse{Message: "Order placed successfully!", CheckoutResult: res})
}
