package handlers

import (
	"net/http"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/middlewares"
	"github.com/Rakhulsr/go-perfumery/app/services"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/renderer"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type CartHandler struct {
	render  *render.Render
	cartSvc *services.CartService
	logger  *zap.Logger
}

func NewCartHandler(r *render.Render, cartSvc *services.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{render: r, cartSvc: cartSvc, logger: logger}
}

type cartRequest struct {
	Items []services.CartItemInput `json:"items"`
}

type cartLineView struct {
	ID        uint            `json:"id"`
	PerfumeID uint            `json:"perfume_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size"`
	Stock     int             `json:"stock"`
	AddedAt   time.Time       `json:"added_at"`
	PhotoURL  string          `json:"photo_url"`
	InStock   bool            `json:"in_stock"`
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := DecodeJSON(r, &req); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	res, err := h.cartSvc.AddItems(r.Context(), middlewares.ClaimsFromContext(r.Context()), req.Items)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	switch {
	case len(res.Errors) == 0:
		h.render.JSON(w, http.StatusCreated, map[string]any{"message": "All added", "added": res.Added})
	case len(res.Added) > 0:
		h.render.JSON(w, http.StatusMultiStatus, map[string]any{"message": "Partial success", "added": res.Added, "errors": res.Errors})
	default:
		h.render.JSON(w, http.StatusBadRequest, map[string]any{"errors": res.Errors})
	}
}

func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	lines, err := h.cartSvc.View(r.Context(), middlewares.ClaimsFromContext(r.Context()))
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	baseURL := helpers.BaseURL(r)
	items := make([]cartLineView, 0, len(lines))
	for _, l := range lines {
		items = append(items, cartLineView{
			ID:        l.ID,
			PerfumeID: l.PerfumeID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Size:      l.Size,
			Stock:     l.Stock,
			AddedAt:   l.AddedAt,
			PhotoURL:  helpers.PhotoURL(baseURL, l.PerfumeID),
			InStock:   l.Available && l.Stock >= l.Quantity,
		})
	}
	h.render.JSON(w, http.StatusOK, map[string]any{"cart_items": items})
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	perfumeID, ok := helpers.ParseID(mux.Vars(r)["perfume_id"])
	if !ok {
		renderer.Error(h.render, w, h.logger, apperror.NotFound("Item not in your cart"))
		return
	}

	if err := h.cartSvc.Remove(r.Context(), middlewares.ClaimsFromContext(r.Context()), perfumeID); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	renderer.Message(h.render, w, http.StatusOK, "Item removed from cart")
}
