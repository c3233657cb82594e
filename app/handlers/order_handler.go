package handlers

import (
	"fmt"
	"net/http"

	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/middlewares"
	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/services"
	"github.com/Rakhulsr/go-perfumery/app/utils/renderer"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type OrderHandler struct {
	render   *render.Render
	orderSvc *services.OrderService
	logger   *zap.Logger
}

func NewOrderHandler(r *render.Render, orderSvc *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{render: r, orderSvc: orderSvc, logger: logger}
}

type recentOrderView struct {
	OrderID    uint               `json:"order_id"`
	OrderCode  string             `json:"order_code"`
	Date       string             `json:"date"`
	Time       string             `json:"time"`
	City       string             `json:"city"`
	Status     models.OrderStatus `json:"status"`
	GrandTotal decimal.Decimal    `json:"grand_total"`
	Items      []OrderItemView    `json:"items"`
	ItemsCount int                `json:"items_count"`
}

func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderSvc.History(r.Context(), middlewares.ClaimsFromContext(r.Context()))
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]any{"orders": OrderViews(helpers.BaseURL(r), orders)})
}

func (h *OrderHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := helpers.QueryInt(r, "limit", 5, 1, 20)
	orders, err := h.orderSvc.Recent(r.Context(), middlewares.ClaimsFromContext(r.Context()), limit)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	baseURL := helpers.BaseURL(r)
	views := make([]recentOrderView, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		items := OrderItemViews(baseURL, o.OrderItems)
		views = append(views, recentOrderView{
			OrderID:    o.ID,
			OrderCode:  o.OrderCode,
			Date:       o.CreatedAt.Format("02 Jan 2006"),
			Time:       o.CreatedAt.Format("03:04 PM"),
			City:       o.City,
			Status:     o.Status,
			GrandTotal: o.GrandTotal().Round(2),
			Items:      items,
			ItemsCount: len(items),
		})
	}

	message := "No orders found"
	if len(views) > 0 {
		message = fmt.Sprintf("Found %d recent order(s)", len(views))
	}
	h.render.JSON(w, http.StatusOK, map[string]any{
		"recent_orders": views,
		"count":         len(views),
		"message":       message,
	})
}
