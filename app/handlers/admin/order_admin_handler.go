package admin

import (
	"net/http"
	"strconv"

	"github.com/Rakhulsr/go-perfumery/app/handlers"
	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/services"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/renderer"
	"github.com/gorilla/mux"
)

func queryPositive(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orders, meta, err := h.orderSvc.AdminList(r.Context(), services.AdminOrderQuery{
		Page:   queryPositive(r, "page"),
		Limit:  queryPositive(r, "limit"),
		Status: q.Get("status"),
		Start:  q.Get("start"),
		End:    q.Get("end"),
	})
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]any{
		"orders": handlers.OrderViews(helpers.BaseURL(r), orders),
		"meta":   meta,
	})
}

func (h *AdminHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.ParseID(mux.Vars(r)["id"])
	if !ok {
		renderer.Error(h.render, w, h.logger, apperror.NotFound("Order not found"))
		return
	}

	order, err := h.orderSvc.Cancel(r.Context(), id)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]any{
		"message":    "Order cancelled successfully",
		"order_id":   order.ID,
		"order_code": order.OrderCode,
		"status":     order.Status,
	})
}
