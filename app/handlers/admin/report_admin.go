package admin

import (
	"net/http"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/repositories"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/renderer"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type salesSummaryView struct {
	TotalOrders       int64           `json:"total_orders"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalShipping     decimal.Decimal `json:"total_shipping"`
	TotalTax          decimal.Decimal `json:"total_tax"`
	AvgOrderValue     decimal.Decimal `json:"avg_order_value"`
	TotalSalesDisplay string          `json:"total_sales_display"`
}

type statusCountView struct {
	Status models.OrderStatus `json:"status"`
	Count  int64              `json:"count"`
}

type topPerfumeView struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	NumOrders     int64           `json:"num_orders"`
}

type dailySalesView struct {
	Date     string          `json:"date"`
	Orders   int64           `json:"orders"`
	Quantity int64           `json:"quantity,omitempty"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type paymentMethodView struct {
	PaymentMethod string          `json:"payment_method"`
	Count         int64           `json:"count"`
	Revenue       decimal.Decimal `json:"revenue"`
}

type monthlyView struct {
	Month               string          `json:"month"`
	TotalOrders         int64           `json:"total_orders"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	AvgOrderValue       decimal.Decimal `json:"avg_order_value"`
	CompletedOrders     int64           `json:"completed_orders"`
	CancelledOrders     int64           `json:"cancelled_orders"`
	TotalRevenueDisplay string          `json:"total_revenue_display"`
}

func dailyViews(rows []repositories.DailySales) []dailySalesView {
	views := make([]dailySalesView, 0, len(rows))
	for _, d := range rows {
		views = append(views, dailySalesView{Date: d.Date, Orders: d.Orders, Quantity: d.Quantity, Revenue: d.Revenue})
	}
	return views
}

func reportDays(r *http.Request) int {
	return helpers.QueryInt(r, "days", 30, 1, 365)
}

func (h *AdminHandler) SalesReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportSvc.Sales(r.Context(), reportDays(r))
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	statuses := make([]statusCountView, 0, len(report.OrdersByStatus))
	for _, s := range report.OrdersByStatus {
		statuses = append(statuses, statusCountView{Status: s.Status, Count: s.Count})
	}
	top := make([]topPerfumeView, 0, len(report.TopPerfumes))
	for _, p := range report.TopPerfumes {
		top = append(top, topPerfumeView{
			ID:            p.ID,
			Name:          p.Name,
			TotalQuantity: p.TotalQuantity,
			TotalRevenue:  p.TotalRevenue,
			NumOrders:     p.NumOrders,
		})
	}
	methods := make([]paymentMethodView, 0, len(report.PaymentMethods))
	for _, m := range report.PaymentMethods {
		methods = append(methods, paymentMethodView{PaymentMethod: m.PaymentMethod, Count: m.Count, Revenue: m.Revenue})
	}

	h.render.JSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"period_days": report.PeriodDays,
		"timestamp":   report.GeneratedAt.Format(time.RFC3339),
		"summary": salesSummaryView{
			TotalOrders:       report.Summary.TotalOrders,
			TotalSales:        report.Summary.TotalSales,
			TotalShipping:     report.Summary.TotalShipping,
			TotalTax:          report.Summary.TotalTax,
			AvgOrderValue:     report.Summary.AvgOrderValue,
			TotalSalesDisplay: report.TotalSalesDisplay,
		},
		"orders_by_status": statuses,
		"top_perfumes":     top,
		"daily_sales":      dailyViews(report.DailySales),
		"payment_methods":  methods,
	})
}

func (h *AdminHandler) PerfumeRevenue(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.ParseID(mux.Vars(r)["id"])
	if !ok {
		renderer.Error(h.render, w, h.logger, apperror.NotFound("Perfume not found"))
		return
	}

	res, err := h.reportSvc.Perfume(r.Context(), id, reportDays(r))
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]any{
		"perfume": map[string]any{"id": res.Perfume.ID, "name": res.Perfume.Name},
		"stats": map[string]any{
			"total_quantity_sold": res.Stats.TotalQuantitySold,
			"total_orders":        res.Stats.TotalOrders,
			"total_revenue":       res.Stats.TotalRevenue,
			"avg_price_sold":      res.Stats.AvgPriceSold,
		},
		"daily_sales": dailyViews(res.DailySales),
	})
}

func (h *AdminHandler) MonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reportSvc.Monthly(r.Context())
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	views := make([]monthlyView, 0, len(rows))
	for _, m := range rows {
		views = append(views, monthlyView{
			Month:               m.Month,
			TotalOrders:         m.TotalOrders,
			TotalRevenue:        m.TotalRevenue,
			AvgOrderValue:       m.AvgOrderValue,
			CompletedOrders:     m.CompletedOrders,
			CancelledOrders:     m.CancelledOrders,
			TotalRevenueDisplay: m.TotalRevenueDisplay,
		})
	}
	h.render.JSON(w, http.StatusOK, map[string]any{"monthly_revenue": views})
}
