package handlers

import (
	"net/http"
	"strings"

	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/repositories"
	"github.com/Rakhulsr/go-perfumery/app/services"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/renderer"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type PerfumeHandler struct {
	render     *render.Render
	catalogSvc *services.CatalogService
	offerSvc   *services.OfferService
	logger     *zap.Logger
}

func NewPerfumeHandler(r *render.Render, catalogSvc *services.CatalogService, offerSvc *services.OfferService, logger *zap.Logger) *PerfumeHandler {
	return &PerfumeHandler{render: r, catalogSvc: catalogSvc, offerSvc: offerSvc, logger: logger}
}

func priceQuery(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperror.Validation("Invalid %s", key)
	}
	return &d, nil
}

func (h *PerfumeHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.PerfumeFilter{InStockOnly: true}
	var err error
	if filter.MinPrice, err = priceQuery(r, "min_price"); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	if filter.MaxPrice, err = priceQuery(r, "max_price"); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	if raw := r.URL.Query().Get("in_stock_only"); raw != "" {
		inStock, _ := helpers.ParseBool(raw)
		filter.InStockOnly = inStock
	}

	perfumes, err := h.catalogSvc.ListAvailable(r.Context(), filter)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]any{"perfumes": PerfumeViews(helpers.BaseURL(r), perfumes)})
}

func (h *PerfumeHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.ParseID(mux.Vars(r)["id"])
	if !ok {
		renderer.Error(h.render, w, h.logger, apperror.NotFound("Perfume not found"))
		return
	}

	perfume, err := h.catalogSvc.Get(r.Context(), id)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]any{"perfume": NewPerfumeView(helpers.BaseURL(r), perfume)})
}

func (h *PerfumeHandler) BestSellers(w http.ResponseWriter, r *http.Request) {
	perfumes, err := h.catalogSvc.BestSellers(r.Context())
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]any{"best_sellers": PerfumeViews(helpers.BaseURL(r), perfumes)})
}

func (h *PerfumeHandler) NewArrivals(w http.ResponseWriter, r *http.Request) {
	perfumes, err := h.catalogSvc.NewArrivals(r.Context())
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]any{"new_arrivals": PerfumeViews(helpers.BaseURL(r), perfumes)})
}

type specialOfferView struct {
	ID                 uint            `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	Quantity           int             `json:"quantity"`
	Category           string          `json:"category"`
	Sizes              []string        `json:"size"`
	TopNotes           string          `json:"top_notes"`
	HeartNotes         string          `json:"heart_notes"`
	BaseNotes          string          `json:"base_notes"`
	IsBestSeller       bool            `json:"is_best_seller"`
	OriginalPrice      decimal.Decimal `json:"original_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	DiscountedPrice    decimal.Decimal `json:"discounted_price"`
	EndDate            string          `json:"end_date"`
	InStock            bool            `json:"in_stock"`
	StockLevel         string          `json:"stock_level"`
	PhotoURL           string          `json:"photo_url"`
}

func (h *PerfumeHandler) SpecialOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.offerSvc.ListActive(r.Context())
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	baseURL := helpers.BaseURL(r)
	views := make([]specialOfferView, 0, len(offers))
	for _, o := range offers {
		stockLevel := "available"
		if o.Quantity <= models.LowStockThreshold {
			stockLevel = "low"
		}
		sizes := []string(o.Sizes)
		if sizes == nil {
			sizes = []string{}
		}
		views = append(views, specialOfferView{
			ID:                 o.ID,
			Name:               o.Name,
			Description:        o.Description,
			Quantity:           o.Quantity,
			Category:           o.Category,
			Sizes:              sizes,
			TopNotes:           o.TopNotes,
			HeartNotes:         o.HeartNotes,
			BaseNotes:          o.BaseNotes,
			IsBestSeller:       o.IsBestSeller,
			OriginalPrice:      o.Price,
			DiscountPercentage: o.DiscountPercentage,
			DiscountedPrice:    o.DiscountedPrice,
			EndDate:            o.EndDate.Format("2006-01-02"),
			InStock:            o.Quantity > 0,
			StockLevel:         stockLevel,
			PhotoURL:           helpers.PhotoURL(baseURL, o.ID),
		})
	}
	h.render.JSON(w, http.StatusOK, map[string]any{"special_offers": views})
}

func (h *PerfumeHandler) Photo(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.ParseID(mux.Vars(r)["id"])
	if !ok {
		renderer.Error(h.render, w, h.logger, apperror.NotFound("Photo not found"))
		return
	}

	data, contentType, err := h.catalogSvc.Photo(r.Context(), id)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	h.render.Data(w, http.StatusOK, data)
}
