package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/middlewares"
	"github.com/Rakhulsr/go-perfumery/app/services"
	"github.com/Rakhulsr/go-perfumery/app/utils/renderer"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type FavoriteHandler struct {
	render      *render.Render
	favoriteSvc *services.FavoriteService
	logger      *zap.Logger
}

func NewFavoriteHandler(r *render.Render, favoriteSvc *services.FavoriteService, logger *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{render: r, favoriteSvc: favoriteSvc, logger: logger}
}

type favoriteView struct {
	ID        uint            `json:"id"`
	PerfumeID uint            `json:"perfume_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Sizes     []string        `json:"size"`
	AddedAt   time.Time       `json:"added_at"`
	PhotoURL  string          `json:"photo_url"`
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	var in services.FavoriteIDsInput
	if err := DecodeJSON(r, &in); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	res, err := h.favoriteSvc.Add(r.Context(), middlewares.ClaimsFromContext(r.Context()), in)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]any{
		"message":              "Favorites updated",
		"added":                res.Added,
		"already_in_favorites": res.AlreadyInFavorites,
		"errors":               res.Errors,
	})
}

func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	lines, err := h.favoriteSvc.List(r.Context(), middlewares.ClaimsFromContext(r.Context()))
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	baseURL := helpers.BaseURL(r)
	views := make([]favoriteView, 0, len(lines))
	for _, l := range lines {
		sizes := []string(l.Sizes)
		if sizes == nil {
			sizes = []string{}
		}
		views = append(views, favoriteView{
			ID:        l.ID,
			PerfumeID: l.PerfumeID,
			Name:      l.Name,
			Price:     l.Price,
			Sizes:     sizes,
			AddedAt:   l.AddedAt,
			PhotoURL:  helpers.PhotoURL(baseURL, l.PerfumeID),
		})
	}
	h.render.JSON(w, http.StatusOK, map[string]any{"favorites": views})
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var in services.FavoriteIDsInput
	if err := DecodeJSON(r, &in); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	removed, err := h.favoriteSvc.Remove(r.Context(), middlewares.ClaimsFromContext(r.Context()), in)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	if len(removed) == 0 {
		renderer.Message(h.render, w, http.StatusOK, "No items removed (not in favorites)")
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]any{
		"message":             fmt.Sprintf("Removed %d item(s)", len(removed)),
		"removed_perfume_ids": removed,
	})
}
