package admin

import (
	"net/http"

	"github.com/Rakhulsr/go-perfumery/app/handlers"
	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/middlewares"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/renderer"
	"github.com/gorilla/mux"
)

type reviewGroupView struct {
	PerfumeID     uint                  `json:"perfume_id"`
	PerfumeName   string                `json:"perfume_name"`
	AverageRating float64               `json:"average_rating"`
	TotalReviews  int                   `json:"total_reviews"`
	Reviews       []handlers.ReviewView `json:"reviews"`
}

func (h *AdminHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	groups, total, err := h.reviewSvc.GroupedByPerfume(r.Context())
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	views := make([]reviewGroupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, reviewGroupView{
			PerfumeID:     g.PerfumeID,
			PerfumeName:   g.PerfumeName,
			AverageRating: g.AverageRating,
			TotalReviews:  len(g.Reviews),
			Reviews:       handlers.ReviewViews(g.Reviews),
		})
	}
	h.render.JSON(w, http.StatusOK, map[string]any{
		"total_reviews":      total,
		"reviews_by_perfume": views,
	})
}

func (h *AdminHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.ParseID(mux.Vars(r)["id"])
	if !ok {
		renderer.Error(h.render, w, h.logger, apperror.NotFound("Review not found"))
		return
	}
	claims := middlewares.ClaimsFromContext(r.Context())

	review, err := h.reviewSvc.Delete(r.Context(), claims, 0, id)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	perfumeName := ""
	if review.Perfume != nil {
		perfumeName = review.Perfume.Name
	}
	h.render.JSON(w, http.StatusOK, map[string]any{
		"message": "Review deleted successfully",
		"deleted_review": map[string]any{
			"id":           review.ID,
			"perfume_name": perfumeName,
			"deleted_by":   claims.Username,
		},
	})
}
