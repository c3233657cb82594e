package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/middlewares"
	"github.com/Rakhulsr/go-perfumery/app/services"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/renderer"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	render    *render.Render
	reviewSvc *services.ReviewService
	logger    *zap.Logger
}

func NewReviewHandler(r *render.Render, reviewSvc *services.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{render: r, reviewSvc: reviewSvc, logger: logger}
}

type reviewBody struct {
	Rating  json.RawMessage `json:"rating"`
	Comment json.RawMessage `json:"comment"`
}

// reviewInput reads rating and comment from a JSON body or form values.
func reviewInput(r *http.Request) (string, string, error) {
	if IsJSON(r) {
		var body reviewBody
		if err := DecodeJSON(r, &body); err != nil {
			return "", "", err
		}
		rating, _ := helpers.ParseJSONString(body.Rating)
		comment, _ := helpers.ParseJSONString(body.Comment)
		return rating, comment, nil
	}
	return r.FormValue("rating"), r.FormValue("comment"), nil
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	perfumeID, ok := helpers.ParseID(mux.Vars(r)["id"])
	if !ok {
		renderer.Error(h.render, w, h.logger, apperror.NotFound("Perfume not found"))
		return
	}
	rating, comment, err := reviewInput(r)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	review, err := h.reviewSvc.Create(r.Context(), middlewares.ClaimsFromContext(r.Context()), perfumeID, rating, comment)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	h.render.JSON(w, http.StatusCreated, map[string]any{
		"message":    "Review added successfully",
		"review_id":  review.ID,
		"perfume_id": review.PerfumeID,
	})
}

func (h *ReviewHandler) ForPerfume(w http.ResponseWriter, r *http.Request) {
	perfumeID, ok := helpers.ParseID(mux.Vars(r)["id"])
	if !ok {
		renderer.Error(h.render, w, h.logger, apperror.NotFound("Perfume not found"))
		return
	}

	res, err := h.reviewSvc.ForPerfume(r.Context(), perfumeID)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]any{
		"perfume": map[string]any{
			"id":        res.Perfume.ID,
			"name":      res.Perfume.Name,
			"category":  res.Perfume.Category,
			"price":     res.Perfume.Price,
			"photo_url": helpers.PhotoURL(helpers.BaseURL(r), res.Perfume.ID),
		},
		"average_rating": res.AverageRating,
		"total_reviews":  res.TotalReviews,
		"reviews":        ReviewViews(res.Reviews),
	})
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	perfumeID, okP := helpers.ParseID(vars["perfume_id"])
	reviewID, okR := helpers.ParseID(vars["review_id"])
	if !okP || !okR {
		renderer.Error(h.render, w, h.logger, apperror.NotFound("Review not found"))
		return
	}

	if _, err := h.reviewSvc.Delete(r.Context(), middlewares.ClaimsFromContext(r.Context()), perfumeID, reviewID); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	renderer.Message(h.render, w, http.StatusOK, "Review deleted successfully")
}

func (h *ReviewHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := helpers.ParseID(mux.Vars(r)["id"])
	if !ok {
		renderer.Error(h.render, w, h.logger, apperror.Forbidden("You can only view your own reviews"))
		return
	}

	reviews, err := h.reviewSvc.ForUser(r.Context(), middlewares.ClaimsFromContext(r.Context()), userID)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]any{
		"user_id":       userID,
		"total_reviews": len(reviews),
		"reviews":       ReviewViews(reviews),
	})
}

type perfumeRatingView struct {
	PerfumeID     uint    `json:"perfume_id"`
	PerfumeName   string  `json:"perfume_name"`
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
}

func (h *ReviewHandler) Overview(w http.ResponseWriter, r *http.Request) {
	res, err := h.reviewSvc.Overview(r.Context())
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	stats := make([]perfumeRatingView, 0, len(res.PerPerfume))
	for _, s := range res.PerPerfume {
		stats = append(stats, perfumeRatingView{
			PerfumeID:     s.PerfumeID,
			PerfumeName:   s.PerfumeName,
			AverageRating: s.AverageRating,
			TotalReviews:  s.TotalReviews,
		})
	}
	h.render.JSON(w, http.StatusOK, map[string]any{
		"global_average_rating": res.GlobalAverage,
		"total_reviews":         res.TotalReviews,
		"perfume_statistics":    stats,
		"reviews":               ReviewViews(res.Reviews),
	})
}
