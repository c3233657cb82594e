package admin

import (
	"fmt"
	"net/http"

	"github.com/Rakhulsr/go-perfumery/app/handlers"
	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/renderer"
	"go.uber.org/zap"
)

func (h *AdminHandler) CreatePerfume(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(r); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	form, err := h.perfumeForm(r)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	perfume, err := h.catalogSvc.Create(r.Context(), form)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	h.render.JSON(w, http.StatusCreated, map[string]any{
		"message": "Perfume added!",
		"id":      perfume.ID,
		"sizes":   []string(perfume.Sizes),
	})
}

func (h *AdminHandler) ListPerfumes(w http.ResponseWriter, r *http.Request) {
	perfumes, err := h.catalogSvc.ListAll(r.Context())
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]any{"perfumes": handlers.PerfumeViews(helpers.BaseURL(r), perfumes)})
}

func (h *AdminHandler) UpdatePerfume(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(r); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	id, ok := formID(r, "id")
	if !ok {
		renderer.Error(h.render, w, h.logger, apperror.Validation("Perfume ID required"))
		return
	}
	form, err := h.perfumeForm(r)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	if err := h.catalogSvc.Update(r.Context(), id, form); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	renderer.Message(h.render, w, http.StatusOK, "Perfume updated successfully")
}

func (h *AdminHandler) SetBestSeller(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(r); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	id, ok := formID(r, "id")
	if !ok {
		renderer.Error(h.render, w, h.logger, apperror.Validation("Perfume ID required"))
		return
	}
	isBestSeller := true
	if raw := r.FormValue("is_best_seller"); raw != "" {
		isBestSeller, _ = helpers.ParseBool(raw)
	}

	if err := h.catalogSvc.SetBestSeller(r.Context(), id, isBestSeller); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	verb := "removed from"
	if isBestSeller {
		verb = "added to"
	}
	h.render.JSON(w, http.StatusOK, map[string]any{
		"message":        fmt.Sprintf("Perfume %s best sellers successfully", verb),
		"perfume_id":     id,
		"is_best_seller": isBestSeller,
	})
}

func (h *AdminHandler) DeletePerfume(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(r); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	id, ok := formID(r, "id")
	if !ok {
		renderer.Error(h.render, w, h.logger, apperror.Validation("Perfume ID required"))
		return
	}

	if err := h.catalogSvc.Delete(r.Context(), id); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	h.logger.Info("perfume removed by admin", zap.Uint("perfume_id", id))
	renderer.Message(h.render, w, http.StatusOK, "Perfume deleted successfully")
}
