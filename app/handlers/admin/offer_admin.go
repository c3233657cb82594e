package admin

import (
	"net/http"

	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/renderer"
	"github.com/gorilla/mux"
)

func (h *AdminHandler) CreateSpecialOffer(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(r); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	// a missing or malformed id falls through as zero and is reported with
	// the other required fields
	id, _ := formID(r, "id")

	discount, err := h.offerSvc.Create(r.Context(), id, r.FormValue("discount_percentage"), r.FormValue("end_date"))
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	h.render.JSON(w, http.StatusCreated, map[string]any{
		"message":             "Special offer added successfully",
		"perfume_id":          discount.PerfumeID,
		"discount_percentage": discount.DiscountPercentage,
		"start_date":          discount.StartDate.Format("2006-01-02"),
		"end_date":            discount.EndDate.Format("2006-01-02"),
	})
}

func offerPerfumeID(r *http.Request) (uint, error) {
	id, ok := helpers.ParseID(mux.Vars(r)["id"])
	if !ok {
		return 0, apperror.NotFound("No active special offer found for this perfume")
	}
	return id, nil
}

func (h *AdminHandler) UpdateSpecialOffer(w http.ResponseWriter, r *http.Request) {
	id, err := offerPerfumeID(r)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	if err := h.parseForm(r); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	if err := h.offerSvc.Update(r.Context(), id, r.FormValue("discount_percentage"), r.FormValue("end_date")); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	renderer.Message(h.render, w, http.StatusOK, "Special offer updated successfully")
}

func (h *AdminHandler) DeleteSpecialOffer(w http.ResponseWriter, r *http.Request) {
	id, err := offerPerfumeID(r)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	if err := h.offerSvc.Delete(r.Context(), id); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}
	renderer.Message(h.render, w, http.StatusOK, "Special offer deleted successfully")
}
