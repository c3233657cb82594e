package admin

import (
	"errors"
	"io"
	"net/http"

	"github.com/Rakhulsr/go-perfumery/app/handlers"
	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/services"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

// multipartOverhead leaves room for the text fields next to the photo.
const multipartOverhead = 1 << 20

type AdminHandler struct {
	render        *render.Render
	catalogSvc    *services.CatalogService
	offerSvc      *services.OfferService
	orderSvc      *services.OrderService
	reviewSvc     *services.ReviewService
	reportSvc     *services.ReportService
	maxPhotoBytes int64
	logger        *zap.Logger
}

func NewAdminHandler(
	render *render.Render,
	catalogSvc *services.CatalogService,
	offerSvc *services.OfferService,
	orderSvc *services.OrderService,
	reviewSvc *services.ReviewService,
	reportSvc *services.ReportService,
	maxPhotoBytes int64,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		render:        render,
		catalogSvc:    catalogSvc,
		offerSvc:      offerSvc,
		orderSvc:      orderSvc,
		reviewSvc:     reviewSvc,
		reportSvc:     reportSvc,
		maxPhotoBytes: maxPhotoBytes,
		logger:        logger.Named("admin"),
	}
}

// parseForm accepts multipart and urlencoded bodies alike.
func (h *AdminHandler) parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(h.maxPhotoBytes + multipartOverhead)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		if err := r.ParseForm(); err != nil {
			return apperror.Validation("Invalid form data")
		}
		return nil
	}
	return apperror.Validation("Invalid form data")
}

func (h *AdminHandler) perfumeForm(r *http.Request) (services.PerfumeForm, error) {
	form := services.PerfumeForm{
		Name:        handlers.FormValue(r, "name"),
		Price:       handlers.FormValue(r, "price"),
		Description: handlers.FormValue(r, "description"),
		Category:    handlers.FormValue(r, "category"),
		Quantity:    handlers.FormValue(r, "quantity"),
		TopNotes:    handlers.FormValue(r, "top_notes"),
		HeartNotes:  handlers.FormValue(r, "heart_notes"),
		BaseNotes:   handlers.FormValue(r, "base_notes"),
	}
	if r.MultipartForm != nil {
		form.Sizes = r.MultipartForm.Value["size"]
	}
	if form.Sizes == nil {
		form.Sizes = r.PostForm["size"]
	}

	file, header, err := r.FormFile("photo")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return form, nil
	case err != nil:
		return form, apperror.Validation("Invalid photo upload")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxPhotoBytes+1))
	if err != nil {
		return form, apperror.Validation("Invalid photo upload")
	}
	if len(data) > 0 {
		form.Photo = &services.PhotoUpload{Filename: header.Filename, Data: data}
	}
	return form, nil
}

// formID reads an id from the body or the query string.
func formID(r *http.Request, key string) (uint, bool) {
	return helpers.ParseID(r.FormValue(key))
}
