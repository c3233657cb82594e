package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/renderer"
	"github.com/unrolled/render"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HealthHandler struct {
	render *render.Render
	db     *gorm.DB
	logger *zap.Logger
}

func NewHealthHandler(r *render.Render, db *gorm.DB, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{render: r, db: db, logger: logger}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		renderer.Error(h.render, w, h.logger, apperror.Internal("Database unavailable", err))
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
