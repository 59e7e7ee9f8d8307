package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/Jm141/Sts-mobile-app-trackademia/internal/models"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/repository"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/service"

	"go.uber.org/zap"
)

// FenceHandler 电子围栏事件 Handler
type FenceHandler struct {
	fenceService service.FenceService
	logger       *zap.Logger
}

// NewFenceHandler 创建 FenceHandler
func NewFenceHandler(fenceService service.FenceService, logger *zap.Logger) *FenceHandler {
	return &FenceHandler{fenceService: fenceService, logger: logger}
}

// RecordFenceNotification 记录围栏事件
// POST /api/v1/fence/notification
func (h *FenceHandler) RecordFenceNotification(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusOK, serverError(err))
		return
	}

	req, err := models.DecodeFenceNotification(body)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	resp, err := h.fenceService.RecordFenceNotification(r.Context(), req)
	if err != nil {
		var storeErr *repository.StoreError
		switch {
		case errors.Is(err, service.ErrMissingFenceFields):
			writeJSON(w, http.StatusOK, Fail(err.Error()))
		case errors.As(err, &storeErr):
			h.logger.Error("RecordFenceNotification store failure",
				zap.String("request_id", requestIDFrom(r.Context())),
				zap.String("student_name", req.StudentName),
				zap.Error(err),
			)
			writeJSON(w, http.StatusOK, Fail(storeErr.Error()))
		default:
			h.logger.Error("RecordFenceNotification failed",
				zap.String("request_id", requestIDFrom(r.Context())),
				zap.Error(err),
			)
			writeJSON(w, http.StatusOK, serverError(err))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewFenceNotificationResult(resp.EventID, resp.Timestamp))
}
