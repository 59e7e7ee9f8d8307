package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Jm141/Sts-mobile-app-trackademia/internal/export"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/models"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/repository"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/service"

	"go.uber.org/zap"
)

// AttendanceHandler 教师出勤报告 Handler
type AttendanceHandler struct {
	attendanceService service.AttendanceService
	logger            *zap.Logger
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceService service.AttendanceService, logger *zap.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
		logger:            logger,
	}
}

type attendanceParams struct {
	TeacherUserCode string `json:"teacher_user_code"`
	DateFilter      string `json:"date_filter"`
}

// parseAttendanceParams 参数来源：JSON body，或 query + form body
func parseAttendanceParams(r *http.Request) (service.GetTeacherAttendanceRequest, error) {
	var p attendanceParams
	if r.Method == http.MethodPost && isJSONRequest(r) {
		if err := readBodyJSON(r, maxBodyBytes, &p); err != nil {
			return service.GetTeacherAttendanceRequest{}, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return service.GetTeacherAttendanceRequest{}, err
		}
		p.TeacherUserCode = r.Form.Get("teacher_user_code")
		p.DateFilter = r.Form.Get("date_filter")
	}
	return service.GetTeacherAttendanceRequest{
		TeacherUserCode: p.TeacherUserCode,
		DateFilter:      p.DateFilter,
	}, nil
}

// report 查询报告；失败时已写出错误响应并返回 false
func (h *AttendanceHandler) report(w http.ResponseWriter, r *http.Request) (models.TeacherAttendanceReport, service.GetTeacherAttendanceRequest, bool) {
	req, err := parseAttendanceParams(r)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("Invalid request parameters: "+err.Error()))
		return models.TeacherAttendanceReport{}, req, false
	}

	resp, err := h.attendanceService.GetTeacherAttendance(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, req, err)
		return models.TeacherAttendanceReport{}, req, false
	}
	return models.NewTeacherAttendanceReport(resp.DateFilter, resp.Sessions), req, true
}

func (h *AttendanceHandler) writeServiceError(w http.ResponseWriter, r *http.Request, req service.GetTeacherAttendanceRequest, err error) {
	var storeErr *repository.StoreError
	switch {
	case errors.Is(err, service.ErrMissingTeacherCode), errors.Is(err, service.ErrInvalidDateFilter):
		writeJSON(w, http.StatusOK, Fail(err.Error()))
	case errors.As(err, &storeErr):
		h.logger.Error("GetTeacherAttendance store failure",
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.String("teacher_user_code", req.TeacherUserCode),
			zap.String("date_filter", req.DateFilter),
			zap.Error(err),
		)
		writeJSON(w, http.StatusOK, Fail(storeErr.Error()))
	default:
		h.logger.Error("GetTeacherAttendance failed",
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.String("teacher_user_code", req.TeacherUserCode),
			zap.Error(err),
		)
		writeJSON(w, http.StatusOK, serverError(err))
	}
}

// GetTeacherAttendance 教师出勤报告
// GET|POST /api/v1/attendance/teacher?teacher_user_code=T001&date_filter=2025-03-10
func (h *AttendanceHandler) GetTeacherAttendance(w http.ResponseWriter, r *http.Request) {
	report, _, ok := h.report(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ExportTeacherAttendance 导出 xlsx；出错时返回 JSON 错误
// GET|POST /api/v1/attendance/teacher/export
func (h *AttendanceHandler) ExportTeacherAttendance(w http.ResponseWriter, r *http.Request) {
	report, req, ok := h.report(w, r)
	if !ok {
		return
	}

	data, err := export.GenerateAttendanceWorkbook(report)
	if err != nil {
		h.logger.Error("Failed to generate attendance workbook",
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, http.StatusOK, serverError(err))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(req.TeacherUserCode, report.DateFilter)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
