package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// allowMethods 方法不匹配时返回 405
func allowMethods(h http.HandlerFunc, methods ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		for _, m := range methods {
			if req.Method == m {
				h(w, req)
				return
			}
		}
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// RegisterHealthRoutes 健康检查
func (r *Router) RegisterHealthRoutes() {
	r.Handle("/health", allowMethods(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}, http.MethodGet))
}

// RegisterAttendanceRoutes 教师出勤报告
// 保留 .php 旧路径，已发布的移动端仍在使用
func (r *Router) RegisterAttendanceRoutes(h *AttendanceHandler) {
	report := allowMethods(h.GetTeacherAttendance, http.MethodGet, http.MethodPost)
	r.Handle("/api/v1/attendance/teacher", report)
	r.Handle("/get_teacher_attendance.php", report)

	r.Handle("/api/v1/attendance/teacher/export",
		allowMethods(h.ExportTeacherAttendance, http.MethodGet, http.MethodPost))
}

// RegisterFenceRoutes 电子围栏事件上报
func (r *Router) RegisterFenceRoutes(h *FenceHandler) {
	record := allowMethods(h.RecordFenceNotification, http.MethodPost)
	r.Handle("/api/v1/fence/notification", record)
	r.Handle("/fence_notification.php", record)
}
