package models

import "time"

// TimeLayout 响应中时间字段格式（按存储的墙上时间输出，不做时区换算）
const TimeLayout = "2006-01-02 15:04:05"

// AttendanceRetrievedMessage 报告成功提示
const AttendanceRetrievedMessage = "Attendance data retrieved successfully."

// FormatTime 按 TimeLayout 格式化
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// SessionRecord 单个会话（教师出勤记录）
type SessionRecord struct {
	RoomCode        string   `json:"room_code"`
	RoomName        string   `json:"room_name"`
	SlotStart       string   `json:"slot_start"`
	SlotEnd         string   `json:"slot_end"`
	StudentCount    int      `json:"student_count"`
	TeacherCount    int      `json:"teacher_count"`
	Students        []string `json:"students"` // "name (code)"，窗口内首次出现顺序
	Teachers        []string `json:"teachers"`
	SessionStart    string   `json:"session_start"`
	SessionEnd      string   `json:"session_end"`
	DurationMinutes int      `json:"duration_minutes"`
}

// TeacherAttendanceReport 教师出勤报告响应
type TeacherAttendanceReport struct {
	Result
	GroupedAttendance []SessionRecord `json:"grouped_attendance"`
	DateFilter        string          `json:"date_filter"`
	TotalSessions     int             `json:"total_sessions"`
}

// NewTeacherAttendanceReport 组装成功响应；sessions 为 nil 时输出 []
func NewTeacherAttendanceReport(date string, sessions []SessionRecord) TeacherAttendanceReport {
	if sessions == nil {
		sessions = []SessionRecord{}
	}
	return TeacherAttendanceReport{
		Result:            Success(AttendanceRetrievedMessage),
		GroupedAttendance: sessions,
		DateFilter:        date,
		TotalSessions:     len(sessions),
	}
}
