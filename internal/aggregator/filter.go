package aggregator

import (
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/models"
)

// Predicate 窗口过滤条件
type Predicate func(w *Window) bool

// TeacherPresent 窗口的 teachers 中包含该 user_code
func TeacherPresent(code string) Predicate {
	return func(w *Window) bool {
		return w.Teachers.Has(code)
	}
}

// UserPresent 任一角色中包含该 user_code
func UserPresent(code string) Predicate {
	return func(w *Window) bool {
		return w.Teachers.Has(code) || w.Students.Has(code)
	}
}

// All 不过滤
func All() Predicate {
	return func(*Window) bool { return true }
}

// Filter 保留满足条件的窗口，顺序不变
func Filter(windows []Window, keep Predicate) []Window {
	out := make([]Window, 0, len(windows))
	for i := range windows {
		if keep(&windows[i]) {
			out = append(out, windows[i])
		}
	}
	return out
}

// Project 窗口 -> 响应记录
func Project(w Window) models.SessionRecord {
	return models.SessionRecord{
		RoomCode:        w.RoomCode,
		RoomName:        w.RoomName,
		SlotStart:       models.FormatTime(w.SlotStart),
		SlotEnd:         models.FormatTime(w.SlotEnd),
		StudentCount:    w.Students.Len(),
		TeacherCount:    w.Teachers.Len(),
		Students:        w.Students.Labels(),
		Teachers:        w.Teachers.Labels(),
		SessionStart:    models.FormatTime(w.SessionStart),
		SessionEnd:      models.FormatTime(w.SessionEnd),
		DurationMinutes: w.DurationMinutes,
	}
}

// ProjectAll 批量投影；空输入返回空切片（JSON 为 []）
func ProjectAll(windows []Window) []models.SessionRecord {
	out := make([]models.SessionRecord, 0, len(windows))
	for _, w := range windows {
		out = append(out, Project(w))
	}
	return out
}
