package aggregator

import (
	"math"
	"time"

	"github.com/Jm141/Sts-mobile-app-trackademia/internal/domain"
)

// DefaultWindowLength 默认会话窗口长度（1 小时）
const DefaultWindowLength = 3600 * time.Second

// Window 一个房间内的一个会话窗口（过滤前）
// SessionStart 恒等于 SlotStart（窗口由第一条未消费事件打开）
type Window struct {
	RoomCode        string     `json:"room_code"`
	RoomName        string     `json:"room_name"`
	SlotStart       time.Time  `json:"slot_start"`
	SlotEnd         time.Time  `json:"slot_end"`
	SessionStart    time.Time  `json:"session_start"`
	SessionEnd      time.Time  `json:"session_end"`
	Students        *MemberSet `json:"students"`
	Teachers        *MemberSet `json:"teachers"`
	EventCount      int        `json:"event_count"`
	DurationMinutes int        `json:"duration_minutes"`
}

// Windower 会话窗口切分器
// 窗口边界由数据驱动：从第一条未消费事件开始，长度固定，不与整点对齐
type Windower struct {
	length time.Duration
}

// NewWindower 创建切分器；length <= 0 时使用 DefaultWindowLength
func NewWindower(length time.Duration) *Windower {
	if length <= 0 {
		length = DefaultWindowLength
	}
	return &Windower{length: length}
}

// Length 窗口长度
func (w *Windower) Length() time.Duration {
	return w.length
}

// Slice 将一个房间的有序事件切分为连续、不重叠的窗口
func (w *Windower) Slice(room RoomEvents) []Window {
	events := room.Events
	n := len(events)
	windows := make([]Window, 0)

	for i := 0; i < n; {
		start := events[i].TimeScan
		end := start.Add(w.length)

		win := Window{
			RoomCode:     room.RoomCode,
			RoomName:     events[i].RoomName,
			SlotStart:    start,
			SlotEnd:      end,
			SessionStart: start,
			SessionEnd:   start,
			Students:     NewMemberSet(),
			Teachers:     NewMemberSet(),
		}

		j := i
		for j < n && events[j].TimeScan.Before(end) {
			ev := events[j]
			switch ev.Role {
			case domain.RoleStudent:
				win.Students.Put(ev.UserCode, ev.MemberLabel())
			case domain.RoleTeacher:
				win.Teachers.Put(ev.UserCode, ev.MemberLabel())
			}
			if ev.TimeScan.After(win.SessionEnd) {
				win.SessionEnd = ev.TimeScan
			}
			j++
		}

		win.EventCount = j - i
		win.DurationMinutes = durationMinutes(win.SlotStart, win.SessionEnd)
		windows = append(windows, win)
		i = j
	}
	return windows
}

// SliceRooms 依次切分每个房间，保持房间顺序与房间内时间顺序
func (w *Windower) SliceRooms(rooms []RoomEvents) []Window {
	windows := make([]Window, 0)
	for _, room := range rooms {
		windows = append(windows, w.Slice(room)...)
	}
	return windows
}

// Reconstruct 分组 + 切分
func (w *Windower) Reconstruct(events []domain.ScanEvent) ([]Window, bool) {
	rooms, reordered := PartitionByRoom(events)
	return w.SliceRooms(rooms), reordered
}

// durationMinutes 四舍五入（远离零）到分钟
func durationMinutes(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Seconds() / 60))
}
