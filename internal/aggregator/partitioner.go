package aggregator

import (
	"slices"

	"github.com/Jm141/Sts-mobile-app-trackademia/internal/domain"
)

// RoomEvents 单个房间的扫描序列（按 time_scan 非递减）
type RoomEvents struct {
	RoomCode string
	Events   []domain.ScanEvent
}

// PartitionByRoom 按 room_code 分组，房间顺序为首次出现顺序，组内保持原相对顺序
//
// 上游查询应保证 (room_code, time_scan) 升序；若某个房间内时间乱序，
// 对该房间做稳定排序并返回 reordered=true，由调用方记录告警。
// 不丢弃、不重复任何事件。
func PartitionByRoom(events []domain.ScanEvent) (rooms []RoomEvents, reordered bool) {
	rooms = make([]RoomEvents, 0)
	index := make(map[string]int)

	for _, ev := range events {
		i, ok := index[ev.RoomCode]
		if !ok {
			i = len(rooms)
			index[ev.RoomCode] = i
			rooms = append(rooms, RoomEvents{RoomCode: ev.RoomCode})
		}
		rooms[i].Events = append(rooms[i].Events, ev)
	}

	for i := range rooms {
		if !slices.IsSortedFunc(rooms[i].Events, compareTimeScan) {
			slices.SortStableFunc(rooms[i].Events, compareTimeScan)
			reordered = true
		}
	}
	return rooms, reordered
}

func compareTimeScan(a, b domain.ScanEvent) int {
	return a.TimeScan.Compare(b.TimeScan)
}
