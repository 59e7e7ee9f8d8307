package domain

// FenceEvent 学生电子围栏进出事件（对应 fence_events 表）
type FenceEvent struct {
	EventID     int64   `db:"event_id" json:"event_id"`
	ParentEmail string  `db:"parent_email" json:"parent_email"`
	StudentName string  `db:"student_name" json:"student_name"`
	IsInside    bool    `db:"is_inside" json:"is_inside"`
	Latitude    float64 `db:"latitude" json:"latitude"`
	Longitude   float64 `db:"longitude" json:"longitude"`
	Timestamp   string  `db:"timestamp" json:"timestamp"` // 客户端上报的原始时间字符串，原样回显
}
