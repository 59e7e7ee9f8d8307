package domain

import "time"

// 扫描角色
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// ScanEvent 房间扫描记录（attendance 表 + rooms/users 关联字段）
// 每次刷卡/定位产生一条，只读
type ScanEvent struct {
	RoomCode string    `db:"room_code"` // attendance.room_code
	RoomName string    `db:"room_name"` // rooms.room_name，LEFT JOIN 未命中时为空
	UserCode string    `db:"user_code"` // attendance.user_code
	UserName string    `db:"user_name"` // users.name，LEFT JOIN 未命中时为空
	Role     string    `db:"role"`      // 'student'/'teacher'，其它值保留但不计入成员
	TimeScan time.Time `db:"time_scan"` // 秒级精度，唯一排序键
}

// MemberLabel 成员展示字符串："name (code)"
func (e ScanEvent) MemberLabel() string {
	return e.UserName + " (" + e.UserCode + ")"
}
