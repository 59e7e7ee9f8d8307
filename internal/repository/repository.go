package repository

import (
	"context"
	"fmt"

	"github.com/Jm141/Sts-mobile-app-trackademia/internal/domain"
)

// ScanStore 扫描记录查询接口
type ScanStore interface {
	// ListScansByDate 查询某一天（YYYY-MM-DD）的全部扫描记录
	// 返回结果按 (room_code, time_scan) 升序；没有房间编码的记录不返回
	ListScansByDate(ctx context.Context, date string) ([]domain.ScanEvent, error)
}

// FenceEventStore 电子围栏事件写入接口
type FenceEventStore interface {
	// InsertFenceEvent 写入一条围栏事件，返回新记录 ID
	InsertFenceEvent(ctx context.Context, event *domain.FenceEvent) (int64, error)
}

// StoreError 数据库错误（区分 prepare / execute 阶段）
// Error() 的文本会直接返回给调用方
type StoreError struct {
	Op  string // "prepare" 或 "execute"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("Database %s error: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func prepareError(err error) error {
	return &StoreError{Op: "prepare", Err: err}
}

func executeError(err error) error {
	return &StoreError{Op: "execute", Err: err}
}
