package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Jm141/Sts-mobile-app-trackademia/internal/aggregator"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/models"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/repository"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/store"

	"go.uber.org/zap"
)

// 日期格式 YYYY-MM-DD
const dateLayout = "2006-01-02"

// 错误文本原样作为 message 返回给移动端
//
//nolint:stylecheck // ST1005: wire text
var (
	// ErrMissingTeacherCode teacher_user_code 为空
	ErrMissingTeacherCode = errors.New("Missing teacher_user_code.")
	// ErrInvalidDateFilter date_filter 不是 YYYY-MM-DD
	ErrInvalidDateFilter = errors.New("Invalid date_filter, expected YYYY-MM-DD.")
)

// AttendanceService 教师出勤报告服务接口
type AttendanceService interface {
	// GetTeacherAttendance 重建某天的房间会话，返回该教师出现过的会话
	GetTeacherAttendance(ctx context.Context, req GetTeacherAttendanceRequest) (*GetTeacherAttendanceResponse, error)
}

// ============================================
// Request/Response DTOs
// ============================================

// GetTeacherAttendanceRequest 出勤报告请求
type GetTeacherAttendanceRequest struct {
	TeacherUserCode string `validate:"required"`                        // 必填
	DateFilter      string `validate:"omitempty,datetime=2006-01-02"` // 可选，默认今天
}

// GetTeacherAttendanceResponse 出勤报告响应
type GetTeacherAttendanceResponse struct {
	DateFilter string
	Sessions   []models.SessionRecord // 按房间首次出现顺序、slot_start 升序；无数据时为空切片
}

// AttendanceOptions 会话重建策略
type AttendanceOptions struct {
	WindowLength time.Duration  // <= 0 时使用 aggregator.DefaultWindowLength
	Location     *time.Location // 计算 "今天"，nil 为 UTC
	CacheTTL     time.Duration  // 历史日期窗口缓存；0 表示不缓存
}

// attendanceService 实现
type attendanceService struct {
	scans    repository.ScanStore
	kv       store.KV // 可为 nil
	windower *aggregator.Windower
	loc      *time.Location
	cacheTTL time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(scans repository.ScanStore, kv store.KV, opts AttendanceOptions, logger *zap.Logger) AttendanceService {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &attendanceService{
		scans:    scans,
		kv:       kv,
		windower: aggregator.NewWindower(opts.WindowLength),
		loc:      loc,
		cacheTTL: opts.CacheTTL,
		now:      time.Now,
		logger:   logger,
	}
}

// GetTeacherAttendance 获取教师出勤报告
func (s *attendanceService) GetTeacherAttendance(ctx context.Context, req GetTeacherAttendanceRequest) (*GetTeacherAttendanceResponse, error) {
	if err := validate.Struct(req); err != nil {
		switch firstInvalidField(err) {
		case "TeacherUserCode":
			return nil, ErrMissingTeacherCode
		case "DateFilter":
			return nil, ErrInvalidDateFilter
		default:
			return nil, fmt.Errorf("invalid request: %w", err)
		}
	}

	today := s.now().In(s.loc).Format(dateLayout)
	date := req.DateFilter
	if date == "" {
		date = today
	}

	windows, err := s.loadWindows(ctx, date, today)
	if err != nil {
		return nil, err
	}

	kept := aggregator.Filter(windows, aggregator.TeacherPresent(req.TeacherUserCode))

	s.logger.Debug("Teacher attendance computed",
		zap.String("teacher_user_code", req.TeacherUserCode),
		zap.String("date", date),
		zap.Int("windows", len(windows)),
		zap.Int("sessions", len(kept)),
	)

	return &GetTeacherAttendanceResponse{
		DateFilter: date,
		Sessions:   aggregator.ProjectAll(kept),
	}, nil
}

// loadWindows 读取某天全部房间的窗口
// 历史日期（早于今天）的扫描记录不再变化，可以缓存窗口结果
func (s *attendanceService) loadWindows(ctx context.Context, date, today string) ([]aggregator.Window, error) {
	cacheable := s.kv != nil && s.cacheTTL > 0 && date < today
	key := s.cacheKey(date)

	if cacheable {
		if windows, ok := s.readCache(ctx, key); ok {
			return windows, nil
		}
	}

	events, err := s.scans.ListScansByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	windows, reordered := s.windower.Reconstruct(events)
	if reordered {
		s.logger.Warn("Scan events were not time-ordered within a room, sorted before windowing",
			zap.String("date", date),
			zap.Int("events", len(events)),
		)
	}

	if cacheable {
		s.writeCache(ctx, key, windows)
	}
	return windows, nil
}

func (s *attendanceService) cacheKey(date string) string {
	return fmt.Sprintf("attendance:windows:%s:%d", date, int64(s.windower.Length()/time.Second))
}

func (s *attendanceService) readCache(ctx context.Context, key string) ([]aggregator.Window, bool) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrMiss) {
			s.logger.Warn("Failed to read attendance cache", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var windows []aggregator.Window
	if err := json.Unmarshal([]byte(raw), &windows); err != nil {
		s.logger.Warn("Failed to decode attendance cache", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return windows, true
}

func (s *attendanceService) writeCache(ctx context.Context, key string, windows []aggregator.Window) {
	data, err := json.Marshal(windows)
	if err != nil {
		s.logger.Warn("Failed to encode attendance cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, key, string(data), s.cacheTTL); err != nil {
		s.logger.Warn("Failed to write attendance cache", zap.String("key", key), zap.Error(err))
		return
	}
	s.logger.Debug("Updated attendance cache", zap.String("key", key), zap.Int("windows", len(windows)))
}
