package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Jm141/Sts-mobile-app-trackademia/internal/domain"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

func newTestAttendanceService(scans repository.ScanStore, kv *fakeKV) *attendanceService {
	opts := AttendanceOptions{WindowLength: time.Hour, CacheTTL: 5 * time.Minute}
	var svc AttendanceService
	if kv != nil {
		svc = NewAttendanceService(scans, kv, opts, zap.NewNop())
	} else {
		svc = NewAttendanceService(scans, nil, opts, zap.NewNop())
	}
	s := svc.(*attendanceService)
	s.now = func() time.Time { return fixedNow }
	return s
}

func ts(date string, clock string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", date+" "+clock)
	if err != nil {
		panic(err)
	}
	return t
}

func morningScans(date string) []domain.ScanEvent {
	return []domain.ScanEvent{
		{RoomCode: "R1", RoomName: "Room 101", UserCode: "T", UserName: "Teacher T", Role: domain.RoleTeacher, TimeScan: ts(date, "09:00:00")},
		{RoomCode: "R1", RoomName: "Room 101", UserCode: "S1", UserName: "Ana", Role: domain.RoleStudent, TimeScan: ts(date, "09:10:00")},
		{RoomCode: "R1", RoomName: "Room 101", UserCode: "S2", UserName: "Ben", Role: domain.RoleStudent, TimeScan: ts(date, "09:50:00")},
		{RoomCode: "R1", RoomName: "Room 101", UserCode: "T", UserName: "Teacher T", Role: domain.RoleTeacher, TimeScan: ts(date, "10:05:00")},
		{RoomCode: "R2", RoomName: "Lab", UserCode: "U", UserName: "Teacher U", Role: domain.RoleTeacher, TimeScan: ts(date, "09:00:00")},
	}
}

func TestGetTeacherAttendance_FiltersByTeacher(t *testing.T) {
	scans := &mockScanStore{}
	scans.On("ListScansByDate", mock.Anything, "2025-03-12").Return(morningScans("2025-03-12"), nil)
	svc := newTestAttendanceService(scans, nil)

	resp, err := svc.GetTeacherAttendance(context.Background(), GetTeacherAttendanceRequest{
		TeacherUserCode: "T",
		DateFilter:      "2025-03-12",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-12", resp.DateFilter)
	require.Len(t, resp.Sessions, 2)

	first := resp.Sessions[0]
	assert.Equal(t, "R1", first.RoomCode)
	assert.Equal(t, "2025-03-12 09:00:00", first.SlotStart)
	assert.Equal(t, "2025-03-12 10:00:00", first.SlotEnd)
	assert.Equal(t, "2025-03-12 09:50:00", first.SessionEnd)
	assert.Equal(t, []string{"Ana (S1)", "Ben (S2)"}, first.Students)
	assert.Equal(t, 50, first.DurationMinutes)

	second := resp.Sessions[1]
	assert.Equal(t, "2025-03-12 10:05:00", second.SlotStart)
	assert.Equal(t, 0, second.StudentCount)
	assert.Equal(t, 0, second.DurationMinutes)

	scans.AssertExpectations(t)
}

func TestGetTeacherAttendance_OtherTeacherGetsNothingFromR1(t *testing.T) {
	scans := &mockScanStore{}
	scans.On("ListScansByDate", mock.Anything, "2025-03-12").Return(morningScans("2025-03-12"), nil)
	svc := newTestAttendanceService(scans, nil)

	resp, err := svc.GetTeacherAttendance(context.Background(), GetTeacherAttendanceRequest{
		TeacherUserCode: "U",
		DateFilter:      "2025-03-12",
	})
	require.NoError(t, err)
	require.Len(t, resp.Sessions, 1)
	assert.Equal(t, "R2", resp.Sessions[0].RoomCode)
}

func TestGetTeacherAttendance_EmptyDay(t *testing.T) {
	scans := &mockScanStore{}
	scans.On("ListScansByDate", mock.Anything, "2025-03-12").Return([]domain.ScanEvent{}, nil)
	svc := newTestAttendanceService(scans, nil)

	resp, err := svc.GetTeacherAttendance(context.Background(), GetTeacherAttendanceRequest{TeacherUserCode: "T"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-12", resp.DateFilter) // 默认今天
	assert.NotNil(t, resp.Sessions)
	assert.Len(t, resp.Sessions, 0)
}

func TestGetTeacherAttendance_MissingTeacherSkipsStore(t *testing.T) {
	scans := &mockScanStore{}
	svc := newTestAttendanceService(scans, nil)

	_, err := svc.GetTeacherAttendance(context.Background(), GetTeacherAttendanceRequest{DateFilter: "2025-03-12"})
	assert.ErrorIs(t, err, ErrMissingTeacherCode)
	assert.Equal(t, "Missing teacher_user_code.", err.Error())
	scans.AssertNotCalled(t, "ListScansByDate", mock.Anything, mock.Anything)
}

func TestGetTeacherAttendance_InvalidDate(t *testing.T) {
	scans := &mockScanStore{}
	svc := newTestAttendanceService(scans, nil)

	_, err := svc.GetTeacherAttendance(context.Background(), GetTeacherAttendanceRequest{
		TeacherUserCode: "T",
		DateFilter:      "12/03/2025",
	})
	assert.ErrorIs(t, err, ErrInvalidDateFilter)
	scans.AssertNotCalled(t, "ListScansByDate", mock.Anything, mock.Anything)
}

func TestGetTeacherAttendance_StoreErrorPassesThrough(t *testing.T) {
	storeErr := &repository.StoreError{Op: "execute", Err: errors.New("timeout")}
	scans := &mockScanStore{}
	scans.On("ListScansByDate", mock.Anything, "2025-03-12").Return(nil, storeErr)
	svc := newTestAttendanceService(scans, nil)

	resp, err := svc.GetTeacherAttendance(context.Background(), GetTeacherAttendanceRequest{
		TeacherUserCode: "T",
		DateFilter:      "2025-03-12",
	})
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, "Database execute error: timeout", err.Error())
}

func TestGetTeacherAttendance_DefaultDateUsesLocation(t *testing.T) {
	scans := &mockScanStore{}
	scans.On("ListScansByDate", mock.Anything, "2025-03-13").Return([]domain.ScanEvent{}, nil)
	svc := newTestAttendanceService(scans, nil)
	svc.loc = time.FixedZone("UTC+10", 10*3600) // 15:00 UTC -> 次日 01:00

	resp, err := svc.GetTeacherAttendance(context.Background(), GetTeacherAttendanceRequest{TeacherUserCode: "T"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-13", resp.DateFilter)
	scans.AssertExpectations(t)
}

func TestGetTeacherAttendance_PastDateCached(t *testing.T) {
	kv := newFakeKV()
	scans := &mockScanStore{}
	scans.On("ListScansByDate", mock.Anything, "2025-03-10").Return(morningScans("2025-03-10"), nil).Once()
	svc := newTestAttendanceService(scans, kv)

	req := GetTeacherAttendanceRequest{TeacherUserCode: "T", DateFilter: "2025-03-10"}
	first, err := svc.GetTeacherAttendance(context.Background(), req)
	require.NoError(t, err)

	assert.Contains(t, kv.data, "attendance:windows:2025-03-10:3600")
	assert.Equal(t, 5*time.Minute, kv.ttls["attendance:windows:2025-03-10:3600"])

	// 第二次命中缓存，不再查询
	second, err := svc.GetTeacherAttendance(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first.Sessions, second.Sessions)

	// 缓存的是全部窗口，换一个教师也可复用
	other, err := svc.GetTeacherAttendance(context.Background(), GetTeacherAttendanceRequest{TeacherUserCode: "U", DateFilter: "2025-03-10"})
	require.NoError(t, err)
	assert.Len(t, other.Sessions, 1)

	scans.AssertNumberOfCalls(t, "ListScansByDate", 1)
}

func TestGetTeacherAttendance_TodayNotCached(t *testing.T) {
	kv := newFakeKV()
	scans := &mockScanStore{}
	scans.On("ListScansByDate", mock.Anything, "2025-03-12").Return(morningScans("2025-03-12"), nil)
	svc := newTestAttendanceService(scans, kv)

	req := GetTeacherAttendanceRequest{TeacherUserCode: "T", DateFilter: "2025-03-12"}
	_, err := svc.GetTeacherAttendance(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.GetTeacherAttendance(context.Background(), req)
	require.NoError(t, err)

	assert.Empty(t, kv.data)
	scans.AssertNumberOfCalls(t, "ListScansByDate", 2)
}

func TestGetTeacherAttendance_CorruptCacheFallsBackToStore(t *testing.T) {
	kv := newFakeKV()
	kv.data["attendance:windows:2025-03-10:3600"] = "not-json"
	scans := &mockScanStore{}
	scans.On("ListScansByDate", mock.Anything, "2025-03-10").Return(morningScans("2025-03-10"), nil)
	svc := newTestAttendanceService(scans, kv)

	resp, err := svc.GetTeacherAttendance(context.Background(), GetTeacherAttendanceRequest{TeacherUserCode: "T", DateFilter: "2025-03-10"})
	require.NoError(t, err)
	assert.Len(t, resp.Sessions, 2)
	scans.AssertExpectations(t)
}
