package service

import (
	"context"
	"sync"
	"time"

	"github.com/Jm141/Sts-mobile-app-trackademia/internal/domain"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/store"

	"github.com/stretchr/testify/mock"
)

// mockScanStore ScanStore 的 testify mock
type mockScanStore struct {
	mock.Mock
}

func (m *mockScanStore) ListScansByDate(ctx context.Context, date string) ([]domain.ScanEvent, error) {
	args := m.Called(ctx, date)
	events, _ := args.Get(0).([]domain.ScanEvent)
	return events, args.Error(1)
}

// mockFenceEventStore FenceEventStore 的 testify mock
type mockFenceEventStore struct {
	mock.Mock
}

func (m *mockFenceEventStore) InsertFenceEvent(ctx context.Context, event *domain.FenceEvent) (int64, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(int64), args.Error(1)
}

// fakeKV 仅用于单元测试（内存 KV，忽略 TTL）
type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", store.ErrMiss
	}
	return v, nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	f.ttls[key] = ttl
	return nil
}
