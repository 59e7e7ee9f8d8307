package aggregator_test

import (
	"testing"

	agg "github.com/Jm141/Sts-mobile-app-trackademia/internal/aggregator"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionByRoom_FirstSeenOrder(t *testing.T) {
	events := []domain.ScanEvent{
		scan("R2", "S1", "A", domain.RoleStudent, at(8, 0, 0)),
		scan("R2", "S2", "B", domain.RoleStudent, at(8, 5, 0)),
		scan("R1", "T", "C", domain.RoleTeacher, at(7, 0, 0)),
		scan("R3", "S3", "D", domain.RoleStudent, at(9, 0, 0)),
	}

	rooms, reordered := agg.PartitionByRoom(events)
	assert.False(t, reordered)
	require.Len(t, rooms, 3)
	assert.Equal(t, "R2", rooms[0].RoomCode)
	assert.Equal(t, "R1", rooms[1].RoomCode)
	assert.Equal(t, "R3", rooms[2].RoomCode)
	assert.Len(t, rooms[0].Events, 2)
}

func TestPartitionByRoom_Completeness(t *testing.T) {
	events := []domain.ScanEvent{
		scan("R1", "S1", "A", domain.RoleStudent, at(8, 0, 0)),
		scan("R2", "S2", "B", domain.RoleStudent, at(8, 1, 0)),
		scan("R1", "S3", "C", domain.RoleStudent, at(8, 2, 0)),
		scan("R2", "S4", "D", domain.RoleStudent, at(8, 3, 0)),
		scan("R1", "S5", "E", domain.RoleStudent, at(8, 4, 0)),
	}

	rooms, _ := agg.PartitionByRoom(events)

	seen := map[string]int{}
	for _, r := range rooms {
		for _, ev := range r.Events {
			assert.Equal(t, r.RoomCode, ev.RoomCode)
			seen[ev.UserCode]++
		}
	}
	assert.Len(t, seen, len(events))
	for code, n := range seen {
		assert.Equal(t, 1, n, code)
	}
}

func TestPartitionByRoom_SortsOutOfOrderRoom(t *testing.T) {
	events := []domain.ScanEvent{
		scan("R1", "S1", "A", domain.RoleStudent, at(9, 30, 0)),
		scan("R1", "T", "T", domain.RoleTeacher, at(9, 0, 0)),
		scan("R1", "S2", "B", domain.RoleStudent, at(9, 30, 0)),
		scan("R2", "S3", "C", domain.RoleStudent, at(8, 0, 0)),
	}

	rooms, reordered := agg.PartitionByRoom(events)
	assert.True(t, reordered)
	require.Len(t, rooms, 2)

	codes := []string{}
	for _, ev := range rooms[0].Events {
		codes = append(codes, ev.UserCode)
	}
	// 稳定排序：同一时刻的 S1、S2 保持原相对顺序
	assert.Equal(t, []string{"T", "S1", "S2"}, codes)
}

func TestPartitionByRoom_Empty(t *testing.T) {
	rooms, reordered := agg.PartitionByRoom(nil)
	assert.False(t, reordered)
	assert.NotNil(t, rooms)
	assert.Len(t, rooms, 0)
}
