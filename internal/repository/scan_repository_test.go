package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupMockDB(t *testing.T, driver string) (*sql.DB, sqlmock.Sqlmock, *ScanRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewScanRepository(db, driver, zap.NewNop())
	return db, mock, repo
}

var scanColumns = []string{"room_code", "room_name", "user_code", "user_name", "role", "time_scan"}

func TestListScansByDate_Success(t *testing.T) {
	db, mock, repo := setupMockDB(t, "postgres")
	defer db.Close()

	t0 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(scanColumns).
		AddRow("R1", "Room 101", "T1", "Teacher One", "teacher", t0).
		AddRow("R1", "Room 101", "S1", "", "student", t0.Add(10*time.Minute)).
		AddRow("R2", "", "S2", "Student Two", "student", t0.Add(time.Hour))

	// postgres 占位符应为 $1
	mock.ExpectPrepare(`WHERE DATE\(a\.time_scan\) = \$1`).
		ExpectQuery().
		WithArgs("2025-03-10").
		WillReturnRows(rows)

	events, err := repo.ListScansByDate(context.Background(), "2025-03-10")
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "R1", events[0].RoomCode)
	assert.Equal(t, "Room 101", events[0].RoomName)
	assert.Equal(t, "teacher", events[0].Role)
	assert.True(t, events[0].TimeScan.Equal(t0))
	assert.Equal(t, "", events[1].UserName)
	assert.Equal(t, "R2", events[2].RoomCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListScansByDate_EmptyResult(t *testing.T) {
	db, mock, repo := setupMockDB(t, "mysql")
	defer db.Close()

	// mysql 保持 ? 占位符
	mock.ExpectPrepare(`WHERE DATE\(a\.time_scan\) = \?`).
		ExpectQuery().
		WithArgs("2025-03-10").
		WillReturnRows(sqlmock.NewRows(scanColumns))

	events, err := repo.ListScansByDate(context.Background(), "2025-03-10")
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Len(t, events, 0)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListScansByDate_PrepareError(t *testing.T) {
	db, mock, repo := setupMockDB(t, "postgres")
	defer db.Close()

	mock.ExpectPrepare(`SELECT`).WillReturnError(errors.New("relation \"attendance\" does not exist"))

	_, err := repo.ListScansByDate(context.Background(), "2025-03-10")
	require.Error(t, err)

	var storeErr *StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "prepare", storeErr.Op)
	assert.Equal(t, `Database prepare error: relation "attendance" does not exist`, err.Error())
}

func TestListScansByDate_ExecuteError(t *testing.T) {
	db, mock, repo := setupMockDB(t, "postgres")
	defer db.Close()

	mock.ExpectPrepare(`SELECT`).
		ExpectQuery().
		WithArgs("2025-03-10").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.ListScansByDate(context.Background(), "2025-03-10")
	require.Error(t, err)
	assert.Equal(t, "Database execute error: connection reset", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}
