package repository

import (
	"context"
	"database/sql"

	commoncfg "github.com/Jm141/Sts-mobile-app-trackademia/common/config"
	"github.com/Jm141/Sts-mobile-app-trackademia/common/database"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/domain"
)

const insertFenceEventQuery = `
	INSERT INTO fence_events (parent_email, student_name, is_inside, latitude, longitude, timestamp)
	VALUES (?, ?, ?, ?, ?, ?)`

// FenceEventRepository 电子围栏事件 Repository
type FenceEventRepository struct {
	db     *sql.DB
	driver string
}

// NewFenceEventRepository 创建电子围栏事件 Repository
func NewFenceEventRepository(db *sql.DB, driver string) *FenceEventRepository {
	return &FenceEventRepository{db: db, driver: driver}
}

var _ FenceEventStore = (*FenceEventRepository)(nil)

// InsertFenceEvent 写入围栏事件
// postgres 使用 RETURNING 取 ID，mysql 使用 LastInsertId
func (r *FenceEventRepository) InsertFenceEvent(ctx context.Context, event *domain.FenceEvent) (int64, error) {
	isInside := 0
	if event.IsInside {
		isInside = 1
	}
	args := []any{
		event.ParentEmail,
		event.StudentName,
		isInside,
		event.Latitude,
		event.Longitude,
		event.Timestamp,
	}

	if r.driver == commoncfg.DriverPostgres {
		stmt, err := r.db.PrepareContext(ctx, database.Rebind(r.driver, insertFenceEventQuery+" RETURNING event_id"))
		if err != nil {
			return 0, prepareError(err)
		}
		defer stmt.Close()

		var id int64
		if err := stmt.QueryRowContext(ctx, args...).Scan(&id); err != nil {
			return 0, executeError(err)
		}
		return id, nil
	}

	stmt, err := r.db.PrepareContext(ctx, database.Rebind(r.driver, insertFenceEventQuery))
	if err != nil {
		return 0, prepareError(err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return 0, executeError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, executeError(err)
	}
	return id, nil
}
