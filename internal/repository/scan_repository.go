package repository

import (
	"context"
	"database/sql"

	"github.com/Jm141/Sts-mobile-app-trackademia/common/database"
	"github.com/Jm141/Sts-mobile-app-trackademia/internal/domain"

	"go.uber.org/zap"
)

// listScansByDateQuery 当天全部扫描记录，按房间、时间排序
// 会话重建依赖这个排序（aggregator 仍会自行校验）
const listScansByDateQuery = `
	SELECT
		a.room_code,
		COALESCE(r.room_name, '') AS room_name,
		COALESCE(a.user_code, '') AS user_code,
		COALESCE(u.name, '') AS user_name,
		COALESCE(a.role, '') AS role,
		a.time_scan
	FROM attendance a
	LEFT JOIN rooms r ON a.room_code = r.room_code
	LEFT JOIN users u ON a.user_code = u.user_code
	WHERE DATE(a.time_scan) = ?
	  AND a.room_code IS NOT NULL
	  AND a.room_code <> ''
	ORDER BY a.room_code, a.time_scan ASC
`

// ScanRepository 扫描记录 Repository（postgres / mysql 通用 SQL）
type ScanRepository struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

// NewScanRepository 创建扫描记录 Repository
func NewScanRepository(db *sql.DB, driver string, logger *zap.Logger) *ScanRepository {
	return &ScanRepository{
		db:     db,
		driver: driver,
		logger: logger,
	}
}

// 确保实现了接口
var _ ScanStore = (*ScanRepository)(nil)

// ListScansByDate 查询某一天的扫描记录
func (r *ScanRepository) ListScansByDate(ctx context.Context, date string) ([]domain.ScanEvent, error) {
	stmt, err := r.db.PrepareContext(ctx, database.Rebind(r.driver, listScansByDateQuery))
	if err != nil {
		return nil, prepareError(err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, date)
	if err != nil {
		return nil, executeError(err)
	}
	defer rows.Close()

	events := make([]domain.ScanEvent, 0)
	for rows.Next() {
		var ev domain.ScanEvent
		if err := rows.Scan(
			&ev.RoomCode,
			&ev.RoomName,
			&ev.UserCode,
			&ev.UserName,
			&ev.Role,
			&ev.TimeScan,
		); err != nil {
			return nil, executeError(err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, executeError(err)
	}

	r.logger.Debug("Loaded scan events",
		zap.String("date", date),
		zap.Int("count", len(events)),
	)

	return events, nil
}
