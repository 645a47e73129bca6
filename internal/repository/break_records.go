package repository

import (
	"context"
	"database/sql"

	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
)

func (r *Repository) GetBreakRecords(ctx context.Context, setupID string) ([]domain.BreakRecord, error) {
	q, ctx, cancel := r.queryer(ctx)
	defer cancel()

	query := `
		SELECT id, employee_id, employee_name, break_date::text, start_time, end_time, duration, status
		FROM break_records
		WHERE setup_id = $1
		ORDER BY start_time, id
	`

	rows, err := q.Query(ctx, query, setupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.BreakRecord, 0)
	for rows.Next() {
		var (
			b       domain.BreakRecord
			endTime sql.NullTime
			status  string
		)
		dst := []any{&b.ID, &b.EmployeeID, &b.EmployeeName, &b.BreakDate, &b.StartTime, &endTime, &b.Duration, &status}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if endTime.Valid {
			end := endTime.Time
			b.EndTime = &end
		}
		b.Status = domain.BreakStatus(status)
		records = append(records, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// SaveBreakRecords 按 id 插入或更新休息记录，休息记录只会追加和修改，不会被删除。
// 先写入已结束的记录，避免同一员工的旧记录还处于 active 时触发部分唯一索引。
func (r *Repository) SaveBreakRecords(ctx context.Context, setupID string, breaks []domain.BreakRecord) error {
	if len(breaks) == 0 {
		return nil
	}

	q, ctx, cancel := r.queryer(ctx)
	defer cancel()

	query := `
		INSERT INTO break_records (id, setup_id, employee_id, employee_name, break_date, start_time, end_time, duration, status)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			employee_id = EXCLUDED.employee_id,
			employee_name = EXCLUDED.employee_name,
			end_time = EXCLUDED.end_time,
			duration = EXCLUDED.duration,
			status = EXCLUDED.status
	`

	ordered := make([]domain.BreakRecord, 0, len(breaks))
	for _, b := range breaks {
		if b.Status == domain.BreakStatusCompleted {
			ordered = append(ordered, b)
		}
	}
	for _, b := range breaks {
		if b.Status != domain.BreakStatusCompleted {
			ordered = append(ordered, b)
		}
	}

	for _, b := range ordered {
		var endTime sql.NullTime
		if b.EndTime != nil {
			endTime = sql.NullTime{Time: *b.EndTime, Valid: true}
		}
		args := []any{b.ID, setupID, b.EmployeeID, b.EmployeeName, b.BreakDate, b.StartTime, endTime, b.Duration, string(b.Status)}
		if _, err := q.Exec(ctx, query, args...); err != nil {
			return translatePgError(err)
		}
	}

	return nil
}
