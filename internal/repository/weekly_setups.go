package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/setupsheet"
)

func (r *Repository) CreateWeeklySetup(ctx context.Context, setup *domain.WeeklySetup) error {
	days, err := json.Marshal(setup.Days)
	if err != nil {
		return fmt.Errorf("序列化排班表失败: %w", err)
	}

	q, ctx, cancel := r.queryer(ctx)
	defer cancel()

	query := `
		INSERT INTO weekly_setups (id, store_id, owner_id, name, week_start_date, week_end_date, is_template, is_shared, auto_generated, days)
		VALUES ($1, $2, $3, $4, $5::date, $6::date, $7, $8, $9, $10)
		RETURNING created_at, updated_at, version
	`

	args := []any{
		setup.ID,
		setup.StoreID,
		setup.OwnerID,
		setup.Name,
		setup.WeekStartDate,
		setup.WeekEndDate,
		setup.IsTemplate,
		setup.IsShared,
		setup.AutoGenerated,
		days,
	}
	dst := []any{&setup.CreatedAt, &setup.UpdatedAt, &setup.Version}
	if err := q.QueryRow(ctx, query, args...).Scan(dst...); err != nil {
		return translatePgError(err)
	}

	return r.SaveBreakRecords(ctx, setup.ID, setup.Breaks)
}

// GetWeeklySetup 读取排班表及其全部休息记录，已软删除的排班表视为不存在
func (r *Repository) GetWeeklySetup(ctx context.Context, id string) (*domain.WeeklySetup, error) {
	q, qctx, cancel := r.queryer(ctx)
	defer cancel()

	query := `
		SELECT
			store_id,
			owner_id,
			name,
			week_start_date::text,
			week_end_date::text,
			is_template,
			is_shared,
			auto_generated,
			days,
			created_at,
			updated_at,
			version
		FROM weekly_setups
		WHERE id = $1 AND deleted_at IS NULL
	`

	setup := &domain.WeeklySetup{ID: id}
	var days []byte
	dst := []any{
		&setup.StoreID,
		&setup.OwnerID,
		&setup.Name,
		&setup.WeekStartDate,
		&setup.WeekEndDate,
		&setup.IsTemplate,
		&setup.IsShared,
		&setup.AutoGenerated,
		&days,
		&setup.CreatedAt,
		&setup.UpdatedAt,
		&setup.Version,
	}
	if err := q.QueryRow(qctx, query, id).Scan(dst...); err != nil {
		if isNoRows(err) {
			return nil, setupsheet.NotFoundf("排班表不存在")
		}
		return nil, err
	}

	if err := json.Unmarshal(days, &setup.Days); err != nil {
		return nil, fmt.Errorf("解析排班表 %s 失败: %w", id, err)
	}
	if setup.Days == nil {
		setup.Days = []domain.Day{}
	}

	breaks, err := r.GetBreakRecords(ctx, id)
	if err != nil {
		return nil, err
	}
	setup.Breaks = breaks

	return setup, nil
}

// ListWeeklySetups 返回门店内当前用户可见的排班表：自己创建的，以及已共享的
func (r *Repository) ListWeeklySetups(ctx context.Context, storeID, userID string, templates bool) ([]*domain.SetupSummary, error) {
	q, ctx, cancel := r.queryer(ctx)
	defer cancel()

	query := `
		SELECT
			id,
			name,
			owner_id,
			week_start_date::text,
			week_end_date::text,
			is_template,
			is_shared,
			auto_generated,
			updated_at,
			version
		FROM weekly_setups
		WHERE store_id = $1
			AND is_template = $3
			AND deleted_at IS NULL
			AND (owner_id = $2 OR is_shared)
		ORDER BY week_start_date DESC, name
	`

	rows, err := q.Query(ctx, query, storeID, userID, templates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]*domain.SetupSummary, 0)
	for rows.Next() {
		s := &domain.SetupSummary{}
		dst := []any{
			&s.ID,
			&s.Name,
			&s.OwnerID,
			&s.WeekStartDate,
			&s.WeekEndDate,
			&s.IsTemplate,
			&s.IsShared,
			&s.AutoGenerated,
			&s.UpdatedAt,
			&s.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

// UpdateWeeklySetup 按 setup.Version 做乐观锁更新，成功后 setup.Version 为新版本
func (r *Repository) UpdateWeeklySetup(ctx context.Context, setup *domain.WeeklySetup) error {
	days, err := json.Marshal(setup.Days)
	if err != nil {
		return fmt.Errorf("序列化排班表失败: %w", err)
	}

	q, qctx, cancel := r.queryer(ctx)
	defer cancel()

	query := `
		UPDATE weekly_setups
		SET
			name = $1,
			week_start_date = $2::date,
			week_end_date = $3::date,
			is_shared = $4,
			days = $5,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $6 AND version = $7 AND deleted_at IS NULL
		RETURNING updated_at, version
	`

	args := []any{setup.Name, setup.WeekStartDate, setup.WeekEndDate, setup.IsShared, days, setup.ID, setup.Version}
	if err := q.QueryRow(qctx, query, args...).Scan(&setup.UpdatedAt, &setup.Version); err != nil {
		if isNoRows(err) {
			return setupsheet.Conflictf("排班表已被其他人修改，请刷新后重试")
		}
		return translatePgError(err)
	}

	return r.SaveBreakRecords(ctx, setup.ID, setup.Breaks)
}

func (r *Repository) SoftDeleteWeeklySetup(ctx context.Context, id string, version int32) error {
	q, ctx, cancel := r.queryer(ctx)
	defer cancel()

	query := `
		UPDATE weekly_setups
		SET deleted_at = NOW(), version = version + 1
		WHERE id = $1 AND version = $2 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id, version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return setupsheet.Conflictf("排班表已被其他人修改，请刷新后重试")
	}

	return nil
}

// ClearAutoGenerated 取消门店内现有排班表的自动生成标记，需要和新排班表的插入放在同一个事务中
func (r *Repository) ClearAutoGenerated(ctx context.Context, storeID string) error {
	q, ctx, cancel := r.queryer(ctx)
	defer cancel()

	query := `
		UPDATE weekly_setups
		SET auto_generated = FALSE, updated_at = NOW(), version = version + 1
		WHERE store_id = $1 AND auto_generated AND deleted_at IS NULL
	`

	_, err := q.Exec(ctx, query, storeID)
	return err
}
