package repository

import (
	"context"

	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/setupsheet"
)

func (r *Repository) GetAllPositions(ctx context.Context, storeID string) ([]*domain.PositionDefinition, error) {
	q, ctx, cancel := r.queryer(ctx)
	defer cancel()

	query := `
		SELECT id, name, department, sort_order, created_at, version
		FROM positions
		WHERE store_id = $1
		ORDER BY department, sort_order, name
	`

	rows, err := q.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	positions := make([]*domain.PositionDefinition, 0)
	for rows.Next() {
		p := &domain.PositionDefinition{StoreID: storeID}
		var department string
		dst := []any{&p.ID, &p.Name, &department, &p.SortOrder, &p.CreatedAt, &p.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		p.Department = domain.Department(department)
		positions = append(positions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return positions, nil
}

func (r *Repository) GetPositionByID(ctx context.Context, storeID string, id int64) (*domain.PositionDefinition, error) {
	q, ctx, cancel := r.queryer(ctx)
	defer cancel()

	query := `
		SELECT name, department, sort_order, created_at, version
		FROM positions
		WHERE id = $1 AND store_id = $2
	`

	p := &domain.PositionDefinition{ID: id, StoreID: storeID}
	var department string
	dst := []any{&p.Name, &department, &p.SortOrder, &p.CreatedAt, &p.Version}
	if err := q.QueryRow(ctx, query, id, storeID).Scan(dst...); err != nil {
		if isNoRows(err) {
			return nil, setupsheet.NotFoundf("岗位不存在")
		}
		return nil, err
	}
	p.Department = domain.Department(department)

	return p, nil
}

func (r *Repository) CreatePosition(ctx context.Context, p *domain.PositionDefinition) error {
	q, ctx, cancel := r.queryer(ctx)
	defer cancel()

	query := `
		INSERT INTO positions (store_id, name, department, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	args := []any{p.StoreID, p.Name, string(p.Department), p.SortOrder}
	if err := q.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.Version); err != nil {
		return translatePgError(err)
	}

	return nil
}

func (r *Repository) UpdatePosition(ctx context.Context, p *domain.PositionDefinition) error {
	q, ctx, cancel := r.queryer(ctx)
	defer cancel()

	query := `
		UPDATE positions
		SET
			name = $1,
			department = $2,
			sort_order = $3,
			version = version + 1
		WHERE id = $4 AND store_id = $5 AND version = $6
		RETURNING version
	`

	args := []any{p.Name, string(p.Department), p.SortOrder, p.ID, p.StoreID, p.Version}
	if err := q.QueryRow(ctx, query, args...).Scan(&p.Version); err != nil {
		if isNoRows(err) {
			return setupsheet.Conflictf("岗位已被其他人修改，请刷新后重试")
		}
		return translatePgError(err)
	}

	return nil
}

func (r *Repository) DeletePosition(ctx context.Context, storeID string, id int64) error {
	q, ctx, cancel := r.queryer(ctx)
	defer cancel()

	query := `
		DELETE FROM positions WHERE id = $1 AND store_id = $2
	`

	tag, err := q.Exec(ctx, query, id, storeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return setupsheet.NotFoundf("岗位不存在")
	}

	return nil
}
