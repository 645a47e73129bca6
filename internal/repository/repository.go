package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/config"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/database"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/setupsheet"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

type Repository struct {
	cfg  *config.Config
	pool database.Queryer
}

func NewRepository(cfg *config.Config, pool database.Queryer) *Repository {
	return &Repository{
		cfg:  cfg,
		pool: pool,
	}
}

// queryer 返回当前事务（如果有的话）以及带查询超时的 ctx
func (r *Repository) queryer(ctx context.Context) (database.Queryer, context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	return database.QueryerFromContext(ctx, r.pool), ctx, cancel
}

// translatePgError 把数据库约束错误转换成业务错误，其他错误原样返回
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		switch pgErr.ConstraintName {
		case "positions_store_id_name_key":
			return setupsheet.Conflictf("岗位名称已存在")
		case "break_records_one_active_idx":
			return setupsheet.Conflictf("该员工当天已经有进行中的休息，请刷新后重试")
		default:
			return setupsheet.Conflictf("数据已存在，请刷新后重试")
		}
	case foreignKeyViolationCode:
		return setupsheet.NotFoundf("关联的排班表不存在")
	case checkViolationCode:
		return setupsheet.Validationf("数据不符合约束 %s", pgErr.ConstraintName)
	}
	return err
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
