package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/config"
)

func BuildPoolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("database: 解析 DSN 失败: %w", err)
	}

	if cfg.Database.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.MaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.Database.MaxIdleTime) * time.Second
	}
	if cfg.Database.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = time.Duration(cfg.Database.ConnectTimeout) * time.Second
	}

	return poolCfg, nil
}

// NewPool 创建连接池并 ping 一次，确认数据库可用
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := BuildPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("database: 创建连接池失败: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database: 无法连接到数据库: %w", err)
	}

	return pool, nil
}
