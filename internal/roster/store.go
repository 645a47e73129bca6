package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
)

// Store 把每天的排班表以 JSON 形式缓存在 redis 中，过期后需要重新上传
type Store struct {
	rdb        redis.Cmdable
	expiration time.Duration
	timeout    time.Duration
}

func NewStore(rdb redis.Cmdable, expiration, timeout time.Duration) *Store {
	return &Store{rdb: rdb, expiration: expiration, timeout: timeout}
}

func Key(storeID, date string) string {
	return fmt.Sprintf("roster:%s:%s", storeID, date)
}

func (s *Store) Save(ctx context.Context, days []domain.RosterDay) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, day := range days {
			data, err := json.Marshal(day)
			if err != nil {
				return err
			}
			pipe.Set(ctx, Key(day.StoreID, day.Date), data, s.expiration)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("保存排班表到 redis 失败: %w", err)
	}
	return nil
}

// Get 返回某天的排班表，没有上传过时返回 nil
func (s *Store) Get(ctx context.Context, storeID, date string) (*domain.RosterDay, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.rdb.Get(ctx, Key(storeID, date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("从 redis 读取排班表失败: %w", err)
	}

	day := &domain.RosterDay{}
	if err := json.Unmarshal(data, day); err != nil {
		return nil, fmt.Errorf("解析排班表 %s 失败: %w", Key(storeID, date), err)
	}
	return day, nil
}

// GetMany 批量读取多天的排班表，跳过没有上传过的日期
func (s *Store) GetMany(ctx context.Context, storeID string, dates []string) ([]domain.RosterDay, error) {
	if len(dates) == 0 {
		return []domain.RosterDay{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	keys := make([]string, 0, len(dates))
	for _, date := range dates {
		keys = append(keys, Key(storeID, date))
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("从 redis 读取排班表失败: %w", err)
	}

	days := make([]domain.RosterDay, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var day domain.RosterDay
		if err := json.Unmarshal([]byte(raw), &day); err != nil {
			return nil, fmt.Errorf("解析排班表 %s 失败: %w", keys[i], err)
		}
		days = append(days, day)
	}
	return days, nil
}
