package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/config"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/setupsheet"
)

var ErrForbidden = errors.New("service: forbidden")

func forbiddenf(format string, args ...any) error {
	return &setupsheet.Error{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

type SetupRepository interface {
	CreateWeeklySetup(ctx context.Context, setup *domain.WeeklySetup) error
	GetWeeklySetup(ctx context.Context, id string) (*domain.WeeklySetup, error)
	ListWeeklySetups(ctx context.Context, storeID, userID string, templates bool) ([]*domain.SetupSummary, error)
	UpdateWeeklySetup(ctx context.Context, setup *domain.WeeklySetup) error
	SoftDeleteWeeklySetup(ctx context.Context, id string, version int32) error
	ClearAutoGenerated(ctx context.Context, storeID string) error
}

type PositionRepository interface {
	GetAllPositions(ctx context.Context, storeID string) ([]*domain.PositionDefinition, error)
	GetPositionByID(ctx context.Context, storeID string, id int64) (*domain.PositionDefinition, error)
	CreatePosition(ctx context.Context, p *domain.PositionDefinition) error
	UpdatePosition(ctx context.Context, p *domain.PositionDefinition) error
	DeletePosition(ctx context.Context, storeID string, id int64) error
}

type Repository interface {
	SetupRepository
	PositionRepository
}

type RosterStore interface {
	Save(ctx context.Context, days []domain.RosterDay) error
	Get(ctx context.Context, storeID, date string) (*domain.RosterDay, error)
	GetMany(ctx context.Context, storeID string, dates []string) ([]domain.RosterDay, error)
}

type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type Service struct {
	cfg      *config.Config
	repo     Repository
	rosters  RosterStore
	tx       TransactionManager
	clock    Clock
	resolver IdentityResolver
}

// New 创建 Service，clock 和 tx 为 nil 时分别使用系统时间和不开启事务的实现。
// REPLACEMENT_STRICT 开启时替班人必须出现在当天的排班表中。
func New(cfg *config.Config, repo Repository, rosters RosterStore, tx TransactionManager, clock Clock) *Service {
	if clock == nil {
		clock = systemClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}

	var resolver IdentityResolver = FreeTextResolver{}
	if cfg.Replacement.Strict {
		resolver = RosterResolver{rosters: rosters}
	}

	return &Service{
		cfg:      cfg,
		repo:     repo,
		rosters:  rosters,
		tx:       tx,
		clock:    clock,
		resolver: resolver,
	}
}

func (s *Service) now() time.Time {
	return s.clock.Now().In(s.cfg.Location())
}

// load 读取排班表并检查可见性：其他门店的排班表，以及别人未共享的排班表都视为不存在
func (s *Service) load(ctx context.Context, actor domain.Actor, id string) (*domain.WeeklySetup, error) {
	setup, err := s.repo.GetWeeklySetup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visible(actor, setup) {
		return nil, setupsheet.NotFoundf("排班表不存在")
	}
	return setup, nil
}

func visible(actor domain.Actor, setup *domain.WeeklySetup) bool {
	if setup.StoreID != actor.StoreID {
		return false
	}
	return setup.OwnerID == actor.UserID || setup.IsShared
}

// canEdit 创建者可以修改自己的排班表；共享的排班表门店内的值班经理和店长都可以修改
func canEdit(actor domain.Actor, setup *domain.WeeklySetup) error {
	if setup.OwnerID == actor.UserID {
		return nil
	}
	if setup.IsShared && (actor.Role == domain.RoleLeader || actor.Role == domain.RoleDirector) {
		return nil
	}
	return forbiddenf("没有权限修改排班表 %s", setup.Name)
}

// mutate 在一个事务中完成 读取 -> 修改 -> 校验 -> 按版本写回。
// baseVersion 不为 nil 时必须与读到的版本一致，否则不做任何修改直接返回冲突。
func (s *Service) mutate(ctx context.Context, actor domain.Actor, id string, baseVersion *int32, fn func(setup *domain.WeeklySetup) error) (*domain.WeeklySetup, error) {
	var saved *domain.WeeklySetup

	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		setup, err := s.load(ctx, actor, id)
		if err != nil {
			return err
		}
		if baseVersion != nil && *baseVersion != setup.Version {
			return setupsheet.Conflictf("排班表已被其他人修改（当前版本 %d，提交的版本 %d），请刷新后重试", setup.Version, *baseVersion)
		}
		if err := canEdit(actor, setup); err != nil {
			return err
		}

		if err := fn(setup); err != nil {
			return err
		}
		if err := setupsheet.Validate(setup); err != nil {
			return err
		}

		if err := s.repo.UpdateWeeklySetup(ctx, setup); err != nil {
			return err
		}
		saved = setup
		return nil
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}
