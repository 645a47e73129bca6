package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/setupsheet"
)

func (s *Service) ListSetups(ctx context.Context, actor domain.Actor, templates bool) ([]*domain.SetupSummary, error) {
	var list []*domain.SetupSummary
	err := s.tx.WithinReadOnly(ctx, func(ctx context.Context) error {
		var err error
		list, err = s.repo.ListWeeklySetups(ctx, actor.StoreID, actor.UserID, templates)
		return err
	})
	return list, err
}

func (s *Service) GetSetup(ctx context.Context, actor domain.Actor, id string) (*domain.WeeklySetup, error) {
	var setup *domain.WeeklySetup
	err := s.tx.WithinReadOnly(ctx, func(ctx context.Context) error {
		var err error
		setup, err = s.load(ctx, actor, id)
		return err
	})
	return setup, err
}

// weekStart 解析用户指定的周开始日期，未指定时使用下一个周起始日
func (s *Service) weekStart(date string) (time.Time, error) {
	if strings.TrimSpace(date) == "" {
		return setupsheet.NextWeekStart(s.now(), s.cfg.Location(), s.cfg.WeekStartDay()), nil
	}
	d, err := domain.ParseDate(date)
	if err != nil {
		return time.Time{}, setupsheet.Validationf("%s", err)
	}
	return d, nil
}

type CreateSetupInput struct {
	Name          string
	WeekStartDate string
	AutoGenerated bool
}

// insert 写入新排班表，自动生成的排班表会取代门店内原来的那一份
func (s *Service) insert(ctx context.Context, setup *domain.WeeklySetup) error {
	if setup.AutoGenerated && !setup.IsTemplate {
		if err := s.repo.ClearAutoGenerated(ctx, setup.StoreID); err != nil {
			return err
		}
	} else {
		setup.AutoGenerated = false
	}
	return s.repo.CreateWeeklySetup(ctx, setup)
}

// CreateSetup 从零创建一周的排班表，七天都是空的
func (s *Service) CreateSetup(ctx context.Context, actor domain.Actor, in CreateSetupInput) (*domain.WeeklySetup, error) {
	start, err := s.weekStart(in.WeekStartDate)
	if err != nil {
		return nil, err
	}

	setup := &domain.WeeklySetup{
		ID:      uuid.NewString(),
		StoreID: actor.StoreID,
		OwnerID: actor.UserID,
		Name:          strings.TrimSpace(in.Name),
		AutoGenerated: in.AutoGenerated,
		Days:          setupsheet.MergeDays(nil, setupsheet.NewWeek(start)...),
		Breaks:        []domain.BreakRecord{},
	}
	setupsheet.SetWeekBounds(setup, start)

	if err := setupsheet.Validate(setup); err != nil {
		return nil, err
	}
	if err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		return s.insert(ctx, setup)
	}); err != nil {
		return nil, err
	}
	return setup, nil
}

type CreateFromTemplateInput struct {
	TemplateID    string
	Name          string
	WeekStartDate string
	AutoGenerated bool
}

func (s *Service) CreateFromTemplate(ctx context.Context, actor domain.Actor, in CreateFromTemplateInput) (*domain.WeeklySetup, error) {
	start, err := s.weekStart(in.WeekStartDate)
	if err != nil {
		return nil, err
	}

	var setup *domain.WeeklySetup
	err = s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		template, err := s.load(ctx, actor, in.TemplateID)
		if err != nil {
			return err
		}

		setup, err = setupsheet.CreateFromTemplate(template, start, in.Name)
		if err != nil {
			return err
		}
		setup.StoreID = actor.StoreID
		setup.OwnerID = actor.UserID
		setup.AutoGenerated = in.AutoGenerated

		return s.insert(ctx, setup)
	})
	if err != nil {
		return nil, err
	}
	return setup, nil
}

// SaveAsTemplate 用当前排班表的骨架生成一份新模板，原排班表不变
func (s *Service) SaveAsTemplate(ctx context.Context, actor domain.Actor, id string, name string) (*domain.WeeklySetup, error) {
	var template *domain.WeeklySetup
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		setup, err := s.load(ctx, actor, id)
		if err != nil {
			return err
		}

		template, err = setupsheet.SaveAsTemplate(setup, name)
		if err != nil {
			return err
		}
		template.OwnerID = actor.UserID

		return s.insert(ctx, template)
	})
	if err != nil {
		return nil, err
	}
	return template, nil
}

func (s *Service) RenameSetup(ctx context.Context, actor domain.Actor, id string, baseVersion *int32, name string) (*domain.WeeklySetup, error) {
	return s.mutate(ctx, actor, id, baseVersion, func(setup *domain.WeeklySetup) error {
		return setupsheet.Rename(setup, name)
	})
}

// SetShared 只有创建者或店长可以修改共享状态，返回的 changed 表示状态是否真的发生了变化
func (s *Service) SetShared(ctx context.Context, actor domain.Actor, id string, baseVersion *int32, shared bool) (*domain.WeeklySetup, bool, error) {
	changed := false
	setup, err := s.mutate(ctx, actor, id, baseVersion, func(setup *domain.WeeklySetup) error {
		if setup.OwnerID != actor.UserID && actor.Role != domain.RoleDirector {
			return forbiddenf("只有创建者或店长可以修改排班表的共享状态")
		}
		changed = setupsheet.SetShared(setup, shared)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return setup, changed, nil
}

// DeleteSetup 软删除排班表，只有创建者可以删除
func (s *Service) DeleteSetup(ctx context.Context, actor domain.Actor, id string, baseVersion *int32) error {
	return s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		setup, err := s.load(ctx, actor, id)
		if err != nil {
			return err
		}
		if setup.OwnerID != actor.UserID {
			return forbiddenf("只有创建者可以删除排班表 %s", setup.Name)
		}

		version := setup.Version
		if baseVersion != nil {
			version = *baseVersion
		}
		return s.repo.SoftDeleteWeeklySetup(ctx, id, version)
	})
}

type AddTimeBlockInput struct {
	Date      string
	StartTime string
	EndTime   string
	Positions []setupsheet.PositionSpec
}

func (s *Service) AddTimeBlock(ctx context.Context, actor domain.Actor, id string, baseVersion *int32, in AddTimeBlockInput) (*domain.WeeklySetup, error) {
	return s.mutate(ctx, actor, id, baseVersion, func(setup *domain.WeeklySetup) error {
		_, err := setupsheet.AddTimeBlock(setup, in.Date, in.StartTime, in.EndTime, in.Positions)
		return err
	})
}

func (s *Service) RemoveTimeBlock(ctx context.Context, actor domain.Actor, id string, baseVersion *int32, blockID string) (*domain.WeeklySetup, error) {
	return s.mutate(ctx, actor, id, baseVersion, func(setup *domain.WeeklySetup) error {
		return setupsheet.RemoveTimeBlock(setup, blockID)
	})
}

func (s *Service) AddPosition(ctx context.Context, actor domain.Actor, id string, baseVersion *int32, blockID string, spec setupsheet.PositionSpec) (*domain.WeeklySetup, error) {
	return s.mutate(ctx, actor, id, baseVersion, func(setup *domain.WeeklySetup) error {
		_, err := setupsheet.AddPosition(setup, blockID, spec)
		return err
	})
}

func (s *Service) RemovePosition(ctx context.Context, actor domain.Actor, id string, baseVersion *int32, positionID string) (*domain.WeeklySetup, error) {
	return s.mutate(ctx, actor, id, baseVersion, func(setup *domain.WeeklySetup) error {
		return setupsheet.RemovePosition(setup, positionID)
	})
}
