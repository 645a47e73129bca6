package service

import (
	"context"
	"strings"

	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/setupsheet"
)

func (s *Service) ListPositions(ctx context.Context, actor domain.Actor) ([]*domain.PositionDefinition, error) {
	var list []*domain.PositionDefinition
	err := s.tx.WithinReadOnly(ctx, func(ctx context.Context) error {
		var err error
		list, err = s.repo.GetAllPositions(ctx, actor.StoreID)
		return err
	})
	return list, err
}

type PositionInput struct {
	Name       string
	Department domain.Department
	SortOrder  int32
}

func (in PositionInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return setupsheet.Validationf("岗位名称不能为空")
	}
	if !in.Department.Valid() {
		return setupsheet.Validationf("无效的部门 %s", in.Department)
	}
	return nil
}

func (s *Service) CreatePosition(ctx context.Context, actor domain.Actor, in PositionInput) (*domain.PositionDefinition, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := &domain.PositionDefinition{
		StoreID:    actor.StoreID,
		Name:       strings.TrimSpace(in.Name),
		Department: in.Department,
		SortOrder:  in.SortOrder,
	}
	if err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		return s.repo.CreatePosition(ctx, p)
	}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdatePosition(ctx context.Context, actor domain.Actor, id int64, baseVersion *int32, in PositionInput) (*domain.PositionDefinition, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var p *domain.PositionDefinition
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetPositionByID(ctx, actor.StoreID, id)
		if err != nil {
			return err
		}
		if baseVersion != nil && *baseVersion != p.Version {
			return setupsheet.Conflictf("岗位已被其他人修改，请刷新后重试")
		}

		p.Name = strings.TrimSpace(in.Name)
		p.Department = in.Department
		p.SortOrder = in.SortOrder
		return s.repo.UpdatePosition(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePosition 只删除岗位目录中的定义，已经排进排班表的岗位不受影响
func (s *Service) DeletePosition(ctx context.Context, actor domain.Actor, id int64) error {
	return s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		return s.repo.DeletePosition(ctx, actor.StoreID, id)
	})
}
