package service

import (
	"context"
	"slices"
	"strings"

	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/setupsheet"
)

// rosterEmployees 返回某天排班表中的员工，没有上传过排班表时返回空列表
func (s *Service) rosterEmployees(ctx context.Context, storeID, date string) ([]domain.RosterEmployee, error) {
	day, err := s.rosters.Get(ctx, storeID, date)
	if err != nil {
		return nil, err
	}
	if day == nil {
		return []domain.RosterEmployee{}, nil
	}
	return day.Employees, nil
}

func (s *Service) AvailableEmployees(ctx context.Context, actor domain.Actor, id string, q setupsheet.AvailabilityQuery) ([]domain.RosterEmployee, error) {
	setup, err := s.GetSetup(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	roster, err := s.rosterEmployees(ctx, setup.StoreID, q.Date)
	if err != nil {
		return nil, err
	}
	return setupsheet.AvailableEmployees(setup, roster, q)
}

func (s *Service) Assign(ctx context.Context, actor domain.Actor, id string, baseVersion *int32, positionID, employeeID string) (*domain.WeeklySetup, error) {
	return s.mutate(ctx, actor, id, baseVersion, func(setup *domain.WeeklySetup) error {
		date, err := setupsheet.PositionDate(setup, positionID)
		if err != nil {
			return err
		}
		roster, err := s.rosterEmployees(ctx, setup.StoreID, date)
		if err != nil {
			return err
		}
		_, err = setupsheet.Assign(setup, positionID, employeeID, roster)
		return err
	})
}

func (s *Service) Unassign(ctx context.Context, actor domain.Actor, id string, baseVersion *int32, positionID string) (*domain.WeeklySetup, error) {
	return s.mutate(ctx, actor, id, baseVersion, func(setup *domain.WeeklySetup) error {
		_, err := setupsheet.Unassign(setup, positionID)
		return err
	})
}

type StartBreakInput struct {
	EmployeeID   string
	EmployeeName string
	Date         string
	Duration     int32
}

func (s *Service) StartBreak(ctx context.Context, actor domain.Actor, id string, baseVersion *int32, in StartBreakInput) (*domain.BreakRecord, *domain.WeeklySetup, error) {
	var record domain.BreakRecord
	employee := domain.EmployeeRef{ID: in.EmployeeID, Name: strings.TrimSpace(in.EmployeeName)}

	setup, err := s.mutate(ctx, actor, id, baseVersion, func(setup *domain.WeeklySetup) error {
		if employee.Name == "" {
			roster, err := s.rosterEmployees(ctx, setup.StoreID, in.Date)
			if err != nil {
				return err
			}
			if idx := slices.IndexFunc(roster, func(e domain.RosterEmployee) bool { return e.ID == employee.ID }); idx >= 0 {
				employee.Name = roster[idx].Name
			}
		}

		r, err := setupsheet.StartBreak(setup, employee, in.Date, in.Duration, s.now())
		if err != nil {
			return err
		}
		record = *r
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &record, setup, nil
}

func (s *Service) EndBreak(ctx context.Context, actor domain.Actor, id string, baseVersion *int32, employeeID, date string) (*domain.BreakRecord, *domain.WeeklySetup, error) {
	var record domain.BreakRecord
	setup, err := s.mutate(ctx, actor, id, baseVersion, func(setup *domain.WeeklySetup) error {
		r, err := setupsheet.EndBreak(setup, employeeID, date, s.now())
		if err != nil {
			return err
		}
		record = *r
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &record, setup, nil
}

type BreakOverview struct {
	Date      string               `json:"date"`
	Records   []domain.BreakRecord `json:"records"`
	Employees []domain.BreakState  `json:"employees"`
}

// Breaks 返回某天的休息记录以及每个员工的休息状态，employeeID 不为空时只返回该员工
func (s *Service) Breaks(ctx context.Context, actor domain.Actor, id, date, employeeID string) (*BreakOverview, error) {
	setup, err := s.GetSetup(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if _, err := domain.ParseDate(date); err != nil {
		return nil, setupsheet.Validationf("%s", err)
	}

	now := s.now()
	overview := &BreakOverview{Date: date, Records: []domain.BreakRecord{}, Employees: []domain.BreakState{}}

	seen := make(map[string]bool)
	for _, b := range setupsheet.BreaksOn(setup, date) {
		if employeeID != "" && b.EmployeeID != employeeID {
			continue
		}
		overview.Records = append(overview.Records, b)
		if !seen[b.EmployeeID] {
			seen[b.EmployeeID] = true
			overview.Employees = append(overview.Employees, setupsheet.BreakStateOf(setup, b.EmployeeID, date, now))
		}
	}
	if employeeID != "" && !seen[employeeID] {
		overview.Employees = append(overview.Employees, setupsheet.BreakStateOf(setup, employeeID, date, now))
	}

	return overview, nil
}

type ReplaceEmployeeInput struct {
	OldEmployeeID   string
	NewEmployeeName string
	Date            string
}

// ReplaceEmployee 把某天某个员工的岗位和进行中的休息全部转给替班人
func (s *Service) ReplaceEmployee(ctx context.Context, actor domain.Actor, id string, baseVersion *int32, in ReplaceEmployeeInput) (*setupsheet.ReplacementResult, *domain.WeeklySetup, error) {
	name := strings.TrimSpace(in.NewEmployeeName)
	if name == "" {
		return nil, nil, setupsheet.Validationf("替班员工姓名不能为空")
	}

	var result *setupsheet.ReplacementResult
	setup, err := s.mutate(ctx, actor, id, baseVersion, func(setup *domain.WeeklySetup) error {
		employee, err := s.resolver.Resolve(ctx, setup.StoreID, in.Date, name)
		if err != nil {
			return err
		}
		result, err = setupsheet.ReplaceEmployee(setup, in.OldEmployeeID, employee, in.Date)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return result, setup, nil
}

// UploadRoster 保存上传的排班表，并确保排班表中存在这些日期。
// 排班表写回成功后才保存员工名单，失败时名单保持不变。
func (s *Service) UploadRoster(ctx context.Context, actor domain.Actor, id string, baseVersion *int32, days []domain.RosterDay) (*setupsheet.RosterApplied, *domain.WeeklySetup, error) {
	var applied *setupsheet.RosterApplied
	var inWeek []domain.RosterDay
	uploadedAt := s.now()
	setup, err := s.mutate(ctx, actor, id, baseVersion, func(setup *domain.WeeklySetup) error {
		var err error
		applied, err = setupsheet.ApplyRoster(setup, days)
		if err != nil {
			return err
		}

		inWeek = make([]domain.RosterDay, 0, len(days))
		for _, day := range days {
			if slices.Contains(applied.Dates, day.Date) {
				day.StoreID = setup.StoreID
				day.UploadedAt = uploadedAt
				inWeek = append(inWeek, day)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if err := s.rosters.Save(ctx, inWeek); err != nil {
		return nil, nil, err
	}
	return applied, setup, nil
}

func (s *Service) GetRoster(ctx context.Context, actor domain.Actor, id, date string) (*domain.RosterDay, error) {
	setup, err := s.GetSetup(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	day, err := s.rosters.Get(ctx, setup.StoreID, date)
	if err != nil {
		return nil, err
	}
	if day == nil {
		return &domain.RosterDay{StoreID: setup.StoreID, Date: date, Employees: []domain.RosterEmployee{}}, nil
	}
	return day, nil
}

// ExportRoster 返回本周所有已上传的排班表
func (s *Service) ExportRoster(ctx context.Context, actor domain.Actor, id string) (*domain.WeeklySetup, []domain.RosterDay, error) {
	setup, err := s.GetSetup(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}

	dates := make([]string, 0, len(setup.Days))
	for _, day := range setup.Days {
		dates = append(dates, day.Date)
	}
	days, err := s.rosters.GetMany(ctx, setup.StoreID, dates)
	if err != nil {
		return nil, nil, err
	}
	return setup, days, nil
}
