package setupsheet

import (
	"slices"
	"strings"

	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/utils"
)

// AvailabilityQuery 描述一次可用员工查询
type AvailabilityQuery struct {
	Date       string
	BlockStart string
	BlockEnd   string
	// 正在为哪个岗位挑选员工，该岗位当前的员工不会被排除；为空时排除时间块内所有已安排的员工
	ForPositionID string
	// 为空表示不限部门
	Department domain.Department
}

// AvailableEmployees 返回工作时间完整覆盖 [BlockStart, BlockEnd) 的员工，
// 已经在同一时间块的其他岗位上的员工会被排除。结果按姓名拼音、再按 ID 排序。
func AvailableEmployees(setup *domain.WeeklySetup, roster []domain.RosterEmployee, q AvailabilityQuery) ([]domain.RosterEmployee, error) {
	span, err := domain.ParseSpan(q.BlockStart, q.BlockEnd)
	if err != nil {
		return nil, Validationf("时间块 %s-%s 无效：%s", q.BlockStart, q.BlockEnd, err)
	}

	busy := busyEmployees(setup, q, span)

	available := make([]domain.RosterEmployee, 0, len(roster))
	for _, emp := range roster {
		if busy[emp.ID] {
			continue
		}
		if q.Department != "" && emp.Area != q.Department {
			continue
		}
		if !emp.WorksDuring(span) {
			continue
		}
		available = append(available, emp)
	}

	slices.SortStableFunc(available, func(a, b domain.RosterEmployee) int {
		if c := strings.Compare(utils.NameSortKey(a.Name), utils.NameSortKey(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return available, nil
}

// busyEmployees 返回同一时间块中其他岗位上的员工。
// 指定了岗位时以岗位所在的时间块为准，否则合并当天所有时间相同的时间块
func busyEmployees(setup *domain.WeeklySetup, q AvailabilityQuery, span domain.Span) map[string]bool {
	busy := make(map[string]bool)
	mark := func(block *domain.TimeBlock) {
		for _, p := range block.Positions {
			if p.IsAssigned() && p.ID != q.ForPositionID {
				busy[*p.EmployeeID] = true
			}
		}
	}

	if q.ForPositionID != "" {
		if day, block, _ := findPosition(setup, q.ForPositionID); block != nil && day.Date == q.Date {
			mark(block)
			return busy
		}
	}

	day := setup.DayByDate(q.Date)
	if day == nil {
		return busy
	}
	for i := range day.TimeBlocks {
		if s, err := day.TimeBlocks[i].Span(); err == nil && s == span {
			mark(&day.TimeBlocks[i])
		}
	}
	return busy
}

// Assign 把员工安排到岗位上，覆盖岗位原有的安排。
// 员工必须出现在当天的排班表中，或者是当天已经在岗位上的替班身份。
func Assign(setup *domain.WeeklySetup, positionID string, employeeID string, roster []domain.RosterEmployee) (*domain.Position, error) {
	day, block, position := findPosition(setup, positionID)
	if position == nil {
		return nil, NotFoundf("岗位 %s 不存在", positionID)
	}
	span, err := block.Span()
	if err != nil {
		return nil, Validationf("时间块 %s-%s 无效：%s", block.StartTime, block.EndTime, err)
	}

	employee, rostered := resolveEmployee(day, employeeID, roster)
	if employee == nil {
		return nil, NotFoundf("员工 %s 不在 %s 的排班表中", employeeID, day.Date)
	}
	if rostered != nil && !rostered.WorksDuring(span) {
		return nil, Validationf("员工 %s 在 %s 的工作时间（%s）不包含时间块 %s", employee.Name, day.Date, strings.Join(rostered.TimeBlocks, ", "), span)
	}

	for _, other := range block.Positions {
		if other.ID != position.ID && other.AssignedTo(employee.ID) {
			return nil, Conflictf("员工 %s 已经被安排在 %s %s 的岗位 %s，同一时间块只能担任一个岗位", employee.Name, day.Date, span, other.Name)
		}
	}

	id := employee.ID
	position.EmployeeID = &id
	position.EmployeeName = employee.Name
	return position, nil
}

// Unassign 清空岗位上的员工，岗位本来就没有安排员工时什么也不做
func Unassign(setup *domain.WeeklySetup, positionID string) (*domain.Position, error) {
	_, _, position := findPosition(setup, positionID)
	if position == nil {
		return nil, NotFoundf("岗位 %s 不存在", positionID)
	}
	position.EmployeeID = nil
	position.EmployeeName = ""
	return position, nil
}

func resolveEmployee(day *domain.Day, employeeID string, roster []domain.RosterEmployee) (*domain.EmployeeRef, *domain.RosterEmployee) {
	for i := range roster {
		if roster[i].ID == employeeID {
			return &domain.EmployeeRef{ID: roster[i].ID, Name: roster[i].Name}, &roster[i]
		}
	}
	if ref := boundEmployee(day, employeeID); ref != nil {
		return ref, nil
	}
	return nil, nil
}

// boundEmployee 在当天的岗位中查找已经绑定过的员工身份
func boundEmployee(day *domain.Day, employeeID string) *domain.EmployeeRef {
	for _, block := range day.TimeBlocks {
		for _, p := range block.Positions {
			if p.AssignedTo(employeeID) {
				return &domain.EmployeeRef{ID: employeeID, Name: p.EmployeeName}
			}
		}
	}
	return nil
}

// PositionDate 返回岗位所在的日期
func PositionDate(setup *domain.WeeklySetup, positionID string) (string, error) {
	day, _, position := findPosition(setup, positionID)
	if position == nil {
		return "", NotFoundf("岗位 %s 不存在", positionID)
	}
	return day.Date, nil
}
