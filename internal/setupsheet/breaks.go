package setupsheet

import (
	"slices"
	"time"

	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
)

// 休息状态机：none -> active -> completed，completed 之后可以再次进入 active。
// 所有函数都显式接收 now，不读取系统时间。

func StartBreak(setup *domain.WeeklySetup, employee domain.EmployeeRef, date string, planned int32, now time.Time) (*domain.BreakRecord, error) {
	d, err := domain.ParseDate(date)
	if err != nil {
		return nil, Validationf("%s", err)
	}
	if !dateInWeek(setup, d) {
		return nil, Validationf("日期 %s 不在 %s 至 %s 之内", date, setup.WeekStartDate, setup.WeekEndDate)
	}
	if planned <= 0 {
		return nil, Validationf("计划休息时长必须大于 0 分钟")
	}
	if employee.ID == "" {
		return nil, Validationf("员工 ID 不能为空")
	}

	if active := activeBreak(setup, employee.ID, date); active != nil {
		return nil, newError(ErrAlreadyOnBreak, "员工 %s 在 %s 已经处于休息中（开始于 %s）", displayName(active.EmployeeName, active.EmployeeID), date, active.StartTime.Format("15:04"))
	}

	if employee.Name == "" {
		if day := setup.DayByDate(date); day != nil {
			if ref := boundEmployee(day, employee.ID); ref != nil {
				employee.Name = ref.Name
			}
		}
	}

	setup.Breaks = append(setup.Breaks, domain.BreakRecord{
		ID:           newID(),
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		BreakDate:    date,
		StartTime:    now,
		Duration:     planned,
		Status:       domain.BreakStatusActive,
	})
	return &setup.Breaks[len(setup.Breaks)-1], nil
}

func EndBreak(setup *domain.WeeklySetup, employeeID string, date string, now time.Time) (*domain.BreakRecord, error) {
	active := activeBreak(setup, employeeID, date)
	if active == nil {
		return nil, newError(ErrNoActiveBreak, "员工 %s 在 %s 没有进行中的休息", employeeID, date)
	}

	end := now
	active.EndTime = &end
	active.Status = domain.BreakStatusCompleted
	return active, nil
}

// RemainingBreakTime 返回 max(0, 计划时长 - 已休息分钟数)，没有进行中的休息时返回 0
func RemainingBreakTime(setup *domain.WeeklySetup, employeeID string, date string, now time.Time) int {
	active := activeBreak(setup, employeeID, date)
	if active == nil {
		return 0
	}
	return remaining(active, now)
}

func remaining(b *domain.BreakRecord, now time.Time) int {
	elapsed := int(now.Sub(b.StartTime) / time.Minute)
	if elapsed < 0 {
		elapsed = 0
	}
	return max(0, int(b.Duration)-elapsed)
}

func HasHadBreak(setup *domain.WeeklySetup, employeeID string, date string) bool {
	return completedBreaks(setup, employeeID, date) > 0
}

func BreakStateOf(setup *domain.WeeklySetup, employeeID string, date string, now time.Time) domain.BreakState {
	state := domain.BreakState{
		EmployeeID:      employeeID,
		Date:            date,
		CompletedBreaks: completedBreaks(setup, employeeID, date),
	}
	state.HasHadBreak = state.CompletedBreaks > 0

	if active := activeBreak(setup, employeeID, date); active != nil {
		record := *active
		state.OnBreak = true
		state.Active = &record
		state.RemainingMinutes = remaining(active, now)
	}
	return state
}

// BreaksOn 返回某一天的全部休息记录，按开始时间的先后顺序
func BreaksOn(setup *domain.WeeklySetup, date string) []domain.BreakRecord {
	records := make([]domain.BreakRecord, 0)
	for _, b := range setup.Breaks {
		if b.BreakDate == date {
			records = append(records, b)
		}
	}
	slices.SortStableFunc(records, func(a, b domain.BreakRecord) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return records
}

func activeBreak(setup *domain.WeeklySetup, employeeID string, date string) *domain.BreakRecord {
	for i := range setup.Breaks {
		b := &setup.Breaks[i]
		if b.EmployeeID == employeeID && b.BreakDate == date && b.Status == domain.BreakStatusActive {
			return b
		}
	}
	return nil
}

func completedBreaks(setup *domain.WeeklySetup, employeeID string, date string) int {
	n := 0
	for _, b := range setup.Breaks {
		if b.EmployeeID == employeeID && b.BreakDate == date && b.Status == domain.BreakStatusCompleted {
			n++
		}
	}
	return n
}

func displayName(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
