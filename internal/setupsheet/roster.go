package setupsheet

import (
	"slices"

	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
)

type RosterApplied struct {
	Dates   []string `json:"dates"`
	Ignored []string `json:"ignored"` // 不在本周之内的日期
}

// ApplyRoster 根据上传的排班表为每个日期生成一天，每个不同的班次对应一个空的时间块。
// 通过 MergeDays 合并，已经编辑过的天不会被覆盖，同一日期重复上传也只会保留一天。
func ApplyRoster(setup *domain.WeeklySetup, rosters []domain.RosterDay) (*RosterApplied, error) {
	applied := &RosterApplied{Dates: []string{}, Ignored: []string{}}

	incoming := make([]domain.Day, 0, len(rosters))
	for _, roster := range rosters {
		date, err := domain.ParseDate(roster.Date)
		if err != nil {
			return nil, Validationf("排班表中的日期 %q 无效", roster.Date)
		}
		if !dateInWeek(setup, date) {
			applied.Ignored = append(applied.Ignored, roster.Date)
			continue
		}

		day := domain.Day{
			ID:         newID(),
			DayOfWeek:  int32(date.Weekday()),
			Date:       domain.FormatDate(date),
			TimeBlocks: []domain.TimeBlock{},
		}
		seen := make(map[domain.Span]bool)
		for _, emp := range roster.Employees {
			for _, w := range emp.Windows() {
				if seen[w] {
					continue
				}
				seen[w] = true
				day.TimeBlocks = append(day.TimeBlocks, domain.TimeBlock{
					ID:        newID(),
					StartTime: w.Start.String(),
					EndTime:   w.End.String(),
					Positions: []domain.Position{},
				})
			}
		}
		slices.SortStableFunc(day.TimeBlocks, compareBlocks)

		incoming = append(incoming, day)
		if !slices.Contains(applied.Dates, day.Date) {
			applied.Dates = append(applied.Dates, day.Date)
		}
	}

	setup.Days = MergeDays(setup.Days, incoming...)
	slices.Sort(applied.Dates)
	return applied, nil
}
