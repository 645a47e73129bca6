package setupsheet

import (
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
)

const DaysPerWeek = 7

func newID() string {
	return uuid.NewString()
}

// dateOnly 去掉时分秒和时区，日期运算统一在 UTC 下进行
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func WeekEnd(weekStart time.Time) time.Time {
	return dateOnly(weekStart).AddDate(0, 0, DaysPerWeek-1)
}

// NextWeekStart 返回今天之后（不含今天）的第一个周起始日
func NextWeekStart(now time.Time, loc *time.Location, startDay time.Weekday) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	today := dateOnly(now.In(loc))

	delta := (int(startDay) - int(today.Weekday()) + DaysPerWeek) % DaysPerWeek
	if delta == 0 {
		delta = DaysPerWeek
	}
	return today.AddDate(0, 0, delta)
}

// NewWeek 生成从 weekStart 开始的七个空白日期
func NewWeek(weekStart time.Time) []domain.Day {
	start := dateOnly(weekStart)
	days := make([]domain.Day, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		date := start.AddDate(0, 0, i)
		days = append(days, domain.Day{
			ID:         newID(),
			DayOfWeek:  int32(date.Weekday()),
			Date:       domain.FormatDate(date),
			TimeBlocks: []domain.TimeBlock{},
		})
	}
	return days
}

func SetWeekBounds(setup *domain.WeeklySetup, weekStart time.Time) {
	setup.WeekStartDate = domain.FormatDate(dateOnly(weekStart))
	setup.WeekEndDate = domain.FormatDate(WeekEnd(weekStart))
}

// dateInWeek 判断 date 是否落在周期之内
func dateInWeek(setup *domain.WeeklySetup, date time.Time) bool {
	start, err := domain.ParseDate(setup.WeekStartDate)
	if err != nil {
		return false
	}
	d := dateOnly(date)
	return !d.Before(start) && !d.After(WeekEnd(start))
}
