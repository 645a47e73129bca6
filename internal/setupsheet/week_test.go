package setupsheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
)

func TestNextWeekStart(t *testing.T) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	cases := []struct {
		name     string
		now      time.Time
		loc      *time.Location
		startDay time.Weekday
		want     string
	}{
		{"wednesday to monday", time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC), time.UTC, time.Monday, "2024-06-17"},
		{"monday skips today", time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC), time.UTC, time.Monday, "2024-06-17"},
		{"sunday to monday", time.Date(2024, 6, 16, 10, 0, 0, 0, time.UTC), time.UTC, time.Monday, "2024-06-17"},
		{"sunday start", time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC), time.UTC, time.Sunday, "2024-06-16"},
		// UTC 周日 20:00 在上海已经是周一
		{"timezone shifts today", time.Date(2024, 6, 16, 20, 0, 0, 0, time.UTC), shanghai, time.Monday, "2024-06-24"},
		{"nil location", time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC), nil, time.Friday, "2024-06-14"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := NextWeekStart(c.now, c.loc, c.startDay)
			assert.Equal(t, c.want, domain.FormatDate(got))
			assert.Equal(t, c.startDay, got.Weekday())
		})
	}
}

func TestNewWeek(t *testing.T) {
	days := NewWeek(time.Date(2024, 6, 12, 15, 0, 0, 0, time.UTC))
	require.Len(t, days, DaysPerWeek)
	assert.Equal(t, "2024-06-12", days[0].Date)
	assert.Equal(t, int32(time.Wednesday), days[0].DayOfWeek)
	assert.Equal(t, "2024-06-18", days[6].Date)
	assert.Equal(t, int32(time.Tuesday), days[6].DayOfWeek)

	ids := make(map[string]bool)
	for _, d := range days {
		assert.False(t, ids[d.ID])
		ids[d.ID] = true
		assert.NotNil(t, d.TimeBlocks)
	}

	setup := &domain.WeeklySetup{Name: "w", Days: days}
	SetWeekBounds(setup, time.Date(2024, 6, 12, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-06-12", setup.WeekStartDate)
	assert.Equal(t, "2024-06-18", setup.WeekEndDate)
	require.NoError(t, Validate(setup))
}

func TestApplyRosterTwiceKeepsOneDay(t *testing.T) {
	setup := newTestSetup(t)
	roster := domain.RosterDay{
		StoreID: "store-1",
		Date:    testDate,
		Employees: []domain.RosterEmployee{
			employee("a", "Alice", "08:00-14:00"),
			employee("b", "Bob", "08:00-14:00", "17:00-22:00"),
		},
	}

	applied, err := ApplyRoster(setup, []domain.RosterDay{roster})
	require.NoError(t, err)
	assert.Equal(t, []string{testDate}, applied.Dates)
	require.Len(t, setup.DayByDate(testDate).TimeBlocks, 2)

	// 店长在生成的时间块上添加岗位并安排员工
	blockID := setup.DayByDate(testDate).TimeBlocks[0].ID
	p, err := AddPosition(setup, blockID, PositionSpec{Name: "Drive Thru 1", Department: domain.DepartmentFOH})
	require.NoError(t, err)
	_, err = Assign(setup, p.ID, "a", roster.Employees)
	require.NoError(t, err)
	populated := setup.DayByDate(testDate).ID

	outside := roster
	outside.Date = "2024-06-30"
	applied, err = ApplyRoster(setup, []domain.RosterDay{roster, outside})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-30"}, applied.Ignored)

	count := 0
	for _, d := range setup.Days {
		if d.Date == testDate {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, populated, setup.DayByDate(testDate).ID)
	assert.Equal(t, 1, setup.DayByDate(testDate).AssignedCount())
	assert.Len(t, setup.Days, DaysPerWeek)
	require.NoError(t, Validate(setup))

	_, err = ApplyRoster(setup, []domain.RosterDay{{Date: "6/10"}})
	assert.ErrorIs(t, err, ErrValidation)
}
