package setupsheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
)

const testDate = "2024-06-10"

var weekStart = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func newTestSetup(t *testing.T) *domain.WeeklySetup {
	t.Helper()
	setup := &domain.WeeklySetup{
		ID:      "setup-1",
		StoreID: "store-1",
		OwnerID: "leader-1",
		Name:    "6 月第二周",
		Days:    NewWeek(weekStart),
		Breaks:  []domain.BreakRecord{},
		Version: 1,
	}
	SetWeekBounds(setup, weekStart)
	require.NoError(t, Validate(setup))
	return setup
}

func addBlock(t *testing.T, setup *domain.WeeklySetup, date, start, end string, names ...string) *domain.TimeBlock {
	t.Helper()
	specs := make([]PositionSpec, 0, len(names))
	for _, name := range names {
		specs = append(specs, PositionSpec{Name: name, Department: domain.DepartmentFOH})
	}
	block, err := AddTimeBlock(setup, date, start, end, specs)
	require.NoError(t, err)
	return block
}

func positionID(t *testing.T, block *domain.TimeBlock, name string) string {
	t.Helper()
	for _, p := range block.Positions {
		if p.Name == name {
			return p.ID
		}
	}
	t.Fatalf("position %s not found", name)
	return ""
}

func rosterOf(employees ...domain.RosterEmployee) []domain.RosterEmployee {
	return employees
}

func employee(id, name string, windows ...string) domain.RosterEmployee {
	return domain.RosterEmployee{ID: id, Name: name, Area: domain.DepartmentFOH, TimeBlocks: windows}
}

func assignedID(t *testing.T, setup *domain.WeeklySetup, positionID string) string {
	t.Helper()
	_, _, p := findPosition(setup, positionID)
	require.NotNil(t, p)
	if p.EmployeeID == nil {
		return ""
	}
	return *p.EmployeeID
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 10, hour, minute, 0, 0, time.UTC)
}
