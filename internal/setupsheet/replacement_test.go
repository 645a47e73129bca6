package setupsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
)

var smith = domain.EmployeeRef{ID: "adhoc-c-smith-0f3e9a1b", Name: "C. Smith"}

// A 当天在两个时间块上岗，并且已经休息过一次
func replacementSetup(t *testing.T) (*domain.WeeklySetup, string, string) {
	t.Helper()
	setup := newTestSetup(t)
	morning := positionID(t, addBlock(t, setup, testDate, "09:00", "13:00", "Drive Thru 1", "Front Counter"), "Drive Thru 1")
	afternoon := positionID(t, addBlock(t, setup, testDate, "13:00", "17:00", "Front Counter"), "Front Counter")

	roster := rosterOf(employee("a", "Alice", "08:00-18:00"), employee("b", "Bob", "08:00-18:00"))
	_, err := Assign(setup, morning, "a", roster)
	require.NoError(t, err)
	_, err = Assign(setup, afternoon, "a", roster)
	require.NoError(t, err)

	_, err = StartBreak(setup, alice, testDate, 15, at(10, 0))
	require.NoError(t, err)
	_, err = EndBreak(setup, "a", testDate, at(10, 15))
	require.NoError(t, err)
	return setup, morning, afternoon
}

func TestReplaceEmployeeRebindsAllPositions(t *testing.T) {
	setup, morning, afternoon := replacementSetup(t)

	result, err := ReplaceEmployee(setup, "a", smith, testDate)
	require.NoError(t, err)

	assert.Equal(t, smith.ID, assignedID(t, setup, morning))
	assert.Equal(t, smith.ID, assignedID(t, setup, afternoon))
	assert.Equal(t, "Alice", result.OldEmployeeName)
	require.Len(t, result.Positions, 2)
	assert.Equal(t, "09:00", result.Positions[0].StartTime)
	assert.Equal(t, "Front Counter", result.Positions[1].PositionName)
	assert.Nil(t, result.MovedBreakID)

	// 已结束的休息记录仍归属原员工
	require.Len(t, setup.Breaks, 1)
	assert.Equal(t, "a", setup.Breaks[0].EmployeeID)
	assert.Equal(t, domain.BreakStatusCompleted, setup.Breaks[0].Status)
	assert.True(t, HasHadBreak(setup, "a", testDate))
	assert.False(t, HasHadBreak(setup, smith.ID, testDate))
	require.NoError(t, Validate(setup))
}

func TestReplaceEmployeeMovesActiveBreak(t *testing.T) {
	setup, _, _ := replacementSetup(t)
	active, err := StartBreak(setup, alice, testDate, 30, at(14, 0))
	require.NoError(t, err)
	activeID := active.ID

	result, err := ReplaceEmployee(setup, "a", smith, testDate)
	require.NoError(t, err)
	require.NotNil(t, result.MovedBreakID)
	assert.Equal(t, activeID, *result.MovedBreakID)

	state := BreakStateOf(setup, smith.ID, testDate, at(14, 10))
	assert.True(t, state.OnBreak)
	assert.Equal(t, 20, state.RemainingMinutes)

	old := BreakStateOf(setup, "a", testDate, at(14, 10))
	assert.False(t, old.OnBreak)
	assert.Equal(t, 1, old.CompletedBreaks)
}

func TestReplaceEmployeeIsAllOrNothing(t *testing.T) {
	setup, morning, _ := replacementSetup(t)
	block := findBlockOfPosition(t, setup, morning)
	counter := positionID(t, block, "Front Counter")
	_, err := Assign(setup, counter, "b", rosterOf(employee("b", "Bob", "08:00-18:00")))
	require.NoError(t, err)

	before := Clone(setup)
	_, err = ReplaceEmployee(setup, "a", domain.EmployeeRef{ID: "b", Name: "Bob"}, testDate)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, before, setup)
}

func TestReplaceEmployeeRejectsWhenNewIdentityOnBreak(t *testing.T) {
	setup, _, _ := replacementSetup(t)
	_, err := StartBreak(setup, alice, testDate, 30, at(14, 0))
	require.NoError(t, err)
	_, err = StartBreak(setup, domain.EmployeeRef{ID: "b", Name: "Bob"}, testDate, 30, at(14, 5))
	require.NoError(t, err)

	before := Clone(setup)
	_, err = ReplaceEmployee(setup, "a", domain.EmployeeRef{ID: "b", Name: "Bob"}, testDate)
	require.ErrorIs(t, err, ErrAlreadyOnBreak)
	assert.Equal(t, before, setup)
}

func TestReplaceEmployeeErrors(t *testing.T) {
	setup, _, _ := replacementSetup(t)
	before := Clone(setup)

	_, err := ReplaceEmployee(setup, "a", domain.EmployeeRef{ID: "x", Name: "   "}, testDate)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ReplaceEmployee(setup, "a", domain.EmployeeRef{ID: "a", Name: "Alice"}, testDate)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ReplaceEmployee(setup, "nobody", smith, testDate)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	_, err = ReplaceEmployee(setup, "a", smith, "2024-06-11")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	assert.Equal(t, before, setup)
}

func TestReplaceEmployeeWithOnlyBreakRecords(t *testing.T) {
	setup := newTestSetup(t)
	_, err := StartBreak(setup, alice, testDate, 30, at(14, 0))
	require.NoError(t, err)

	result, err := ReplaceEmployee(setup, "a", smith, testDate)
	require.NoError(t, err)
	assert.Empty(t, result.Positions)
	require.NotNil(t, result.MovedBreakID)
	assert.Equal(t, smith.ID, setup.Breaks[0].EmployeeID)
}

func findBlockOfPosition(t *testing.T, setup *domain.WeeklySetup, positionID string) *domain.TimeBlock {
	t.Helper()
	_, block, _ := findPosition(setup, positionID)
	require.NotNil(t, block)
	return block
}
