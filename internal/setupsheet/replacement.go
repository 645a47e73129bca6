package setupsheet

import (
	"strings"

	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
)

type ReplacedPosition struct {
	PositionID   string `json:"positionID"`
	PositionName string `json:"positionName"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
}

type ReplacementResult struct {
	Date            string             `json:"date"`
	OldEmployeeID   string             `json:"oldEmployeeID"`
	OldEmployeeName string             `json:"oldEmployeeName"`
	NewEmployee     domain.EmployeeRef `json:"newEmployee"`
	Positions       []ReplacedPosition `json:"positions"`
	MovedBreakID    *string            `json:"movedBreakID"`
}

type positionRef struct {
	block    int
	position int
}

// ReplaceEmployee 把某天所有安排给 oldEmployeeID 的岗位改为 newEmployee，
// 进行中的休息记录一并转给新身份，已结束的休息记录仍然归属原员工。
// 先校验整个替换计划，全部通过后才修改，失败时 setup 保持不变。
func ReplaceEmployee(setup *domain.WeeklySetup, oldEmployeeID string, newEmployee domain.EmployeeRef, date string) (*ReplacementResult, error) {
	newEmployee.Name = strings.TrimSpace(newEmployee.Name)
	if newEmployee.Name == "" {
		return nil, Validationf("替班员工姓名不能为空")
	}
	if newEmployee.ID == "" {
		return nil, Validationf("替班员工 ID 不能为空")
	}
	if newEmployee.ID == oldEmployeeID {
		return nil, Validationf("替班员工不能是 %s 本人", newEmployee.Name)
	}

	day := setup.DayByDate(date)

	var targets []positionRef
	oldName := ""
	if day != nil {
		for i := range day.TimeBlocks {
			for j, p := range day.TimeBlocks[i].Positions {
				if p.AssignedTo(oldEmployeeID) {
					targets = append(targets, positionRef{block: i, position: j})
					if oldName == "" {
						oldName = p.EmployeeName
					}
				}
			}
		}
	}

	hasBreaks := false
	for _, b := range setup.Breaks {
		if b.EmployeeID == oldEmployeeID && b.BreakDate == date {
			hasBreaks = true
			if oldName == "" {
				oldName = b.EmployeeName
			}
		}
	}

	if len(targets) == 0 && !hasBreaks {
		return nil, newError(ErrEmployeeNotFound, "员工 %s 在 %s 没有任何岗位安排或休息记录，无需替换", oldEmployeeID, date)
	}

	// 校验：新身份不能在同一时间块里已经担任别的岗位
	for _, ref := range targets {
		block := &day.TimeBlocks[ref.block]
		for k, p := range block.Positions {
			if k != ref.position && p.AssignedTo(newEmployee.ID) {
				return nil, Validationf("%s 已经在 %s %s-%s 担任 %s，无法再接替 %s 的岗位 %s",
					newEmployee.Name, date, block.StartTime, block.EndTime, p.Name,
					displayName(oldName, oldEmployeeID), block.Positions[ref.position].Name)
			}
		}
	}

	oldActive := activeBreak(setup, oldEmployeeID, date)
	if oldActive != nil && activeBreak(setup, newEmployee.ID, date) != nil {
		return nil, newError(ErrAlreadyOnBreak, "%s 在 %s 已经处于休息中，无法接替 %s 的休息记录", newEmployee.Name, date, displayName(oldName, oldEmployeeID))
	}

	result := &ReplacementResult{
		Date:            date,
		OldEmployeeID:   oldEmployeeID,
		OldEmployeeName: oldName,
		NewEmployee:     newEmployee,
		Positions:       make([]ReplacedPosition, 0, len(targets)),
	}

	for _, ref := range targets {
		block := &day.TimeBlocks[ref.block]
		p := &block.Positions[ref.position]
		id := newEmployee.ID
		p.EmployeeID = &id
		p.EmployeeName = newEmployee.Name
		result.Positions = append(result.Positions, ReplacedPosition{
			PositionID:   p.ID,
			PositionName: p.Name,
			StartTime:    block.StartTime,
			EndTime:      block.EndTime,
		})
	}

	if oldActive != nil {
		oldActive.EmployeeID = newEmployee.ID
		oldActive.EmployeeName = newEmployee.Name
		movedID := oldActive.ID
		result.MovedBreakID = &movedID
	}

	return result, nil
}
