package domain

import "time"

type BreakStatus string

const (
	BreakStatusActive    BreakStatus = "active"
	BreakStatusCompleted BreakStatus = "completed"
)

type BreakRecord struct {
	ID           string      `json:"id"`
	EmployeeID   string      `json:"employeeID"`
	EmployeeName string      `json:"employeeName"`
	BreakDate    string      `json:"breakDate"`
	StartTime    time.Time   `json:"startTime"`
	EndTime      *time.Time  `json:"endTime"`
	Duration     int32       `json:"duration"` // 计划休息的分钟数
	Status       BreakStatus `json:"status"`
}

// BreakState 是某个员工某一天的休息情况汇总
type BreakState struct {
	EmployeeID       string       `json:"employeeID"`
	Date             string       `json:"date"`
	OnBreak          bool         `json:"onBreak"`
	RemainingMinutes int          `json:"remainingMinutes"`
	HasHadBreak      bool         `json:"hasHadBreak"`
	CompletedBreaks  int          `json:"completedBreaks"`
	Active           *BreakRecord `json:"active"`
}
