package domain

import "time"

type Position struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Department   Department `json:"department"`
	EmployeeID   *string    `json:"employeeID"` // 为空表示该岗位还没有安排员工
	EmployeeName string     `json:"employeeName,omitempty"`
}

func (p *Position) IsAssigned() bool {
	return p.EmployeeID != nil && *p.EmployeeID != ""
}

func (p *Position) AssignedTo(employeeID string) bool {
	return p.IsAssigned() && *p.EmployeeID == employeeID
}

type TimeBlock struct {
	ID        string     `json:"id"`
	StartTime string     `json:"startTime"`
	EndTime   string     `json:"endTime"`
	Positions []Position `json:"positions"`
}

func (b *TimeBlock) Span() (Span, error) {
	return ParseSpan(b.StartTime, b.EndTime)
}

type Day struct {
	ID         string      `json:"id"`
	DayOfWeek  int32       `json:"dayOfWeek"` // 0 表示周日
	Date       string      `json:"date"`
	TimeBlocks []TimeBlock `json:"timeBlocks"`
}

func (d *Day) PositionCount() int {
	n := 0
	for _, block := range d.TimeBlocks {
		n += len(block.Positions)
	}
	return n
}

func (d *Day) AssignedCount() int {
	n := 0
	for _, block := range d.TimeBlocks {
		for _, p := range block.Positions {
			if p.IsAssigned() {
				n++
			}
		}
	}
	return n
}

type WeeklySetup struct {
	ID            string        `json:"id"`
	StoreID       string        `json:"storeID"`
	OwnerID       string        `json:"ownerID"`
	Name          string        `json:"name"`
	WeekStartDate string        `json:"weekStartDate"`
	WeekEndDate   string        `json:"weekEndDate"`
	IsTemplate    bool          `json:"isTemplate"`
	IsShared      bool          `json:"isShared"`
	AutoGenerated bool          `json:"autoGenerated"`
	Days          []Day         `json:"days"`
	Breaks        []BreakRecord `json:"breaks"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	DeletedAt     *time.Time    `json:"-"`
	Version       int32         `json:"version"`
}

func (s *WeeklySetup) DayByDate(date string) *Day {
	for i := range s.Days {
		if s.Days[i].Date == date {
			return &s.Days[i]
		}
	}
	return nil
}

// SetupSummary 是列表接口返回的精简信息，不包含各天的明细
type SetupSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	OwnerID       string    `json:"ownerID"`
	WeekStartDate string    `json:"weekStartDate"`
	WeekEndDate   string    `json:"weekEndDate"`
	IsTemplate    bool      `json:"isTemplate"`
	IsShared      bool      `json:"isShared"`
	AutoGenerated bool      `json:"autoGenerated"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Version       int32     `json:"version"`
}
