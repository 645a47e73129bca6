package domain

import "time"

// RosterEmployee 是从上传的排班表中得到的员工投影，只读
type RosterEmployee struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Area       Department `json:"area"`
	TimeBlocks []string   `json:"timeBlocks"`
}

// Windows 返回员工当天所有能解析的工作时间段
func (e *RosterEmployee) Windows() []Span {
	windows := make([]Span, 0, len(e.TimeBlocks))
	for _, tb := range e.TimeBlocks {
		span, err := ParseSpanString(tb)
		if err != nil {
			continue
		}
		windows = append(windows, span)
	}
	return windows
}

func (e *RosterEmployee) WorksDuring(block Span) bool {
	for _, w := range e.Windows() {
		if w.Contains(block) {
			return true
		}
	}
	return false
}

type RosterDay struct {
	StoreID    string           `json:"storeID"`
	Date       string           `json:"date"`
	Employees  []RosterEmployee `json:"employees"`
	UploadedAt time.Time        `json:"uploadedAt"`
}

func (d *RosterDay) EmployeeByID(id string) *RosterEmployee {
	for i := range d.Employees {
		if d.Employees[i].ID == id {
			return &d.Employees[i]
		}
	}
	return nil
}

// EmployeeRef 是岗位上绑定的员工身份
type EmployeeRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
