package domain

import "time"

type Department string

const (
	DepartmentFOH Department = "FOH" // 前厅
	DepartmentBOH Department = "BOH" // 后厨
)

func (d Department) Valid() bool {
	return d == DepartmentFOH || d == DepartmentBOH
}

// PositionDefinition 是门店岗位目录中的一项，例如 "Drive Thru 1"
type PositionDefinition struct {
	ID         int64      `json:"id"`
	StoreID    string     `json:"storeID"`
	Name       string     `json:"name"`
	Department Department `json:"department"`
	SortOrder  int32      `json:"sortOrder"`
	CreatedAt  time.Time  `json:"createdAt"`
	Version    int32      `json:"version"`
}
