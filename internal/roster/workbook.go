package roster

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/setupsheet"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/utils"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Roster"

var headers = []string{"Employee ID", "Name", "Area", "Date", "Shift"}

const (
	colID = iota
	colName
	colArea
	colDate
	colShift
)

// 表头别名，比较时忽略大小写和首尾空格
var headerAliases = map[int][]string{
	colID:    {"employee id", "employee_id", "id", "员工编号", "工号"},
	colName:  {"name", "employee name", "姓名"},
	colArea:  {"area", "department", "区域", "部门"},
	colDate:  {"date", "日期"},
	colShift: {"shift", "shifts", "time", "班次", "时间"},
}

var areaAliases = map[string]domain.Department{
	"foh":   domain.DepartmentFOH,
	"front": domain.DepartmentFOH,
	"前厅":    domain.DepartmentFOH,
	"boh":   domain.DepartmentBOH,
	"back":  domain.DepartmentBOH,
	"后厨":    domain.DepartmentBOH,
}

var dateLayouts = []string{
	domain.DateLayout,
	"2006/1/2",
	"1/2/2006",
	"1/2/06",
	"01-02-06",
	"1-2-06",
	"2006年1月2日",
}

// ParseWorkbook 读取上传的排班表，只解析第一个工作表。
// 同一员工同一天出现在多行时合并班次；没有员工编号时根据姓名生成，
// 这时同一天出现两行同名的员工无法区分，需要填写员工编号。
// 上传时间由调用方填写。
func ParseWorkbook(r io.Reader, storeID string) ([]domain.RosterDay, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, setupsheet.Validationf("无法读取排班表文件，请上传 xlsx 格式的文件")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, setupsheet.Validationf("排班表中没有工作表")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("读取工作表 %s 失败: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, setupsheet.Validationf("排班表是空的")
	}

	columns, err := locateColumns(rows[0])
	if err != nil {
		return nil, err
	}

	days := make(map[string]*domain.RosterDay)
	// 日期 + 生成的编号 -> 行号
	derived := make(map[string]int)
	for i, row := range rows[1:] {
		line := i + 2
		cell := func(col int) string {
			idx, ok := columns[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		name := cell(colName)
		if name == "" && cell(colDate) == "" && cell(colShift) == "" {
			continue
		}
		if name == "" {
			return nil, setupsheet.Validationf("第 %d 行缺少姓名", line)
		}

		id := cell(colID)
		generated := id == ""
		if generated {
			id = utils.Slugify(name)
		}
		if id == "" {
			return nil, setupsheet.Validationf("第 %d 行无法根据姓名 %q 生成员工编号", line, name)
		}

		area := domain.DepartmentFOH
		if raw := cell(colArea); raw != "" {
			a, ok := areaAliases[strings.ToLower(raw)]
			if !ok {
				return nil, setupsheet.Validationf("第 %d 行的区域 %q 无效，应为 FOH 或 BOH", line, raw)
			}
			area = a
		}

		date, err := parseDate(cell(colDate))
		if err != nil {
			return nil, setupsheet.Validationf("第 %d 行：%s", line, err)
		}

		shifts, err := parseShifts(cell(colShift))
		if err != nil {
			return nil, setupsheet.Validationf("第 %d 行：%s", line, err)
		}

		key := domain.FormatDate(date)
		if generated {
			if first, ok := derived[key+"|"+id]; ok {
				return nil, setupsheet.Validationf("第 %d 行和第 %d 行在 %s 都是 %s 且没有员工编号，无法区分，请填写员工编号或把班次写在同一行", first, line, key, name)
			}
			derived[key+"|"+id] = line
		}

		day, ok := days[key]
		if !ok {
			day = &domain.RosterDay{StoreID: storeID, Date: key, Employees: []domain.RosterEmployee{}}
			days[key] = day
		}

		if emp := day.EmployeeByID(id); emp != nil {
			for _, s := range shifts {
				if !slices.Contains(emp.TimeBlocks, s) {
					emp.TimeBlocks = append(emp.TimeBlocks, s)
				}
			}
			continue
		}
		day.Employees = append(day.Employees, domain.RosterEmployee{ID: id, Name: name, Area: area, TimeBlocks: shifts})
	}

	result := make([]domain.RosterDay, 0, len(days))
	for _, day := range days {
		slices.SortStableFunc(day.Employees, func(a, b domain.RosterEmployee) int {
			if c := strings.Compare(utils.NameSortKey(a.Name), utils.NameSortKey(b.Name)); c != 0 {
				return c
			}
			return strings.Compare(a.ID, b.ID)
		})
		result = append(result, *day)
	}
	slices.SortFunc(result, func(a, b domain.RosterDay) int { return strings.Compare(a.Date, b.Date) })

	if len(result) == 0 {
		return nil, setupsheet.Validationf("排班表中没有任何员工")
	}
	return result, nil
}

func locateColumns(header []string) (map[int]int, error) {
	columns := make(map[int]int)
	for idx, title := range header {
		title = strings.ToLower(strings.TrimSpace(title))
		for col, aliases := range headerAliases {
			if _, found := columns[col]; !found && slices.Contains(aliases, title) {
				columns[col] = idx
			}
		}
	}

	for _, col := range []int{colName, colDate, colShift} {
		if _, ok := columns[col]; !ok {
			return nil, setupsheet.Validationf("排班表缺少 %s 列", headers[col])
		}
	}
	return columns, nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("缺少日期")
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, value); err == nil {
			return d, nil
		}
	}
	// 没有设置日期格式的单元格会读到 Excel 的序列号
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if d, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("无法识别日期 %q", value)
}

// parseShifts 拆分一个单元格中的多个班次，统一格式化为 HH:MM-HH:MM
func parseShifts(value string) ([]string, error) {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == '，' || r == ';' || r == '；' || r == '\n'
	})
	if len(parts) == 0 {
		return nil, fmt.Errorf("缺少班次")
	}

	shifts := make([]string, 0, len(parts))
	for _, part := range parts {
		span, err := domain.ParseSpanString(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, span.String())
	}
	return shifts, nil
}

// WriteWorkbook 按上传时相同的列导出排班表
func WriteWorkbook(w io.Writer, days []domain.RosterDay) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return err
		}
	}

	row := 2
	for _, day := range days {
		for _, emp := range day.Employees {
			values := []any{emp.ID, emp.Name, string(emp.Area), day.Date, strings.Join(emp.TimeBlocks, ", ")}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
				return err
			}
			row++
		}
	}

	return f.Write(w)
}
