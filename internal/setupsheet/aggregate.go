package setupsheet

import (
	"slices"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
)

// PositionSpec 描述新增时间块时一并创建的岗位
type PositionSpec struct {
	Name       string
	Department domain.Department
}

// Validate 检查整个周排班表的不变量，写入数据库之前必须调用
func Validate(setup *domain.WeeklySetup) error {
	if strings.TrimSpace(setup.Name) == "" {
		return Validationf("排班表名称不能为空")
	}

	start, err := domain.ParseDate(setup.WeekStartDate)
	if err != nil {
		return Validationf("周开始日期无效：%s", err)
	}
	end, err := domain.ParseDate(setup.WeekEndDate)
	if err != nil {
		return Validationf("周结束日期无效：%s", err)
	}
	if !end.Equal(WeekEnd(start)) {
		return Validationf("周结束日期必须是开始日期之后的第 6 天（%s），当前为 %s", domain.FormatDate(WeekEnd(start)), setup.WeekEndDate)
	}

	seenDates := make(map[string]bool, len(setup.Days))
	seenWeekdays := make(map[int32]string, len(setup.Days))
	for i := range setup.Days {
		day := &setup.Days[i]
		date, err := domain.ParseDate(day.Date)
		if err != nil {
			return Validationf("第 %d 天：%s", i+1, err)
		}
		if seenDates[day.Date] {
			return Validationf("日期 %s 重复出现，同一周内每个日期只能有一天", day.Date)
		}
		seenDates[day.Date] = true

		if int32(date.Weekday()) != day.DayOfWeek {
			return Validationf("日期 %s 是星期 %d，与 dayOfWeek=%d 不符", day.Date, date.Weekday(), day.DayOfWeek)
		}
		if other, ok := seenWeekdays[day.DayOfWeek]; ok {
			return Validationf("日期 %s 和 %s 是同一个星期几", other, day.Date)
		}
		seenWeekdays[day.DayOfWeek] = day.Date

		if !dateInWeek(setup, date) {
			return Validationf("日期 %s 不在 %s 至 %s 之内", day.Date, setup.WeekStartDate, setup.WeekEndDate)
		}

		if err := validateDay(day); err != nil {
			return err
		}
	}

	return validateBreaks(setup.Breaks)
}

func validateDay(day *domain.Day) error {
	spans := make([]domain.Span, len(day.TimeBlocks))
	for i := range day.TimeBlocks {
		block := &day.TimeBlocks[i]
		span, err := block.Span()
		if err != nil {
			return Validationf("%s 的时间块 %s-%s 无效：%s", day.Date, block.StartTime, block.EndTime, err)
		}
		spans[i] = span

		holders := make(map[string]string)
		names := make(map[string]bool)
		for _, p := range block.Positions {
			if strings.TrimSpace(p.Name) == "" {
				return Validationf("%s %s 中存在没有名称的岗位", day.Date, span)
			}
			if names[p.Name] {
				return Validationf("%s %s 中岗位 %s 重复", day.Date, span, p.Name)
			}
			names[p.Name] = true
			if !p.Department.Valid() {
				return Validationf("%s %s 的岗位 %s 部门无效：%q", day.Date, span, p.Name, p.Department)
			}
			if !p.IsAssigned() {
				continue
			}
			if other, ok := holders[*p.EmployeeID]; ok {
				return Conflictf("%s %s 中员工 %s 同时被安排在 %s 和 %s", day.Date, span, employeeLabel(p), other, p.Name)
			}
			holders[*p.EmployeeID] = p.Name
		}
	}

	// 同名岗位在同一天的不同时间块之间不能重叠
	for i := 0; i < len(day.TimeBlocks); i++ {
		for j := i + 1; j < len(day.TimeBlocks); j++ {
			if !spans[i].Overlaps(spans[j]) {
				continue
			}
			for _, p := range day.TimeBlocks[i].Positions {
				if slices.ContainsFunc(day.TimeBlocks[j].Positions, func(q domain.Position) bool { return q.Name == p.Name }) {
					return Validationf("%s 的岗位 %s 在时间块 %s 和 %s 中重叠", day.Date, p.Name, spans[i], spans[j])
				}
			}
		}
	}

	return nil
}

func validateBreaks(breaks []domain.BreakRecord) error {
	active := make(map[string]bool)
	for _, b := range breaks {
		switch b.Status {
		case domain.BreakStatusActive:
			key := b.EmployeeID + "|" + b.BreakDate
			if active[key] {
				return newError(ErrAlreadyOnBreak, "员工 %s 在 %s 存在多条进行中的休息记录", b.EmployeeName, b.BreakDate)
			}
			active[key] = true
		case domain.BreakStatusCompleted:
			if b.EndTime == nil {
				return Validationf("员工 %s 在 %s 的休息记录已结束但缺少结束时间", b.EmployeeName, b.BreakDate)
			}
		default:
			return Validationf("未知的休息状态 %q", b.Status)
		}
		if b.Duration <= 0 {
			return Validationf("员工 %s 在 %s 的计划休息时长必须大于 0", b.EmployeeName, b.BreakDate)
		}
	}
	return nil
}

// MergeDays 合并日期相同的天，保留岗位总数更多的那一份；岗位数相同则保留已安排员工更多的，
// 再比较时间块数量，仍然相同时保留先出现的。结果按日期排序。
func MergeDays(existing []domain.Day, incoming ...domain.Day) []domain.Day {
	merged := make([]domain.Day, 0, len(existing)+len(incoming))
	index := make(map[string]int)

	for _, day := range slices.Concat(existing, incoming) {
		i, ok := index[day.Date]
		if !ok {
			index[day.Date] = len(merged)
			merged = append(merged, day)
			continue
		}
		if richer(&day, &merged[i]) {
			merged[i] = day
		}
	}

	slices.SortStableFunc(merged, func(a, b domain.Day) int {
		return strings.Compare(a.Date, b.Date)
	})
	return merged
}

func richer(candidate, current *domain.Day) bool {
	if candidate.PositionCount() != current.PositionCount() {
		return candidate.PositionCount() > current.PositionCount()
	}
	if candidate.AssignedCount() != current.AssignedCount() {
		return candidate.AssignedCount() > current.AssignedCount()
	}
	return len(candidate.TimeBlocks) > len(current.TimeBlocks)
}

// CreateFromTemplate 把模板的天/时间块/岗位骨架复制到 weekStart 所在的周，清空所有员工安排
func CreateFromTemplate(template *domain.WeeklySetup, weekStart time.Time, name string) (*domain.WeeklySetup, error) {
	if !template.IsTemplate {
		return nil, Validationf("排班表 %s 不是模板", template.Name)
	}

	start := dateOnly(weekStart)
	copied := make([]domain.Day, 0, len(template.Days))
	for _, day := range template.Days {
		offset := (int(day.DayOfWeek) - int(start.Weekday()) + DaysPerWeek) % DaysPerWeek
		copied = append(copied, cloneDaySkeleton(day, start.AddDate(0, 0, offset)))
	}

	if strings.TrimSpace(name) == "" {
		name = template.Name
	}

	setup := &domain.WeeklySetup{
		ID:      newID(),
		StoreID: template.StoreID,
		Name:    strings.TrimSpace(name),
		Days:    MergeDays(NewWeek(start), copied...),
		Breaks:  []domain.BreakRecord{},
	}
	SetWeekBounds(setup, start)

	if err := Validate(setup); err != nil {
		return nil, err
	}
	return setup, nil
}

// SaveAsTemplate 以 setup 的骨架生成一份新模板
func SaveAsTemplate(setup *domain.WeeklySetup, name string) (*domain.WeeklySetup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Validationf("模板名称不能为空")
	}

	days := make([]domain.Day, 0, len(setup.Days))
	for _, day := range setup.Days {
		date, err := domain.ParseDate(day.Date)
		if err != nil {
			return nil, Validationf("日期 %s 无效", day.Date)
		}
		days = append(days, cloneDaySkeleton(day, date))
	}

	template := &domain.WeeklySetup{
		ID:            newID(),
		StoreID:       setup.StoreID,
		Name:          name,
		WeekStartDate: setup.WeekStartDate,
		WeekEndDate:   setup.WeekEndDate,
		IsTemplate:    true,
		Days:          MergeDays(nil, days...),
		Breaks:        []domain.BreakRecord{},
	}

	if err := Validate(template); err != nil {
		return nil, err
	}
	return template, nil
}

func cloneDaySkeleton(day domain.Day, date time.Time) domain.Day {
	clone := domain.Day{
		ID:         newID(),
		DayOfWeek:  int32(date.Weekday()),
		Date:       domain.FormatDate(date),
		TimeBlocks: make([]domain.TimeBlock, 0, len(day.TimeBlocks)),
	}
	for _, block := range day.TimeBlocks {
		b := domain.TimeBlock{
			ID:        newID(),
			StartTime: block.StartTime,
			EndTime:   block.EndTime,
			Positions: make([]domain.Position, 0, len(block.Positions)),
		}
		for _, p := range block.Positions {
			b.Positions = append(b.Positions, domain.Position{
				ID:         newID(),
				Name:       p.Name,
				Department: p.Department,
			})
		}
		clone.TimeBlocks = append(clone.TimeBlocks, b)
	}
	return clone
}

// SetShared 修改门店内可见性，返回值表示状态是否真的发生了变化
func SetShared(setup *domain.WeeklySetup, shared bool) bool {
	if setup.IsShared == shared {
		return false
	}
	setup.IsShared = shared
	return true
}

func Rename(setup *domain.WeeklySetup, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return Validationf("排班表名称不能为空")
	}
	setup.Name = name
	return nil
}

// AddTimeBlock 在指定日期下新增时间块，当天不存在时会先创建这一天
func AddTimeBlock(setup *domain.WeeklySetup, date, startTime, endTime string, specs []PositionSpec) (*domain.TimeBlock, error) {
	d, err := domain.ParseDate(date)
	if err != nil {
		return nil, Validationf("%s", err)
	}
	if !dateInWeek(setup, d) {
		return nil, Validationf("日期 %s 不在 %s 至 %s 之内", date, setup.WeekStartDate, setup.WeekEndDate)
	}
	span, err := domain.ParseSpan(startTime, endTime)
	if err != nil {
		return nil, Validationf("时间块无效：%s", err)
	}

	block := domain.TimeBlock{
		ID:        newID(),
		StartTime: span.Start.String(),
		EndTime:   span.End.String(),
		Positions: make([]domain.Position, 0, len(specs)),
	}
	for _, spec := range specs {
		block.Positions = append(block.Positions, domain.Position{
			ID:         newID(),
			Name:       strings.TrimSpace(spec.Name),
			Department: spec.Department,
		})
	}

	day := setup.DayByDate(date)
	if day == nil {
		day = &domain.Day{ID: newID(), DayOfWeek: int32(d.Weekday()), Date: domain.FormatDate(d)}
	}
	candidate := *day
	candidate.TimeBlocks = append(slices.Clone(day.TimeBlocks), block)
	slices.SortStableFunc(candidate.TimeBlocks, compareBlocks)
	if err := validateDay(&candidate); err != nil {
		return nil, err
	}

	setup.Days = MergeDays(withoutDate(setup.Days, candidate.Date), candidate)
	added := findBlock(setup, block.ID)
	return added, nil
}

func withoutDate(days []domain.Day, date string) []domain.Day {
	return slices.DeleteFunc(slices.Clone(days), func(d domain.Day) bool { return d.Date == date })
}

func compareBlocks(a, b domain.TimeBlock) int {
	sa, errA := a.Span()
	sb, errB := b.Span()
	if errA != nil || errB != nil {
		return strings.Compare(a.StartTime, b.StartTime)
	}
	return int(sa.Start) - int(sb.Start)
}

func RemoveTimeBlock(setup *domain.WeeklySetup, blockID string) error {
	for i := range setup.Days {
		day := &setup.Days[i]
		for j := range day.TimeBlocks {
			if day.TimeBlocks[j].ID == blockID {
				day.TimeBlocks = slices.Delete(day.TimeBlocks, j, j+1)
				return nil
			}
		}
	}
	return NotFoundf("时间块 %s 不存在", blockID)
}

func AddPosition(setup *domain.WeeklySetup, blockID string, spec PositionSpec) (*domain.Position, error) {
	day, block := findDayAndBlock(setup, blockID)
	if block == nil {
		return nil, NotFoundf("时间块 %s 不存在", blockID)
	}

	position := domain.Position{
		ID:         newID(),
		Name:       strings.TrimSpace(spec.Name),
		Department: spec.Department,
	}

	candidate := *day
	candidate.TimeBlocks = slices.Clone(day.TimeBlocks)
	for i := range candidate.TimeBlocks {
		if candidate.TimeBlocks[i].ID == blockID {
			candidate.TimeBlocks[i].Positions = append(slices.Clone(candidate.TimeBlocks[i].Positions), position)
		}
	}
	if err := validateDay(&candidate); err != nil {
		return nil, err
	}

	*day = candidate
	_, _, p := findPosition(setup, position.ID)
	return p, nil
}

func RemovePosition(setup *domain.WeeklySetup, positionID string) error {
	_, block, _ := findPosition(setup, positionID)
	if block == nil {
		return NotFoundf("岗位 %s 不存在", positionID)
	}
	block.Positions = slices.DeleteFunc(block.Positions, func(p domain.Position) bool { return p.ID == positionID })
	return nil
}

func findBlock(setup *domain.WeeklySetup, blockID string) *domain.TimeBlock {
	_, block := findDayAndBlock(setup, blockID)
	return block
}

func findDayAndBlock(setup *domain.WeeklySetup, blockID string) (*domain.Day, *domain.TimeBlock) {
	for i := range setup.Days {
		day := &setup.Days[i]
		for j := range day.TimeBlocks {
			if day.TimeBlocks[j].ID == blockID {
				return day, &day.TimeBlocks[j]
			}
		}
	}
	return nil, nil
}

func findPosition(setup *domain.WeeklySetup, positionID string) (*domain.Day, *domain.TimeBlock, *domain.Position) {
	for i := range setup.Days {
		day := &setup.Days[i]
		for j := range day.TimeBlocks {
			block := &day.TimeBlocks[j]
			for k := range block.Positions {
				if block.Positions[k].ID == positionID {
					return day, block, &block.Positions[k]
				}
			}
		}
	}
	return nil, nil, nil
}

// Clone 深拷贝排班表，调用方可以在副本上试验修改
func Clone(setup *domain.WeeklySetup) *domain.WeeklySetup {
	clone := *setup
	clone.Days = make([]domain.Day, len(setup.Days))
	for i, day := range setup.Days {
		clone.Days[i] = day
		clone.Days[i].TimeBlocks = make([]domain.TimeBlock, len(day.TimeBlocks))
		for j, block := range day.TimeBlocks {
			clone.Days[i].TimeBlocks[j] = block
			clone.Days[i].TimeBlocks[j].Positions = make([]domain.Position, len(block.Positions))
			for k, p := range block.Positions {
				if p.EmployeeID != nil {
					id := *p.EmployeeID
					p.EmployeeID = &id
				}
				clone.Days[i].TimeBlocks[j].Positions[k] = p
			}
		}
	}
	clone.Breaks = make([]domain.BreakRecord, len(setup.Breaks))
	for i, b := range setup.Breaks {
		if b.EndTime != nil {
			end := *b.EndTime
			b.EndTime = &end
		}
		clone.Breaks[i] = b
	}
	if setup.DeletedAt != nil {
		deleted := *setup.DeletedAt
		clone.DeletedAt = &deleted
	}
	return &clone
}

func employeeLabel(p domain.Position) string {
	if p.EmployeeName != "" {
		return p.EmployeeName
	}
	if p.EmployeeID != nil {
		return *p.EmployeeID
	}
	return ""
}
