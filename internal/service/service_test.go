package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/config"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/setupsheet"
)

// fakeRepository 把排班表保存在内存中，读写时都复制一份，模拟数据库的行为
type fakeRepository struct {
	setups    map[string]*domain.WeeklySetup
	positions map[int64]*domain.PositionDefinition
	nextID    int64
	updates   int
	// 不为 nil 时 UpdateWeeklySetup 直接返回该错误
	updateErr error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		setups:    make(map[string]*domain.WeeklySetup),
		positions: make(map[int64]*domain.PositionDefinition),
	}
}

func (r *fakeRepository) CreateWeeklySetup(_ context.Context, setup *domain.WeeklySetup) error {
	setup.Version = 1
	r.setups[setup.ID] = setupsheet.Clone(setup)
	return nil
}

func (r *fakeRepository) GetWeeklySetup(_ context.Context, id string) (*domain.WeeklySetup, error) {
	setup, ok := r.setups[id]
	if !ok {
		return nil, setupsheet.NotFoundf("排班表不存在")
	}
	return setupsheet.Clone(setup), nil
}

func (r *fakeRepository) ListWeeklySetups(_ context.Context, storeID, userID string, templates bool) ([]*domain.SetupSummary, error) {
	list := []*domain.SetupSummary{}
	for _, s := range r.setups {
		if s.StoreID == storeID && s.IsTemplate == templates && (s.OwnerID == userID || s.IsShared) {
			list = append(list, &domain.SetupSummary{ID: s.ID, Name: s.Name, OwnerID: s.OwnerID, Version: s.Version})
		}
	}
	return list, nil
}

func (r *fakeRepository) UpdateWeeklySetup(_ context.Context, setup *domain.WeeklySetup) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	current, ok := r.setups[setup.ID]
	if !ok || current.Version != setup.Version {
		return setupsheet.Conflictf("排班表已被其他人修改，请刷新后重试")
	}
	setup.Version++
	r.setups[setup.ID] = setupsheet.Clone(setup)
	r.updates++
	return nil
}

func (r *fakeRepository) SoftDeleteWeeklySetup(_ context.Context, id string, version int32) error {
	current, ok := r.setups[id]
	if !ok || current.Version != version {
		return setupsheet.Conflictf("排班表已被其他人修改，请刷新后重试")
	}
	delete(r.setups, id)
	return nil
}

func (r *fakeRepository) ClearAutoGenerated(_ context.Context, storeID string) error {
	for _, s := range r.setups {
		if s.StoreID == storeID && s.AutoGenerated {
			s.AutoGenerated = false
			s.Version++
		}
	}
	return nil
}

func (r *fakeRepository) GetAllPositions(_ context.Context, storeID string) ([]*domain.PositionDefinition, error) {
	list := []*domain.PositionDefinition{}
	for _, p := range r.positions {
		if p.StoreID == storeID {
			list = append(list, p)
		}
	}
	return list, nil
}

func (r *fakeRepository) GetPositionByID(_ context.Context, storeID string, id int64) (*domain.PositionDefinition, error) {
	p, ok := r.positions[id]
	if !ok || p.StoreID != storeID {
		return nil, setupsheet.NotFoundf("岗位不存在")
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepository) CreatePosition(_ context.Context, p *domain.PositionDefinition) error {
	r.nextID++
	p.ID = r.nextID
	p.Version = 1
	cp := *p
	r.positions[p.ID] = &cp
	return nil
}

func (r *fakeRepository) UpdatePosition(_ context.Context, p *domain.PositionDefinition) error {
	p.Version++
	cp := *p
	r.positions[p.ID] = &cp
	return nil
}

func (r *fakeRepository) DeletePosition(_ context.Context, storeID string, id int64) error {
	if _, err := r.GetPositionByID(context.Background(), storeID, id); err != nil {
		return err
	}
	delete(r.positions, id)
	return nil
}

type fakeRosterStore struct {
	days map[string]domain.RosterDay
}

func (f *fakeRosterStore) Save(_ context.Context, days []domain.RosterDay) error {
	for _, d := range days {
		f.days[d.StoreID+"/"+d.Date] = d
	}
	return nil
}

func (f *fakeRosterStore) Get(_ context.Context, storeID, date string) (*domain.RosterDay, error) {
	d, ok := f.days[storeID+"/"+date]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (f *fakeRosterStore) GetMany(ctx context.Context, storeID string, dates []string) ([]domain.RosterDay, error) {
	days := []domain.RosterDay{}
	for _, date := range dates {
		if d, _ := f.Get(ctx, storeID, date); d != nil {
			days = append(days, *d)
		}
	}
	return days, nil
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

var (
	owner    = domain.Actor{UserID: "u-owner", StoreID: "store-1", Name: "王店长", Role: domain.RoleLeader}
	leader   = domain.Actor{UserID: "u-leader", StoreID: "store-1", Name: "李经理", Role: domain.RoleLeader}
	member   = domain.Actor{UserID: "u-member", StoreID: "store-1", Name: "小张", Role: domain.RoleTeamMember}
	director = domain.Actor{UserID: "u-director", StoreID: "store-1", Name: "陈总", Role: domain.RoleDirector}
	outsider = domain.Actor{UserID: "u-other", StoreID: "store-2", Name: "外店", Role: domain.RoleDirector}
)

type testEnv struct {
	svc     *Service
	repo    *fakeRepository
	rosters *fakeRosterStore
	clock   *fixedClock
}

func newTestEnv(t *testing.T, strict bool) *testEnv {
	t.Helper()
	cfg := &config.Config{}
	cfg.Store.Timezone = "Asia/Shanghai"
	cfg.Store.WeekStartDay = 1
	cfg.Replacement.Strict = strict

	env := &testEnv{
		repo:    newFakeRepository(),
		rosters: &fakeRosterStore{days: make(map[string]domain.RosterDay)},
		// 2024-06-05 是周三
		clock: &fixedClock{now: time.Date(2024, 6, 5, 9, 0, 0, 0, cfg.Location())},
	}
	env.svc = New(cfg, env.repo, env.rosters, nil, env.clock)
	return env
}

func (e *testEnv) newSetup(t *testing.T) *domain.WeeklySetup {
	t.Helper()
	setup, err := e.svc.CreateSetup(context.Background(), owner, CreateSetupInput{Name: "第 24 周"})
	require.NoError(t, err)
	return setup
}

func (e *testEnv) addBlock(t *testing.T, id, date, start, end string, names ...string) *domain.TimeBlock {
	t.Helper()
	specs := make([]setupsheet.PositionSpec, 0, len(names))
	for _, n := range names {
		specs = append(specs, setupsheet.PositionSpec{Name: n, Department: domain.DepartmentFOH})
	}
	setup, err := e.svc.AddTimeBlock(context.Background(), owner, id, nil, AddTimeBlockInput{Date: date, StartTime: start, EndTime: end, Positions: specs})
	require.NoError(t, err)

	day := setup.DayByDate(date)
	require.NotNil(t, day)
	for i := range day.TimeBlocks {
		if day.TimeBlocks[i].StartTime == start && day.TimeBlocks[i].EndTime == end {
			return &day.TimeBlocks[i]
		}
	}
	t.Fatalf("找不到时间段 %s-%s", start, end)
	return nil
}

func (e *testEnv) uploadRoster(t *testing.T, id, date string, employees ...domain.RosterEmployee) {
	t.Helper()
	_, _, err := e.svc.UploadRoster(context.Background(), owner, id, nil, []domain.RosterDay{{Date: date, Employees: employees}})
	require.NoError(t, err)
}

func TestCreateSetupDefaultsToNextWeek(t *testing.T) {
	env := newTestEnv(t, false)
	setup := env.newSetup(t)

	assert.Equal(t, "2024-06-10", setup.WeekStartDate)
	assert.Equal(t, "2024-06-16", setup.WeekEndDate)
	assert.Len(t, setup.Days, 7)
	assert.Equal(t, owner.UserID, setup.OwnerID)
	assert.Equal(t, int32(1), setup.Version)
}

func TestCreateSetupRejectsBadInput(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.svc.CreateSetup(context.Background(), owner, CreateSetupInput{Name: "x", WeekStartDate: "10/06"})
	assert.ErrorIs(t, err, setupsheet.ErrValidation)

	_, err = env.svc.CreateSetup(context.Background(), owner, CreateSetupInput{Name: "  "})
	assert.ErrorIs(t, err, setupsheet.ErrValidation)
	assert.Empty(t, env.repo.setups)
}

func TestVisibility(t *testing.T) {
	env := newTestEnv(t, false)
	setup := env.newSetup(t)
	ctx := context.Background()

	_, err := env.svc.GetSetup(ctx, leader, setup.ID)
	assert.ErrorIs(t, err, setupsheet.ErrNotFound, "未共享的排班表对其他人不可见")

	_, _, err = env.svc.SetShared(ctx, owner, setup.ID, nil, true)
	require.NoError(t, err)

	_, err = env.svc.GetSetup(ctx, leader, setup.ID)
	assert.NoError(t, err)
	_, err = env.svc.GetSetup(ctx, outsider, setup.ID)
	assert.ErrorIs(t, err, setupsheet.ErrNotFound, "其他门店永远不可见")
}

func TestEditPermissions(t *testing.T) {
	env := newTestEnv(t, false)
	setup := env.newSetup(t)
	ctx := context.Background()

	setup, changed, err := env.svc.SetShared(ctx, owner, setup.ID, nil, true)
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = env.svc.RenameSetup(ctx, leader, setup.ID, nil, "共享后由经理修改")
	assert.NoError(t, err)

	_, err = env.svc.RenameSetup(ctx, member, setup.ID, nil, "组员不能修改")
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = env.svc.SetShared(ctx, leader, setup.ID, nil, false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, changed, err = env.svc.SetShared(ctx, director, setup.ID, nil, true)
	require.NoError(t, err)
	assert.False(t, changed)

	err = env.svc.DeleteSetup(ctx, director, setup.ID, nil)
	assert.ErrorIs(t, err, ErrForbidden)
	require.NoError(t, env.svc.DeleteSetup(ctx, owner, setup.ID, nil))

	_, err = env.svc.GetSetup(ctx, owner, setup.ID)
	assert.ErrorIs(t, err, setupsheet.ErrNotFound)
}

func TestStaleVersionIsRejectedWithoutWriting(t *testing.T) {
	env := newTestEnv(t, false)
	setup := env.newSetup(t)
	ctx := context.Background()

	stale := setup.Version
	_, err := env.svc.RenameSetup(ctx, owner, setup.ID, &stale, "第一次修改")
	require.NoError(t, err)
	updates := env.repo.updates

	_, err = env.svc.RenameSetup(ctx, owner, setup.ID, &stale, "基于旧版本的修改")
	assert.ErrorIs(t, err, setupsheet.ErrConflict)
	assert.Equal(t, updates, env.repo.updates)

	current, err := env.svc.GetSetup(ctx, owner, setup.ID)
	require.NoError(t, err)
	assert.Equal(t, "第一次修改", current.Name)
}

func TestFailedCommandNeverWrites(t *testing.T) {
	env := newTestEnv(t, false)
	setup := env.newSetup(t)
	ctx := context.Background()
	block := env.addBlock(t, setup.ID, "2024-06-10", "08:00", "12:00", "Drive Thru 1")
	updates := env.repo.updates

	_, err := env.svc.Assign(ctx, owner, setup.ID, nil, block.Positions[0].ID, "nobody")
	assert.ErrorIs(t, err, setupsheet.ErrNotFound)
	assert.Equal(t, updates, env.repo.updates)

	current, err := env.svc.GetSetup(ctx, owner, setup.ID)
	require.NoError(t, err)
	assert.False(t, current.DayByDate("2024-06-10").TimeBlocks[0].Positions[0].IsAssigned())
}

func TestAssignUsesRosterOfPositionDate(t *testing.T) {
	env := newTestEnv(t, false)
	setup := env.newSetup(t)
	ctx := context.Background()

	block := env.addBlock(t, setup.ID, "2024-06-10", "08:00", "12:00", "Drive Thru 1", "Front Counter")
	env.uploadRoster(t, setup.ID, "2024-06-10",
		domain.RosterEmployee{ID: "e-1", Name: "张伟", Area: domain.DepartmentFOH, TimeBlocks: []string{"07:00-15:00"}},
		domain.RosterEmployee{ID: "e-2", Name: "Alice", Area: domain.DepartmentFOH, TimeBlocks: []string{"10:00-18:00"}},
	)

	available, err := env.svc.AvailableEmployees(ctx, owner, setup.ID, setupsheet.AvailabilityQuery{Date: "2024-06-10", BlockStart: "08:00", BlockEnd: "12:00"})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "e-1", available[0].ID)

	updated, err := env.svc.Assign(ctx, owner, setup.ID, nil, block.Positions[0].ID, "e-1")
	require.NoError(t, err)
	pos := updated.DayByDate("2024-06-10").TimeBlocks[0].Positions[0]
	assert.Equal(t, "张伟", pos.EmployeeName)

	_, err = env.svc.Assign(ctx, owner, setup.ID, nil, block.Positions[1].ID, "e-1")
	assert.ErrorIs(t, err, setupsheet.ErrConflict)

	updated, err = env.svc.Unassign(ctx, owner, setup.ID, nil, block.Positions[0].ID)
	require.NoError(t, err)
	assert.False(t, updated.DayByDate("2024-06-10").TimeBlocks[0].Positions[0].IsAssigned())
}

func TestBreaksUseClock(t *testing.T) {
	env := newTestEnv(t, false)
	setup := env.newSetup(t)
	ctx := context.Background()
	env.uploadRoster(t, setup.ID, "2024-06-10", domain.RosterEmployee{ID: "e-1", Name: "张伟", Area: domain.DepartmentFOH, TimeBlocks: []string{"08:00-16:00"}})

	env.clock.now = time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)
	record, _, err := env.svc.StartBreak(ctx, owner, setup.ID, nil, StartBreakInput{EmployeeID: "e-1", Date: "2024-06-10", Duration: 30})
	require.NoError(t, err)
	assert.Equal(t, "张伟", record.EmployeeName, "没有传姓名时从排班表中补全")

	_, _, err = env.svc.StartBreak(ctx, owner, setup.ID, nil, StartBreakInput{EmployeeID: "e-1", Date: "2024-06-10", Duration: 30})
	assert.ErrorIs(t, err, setupsheet.ErrAlreadyOnBreak)

	env.clock.now = env.clock.now.Add(10 * time.Minute)
	overview, err := env.svc.Breaks(ctx, owner, setup.ID, "2024-06-10", "")
	require.NoError(t, err)
	require.Len(t, overview.Employees, 1)
	assert.True(t, overview.Employees[0].OnBreak)
	assert.Equal(t, 20, overview.Employees[0].RemainingMinutes)

	record, _, err = env.svc.EndBreak(ctx, owner, setup.ID, nil, "e-1", "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, domain.BreakStatusCompleted, record.Status)

	overview, err = env.svc.Breaks(ctx, owner, setup.ID, "2024-06-10", "e-9")
	require.NoError(t, err)
	assert.Empty(t, overview.Records)
	require.Len(t, overview.Employees, 1)
	assert.False(t, overview.Employees[0].HasHadBreak)

	_, _, err = env.svc.EndBreak(ctx, owner, setup.ID, nil, "e-1", "2024-06-10")
	assert.ErrorIs(t, err, setupsheet.ErrNoActiveBreak)
}

func TestReplaceEmployeeFreeText(t *testing.T) {
	env := newTestEnv(t, false)
	setup := env.newSetup(t)
	ctx := context.Background()

	block := env.addBlock(t, setup.ID, "2024-06-10", "08:00", "12:00", "Drive Thru 1")
	env.uploadRoster(t, setup.ID, "2024-06-10", domain.RosterEmployee{ID: "e-1", Name: "张伟", Area: domain.DepartmentFOH, TimeBlocks: []string{"08:00-16:00"}})
	_, err := env.svc.Assign(ctx, owner, setup.ID, nil, block.Positions[0].ID, "e-1")
	require.NoError(t, err)

	_, _, err = env.svc.ReplaceEmployee(ctx, owner, setup.ID, nil, ReplaceEmployeeInput{OldEmployeeID: "e-1", NewEmployeeName: "   ", Date: "2024-06-10"})
	assert.ErrorIs(t, err, setupsheet.ErrValidation)

	result, updated, err := env.svc.ReplaceEmployee(ctx, owner, setup.ID, nil, ReplaceEmployeeInput{OldEmployeeID: "e-1", NewEmployeeName: " Bob Lee ", Date: "2024-06-10"})
	require.NoError(t, err)
	assert.Equal(t, "Bob Lee", result.NewEmployee.Name)
	assert.Regexp(t, `^adhoc-bob-lee-[0-9a-f]{8}$`, result.NewEmployee.ID)

	pos := updated.DayByDate("2024-06-10").TimeBlocks[0].Positions[0]
	assert.Equal(t, result.NewEmployee.ID, *pos.EmployeeID)
}

func TestReplaceEmployeeStrict(t *testing.T) {
	env := newTestEnv(t, true)
	setup := env.newSetup(t)
	ctx := context.Background()

	block := env.addBlock(t, setup.ID, "2024-06-10", "08:00", "12:00", "Drive Thru 1")
	env.uploadRoster(t, setup.ID, "2024-06-10",
		domain.RosterEmployee{ID: "e-1", Name: "张伟", Area: domain.DepartmentFOH, TimeBlocks: []string{"08:00-16:00"}},
		domain.RosterEmployee{ID: "e-2", Name: "Alice", Area: domain.DepartmentFOH, TimeBlocks: []string{"08:00-16:00"}},
	)
	_, err := env.svc.Assign(ctx, owner, setup.ID, nil, block.Positions[0].ID, "e-1")
	require.NoError(t, err)

	_, _, err = env.svc.ReplaceEmployee(ctx, owner, setup.ID, nil, ReplaceEmployeeInput{OldEmployeeID: "e-1", NewEmployeeName: "Bob", Date: "2024-06-10"})
	assert.ErrorIs(t, err, setupsheet.ErrNotFound)

	result, _, err := env.svc.ReplaceEmployee(ctx, owner, setup.ID, nil, ReplaceEmployeeInput{OldEmployeeID: "e-1", NewEmployeeName: "alice", Date: "2024-06-10"})
	require.NoError(t, err)
	assert.Equal(t, domain.EmployeeRef{ID: "e-2", Name: "Alice"}, result.NewEmployee)
}

func TestTemplateRoundTrip(t *testing.T) {
	env := newTestEnv(t, false)
	setup := env.newSetup(t)
	ctx := context.Background()

	block := env.addBlock(t, setup.ID, "2024-06-10", "08:00", "12:00", "Drive Thru 1")
	env.uploadRoster(t, setup.ID, "2024-06-10", domain.RosterEmployee{ID: "e-1", Name: "张伟", Area: domain.DepartmentFOH, TimeBlocks: []string{"08:00-16:00"}})
	_, err := env.svc.Assign(ctx, owner, setup.ID, nil, block.Positions[0].ID, "e-1")
	require.NoError(t, err)

	template, err := env.svc.SaveAsTemplate(ctx, owner, setup.ID, "标准周")
	require.NoError(t, err)
	assert.True(t, template.IsTemplate)

	copied, err := env.svc.CreateFromTemplate(ctx, owner, CreateFromTemplateInput{TemplateID: template.ID, Name: "第 25 周", WeekStartDate: "2024-06-17"})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-17", copied.WeekStartDate)
	assert.False(t, copied.IsTemplate)

	monday := copied.DayByDate("2024-06-17")
	require.NotNil(t, monday)
	require.Len(t, monday.TimeBlocks, 1)
	assert.False(t, monday.TimeBlocks[0].Positions[0].IsAssigned(), "从模板创建的排班表不带员工")

	templates, err := env.svc.ListSetups(ctx, owner, true)
	require.NoError(t, err)
	assert.Len(t, templates, 1)
}

func TestOnlyOneAutoGeneratedSetupPerStore(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	first, err := env.svc.CreateSetup(ctx, owner, CreateSetupInput{Name: "第 24 周", AutoGenerated: true})
	require.NoError(t, err)
	second, err := env.svc.CreateSetup(ctx, owner, CreateSetupInput{Name: "第 25 周", WeekStartDate: "2024-06-17", AutoGenerated: true})
	require.NoError(t, err)
	manual, err := env.svc.CreateSetup(ctx, owner, CreateSetupInput{Name: "手工"})
	require.NoError(t, err)

	assert.False(t, env.repo.setups[first.ID].AutoGenerated)
	assert.True(t, env.repo.setups[second.ID].AutoGenerated)
	assert.False(t, env.repo.setups[manual.ID].AutoGenerated)

	template, err := env.svc.SaveAsTemplate(ctx, owner, second.ID, "标准周")
	require.NoError(t, err)
	assert.False(t, template.AutoGenerated, "模板不参与自动生成")
	assert.True(t, env.repo.setups[second.ID].AutoGenerated)
}

func TestUploadRosterIgnoresOtherWeeks(t *testing.T) {
	env := newTestEnv(t, false)
	setup := env.newSetup(t)
	ctx := context.Background()

	applied, _, err := env.svc.UploadRoster(ctx, owner, setup.ID, nil, []domain.RosterDay{
		{StoreID: "spoofed", Date: "2024-06-11", Employees: []domain.RosterEmployee{{ID: "e-1", Name: "张伟", Area: domain.DepartmentFOH, TimeBlocks: []string{"08:00-12:00"}}}},
		{Date: "2024-06-30", Employees: []domain.RosterEmployee{}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-11"}, applied.Dates)
	assert.Equal(t, []string{"2024-06-30"}, applied.Ignored)

	day, err := env.svc.GetRoster(ctx, owner, setup.ID, "2024-06-11")
	require.NoError(t, err)
	assert.Equal(t, "store-1", day.StoreID)
	assert.Len(t, day.Employees, 1)

	empty, err := env.svc.GetRoster(ctx, owner, setup.ID, "2024-06-12")
	require.NoError(t, err)
	assert.Empty(t, empty.Employees)

	_, days, err := env.svc.ExportRoster(ctx, owner, setup.ID)
	require.NoError(t, err)
	assert.Len(t, days, 1)
}

func TestUploadRosterSavesOnlyAfterWrite(t *testing.T) {
	env := newTestEnv(t, false)
	setup := env.newSetup(t)
	ctx := context.Background()
	days := []domain.RosterDay{{Date: "2024-06-10", Employees: []domain.RosterEmployee{{ID: "a", Name: "A", Area: domain.DepartmentFOH, TimeBlocks: []string{"08:00-14:00"}}}}}

	env.repo.updateErr = setupsheet.Conflictf("排班表已被其他人修改，请刷新后重试")
	_, _, err := env.svc.UploadRoster(ctx, owner, setup.ID, nil, days)
	require.ErrorIs(t, err, setupsheet.ErrConflict)
	assert.Empty(t, env.rosters.days)

	env.repo.updateErr = nil
	_, _, err = env.svc.UploadRoster(ctx, owner, setup.ID, nil, days)
	require.NoError(t, err)
	saved, err := env.rosters.Get(ctx, "store-1", "2024-06-10")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.True(t, env.clock.now.Equal(saved.UploadedAt))
}

func TestPositionCatalog(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	_, err := env.svc.CreatePosition(ctx, owner, PositionInput{Name: "Drive Thru 1", Department: "Lobby"})
	assert.ErrorIs(t, err, setupsheet.ErrValidation)

	p, err := env.svc.CreatePosition(ctx, owner, PositionInput{Name: " Drive Thru 1 ", Department: domain.DepartmentFOH, SortOrder: 1})
	require.NoError(t, err)
	assert.Equal(t, "Drive Thru 1", p.Name)

	stale := int32(0)
	_, err = env.svc.UpdatePosition(ctx, owner, p.ID, &stale, PositionInput{Name: "Drive Thru", Department: domain.DepartmentFOH})
	assert.ErrorIs(t, err, setupsheet.ErrConflict)

	p, err = env.svc.UpdatePosition(ctx, owner, p.ID, nil, PositionInput{Name: "Drive Thru", Department: domain.DepartmentFOH})
	require.NoError(t, err)
	assert.Equal(t, "Drive Thru", p.Name)

	_, err = env.svc.UpdatePosition(ctx, outsider, p.ID, nil, PositionInput{Name: "x", Department: domain.DepartmentFOH})
	assert.ErrorIs(t, err, setupsheet.ErrNotFound)

	require.NoError(t, env.svc.DeletePosition(ctx, owner, p.ID))
	list, err := env.svc.ListPositions(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)
}
