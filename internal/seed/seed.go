package seed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/roster"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/setupsheet"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/utils"
	"gopkg.in/yaml.v3"
)

// File 是种子数据文件的结构，见 assets/seeds/store.yaml
type File struct {
	Positions []struct {
		Name       string `yaml:"name"`
		Department string `yaml:"department"`
		SortOrder  int32  `yaml:"sortOrder"`
	} `yaml:"positions"`
	Templates []struct {
		Name string `yaml:"name"`
		Days []struct {
			// 0 表示周日
			DayOfWeek  int `yaml:"dayOfWeek"`
			TimeBlocks []struct {
				Start string   `yaml:"start"`
				End   string   `yaml:"end"`
				FOH   []string `yaml:"foh"`
				BOH   []string `yaml:"boh"`
			} `yaml:"timeBlocks"`
		} `yaml:"days"`
	} `yaml:"templates"`
}

func Parse(data []byte) (*File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("种子文件为空")
	}
	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("解析种子文件失败: %w", err)
	}
	return f, nil
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	return Parse(data)
}

type Repository interface {
	CreatePosition(ctx context.Context, p *domain.PositionDefinition) error
	CreateWeeklySetup(ctx context.Context, setup *domain.WeeklySetup) error
}

// BuildTemplates 把种子文件中的模板转换成排班表模板，weekStart 决定模板中各天的日期
func (f *File) BuildTemplates(storeID, ownerID string, weekStart time.Time) ([]*domain.WeeklySetup, error) {
	templates := make([]*domain.WeeklySetup, 0, len(f.Templates))
	for _, t := range f.Templates {
		template := &domain.WeeklySetup{
			ID:         uuid.NewString(),
			StoreID:    storeID,
			OwnerID:    ownerID,
			Name:       t.Name,
			IsTemplate: true,
			Days:       setupsheet.NewWeek(weekStart),
			Breaks:     []domain.BreakRecord{},
		}
		setupsheet.SetWeekBounds(template, weekStart)

		for _, day := range t.Days {
			date := weekStart.AddDate(0, 0, (day.DayOfWeek-int(weekStart.Weekday())+setupsheet.DaysPerWeek)%setupsheet.DaysPerWeek)
			for _, block := range day.TimeBlocks {
				specs := make([]setupsheet.PositionSpec, 0, len(block.FOH)+len(block.BOH))
				for _, name := range block.FOH {
					specs = append(specs, setupsheet.PositionSpec{Name: name, Department: domain.DepartmentFOH})
				}
				for _, name := range block.BOH {
					specs = append(specs, setupsheet.PositionSpec{Name: name, Department: domain.DepartmentBOH})
				}
				if _, err := setupsheet.AddTimeBlock(template, domain.FormatDate(date), block.Start, block.End, specs); err != nil {
					return nil, fmt.Errorf("模板 %s: %w", t.Name, err)
				}
			}
		}

		if err := setupsheet.Validate(template); err != nil {
			return nil, fmt.Errorf("模板 %s: %w", t.Name, err)
		}
		templates = append(templates, template)
	}
	return templates, nil
}

// Apply 写入岗位目录和模板，单条失败只记录日志，返回成功写入的数量
func (f *File) Apply(ctx context.Context, repo Repository, storeID, ownerID string, weekStart time.Time) (int, int, error) {
	positions := 0
	for _, p := range f.Positions {
		def := &domain.PositionDefinition{
			StoreID:    storeID,
			Name:       p.Name,
			Department: domain.Department(p.Department),
			SortOrder:  p.SortOrder,
		}
		if !def.Department.Valid() {
			slog.Error("岗位部门无效", "name", p.Name, "department", p.Department)
			continue
		}
		if err := repo.CreatePosition(ctx, def); err != nil {
			slog.Error("无法插入岗位", "name", p.Name, "error", err)
			continue
		}
		positions++
	}

	templates, err := f.BuildTemplates(storeID, ownerID, weekStart)
	if err != nil {
		return positions, 0, err
	}
	created := 0
	for _, t := range templates {
		if err := repo.CreateWeeklySetup(ctx, t); err != nil {
			slog.Error("无法插入模板", "name", t.Name, "error", err)
			continue
		}
		created++
	}

	return positions, created, nil
}

// WriteRandomRoster 为 weekStart 所在的一周生成随机排班表，可以直接用于上传测试
func WriteRandomRoster(w io.Writer, storeID string, weekStart time.Time, n int) error {
	days := make([]domain.RosterDay, 0, setupsheet.DaysPerWeek)
	for i := 0; i < setupsheet.DaysPerWeek; i++ {
		days = append(days, domain.RosterDay{
			StoreID:   storeID,
			Date:      domain.FormatDate(weekStart.AddDate(0, 0, i)),
			Employees: utils.GenerateRandomRosterEmployees(n),
		})
	}
	return roster.WriteWorkbook(w, days)
}
