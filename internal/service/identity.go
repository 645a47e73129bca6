package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/setupsheet"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/utils"
)

// IdentityResolver 把替班时输入的姓名解析成员工身份
type IdentityResolver interface {
	Resolve(ctx context.Context, storeID, date, name string) (domain.EmployeeRef, error)
}

// FreeTextResolver 允许任意姓名，为其生成 adhoc-<slug>-<8 位随机串> 形式的临时编号
type FreeTextResolver struct{}

func (FreeTextResolver) Resolve(_ context.Context, _, _, name string) (domain.EmployeeRef, error) {
	slug := utils.Slugify(name)
	if slug == "" {
		slug = "employee"
	}
	id := fmt.Sprintf("adhoc-%s-%s", slug, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return domain.EmployeeRef{ID: id, Name: name}, nil
}

// RosterResolver 要求替班人出现在当天的排班表中，可以输入姓名或员工编号
type RosterResolver struct {
	rosters RosterStore
}

func (r RosterResolver) Resolve(ctx context.Context, storeID, date, name string) (domain.EmployeeRef, error) {
	roster, err := r.rosters.Get(ctx, storeID, date)
	if err != nil {
		return domain.EmployeeRef{}, err
	}
	if roster != nil {
		for _, emp := range roster.Employees {
			if strings.EqualFold(emp.Name, name) || emp.ID == name {
				return domain.EmployeeRef{ID: emp.ID, Name: emp.Name}, nil
			}
		}
	}
	return domain.EmployeeRef{}, setupsheet.NotFoundf("%s 不在 %s 的排班表中，请先上传包含该员工的排班表", name, date)
}
