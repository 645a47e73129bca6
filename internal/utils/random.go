package utils

import (
	"fmt"
	"math/rand"

	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

// 门店常见的几种班次
var commonShifts = [][]string{
	{"06:00-14:00"},
	{"07:00-15:00"},
	{"10:00-18:00"},
	{"11:00-14:00", "17:00-21:00"},
	{"14:00-22:00"},
	{"17:00-23:00"},
	{"22:00-06:00"},
}

func GenerateRandomShifts() []string {
	return append([]string{}, commonShifts[rand.Intn(len(commonShifts))]...)
}

// GenerateRandomRosterEmployees 生成 n 个随机员工，员工编号按顺序生成，姓名可能重复
func GenerateRandomRosterEmployees(n int) []domain.RosterEmployee {
	employees := make([]domain.RosterEmployee, 0, n)
	for i := 0; i < n; i++ {
		area := domain.DepartmentFOH
		if rand.Intn(3) == 0 {
			area = domain.DepartmentBOH
		}
		employees = append(employees, domain.RosterEmployee{
			ID:         fmt.Sprintf("e-%03d", i+1),
			Name:       GenerateRandomChineseName(),
			Area:       area,
			TimeBlocks: GenerateRandomShifts(),
		})
	}
	return employees
}
