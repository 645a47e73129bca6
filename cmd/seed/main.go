package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/config"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/database"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/repository"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/seed"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/setupsheet"
)

func main() {
	var op string
	var file string
	var storeID string
	var ownerID string
	var week string
	var n int
	var out string

	flag.StringVar(&op, "op", "", "要执行的操作 (store: 写入岗位目录和模板, roster: 生成随机排班表 xlsx)")
	flag.StringVar(&file, "file", "assets/seeds/store.yaml", "种子数据文件")
	flag.StringVar(&storeID, "store", "store-1", "门店 ID")
	flag.StringVar(&ownerID, "owner", "seed", "模板创建者的用户 ID")
	flag.StringVar(&week, "week", "", "周开始日期 (YYYY-MM-DD)，默认为下一周")
	flag.IntVar(&n, "n", 20, "随机排班表中每天的员工数量")
	flag.StringVar(&out, "out", "roster.xlsx", "随机排班表的输出路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	weekStart := setupsheet.NextWeekStart(time.Now(), cfg.Location(), cfg.WeekStartDay())
	if week != "" {
		weekStart, err = domain.ParseDate(week)
		if err != nil {
			logger.Error("周开始日期无效", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	switch op {
	case "":
		slog.Error("未指定操作")
	case "store":
		f, err := seed.Load(file)
		if err != nil {
			slog.Error("无法读取种子文件", slog.String("error", err.Error()))
			return
		}

		pool, err := database.NewPool(context.Background(), cfg)
		if err != nil {
			slog.Error("无法连接到数据库", slog.String("error", err.Error()))
			return
		}
		defer pool.Close()

		repo := repository.NewRepository(cfg, pool)
		positions, templates, err := f.Apply(context.Background(), repo, storeID, ownerID, weekStart)
		if err != nil {
			slog.Error("无法生成模板", slog.String("error", err.Error()))
		}
		slog.Info("写入种子数据完成", slog.Int("positions", positions), slog.Int("templates", templates))
	case "roster":
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
			return
		}

		w, err := os.Create(out)
		if err != nil {
			slog.Error("无法创建文件", slog.String("error", err.Error()))
			return
		}
		defer w.Close()

		if err := seed.WriteRandomRoster(w, storeID, weekStart, n); err != nil {
			slog.Error("无法生成排班表", slog.String("error", err.Error()))
			return
		}
		slog.Info("生成随机排班表成功", slog.String("path", out), slog.String("weekStart", domain.FormatDate(weekStart)))
	default:
		slog.Error("指定的操作非法")
	}
}
