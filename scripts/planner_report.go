// 课程规划报告脚本
//
// 连接后端（或使用本地固定数据）加载课程数据，输出进度、资源使用和冲突汇总。
//
// 用法: go run scripts/planner_report.go [-local] [-pdf schema.pdf]

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"icd201_backend/internal/config"
	"icd201_backend/internal/export"
	"icd201_backend/internal/facade"
	"icd201_backend/internal/planner"
	"icd201_backend/internal/store"
	"icd201_backend/pkg/logger"
)

func main() {
	local := flag.Bool("local", false, "使用本地固定数据，不连接后端")
	pdfPath := flag.String("pdf", "", "同时导出 PDF 到指定路径")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	policy, err := planner.PolicyFromConfig(cfg.Planner.ConflictPolicy, cfg.Planner.HoursPerDay)
	if err != nil {
		log.Fatalf("冲突策略无效: %v", err)
	}

	var f facade.Facade
	if *local {
		f = facade.NewMemory(policy)
	} else {
		f = facade.NewHTTPClient(cfg.Client.BaseURL, cfg.Client.Timeout)
	}

	ctx := context.Background()
	conn := f.CheckConnection(ctx)
	if !conn.Connected {
		log.Fatalf("连接失败: %s", conn.Error)
	}
	log.Println(conn.Message)

	s := store.New(f, policy)
	if err := s.Load(ctx); err != nil {
		log.Fatalf("加载数据失败: %v", err)
	}

	settings := s.Settings()
	overview := s.Overview()
	fmt.Printf("%s (%s → %s)\n", settings.CourseTitle, settings.StartDate, settings.EndDate)
	fmt.Printf("单元 %d  课时 %d  资源 %d  事件 %d\n",
		overview.UnitsCount, overview.LessonsCount, overview.ResourcesCount, overview.EventsCount)
	fmt.Printf("计划 %dh / %dh (%.2f%%)  已排课 %dh\n",
		overview.PlannedHours, overview.TotalHours, overview.ProgressPercent, overview.ScheduledHours)

	fmt.Println("\n资源使用:")
	for _, r := range s.Resources() {
		usage, _ := s.Usage(r.ID)
		fmt.Printf("  %-22s %4dh 计划  %4dh 已排  %6.2f%%\n",
			r.Name, usage.TotalHours, usage.ScheduledHours, usage.Utilization)
	}

	for _, d := range planner.DurationDrift(s.Units()) {
		fmt.Printf("单元 %q 声明 %dh，课时合计 %dh\n", d.UnitTitle, d.Declared, d.LessonHours)
	}

	contentions := s.Contentions()
	fmt.Printf("\n冲突 (%s): %d\n", policy.Name(), len(contentions))
	for _, c := range contentions {
		fmt.Printf("  %s  %-22s %d 个事件 / %d 台  %dh\n",
			c.Date, c.ResourceName, c.ConflictCount, c.Capacity, c.Hours)
	}

	if *pdfPath != "" {
		doc, err := s.ExportDocument(ctx, export.DefaultOptions())
		if err != nil {
			log.Fatalf("导出失败: %v", err)
		}
		if err := os.WriteFile(*pdfPath, doc.Data, 0644); err != nil {
			log.Fatalf("写入文件失败: %v", err)
		}
		log.Printf("已导出 %s (%d 字节)", doc.Filename, len(doc.Data))
	}
}
