package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"icd201_backend/internal/export"
	"icd201_backend/internal/model"
	"icd201_backend/internal/repository"
	"icd201_backend/internal/util"
	"icd201_backend/pkg/logger"
	"icd201_backend/pkg/monitoring"
	"icd201_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ExportService struct {
	UnitRepo     *repository.UnitRepository
	ResourceRepo *repository.ResourceRepository
	CalendarRepo *repository.CalendarRepository
	SettingsRepo *repository.SettingsRepository
	ExportRepo   *repository.ExportRepository
	Storage      *StorageService
	Archive      bool

	// now 便于测试固定时间
	now func() time.Time
}

func NewExportService(
	unitRepo *repository.UnitRepository,
	resourceRepo *repository.ResourceRepository,
	calendarRepo *repository.CalendarRepository,
	settingsRepo *repository.SettingsRepository,
	exportRepo *repository.ExportRepository,
	storage *StorageService,
	archive bool,
) *ExportService {
	return &ExportService{
		UnitRepo:     unitRepo,
		ResourceRepo: resourceRepo,
		CalendarRepo: calendarRepo,
		SettingsRepo: settingsRepo,
		ExportRepo:   exportRepo,
		Storage:      storage,
		Archive:      archive,
		now:          time.Now,
	}
}

// collect 按选项加载导出数据；没有匹配的单元时返回 ErrNoUnits
func (s *ExportService) collect(opts export.Options) (export.Data, error) {
	var data export.Data

	settings, err := s.SettingsRepo.Get()
	if err != nil {
		return data, err
	}
	data.Settings = *settings

	if len(opts.SelectedUnits) > 0 {
		data.Units, err = s.UnitRepo.FindByIDs(opts.SelectedUnits)
	} else {
		data.Units, err = s.UnitRepo.FindAll()
	}
	if err != nil {
		return data, err
	}
	if len(data.Units) == 0 {
		return data, util.ErrNoUnits
	}

	if data.Resources, err = s.ResourceRepo.FindAll(); err != nil {
		return data, err
	}
	if opts.IncludeSchedule {
		if data.Events, err = s.CalendarRepo.FindAll(nil); err != nil {
			return data, err
		}
	}
	data.GeneratedAt = s.now()
	return data, nil
}

// Generate 生成导出文档，开启归档时同时上传到存储并记录
func (s *ExportService) Generate(ctx context.Context, format model.ExportFormat, opts export.Options) (*export.Document, error) {
	ctx, span := tracing.Tracer.Start(ctx, "export.generate", trace.WithAttributes(
		attribute.String("export.format", string(format)),
		attribute.String("export.detail_level", opts.DetailLevel),
	))
	defer span.End()

	data, err := s.collect(opts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("export.units", len(data.Units)))

	var buf bytes.Buffer
	switch format {
	case model.ExportPDF:
		err = export.RenderPDF(&buf, data, opts)
	case model.ExportXLSX:
		err = export.RenderXLSX(&buf, data, opts)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	monitoring.ExportsGenerated.WithLabelValues(string(format)).Inc()

	doc := &export.Document{
		Filename:    export.Filename(format, data.GeneratedAt),
		ContentType: export.ContentType(format),
		Data:        buf.Bytes(),
	}
	if s.Archive {
		s.archive(ctx, format, doc, opts)
	}
	return doc, nil
}

// archive 归档失败只记录日志，不影响下载
func (s *ExportService) archive(ctx context.Context, format model.ExportFormat, doc *export.Document, opts export.Options) {
	record := model.ExportRecord{
		UUIDBase: model.UUIDBase{ID: model.GenerateUUID()},
		Format:   format,
		Filename: doc.Filename,
		Size:     int64(len(doc.Data)),
	}
	url, err := s.Storage.ArchiveDocument(ctx, record.ID, doc)
	if err != nil {
		logger.Log.Warn("Export archive upload failed", zap.String("file", doc.Filename), zap.Error(err))
		return
	}
	record.URL = url
	if raw, err := json.Marshal(opts); err == nil {
		record.Options = raw
	}
	if err := s.ExportRepo.Create(&record); err != nil {
		logger.Log.Warn("Export record save failed", zap.String("file", doc.Filename), zap.Error(err))
	}
}

func (s *ExportService) Preview(ctx context.Context, opts export.Options) (*export.Preview, error) {
	data, err := s.collect(opts)
	if err != nil {
		return nil, err
	}
	p := export.BuildPreview(data, opts)
	return &p, nil
}

func (s *ExportService) History(ctx context.Context, limit int) ([]model.ExportRecord, error) {
	return s.ExportRepo.FindRecent(limit)
}
