package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"icd201_backend/internal/export"
	"icd201_backend/internal/model"
	"icd201_backend/internal/service"
	"icd201_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExportController struct {
	ExportService *service.ExportService
}

func NewExportController(exportService *service.ExportService) *ExportController {
	return &ExportController{ExportService: exportService}
}

// bindOptions 在默认选项上覆盖请求体，空请求体使用默认值
func bindOptions(ctx *gin.Context) (export.Options, bool) {
	opts := export.DefaultOptions()
	if err := ctx.ShouldBindJSON(&opts); err != nil && !errors.Is(err, io.EOF) {
		util.BindError(ctx, err)
		return opts, false
	}
	return opts, true
}

// @Summary 导出 PDF
// @Description 生成课程方案 PDF 并作为附件下载
// @Tags 导出
// @Accept json
// @Produce application/pdf
// @Param options body export.Options false "导出选项"
// @Success 200 {file} file
// @Failure 404 {object} util.Response
// @Router /export/pdf [post]
func (c *ExportController) PDF(ctx *gin.Context) {
	c.download(ctx, model.ExportPDF)
}

// @Summary 导出 Excel
// @Tags 导出
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param options body export.Options false "导出选项"
// @Success 200 {file} file
// @Router /export/xlsx [post]
func (c *ExportController) XLSX(ctx *gin.Context) {
	c.download(ctx, model.ExportXLSX)
}

func (c *ExportController) download(ctx *gin.Context, format model.ExportFormat) {
	opts, ok := bindOptions(ctx)
	if !ok {
		return
	}
	doc, err := c.ExportService.Generate(ctx.Request.Context(), format, opts)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", doc.Filename))
	ctx.Data(http.StatusOK, doc.ContentType, doc.Data)
}

// @Summary 导出预览
// @Tags 导出
// @Accept json
// @Produce json
// @Param options body export.Options false "导出选项"
// @Success 200 {object} util.Response{data=export.Preview}
// @Router /export/preview [post]
func (c *ExportController) Preview(ctx *gin.Context) {
	opts, ok := bindOptions(ctx)
	if !ok {
		return
	}
	preview, err := c.ExportService.Preview(ctx.Request.Context(), opts)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, preview)
}

// @Summary 导出历史
// @Tags 导出
// @Produce json
// @Param limit query int false "数量" default(50)
// @Success 200 {object} util.Response{data=[]model.ExportRecord}
// @Router /export/history [get]
func (c *ExportController) History(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	records, err := c.ExportService.History(ctx.Request.Context(), limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, records)
}
