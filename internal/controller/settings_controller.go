package controller

import (
	"icd201_backend/internal/model"
	"icd201_backend/internal/service"
	"icd201_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	SettingsService *service.SettingsService
	StatsService    *service.StatsService
}

func NewSettingsController(settingsService *service.SettingsService, statsService *service.StatsService) *SettingsController {
	return &SettingsController{SettingsService: settingsService, StatsService: statsService}
}

// @Summary 课程设置
// @Tags 设置
// @Produce json
// @Success 200 {object} util.Response{data=model.CourseSettings}
// @Router /settings [get]
func (c *SettingsController) Get(ctx *gin.Context) {
	settings, err := c.SettingsService.Get(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, settings)
}

// @Summary 更新课程设置
// @Tags 设置
// @Accept json
// @Produce json
// @Param settings body model.SettingsPatch true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.CourseSettings}
// @Failure 400 {object} util.Response
// @Router /settings [put]
func (c *SettingsController) Update(ctx *gin.Context) {
	var req model.SettingsPatch
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}
	settings, err := c.SettingsService.Update(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, settings)
}

// @Summary 课程进度总览
// @Tags 统计
// @Produce json
// @Success 200 {object} util.Response{data=service.OverviewReport}
// @Router /stats/overview [get]
func (c *SettingsController) Overview(ctx *gin.Context) {
	report, err := c.StatsService.Overview(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
