package controller

import (
	"icd201_backend/internal/model"
	"icd201_backend/internal/service"
	"icd201_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UnitController struct {
	UnitService *service.UnitService
}

func NewUnitController(unitService *service.UnitService) *UnitController {
	return &UnitController{UnitService: unitService}
}

// @Summary 单元列表
// @Description 返回全部单元及其课时，按 id 升序
// @Tags 单元
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Unit}
// @Router /units [get]
func (c *UnitController) List(ctx *gin.Context) {
	units, err := c.UnitService.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, units)
}

// @Summary 单元详情
// @Tags 单元
// @Produce json
// @Param id path int true "单元ID"
// @Success 200 {object} util.Response{data=model.Unit}
// @Failure 404 {object} util.Response
// @Router /units/{id} [get]
func (c *UnitController) Get(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	unit, err := c.UnitService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, unit)
}

// @Summary 创建单元
// @Tags 单元
// @Accept json
// @Produce json
// @Param unit body model.UnitInput true "单元信息"
// @Success 201 {object} util.Response{data=model.Unit}
// @Failure 400 {object} util.Response
// @Router /units [post]
func (c *UnitController) Create(ctx *gin.Context) {
	var req model.UnitInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}
	unit, err := c.UnitService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, unit)
}

// @Summary 更新单元
// @Description 只修改请求中出现的字段，课时通过课时接口维护
// @Tags 单元
// @Accept json
// @Produce json
// @Param id path int true "单元ID"
// @Param unit body model.UnitPatch true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Unit}
// @Router /units/{id} [put]
func (c *UnitController) Update(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req model.UnitPatch
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}
	unit, err := c.UnitService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, unit)
}

// @Summary 删除单元
// @Description 同时删除该单元的课时和日历事件
// @Tags 单元
// @Produce json
// @Param id path int true "单元ID"
// @Success 200 {object} util.Response
// @Router /units/{id} [delete]
func (c *UnitController) Delete(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.UnitService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Message(ctx, "Unit deleted")
}

// @Summary 添加课时
// @Tags 课时
// @Accept json
// @Produce json
// @Param id path int true "单元ID"
// @Param lesson body model.LessonInput true "课时信息"
// @Success 201 {object} util.Response{data=model.Unit}
// @Router /units/{id}/lessons [post]
func (c *UnitController) AddLesson(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req model.LessonInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}
	unit, err := c.UnitService.AddLesson(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, unit)
}

// @Summary 更新课时
// @Tags 课时
// @Accept json
// @Produce json
// @Param id path int true "单元ID"
// @Param lessonId path int true "课时ID"
// @Param lesson body model.LessonPatch true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Unit}
// @Router /units/{id}/lessons/{lessonId} [put]
func (c *UnitController) UpdateLesson(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	lessonID, ok := uintParam(ctx, "lessonId")
	if !ok {
		return
	}
	var req model.LessonPatch
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}
	unit, err := c.UnitService.UpdateLesson(ctx.Request.Context(), id, lessonID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, unit)
}

// @Summary 删除课时
// @Description 同时删除引用该课时的日历事件
// @Tags 课时
// @Produce json
// @Param id path int true "单元ID"
// @Param lessonId path int true "课时ID"
// @Success 200 {object} util.Response{data=model.Unit}
// @Router /units/{id}/lessons/{lessonId} [delete]
func (c *UnitController) DeleteLesson(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	lessonID, ok := uintParam(ctx, "lessonId")
	if !ok {
		return
	}
	unit, err := c.UnitService.DeleteLesson(ctx.Request.Context(), id, lessonID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, unit)
}
