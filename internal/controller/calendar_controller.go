package controller

import (
	"icd201_backend/internal/model"
	"icd201_backend/internal/planner"
	"icd201_backend/internal/service"
	"icd201_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CalendarController struct {
	CalendarService *service.CalendarService
}

func NewCalendarController(calendarService *service.CalendarService) *CalendarController {
	return &CalendarController{CalendarService: calendarService}
}

// @Summary 日历事件列表
// @Description 按日期排序，可按单元和资源过滤
// @Tags 日历
// @Produce json
// @Param unit_id query int false "单元ID"
// @Param resource_id query string false "资源ID"
// @Success 200 {object} util.Response{data=[]model.CalendarEvent}
// @Router /calendar/events [get]
func (c *CalendarController) List(ctx *gin.Context) {
	unitID, err := util.ParseOptionalUint(ctx.Query("unit_id"))
	if err != nil {
		util.BadRequest(ctx, "invalid unit_id")
		return
	}
	filter := planner.EventFilter{UnitID: unitID, ResourceID: ctx.Query("resource_id")}
	events, err := c.CalendarService.List(ctx.Request.Context(), filter)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, events)
}

// @Summary 日历事件详情
// @Tags 日历
// @Produce json
// @Param id path int true "事件ID"
// @Success 200 {object} util.Response{data=model.CalendarEvent}
// @Router /calendar/events/{id} [get]
func (c *CalendarController) Get(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	event, err := c.CalendarService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, event)
}

// @Summary 创建日历事件
// @Tags 日历
// @Accept json
// @Produce json
// @Param event body model.EventInput true "事件信息"
// @Success 201 {object} util.Response{data=model.CalendarEvent}
// @Failure 400 {object} util.Response
// @Router /calendar/events [post]
func (c *CalendarController) Create(ctx *gin.Context) {
	var req model.EventInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}
	event, err := c.CalendarService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, event)
}

// @Summary 更新日历事件
// @Tags 日历
// @Accept json
// @Produce json
// @Param id path int true "事件ID"
// @Param event body model.EventPatch true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.CalendarEvent}
// @Router /calendar/events/{id} [put]
func (c *CalendarController) Update(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req model.EventPatch
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}
	event, err := c.CalendarService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, event)
}

// @Summary 删除日历事件
// @Tags 日历
// @Produce json
// @Param id path int true "事件ID"
// @Success 200 {object} util.Response
// @Router /calendar/events/{id} [delete]
func (c *CalendarController) Delete(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.CalendarService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Message(ctx, "Event deleted")
}

// @Summary 周视图
// @Description 从课程开始日期起按周分组的事件
// @Tags 日历
// @Produce json
// @Success 200 {object} util.Response{data=[]planner.Week}
// @Router /calendar/weeks [get]
func (c *CalendarController) Weeks(ctx *gin.Context) {
	weeks, err := c.CalendarService.Weeks(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, weeks)
}

// @Summary 某天的事件
// @Tags 日历
// @Produce json
// @Param date path string true "日期 YYYY-MM-DD"
// @Success 200 {object} util.Response{data=[]model.CalendarEvent}
// @Router /calendar/day/{date} [get]
func (c *CalendarController) Day(ctx *gin.Context) {
	events, err := c.CalendarService.Day(ctx.Request.Context(), ctx.Param("date"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, events)
}

// @Summary 资源冲突
// @Description 同一天同一资源超出容量的事件
// @Tags 日历
// @Produce json
// @Success 200 {object} util.Response{data=service.ConflictReport}
// @Router /calendar/conflicts [get]
func (c *CalendarController) Conflicts(ctx *gin.Context) {
	report, err := c.CalendarService.Conflicts(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
