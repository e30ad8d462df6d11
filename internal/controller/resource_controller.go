package controller

import (
	"icd201_backend/internal/model"
	"icd201_backend/internal/service"
	"icd201_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResourceController struct {
	ResourceService *service.ResourceService
}

func NewResourceController(resourceService *service.ResourceService) *ResourceController {
	return &ResourceController{ResourceService: resourceService}
}

// @Summary 资源列表
// @Tags 资源
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Resource}
// @Router /resources [get]
func (c *ResourceController) List(ctx *gin.Context) {
	resources, err := c.ResourceService.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resources)
}

// @Summary 资源详情
// @Tags 资源
// @Produce json
// @Param id path string true "资源ID"
// @Success 200 {object} util.Response{data=model.Resource}
// @Failure 404 {object} util.Response
// @Router /resources/{id} [get]
func (c *ResourceController) Get(ctx *gin.Context) {
	resource, err := c.ResourceService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resource)
}

// @Summary 创建资源
// @Description 资源 id 由调用方指定，不能重复
// @Tags 资源
// @Accept json
// @Produce json
// @Param resource body model.ResourceInput true "资源信息"
// @Success 201 {object} util.Response{data=model.Resource}
// @Failure 400 {object} util.Response
// @Router /resources [post]
func (c *ResourceController) Create(ctx *gin.Context) {
	var req model.ResourceInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}
	resource, err := c.ResourceService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, resource)
}

// @Summary 更新资源
// @Tags 资源
// @Accept json
// @Produce json
// @Param id path string true "资源ID"
// @Param resource body model.ResourcePatch true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Resource}
// @Router /resources/{id} [put]
func (c *ResourceController) Update(ctx *gin.Context) {
	var req model.ResourcePatch
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}
	resource, err := c.ResourceService.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resource)
}

// @Summary 删除资源
// @Description 同时从课时和日历事件中移除该资源
// @Tags 资源
// @Produce json
// @Param id path string true "资源ID"
// @Success 200 {object} util.Response
// @Router /resources/{id} [delete]
func (c *ResourceController) Delete(ctx *gin.Context) {
	if err := c.ResourceService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Message(ctx, "Resource deleted")
}

// @Summary 资源使用情况
// @Tags 资源
// @Produce json
// @Param id path string true "资源ID"
// @Success 200 {object} util.Response{data=planner.ResourceUsage}
// @Router /resources/{id}/usage [get]
func (c *ResourceController) Usage(ctx *gin.Context) {
	usage, err := c.ResourceService.Usage(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, usage)
}
