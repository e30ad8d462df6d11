package controller

import (
	"icd201_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// uintParam 解析路径中的数字 id，失败时直接返回 400
func uintParam(ctx *gin.Context, name string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(name))
	if id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}
