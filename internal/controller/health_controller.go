package controller

import (
	"context"
	"net/http"
	"time"

	"icd201_backend/internal/service"
	"icd201_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Storage  *service.StorageService
	Greeting string
}

// NewHealthController rdb 为 nil 表示未启用缓存
func NewHealthController(db *gorm.DB, rdb *redis.Client, storage *service.StorageService, greeting string) *HealthController {
	return &HealthController{DB: db, Redis: rdb, Storage: storage, Greeting: greeting}
}

// @Summary 连接握手
// @Description 客户端用于检查后端是否可达，message 为问候语
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router / [get]
func (c *HealthController) Root(ctx *gin.Context) {
	util.Message(ctx, c.Greeting)
}

// @Summary 健康检查
// @Description 数据库不可达时返回 503；缓存故障只降级
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := c.DB.DB()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if err := sqlDB.PingContext(pingCtx); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	cache := "disabled"
	if c.Redis != nil {
		cache = "up"
		if err := c.Redis.Ping(pingCtx).Err(); err != nil {
			cache = "degraded"
		}
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"database": "up",
			"cache":    cache,
			"archive":  c.Storage.Backend(),
		},
	})
}
