package app

import (
	"icd201_backend/docs"
	"icd201_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/", c.health.Root)
		api.GET("/health", c.health.HealthCheck)

		a.registerUnitRoutes(api, c)
		a.registerResourceRoutes(api, c)
		a.registerCalendarRoutes(api, c)

		api.GET("/settings", c.settings.Get)
		api.PUT("/settings", c.settings.Update)
		api.GET("/stats/overview", c.settings.Overview)

		a.registerExportRoutes(api, c)
	}
}

func (a *App) registerUnitRoutes(rg *gin.RouterGroup, c *controllers) {
	units := rg.Group("/units")
	{
		units.GET("", c.unit.List)
		units.GET("/", c.unit.List)
		units.POST("", c.unit.Create)
		units.GET("/:id", c.unit.Get)
		units.PUT("/:id", c.unit.Update)
		units.DELETE("/:id", c.unit.Delete)

		// 课时
		units.POST("/:id/lessons", c.unit.AddLesson)
		units.PUT("/:id/lessons/:lessonId", c.unit.UpdateLesson)
		units.DELETE("/:id/lessons/:lessonId", c.unit.DeleteLesson)
	}
}

func (a *App) registerResourceRoutes(rg *gin.RouterGroup, c *controllers) {
	resources := rg.Group("/resources")
	{
		resources.GET("", c.resource.List)
		resources.GET("/", c.resource.List)
		resources.POST("", c.resource.Create)
		resources.GET("/:id", c.resource.Get)
		resources.PUT("/:id", c.resource.Update)
		resources.DELETE("/:id", c.resource.Delete)
		resources.GET("/:id/usage", c.resource.Usage)
	}
}

func (a *App) registerCalendarRoutes(rg *gin.RouterGroup, c *controllers) {
	calendar := rg.Group("/calendar")
	{
		calendar.GET("/events", c.calendar.List)
		calendar.POST("/events", c.calendar.Create)
		calendar.GET("/events/:id", c.calendar.Get)
		calendar.PUT("/events/:id", c.calendar.Update)
		calendar.DELETE("/events/:id", c.calendar.Delete)

		calendar.GET("/weeks", c.calendar.Weeks)
		calendar.GET("/day/:date", c.calendar.Day)
		calendar.GET("/conflicts", c.calendar.Conflicts)
	}
}

func (a *App) registerExportRoutes(rg *gin.RouterGroup, c *controllers) {
	export := rg.Group("/export")
	{
		export.POST("/pdf", c.export.PDF)
		export.POST("/xlsx", c.export.XLSX)
		export.POST("/preview", c.export.Preview)
		export.GET("/history", c.export.History)
	}
}
