package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/student-records-api/api/swagger"
	"github.com/noah-isme/student-records-api/internal/handler"
	"github.com/noah-isme/student-records-api/internal/middleware"
	"github.com/noah-isme/student-records-api/internal/service"
	"github.com/noah-isme/student-records-api/pkg/config"
	"github.com/noah-isme/student-records-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/student-records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/student-records-api/pkg/middleware/requestid"
)

type routeHandlers struct {
	Addresses *handler.AddressHandler
	Streams   *handler.StreamHandler
	Courses   *handler.CourseHandler
	Programs  *handler.ProgramHandler
	Students  *handler.StudentHandler
	Teachers  *handler.TeacherHandler
	Marks     *handler.MarkHandler
	Upload    *handler.MarkUploadHandler
	Exports   *handler.ExportHandler
	Dashboard *handler.DashboardHandler
	Admin     *handler.AdminHandler
	Metrics   *handler.MetricsHandler
}

type crudHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

func newRouter(cfg *config.Config, logr *zap.Logger, metricsSvc *service.MetricsService, h routeHandlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	if metricsSvc != nil {
		r.GET("/metrics", h.Metrics.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/dashboard", h.Dashboard.Summary)
	api.GET("/admin/registry", h.Admin.Registry)

	// Static paths are registered before /:id so they are matched first.
	api.GET("/students/export", h.Exports.Students)
	api.GET("/marks/export", h.Exports.Marks)
	api.POST("/marks/upload", h.Upload.Upload)

	crud(api.Group("/addresses"), h.Addresses)
	crud(api.Group("/streams"), h.Streams)
	crud(api.Group("/courses"), h.Courses)
	programs := api.Group("/programs")
	crud(programs, h.Programs)
	programs.PUT("/:id/courses", h.Programs.SetCourses)
	crud(api.Group("/students"), h.Students)
	crud(api.Group("/teachers"), h.Teachers)
	crud(api.Group("/marks"), h.Marks)

	return r
}

func crud(group *gin.RouterGroup, h crudHandler) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}
