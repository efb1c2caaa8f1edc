package app

import (
	"labgrade_backend/docs"
	"labgrade_backend/internal/config"
	"labgrade_backend/internal/middleware"
	"labgrade_backend/internal/model"
	"labgrade_backend/internal/util"
	"labgrade_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.GET("/dashboard", c.dashboard.GetDashboard)

		a.registerRosterRoutes(authGroup, c)
		a.registerGradingRoutes(authGroup, c)
		a.registerReportRoutes(authGroup, c)
	}

	router.NoRoute(func(ctx *gin.Context) {
		util.NotFound(ctx, "Route not found")
	})
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerRosterRoutes(rg *gin.RouterGroup, c *controllers) {
	students := rg.Group("/students")
	{
		students.GET("", c.student.ListStudents)
		students.POST("", c.student.CreateStudent)
		students.GET("/:id", c.student.GetStudent)
		students.PATCH("/:id", c.student.UpdateStudent)
		students.DELETE("/:id", c.student.DeleteStudent)
	}

	subjects := rg.Group("/subjects")
	{
		subjects.GET("", c.subject.ListSubjects)
		subjects.GET("/:code/experiments", c.subject.ListExperiments)

		// 参考数据只允许管理员修改
		subjects.POST("", middleware.RoleMiddleware(model.RoleAdmin), c.subject.CreateSubject)
		subjects.POST("/:code/experiments", middleware.RoleMiddleware(model.RoleAdmin), c.subject.CreateExperiment)
	}
}

func (a *App) registerGradingRoutes(rg *gin.RouterGroup, c *controllers) {
	grades := rg.Group("/grades")
	grades.Use(middleware.RoleMiddleware(model.RoleTeacher))
	{
		grades.GET("", c.grade.ListGrades)
		grades.POST("", c.grade.SaveGrade)
		grades.PATCH("/:id", c.grade.PatchGrade)
	}
}

func (a *App) registerReportRoutes(rg *gin.RouterGroup, c *controllers) {
	reports := rg.Group("/reports")
	{
		reports.GET("/student/:id", c.report.GetStudentReport)
		reports.GET("/student/:id/export", c.report.ExportStudentReport)
		reports.POST("/student/:id/archive", c.report.ArchiveStudentReport)
		reports.GET("/class/:class", c.report.ClassRanking)
	}
}
