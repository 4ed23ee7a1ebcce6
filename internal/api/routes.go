package api

import (
	"time"

	"aippt-backend/internal/api/handlers"
	"aippt-backend/internal/api/middleware"
	"aippt-backend/internal/config"
	"aippt-backend/internal/engine"
	"aippt-backend/internal/lifecycle"
	"aippt-backend/internal/repository"
	"aippt-backend/internal/service"
	"aippt-backend/pkg/database"

	"github.com/gin-gonic/gin"
)

// SetupRoutes 设置所有路由，返回生命周期控制器供进程退出时停止轮询
func SetupRoutes(router *gin.Engine, cfg *config.Config) *lifecycle.Controller {
	// 获取数据库连接
	db := database.GetDB()

	// 初始化仓储层
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	fileRepo := repository.NewFileRepository(db)
	templateRepo := repository.NewTemplateRepository(db)

	// 初始化引擎客户端与生命周期控制器
	engineClient := engine.NewClient(cfg.Engine.BaseURL, cfg.Engine.APIKey)
	fileService := service.NewFileService(fileRepo, cfg.Storage.Dir, cfg.Storage.BaseURL)
	controller := lifecycle.NewController(
		taskRepo,
		engineClient,
		fileService,
		lifecycle.ProgressConfig{
			Baseline:     cfg.Progress.Baseline,
			GrowthFactor: cfg.Progress.GrowthFactor,
			Ceiling:      cfg.Progress.Ceiling,
		},
		time.Duration(cfg.Engine.PollInterval)*time.Second,
	)

	// 初始化服务层
	userService := service.NewUserService(userRepo)
	templateService := service.NewTemplateService(templateRepo)
	taskService := service.NewTaskService(taskRepo, templateRepo, fileService, controller)
	monitorService := service.NewMonitorService()

	// 初始化处理器
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	uploadHandler := handlers.NewUploadHandler(fileService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	overviewHandler := handlers.NewOverviewHandler(taskService, userService, templateService)
	healthHandler := handlers.NewHealthHandler(monitorService)

	// 公开路由组
	public := router.Group("/api/v1")
	{
		// 健康检查路由
		public.GET("/health", healthHandler.CheckHealth)

		// 认证相关路由（登录和刷新令牌无需认证）
		auth := public.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
		}
	}

	// 需要认证的路由组
	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware())
	{
		// 仪表盘概览
		protected.GET("/overview", overviewHandler.GetOverview)

		// 认证相关路由
		auth := protected.Group("/auth")
		{
			auth.GET("/me", authHandler.GetCurrentUser)
		}

		// 用户查询路由
		users := protected.Group("/users")
		{
			users.GET("/:id", userHandler.GetUser)
		}

		// 文件上传路由
		protected.POST("/files", uploadHandler.UploadFile)

		// 设计模板路由
		templates := protected.Group("/templates")
		{
			templates.GET("", templateHandler.ListTemplates)
			templates.GET("/:id", templateHandler.GetTemplate)
		}

		// 生成任务路由
		tasks := protected.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.POST("/:id/continue", taskHandler.ContinueTask)
			tasks.POST("/:id/retry", taskHandler.RetryTask)
			tasks.POST("/:id/refresh", taskHandler.RefreshTask)
		}

		// 管理员专用路由
		admin := protected.Group("/admin")
		admin.Use(middleware.AdminMiddleware())
		{
			// 管理员用户管理
			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", userHandler.ListUsers)
				adminUsers.POST("", userHandler.CreateUser)
			}

			// 管理员任务维护
			admin.DELETE("/tasks/:id", taskHandler.DeleteTask)
		}
	}

	// 服务重启后恢复进行中任务的轮询
	controller.ResumeActive()

	return controller
}
