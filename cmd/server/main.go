package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"aippt-backend/internal/api"
	"aippt-backend/internal/api/middleware"
	"aippt-backend/internal/config"
	"aippt-backend/pkg/database"
	"aippt-backend/pkg/utils"

	_ "aippt-backend/docs" // 导入生成的swagger文档
)

// @title           AI PPT 生成平台 API
// @version         1.0
// @description     AI PPT 生成平台后端API文档

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description 请在此输入 'Bearer {token}' 格式的 JWT token

func main() {
	// 加载配置文件
	cfg := config.InitConfig()

	// 初始化 JWT 密钥与令牌有效期
	expiration, err := time.ParseDuration(cfg.JWT.Expiration)
	if err != nil {
		expiration = 0 // 无效则使用默认值
	}
	utils.InitJWT(cfg.JWT.Secret, expiration)

	// 初始化数据库连接
	database.InitDB(cfg.Database.Path)

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)

	// 创建Gin路由器
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())

	// 设置路由，并拿到生命周期控制器用于退出时清理
	controller := api.SetupRoutes(router, cfg)

	// 添加Swagger文档路由
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 设置静态文件目录
	router.Static("/static", "./static")

	// 允许前端跨域访问
	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	// 收到退出信号时先停掉所有轮询再退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("收到退出信号，停止任务轮询...")
		controller.StopAll()
		os.Exit(0)
	}()

	// 展示Swagger文档
	log.Println("Swagger文档地址: http://localhost:" + cfg.Port + "/swagger/index.html")

	// 启动服务器
	log.Printf("启动服务器，监听端口 :%s\n", cfg.Port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("无法启动服务器: %s\n", err)
	}
}
