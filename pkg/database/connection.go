package database

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"aippt-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

var DB *gorm.DB

// InitDB 初始化数据库连接
func InitDB(dbPath string) {
	var err error

	// 配置日志选项 - Silent 模式下不显示任何日志
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	// 连接SQLite数据库
	DB, err = gorm.Open(sqlite.Open(dbPath), config)
	if err != nil {
		log.Fatalf("连接数据库失败: %v", err)
	}

	// 自动迁移数据库表结构
	migrateDB()

	// 初始化默认管理员账户与内置模板
	createDefaultAdmin()
	seedTemplates()
}

// 自动迁移数据库表结构
func migrateDB() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.File{},
		&models.Template{},
	)
	if err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}
}

// createDefaultAdmin 创建默认管理员账户
func createDefaultAdmin() {
	// 检查是否已存在管理员账户
	var count int64
	DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)

	// 如果没有管理员账户，则创建默认管理员
	if count == 0 {
		// 默认密码加密
		passwordHash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("生成密码哈希失败: %v", err)
		}

		// 创建管理员用户
		admin := models.User{
			Username: "admin",
			Password: string(passwordHash),
			Email:    "admin@example.com",
			Nickname: "管理员",
			Role:     models.RoleAdmin,
		}

		result := DB.Create(&admin)
		if result.Error != nil {
			log.Fatalf("创建默认管理员账户失败: %v", result.Error)
		} else {
			log.Println("已成功创建默认管理员账户 (用户名: admin, 密码: admin123)")
		}
	}
}

// seedTemplates 导入内置设计模板（仅在模板表为空时执行）
func seedTemplates() {
	var count int64
	DB.Model(&models.Template{}).Count(&count)
	if count > 0 {
		return
	}

	templates := []models.Template{
		{
			Name:      "商务简约",
			Category:  "business",
			Prompt:    "整体风格简约专业，主色调深蓝(#1B3A6B)搭配浅灰，标题使用无衬线字体，每页要点不超过5条",
			SortOrder: 1,
		},
		{
			Name:      "科技蓝",
			Category:  "technology",
			Prompt:    "科技感风格，深色背景配合亮蓝(#2E9BFF)高亮，适度使用渐变与数据图表，字体紧凑",
			SortOrder: 2,
		},
		{
			Name:      "学术报告",
			Category:  "academic",
			Prompt:    "学术严谨风格，白底黑字，图表居中带编号，引用来源统一放页脚",
			SortOrder: 3,
		},
		{
			Name:      "活力橙",
			Category:  "creative",
			Prompt:    "明快活泼风格，主色调橙色(#FF7A30)，大标题大图，适合宣讲与路演场景",
			SortOrder: 4,
		},
	}

	if err := DB.Create(&templates).Error; err != nil {
		log.Printf("导入内置模板失败: %v", err)
	} else {
		log.Printf("已导入 %d 个内置设计模板", len(templates))
	}
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
