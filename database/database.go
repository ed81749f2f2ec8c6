package database

import (
	"fmt"
	"log"

	"kas/config"
	"kas/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化数据库连接
func Init(cfg *config.Config) error {
	// 构建 MySQL DSN 连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// 设置连接池参数
	sqlDB.SetMaxIdleConns(10)  // 最大空闲连接数
	sqlDB.SetMaxOpenConns(100) // 最大打开连接数

	// 自动迁移数据库表
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Transaction{},
		&models.Announcement{},
		&models.Project{},
	); err != nil {
		return err
	}

	if err := seedDefaults(cfg); err != nil {
		return err
	}

	log.Println("数据库初始化成功")
	return nil
}

// seedDefaults 初始化默认数据：收支类别与初始管理员（仅当对应表为空时）
func seedDefaults(cfg *config.Config) error {
	// 默认类别（颜色与前端 CSS 保持一致）
	var catCount int64
	DB.Model(&models.Category{}).Count(&catCount)
	if catCount == 0 {
		defaults := []models.Category{
			{Name: "学费收入", Type: models.TypeIncome, Color: "#10b981", IsActive: true},
			{Name: "捐赠收入", Type: models.TypeIncome, Color: "#3b82f6", IsActive: true},
			{Name: "拨款收入", Type: models.TypeIncome, Color: "#a855f7", IsActive: true},
			{Name: "其他收入", Type: models.TypeIncome, Color: "#64748b", IsActive: true},
			{Name: "办公支出", Type: models.TypeExpense, Color: "#ef4444", IsActive: true},
			{Name: "活动经费", Type: models.TypeExpense, Color: "#ec4899", IsActive: true},
			{Name: "薪酬支出", Type: models.TypeExpense, Color: "#f59e0b", IsActive: true},
			{Name: "维护费用", Type: models.TypeExpense, Color: "#14b8a6", IsActive: true},
			{Name: "其他支出", Type: models.TypeExpense, Color: models.DefaultCategoryColor, IsActive: true},
		}
		if err := DB.Create(&defaults).Error; err != nil {
			return err
		}
	}

	// 初始管理员：用户表为空时创建，避免系统无人可登录
	var userCount int64
	DB.Model(&models.User{}).Count(&userCount)
	if userCount == 0 && cfg.Admin.Email != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		email := cfg.Admin.Email
		admin := models.User{
			ID:        "admin",
			Email:     &email,
			Password:  string(hashed),
			FirstName: "系统",
			LastName:  "管理员",
			Role:      models.RoleAdmin,
			IsActive:  true,
		}
		if err := DB.Create(&admin).Error; err != nil {
			return err
		}
		log.Printf("已创建初始管理员: %s", cfg.Admin.Email)
	}

	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
