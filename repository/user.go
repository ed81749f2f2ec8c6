package repository

import (
	"strings"
	"time"

	"kas/database"
	"kas/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserInput upsert 用户的输入，ID 由外部身份系统签发
type UserInput struct {
	ID              string
	Email           *string
	FirstName       string
	LastName        string
	ProfileImageURL string
	Role            string
}

// GetUser 按 ID 获取用户
func GetUser(id string) (*models.User, error) {
	var user models.User
	if err := database.DB.Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("用户", id)
		}
		return nil, storeErr("查询用户", err)
	}
	return &user, nil
}

// ListUsers 按创建时间倒序列出全部用户
func ListUsers() ([]models.User, error) {
	var list []models.User
	if err := database.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, storeErr("查询用户", err)
	}
	return list, nil
}

// UpsertUser 以 ID 为键插入或更新用户（幂等）
// 冲突时覆盖资料字段并刷新 updated_at，不触碰 is_active 与密码；
// 调用方未提供角色时也保留库中已有角色，仅在首次插入时落默认值。
func UpsertUser(input UserInput) (*models.User, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, validationErr("id", "用户ID不能为空")
	}
	role := input.Role
	if role == "" {
		role = models.RolePengurus
	} else if !models.ValidRole(role) {
		return nil, validationErr("role", "无效的角色，支持：admin/bendahara/pengurus")
	}

	updateCols := []string{"email", "first_name", "last_name", "profile_image_url", "updated_at"}
	if input.Role != "" {
		updateCols = append(updateCols, "role")
	}

	user := models.User{
		ID:              id,
		Email:           input.Email,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		ProfileImageURL: input.ProfileImageURL,
		Role:            role,
		IsActive:        true,
		UpdatedAt:       time.Now(),
	}
	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(updateCols),
	}).Create(&user).Error
	if err != nil {
		return nil, storeErr("保存用户", err)
	}

	// 回读落库结果（含冲突分支下保留的字段）
	if err := database.DB.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, storeErr("查询用户", err)
	}
	return &user, nil
}

// UpdateUserRole 修改用户角色
func UpdateUserRole(id, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, validationErr("role", "无效的角色，支持：admin/bendahara/pengurus")
	}
	var user models.User
	if err := database.DB.Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("用户", id)
		}
		return nil, storeErr("查询用户", err)
	}
	updates := map[string]interface{}{"role": role, "updated_at": time.Now()}
	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		return nil, storeErr("更新用户", err)
	}
	user.Role = role
	return &user, nil
}

// ToggleUserStatus 翻转用户启用状态
// 自停用校验在边界层完成，仓库层不重复判断。
func ToggleUserStatus(id string) (*models.User, error) {
	var user models.User
	if err := database.DB.Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("用户", id)
		}
		return nil, storeErr("查询用户", err)
	}
	newStatus := !user.IsActive
	updates := map[string]interface{}{"is_active": newStatus, "updated_at": time.Now()}
	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		return nil, storeErr("更新用户", err)
	}
	user.IsActive = newStatus
	return &user, nil
}
