package repository

import (
	"strings"
	"time"

	"kas/database"
	"kas/models"

	"gorm.io/gorm"
)

// ProjectInput 创建项目的输入
type ProjectInput struct {
	Name        string
	Description string
	Budget      *float64
	Status      string
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedBy   string
}

// ProjectPatch 部分更新，nil 字段表示不修改
type ProjectPatch struct {
	Name        *string
	Description *string
	Budget      *float64
	Spent       *float64
	Status      *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// ListProjects 列出全部项目，按创建时间倒序
func ListProjects() ([]models.Project, error) {
	var list []models.Project
	if err := database.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, storeErr("查询项目", err)
	}
	return list, nil
}

// ListActiveProjects 列出进行中的项目，按创建时间倒序
func ListActiveProjects() ([]models.Project, error) {
	var list []models.Project
	if err := database.DB.Where("status = ?", models.ProjectStatusActive).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, storeErr("查询项目", err)
	}
	return list, nil
}

// CountActiveProjects 统计进行中的项目数量
func CountActiveProjects() (int64, error) {
	var count int64
	if err := database.DB.Model(&models.Project{}).
		Where("status = ?", models.ProjectStatusActive).
		Count(&count).Error; err != nil {
		return 0, storeErr("统计项目", err)
	}
	return count, nil
}

// GetProject 按 ID 获取项目
func GetProject(id uint) (*models.Project, error) {
	var p models.Project
	if err := database.DB.First(&p, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("项目", id)
		}
		return nil, storeErr("查询项目", err)
	}
	return &p, nil
}

// CreateProject 创建项目
func CreateProject(input ProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationErr("name", "名称不能为空")
	}
	if input.Budget != nil && *input.Budget < 0 {
		return nil, validationErr("budget", "预算不能为负数")
	}
	status := input.Status
	if status == "" {
		status = models.ProjectStatusActive
	}
	if !models.ValidProjectStatus(status) {
		return nil, validationErr("status", "无效的项目状态，支持：active/completed/paused")
	}

	p := models.Project{
		Name:        name,
		Description: input.Description,
		Budget:      input.Budget,
		Status:      status,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CreatedBy:   input.CreatedBy,
	}
	if err := database.DB.Create(&p).Error; err != nil {
		return nil, storeErr("创建项目", err)
	}
	return &p, nil
}

// UpdateProject 部分更新项目，updated_at 总是刷新
func UpdateProject(id uint, patch ProjectPatch) (*models.Project, error) {
	var p models.Project
	if err := database.DB.First(&p, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("项目", id)
		}
		return nil, storeErr("查询项目", err)
	}

	updates := make(map[string]interface{})
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, validationErr("name", "名称不能为空")
		}
		updates["name"] = name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Budget != nil {
		if *patch.Budget < 0 {
			return nil, validationErr("budget", "预算不能为负数")
		}
		updates["budget"] = *patch.Budget
	}
	if patch.Spent != nil {
		if *patch.Spent < 0 {
			return nil, validationErr("spent", "支出不能为负数")
		}
		updates["spent"] = *patch.Spent
	}
	if patch.Status != nil {
		if !models.ValidProjectStatus(*patch.Status) {
			return nil, validationErr("status", "无效的项目状态，支持：active/completed/paused")
		}
		updates["status"] = *patch.Status
	}
	if patch.StartDate != nil {
		updates["start_date"] = *patch.StartDate
	}
	if patch.EndDate != nil {
		updates["end_date"] = *patch.EndDate
	}

	updates["updated_at"] = time.Now()
	if err := database.DB.Model(&p).Updates(updates).Error; err != nil {
		return nil, storeErr("更新项目", err)
	}
	if err := database.DB.First(&p, id).Error; err != nil {
		return nil, storeErr("查询项目", err)
	}
	return &p, nil
}

// DeleteProject 硬删除项目
func DeleteProject(id uint) error {
	if err := database.DB.Delete(&models.Project{}, id).Error; err != nil {
		return storeErr("删除项目", err)
	}
	return nil
}
