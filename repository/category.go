package repository

import (
	"strings"

	"kas/database"
	"kas/models"

	"gorm.io/gorm"
)

// CategoryInput 创建类别的输入
type CategoryInput struct {
	Name  string
	Type  string
	Color string
}

// CategoryPatch 部分更新，nil 字段表示不修改。type 创建后不可变更。
type CategoryPatch struct {
	Name  *string
	Color *string
}

// ListActiveCategories 列出全部启用中的类别
func ListActiveCategories() ([]models.Category, error) {
	var list []models.Category
	if err := database.DB.Where("is_active = ?", true).Order("id ASC").Find(&list).Error; err != nil {
		return nil, storeErr("查询类别", err)
	}
	return list, nil
}

// GetCategory 按 ID 获取类别
// 已软删除的类别同样可取——历史交易必须仍能解析名称与颜色。
func GetCategory(id uint) (*models.Category, error) {
	var cat models.Category
	if err := database.DB.First(&cat, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("类别", id)
		}
		return nil, storeErr("查询类别", err)
	}
	return &cat, nil
}

// CreateCategory 创建类别
func CreateCategory(input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationErr("name", "名称不能为空")
	}
	if !models.ValidTransactionType(input.Type) {
		return nil, validationErr("type", "无效的类别类型，支持：income/expense")
	}
	color := input.Color
	if color == "" {
		color = models.DefaultCategoryColor
	}
	cat := models.Category{Name: name, Type: input.Type, Color: color, IsActive: true}
	if err := database.DB.Create(&cat).Error; err != nil {
		return nil, storeErr("创建类别", err)
	}
	return &cat, nil
}

// UpdateCategory 部分更新类别
func UpdateCategory(id uint, patch CategoryPatch) (*models.Category, error) {
	var cat models.Category
	if err := database.DB.First(&cat, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("类别", id)
		}
		return nil, storeErr("查询类别", err)
	}

	updates := make(map[string]interface{})
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, validationErr("name", "名称不能为空")
		}
		updates["name"] = name
	}
	if patch.Color != nil {
		color := *patch.Color
		if color == "" {
			color = models.DefaultCategoryColor
		}
		updates["color"] = color
	}
	if len(updates) == 0 {
		return &cat, nil
	}

	if err := database.DB.Model(&cat).Updates(updates).Error; err != nil {
		return nil, storeErr("更新类别", err)
	}
	if err := database.DB.First(&cat, id).Error; err != nil {
		return nil, storeErr("查询类别", err)
	}
	return &cat, nil
}

// DeleteCategory 软删除：仅置 is_active=false，不移除行
// 与交易删除一致，目标不存在时视为已完成，不报错。
func DeleteCategory(id uint) error {
	if err := database.DB.Model(&models.Category{}).
		Where("id = ?", id).
		Update("is_active", false).Error; err != nil {
		return storeErr("删除类别", err)
	}
	return nil
}
