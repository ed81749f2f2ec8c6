package repository

import (
	"strings"
	"time"

	"kas/database"
	"kas/models"

	"gorm.io/gorm"
)

// AnnouncementInput 创建公告的输入
type AnnouncementInput struct {
	Title     string
	Content   string
	Type      string
	CreatedBy string
}

// AnnouncementPatch 部分更新，nil 字段表示不修改
type AnnouncementPatch struct {
	Title    *string
	Content  *string
	Type     *string
	IsActive *bool
}

// ListAnnouncements 列出全部公告，按创建时间倒序
func ListAnnouncements() ([]models.Announcement, error) {
	var list []models.Announcement
	if err := database.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, storeErr("查询公告", err)
	}
	return list, nil
}

// ListActiveAnnouncements 列出启用中的公告，创建时间倒序，最多 10 条
func ListActiveAnnouncements() ([]models.Announcement, error) {
	var list []models.Announcement
	if err := database.DB.Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(models.ActiveAnnouncementLimit).
		Find(&list).Error; err != nil {
		return nil, storeErr("查询公告", err)
	}
	return list, nil
}

// CreateAnnouncement 创建公告
func CreateAnnouncement(input AnnouncementInput) (*models.Announcement, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validationErr("title", "标题不能为空")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, validationErr("content", "内容不能为空")
	}
	annType := input.Type
	if annType == "" {
		annType = models.AnnouncementInfo
	}
	if !models.ValidAnnouncementType(annType) {
		return nil, validationErr("type", "无效的公告类型，支持：info/warning/success/error")
	}

	ann := models.Announcement{
		Title:     title,
		Content:   input.Content,
		Type:      annType,
		IsActive:  true,
		CreatedBy: input.CreatedBy,
	}
	if err := database.DB.Create(&ann).Error; err != nil {
		return nil, storeErr("创建公告", err)
	}
	return &ann, nil
}

// UpdateAnnouncement 部分更新公告，updated_at 总是刷新
func UpdateAnnouncement(id uint, patch AnnouncementPatch) (*models.Announcement, error) {
	var ann models.Announcement
	if err := database.DB.First(&ann, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("公告", id)
		}
		return nil, storeErr("查询公告", err)
	}

	updates := make(map[string]interface{})
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, validationErr("title", "标题不能为空")
		}
		updates["title"] = title
	}
	if patch.Content != nil {
		if strings.TrimSpace(*patch.Content) == "" {
			return nil, validationErr("content", "内容不能为空")
		}
		updates["content"] = *patch.Content
	}
	if patch.Type != nil {
		if !models.ValidAnnouncementType(*patch.Type) {
			return nil, validationErr("type", "无效的公告类型，支持：info/warning/success/error")
		}
		updates["type"] = *patch.Type
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}

	updates["updated_at"] = time.Now()
	if err := database.DB.Model(&ann).Updates(updates).Error; err != nil {
		return nil, storeErr("更新公告", err)
	}
	if err := database.DB.First(&ann, id).Error; err != nil {
		return nil, storeErr("查询公告", err)
	}
	return &ann, nil
}

// DeleteAnnouncement 硬删除公告
func DeleteAnnouncement(id uint) error {
	if err := database.DB.Delete(&models.Announcement{}, id).Error; err != nil {
		return storeErr("删除公告", err)
	}
	return nil
}
