package api

import (
	"log"
	"strconv"

	"kas/config"
	"kas/database"
	"kas/middleware"
	"kas/models"
	"kas/repository"
	"kas/service"

	"github.com/gin-gonic/gin"
)

// AnnouncementHandler 公告管理
type AnnouncementHandler struct {
	emailService *service.EmailService
}

// NewAnnouncementHandler 创建公告处理器
func NewAnnouncementHandler(cfg *config.Config) *AnnouncementHandler {
	return &AnnouncementHandler{
		emailService: service.NewEmailService(&cfg.Email),
	}
}

type AnnouncementCreateRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=255"`
	Content string `json:"content" binding:"required"`
	Type    string `json:"type" binding:"omitempty"` // info/warning/success/error，默认 info
}

type AnnouncementUpdateRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=255"`
	Content  *string `json:"content"`
	Type     *string `json:"type"`
	IsActive *bool   `json:"is_active"`
}

// List 获取全部公告
// @Summary 获取公告列表
// @Tags 公告
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Announcement} "获取成功"
// @Router /api/v1/announcements [get]
func (h *AnnouncementHandler) List(c *gin.Context) {
	list, err := repository.ListAnnouncements()
	if err != nil {
		HandleError(c, err, "查询失败")
		return
	}
	Success(c, list)
}

// ListActive 获取当前公告（启用中，最新 10 条）
// @Summary 获取当前公告
// @Description 仅返回 is_active=true 的公告，按创建时间倒序，最多 10 条。
// @Tags 公告
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Announcement} "获取成功"
// @Router /api/v1/announcements/active [get]
func (h *AnnouncementHandler) ListActive(c *gin.Context) {
	cacheKey := "announcements-active"
	if cached, ok := queryCache.Get(cacheKey); ok {
		Success(c, cached)
		return
	}
	list, err := repository.ListActiveAnnouncements()
	if err != nil {
		HandleError(c, err, "查询失败")
		return
	}
	queryCache.Set(cacheKey, list)
	Success(c, list)
}

// Create 发布公告
// @Summary 发布公告
// @Description 发布新公告。邮件服务启用时异步向所有有邮箱的在职成员推送通知。
// @Tags 公告
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AnnouncementCreateRequest true "公告内容"
// @Success 200 {object} Response{data=models.Announcement} "发布成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/announcements [post]
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req AnnouncementCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	ann, err := repository.CreateAnnouncement(repository.AnnouncementInput{
		Title:     req.Title,
		Content:   req.Content,
		Type:      req.Type,
		CreatedBy: middleware.GetCurrentUserID(c),
	})
	if err != nil {
		HandleError(c, err, "发布失败")
		return
	}

	queryCache.Invalidate("announcements")

	// 邮件通知异步发送，失败只记录日志，不影响发布结果
	if h.emailService.Enabled() {
		go h.notifyMembers(ann)
	}

	SuccessWithMessage(c, "发布成功", ann)
}

// Update 更新公告
// @Summary 更新公告
// @Tags 公告
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "公告ID"
// @Param request body AnnouncementUpdateRequest true "更新内容"
// @Success 200 {object} Response{data=models.Announcement} "更新成功"
// @Failure 404 {object} Response "公告不存在"
// @Router /api/v1/announcements/{id} [put]
func (h *AnnouncementHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	var req AnnouncementUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	ann, err := repository.UpdateAnnouncement(uint(id), repository.AnnouncementPatch{
		Title:    req.Title,
		Content:  req.Content,
		Type:     req.Type,
		IsActive: req.IsActive,
	})
	if err != nil {
		HandleError(c, err, "更新失败")
		return
	}
	queryCache.Invalidate("announcements")
	SuccessWithMessage(c, "更新成功", ann)
}

// Delete 删除公告（硬删除）
// @Summary 删除公告
// @Tags 公告
// @Produce json
// @Security BearerAuth
// @Param id path int true "公告ID"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/announcements/{id} [delete]
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	if err := repository.DeleteAnnouncement(uint(id)); err != nil {
		HandleError(c, err, "删除失败")
		return
	}
	queryCache.Invalidate("announcements")
	SuccessWithMessage(c, "删除成功", nil)
}

// notifyMembers 向所有有邮箱的在职成员发送公告通知
func (h *AnnouncementHandler) notifyMembers(ann *models.Announcement) {
	var users []models.User
	if err := database.DB.Where("is_active = ? AND email IS NOT NULL", true).Find(&users).Error; err != nil {
		log.Printf("公告通知: 查询成员失败: %v", err)
		return
	}
	for _, u := range users {
		if u.Email == nil || *u.Email == "" {
			continue
		}
		name := u.FirstName + u.LastName
		if name == "" {
			name = u.ID
		}
		if err := h.emailService.SendAnnouncementEmail(*u.Email, name, ann.Title, ann.Content, ann.Type); err != nil {
			log.Printf("公告通知: 发送给 %s 失败: %v", *u.Email, err)
		}
	}
}
