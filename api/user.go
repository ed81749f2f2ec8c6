package api

import (
	"kas/middleware"
	"kas/repository"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户管理（角色与状态变更仅管理员可用，由权限中间件控制）
type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// UpsertUserRequest upsert 用户请求，ID 由外部身份系统签发
type UpsertUserRequest struct {
	ID              string  `json:"id" binding:"required,max=64"`
	Email           *string `json:"email" binding:"omitempty,email"`
	FirstName       string  `json:"first_name" binding:"omitempty,max=100"`
	LastName        string  `json:"last_name" binding:"omitempty,max=100"`
	ProfileImageURL string  `json:"profile_image_url" binding:"omitempty,max=512"`
	Role            string  `json:"role" binding:"omitempty"`
}

// UpdateUserRoleRequest 修改用户角色请求
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// List 获取用户列表
// @Summary 获取用户列表
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.User} "获取成功"
// @Failure 403 {object} Response "权限不足"
// @Router /api/v1/users [get]
func (h *UserHandler) List(c *gin.Context) {
	list, err := repository.ListUsers()
	if err != nil {
		HandleError(c, err, "查询失败")
		return
	}
	Success(c, list)
}

// Upsert 插入或更新用户（幂等，以外部签发的 ID 为键）
// @Summary 插入或更新用户
// @Description 同一 ID 重复提交只保留一行，资料字段取最新值并刷新 updated_at。
// @Tags 用户管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpsertUserRequest true "用户信息"
// @Success 200 {object} Response{data=models.User} "保存成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 403 {object} Response "权限不足"
// @Router /api/v1/users [post]
func (h *UserHandler) Upsert(c *gin.Context) {
	var req UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	user, err := repository.UpsertUser(repository.UserInput{
		ID:              req.ID,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		ProfileImageURL: req.ProfileImageURL,
		Role:            req.Role,
	})
	if err != nil {
		HandleError(c, err, "保存用户失败")
		return
	}
	SuccessWithMessage(c, "保存成功", user)
}

// UpdateRole 修改用户角色（仅管理员）
// @Summary 修改用户角色
// @Tags 用户管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Param request body UpdateUserRoleRequest true "角色信息"
// @Success 200 {object} Response{data=models.User} "更新成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 403 {object} Response "权限不足"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/v1/users/{id}/role [put]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	user, err := repository.UpdateUserRole(c.Param("id"), req.Role)
	if err != nil {
		HandleError(c, err, "更新失败")
		return
	}
	SuccessWithMessage(c, "角色更新成功", user)
}

// ToggleStatus 翻转用户启用状态（仅管理员）
// @Summary 切换用户启用状态
// @Description 启用/停用用户。不能操作自己的账号，避免自锁导致无法登录。
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} Response{data=models.User} "更新成功"
// @Failure 400 {object} Response "不能操作自己"
// @Failure 403 {object} Response "权限不足"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/v1/users/{id}/status [put]
func (h *UserHandler) ToggleStatus(c *gin.Context) {
	targetID := c.Param("id")

	// 不能停用自己，避免自锁导致系统无管理员可用
	if targetID == middleware.GetCurrentUserID(c) {
		BadRequest(c, "不能修改自己的状态")
		return
	}

	user, err := repository.ToggleUserStatus(targetID)
	if err != nil {
		HandleError(c, err, "更新失败")
		return
	}
	SuccessWithMessage(c, "状态更新成功", user)
}
