package api

import (
	"strconv"

	"kas/repository"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 收支类别管理
type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

type CategoryCreateRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Type  string `json:"type" binding:"required"`
	Color string `json:"color" binding:"omitempty,max=7"` // 颜色代码，如 #6366f1
}

type CategoryUpdateRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Color *string `json:"color" binding:"omitempty,max=7"`
}

// List 列出启用中的类别
// @Summary 获取类别列表
// @Description 返回所有启用中的收支类别，软删除的类别不包含在内。
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	cacheKey := "categories"
	if cached, ok := queryCache.Get(cacheKey); ok {
		Success(c, cached)
		return
	}
	list, err := repository.ListActiveCategories()
	if err != nil {
		HandleError(c, err, "查询失败")
		return
	}
	queryCache.Set(cacheKey, list)
	Success(c, list)
}

// Get 按 ID 获取类别（包含已软删除的，供历史交易解析名称与颜色）
// @Summary 获取单个类别
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Success 200 {object} Response{data=models.Category} "获取成功"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	cat, err := repository.GetCategory(uint(id))
	if err != nil {
		HandleError(c, err, "查询失败")
		return
	}
	Success(c, cat)
}

// Create 创建类别
// @Summary 创建类别
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryCreateRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	cat, err := repository.CreateCategory(repository.CategoryInput{
		Name:  req.Name,
		Type:  req.Type,
		Color: req.Color,
	})
	if err != nil {
		HandleError(c, err, "创建失败")
		return
	}
	queryCache.Invalidate("categories")
	SuccessWithMessage(c, "创建成功", cat)
}

// Update 更新类别（type 创建后不可变更）
// @Summary 更新类别
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Param request body CategoryUpdateRequest true "更新的类别信息"
// @Success 200 {object} Response{data=models.Category} "更新成功"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	var req CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	cat, err := repository.UpdateCategory(uint(id), repository.CategoryPatch{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		HandleError(c, err, "更新失败")
		return
	}
	queryCache.Invalidate("categories")
	SuccessWithMessage(c, "更新成功", cat)
}

// Delete 软删除类别
// @Summary 删除类别
// @Description 软删除：仅置 is_active=false，历史交易仍可按 ID 解析该类别。目标不存在时同样返回成功。
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	if err := repository.DeleteCategory(uint(id)); err != nil {
		HandleError(c, err, "删除失败")
		return
	}
	queryCache.Invalidate("categories")
	SuccessWithMessage(c, "删除成功", nil)
}
