package api

import (
	"strconv"
	"time"

	"kas/middleware"
	"kas/models"
	"kas/repository"

	"github.com/gin-gonic/gin"
)

// ProjectHandler 项目管理
type ProjectHandler struct{}

func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{}
}

type ProjectCreateRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=255"`
	Description string   `json:"description"`
	Budget      *float64 `json:"budget" binding:"omitempty,gte=0"`
	Status      string   `json:"status" binding:"omitempty"` // active/completed/paused，默认 active
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
}

type ProjectUpdateRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string  `json:"description"`
	Budget      *float64 `json:"budget" binding:"omitempty,gte=0"`
	Spent       *float64 `json:"spent" binding:"omitempty,gte=0"`
	Status      *string  `json:"status"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
}

// List 获取项目列表
// @Summary 获取项目列表
// @Description 按创建时间倒序返回项目。status=active 时只返回进行中的项目。
// @Tags 项目
// @Produce json
// @Security BearerAuth
// @Param status query string false "筛选：active 只看进行中"
// @Success 200 {object} Response{data=[]models.Project} "获取成功"
// @Router /api/v1/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	var (
		list []models.Project
		err  error
	)
	if c.Query("status") == models.ProjectStatusActive {
		list, err = repository.ListActiveProjects()
	} else {
		list, err = repository.ListProjects()
	}
	if err != nil {
		HandleError(c, err, "查询失败")
		return
	}
	Success(c, list)
}

// Get 获取单个项目
// @Summary 获取单个项目
// @Tags 项目
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Success 200 {object} Response{data=models.Project} "获取成功"
// @Failure 404 {object} Response "项目不存在"
// @Router /api/v1/projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	p, err := repository.GetProject(uint(id))
	if err != nil {
		HandleError(c, err, "查询失败")
		return
	}
	Success(c, p)
}

// Create 创建项目
// @Summary 创建项目
// @Tags 项目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProjectCreateRequest true "项目信息"
// @Success 200 {object} Response{data=models.Project} "创建成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req ProjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	input := repository.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Budget:      req.Budget,
		Status:      req.Status,
		CreatedBy:   middleware.GetCurrentUserID(c),
	}
	var err error
	if input.StartDate, err = parseOptionalDate(req.StartDate); err != nil {
		BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
		return
	}
	if input.EndDate, err = parseOptionalDate(req.EndDate); err != nil {
		BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
		return
	}

	p, err := repository.CreateProject(input)
	if err != nil {
		HandleError(c, err, "创建失败")
		return
	}
	queryCache.Invalidate("projects")
	SuccessWithMessage(c, "创建成功", p)
}

// Update 更新项目
// @Summary 更新项目
// @Tags 项目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Param request body ProjectUpdateRequest true "项目信息"
// @Success 200 {object} Response{data=models.Project} "更新成功"
// @Failure 404 {object} Response "项目不存在"
// @Router /api/v1/projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	var req ProjectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	patch := repository.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		Budget:      req.Budget,
		Spent:       req.Spent,
		Status:      req.Status,
	}
	if patch.StartDate, err = parseOptionalDate(req.StartDate); err != nil {
		BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
		return
	}
	if patch.EndDate, err = parseOptionalDate(req.EndDate); err != nil {
		BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
		return
	}

	p, err := repository.UpdateProject(uint(id), patch)
	if err != nil {
		HandleError(c, err, "更新失败")
		return
	}
	queryCache.Invalidate("projects")
	SuccessWithMessage(c, "更新成功", p)
}

// Delete 删除项目（硬删除）
// @Summary 删除项目
// @Tags 项目
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	if err := repository.DeleteProject(uint(id)); err != nil {
		HandleError(c, err, "删除失败")
		return
	}
	queryCache.Invalidate("projects")
	SuccessWithMessage(c, "删除成功", nil)
}

// parseOptionalDate 解析可选日期参数，nil/空串返回 nil
func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", *s, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
