package api

import (
	"fmt"
	"strconv"
	"time"

	"kas/middleware"
	"kas/models"
	"kas/repository"

	"github.com/gin-gonic/gin"
)

// TransactionHandler 交易记录处理器
type TransactionHandler struct{}

// NewTransactionHandler 创建交易记录处理器
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

// CreateTransactionRequest 创建交易请求
type CreateTransactionRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"1000000"`
	Type        string  `json:"type" binding:"required" example:"income"`
	CategoryID  *uint   `json:"category_id" example:"1"`
	Description string  `json:"description" example:"六月学费"`
	Source      string  `json:"source" example:"银行转账"`
	Date        string  `json:"date" binding:"required" example:"2024-06-15"`
}

// UpdateTransactionRequest 更新交易请求（字段可选）
type UpdateTransactionRequest struct {
	Amount      *float64 `json:"amount" binding:"omitempty,gt=0"`
	Type        *string  `json:"type"`
	CategoryID  *uint    `json:"category_id"`
	Description *string  `json:"description"`
	Source      *string  `json:"source"`
	Date        *string  `json:"date"`
}

// Create 创建交易
// @Summary 创建交易
// @Description 创建一条收入或支出记录。金额必须为正数，方向由 type 决定。
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	date, err := parseDateTime(req.Date)
	if err != nil {
		BadRequest(c, "日期格式错误，应为: 2006-01-02 或 2006-01-02 15:04:05")
		return
	}

	tx, err := repository.CreateTransaction(repository.TransactionInput{
		Amount:      req.Amount,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Source:      req.Source,
		Date:        date,
		CreatedBy:   middleware.GetCurrentUserID(c),
	})
	if err != nil {
		HandleError(c, err, "创建交易失败")
		return
	}

	queryCache.Invalidate("transactions")
	SuccessWithMessage(c, "创建成功", tx)
}

// List 获取交易列表
// @Summary 获取交易列表
// @Description 按交易日期倒序返回交易。支持 type、category、start_date/end_date 筛选，筛选维度互斥：日期区间优先，其次 type，再次 category。
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param type query string false "收支类型 income/expense"
// @Param category query int false "类别ID"
// @Param start_date query string false "开始日期 (2024-01-01)"
// @Param end_date query string false "结束日期 (2024-12-31)"
// @Param limit query int false "条数" default(50)
// @Param offset query int false "偏移" default(0)
// @Success 200 {object} Response{data=[]models.Transaction} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	txType := c.Query("type")
	categoryStr := c.Query("category")
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	cacheKey := listCacheKey(txType, categoryStr, startStr, endStr, limit, offset)
	if cached, ok := queryCache.Get(cacheKey); ok {
		Success(c, cached)
		return
	}

	var (
		list []models.Transaction
		err  error
	)
	switch {
	case startStr != "" && endStr != "":
		var start, end time.Time
		start, err = time.ParseInLocation("2006-01-02", startStr, time.Local)
		if err != nil {
			BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
			return
		}
		end, err = time.ParseInLocation("2006-01-02", endStr, time.Local)
		if err != nil {
			BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
			return
		}
		// 包含结束日期当天
		end = end.Add(24*time.Hour - time.Second)
		list, err = repository.ListTransactionsByDateRange(start, end)
	case txType != "":
		list, err = repository.ListTransactionsByType(txType, limit)
	case categoryStr != "":
		var catID uint64
		catID, err = strconv.ParseUint(categoryStr, 10, 32)
		if err != nil {
			BadRequest(c, "无效的类别ID")
			return
		}
		list, err = repository.ListTransactionsByCategory(uint(catID), limit)
	default:
		list, err = repository.ListTransactions(limit, offset)
	}
	if err != nil {
		HandleError(c, err, "查询失败")
		return
	}

	queryCache.Set(cacheKey, list)
	Success(c, list)
}

// Get 获取单条交易
// @Summary 获取单条交易
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Success 200 {object} Response{data=models.Transaction} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	tx, err := repository.GetTransaction(uint(id))
	if err != nil {
		HandleError(c, err, "查询失败")
		return
	}
	Success(c, tx)
}

// Update 更新交易
// @Summary 更新交易
// @Description 部分更新指定交易，updated_at 总是刷新。
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Param request body UpdateTransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	patch := repository.TransactionPatch{
		Amount:      req.Amount,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Source:      req.Source,
	}
	if req.Date != nil {
		date, err := parseDateTime(*req.Date)
		if err != nil {
			BadRequest(c, "日期格式错误，应为: 2006-01-02 或 2006-01-02 15:04:05")
			return
		}
		patch.Date = &date
	}

	tx, err := repository.UpdateTransaction(uint(id), patch)
	if err != nil {
		HandleError(c, err, "更新失败")
		return
	}

	queryCache.Invalidate("transactions")
	SuccessWithMessage(c, "更新成功", tx)
}

// Delete 删除交易
// @Summary 删除交易
// @Description 硬删除指定交易。记录不存在时同样返回成功（幂等删除）。
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}
	if err := repository.DeleteTransaction(uint(id)); err != nil {
		HandleError(c, err, "删除失败")
		return
	}
	queryCache.Invalidate("transactions")
	SuccessWithMessage(c, "删除成功", nil)
}

// listCacheKey 交易列表的缓存键
func listCacheKey(txType, category, start, end string, limit, offset int) string {
	return fmt.Sprintf("transactions?type=%s&category=%s&start=%s&end=%s&limit=%d&offset=%d",
		txType, category, start, end, limit, offset)
}

// parseDateTime 解析日期参数，支持日期或日期时间两种格式（本地时区）
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}
