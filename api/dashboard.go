package api

import (
	"kas/repository"

	"github.com/gin-gonic/gin"
)

// DashboardHandler 仪表盘统计
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// DashboardStats 仪表盘展示数据
type DashboardStats struct {
	TotalBalance    float64 `json:"total_balance" example:"600000"`    // 历史总余额（收入-支出）
	MonthlyIncome   float64 `json:"monthly_income" example:"1000000"`  // 本月收入
	MonthlyExpenses float64 `json:"monthly_expenses" example:"400000"` // 本月支出
	ActiveProjects  int64   `json:"active_projects" example:"3"`       // 进行中项目数
}

// GetStats 获取仪表盘统计
// @Summary 获取仪表盘统计
// @Description 返回总余额、本月收支与进行中项目数。数据每次请求重新计算，不做增量维护；交易或项目写入会使缓存失效。
// @Tags 仪表盘
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=DashboardStats} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	cacheKey := "dashboard-stats"
	if cached, ok := queryCache.Get(cacheKey); ok {
		Success(c, cached)
		return
	}

	txStats, err := repository.GetTransactionStats()
	if err != nil {
		HandleError(c, err, "统计失败")
		return
	}
	activeProjects, err := repository.CountActiveProjects()
	if err != nil {
		HandleError(c, err, "统计失败")
		return
	}

	stats := DashboardStats{
		TotalBalance:    txStats.TotalBalance,
		MonthlyIncome:   txStats.MonthlyIncome,
		MonthlyExpenses: txStats.MonthlyExpenses,
		ActiveProjects:  activeProjects,
	}
	queryCache.Set(cacheKey, stats)
	Success(c, stats)
}
