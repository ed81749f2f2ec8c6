package repository

import (
	"time"

	"kas/database"
	"kas/models"

	"gorm.io/gorm"
)

const (
	// DefaultListLimit 交易列表默认条数
	DefaultListLimit = 50
	// DefaultTypeListLimit 按类型筛选时的默认条数
	DefaultTypeListLimit = 10
)

// TransactionInput 创建交易的输入
type TransactionInput struct {
	Amount      float64
	Type        string
	CategoryID  *uint
	Description string
	Source      string
	Date        time.Time
	CreatedBy   string
}

// TransactionPatch 部分更新，nil 字段表示不修改
type TransactionPatch struct {
	Amount      *float64
	Type        *string
	CategoryID  *uint
	Description *string
	Source      *string
	Date        *time.Time
}

// TransactionStats 仪表盘统计结果
type TransactionStats struct {
	TotalBalance    float64 `json:"total_balance"`
	MonthlyIncome   float64 `json:"monthly_income"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
}

// ListTransactions 按交易日期倒序分页列出全部交易
func ListTransactions(limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	var list []models.Transaction
	if err := database.DB.Order("date DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, storeErr("查询交易", err)
	}
	return list, nil
}

// ListTransactionsByType 按收支类型筛选，日期倒序
func ListTransactionsByType(txType string, limit int) ([]models.Transaction, error) {
	if !models.ValidTransactionType(txType) {
		return nil, validationErr("type", "无效的收支类型，支持：income/expense")
	}
	if limit <= 0 {
		limit = DefaultTypeListLimit
	}
	var list []models.Transaction
	if err := database.DB.Where("type = ?", txType).Order("date DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, storeErr("查询交易", err)
	}
	return list, nil
}

// ListTransactionsByCategory 按类别筛选，日期倒序
func ListTransactionsByCategory(categoryID uint, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = DefaultTypeListLimit
	}
	var list []models.Transaction
	if err := database.DB.Where("category_id = ?", categoryID).Order("date DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, storeErr("查询交易", err)
	}
	return list, nil
}

// ListTransactionsByDateRange 按日期区间（含两端）列出全部交易，日期倒序，不限条数
func ListTransactionsByDateRange(start, end time.Time) ([]models.Transaction, error) {
	var list []models.Transaction
	if err := database.DB.Where("date >= ? AND date <= ?", start, end).Order("date DESC").Find(&list).Error; err != nil {
		return nil, storeErr("查询交易", err)
	}
	return list, nil
}

// GetTransaction 按 ID 获取单条交易
func GetTransaction(id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := database.DB.First(&tx, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("交易", id)
		}
		return nil, storeErr("查询交易", err)
	}
	return &tx, nil
}

// CreateTransaction 创建交易，返回持久化后的完整记录
func CreateTransaction(input TransactionInput) (*models.Transaction, error) {
	if input.Amount <= 0 {
		return nil, validationErr("amount", "金额必须大于 0")
	}
	if !models.ValidTransactionType(input.Type) {
		return nil, validationErr("type", "无效的收支类型，支持：income/expense")
	}
	if input.Date.IsZero() {
		return nil, validationErr("date", "交易日期不能为空")
	}
	if err := checkCategoryPairing(input.Type, input.CategoryID); err != nil {
		return nil, err
	}

	tx := models.Transaction{
		Amount:      input.Amount,
		Type:        input.Type,
		CategoryID:  input.CategoryID,
		Description: input.Description,
		Source:      input.Source,
		Date:        input.Date,
		CreatedBy:   input.CreatedBy,
	}
	if err := database.DB.Create(&tx).Error; err != nil {
		return nil, storeErr("创建交易", err)
	}
	return &tx, nil
}

// UpdateTransaction 部分更新交易，updated_at 总是刷新
func UpdateTransaction(id uint, patch TransactionPatch) (*models.Transaction, error) {
	var tx models.Transaction
	if err := database.DB.First(&tx, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundErr("交易", id)
		}
		return nil, storeErr("查询交易", err)
	}

	updates := make(map[string]interface{})
	if patch.Amount != nil {
		if *patch.Amount <= 0 {
			return nil, validationErr("amount", "金额必须大于 0")
		}
		updates["amount"] = *patch.Amount
	}
	if patch.Type != nil {
		if !models.ValidTransactionType(*patch.Type) {
			return nil, validationErr("type", "无效的收支类型，支持：income/expense")
		}
		updates["type"] = *patch.Type
	}
	if patch.CategoryID != nil {
		updates["category_id"] = *patch.CategoryID
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Source != nil {
		updates["source"] = *patch.Source
	}
	if patch.Date != nil {
		if patch.Date.IsZero() {
			return nil, validationErr("date", "交易日期不能为空")
		}
		updates["date"] = *patch.Date
	}

	// 校验修改后的收支方向与类别类型一致
	effectiveType := tx.Type
	if patch.Type != nil {
		effectiveType = *patch.Type
	}
	effectiveCategory := tx.CategoryID
	if patch.CategoryID != nil {
		effectiveCategory = patch.CategoryID
	}
	if err := checkCategoryPairing(effectiveType, effectiveCategory); err != nil {
		return nil, err
	}

	updates["updated_at"] = time.Now()
	if err := database.DB.Model(&tx).Updates(updates).Error; err != nil {
		return nil, storeErr("更新交易", err)
	}
	if err := database.DB.First(&tx, id).Error; err != nil {
		return nil, storeErr("查询交易", err)
	}
	return &tx, nil
}

// DeleteTransaction 硬删除，记录不存在时静默成功（幂等）
func DeleteTransaction(id uint) error {
	if err := database.DB.Delete(&models.Transaction{}, id).Error; err != nil {
		return storeErr("删除交易", err)
	}
	return nil
}

// GetTransactionStats 计算仪表盘统计
// 总余额 = 全部收入之和 - 全部支出之和；月度收支只统计当前自然月
// [本月1日 00:00:00, 本月最后一天 23:59:59]（服务器本地时区）。
// 每次调用完整重算；四个聚合查询放在同一个只读事务中，保证两组数字取自同一时间点。
func GetTransactionStats() (*TransactionStats, error) {
	return getTransactionStatsAt(time.Now())
}

func getTransactionStatsAt(now time.Time) (*TransactionStats, error) {
	monthStart, monthEnd := monthWindow(now)

	var stats TransactionStats
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		totalIncome, err := sumAmount(tx, models.TypeIncome, nil, nil)
		if err != nil {
			return err
		}
		totalExpense, err := sumAmount(tx, models.TypeExpense, nil, nil)
		if err != nil {
			return err
		}
		stats.TotalBalance = totalIncome - totalExpense

		stats.MonthlyIncome, err = sumAmount(tx, models.TypeIncome, &monthStart, &monthEnd)
		if err != nil {
			return err
		}
		stats.MonthlyExpenses, err = sumAmount(tx, models.TypeExpense, &monthStart, &monthEnd)
		return err
	})
	if err != nil {
		return nil, storeErr("统计交易", err)
	}
	return &stats, nil
}

// sumAmount 对指定类型的交易金额求和，start/end 为 nil 时不限日期
func sumAmount(tx *gorm.DB, txType string, start, end *time.Time) (float64, error) {
	query := tx.Model(&models.Transaction{}).Where("type = ?", txType)
	if start != nil {
		query = query.Where("date >= ?", *start)
	}
	if end != nil {
		query = query.Where("date <= ?", *end)
	}
	var total float64
	if err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// monthWindow 返回 now 所在自然月的统计窗口（本地时区）
func monthWindow(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end = start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}

// checkCategoryPairing 校验交易类型与引用类别的类型一致
// 类别可以是已停用的（历史数据仍可解析），但方向必须一致。
func checkCategoryPairing(txType string, categoryID *uint) error {
	if categoryID == nil {
		return nil
	}
	var cat models.Category
	if err := database.DB.First(&cat, *categoryID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return validationErr("category_id", "类别不存在")
		}
		return storeErr("查询类别", err)
	}
	if cat.Type != txType {
		return validationErr("category_id", "类别类型与交易类型不一致")
	}
	return nil
}
