package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"kas/config"
	"kas/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectStatsQueries(mock sqlmock.Sqlmock, totalIncome, totalExpense, monthIncome, monthExpense float64, activeProjects int64) {
	sumRows := func(v float64) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"COALESCE(SUM(amount), 0)"}).AddRow(v)
	}
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COALESCE.* FROM `transactions`").WillReturnRows(sumRows(totalIncome))
	mock.ExpectQuery("SELECT COALESCE.* FROM `transactions`").WillReturnRows(sumRows(totalExpense))
	mock.ExpectQuery("SELECT COALESCE.* FROM `transactions`").WillReturnRows(sumRows(monthIncome))
	mock.ExpectQuery("SELECT COALESCE.* FROM `transactions`").WillReturnRows(sumRows(monthExpense))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `projects`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(activeProjects))
}

func dashboardTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setIdentityMiddleware("u-1", models.RolePengurus))
	router.GET("/dashboard/stats", NewDashboardHandler().GetStats)
	return router
}

func TestDashboardHandler_GetStats(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	expectStatsQueries(mock, 1000000, 400000, 300000, 120000, 3)

	router := dashboardTestRouter()
	req := httptest.NewRequest("GET", "/dashboard/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	// 总余额 = 全部收入 - 全部支出
	assert.Equal(t, float64(600000), data["total_balance"])
	assert.Equal(t, float64(300000), data["monthly_income"])
	assert.Equal(t, float64(120000), data["monthly_expenses"])
	assert.Equal(t, float64(3), data["active_projects"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardHandler_GetStats_Cached(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	// 只允许一轮统计查询，第二次请求必须命中缓存
	expectStatsQueries(mock, 500, 200, 100, 50, 1)

	router := dashboardTestRouter()
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/dashboard/stats", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, 200, w.Code)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}
