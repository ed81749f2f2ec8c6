package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"kas/config"
	"kas/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setIdentityMiddleware("bendahara-1", models.RoleBendahara))
	h := NewCategoryHandler()
	router.GET("/categories", h.List)
	router.GET("/categories/:id", h.Get)
	router.POST("/categories", h.Create)
	router.PUT("/categories/:id", h.Update)
	router.DELETE("/categories/:id", h.Delete)
	return router
}

func mockCategoryRows(id uint, name, catType string, isActive bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "type", "color", "is_active", "created_at"}).
		AddRow(id, name, catType, models.DefaultCategoryColor, isActive, time.Now())
}

func TestCategoryHandler_List_InvalidatedOnCreate(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	router := categoryTestRouter()
	get := func() {
		req := httptest.NewRequest("GET", "/categories", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, 200, w.Code)
	}

	// 第一次查库，第二次命中缓存
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(true).
		WillReturnRows(mockCategoryRows(1, "学费收入", models.TypeIncome, true))
	get()
	get()

	// 创建类别触发缓存失效，下一次 List 重新查库
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `categories`").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	body := `{"name":"活动经费","type":"expense"}`
	req := httptest.NewRequest("POST", "/categories", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)

	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(true).
		WillReturnRows(mockCategoryRows(1, "学费收入", models.TypeIncome, true).
			AddRow(2, "活动经费", models.TypeExpense, models.DefaultCategoryColor, true, time.Now()))
	get()

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryHandler_Get_Inactive(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	// 软删除的类别仍可按 ID 取出，供历史交易展示
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(9).
		WillReturnRows(mockCategoryRows(9, "旧维护费", models.TypeExpense, false))

	router := categoryTestRouter()
	req := httptest.NewRequest("GET", "/categories/9", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "旧维护费", data["name"])
	assert.Equal(t, false, data["is_active"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryHandler_Delete_Soft(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	// 删除落为 UPDATE is_active，而非 DELETE
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `categories` SET `is_active`").
		WithArgs(false, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := categoryTestRouter()
	req := httptest.NewRequest("DELETE", "/categories/3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryHandler_Delete_Idempotent(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	// 目标不存在也返回成功，与交易删除语义一致
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `categories` SET `is_active`").
		WithArgs(false, 404).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	router := categoryTestRouter()
	req := httptest.NewRequest("DELETE", "/categories/404", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
