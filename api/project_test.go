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

func projectTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setIdentityMiddleware("admin", models.RoleAdmin))
	h := NewProjectHandler()
	router.GET("/projects", h.List)
	router.GET("/projects/:id", h.Get)
	router.POST("/projects", h.Create)
	router.PUT("/projects/:id", h.Update)
	router.DELETE("/projects/:id", h.Delete)
	return router
}

func mockProjectRows(id uint, name, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "budget", "spent", "status", "created_by", "created_at", "updated_at"}).
		AddRow(id, name, "", 50000.0, 0.0, status, "admin", time.Now(), time.Now())
}

func TestProjectHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `projects`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	body := `{"name":"图书馆翻新","budget":50000,"start_date":"2026-09-01"}`
	req := httptest.NewRequest("POST", "/projects", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	projectTestRouter().ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "创建成功", resp["message"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "图书馆翻新", data["name"])
	assert.Equal(t, models.ProjectStatusActive, data["status"]) // 默认进行中
	assert.Equal(t, "admin", data["created_by"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectHandler_Create_BadDate(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	// 日期非法，不触发任何 SQL
	body := `{"name":"图书馆翻新","start_date":"09/01/2026"}`
	req := httptest.NewRequest("POST", "/projects", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	projectTestRouter().ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "开始日期格式错误")
}

func TestProjectHandler_List_ActiveFilter(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `projects` WHERE status = .*").
		WithArgs(models.ProjectStatusActive).
		WillReturnRows(mockProjectRows(1, "图书馆翻新", models.ProjectStatusActive))

	req := httptest.NewRequest("GET", "/projects?status=active", nil)
	w := httptest.NewRecorder()
	projectTestRouter().ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["data"], 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectHandler_Update_Status(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `projects`").
		WithArgs(1).
		WillReturnRows(mockProjectRows(1, "图书馆翻新", models.ProjectStatusActive))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `projects` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT .* FROM `projects`").
		WithArgs(1).
		WillReturnRows(mockProjectRows(1, "图书馆翻新", models.ProjectStatusCompleted))

	body := `{"status":"completed"}`
	req := httptest.NewRequest("PUT", "/projects/1", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	projectTestRouter().ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, models.ProjectStatusCompleted, data["status"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectHandler_Delete_Idempotent(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	// 目标不存在也返回成功
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `projects`").
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	req := httptest.NewRequest("DELETE", "/projects/99", nil)
	w := httptest.NewRecorder()
	projectTestRouter().ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "删除成功")

	require.NoError(t, mock.ExpectationsWereMet())
}
