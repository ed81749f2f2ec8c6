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

func userTestRouter(currentUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setIdentityMiddleware(currentUserID, models.RoleAdmin))
	h := NewUserHandler()
	router.GET("/users", h.List)
	router.POST("/users", h.Upsert)
	router.PUT("/users/:id/role", h.UpdateRole)
	router.PUT("/users/:id/status", h.ToggleStatus)
	return router
}

func TestUserHandler_Upsert(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users` .*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("ext-7").
		WillReturnRows(mockUserRows("ext-7", models.RolePengurus, "", true))

	router := userTestRouter("admin")
	body := `{"id":"ext-7","first_name":"新","last_name":"成员"}`
	req := httptest.NewRequest("POST", "/users", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "保存成功", resp["message"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "ext-7", data["id"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_UpdateRole_InvalidRole(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	// 非法角色在校验层被拒，不触发任何 SQL
	router := userTestRouter("admin")
	body := `{"role":"boss"}`
	req := httptest.NewRequest("PUT", "/users/u-1/role", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_ToggleStatus(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("u-2").
		WillReturnRows(mockUserRows("u-2", models.RolePengurus, "", true))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := userTestRouter("admin")
	req := httptest.NewRequest("PUT", "/users/u-2/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, false, data["is_active"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_ToggleStatus_Self(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	// 不能停用自己，避免管理员自锁
	router := userTestRouter("admin")
	req := httptest.NewRequest("PUT", "/users/admin/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "不能修改自己的状态")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_List(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(mockUserRows("u-1", models.RoleAdmin, "", true).
			AddRow("u-2", "u-2@example.com", "", "二", "号", "", models.RolePengurus, true, time.Now(), time.Now()))

	router := userTestRouter("admin")
	req := httptest.NewRequest("GET", "/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["data"], 2)
	require.NoError(t, mock.ExpectationsWereMet())
}
