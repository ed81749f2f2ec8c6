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

func announcementTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setIdentityMiddleware("admin", models.RoleAdmin))
	// 邮件未启用，发布不触发通知
	h := NewAnnouncementHandler(&config.Config{Email: config.EmailConfig{Enabled: false}})
	router.GET("/announcements", h.List)
	router.GET("/announcements/active", h.ListActive)
	router.POST("/announcements", h.Create)
	router.PUT("/announcements/:id", h.Update)
	router.DELETE("/announcements/:id", h.Delete)
	return router
}

func mockAnnouncementRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "content", "type", "is_active", "created_by", "created_at", "updated_at"})
}

func TestAnnouncementHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `announcements`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := announcementTestRouter()
	body := `{"title":"月度会议","content":"本周五晚召开","type":"warning"}`
	req := httptest.NewRequest("POST", "/announcements", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "发布成功", resp["message"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "admin", data["created_by"])
	assert.Equal(t, models.AnnouncementWarning, data["type"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementHandler_Create_InvalidType(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	router := announcementTestRouter()
	body := `{"title":"通知","content":"x","type":"urgent"}`
	req := httptest.NewRequest("POST", "/announcements", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementHandler_ListActive(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	rows := mockAnnouncementRows().
		AddRow(2, "新公告", "内容", models.AnnouncementInfo, true, "admin", time.Now(), time.Now()).
		AddRow(1, "旧公告", "内容", models.AnnouncementSuccess, true, "admin", time.Now().Add(-time.Hour), time.Now())
	mock.ExpectQuery("SELECT .* FROM `announcements`").
		WithArgs(true).
		WillReturnRows(rows)

	router := announcementTestRouter()
	req := httptest.NewRequest("GET", "/announcements/active", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["data"], 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementHandler_Delete_Idempotent(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `announcements`").
		WithArgs(55).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	router := announcementTestRouter()
	req := httptest.NewRequest("DELETE", "/announcements/55", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
