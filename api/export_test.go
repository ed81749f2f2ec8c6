package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kas/config"
	"kas/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setIdentityMiddleware("bendahara-1", models.RoleBendahara))
	h := NewExportHandler()
	router.GET("/export/csv", h.ExportCSV)
	router.GET("/export/excel", h.ExportExcel)
	return router
}

func mockExportRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "amount", "type", "category_id", "description", "source",
		"date", "created_by", "created_at", "updated_at", "category_name",
	}).AddRow(1, 1500.5, models.TypeIncome, 1, "六月学费", "银行转账",
		time.Date(2024, 6, 15, 0, 0, 0, 0, time.Local), "u-1", time.Now(), time.Now(), "学费收入")
}

func TestExportHandler_CSV(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT transactions\\..* FROM `transactions` LEFT JOIN categories").
		WillReturnRows(mockExportRows())

	router := exportTestRouter()
	req := httptest.NewRequest("GET", "/export/csv?start_date=2024-06-01&end_date=2024-06-30", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	body := w.Body.String()
	// BOM 开头，保证 Excel 正确识别中文
	assert.True(t, strings.HasPrefix(body, "\xEF\xBB\xBF"))
	assert.Contains(t, body, "六月学费")
	assert.Contains(t, body, "学费收入")
	assert.Contains(t, body, "1500.50")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_CSV_MissingRange(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	router := exportTestRouter()
	req := httptest.NewRequest("GET", "/export/csv?start_date=2024-06-01", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_Excel(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT transactions\\..* FROM `transactions` LEFT JOIN categories").
		WillReturnRows(mockExportRows())

	router := exportTestRouter()
	req := httptest.NewRequest("GET", "/export/excel?start_date=2024-06-01&end_date=2024-06-30", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	// xlsx 是 zip 容器，以 PK 开头
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
	require.NoError(t, mock.ExpectationsWereMet())
}
