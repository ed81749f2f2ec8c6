package repository

import (
	"testing"
	"time"

	"kas/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListActiveAnnouncements_Limit(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "title", "content", "type", "is_active", "created_by", "created_at", "updated_at"})
	for i := 1; i <= models.ActiveAnnouncementLimit; i++ {
		rows.AddRow(i, "公告", "内容", models.AnnouncementInfo, true, "admin", time.Now(), time.Now())
	}
	// 只取启用中的公告，条数上限 10
	mock.ExpectQuery("SELECT .* FROM `announcements` WHERE is_active = .*").
		WithArgs(true).
		WillReturnRows(rows)

	list, err := ListActiveAnnouncements()
	require.NoError(t, err)
	assert.Len(t, list, models.ActiveAnnouncementLimit)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAnnouncement(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `announcements`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	ann, err := CreateAnnouncement(AnnouncementInput{
		Title:     "月度会议通知",
		Content:   "本周五晚召开月度会议",
		CreatedBy: "admin",
	})
	require.NoError(t, err)
	// 未指定类型时默认 info
	assert.Equal(t, models.AnnouncementInfo, ann.Type)
	assert.True(t, ann.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAnnouncement_Validation(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	_, err := CreateAnnouncement(AnnouncementInput{Title: " ", Content: "x"})
	assert.True(t, IsValidation(err))

	_, err = CreateAnnouncement(AnnouncementInput{Title: "通知", Content: "  "})
	assert.True(t, IsValidation(err))

	_, err = CreateAnnouncement(AnnouncementInput{Title: "通知", Content: "x", Type: "urgent"})
	assert.True(t, IsValidation(err))
}

func TestDeleteAnnouncement_Idempotent(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `announcements`").
		WithArgs(404).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.NoError(t, DeleteAnnouncement(404))
	require.NoError(t, mock.ExpectationsWereMet())
}
