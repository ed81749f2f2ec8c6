package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignedAmount(t *testing.T) {
	income := &Transaction{Amount: 1000, Type: TypeIncome}
	assert.Equal(t, float64(1000), income.SignedAmount())

	expense := &Transaction{Amount: 400, Type: TypeExpense}
	assert.Equal(t, float64(-400), expense.SignedAmount())
}

func TestValidTransactionType(t *testing.T) {
	assert.True(t, ValidTransactionType(TypeIncome))
	assert.True(t, ValidTransactionType(TypeExpense))
	assert.False(t, ValidTransactionType("transfer"))
	assert.False(t, ValidTransactionType(""))
	assert.False(t, ValidTransactionType("Income"))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleBendahara))
	assert.True(t, ValidRole(RolePengurus))
	assert.False(t, ValidRole("superadmin"))
	assert.False(t, ValidRole(""))
}

func TestValidAnnouncementType(t *testing.T) {
	for _, v := range []string{AnnouncementInfo, AnnouncementWarning, AnnouncementSuccess, AnnouncementError} {
		assert.True(t, ValidAnnouncementType(v))
	}
	assert.False(t, ValidAnnouncementType("urgent"))
}

func TestValidProjectStatus(t *testing.T) {
	for _, v := range []string{ProjectStatusActive, ProjectStatusCompleted, ProjectStatusPaused} {
		assert.True(t, ValidProjectStatus(v))
	}
	assert.False(t, ValidProjectStatus("archived"))
}
