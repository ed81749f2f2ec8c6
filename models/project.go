package models

import (
	"time"
)

const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusPaused    = "paused"
)

// Project 项目
// 记录带预算的专项活动，硬删除。仪表盘只统计 status=active 的数量。
type Project struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Budget      *float64   `json:"budget" gorm:"type:decimal(15,2)"`
	Spent       float64    `json:"spent" gorm:"type:decimal(15,2);default:0"`
	Status      string     `json:"status" gorm:"size:10;default:active;index"` // active/completed/paused
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	CreatedBy   string     `json:"created_by" gorm:"size:64;index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName 设置表名
func (Project) TableName() string {
	return "projects"
}

// ValidProjectStatus 检查项目状态是否合法
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusPaused:
		return true
	}
	return false
}
