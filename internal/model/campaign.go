package model

import (
	"errors"
	"time"
)

// 活动分配状态
const (
	CampaignAssignmentStatusPending    = "PENDING"
	CampaignAssignmentStatusNotified   = "NOTIFIED"
	CampaignAssignmentStatusInProgress = "IN_PROGRESS"
	CampaignAssignmentStatusCompleted  = "COMPLETED"
	CampaignAssignmentStatusSkipped    = "SKIPPED"
)

// CampaignModel 披露/认证活动
type CampaignModel struct {
	ID             string    `gorm:"primaryKey;type:varchar(64)"`
	OrganizationID string    `gorm:"type:varchar(64);not null;index"`
	Name           string    `gorm:"type:varchar(255);not null"`
	Type           string    `gorm:"type:varchar(64)"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName 指定表名
func (CampaignModel) TableName() string {
	return "campaigns"
}

// CampaignAssignmentModel 活动分配给员工的应答任务
type CampaignAssignmentModel struct {
	ID             string         `gorm:"primaryKey;type:varchar(64)"`
	OrganizationID string         `gorm:"type:varchar(64);not null;index"`
	CampaignID     string         `gorm:"type:varchar(64);not null"`
	Campaign       *CampaignModel `gorm:"foreignKey:CampaignID"`
	EmployeeID     string         `gorm:"type:varchar(64);not null"` // 员工对应的用户 ID
	DueDate        *time.Time
	Status         string    `gorm:"type:varchar(32);not null"`
	AssignedAt     time.Time `gorm:"not null"`
	ReminderCount  int       `gorm:"not null;default:0"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName 指定表名
func (CampaignAssignmentModel) TableName() string {
	return "campaign_assignments"
}

// IsTerminal 已完成或已跳过
func (ca *CampaignAssignmentModel) IsTerminal() bool {
	return ca.Status == CampaignAssignmentStatusCompleted || ca.Status == CampaignAssignmentStatusSkipped
}

// Validate 验证活动分配模型
func (ca *CampaignAssignmentModel) Validate() error {
	if ca.ID == "" {
		return errors.New("campaign assignment ID is required")
	}
	if ca.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if ca.CampaignID == "" {
		return errors.New("campaign ID is required")
	}
	if ca.EmployeeID == "" {
		return errors.New("employee ID is required")
	}
	return nil
}
