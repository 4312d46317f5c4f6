package model

import (
	"errors"
	"time"
)

// 整改步骤状态
const (
	RemediationStepStatusPending    = "PENDING"
	RemediationStepStatusInProgress = "IN_PROGRESS"
	RemediationStepStatusCompleted  = "COMPLETED"
	RemediationStepStatusSkipped    = "SKIPPED"
)

// RemediationPlanModel 整改计划
type RemediationPlanModel struct {
	ID             string     `gorm:"primaryKey;type:varchar(64)"`
	OrganizationID string     `gorm:"type:varchar(64);not null;index"`
	Title          string     `gorm:"type:varchar(255);not null"`
	CaseID         *string    `gorm:"type:varchar(64)"`
	Case           *CaseModel `gorm:"foreignKey:CaseID"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

// TableName 指定表名
func (RemediationPlanModel) TableName() string {
	return "remediation_plans"
}

// RemediationStepModel 整改步骤
type RemediationStepModel struct {
	ID             string                `gorm:"primaryKey;type:varchar(64)"`
	OrganizationID string                `gorm:"type:varchar(64);not null;index"`
	PlanID         string                `gorm:"type:varchar(64);not null"`
	Plan           *RemediationPlanModel `gorm:"foreignKey:PlanID"`
	Title          string                `gorm:"type:varchar(255);not null"`
	Description    string                `gorm:"type:text"`
	DueDate        *time.Time
	Status         string    `gorm:"type:varchar(32);not null"`
	AssigneeUserID *string   `gorm:"type:varchar(64)"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName 指定表名
func (RemediationStepModel) TableName() string {
	return "remediation_steps"
}

// IsTerminal 已完成或已跳过
func (rs *RemediationStepModel) IsTerminal() bool {
	return rs.Status == RemediationStepStatusCompleted || rs.Status == RemediationStepStatusSkipped
}

// Validate 验证整改步骤模型
func (rs *RemediationStepModel) Validate() error {
	if rs.ID == "" {
		return errors.New("remediation step ID is required")
	}
	if rs.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if rs.PlanID == "" {
		return errors.New("plan ID is required")
	}
	if rs.Title == "" {
		return errors.New("step title is required")
	}
	return nil
}
