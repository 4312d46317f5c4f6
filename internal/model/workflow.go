package model

import (
	"errors"
	"time"
)

// 流程实例状态
const (
	WorkflowStatusActive    = "ACTIVE"
	WorkflowStatusPaused    = "PAUSED"
	WorkflowStatusCompleted = "COMPLETED"
	WorkflowStatusCancelled = "CANCELLED"
)

// WorkflowTemplateModel 审批流程模板
type WorkflowTemplateModel struct {
	ID             string    `gorm:"primaryKey;type:varchar(64)"`
	OrganizationID string    `gorm:"type:varchar(64);not null;index"`
	Name           string    `gorm:"type:varchar(255);not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName 指定表名
func (WorkflowTemplateModel) TableName() string {
	return "workflow_templates"
}

// WorkflowInstanceModel 审批流程实例
type WorkflowInstanceModel struct {
	ID                string                 `gorm:"primaryKey;type:varchar(64)"`
	OrganizationID    string                 `gorm:"type:varchar(64);not null;index"`
	TemplateID        string                 `gorm:"type:varchar(64);not null"`
	Template          *WorkflowTemplateModel `gorm:"foreignKey:TemplateID"`
	EntityType        string                 `gorm:"type:varchar(64);not null"` // 被审批的业务对象
	EntityID          string                 `gorm:"type:varchar(64);not null"`
	Status            string                 `gorm:"type:varchar(32);not null"`
	CurrentStage      string                 `gorm:"type:varchar(128)"`
	CurrentStep       string                 `gorm:"type:varchar(128)"`
	CurrentAssigneeID *string                `gorm:"type:varchar(64)"` // 当前步骤审批人
	DueDate           *time.Time
	SLAStatus         string    `gorm:"column:sla_status;type:varchar(32)"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName 指定表名
func (WorkflowInstanceModel) TableName() string {
	return "workflow_instances"
}

// IsTerminal 只有 ACTIVE 的实例需要审批
func (wi *WorkflowInstanceModel) IsTerminal() bool {
	return wi.Status != WorkflowStatusActive
}

// TemplateName 返回模板名称
func (wi *WorkflowInstanceModel) TemplateName() string {
	if wi.Template == nil {
		return ""
	}
	return wi.Template.Name
}

// Validate 验证流程实例模型
func (wi *WorkflowInstanceModel) Validate() error {
	if wi.ID == "" {
		return errors.New("workflow instance ID is required")
	}
	if wi.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if wi.TemplateID == "" {
		return errors.New("template ID is required")
	}
	if wi.EntityType == "" || wi.EntityID == "" {
		return errors.New("entity reference is required")
	}
	return nil
}
