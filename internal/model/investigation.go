package model

import (
	"errors"
	"time"
)

// 调查状态
const (
	InvestigationStatusNew           = "NEW"
	InvestigationStatusAssigned      = "ASSIGNED"
	InvestigationStatusInvestigating = "INVESTIGATING"
	InvestigationStatusPendingReview = "PENDING_REVIEW"
	InvestigationStatusClosed        = "CLOSED"
)

// SLA 状态，调查和审批流程共用
const (
	SLAStatusOnTrack = "ON_TRACK"
	SLAStatusWarning = "WARNING"
	SLAStatusOverdue = "OVERDUE"
)

// InvestigationModel 调查数据模型
type InvestigationModel struct {
	ID                    string     `gorm:"primaryKey;type:varchar(64)"`
	OrganizationID        string     `gorm:"type:varchar(64);not null;index"`
	CaseID                string     `gorm:"type:varchar(64);not null"`
	Case                  *CaseModel `gorm:"foreignKey:CaseID"`
	InvestigationType     string     `gorm:"type:varchar(64)"`
	Status                string     `gorm:"type:varchar(32);not null"`
	DueDate               *time.Time
	SLAStatus             string  `gorm:"column:sla_status;type:varchar(32)"`
	PrimaryInvestigatorID *string `gorm:"type:varchar(64)"`
	AssignedAt            *time.Time
	CreatedAt             time.Time `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null"`
}

// TableName 指定表名
func (InvestigationModel) TableName() string {
	return "investigations"
}

// IsTerminal 是否处于终态
func (im *InvestigationModel) IsTerminal() bool {
	return im.Status == InvestigationStatusClosed
}

// CaseReferenceNumber 返回所属案件编号
func (im *InvestigationModel) CaseReferenceNumber() string {
	if im.Case == nil {
		return ""
	}
	return im.Case.ReferenceNumber
}

// Validate 验证调查模型
func (im *InvestigationModel) Validate() error {
	if im.ID == "" {
		return errors.New("investigation ID is required")
	}
	if im.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if im.CaseID == "" {
		return errors.New("case ID is required")
	}
	return nil
}
