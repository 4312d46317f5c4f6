package model

import (
	"errors"
	"time"
)

// 案件状态
const (
	CaseStatusNew    = "NEW"
	CaseStatusOpen   = "OPEN"
	CaseStatusClosed = "CLOSED"
)

// 案件严重程度
const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
	SeverityLow      = "LOW"
)

// CaseCategoryModel 案件分类
type CaseCategoryModel struct {
	ID             string `gorm:"primaryKey;type:varchar(64)"`
	OrganizationID string `gorm:"type:varchar(64);not null;index"`
	Name           string `gorm:"type:varchar(255);not null"`
}

// TableName 指定表名
func (CaseCategoryModel) TableName() string {
	return "case_categories"
}

// CaseModel 案件数据模型
type CaseModel struct {
	ID              string             `gorm:"primaryKey;type:varchar(64)"`
	OrganizationID  string             `gorm:"type:varchar(64);not null;index"`
	ReferenceNumber string             `gorm:"type:varchar(64);not null"`
	Status          string             `gorm:"type:varchar(32);not null"`
	Severity        string             `gorm:"type:varchar(32)"`
	Summary         string             `gorm:"type:varchar(512)"`
	Details         string             `gorm:"type:text"`
	CategoryID      *string            `gorm:"type:varchar(64)"`
	Category        *CaseCategoryModel `gorm:"foreignKey:CategoryID"`
	CreatedByID     string             `gorm:"type:varchar(64)"`
	AssignedToID    *string            `gorm:"type:varchar(64)"` // 为空表示未分配
	CreatedAt       time.Time          `gorm:"not null"`
	UpdatedAt       time.Time          `gorm:"not null"`
}

// TableName 指定表名
func (CaseModel) TableName() string {
	return "cases"
}

// IsTerminal 是否处于终态
func (cm *CaseModel) IsTerminal() bool {
	return cm.Status == CaseStatusClosed
}

// CategoryName 返回分类名称，无分类时为空
func (cm *CaseModel) CategoryName() string {
	if cm.Category == nil {
		return ""
	}
	return cm.Category.Name
}

// Validate 验证案件模型
func (cm *CaseModel) Validate() error {
	if cm.ID == "" {
		return errors.New("case ID is required")
	}
	if cm.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if cm.ReferenceNumber == "" {
		return errors.New("reference number is required")
	}
	if cm.Status == "" {
		return errors.New("case status is required")
	}
	return nil
}
