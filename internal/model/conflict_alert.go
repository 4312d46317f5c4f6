package model

import (
	"errors"
	"time"
)

// 利益冲突告警状态
const (
	ConflictAlertStatusOpen      = "OPEN"
	ConflictAlertStatusDismissed = "DISMISSED"
	ConflictAlertStatusEscalated = "ESCALATED"
	ConflictAlertStatusResolved  = "RESOLVED"
)

// ConflictAlertModel 利益冲突告警，组织级队列，没有单一负责人
type ConflictAlertModel struct {
	ID              string    `gorm:"primaryKey;type:varchar(64)"`
	OrganizationID  string    `gorm:"type:varchar(64);not null;index"`
	DisclosureID    string    `gorm:"type:varchar(64);not null"`
	Summary         string    `gorm:"type:varchar(512)"`
	ConflictType    string    `gorm:"type:varchar(64)"`
	MatchedEntity   string    `gorm:"type:varchar(255)"`
	Severity        string    `gorm:"type:varchar(32)"`
	MatchConfidence float64
	Status          string    `gorm:"type:varchar(32);not null"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName 指定表名
func (ConflictAlertModel) TableName() string {
	return "conflict_alerts"
}

// IsTerminal 只有 OPEN 的告警需要处理
func (ca *ConflictAlertModel) IsTerminal() bool {
	return ca.Status != ConflictAlertStatusOpen
}

// Validate 验证告警模型
func (ca *ConflictAlertModel) Validate() error {
	if ca.ID == "" {
		return errors.New("conflict alert ID is required")
	}
	if ca.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if ca.DisclosureID == "" {
		return errors.New("disclosure ID is required")
	}
	return nil
}
