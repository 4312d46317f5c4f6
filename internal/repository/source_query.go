package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	// DefaultSourceLimit 单个数据源默认最多返回的记录数
	DefaultSourceLimit = 100
	// MaxSourceLimit 单个数据源允许的最大记录数
	MaxSourceLimit = 500
)

// ErrMissingTenant 缺少组织 ID 时拒绝查询，不允许跨租户读取
var ErrMissingTenant = errors.New("organization ID is required for source queries")

// SourceQuery 单个数据源的查询条件
type SourceQuery struct {
	OrganizationID string
	UserID         string
	DueDateStart   *time.Time
	DueDateEnd     *time.Time
	Limit          int
}

// limit 返回有效的记录上限
func (q *SourceQuery) limit() int {
	return clampLimit(q.Limit)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultSourceLimit
	}
	if limit > MaxSourceLimit {
		return MaxSourceLimit
	}
	return limit
}

// tenantScope 构建带租户条件的查询，组织条件永远是第一个条件
func tenantScope(ctx context.Context, db *gorm.DB, m interface{}, orgID string) (*gorm.DB, error) {
	if orgID == "" {
		return nil, ErrMissingTenant
	}
	return db.WithContext(ctx).Model(m).Where("organization_id = ?", orgID), nil
}

// applyDateRange 将截止日期范围映射到指定列。
// 边界统一转为 UTC 再绑定：SQLite 按文本比较时间，带其他时区偏移的值会比较错误。
func applyDateRange(query *gorm.DB, column string, q *SourceQuery) *gorm.DB {
	if q.DueDateStart != nil {
		query = query.Where(column+" >= ?", q.DueDateStart.UTC())
	}
	if q.DueDateEnd != nil {
		query = query.Where(column+" <= ?", q.DueDateEnd.UTC())
	}
	return query
}

// orderByDueDate 截止日期升序，空值排在最后（兼容 PostgreSQL 和 SQLite）
func orderByDueDate(query *gorm.DB) *gorm.DB {
	return query.Order("due_date IS NULL").Order("due_date ASC").Order("id ASC")
}
