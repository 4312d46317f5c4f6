package service

import "github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/model"

// PriorityFromCaseSeverity 案件严重程度映射：HIGH→HIGH，MEDIUM→MEDIUM，其余为 LOW
func PriorityFromCaseSeverity(severity string) TaskPriority {
	switch severity {
	case model.SeverityHigh:
		return TaskPriorityHigh
	case model.SeverityMedium:
		return TaskPriorityMedium
	default:
		return TaskPriorityLow
	}
}

// PriorityFromSLAStatus SLA 已超期或预警时为 HIGH，否则为 MEDIUM
func PriorityFromSLAStatus(slaStatus string) TaskPriority {
	switch slaStatus {
	case model.SLAStatusOverdue, model.SLAStatusWarning:
		return TaskPriorityHigh
	default:
		return TaskPriorityMedium
	}
}

// PriorityFromAlertSeverity 告警严重程度映射：CRITICAL/HIGH→HIGH，MEDIUM→MEDIUM，其余为 LOW
func PriorityFromAlertSeverity(severity string) TaskPriority {
	switch severity {
	case model.SeverityCritical, model.SeverityHigh:
		return TaskPriorityHigh
	case model.SeverityMedium:
		return TaskPriorityMedium
	default:
		return TaskPriorityLow
	}
}
