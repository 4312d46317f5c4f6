package service

import (
	"fmt"
	"time"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/model"
)

// 数据源实体类型
const (
	EntityTypeCase               = "CASE"
	EntityTypeInvestigation      = "INVESTIGATION"
	EntityTypeRemediationStep    = "REMEDIATION_STEP"
	EntityTypeConflictAlert      = "CONFLICT_ALERT"
	EntityTypeCampaignAssignment = "CAMPAIGN_ASSIGNMENT"
	EntityTypeWorkflowInstance   = "WORKFLOW_INSTANCE"
)

// TaskID 构造统一任务 ID，同一源记录多次调用结果相同
func TaskID(taskType TaskType, sourceID string) string {
	return fmt.Sprintf("%s-%s", taskType, sourceID)
}

// CaseToTask 案件 → 任务。案件没有截止日期，进行中由 OPEN 状态决定。
func CaseToTask(c *model.CaseModel, orgID string, now time.Time) *UnifiedTask {
	title := c.ReferenceNumber
	if c.Summary != "" {
		title = fmt.Sprintf("%s: %s", c.ReferenceNumber, c.Summary)
	}
	return &UnifiedTask{
		ID:          TaskID(TaskTypeCaseAssignment, c.ID),
		Type:        TaskTypeCaseAssignment,
		EntityType:  EntityTypeCase,
		EntityID:    c.ID,
		Title:       title,
		Description: c.Details,
		URL:         "/cases/" + c.ID,
		DueDate:     nil,
		Priority:    PriorityFromCaseSeverity(c.Severity),
		Status:      DetermineTaskStatus(nil, c.Status == model.CaseStatusOpen, now),
		AssignedAt:  c.CreatedAt,
		AssigneeID:  deref(c.AssignedToID),
		CreatedAt:   c.CreatedAt,
		Metadata: map[string]interface{}{
			"referenceNumber": c.ReferenceNumber,
			"caseStatus":      c.Status,
			"severity":        c.Severity,
			"category":        c.CategoryName(),
			"createdById":     c.CreatedByID,
		},
		OrganizationID: orgID,
	}
}

// InvestigationToTask 调查 → 任务，优先级来自 SLA 状态
func InvestigationToTask(inv *model.InvestigationModel, orgID string, now time.Time) *UnifiedTask {
	ref := inv.CaseReferenceNumber()
	assignedAt := inv.CreatedAt
	if inv.AssignedAt != nil {
		assignedAt = *inv.AssignedAt
	}
	return &UnifiedTask{
		ID:         TaskID(TaskTypeInvestigationStep, inv.ID),
		Type:       TaskTypeInvestigationStep,
		EntityType: EntityTypeInvestigation,
		EntityID:   inv.ID,
		Title:      fmt.Sprintf("Investigation for %s", ref),
		URL:        "/investigations/" + inv.ID,
		DueDate:    inv.DueDate,
		Priority:   PriorityFromSLAStatus(inv.SLAStatus),
		Status: DetermineTaskStatus(inv.DueDate,
			inv.Status == model.InvestigationStatusInvestigating, now),
		AssignedAt: assignedAt,
		AssigneeID: deref(inv.PrimaryInvestigatorID),
		CreatedAt:  inv.CreatedAt,
		Metadata: map[string]interface{}{
			"caseId":              inv.CaseID,
			"caseReferenceNumber": ref,
			"investigationType":   inv.InvestigationType,
			"investigationStatus": inv.Status,
			"slaStatus":           inv.SLAStatus,
		},
		OrganizationID: orgID,
	}
}

// RemediationStepToTask 整改步骤 → 任务，没有紧急度信号，固定 MEDIUM；标题取自步骤本身
func RemediationStepToTask(step *model.RemediationStepModel, orgID string, now time.Time) *UnifiedTask {
	metadata := map[string]interface{}{
		"planId":     step.PlanID,
		"stepStatus": step.Status,
	}
	if step.Plan != nil {
		metadata["planTitle"] = step.Plan.Title
		if step.Plan.CaseID != nil {
			metadata["caseId"] = *step.Plan.CaseID
		}
		if step.Plan.Case != nil {
			metadata["caseReferenceNumber"] = step.Plan.Case.ReferenceNumber
		}
	}
	return &UnifiedTask{
		ID:          TaskID(TaskTypeRemediationTask, step.ID),
		Type:        TaskTypeRemediationTask,
		EntityType:  EntityTypeRemediationStep,
		EntityID:    step.ID,
		Title:       step.Title,
		Description: step.Description,
		URL:         fmt.Sprintf("/remediation/%s/steps/%s", step.PlanID, step.ID),
		DueDate:     step.DueDate,
		Priority:    TaskPriorityMedium,
		Status: DetermineTaskStatus(step.DueDate,
			step.Status == model.RemediationStepStatusInProgress, now),
		AssignedAt:     step.CreatedAt,
		AssigneeID:     deref(step.AssigneeUserID),
		CreatedAt:      step.CreatedAt,
		Metadata:       metadata,
		OrganizationID: orgID,
	}
}

// ConflictAlertToTask 冲突告警 → 任务。没有截止日期和进度概念，状态固定 PENDING，无负责人。
func ConflictAlertToTask(alert *model.ConflictAlertModel, orgID string) *UnifiedTask {
	title := alert.Summary
	if alert.MatchedEntity != "" {
		title = fmt.Sprintf("Review conflict: %s", alert.MatchedEntity)
	}
	return &UnifiedTask{
		ID:          TaskID(TaskTypeDisclosureReview, alert.ID),
		Type:        TaskTypeDisclosureReview,
		EntityType:  EntityTypeConflictAlert,
		EntityID:    alert.ID,
		Title:       title,
		Description: alert.Summary,
		URL:         fmt.Sprintf("/disclosures/%s/conflicts/%s", alert.DisclosureID, alert.ID),
		DueDate:     nil,
		Priority:    PriorityFromAlertSeverity(alert.Severity),
		Status:      TaskStatusPending,
		AssignedAt:  alert.CreatedAt,
		CreatedAt:   alert.CreatedAt,
		Metadata: map[string]interface{}{
			"disclosureId":    alert.DisclosureID,
			"conflictType":    alert.ConflictType,
			"matchedEntity":   alert.MatchedEntity,
			"severity":        alert.Severity,
			"matchConfidence": alert.MatchConfidence,
		},
		OrganizationID: orgID,
	}
}

// CampaignAssignmentToTask 活动分配 → 任务，固定 MEDIUM，状态使用专用映射
func CampaignAssignmentToTask(a *model.CampaignAssignmentModel, orgID string, now time.Time) *UnifiedTask {
	metadata := map[string]interface{}{
		"campaignId":       a.CampaignID,
		"assignmentStatus": a.Status,
		"reminderCount":    a.ReminderCount,
	}
	title := "Campaign response"
	if a.Campaign != nil {
		title = fmt.Sprintf("Respond to %s", a.Campaign.Name)
		metadata["campaignName"] = a.Campaign.Name
		metadata["campaignType"] = a.Campaign.Type
	}
	return &UnifiedTask{
		ID:             TaskID(TaskTypeCampaignResponse, a.ID),
		Type:           TaskTypeCampaignResponse,
		EntityType:     EntityTypeCampaignAssignment,
		EntityID:       a.ID,
		Title:          title,
		URL:            "/campaigns/assignments/" + a.ID,
		DueDate:        a.DueDate,
		Priority:       TaskPriorityMedium,
		Status:         CampaignAssignmentStatus(a.DueDate, a.Status, now),
		AssignedAt:     a.AssignedAt,
		AssigneeID:     a.EmployeeID,
		CreatedAt:      a.CreatedAt,
		Metadata:       metadata,
		OrganizationID: orgID,
	}
}

// WorkflowInstanceToTask 流程实例 → 审批任务。实例一旦激活即视为进行中。
func WorkflowInstanceToTask(wi *model.WorkflowInstanceModel, orgID string, now time.Time) *UnifiedTask {
	name := wi.TemplateName()
	title := fmt.Sprintf("Approve %s", name)
	if wi.CurrentStage != "" {
		title = fmt.Sprintf("Approve %s (%s)", name, wi.CurrentStage)
	}
	return &UnifiedTask{
		ID:         TaskID(TaskTypeApprovalRequest, wi.ID),
		Type:       TaskTypeApprovalRequest,
		EntityType: EntityTypeWorkflowInstance,
		EntityID:   wi.ID,
		Title:      title,
		URL:        "/approvals/" + wi.ID,
		DueDate:    wi.DueDate,
		Priority:   PriorityFromSLAStatus(wi.SLAStatus),
		Status:     DetermineTaskStatus(wi.DueDate, true, now),
		// 当前步骤到达时间以最近更新时间近似
		AssignedAt: wi.UpdatedAt,
		AssigneeID: deref(wi.CurrentAssigneeID),
		CreatedAt:  wi.CreatedAt,
		Metadata: map[string]interface{}{
			"templateName":     name,
			"currentStage":     wi.CurrentStage,
			"currentStep":      wi.CurrentStep,
			"slaStatus":        wi.SLAStatus,
			"targetEntityType": wi.EntityType,
			"targetEntityId":   wi.EntityID,
		},
		OrganizationID: orgID,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
