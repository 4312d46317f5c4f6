package service_test

import (
	"testing"
	"time"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/model"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/service"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestCaseToTask(t *testing.T) {
	c := &model.CaseModel{
		ID:              "case-1",
		OrganizationID:  "org-1",
		ReferenceNumber: "ETH-2026-0001",
		Status:          model.CaseStatusOpen,
		Severity:        model.SeverityHigh,
		Summary:         "Vendor kickback",
		Details:         "Reported via hotline",
		Category:        &model.CaseCategoryModel{Name: "Bribery"},
		CreatedByID:     "user-9",
		AssignedToID:    strPtr("user-1"),
		CreatedAt:       testNow.Add(-day),
	}

	got := service.CaseToTask(c, "org-1", testNow)

	assert.Equal(t, "CASE_ASSIGNMENT-case-1", got.ID)
	assert.Equal(t, service.TaskTypeCaseAssignment, got.Type)
	assert.Equal(t, service.EntityTypeCase, got.EntityType)
	assert.Equal(t, "ETH-2026-0001: Vendor kickback", got.Title)
	assert.Equal(t, "/cases/case-1", got.URL)
	assert.Nil(t, got.DueDate)
	assert.Equal(t, service.TaskPriorityHigh, got.Priority)
	assert.Equal(t, service.TaskStatusInProgress, got.Status)
	assert.Equal(t, "user-1", got.AssigneeID)
	assert.Equal(t, "Bribery", got.Metadata["category"])
	assert.Equal(t, "user-9", got.Metadata["createdById"])
	assert.Equal(t, "org-1", got.OrganizationID)

	c.Status = model.CaseStatusNew
	assert.Equal(t, service.TaskStatusPending, service.CaseToTask(c, "org-1", testNow).Status)
}

func TestInvestigationToTask(t *testing.T) {
	inv := &model.InvestigationModel{
		ID:                    "inv-1",
		CaseID:                "case-1",
		Case:                  &model.CaseModel{ReferenceNumber: "ETH-2026-0001"},
		Status:                model.InvestigationStatusInvestigating,
		DueDate:               dueIn(-day),
		SLAStatus:             model.SLAStatusWarning,
		PrimaryInvestigatorID: strPtr("user-1"),
		CreatedAt:             testNow.Add(-5 * day),
	}

	got := service.InvestigationToTask(inv, "org-1", testNow)

	assert.Equal(t, "INVESTIGATION_STEP-inv-1", got.ID)
	assert.Equal(t, "Investigation for ETH-2026-0001", got.Title)
	assert.Equal(t, service.TaskPriorityHigh, got.Priority)
	assert.Equal(t, service.TaskStatusOverdue, got.Status)
	assert.Equal(t, inv.CreatedAt, got.AssignedAt)
	assert.Equal(t, inv.DueDate, got.DueDate)
}

func TestRemediationStepToTask(t *testing.T) {
	step := &model.RemediationStepModel{
		ID:     "step-1",
		PlanID: "plan-1",
		Plan: &model.RemediationPlanModel{
			Title:  "Tighten vendor onboarding",
			CaseID: strPtr("case-1"),
			Case:   &model.CaseModel{ReferenceNumber: "ETH-2026-0001"},
		},
		Title:          "Update vendor checklist",
		DueDate:        dueIn(2 * day),
		Status:         model.RemediationStepStatusInProgress,
		AssigneeUserID: strPtr("user-1"),
	}

	got := service.RemediationStepToTask(step, "org-1", testNow)

	assert.Equal(t, "Update vendor checklist", got.Title)
	assert.Equal(t, service.TaskPriorityMedium, got.Priority)
	assert.Equal(t, service.TaskStatusInProgress, got.Status)
	assert.Equal(t, "/remediation/plan-1/steps/step-1", got.URL)
	assert.Equal(t, "Tighten vendor onboarding", got.Metadata["planTitle"])
	assert.Equal(t, "ETH-2026-0001", got.Metadata["caseReferenceNumber"])
}

func TestConflictAlertToTask(t *testing.T) {
	alert := &model.ConflictAlertModel{
		ID:              "alert-1",
		DisclosureID:    "disc-1",
		Summary:         "Board seat at supplier",
		MatchedEntity:   "Acme Corp",
		Severity:        model.SeverityCritical,
		MatchConfidence: 0.92,
		Status:          model.ConflictAlertStatusOpen,
	}

	got := service.ConflictAlertToTask(alert, "org-1")

	assert.Equal(t, service.TaskTypeDisclosureReview, got.Type)
	assert.Equal(t, "Review conflict: Acme Corp", got.Title)
	assert.Nil(t, got.DueDate)
	assert.Equal(t, service.TaskStatusPending, got.Status)
	assert.Equal(t, service.TaskPriorityHigh, got.Priority)
	assert.Empty(t, got.AssigneeID)
	assert.Equal(t, 0.92, got.Metadata["matchConfidence"])
}

func TestCampaignAssignmentToTask(t *testing.T) {
	a := &model.CampaignAssignmentModel{
		ID:            "ca-1",
		CampaignID:    "camp-1",
		Campaign:      &model.CampaignModel{Name: "Annual COI attestation", Type: "DISCLOSURE"},
		EmployeeID:    "user-1",
		DueDate:       dueIn(-time.Hour),
		Status:        model.CampaignAssignmentStatusNotified,
		ReminderCount: 2,
	}

	got := service.CampaignAssignmentToTask(a, "org-1", testNow)

	assert.Equal(t, "Respond to Annual COI attestation", got.Title)
	assert.Equal(t, service.TaskPriorityMedium, got.Priority)
	assert.Equal(t, service.TaskStatusOverdue, got.Status)
	assert.Equal(t, 2, got.Metadata["reminderCount"])
}

func TestWorkflowInstanceToTask(t *testing.T) {
	wi := &model.WorkflowInstanceModel{
		ID:                "wf-1",
		Template:          &model.WorkflowTemplateModel{Name: "Policy approval"},
		EntityType:        "POLICY",
		EntityID:          "pol-1",
		Status:            model.WorkflowStatusActive,
		CurrentStage:      "Legal review",
		CurrentAssigneeID: strPtr("user-1"),
		DueDate:           dueIn(day),
		SLAStatus:         model.SLAStatusOnTrack,
		UpdatedAt:         testNow.Add(-time.Hour),
	}

	got := service.WorkflowInstanceToTask(wi, "org-1", testNow)

	assert.Equal(t, "Approve Policy approval (Legal review)", got.Title)
	assert.Equal(t, service.TaskStatusInProgress, got.Status)
	assert.Equal(t, service.TaskPriorityMedium, got.Priority)
	assert.Equal(t, wi.UpdatedAt, got.AssignedAt)
	assert.Equal(t, "POLICY", got.Metadata["targetEntityType"])
}

// TestTransforms_OverdueInvariant 除冲突告警外，截止日期已过的任务状态都是 OVERDUE
func TestTransforms_OverdueInvariant(t *testing.T) {
	past := dueIn(-time.Minute)
	tasks := []*service.UnifiedTask{
		service.InvestigationToTask(&model.InvestigationModel{ID: "i", DueDate: past, Status: model.InvestigationStatusInvestigating}, "org-1", testNow),
		service.RemediationStepToTask(&model.RemediationStepModel{ID: "r", DueDate: past, Status: model.RemediationStepStatusInProgress}, "org-1", testNow),
		service.CampaignAssignmentToTask(&model.CampaignAssignmentModel{ID: "c", DueDate: past, Status: model.CampaignAssignmentStatusInProgress}, "org-1", testNow),
		service.WorkflowInstanceToTask(&model.WorkflowInstanceModel{ID: "w", DueDate: past, Status: model.WorkflowStatusActive}, "org-1", testNow),
	}
	for _, task := range tasks {
		assert.Equal(t, service.TaskStatusOverdue, task.Status, task.ID)
		assert.True(t, task.Priority.Valid(), task.ID)
	}
}
