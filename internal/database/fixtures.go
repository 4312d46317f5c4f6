package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/model"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixture 演示数据。时间用相对当前时间的 duration 表示，例如 "-48h" 表示两天前。
type Fixture struct {
	OrganizationID    string                    `yaml:"organization_id"`
	CaseCategories    []CaseCategoryFixture     `yaml:"case_categories"`
	Cases             []CaseFixture             `yaml:"cases"`
	Investigations    []InvestigationFixture    `yaml:"investigations"`
	RemediationPlans  []RemediationPlanFixture  `yaml:"remediation_plans"`
	ConflictAlerts    []ConflictAlertFixture    `yaml:"conflict_alerts"`
	Campaigns         []CampaignFixture         `yaml:"campaigns"`
	WorkflowTemplates []WorkflowTemplateFixture `yaml:"workflow_templates"`
	WorkflowInstances []WorkflowInstanceFixture `yaml:"workflow_instances"`
}

type CaseCategoryFixture struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type CaseFixture struct {
	ID              string `yaml:"id"`
	ReferenceNumber string `yaml:"reference_number"`
	Status          string `yaml:"status"`
	Severity        string `yaml:"severity"`
	Summary         string `yaml:"summary"`
	Details         string `yaml:"details"`
	CategoryID      string `yaml:"category_id"`
	CreatedBy       string `yaml:"created_by"`
	AssignedTo      string `yaml:"assigned_to"`
	CreatedAgo      string `yaml:"created_ago"`
}

type InvestigationFixture struct {
	ID                  string `yaml:"id"`
	CaseID              string `yaml:"case_id"`
	Type                string `yaml:"type"`
	Status              string `yaml:"status"`
	DueIn               string `yaml:"due_in"`
	SLAStatus           string `yaml:"sla_status"`
	PrimaryInvestigator string `yaml:"primary_investigator"`
}

type RemediationPlanFixture struct {
	ID     string                   `yaml:"id"`
	Title  string                   `yaml:"title"`
	CaseID string                   `yaml:"case_id"`
	Steps  []RemediationStepFixture `yaml:"steps"`
}

type RemediationStepFixture struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
	DueIn       string `yaml:"due_in"`
	Assignee    string `yaml:"assignee"`
}

type ConflictAlertFixture struct {
	ID              string  `yaml:"id"`
	DisclosureID    string  `yaml:"disclosure_id"`
	Summary         string  `yaml:"summary"`
	ConflictType    string  `yaml:"conflict_type"`
	MatchedEntity   string  `yaml:"matched_entity"`
	Severity        string  `yaml:"severity"`
	MatchConfidence float64 `yaml:"match_confidence"`
	Status          string  `yaml:"status"`
}

type CampaignFixture struct {
	ID          string                      `yaml:"id"`
	Name        string                      `yaml:"name"`
	Type        string                      `yaml:"type"`
	Assignments []CampaignAssignmentFixture `yaml:"assignments"`
}

type CampaignAssignmentFixture struct {
	ID       string `yaml:"id"`
	Employee string `yaml:"employee"`
	Status   string `yaml:"status"`
	DueIn    string `yaml:"due_in"`
}

type WorkflowTemplateFixture struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type WorkflowInstanceFixture struct {
	ID           string `yaml:"id"`
	TemplateID   string `yaml:"template_id"`
	EntityType   string `yaml:"entity_type"`
	EntityID     string `yaml:"entity_id"`
	Status       string `yaml:"status"`
	CurrentStage string `yaml:"current_stage"`
	CurrentStep  string `yaml:"current_step"`
	Assignee     string `yaml:"assignee"`
	DueIn        string `yaml:"due_in"`
	SLAStatus    string `yaml:"sla_status"`
}

// LoadFixture 读取 YAML 演示数据
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if fixture.OrganizationID == "" {
		return nil, fmt.Errorf("fixture %s: organization_id is required", path)
	}
	return &fixture, nil
}

// Seed 在一个事务中写入演示数据，返回写入的记录数。时间统一按 UTC 存储。
func Seed(ctx context.Context, db *gorm.DB, fixture *Fixture, now time.Time) (int, error) {
	records, err := fixture.records(now.UTC())
	if err != nil {
		return 0, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			if err := tx.Create(record).Error; err != nil {
				return fmt.Errorf("failed to insert %T: %w", record, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// records 把演示数据转换为模型，按外键依赖顺序排列
func (f *Fixture) records(now time.Time) ([]interface{}, error) {
	org := f.OrganizationID
	var out []interface{}

	for _, c := range f.CaseCategories {
		out = append(out, &model.CaseCategoryModel{ID: idOrNew(c.ID), OrganizationID: org, Name: c.Name})
	}

	for _, c := range f.Cases {
		created, err := relative(now, c.CreatedAgo, true)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", c.ID, err)
		}
		createdAt := now
		if created != nil {
			createdAt = *created
		}
		out = append(out, &model.CaseModel{
			ID:              idOrNew(c.ID),
			OrganizationID:  org,
			ReferenceNumber: c.ReferenceNumber,
			Status:          c.Status,
			Severity:        c.Severity,
			Summary:         c.Summary,
			Details:         c.Details,
			CategoryID:      optional(c.CategoryID),
			CreatedByID:     c.CreatedBy,
			AssignedToID:    optional(c.AssignedTo),
			CreatedAt:       createdAt,
			UpdatedAt:       createdAt,
		})
	}

	for _, inv := range f.Investigations {
		due, err := relative(now, inv.DueIn, false)
		if err != nil {
			return nil, fmt.Errorf("investigation %s: %w", inv.ID, err)
		}
		out = append(out, &model.InvestigationModel{
			ID:                    idOrNew(inv.ID),
			OrganizationID:        org,
			CaseID:                inv.CaseID,
			InvestigationType:     inv.Type,
			Status:                inv.Status,
			DueDate:               due,
			SLAStatus:             inv.SLAStatus,
			PrimaryInvestigatorID: optional(inv.PrimaryInvestigator),
			AssignedAt:            &now,
			CreatedAt:             now,
			UpdatedAt:             now,
		})
	}

	for _, plan := range f.RemediationPlans {
		planID := idOrNew(plan.ID)
		out = append(out, &model.RemediationPlanModel{
			ID:             planID,
			OrganizationID: org,
			Title:          plan.Title,
			CaseID:         optional(plan.CaseID),
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		for _, step := range plan.Steps {
			due, err := relative(now, step.DueIn, false)
			if err != nil {
				return nil, fmt.Errorf("remediation step %s: %w", step.ID, err)
			}
			out = append(out, &model.RemediationStepModel{
				ID:             idOrNew(step.ID),
				OrganizationID: org,
				PlanID:         planID,
				Title:          step.Title,
				Description:    step.Description,
				DueDate:        due,
				Status:         step.Status,
				AssigneeUserID: optional(step.Assignee),
				CreatedAt:      now,
				UpdatedAt:      now,
			})
		}
	}

	for _, alert := range f.ConflictAlerts {
		out = append(out, &model.ConflictAlertModel{
			ID:              idOrNew(alert.ID),
			OrganizationID:  org,
			DisclosureID:    alert.DisclosureID,
			Summary:         alert.Summary,
			ConflictType:    alert.ConflictType,
			MatchedEntity:   alert.MatchedEntity,
			Severity:        alert.Severity,
			MatchConfidence: alert.MatchConfidence,
			Status:          alert.Status,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	for _, campaign := range f.Campaigns {
		campaignID := idOrNew(campaign.ID)
		out = append(out, &model.CampaignModel{
			ID:             campaignID,
			OrganizationID: org,
			Name:           campaign.Name,
			Type:           campaign.Type,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		for _, a := range campaign.Assignments {
			due, err := relative(now, a.DueIn, false)
			if err != nil {
				return nil, fmt.Errorf("campaign assignment %s: %w", a.ID, err)
			}
			out = append(out, &model.CampaignAssignmentModel{
				ID:             idOrNew(a.ID),
				OrganizationID: org,
				CampaignID:     campaignID,
				EmployeeID:     a.Employee,
				DueDate:        due,
				Status:         a.Status,
				AssignedAt:     now,
				CreatedAt:      now,
				UpdatedAt:      now,
			})
		}
	}

	for _, t := range f.WorkflowTemplates {
		out = append(out, &model.WorkflowTemplateModel{
			ID:             idOrNew(t.ID),
			OrganizationID: org,
			Name:           t.Name,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	for _, wi := range f.WorkflowInstances {
		due, err := relative(now, wi.DueIn, false)
		if err != nil {
			return nil, fmt.Errorf("workflow instance %s: %w", wi.ID, err)
		}
		out = append(out, &model.WorkflowInstanceModel{
			ID:                idOrNew(wi.ID),
			OrganizationID:    org,
			TemplateID:        wi.TemplateID,
			EntityType:        wi.EntityType,
			EntityID:          wi.EntityID,
			Status:            wi.Status,
			CurrentStage:      wi.CurrentStage,
			CurrentStep:       wi.CurrentStep,
			CurrentAssigneeID: optional(wi.Assignee),
			DueDate:           due,
			SLAStatus:         wi.SLAStatus,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	return out, nil
}

// relative 解析相对时间，ago 为 true 时向过去偏移
func relative(now time.Time, value string, ago bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	if ago {
		d = -d
	}
	t := now.Add(d)
	return &t, nil
}

func idOrNew(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
