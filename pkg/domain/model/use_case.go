package model

import (
	"time"

	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

// UseCaseObjective describes the business objective of an AI use case.
type UseCaseObjective struct {
	CurrentState string `json:"currentState,omitempty"`
	FutureState  string `json:"futureState,omitempty"`
	Solution     string `json:"solution,omitempty"`
	Benefits     string `json:"benefits,omitempty"`
}

// UseCaseImpact quantifies the expected impact of an AI use case.
type UseCaseImpact struct {
	ImpactPoints []string `json:"impactPoints,omitempty"`
	CostSaving   float64  `json:"costSaving,omitempty"`
	EffortMonths float64  `json:"effortMonths,omitempty"`
}

// UseCaseExecution captures delivery assessments for an AI use case.
type UseCaseExecution struct {
	FunctionsImpacted []string            `json:"functionsImpacted,omitempty"`
	DataRequirements  string              `json:"dataRequirements,omitempty"`
	AIComplexity      types.MaturityLevel `json:"aiComplexity,omitempty"`
	Feasibility       types.MaturityLevel `json:"feasibility,omitempty"`
	Value             types.MaturityLevel `json:"value,omitempty"`
	Risk              types.MaturityLevel `json:"risk,omitempty"`
}

// UseCase is an AI initiative record that can be associated with risks for
// impact tracking. RiskCount is derived from RelatedRiskIDs on read.
type UseCase struct {
	ID           types.UseCaseID `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	BusinessArea string          `json:"businessArea,omitempty"`
	AICategories []string        `json:"aiCategories,omitempty"`

	Objective UseCaseObjective `json:"objective,omitempty"`
	Impact    UseCaseImpact    `json:"impact,omitempty"`
	Execution UseCaseExecution `json:"execution,omitempty"`

	Status       string   `json:"status,omitempty"`
	Owner        string   `json:"owner,omitempty"`
	Stakeholders []string `json:"stakeholders,omitempty"`
	Notes        string   `json:"notes,omitempty"`

	RelatedRiskIDs []types.RiskID `json:"relatedRiskIds"`
	RiskCount      int            `json:"riskCount"`

	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Clone returns a deep copy of the use case.
func (u *UseCase) Clone() *UseCase {
	copied := *u
	copied.AICategories = append([]string(nil), u.AICategories...)
	copied.Impact.ImpactPoints = append([]string(nil), u.Impact.ImpactPoints...)
	copied.Execution.FunctionsImpacted = append([]string(nil), u.Execution.FunctionsImpacted...)
	copied.Stakeholders = append([]string(nil), u.Stakeholders...)
	copied.RelatedRiskIDs = append([]types.RiskID(nil), u.RelatedRiskIDs...)
	return &copied
}

// UseCaseInput is the payload for creating a use case. The server assigns
// the UC-### ID and timestamps; status defaults to Concept.
type UseCaseInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	BusinessArea string   `json:"businessArea,omitempty"`
	AICategories []string `json:"aiCategories,omitempty"`

	Objective UseCaseObjective `json:"objective,omitempty"`
	Impact    UseCaseImpact    `json:"impact,omitempty"`
	Execution UseCaseExecution `json:"execution,omitempty"`

	Status       string   `json:"status,omitempty"`
	Owner        string   `json:"owner,omitempty"`
	Stakeholders []string `json:"stakeholders,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// Validate checks required fields of a use case input.
func (in *UseCaseInput) Validate() error {
	var msgs []string
	if in.Title == "" {
		msgs = append(msgs, "Title is required")
	}
	for _, level := range []types.MaturityLevel{in.Execution.AIComplexity, in.Execution.Feasibility, in.Execution.Value, in.Execution.Risk} {
		if level != "" {
			if err := level.Validate(); err != nil {
				msgs = append(msgs, "Execution levels must be Low, Medium or High")
				break
			}
		}
	}
	return newValidationError(msgs)
}

// UseCaseUpdateInput is a partial update payload for a use case.
type UseCaseUpdateInput struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	BusinessArea *string  `json:"businessArea,omitempty"`
	AICategories []string `json:"aiCategories,omitempty"`

	Objective *UseCaseObjective `json:"objective,omitempty"`
	Impact    *UseCaseImpact    `json:"impact,omitempty"`
	Execution *UseCaseExecution `json:"execution,omitempty"`

	Status       *string  `json:"status,omitempty"`
	Owner        *string  `json:"owner,omitempty"`
	Stakeholders []string `json:"stakeholders,omitempty"`
	Notes        *string  `json:"notes,omitempty"`

	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// Validate checks the supplied fields of a partial update.
func (in *UseCaseUpdateInput) Validate() error {
	var msgs []string
	if in.Title != nil && *in.Title == "" {
		msgs = append(msgs, "Title cannot be empty")
	}
	return newValidationError(msgs)
}

// Apply merges the update into the use case.
func (in *UseCaseUpdateInput) Apply(u *UseCase) {
	if in.Title != nil {
		u.Title = *in.Title
	}
	if in.Description != nil {
		u.Description = *in.Description
	}
	if in.BusinessArea != nil {
		u.BusinessArea = *in.BusinessArea
	}
	if in.AICategories != nil {
		u.AICategories = append([]string(nil), in.AICategories...)
	}
	if in.Objective != nil {
		u.Objective = *in.Objective
	}
	if in.Impact != nil {
		u.Impact = *in.Impact
	}
	if in.Execution != nil {
		u.Execution = *in.Execution
	}
	if in.Status != nil {
		u.Status = *in.Status
	}
	if in.Owner != nil {
		u.Owner = *in.Owner
	}
	if in.Stakeholders != nil {
		u.Stakeholders = append([]string(nil), in.Stakeholders...)
	}
	if in.Notes != nil {
		u.Notes = *in.Notes
	}
}
