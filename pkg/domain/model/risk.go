package model

import (
	"time"

	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

// Risk is a tracked hazard with an initial and residual likelihood/impact
// assessment. Derived fields (RiskReduction, RiskReductionPercentage,
// MitigationEffectiveness and the scoring categories) are recomputed on
// every write and never trusted from callers.
type Risk struct {
	ID              types.RiskID       `json:"id"`
	RiskCategory    types.RiskCategory `json:"riskCategory"`
	Risk            string             `json:"risk"`
	RiskDescription string             `json:"riskDescription"`

	InitialScoring  Scoring `json:"initialScoring"`
	ResidualScoring Scoring `json:"residualScoring"`

	RiskReduction           int                           `json:"riskReduction"`
	RiskReductionPercentage int                           `json:"riskReductionPercentage"`
	MitigationEffectiveness types.MitigationEffectiveness `json:"mitigationEffectiveness"`

	AgreedMitigation   string `json:"agreedMitigation"`
	ExampleMitigations string `json:"exampleMitigations"`
	Notes              string `json:"notes"`

	ProposedOversightOwnership []string `json:"proposedOversightOwnership"`
	ProposedSupport            []string `json:"proposedSupport"`

	RelatedControlIDs []types.ControlID `json:"relatedControlIds"`

	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Recompute re-derives every calculated field from the scoring inputs.
func (r *Risk) Recompute() {
	r.InitialScoring.RiskLevel = r.InitialScoring.Likelihood * r.InitialScoring.Impact
	r.InitialScoring.RiskLevelCategory = types.RiskLevelCategoryFromScore(r.InitialScoring.RiskLevel)
	r.ResidualScoring.RiskLevel = r.ResidualScoring.Likelihood * r.ResidualScoring.Impact
	r.ResidualScoring.RiskLevelCategory = types.RiskLevelCategoryFromScore(r.ResidualScoring.RiskLevel)

	r.RiskReduction = RiskReduction(r.InitialScoring, r.ResidualScoring)
	r.RiskReductionPercentage = RiskReductionPercentage(r.InitialScoring, r.ResidualScoring)
	r.MitigationEffectiveness = CalculateMitigationEffectiveness(r.InitialScoring, r.ResidualScoring)
}

// Clone returns a deep copy of the risk.
func (r *Risk) Clone() *Risk {
	copied := *r
	copied.ProposedOversightOwnership = append([]string(nil), r.ProposedOversightOwnership...)
	copied.ProposedSupport = append([]string(nil), r.ProposedSupport...)
	copied.RelatedControlIDs = append([]types.ControlID(nil), r.RelatedControlIDs...)
	return &copied
}

// ScoringInput is a raw likelihood/impact pair supplied by a caller.
type ScoringInput struct {
	Likelihood int `json:"likelihood"`
	Impact     int `json:"impact"`
}

func (s ScoringInput) inRange() bool {
	return s.Likelihood >= 1 && s.Likelihood <= 5 && s.Impact >= 1 && s.Impact <= 5
}

// RiskInput is the payload for creating a risk. The server assigns the ID
// and timestamps and derives all computed fields.
type RiskInput struct {
	RiskCategory    types.RiskCategory `json:"riskCategory"`
	Risk            string             `json:"risk"`
	RiskDescription string             `json:"riskDescription"`

	InitialScoring  ScoringInput `json:"initialScoring"`
	ResidualScoring ScoringInput `json:"residualScoring"`

	AgreedMitigation   string `json:"agreedMitigation"`
	ExampleMitigations string `json:"exampleMitigations"`
	Notes              string `json:"notes"`

	ProposedOversightOwnership []string `json:"proposedOversightOwnership"`
	ProposedSupport            []string `json:"proposedSupport"`
}

// Validate checks required fields and scoring ranges, collecting every
// failure into one ValidationError.
func (in *RiskInput) Validate() error {
	var msgs []string
	if in.Risk == "" {
		msgs = append(msgs, "Risk name is required")
	}
	if in.RiskCategory == "" {
		msgs = append(msgs, "Risk category is required")
	} else if err := in.RiskCategory.Validate(); err != nil {
		msgs = append(msgs, "Risk category is not a known category")
	}
	if in.RiskDescription == "" {
		msgs = append(msgs, "Risk description is required")
	}
	if !in.InitialScoring.inRange() {
		msgs = append(msgs, "Initial likelihood and impact must be between 1 and 5")
	}
	if !in.ResidualScoring.inRange() {
		msgs = append(msgs, "Residual likelihood and impact must be between 1 and 5")
	}
	return newValidationError(msgs)
}

// RiskUpdateInput is a partial update payload. Nil fields are left
// unchanged. LastUpdated, when set, must match the stored entity or the
// update is rejected as a conflict.
type RiskUpdateInput struct {
	RiskCategory    *types.RiskCategory `json:"riskCategory,omitempty"`
	Risk            *string             `json:"risk,omitempty"`
	RiskDescription *string             `json:"riskDescription,omitempty"`

	InitialScoring  *ScoringInput `json:"initialScoring,omitempty"`
	ResidualScoring *ScoringInput `json:"residualScoring,omitempty"`

	AgreedMitigation   *string `json:"agreedMitigation,omitempty"`
	ExampleMitigations *string `json:"exampleMitigations,omitempty"`
	Notes              *string `json:"notes,omitempty"`

	ProposedOversightOwnership []string `json:"proposedOversightOwnership,omitempty"`
	ProposedSupport            []string `json:"proposedSupport,omitempty"`

	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// Validate checks the supplied fields of a partial update.
func (in *RiskUpdateInput) Validate() error {
	var msgs []string
	if in.Risk != nil && *in.Risk == "" {
		msgs = append(msgs, "Risk name cannot be empty")
	}
	if in.RiskCategory != nil {
		if err := in.RiskCategory.Validate(); err != nil {
			msgs = append(msgs, "Risk category is not a known category")
		}
	}
	if in.RiskDescription != nil && *in.RiskDescription == "" {
		msgs = append(msgs, "Risk description cannot be empty")
	}
	if in.InitialScoring != nil && !in.InitialScoring.inRange() {
		msgs = append(msgs, "Initial likelihood and impact must be between 1 and 5")
	}
	if in.ResidualScoring != nil && !in.ResidualScoring.inRange() {
		msgs = append(msgs, "Residual likelihood and impact must be between 1 and 5")
	}
	return newValidationError(msgs)
}

// Apply merges the update into the risk and recomputes derived fields.
func (in *RiskUpdateInput) Apply(r *Risk) {
	if in.RiskCategory != nil {
		r.RiskCategory = *in.RiskCategory
	}
	if in.Risk != nil {
		r.Risk = *in.Risk
	}
	if in.RiskDescription != nil {
		r.RiskDescription = *in.RiskDescription
	}
	if in.InitialScoring != nil {
		r.InitialScoring.Likelihood = in.InitialScoring.Likelihood
		r.InitialScoring.Impact = in.InitialScoring.Impact
	}
	if in.ResidualScoring != nil {
		r.ResidualScoring.Likelihood = in.ResidualScoring.Likelihood
		r.ResidualScoring.Impact = in.ResidualScoring.Impact
	}
	if in.AgreedMitigation != nil {
		r.AgreedMitigation = *in.AgreedMitigation
	}
	if in.ExampleMitigations != nil {
		r.ExampleMitigations = *in.ExampleMitigations
	}
	if in.Notes != nil {
		r.Notes = *in.Notes
	}
	if in.ProposedOversightOwnership != nil {
		r.ProposedOversightOwnership = append([]string(nil), in.ProposedOversightOwnership...)
	}
	if in.ProposedSupport != nil {
		r.ProposedSupport = append([]string(nil), in.ProposedSupport...)
	}
	r.Recompute()
}
