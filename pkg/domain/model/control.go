package model

import (
	"time"

	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

// Compliance maps a control to regulatory references. Empty strings mean
// the control has no mapping for that framework.
type Compliance struct {
	CFRPart11Annex11 string `json:"cfrPart11Annex11"`
	HIPAASafeguard   string `json:"hipaaSafeguard"`
	GDPRArticle      string `json:"gdprArticle"`
	EUAIActArticle   string `json:"euAiActArticle"`
	NIST80053        string `json:"nist80053"`
	SOC2TSC          string `json:"soc2TSC"`
}

// Control is a mitigating measure linked to one or more risks and mapped
// to regulatory compliance references.
type Control struct {
	MitigationID          types.ControlID            `json:"mitigationID"`
	MitigationDescription string                     `json:"mitigationDescription"`
	Category              types.ControlCategory      `json:"category"`
	Compliance            Compliance                 `json:"compliance"`
	ImplementationStatus  types.ImplementationStatus `json:"implementationStatus"`
	ImplementationNotes   string                     `json:"implementationNotes,omitempty"`
	Effectiveness         types.ControlEffectiveness `json:"effectiveness"`
	ComplianceScore       *float64                   `json:"complianceScore,omitempty"`

	RelatedRiskIDs []types.RiskID `json:"relatedRiskIds"`

	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Clone returns a deep copy of the control.
func (c *Control) Clone() *Control {
	copied := *c
	copied.RelatedRiskIDs = append([]types.RiskID(nil), c.RelatedRiskIDs...)
	if c.ComplianceScore != nil {
		score := *c.ComplianceScore
		copied.ComplianceScore = &score
	}
	return &copied
}

// ControlInput is the payload for creating a control. The caller supplies
// the category-prefixed MitigationID; the server assigns timestamps.
type ControlInput struct {
	MitigationID          types.ControlID            `json:"mitigationID"`
	MitigationDescription string                     `json:"mitigationDescription"`
	Category              types.ControlCategory      `json:"category"`
	Compliance            Compliance                 `json:"compliance"`
	ImplementationStatus  types.ImplementationStatus `json:"implementationStatus,omitempty"`
	ImplementationNotes   string                     `json:"implementationNotes,omitempty"`
	Effectiveness         types.ControlEffectiveness `json:"effectiveness,omitempty"`
	ComplianceScore       *float64                   `json:"complianceScore,omitempty"`
}

// Validate checks required fields, the ID pattern, and enumeration
// membership, collecting every failure.
func (in *ControlInput) Validate() error {
	var msgs []string
	if in.MitigationID == "" {
		msgs = append(msgs, "Control ID is required")
	} else if err := in.MitigationID.Validate(); err != nil {
		msgs = append(msgs, "Control ID must match a pattern like ACC-01")
	}
	if in.MitigationDescription == "" {
		msgs = append(msgs, "Control description is required")
	}
	if in.Category == "" {
		msgs = append(msgs, "Control category is required")
	} else if err := in.Category.Validate(); err != nil {
		msgs = append(msgs, "Control category is not a known category")
	}
	if in.ImplementationStatus != "" {
		if err := in.ImplementationStatus.Validate(); err != nil {
			msgs = append(msgs, "Implementation status is not a known status")
		}
	}
	if in.Effectiveness != "" {
		if err := in.Effectiveness.Validate(); err != nil {
			msgs = append(msgs, "Effectiveness is not a known rating")
		}
	}
	if in.ComplianceScore != nil && (*in.ComplianceScore < 0 || *in.ComplianceScore > 1) {
		msgs = append(msgs, "Compliance score must be between 0 and 1")
	}
	return newValidationError(msgs)
}

// ControlUpdateInput is a partial update payload for a control.
type ControlUpdateInput struct {
	MitigationDescription *string                     `json:"mitigationDescription,omitempty"`
	Category              *types.ControlCategory      `json:"category,omitempty"`
	Compliance            *Compliance                 `json:"compliance,omitempty"`
	ImplementationStatus  *types.ImplementationStatus `json:"implementationStatus,omitempty"`
	ImplementationNotes   *string                     `json:"implementationNotes,omitempty"`
	Effectiveness         *types.ControlEffectiveness `json:"effectiveness,omitempty"`
	ComplianceScore       *float64                    `json:"complianceScore,omitempty"`

	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// Validate checks the supplied fields of a partial update.
func (in *ControlUpdateInput) Validate() error {
	var msgs []string
	if in.MitigationDescription != nil && *in.MitigationDescription == "" {
		msgs = append(msgs, "Control description cannot be empty")
	}
	if in.Category != nil {
		if err := in.Category.Validate(); err != nil {
			msgs = append(msgs, "Control category is not a known category")
		}
	}
	if in.ImplementationStatus != nil {
		if err := in.ImplementationStatus.Validate(); err != nil {
			msgs = append(msgs, "Implementation status is not a known status")
		}
	}
	if in.Effectiveness != nil {
		if err := in.Effectiveness.Validate(); err != nil {
			msgs = append(msgs, "Effectiveness is not a known rating")
		}
	}
	if in.ComplianceScore != nil && (*in.ComplianceScore < 0 || *in.ComplianceScore > 1) {
		msgs = append(msgs, "Compliance score must be between 0 and 1")
	}
	return newValidationError(msgs)
}

// Apply merges the update into the control.
func (in *ControlUpdateInput) Apply(c *Control) {
	if in.MitigationDescription != nil {
		c.MitigationDescription = *in.MitigationDescription
	}
	if in.Category != nil {
		c.Category = *in.Category
	}
	if in.Compliance != nil {
		c.Compliance = *in.Compliance
	}
	if in.ImplementationStatus != nil {
		c.ImplementationStatus = *in.ImplementationStatus
	}
	if in.ImplementationNotes != nil {
		c.ImplementationNotes = *in.ImplementationNotes
	}
	if in.Effectiveness != nil {
		c.Effectiveness = *in.Effectiveness
	}
	if in.ComplianceScore != nil {
		score := *in.ComplianceScore
		c.ComplianceScore = &score
	}
}
