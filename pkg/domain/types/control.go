package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// ControlID represents a unique identifier for a control, e.g. "ACC-01".
// The prefix encodes the control category.
type ControlID string

var controlIDPattern = regexp.MustCompile(`^(ACC|SEC|LOG|GOV|TEST)-\d{2}$`)

// Validate checks if the ControlID matches the category-prefixed pattern
func (c ControlID) Validate() error {
	if c == "" {
		return goerr.New("control ID cannot be empty")
	}
	if !controlIDPattern.MatchString(string(c)) {
		return goerr.New("control ID must match pattern like ACC-01, SEC-02, LOG-03, GOV-04", goerr.V("id", c))
	}
	return nil
}

// String returns the string representation of ControlID
func (c ControlID) String() string {
	return string(c)
}

// ControlCategory represents one of the fixed control categories
type ControlCategory string

const (
	ControlCategoryAccuracy     ControlCategory = "Accuracy & Judgment"
	ControlCategorySecurity     ControlCategory = "Security & Data Privacy"
	ControlCategoryAudit        ControlCategory = "Audit & Traceability"
	ControlCategoryGovernance   ControlCategory = "Governance & Compliance"
)

// ControlCategories returns all valid control categories
func ControlCategories() []ControlCategory {
	return []ControlCategory{
		ControlCategoryAccuracy,
		ControlCategorySecurity,
		ControlCategoryAudit,
		ControlCategoryGovernance,
	}
}

// Validate checks if the ControlCategory is one of the fixed enumeration
func (c ControlCategory) Validate() error {
	for _, v := range ControlCategories() {
		if c == v {
			return nil
		}
	}
	return goerr.New("invalid control category", goerr.V("category", c))
}

// String returns the string representation of ControlCategory
func (c ControlCategory) String() string {
	return string(c)
}

// ImplementationStatus tracks the rollout state of a control
type ImplementationStatus string

const (
	StatusImplemented ImplementationStatus = "Implemented"
	StatusInProgress  ImplementationStatus = "In Progress"
	StatusPlanned     ImplementationStatus = "Planned"
	StatusNotStarted  ImplementationStatus = "Not Started"
)

// ImplementationStatuses returns all valid implementation statuses
func ImplementationStatuses() []ImplementationStatus {
	return []ImplementationStatus{StatusImplemented, StatusInProgress, StatusPlanned, StatusNotStarted}
}

// Validate checks if the ImplementationStatus is one of the fixed enumeration
func (s ImplementationStatus) Validate() error {
	for _, v := range ImplementationStatuses() {
		if s == v {
			return nil
		}
	}
	return goerr.New("invalid implementation status", goerr.V("status", s))
}

// String returns the string representation of ImplementationStatus
func (s ImplementationStatus) String() string {
	return string(s)
}

// ControlEffectiveness rates an assessed control
type ControlEffectiveness string

const (
	ControlEffectivenessHigh        ControlEffectiveness = "High"
	ControlEffectivenessMedium      ControlEffectiveness = "Medium"
	ControlEffectivenessLow         ControlEffectiveness = "Low"
	ControlEffectivenessNotAssessed ControlEffectiveness = "Not Assessed"
)

// ControlEffectivenessValues returns all valid control effectiveness ratings
func ControlEffectivenessValues() []ControlEffectiveness {
	return []ControlEffectiveness{
		ControlEffectivenessHigh,
		ControlEffectivenessMedium,
		ControlEffectivenessLow,
		ControlEffectivenessNotAssessed,
	}
}

// Validate checks if the ControlEffectiveness is one of the fixed enumeration
func (e ControlEffectiveness) Validate() error {
	for _, v := range ControlEffectivenessValues() {
		if e == v {
			return nil
		}
	}
	return goerr.New("invalid control effectiveness", goerr.V("effectiveness", e))
}

// String returns the string representation of ControlEffectiveness
func (e ControlEffectiveness) String() string {
	return string(e)
}
