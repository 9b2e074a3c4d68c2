package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// UseCaseID represents a unique identifier for an AI use case, e.g. "UC-001".
// The numeric suffix is assigned by the repository counter.
type UseCaseID string

var useCaseIDPattern = regexp.MustCompile(`^UC-\d{3,}$`)

// Validate checks if the UseCaseID is valid
func (u UseCaseID) Validate() error {
	if u == "" {
		return goerr.New("use case ID cannot be empty")
	}
	if !useCaseIDPattern.MatchString(string(u)) {
		return goerr.New("use case ID must match pattern like UC-001", goerr.V("id", u))
	}
	return nil
}

// String returns the string representation of UseCaseID
func (u UseCaseID) String() string {
	return string(u)
}

// MaturityLevel is a Low/Medium/High rating used for use case complexity,
// feasibility, value and risk assessments.
type MaturityLevel string

const (
	MaturityLow    MaturityLevel = "Low"
	MaturityMedium MaturityLevel = "Medium"
	MaturityHigh   MaturityLevel = "High"
)

// Validate checks if the MaturityLevel is one of Low/Medium/High
func (m MaturityLevel) Validate() error {
	switch m {
	case MaturityLow, MaturityMedium, MaturityHigh:
		return nil
	}
	return goerr.New("level must be Low, Medium or High", goerr.V("level", m))
}

// String returns the string representation of MaturityLevel
func (m MaturityLevel) String() string {
	return string(m)
}
