package types

import (
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// RiskID represents a unique identifier for a risk. Risk IDs are derived
// from the risk name, e.g. "Sensitive Information Leakage" becomes
// "RISK-SENSITIVE-INFORMATION-LEAKAGE".
type RiskID string

var riskIDPattern = regexp.MustCompile(`^RISK-[A-Z0-9]+(-[A-Z0-9]+)*$`)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// NewRiskID derives a RiskID from a risk name.
func NewRiskID(name string) (RiskID, error) {
	sanitized := nonAlphanumeric.ReplaceAllString(strings.TrimSpace(name), "")
	sanitized = strings.Join(strings.Fields(sanitized), "-")
	if sanitized == "" {
		return "", goerr.New("risk name must contain at least one alphanumeric character", goerr.V("name", name))
	}
	return RiskID("RISK-" + strings.ToUpper(sanitized)), nil
}

// Validate checks if the RiskID is valid
func (r RiskID) Validate() error {
	if r == "" {
		return goerr.New("risk ID cannot be empty")
	}
	if !riskIDPattern.MatchString(string(r)) {
		return goerr.New("risk ID must be RISK- followed by uppercase alphanumeric segments", goerr.V("id", r))
	}
	return nil
}

// String returns the string representation of RiskID
func (r RiskID) String() string {
	return string(r)
}

// RiskCategory represents one of the fixed risk categories
type RiskCategory string

const (
	CategoryBehavioral    RiskCategory = "Behavioral Risks"
	CategoryTransparency  RiskCategory = "Transparency Risks"
	CategorySecurityData  RiskCategory = "Security and Data Risks"
	CategoryOther         RiskCategory = "Other Risks"
	CategoryBusinessCost  RiskCategory = "Business/Cost Related Risks"
	CategoryAIHumanImpact RiskCategory = "AI Human Impact Risks"
)

// RiskCategories returns all valid risk categories
func RiskCategories() []RiskCategory {
	return []RiskCategory{
		CategoryBehavioral,
		CategoryTransparency,
		CategorySecurityData,
		CategoryOther,
		CategoryBusinessCost,
		CategoryAIHumanImpact,
	}
}

// Validate checks if the RiskCategory is one of the fixed enumeration
func (c RiskCategory) Validate() error {
	for _, v := range RiskCategories() {
		if c == v {
			return nil
		}
	}
	return goerr.New("invalid risk category", goerr.V("category", c))
}

// String returns the string representation of RiskCategory
func (c RiskCategory) String() string {
	return string(c)
}

// RiskLevelCategory classifies a risk score into Low/Medium/High/Critical
type RiskLevelCategory string

const (
	LevelLow      RiskLevelCategory = "Low"
	LevelMedium   RiskLevelCategory = "Medium"
	LevelHigh     RiskLevelCategory = "High"
	LevelCritical RiskLevelCategory = "Critical"
)

// RiskLevelCategories returns all level categories in ascending severity
func RiskLevelCategories() []RiskLevelCategory {
	return []RiskLevelCategory{LevelLow, LevelMedium, LevelHigh, LevelCritical}
}

// RiskLevelCategoryFromScore maps a risk score (1-25) to its category.
// Thresholds are inclusive lower bounds: 16 Critical, 11 High, 6 Medium.
func RiskLevelCategoryFromScore(score int) RiskLevelCategory {
	switch {
	case score >= 16:
		return LevelCritical
	case score >= 11:
		return LevelHigh
	case score >= 6:
		return LevelMedium
	default:
		return LevelLow
	}
}

// String returns the string representation of RiskLevelCategory
func (l RiskLevelCategory) String() string {
	return string(l)
}

// MitigationEffectiveness rates how well mitigations reduce a risk
type MitigationEffectiveness string

const (
	EffectivenessHigh   MitigationEffectiveness = "High"
	EffectivenessMedium MitigationEffectiveness = "Medium"
	EffectivenessLow    MitigationEffectiveness = "Low"
)

// String returns the string representation of MitigationEffectiveness
func (e MitigationEffectiveness) String() string {
	return string(e)
}
