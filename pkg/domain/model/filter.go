package model

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

// RiskFilter is a structured set of optional predicates applied
// conjunctively to a risk list. Zero values mean "no constraint".
type RiskFilter struct {
	Categories         []types.RiskCategory      `json:"categories,omitempty"`
	RiskLevels         []types.RiskLevelCategory `json:"riskLevels,omitempty"`
	MinInitialScore    int                       `json:"minInitialScore,omitempty"`
	MaxInitialScore    int                       `json:"maxInitialScore,omitempty"`
	MinResidualScore   int                       `json:"minResidualScore,omitempty"`
	MaxResidualScore   int                       `json:"maxResidualScore,omitempty"`
	HasAgreedMitigation *bool                    `json:"hasAgreedMitigation,omitempty"`
	OversightOwnership []string                  `json:"oversightOwnership,omitempty"`
}

// Match reports whether the risk satisfies every specified predicate.
// The level predicate holds when either the initial or residual category
// is listed.
func (f *RiskFilter) Match(r *Risk) bool {
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, r.RiskCategory) {
		return false
	}
	if len(f.RiskLevels) > 0 {
		hasInitial := slices.Contains(f.RiskLevels, r.InitialScoring.RiskLevelCategory)
		hasResidual := slices.Contains(f.RiskLevels, r.ResidualScoring.RiskLevelCategory)
		if !hasInitial && !hasResidual {
			return false
		}
	}
	if f.MinInitialScore > 0 && r.InitialScoring.RiskLevel < f.MinInitialScore {
		return false
	}
	if f.MaxInitialScore > 0 && r.InitialScoring.RiskLevel > f.MaxInitialScore {
		return false
	}
	if f.MinResidualScore > 0 && r.ResidualScoring.RiskLevel < f.MinResidualScore {
		return false
	}
	if f.MaxResidualScore > 0 && r.ResidualScoring.RiskLevel > f.MaxResidualScore {
		return false
	}
	if f.HasAgreedMitigation != nil && *f.HasAgreedMitigation != (r.AgreedMitigation != "") {
		return false
	}
	if len(f.OversightOwnership) > 0 {
		matched := false
		for _, want := range f.OversightOwnership {
			for _, owner := range r.ProposedOversightOwnership {
				if strings.EqualFold(owner, want) {
					matched = true
					break
				}
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// searchText concatenates the searchable text fields of a risk.
func (r *Risk) searchText() string {
	parts := []string{
		r.Risk,
		r.RiskDescription,
		r.RiskCategory.String(),
		r.AgreedMitigation,
		r.ExampleMitigations,
	}
	parts = append(parts, r.ProposedOversightOwnership...)
	parts = append(parts, r.ProposedSupport...)
	parts = append(parts, r.Notes)
	return strings.ToLower(strings.Join(parts, " "))
}

// ApplyRiskFilter returns the risks matching the filter and the
// case-insensitive search term, preserving input order.
func ApplyRiskFilter(risks []*Risk, filter *RiskFilter, searchTerm string) []*Risk {
	term := strings.ToLower(searchTerm)
	result := make([]*Risk, 0, len(risks))
	for _, r := range risks {
		if filter != nil && !filter.Match(r) {
			continue
		}
		if term != "" && !strings.Contains(r.searchText(), term) {
			continue
		}
		result = append(result, r)
	}
	return result
}

// RiskSort declares the ordering of a risk list.
type RiskSort struct {
	Field     types.RiskSortField `json:"field"`
	Direction types.SortDirection `json:"direction"`
}

// SortRisks returns a stably sorted copy of the risk list. String fields
// use locale-aware comparison, numeric fields use numeric difference.
func SortRisks(risks []*Risk, by RiskSort) []*Risk {
	sorted := make([]*Risk, len(risks))
	copy(sorted, risks)

	coll := collate.New(language.English)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		var cmp int
		switch by.Field {
		case types.RiskSortByCategory:
			cmp = coll.CompareString(a.RiskCategory.String(), b.RiskCategory.String())
		case types.RiskSortByInitialLevel:
			cmp = a.InitialScoring.RiskLevel - b.InitialScoring.RiskLevel
		case types.RiskSortByResidualLevel:
			cmp = a.ResidualScoring.RiskLevel - b.ResidualScoring.RiskLevel
		case types.RiskSortByReduction:
			cmp = a.RiskReduction - b.RiskReduction
		default:
			cmp = coll.CompareString(a.Risk, b.Risk)
		}
		if by.Direction == types.SortDescending {
			return cmp > 0
		}
		return cmp < 0
	})
	return sorted
}

// ComplianceFilter selects controls having a non-empty value for the
// flagged compliance frameworks.
type ComplianceFilter struct {
	CFRPart11 bool `json:"cfrPart11,omitempty"`
	HIPAA     bool `json:"hipaa,omitempty"`
	GDPR      bool `json:"gdpr,omitempty"`
	EUAIAct   bool `json:"euAiAct,omitempty"`
	NIST      bool `json:"nist,omitempty"`
	SOC2      bool `json:"soc2,omitempty"`
}

// ControlFilter is a structured set of optional predicates applied
// conjunctively to a control list.
type ControlFilter struct {
	Categories           []types.ControlCategory      `json:"categories,omitempty"`
	ImplementationStatus []types.ImplementationStatus `json:"implementationStatus,omitempty"`
	Effectiveness        []types.ControlEffectiveness `json:"effectiveness,omitempty"`
	HasCompliance        *ComplianceFilter            `json:"hasCompliance,omitempty"`
	RelatedToRisk        types.RiskID                 `json:"relatedToRisk,omitempty"`
}

// Match reports whether the control satisfies every specified predicate.
func (f *ControlFilter) Match(c *Control) bool {
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, c.Category) {
		return false
	}
	if len(f.ImplementationStatus) > 0 && !slices.Contains(f.ImplementationStatus, c.ImplementationStatus) {
		return false
	}
	if len(f.Effectiveness) > 0 && !slices.Contains(f.Effectiveness, c.Effectiveness) {
		return false
	}
	if f.HasCompliance != nil {
		hc := f.HasCompliance
		if hc.CFRPart11 && c.Compliance.CFRPart11Annex11 == "" {
			return false
		}
		if hc.HIPAA && c.Compliance.HIPAASafeguard == "" {
			return false
		}
		if hc.GDPR && c.Compliance.GDPRArticle == "" {
			return false
		}
		if hc.EUAIAct && c.Compliance.EUAIActArticle == "" {
			return false
		}
		if hc.NIST && c.Compliance.NIST80053 == "" {
			return false
		}
		if hc.SOC2 && c.Compliance.SOC2TSC == "" {
			return false
		}
	}
	if f.RelatedToRisk != "" && !slices.Contains(c.RelatedRiskIDs, f.RelatedToRisk) {
		return false
	}
	return true
}

// searchText concatenates the searchable text fields of a control.
func (c *Control) searchText() string {
	parts := []string{
		c.MitigationID.String(),
		c.MitigationDescription,
		c.Category.String(),
		c.ImplementationNotes,
		c.Compliance.CFRPart11Annex11,
		c.Compliance.HIPAASafeguard,
		c.Compliance.GDPRArticle,
		c.Compliance.EUAIActArticle,
		c.Compliance.NIST80053,
		c.Compliance.SOC2TSC,
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// ApplyControlFilter returns the controls matching the filter and the
// case-insensitive search term, preserving input order.
func ApplyControlFilter(controls []*Control, filter *ControlFilter, searchTerm string) []*Control {
	term := strings.ToLower(searchTerm)
	result := make([]*Control, 0, len(controls))
	for _, c := range controls {
		if filter != nil && !filter.Match(c) {
			continue
		}
		if term != "" && !strings.Contains(c.searchText(), term) {
			continue
		}
		result = append(result, c)
	}
	return result
}

// ControlSort declares the ordering of a control list.
type ControlSort struct {
	Field     types.ControlSortField `json:"field"`
	Direction types.SortDirection    `json:"direction"`
}

// SortControls returns a stably sorted copy of the control list.
func SortControls(controls []*Control, by ControlSort) []*Control {
	sorted := make([]*Control, len(controls))
	copy(sorted, controls)

	coll := collate.New(language.English)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		var cmp int
		switch by.Field {
		case types.ControlSortByCategory:
			cmp = coll.CompareString(a.Category.String(), b.Category.String())
		case types.ControlSortByStatus:
			cmp = coll.CompareString(statusOrDefault(a), statusOrDefault(b))
		case types.ControlSortByEffectiveness:
			cmp = coll.CompareString(effectivenessOrDefault(a), effectivenessOrDefault(b))
		default:
			cmp = coll.CompareString(a.MitigationID.String(), b.MitigationID.String())
		}
		if by.Direction == types.SortDescending {
			return cmp > 0
		}
		return cmp < 0
	})
	return sorted
}

func statusOrDefault(c *Control) string {
	if c.ImplementationStatus == "" {
		return types.StatusNotStarted.String()
	}
	return c.ImplementationStatus.String()
}

func effectivenessOrDefault(c *Control) string {
	if c.Effectiveness == "" {
		return types.ControlEffectivenessNotAssessed.String()
	}
	return c.Effectiveness.String()
}

// UseCaseFilter selects AI use cases. All fields are optional and
// combined conjunctively; Search matches title, description and ID.
type UseCaseFilter struct {
	BusinessArea string `json:"businessArea,omitempty"`
	AICategory   string `json:"aiCategory,omitempty"`
	Status       string `json:"status,omitempty"`
	Owner        string `json:"owner,omitempty"`
	Search       string `json:"search,omitempty"`
}

// Match reports whether the use case satisfies every specified predicate.
func (f *UseCaseFilter) Match(u *UseCase) bool {
	if f.BusinessArea != "" && u.BusinessArea != f.BusinessArea {
		return false
	}
	if f.AICategory != "" && !slices.Contains(u.AICategories, f.AICategory) {
		return false
	}
	if f.Status != "" && u.Status != f.Status {
		return false
	}
	if f.Owner != "" && u.Owner != f.Owner {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(u.Title), term) &&
			!strings.Contains(strings.ToLower(u.Description), term) &&
			!strings.Contains(strings.ToLower(u.ID.String()), term) {
			return false
		}
	}
	return true
}

// ApplyUseCaseFilter returns the use cases matching the filter,
// preserving input order.
func ApplyUseCaseFilter(useCases []*UseCase, filter *UseCaseFilter) []*UseCase {
	if filter == nil {
		return append([]*UseCase(nil), useCases...)
	}
	result := make([]*UseCase, 0, len(useCases))
	for _, u := range useCases {
		if filter.Match(u) {
			result = append(result, u)
		}
	}
	return result
}

// UseCaseSort declares the ordering of a use case list.
type UseCaseSort struct {
	Field     types.UseCaseSortField `json:"field"`
	Direction types.SortDirection    `json:"direction"`
}

// SortUseCases returns a stably sorted copy of the use case list.
func SortUseCases(useCases []*UseCase, by UseCaseSort) []*UseCase {
	sorted := make([]*UseCase, len(useCases))
	copy(sorted, useCases)

	coll := collate.New(language.English)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		var cmp int
		switch by.Field {
		case types.UseCaseSortByTitle:
			cmp = coll.CompareString(a.Title, b.Title)
		case types.UseCaseSortByStatus:
			cmp = coll.CompareString(a.Status, b.Status)
		default:
			cmp = strings.Compare(a.ID.String(), b.ID.String())
		}
		if by.Direction == types.SortDescending {
			return cmp > 0
		}
		return cmp < 0
	})
	return sorted
}
