package types

import "github.com/m-mizutani/goerr/v2"

// SortDirection is the ordering direction of a sorted view
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// Validate checks if the SortDirection is asc or desc
func (d SortDirection) Validate() error {
	if d != SortAscending && d != SortDescending {
		return goerr.New("sort direction must be asc or desc", goerr.V("direction", d))
	}
	return nil
}

// RiskSortField declares the field a risk list is ordered by
type RiskSortField string

const (
	RiskSortByName          RiskSortField = "risk"
	RiskSortByCategory      RiskSortField = "riskCategory"
	RiskSortByInitialLevel  RiskSortField = "initialRiskLevel"
	RiskSortByResidualLevel RiskSortField = "residualRiskLevel"
	RiskSortByReduction     RiskSortField = "riskReduction"
)

// ControlSortField declares the field a control list is ordered by
type ControlSortField string

const (
	ControlSortByID            ControlSortField = "mitigationID"
	ControlSortByCategory      ControlSortField = "category"
	ControlSortByStatus        ControlSortField = "implementationStatus"
	ControlSortByEffectiveness ControlSortField = "effectiveness"
)

// UseCaseSortField declares the field a use case list is ordered by
type UseCaseSortField string

const (
	UseCaseSortByID     UseCaseSortField = "id"
	UseCaseSortByTitle  UseCaseSortField = "title"
	UseCaseSortByStatus UseCaseSortField = "status"
)
