package usecase

import (
	"github.com/secmon-lab/riskportal/pkg/domain/interfaces"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
)

type UseCases struct {
	repo     interfaces.Repository
	taxonomy *model.Taxonomy
	Risk     *RiskUseCase
	Control  *ControlUseCase
	UseCase  *UseCaseUseCase
}

type Option func(*UseCases)

// WithTaxonomy sets the vocabulary used to validate owners, business
// areas, AI categories and statuses. Without it those fields are
// accepted as free text.
func WithTaxonomy(t *model.Taxonomy) Option {
	return func(uc *UseCases) {
		uc.taxonomy = t
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Risk = NewRiskUseCase(repo, uc.taxonomy)
	uc.Control = NewControlUseCase(repo)
	uc.UseCase = NewUseCaseUseCase(repo, uc.taxonomy)

	return uc
}

// Taxonomy returns the configured vocabulary, or the built-in default
// when none was supplied.
func (uc *UseCases) Taxonomy() *model.Taxonomy {
	if uc.taxonomy == nil {
		return model.DefaultTaxonomy()
	}
	return uc.taxonomy
}
