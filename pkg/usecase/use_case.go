package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskportal/pkg/domain/interfaces"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

// UseCaseUseCase manages AI use case records. The doubled name follows
// from the entity being called "use case" in the register itself.
type UseCaseUseCase struct {
	repo     interfaces.Repository
	taxonomy *model.Taxonomy
}

func NewUseCaseUseCase(repo interfaces.Repository, taxonomy *model.Taxonomy) *UseCaseUseCase {
	return &UseCaseUseCase{
		repo:     repo,
		taxonomy: taxonomy,
	}
}

func (uc *UseCaseUseCase) CreateUseCase(ctx context.Context, input *model.UseCaseInput) (*model.UseCase, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := uc.validateVocabulary(input.BusinessArea, input.AICategories, input.Status); err != nil {
		return nil, err
	}

	useCase := &model.UseCase{
		Title:        input.Title,
		Description:  input.Description,
		BusinessArea: input.BusinessArea,
		AICategories: input.AICategories,
		Objective:    input.Objective,
		Impact:       input.Impact,
		Execution:    input.Execution,
		Status:       input.Status,
		Owner:        input.Owner,
		Stakeholders: input.Stakeholders,
		Notes:        input.Notes,
	}
	if useCase.Status == "" {
		useCase.Status = "Concept"
	}

	created, err := uc.repo.UseCase().Create(ctx, useCase)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create use case")
	}

	return created, nil
}

func (uc *UseCaseUseCase) GetUseCase(ctx context.Context, id types.UseCaseID) (*model.UseCase, error) {
	useCase, err := uc.repo.UseCase().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get use case")
	}

	return useCase, nil
}

func (uc *UseCaseUseCase) ListUseCases(ctx context.Context) ([]*model.UseCase, error) {
	useCases, err := uc.repo.UseCase().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list use cases")
	}

	return useCases, nil
}

func (uc *UseCaseUseCase) UpdateUseCase(ctx context.Context, id types.UseCaseID, input *model.UseCaseUpdateInput) (*model.UseCase, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	area := ""
	if input.BusinessArea != nil {
		area = *input.BusinessArea
	}
	status := ""
	if input.Status != nil {
		status = *input.Status
	}
	if err := uc.validateVocabulary(area, input.AICategories, status); err != nil {
		return nil, err
	}

	existing, err := uc.repo.UseCase().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get use case")
	}

	if input.LastUpdated != nil && !input.LastUpdated.Equal(existing.LastUpdated) {
		return nil, goerr.Wrap(ErrConflict, "use case was updated concurrently",
			goerr.V("id", id),
			goerr.V("expected", *input.LastUpdated),
			goerr.V("actual", existing.LastUpdated))
	}

	input.Apply(existing)

	updated, err := uc.repo.UseCase().Update(ctx, existing)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update use case")
	}

	return updated, nil
}

func (uc *UseCaseUseCase) DeleteUseCase(ctx context.Context, id types.UseCaseID) error {
	if err := uc.repo.UseCase().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete use case")
	}

	return nil
}

// AssociateRisks replaces the risks linked to a use case. The
// association is one-sided: risks do not reference use cases back.
func (uc *UseCaseUseCase) AssociateRisks(ctx context.Context, id types.UseCaseID, riskIDs []types.RiskID) (*model.UseCase, error) {
	seen := make(map[types.RiskID]bool, len(riskIDs))
	deduped := make([]types.RiskID, 0, len(riskIDs))
	for _, rid := range riskIDs {
		if err := rid.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid risk ID", goerr.V("id", rid))
		}
		if !seen[rid] {
			seen[rid] = true
			deduped = append(deduped, rid)
		}
	}

	useCase, err := uc.repo.UseCase().SetRisks(ctx, id, deduped)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to associate risks")
	}

	return useCase, nil
}

func (uc *UseCaseUseCase) UseCaseStatistics(ctx context.Context) (*model.UseCaseStatistics, error) {
	useCases, err := uc.repo.UseCase().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list use cases")
	}

	return model.CalculateUseCaseStatistics(useCases), nil
}

func (uc *UseCaseUseCase) validateVocabulary(area string, categories []string, status string) error {
	if uc.taxonomy == nil {
		return nil
	}

	var msgs []string
	if area != "" && !uc.taxonomy.HasBusinessArea(area) {
		msgs = append(msgs, "Unknown business area: "+area)
	}
	for _, c := range categories {
		if !uc.taxonomy.HasAICategory(c) {
			msgs = append(msgs, "Unknown AI category: "+c)
		}
	}
	if status != "" && !uc.taxonomy.HasStatus(status) {
		msgs = append(msgs, "Unknown status: "+status)
	}
	if len(msgs) > 0 {
		return &model.ValidationError{Messages: msgs}
	}
	return nil
}
