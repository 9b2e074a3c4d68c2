package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

func useCasePath(id types.UseCaseID) string {
	return "/api/v1/usecases/" + url.PathEscape(id.String())
}

func (c *Client) ListUseCases(ctx context.Context) ([]*model.UseCase, error) {
	var useCases []*model.UseCase
	if err := c.do(ctx, http.MethodGet, "/api/v1/usecases", nil, &useCases); err != nil {
		return nil, err
	}
	return useCases, nil
}

func (c *Client) CreateUseCase(ctx context.Context, input *model.UseCaseInput) (*model.UseCase, error) {
	var useCase model.UseCase
	if err := c.do(ctx, http.MethodPost, "/api/v1/usecases", input, &useCase); err != nil {
		return nil, err
	}
	return &useCase, nil
}

func (c *Client) GetUseCase(ctx context.Context, id types.UseCaseID) (*model.UseCase, error) {
	var useCase model.UseCase
	if err := c.do(ctx, http.MethodGet, useCasePath(id), nil, &useCase); err != nil {
		return nil, err
	}
	return &useCase, nil
}

func (c *Client) UpdateUseCase(ctx context.Context, id types.UseCaseID, input *model.UseCaseUpdateInput) (*model.UseCase, error) {
	var useCase model.UseCase
	if err := c.do(ctx, http.MethodPut, useCasePath(id), input, &useCase); err != nil {
		return nil, err
	}
	return &useCase, nil
}

func (c *Client) DeleteUseCase(ctx context.Context, id types.UseCaseID) error {
	return c.do(ctx, http.MethodDelete, useCasePath(id), nil, nil)
}

func (c *Client) AssociateUseCaseRisks(ctx context.Context, id types.UseCaseID, riskIDs []types.RiskID) (*model.UseCase, error) {
	body := map[string][]types.RiskID{"riskIds": riskIDs}
	var useCase model.UseCase
	if err := c.do(ctx, http.MethodPut, useCasePath(id)+"/risks", body, &useCase); err != nil {
		return nil, err
	}
	return &useCase, nil
}

func (c *Client) UseCaseStatistics(ctx context.Context) (*model.UseCaseStatistics, error) {
	var stats model.UseCaseStatistics
	if err := c.do(ctx, http.MethodGet, "/api/v1/usecases/statistics", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Taxonomy fetches the configured vocabulary.
func (c *Client) Taxonomy(ctx context.Context) (*model.Taxonomy, error) {
	var taxonomy model.Taxonomy
	if err := c.do(ctx, http.MethodGet, "/api/v1/taxonomy", nil, &taxonomy); err != nil {
		return nil, err
	}
	return &taxonomy, nil
}
