package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

func riskPath(id types.RiskID) string {
	return "/api/v1/risks/" + url.PathEscape(id.String())
}

func (c *Client) ListRisks(ctx context.Context) ([]*model.Risk, error) {
	var risks []*model.Risk
	if err := c.do(ctx, http.MethodGet, "/api/v1/risks", nil, &risks); err != nil {
		return nil, err
	}
	return risks, nil
}

func (c *Client) CreateRisk(ctx context.Context, input *model.RiskInput) (*model.Risk, error) {
	var risk model.Risk
	if err := c.do(ctx, http.MethodPost, "/api/v1/risks", input, &risk); err != nil {
		return nil, err
	}
	return &risk, nil
}

func (c *Client) GetRisk(ctx context.Context, id types.RiskID) (*model.Risk, error) {
	var risk model.Risk
	if err := c.do(ctx, http.MethodGet, riskPath(id), nil, &risk); err != nil {
		return nil, err
	}
	return &risk, nil
}

func (c *Client) UpdateRisk(ctx context.Context, id types.RiskID, input *model.RiskUpdateInput) (*model.Risk, error) {
	var risk model.Risk
	if err := c.do(ctx, http.MethodPut, riskPath(id), input, &risk); err != nil {
		return nil, err
	}
	return &risk, nil
}

func (c *Client) DeleteRisk(ctx context.Context, id types.RiskID) error {
	return c.do(ctx, http.MethodDelete, riskPath(id), nil, nil)
}

func (c *Client) SetRiskControls(ctx context.Context, id types.RiskID, controlIDs []types.ControlID) (*model.Risk, error) {
	body := map[string][]types.ControlID{"controlIds": controlIDs}
	var risk model.Risk
	if err := c.do(ctx, http.MethodPut, riskPath(id)+"/controls", body, &risk); err != nil {
		return nil, err
	}
	return &risk, nil
}

func (c *Client) RiskStatistics(ctx context.Context) (*model.RiskStatistics, error) {
	var stats model.RiskStatistics
	if err := c.do(ctx, http.MethodGet, "/api/v1/risks/statistics", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
