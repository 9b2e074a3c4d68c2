package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

func controlPath(id types.ControlID) string {
	return "/api/v1/controls/" + url.PathEscape(id.String())
}

func (c *Client) ListControls(ctx context.Context) ([]*model.Control, error) {
	var controls []*model.Control
	if err := c.do(ctx, http.MethodGet, "/api/v1/controls", nil, &controls); err != nil {
		return nil, err
	}
	return controls, nil
}

func (c *Client) CreateControl(ctx context.Context, input *model.ControlInput) (*model.Control, error) {
	var control model.Control
	if err := c.do(ctx, http.MethodPost, "/api/v1/controls", input, &control); err != nil {
		return nil, err
	}
	return &control, nil
}

func (c *Client) GetControl(ctx context.Context, id types.ControlID) (*model.Control, error) {
	var control model.Control
	if err := c.do(ctx, http.MethodGet, controlPath(id), nil, &control); err != nil {
		return nil, err
	}
	return &control, nil
}

func (c *Client) UpdateControl(ctx context.Context, id types.ControlID, input *model.ControlUpdateInput) (*model.Control, error) {
	var control model.Control
	if err := c.do(ctx, http.MethodPut, controlPath(id), input, &control); err != nil {
		return nil, err
	}
	return &control, nil
}

func (c *Client) DeleteControl(ctx context.Context, id types.ControlID) error {
	return c.do(ctx, http.MethodDelete, controlPath(id), nil, nil)
}

func (c *Client) SetControlRisks(ctx context.Context, id types.ControlID, riskIDs []types.RiskID) (*model.Control, error) {
	body := map[string][]types.RiskID{"riskIds": riskIDs}
	var control model.Control
	if err := c.do(ctx, http.MethodPut, controlPath(id)+"/risks", body, &control); err != nil {
		return nil, err
	}
	return &control, nil
}

func (c *Client) ControlStatistics(ctx context.Context) (*model.ControlStatistics, error) {
	var stats model.ControlStatistics
	if err := c.do(ctx, http.MethodGet, "/api/v1/controls/statistics", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
