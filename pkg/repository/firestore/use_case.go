package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type useCaseObjectiveDocument struct {
	CurrentState string `firestore:"current_state"`
	FutureState  string `firestore:"future_state"`
	Solution     string `firestore:"solution"`
	Benefits     string `firestore:"benefits"`
}

type useCaseImpactDocument struct {
	ImpactPoints []string `firestore:"impact_points"`
	CostSaving   float64  `firestore:"cost_saving"`
	EffortMonths float64  `firestore:"effort_months"`
}

type useCaseExecutionDocument struct {
	FunctionsImpacted []string `firestore:"functions_impacted"`
	DataRequirements  string   `firestore:"data_requirements"`
	AIComplexity      string   `firestore:"ai_complexity"`
	Feasibility       string   `firestore:"feasibility"`
	Value             string   `firestore:"value"`
	Risk              string   `firestore:"risk"`
}

type useCaseDocument struct {
	ID           string   `firestore:"id"`
	Title        string   `firestore:"title"`
	Description  string   `firestore:"description"`
	BusinessArea string   `firestore:"business_area"`
	AICategories []string `firestore:"ai_categories"`

	Objective useCaseObjectiveDocument `firestore:"objective"`
	Impact    useCaseImpactDocument    `firestore:"impact"`
	Execution useCaseExecutionDocument `firestore:"execution"`

	Status       string   `firestore:"status"`
	Owner        string   `firestore:"owner"`
	Stakeholders []string `firestore:"stakeholders"`
	Notes        string   `firestore:"notes"`

	RelatedRiskIDs []string `firestore:"related_risk_ids"`
	RiskCount      int      `firestore:"risk_count"`

	CreatedAt   time.Time `firestore:"created_at"`
	LastUpdated time.Time `firestore:"last_updated"`
}

func toUseCaseDocument(useCase *model.UseCase) *useCaseDocument {
	riskIDs := make([]string, 0, len(useCase.RelatedRiskIDs))
	for _, id := range useCase.RelatedRiskIDs {
		riskIDs = append(riskIDs, string(id))
	}

	return &useCaseDocument{
		ID:           string(useCase.ID),
		Title:        useCase.Title,
		Description:  useCase.Description,
		BusinessArea: useCase.BusinessArea,
		AICategories: append([]string{}, useCase.AICategories...),
		Objective: useCaseObjectiveDocument{
			CurrentState: useCase.Objective.CurrentState,
			FutureState:  useCase.Objective.FutureState,
			Solution:     useCase.Objective.Solution,
			Benefits:     useCase.Objective.Benefits,
		},
		Impact: useCaseImpactDocument{
			ImpactPoints: append([]string{}, useCase.Impact.ImpactPoints...),
			CostSaving:   useCase.Impact.CostSaving,
			EffortMonths: useCase.Impact.EffortMonths,
		},
		Execution: useCaseExecutionDocument{
			FunctionsImpacted: append([]string{}, useCase.Execution.FunctionsImpacted...),
			DataRequirements:  useCase.Execution.DataRequirements,
			AIComplexity:      string(useCase.Execution.AIComplexity),
			Feasibility:       string(useCase.Execution.Feasibility),
			Value:             string(useCase.Execution.Value),
			Risk:              string(useCase.Execution.Risk),
		},
		Status:         useCase.Status,
		Owner:          useCase.Owner,
		Stakeholders:   append([]string{}, useCase.Stakeholders...),
		Notes:          useCase.Notes,
		RelatedRiskIDs: riskIDs,
		RiskCount:      len(riskIDs),
		CreatedAt:      useCase.CreatedAt,
		LastUpdated:    useCase.LastUpdated,
	}
}

func (d *useCaseDocument) toModel() *model.UseCase {
	riskIDs := make([]types.RiskID, 0, len(d.RelatedRiskIDs))
	for _, id := range d.RelatedRiskIDs {
		riskIDs = append(riskIDs, types.RiskID(id))
	}

	return &model.UseCase{
		ID:           types.UseCaseID(d.ID),
		Title:        d.Title,
		Description:  d.Description,
		BusinessArea: d.BusinessArea,
		AICategories: append([]string{}, d.AICategories...),
		Objective: model.UseCaseObjective{
			CurrentState: d.Objective.CurrentState,
			FutureState:  d.Objective.FutureState,
			Solution:     d.Objective.Solution,
			Benefits:     d.Objective.Benefits,
		},
		Impact: model.UseCaseImpact{
			ImpactPoints: append([]string{}, d.Impact.ImpactPoints...),
			CostSaving:   d.Impact.CostSaving,
			EffortMonths: d.Impact.EffortMonths,
		},
		Execution: model.UseCaseExecution{
			FunctionsImpacted: append([]string{}, d.Execution.FunctionsImpacted...),
			DataRequirements:  d.Execution.DataRequirements,
			AIComplexity:      types.MaturityLevel(d.Execution.AIComplexity),
			Feasibility:       types.MaturityLevel(d.Execution.Feasibility),
			Value:             types.MaturityLevel(d.Execution.Value),
			Risk:              types.MaturityLevel(d.Execution.Risk),
		},
		Status:         d.Status,
		Owner:          d.Owner,
		Stakeholders:   append([]string{}, d.Stakeholders...),
		Notes:          d.Notes,
		RelatedRiskIDs: riskIDs,
		RiskCount:      len(riskIDs),
		CreatedAt:      d.CreatedAt,
		LastUpdated:    d.LastUpdated,
	}
}

type useCaseRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newUseCaseRepository(client *firestore.Client) *useCaseRepository {
	return &useCaseRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *useCaseRepository) useCasesCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_use_cases"
	}
	return "use_cases"
}

func (r *useCaseRepository) risksCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_risks"
	}
	return "risks"
}

func (r *useCaseRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *useCaseRepository) useCaseCounterDoc() string {
	return "use_case_counter"
}

func (r *useCaseRepository) getNextID(ctx context.Context) (int64, error) {
	counterRef := r.client.Collection(r.counterCollection()).Doc(r.useCaseCounterDoc())

	var nextID int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				nextID = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": nextID,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		nextID = currentValue.(int64) + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: nextID},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID")
	}

	return nextID, nil
}

func (r *useCaseRepository) Create(ctx context.Context, useCase *model.UseCase) (*model.UseCase, error) {
	id, err := r.getNextID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := useCase.Clone()
	created.ID = types.UseCaseID(fmt.Sprintf("UC-%03d", id))
	created.CreatedAt = now
	created.LastUpdated = now
	if created.RelatedRiskIDs == nil {
		created.RelatedRiskIDs = []types.RiskID{}
	}
	created.RiskCount = len(created.RelatedRiskIDs)

	docRef := r.client.Collection(r.useCasesCollection()).Doc(string(created.ID))
	if _, err := docRef.Set(ctx, toUseCaseDocument(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create use case", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *useCaseRepository) Get(ctx context.Context, id types.UseCaseID) (*model.UseCase, error) {
	docRef := r.client.Collection(r.useCasesCollection()).Doc(string(id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "use case not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get use case", goerr.V("id", id))
	}

	var useCaseDoc useCaseDocument
	if err := doc.DataTo(&useCaseDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal use case", goerr.V("id", id))
	}

	return useCaseDoc.toModel(), nil
}

func (r *useCaseRepository) List(ctx context.Context) ([]*model.UseCase, error) {
	iter := r.client.Collection(r.useCasesCollection()).OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	useCases := []*model.UseCase{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate use cases")
		}

		var useCaseDoc useCaseDocument
		if err := doc.DataTo(&useCaseDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal use case")
		}

		useCases = append(useCases, useCaseDoc.toModel())
	}

	return useCases, nil
}

func (r *useCaseRepository) Update(ctx context.Context, useCase *model.UseCase) (*model.UseCase, error) {
	docRef := r.client.Collection(r.useCasesCollection()).Doc(string(useCase.ID))

	updated := useCase.Clone()
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "use case not found", goerr.V("id", useCase.ID))
			}
			return goerr.Wrap(err, "failed to get use case", goerr.V("id", useCase.ID))
		}

		var existing useCaseDocument
		if err := doc.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal use case", goerr.V("id", useCase.ID))
		}

		updated.CreatedAt = existing.CreatedAt
		updated.RelatedRiskIDs = (&existing).toModel().RelatedRiskIDs
		updated.RiskCount = len(updated.RelatedRiskIDs)
		updated.LastUpdated = time.Now().UTC()

		return tx.Set(docRef, toUseCaseDocument(updated))
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *useCaseRepository) Delete(ctx context.Context, id types.UseCaseID) error {
	docRef := r.client.Collection(r.useCasesCollection()).Doc(string(id))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "use case not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get use case", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete use case", goerr.V("id", id))
	}

	return nil
}

func (r *useCaseRepository) SetRisks(ctx context.Context, id types.UseCaseID, riskIDs []types.RiskID) (*model.UseCase, error) {
	docRef := r.client.Collection(r.useCasesCollection()).Doc(string(id))

	var result *model.UseCase
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "use case not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get use case", goerr.V("id", id))
		}

		var useCaseDoc useCaseDocument
		if err := doc.DataTo(&useCaseDoc); err != nil {
			return goerr.Wrap(err, "failed to unmarshal use case", goerr.V("id", id))
		}

		for _, rid := range riskIDs {
			ref := r.client.Collection(r.risksCollection()).Doc(string(rid))
			if _, err := tx.Get(ref); err != nil {
				if status.Code(err) == codes.NotFound {
					return goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", rid))
				}
				return goerr.Wrap(err, "failed to get risk", goerr.V("id", rid))
			}
		}

		ids := make([]string, 0, len(riskIDs))
		for _, rid := range riskIDs {
			ids = append(ids, string(rid))
		}

		now := time.Now().UTC()
		if err := tx.Update(docRef, []firestore.Update{
			{Path: "related_risk_ids", Value: ids},
			{Path: "risk_count", Value: len(ids)},
			{Path: "last_updated", Value: now},
		}); err != nil {
			return goerr.Wrap(err, "failed to update use case risks", goerr.V("id", id))
		}

		updated := useCaseDoc.toModel()
		updated.RelatedRiskIDs = append([]types.RiskID{}, riskIDs...)
		updated.RiskCount = len(riskIDs)
		updated.LastUpdated = now
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
