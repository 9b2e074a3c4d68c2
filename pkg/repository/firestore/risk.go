package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type scoringDocument struct {
	Likelihood        int    `firestore:"likelihood"`
	Impact            int    `firestore:"impact"`
	RiskLevel         int    `firestore:"risk_level"`
	RiskLevelCategory string `firestore:"risk_level_category"`
}

type riskDocument struct {
	ID              string `firestore:"id"`
	RiskCategory    string `firestore:"risk_category"`
	Risk            string `firestore:"risk"`
	RiskDescription string `firestore:"risk_description"`

	InitialScoring  scoringDocument `firestore:"initial_scoring"`
	ResidualScoring scoringDocument `firestore:"residual_scoring"`

	RiskReduction           int    `firestore:"risk_reduction"`
	RiskReductionPercentage int    `firestore:"risk_reduction_percentage"`
	MitigationEffectiveness string `firestore:"mitigation_effectiveness"`

	AgreedMitigation   string `firestore:"agreed_mitigation"`
	ExampleMitigations string `firestore:"example_mitigations"`
	Notes              string `firestore:"notes"`

	ProposedOversightOwnership []string `firestore:"proposed_oversight_ownership"`
	ProposedSupport            []string `firestore:"proposed_support"`

	RelatedControlIDs []string `firestore:"related_control_ids"`

	CreatedAt   time.Time `firestore:"created_at"`
	LastUpdated time.Time `firestore:"last_updated"`
}

func toScoringDocument(s model.Scoring) scoringDocument {
	return scoringDocument{
		Likelihood:        s.Likelihood,
		Impact:            s.Impact,
		RiskLevel:         s.RiskLevel,
		RiskLevelCategory: string(s.RiskLevelCategory),
	}
}

func (d scoringDocument) toModel() model.Scoring {
	return model.Scoring{
		Likelihood:        d.Likelihood,
		Impact:            d.Impact,
		RiskLevel:         d.RiskLevel,
		RiskLevelCategory: types.RiskLevelCategory(d.RiskLevelCategory),
	}
}

func toRiskDocument(risk *model.Risk) *riskDocument {
	controlIDs := make([]string, 0, len(risk.RelatedControlIDs))
	for _, id := range risk.RelatedControlIDs {
		controlIDs = append(controlIDs, string(id))
	}

	return &riskDocument{
		ID:                         string(risk.ID),
		RiskCategory:               string(risk.RiskCategory),
		Risk:                       risk.Risk,
		RiskDescription:            risk.RiskDescription,
		InitialScoring:             toScoringDocument(risk.InitialScoring),
		ResidualScoring:            toScoringDocument(risk.ResidualScoring),
		RiskReduction:              risk.RiskReduction,
		RiskReductionPercentage:    risk.RiskReductionPercentage,
		MitigationEffectiveness:    string(risk.MitigationEffectiveness),
		AgreedMitigation:           risk.AgreedMitigation,
		ExampleMitigations:         risk.ExampleMitigations,
		Notes:                      risk.Notes,
		ProposedOversightOwnership: append([]string{}, risk.ProposedOversightOwnership...),
		ProposedSupport:            append([]string{}, risk.ProposedSupport...),
		RelatedControlIDs:          controlIDs,
		CreatedAt:                  risk.CreatedAt,
		LastUpdated:                risk.LastUpdated,
	}
}

func (d *riskDocument) toModel() *model.Risk {
	controlIDs := make([]types.ControlID, 0, len(d.RelatedControlIDs))
	for _, id := range d.RelatedControlIDs {
		controlIDs = append(controlIDs, types.ControlID(id))
	}

	return &model.Risk{
		ID:                         types.RiskID(d.ID),
		RiskCategory:               types.RiskCategory(d.RiskCategory),
		Risk:                       d.Risk,
		RiskDescription:            d.RiskDescription,
		InitialScoring:             d.InitialScoring.toModel(),
		ResidualScoring:            d.ResidualScoring.toModel(),
		RiskReduction:              d.RiskReduction,
		RiskReductionPercentage:    d.RiskReductionPercentage,
		MitigationEffectiveness:    types.MitigationEffectiveness(d.MitigationEffectiveness),
		AgreedMitigation:           d.AgreedMitigation,
		ExampleMitigations:         d.ExampleMitigations,
		Notes:                      d.Notes,
		ProposedOversightOwnership: append([]string{}, d.ProposedOversightOwnership...),
		ProposedSupport:            append([]string{}, d.ProposedSupport...),
		RelatedControlIDs:          controlIDs,
		CreatedAt:                  d.CreatedAt,
		LastUpdated:                d.LastUpdated,
	}
}

type riskRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRiskRepository(client *firestore.Client) *riskRepository {
	return &riskRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *riskRepository) risksCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_risks"
	}
	return "risks"
}

func (r *riskRepository) controlsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_controls"
	}
	return "controls"
}

func (r *riskRepository) useCasesCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_use_cases"
	}
	return "use_cases"
}

func (r *riskRepository) Create(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	now := time.Now().UTC()
	created := risk.Clone()
	created.CreatedAt = now
	created.LastUpdated = now
	if created.RelatedControlIDs == nil {
		created.RelatedControlIDs = []types.ControlID{}
	}

	docRef := r.client.Collection(r.risksCollection()).Doc(string(created.ID))
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err == nil {
			return goerr.Wrap(ErrAlreadyExists, "risk already exists", goerr.V("id", created.ID))
		} else if status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to check risk existence", goerr.V("id", created.ID))
		}
		return tx.Set(docRef, toRiskDocument(created))
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *riskRepository) Get(ctx context.Context, id types.RiskID) (*model.Risk, error) {
	docRef := r.client.Collection(r.risksCollection()).Doc(string(id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	var riskDoc riskDocument
	if err := doc.DataTo(&riskDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", id))
	}

	return riskDoc.toModel(), nil
}

func (r *riskRepository) List(ctx context.Context) ([]*model.Risk, error) {
	iter := r.client.Collection(r.risksCollection()).OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	risks := []*model.Risk{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risks")
		}

		var riskDoc riskDocument
		if err := doc.DataTo(&riskDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal risk")
		}

		risks = append(risks, riskDoc.toModel())
	}

	return risks, nil
}

func (r *riskRepository) Update(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	docRef := r.client.Collection(r.risksCollection()).Doc(string(risk.ID))

	updated := risk.Clone()
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", risk.ID))
			}
			return goerr.Wrap(err, "failed to get risk", goerr.V("id", risk.ID))
		}

		var existing riskDocument
		if err := doc.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", risk.ID))
		}

		// Relationship edits go through SetControls, never through Update
		updated.CreatedAt = existing.CreatedAt
		updated.RelatedControlIDs = (&existing).toModel().RelatedControlIDs
		updated.LastUpdated = time.Now().UTC()

		return tx.Set(docRef, toRiskDocument(updated))
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *riskRepository) Delete(ctx context.Context, id types.RiskID) error {
	docRef := r.client.Collection(r.risksCollection()).Doc(string(id))

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
		}

		controlQuery := r.client.Collection(r.controlsCollection()).
			Where("related_risk_ids", "array-contains", string(id))
		controlDocs, err := tx.Documents(controlQuery).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query controls referencing risk", goerr.V("id", id))
		}

		useCaseQuery := r.client.Collection(r.useCasesCollection()).
			Where("related_risk_ids", "array-contains", string(id))
		useCaseDocs, err := tx.Documents(useCaseQuery).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query use cases referencing risk", goerr.V("id", id))
		}

		for _, doc := range controlDocs {
			if err := tx.Update(doc.Ref, []firestore.Update{
				{Path: "related_risk_ids", Value: firestore.ArrayRemove(string(id))},
				{Path: "last_updated", Value: time.Now().UTC()},
			}); err != nil {
				return goerr.Wrap(err, "failed to detach risk from control", goerr.V("control", doc.Ref.ID))
			}
		}

		for _, doc := range useCaseDocs {
			var ucDoc useCaseDocument
			if err := doc.DataTo(&ucDoc); err != nil {
				return goerr.Wrap(err, "failed to unmarshal use case", goerr.V("useCase", doc.Ref.ID))
			}
			if err := tx.Update(doc.Ref, []firestore.Update{
				{Path: "related_risk_ids", Value: firestore.ArrayRemove(string(id))},
				{Path: "risk_count", Value: countWithout(ucDoc.RelatedRiskIDs, string(id))},
				{Path: "last_updated", Value: time.Now().UTC()},
			}); err != nil {
				return goerr.Wrap(err, "failed to detach risk from use case", goerr.V("useCase", doc.Ref.ID))
			}
		}

		return tx.Delete(docRef)
	})
}

func (r *riskRepository) SetControls(ctx context.Context, id types.RiskID, controlIDs []types.ControlID) (*model.Risk, error) {
	docRef := r.client.Collection(r.risksCollection()).Doc(string(id))

	var result *model.Risk
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
		}

		var riskDoc riskDocument
		if err := doc.DataTo(&riskDoc); err != nil {
			return goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", id))
		}

		// Every referenced control must exist before any write happens
		wanted := make(map[string]bool, len(controlIDs))
		for _, cid := range controlIDs {
			ref := r.client.Collection(r.controlsCollection()).Doc(string(cid))
			if _, err := tx.Get(ref); err != nil {
				if status.Code(err) == codes.NotFound {
					return goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", cid))
				}
				return goerr.Wrap(err, "failed to get control", goerr.V("id", cid))
			}
			wanted[string(cid)] = true
		}

		currentQuery := r.client.Collection(r.controlsCollection()).
			Where("related_risk_ids", "array-contains", string(id))
		currentDocs, err := tx.Documents(currentQuery).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query controls referencing risk", goerr.V("id", id))
		}

		now := time.Now().UTC()
		current := make(map[string]bool, len(currentDocs))
		for _, doc := range currentDocs {
			current[doc.Ref.ID] = true
			if !wanted[doc.Ref.ID] {
				if err := tx.Update(doc.Ref, []firestore.Update{
					{Path: "related_risk_ids", Value: firestore.ArrayRemove(string(id))},
					{Path: "last_updated", Value: now},
				}); err != nil {
					return goerr.Wrap(err, "failed to detach risk from control", goerr.V("control", doc.Ref.ID))
				}
			}
		}

		for cid := range wanted {
			if !current[cid] {
				ref := r.client.Collection(r.controlsCollection()).Doc(cid)
				if err := tx.Update(ref, []firestore.Update{
					{Path: "related_risk_ids", Value: firestore.ArrayUnion(string(id))},
					{Path: "last_updated", Value: now},
				}); err != nil {
					return goerr.Wrap(err, "failed to attach risk to control", goerr.V("control", cid))
				}
			}
		}

		ids := make([]string, 0, len(controlIDs))
		for _, cid := range controlIDs {
			ids = append(ids, string(cid))
		}
		if err := tx.Update(docRef, []firestore.Update{
			{Path: "related_control_ids", Value: ids},
			{Path: "last_updated", Value: now},
		}); err != nil {
			return goerr.Wrap(err, "failed to update risk controls", goerr.V("id", id))
		}

		updated := riskDoc.toModel()
		updated.RelatedControlIDs = append([]types.ControlID{}, controlIDs...)
		updated.LastUpdated = now
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func countWithout(ids []string, removed string) int {
	n := 0
	for _, id := range ids {
		if id != removed {
			n++
		}
	}
	return n
}
