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

type complianceDocument struct {
	CFRPart11Annex11 string `firestore:"cfr_part11_annex11"`
	HIPAASafeguard   string `firestore:"hipaa_safeguard"`
	GDPRArticle      string `firestore:"gdpr_article"`
	EUAIActArticle   string `firestore:"eu_ai_act_article"`
	NIST80053        string `firestore:"nist_800_53"`
	SOC2TSC          string `firestore:"soc2_tsc"`
}

type controlDocument struct {
	MitigationID          string             `firestore:"mitigation_id"`
	MitigationDescription string             `firestore:"mitigation_description"`
	Category              string             `firestore:"category"`
	Compliance            complianceDocument `firestore:"compliance"`
	ImplementationStatus  string             `firestore:"implementation_status"`
	ImplementationNotes   string             `firestore:"implementation_notes"`
	Effectiveness         string             `firestore:"effectiveness"`
	ComplianceScore       *float64           `firestore:"compliance_score"`

	RelatedRiskIDs []string `firestore:"related_risk_ids"`

	CreatedAt   time.Time `firestore:"created_at"`
	LastUpdated time.Time `firestore:"last_updated"`
}

func toControlDocument(control *model.Control) *controlDocument {
	riskIDs := make([]string, 0, len(control.RelatedRiskIDs))
	for _, id := range control.RelatedRiskIDs {
		riskIDs = append(riskIDs, string(id))
	}

	doc := &controlDocument{
		MitigationID:          string(control.MitigationID),
		MitigationDescription: control.MitigationDescription,
		Category:              string(control.Category),
		Compliance: complianceDocument{
			CFRPart11Annex11: control.Compliance.CFRPart11Annex11,
			HIPAASafeguard:   control.Compliance.HIPAASafeguard,
			GDPRArticle:      control.Compliance.GDPRArticle,
			EUAIActArticle:   control.Compliance.EUAIActArticle,
			NIST80053:        control.Compliance.NIST80053,
			SOC2TSC:          control.Compliance.SOC2TSC,
		},
		ImplementationStatus: string(control.ImplementationStatus),
		ImplementationNotes:  control.ImplementationNotes,
		Effectiveness:        string(control.Effectiveness),
		RelatedRiskIDs:       riskIDs,
		CreatedAt:            control.CreatedAt,
		LastUpdated:          control.LastUpdated,
	}
	if control.ComplianceScore != nil {
		score := *control.ComplianceScore
		doc.ComplianceScore = &score
	}
	return doc
}

func (d *controlDocument) toModel() *model.Control {
	riskIDs := make([]types.RiskID, 0, len(d.RelatedRiskIDs))
	for _, id := range d.RelatedRiskIDs {
		riskIDs = append(riskIDs, types.RiskID(id))
	}

	control := &model.Control{
		MitigationID:          types.ControlID(d.MitigationID),
		MitigationDescription: d.MitigationDescription,
		Category:              types.ControlCategory(d.Category),
		Compliance: model.Compliance{
			CFRPart11Annex11: d.Compliance.CFRPart11Annex11,
			HIPAASafeguard:   d.Compliance.HIPAASafeguard,
			GDPRArticle:      d.Compliance.GDPRArticle,
			EUAIActArticle:   d.Compliance.EUAIActArticle,
			NIST80053:        d.Compliance.NIST80053,
			SOC2TSC:          d.Compliance.SOC2TSC,
		},
		ImplementationStatus: types.ImplementationStatus(d.ImplementationStatus),
		ImplementationNotes:  d.ImplementationNotes,
		Effectiveness:        types.ControlEffectiveness(d.Effectiveness),
		RelatedRiskIDs:       riskIDs,
		CreatedAt:            d.CreatedAt,
		LastUpdated:          d.LastUpdated,
	}
	if d.ComplianceScore != nil {
		score := *d.ComplianceScore
		control.ComplianceScore = &score
	}
	return control
}

type controlRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newControlRepository(client *firestore.Client) *controlRepository {
	return &controlRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *controlRepository) controlsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_controls"
	}
	return "controls"
}

func (r *controlRepository) risksCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_risks"
	}
	return "risks"
}

func (r *controlRepository) Create(ctx context.Context, control *model.Control) (*model.Control, error) {
	now := time.Now().UTC()
	created := control.Clone()
	created.CreatedAt = now
	created.LastUpdated = now
	if created.RelatedRiskIDs == nil {
		created.RelatedRiskIDs = []types.RiskID{}
	}

	docRef := r.client.Collection(r.controlsCollection()).Doc(string(created.MitigationID))
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err == nil {
			return goerr.Wrap(ErrAlreadyExists, "control already exists", goerr.V("id", created.MitigationID))
		} else if status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to check control existence", goerr.V("id", created.MitigationID))
		}
		return tx.Set(docRef, toControlDocument(created))
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *controlRepository) Get(ctx context.Context, id types.ControlID) (*model.Control, error) {
	docRef := r.client.Collection(r.controlsCollection()).Doc(string(id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get control", goerr.V("id", id))
	}

	var controlDoc controlDocument
	if err := doc.DataTo(&controlDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal control", goerr.V("id", id))
	}

	return controlDoc.toModel(), nil
}

func (r *controlRepository) List(ctx context.Context) ([]*model.Control, error) {
	iter := r.client.Collection(r.controlsCollection()).OrderBy("mitigation_id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	controls := []*model.Control{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate controls")
		}

		var controlDoc controlDocument
		if err := doc.DataTo(&controlDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal control")
		}

		controls = append(controls, controlDoc.toModel())
	}

	return controls, nil
}

func (r *controlRepository) Update(ctx context.Context, control *model.Control) (*model.Control, error) {
	docRef := r.client.Collection(r.controlsCollection()).Doc(string(control.MitigationID))

	updated := control.Clone()
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", control.MitigationID))
			}
			return goerr.Wrap(err, "failed to get control", goerr.V("id", control.MitigationID))
		}

		var existing controlDocument
		if err := doc.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal control", goerr.V("id", control.MitigationID))
		}

		updated.CreatedAt = existing.CreatedAt
		updated.RelatedRiskIDs = (&existing).toModel().RelatedRiskIDs
		updated.LastUpdated = time.Now().UTC()

		return tx.Set(docRef, toControlDocument(updated))
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *controlRepository) Delete(ctx context.Context, id types.ControlID) error {
	docRef := r.client.Collection(r.controlsCollection()).Doc(string(id))

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get control", goerr.V("id", id))
		}

		riskQuery := r.client.Collection(r.risksCollection()).
			Where("related_control_ids", "array-contains", string(id))
		riskDocs, err := tx.Documents(riskQuery).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query risks referencing control", goerr.V("id", id))
		}

		for _, doc := range riskDocs {
			if err := tx.Update(doc.Ref, []firestore.Update{
				{Path: "related_control_ids", Value: firestore.ArrayRemove(string(id))},
				{Path: "last_updated", Value: time.Now().UTC()},
			}); err != nil {
				return goerr.Wrap(err, "failed to detach control from risk", goerr.V("risk", doc.Ref.ID))
			}
		}

		return tx.Delete(docRef)
	})
}

func (r *controlRepository) SetRisks(ctx context.Context, id types.ControlID, riskIDs []types.RiskID) (*model.Control, error) {
	docRef := r.client.Collection(r.controlsCollection()).Doc(string(id))

	var result *model.Control
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get control", goerr.V("id", id))
		}

		var controlDoc controlDocument
		if err := doc.DataTo(&controlDoc); err != nil {
			return goerr.Wrap(err, "failed to unmarshal control", goerr.V("id", id))
		}

		wanted := make(map[string]bool, len(riskIDs))
		for _, rid := range riskIDs {
			ref := r.client.Collection(r.risksCollection()).Doc(string(rid))
			if _, err := tx.Get(ref); err != nil {
				if status.Code(err) == codes.NotFound {
					return goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", rid))
				}
				return goerr.Wrap(err, "failed to get risk", goerr.V("id", rid))
			}
			wanted[string(rid)] = true
		}

		currentQuery := r.client.Collection(r.risksCollection()).
			Where("related_control_ids", "array-contains", string(id))
		currentDocs, err := tx.Documents(currentQuery).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query risks referencing control", goerr.V("id", id))
		}

		now := time.Now().UTC()
		current := make(map[string]bool, len(currentDocs))
		for _, doc := range currentDocs {
			current[doc.Ref.ID] = true
			if !wanted[doc.Ref.ID] {
				if err := tx.Update(doc.Ref, []firestore.Update{
					{Path: "related_control_ids", Value: firestore.ArrayRemove(string(id))},
					{Path: "last_updated", Value: now},
				}); err != nil {
					return goerr.Wrap(err, "failed to detach control from risk", goerr.V("risk", doc.Ref.ID))
				}
			}
		}

		for rid := range wanted {
			if !current[rid] {
				ref := r.client.Collection(r.risksCollection()).Doc(rid)
				if err := tx.Update(ref, []firestore.Update{
					{Path: "related_control_ids", Value: firestore.ArrayUnion(string(id))},
					{Path: "last_updated", Value: now},
				}); err != nil {
					return goerr.Wrap(err, "failed to attach control to risk", goerr.V("risk", rid))
				}
			}
		}

		ids := make([]string, 0, len(riskIDs))
		for _, rid := range riskIDs {
			ids = append(ids, string(rid))
		}
		if err := tx.Update(docRef, []firestore.Update{
			{Path: "related_risk_ids", Value: ids},
			{Path: "last_updated", Value: now},
		}); err != nil {
			return goerr.Wrap(err, "failed to update control risks", goerr.V("id", id))
		}

		updated := controlDoc.toModel()
		updated.RelatedRiskIDs = append([]types.RiskID{}, riskIDs...)
		updated.LastUpdated = now
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
