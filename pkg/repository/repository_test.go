package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/secmon-lab/riskportal/pkg/domain/interfaces"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
	"github.com/secmon-lab/riskportal/pkg/repository/firestore"
	"github.com/secmon-lab/riskportal/pkg/repository/memory"
)

func newMemoryRepository(t *testing.T) interfaces.Repository {
	t.Helper()
	return memory.New()
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d_", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

func testRisk(name string) *model.Risk {
	id, _ := types.NewRiskID(name)
	r := &model.Risk{
		ID:              id,
		Risk:            name,
		RiskCategory:    types.CategorySecurityData,
		RiskDescription: "description of " + name,
		InitialScoring:  model.Scoring{Likelihood: 4, Impact: 4},
		ResidualScoring: model.Scoring{Likelihood: 2, Impact: 2},
	}
	r.Recompute()
	return r
}

func testControl(id types.ControlID) *model.Control {
	return &model.Control{
		MitigationID:          id,
		MitigationDescription: "control " + id.String(),
		Category:              types.ControlCategoryAccuracy,
		ImplementationStatus:  types.StatusPlanned,
		Effectiveness:         types.ControlEffectivenessNotAssessed,
	}
}

func testUseCase(title string) *model.UseCase {
	return &model.UseCase{
		Title:        title,
		BusinessArea: "R&D",
		Status:       "Concept",
	}
}
