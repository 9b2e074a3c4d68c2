package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskportal/pkg/cli/config"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
	"github.com/secmon-lab/riskportal/pkg/usecase"
	"github.com/secmon-lab/riskportal/pkg/utils/logging"
	"github.com/secmon-lab/riskportal/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

type seedRisk struct {
	model.RiskInput
	RelatedControls []types.ControlID `json:"relatedControls,omitempty"`
}

type seedUseCase struct {
	model.UseCaseInput
	RelatedRisks []types.RiskID `json:"relatedRisks,omitempty"`
}

type seedData struct {
	Controls []model.ControlInput `json:"controls"`
	Risks    []seedRisk           `json:"risks"`
	UseCases []seedUseCase        `json:"useCases"`
}

func cmdSeed() *cli.Command {
	var source string
	var repoCfg config.Repository
	var taxonomyCfg config.Taxonomy

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "source",
			Usage:       "Seed data location: a local JSON file or a gs://bucket/object URL",
			Required:    true,
			Sources:     cli.EnvVars("RISKPORTAL_SEED_SOURCE"),
			Destination: &source,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, taxonomyCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Import register data from a JSON seed file",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			data, err := readSeedSource(ctx, source)
			if err != nil {
				return err
			}

			var seed seedData
			if err := json.Unmarshal(data, &seed); err != nil {
				return goerr.Wrap(err, "failed to parse seed data", goerr.V("source", source))
			}

			taxonomy, err := taxonomyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load taxonomy")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo, usecase.WithTaxonomy(taxonomy))

			// Controls first so that risk relations can resolve
			for i := range seed.Controls {
				control, err := uc.Control.CreateControl(ctx, &seed.Controls[i])
				if err != nil {
					return goerr.Wrap(err, "failed to seed control", goerr.V("index", i))
				}
				logger.Debug("seeded control", "id", control.MitigationID)
			}

			for i := range seed.Risks {
				risk, err := uc.Risk.CreateRisk(ctx, &seed.Risks[i].RiskInput)
				if err != nil {
					return goerr.Wrap(err, "failed to seed risk", goerr.V("index", i))
				}
				if len(seed.Risks[i].RelatedControls) > 0 {
					if _, err := uc.Risk.SetRiskControls(ctx, risk.ID, seed.Risks[i].RelatedControls); err != nil {
						return goerr.Wrap(err, "failed to seed risk relations", goerr.V("id", risk.ID))
					}
				}
				logger.Debug("seeded risk", "id", risk.ID)
			}

			for i := range seed.UseCases {
				useCase, err := uc.UseCase.CreateUseCase(ctx, &seed.UseCases[i].UseCaseInput)
				if err != nil {
					return goerr.Wrap(err, "failed to seed use case", goerr.V("index", i))
				}
				if len(seed.UseCases[i].RelatedRisks) > 0 {
					if _, err := uc.UseCase.AssociateRisks(ctx, useCase.ID, seed.UseCases[i].RelatedRisks); err != nil {
						return goerr.Wrap(err, "failed to seed use case relations", goerr.V("id", useCase.ID))
					}
				}
				logger.Debug("seeded use case", "id", useCase.ID)
			}

			logger.Info("Seed completed",
				"controls", len(seed.Controls),
				"risks", len(seed.Risks),
				"use_cases", len(seed.UseCases),
			)
			return nil
		},
	}
}

// readSeedSource loads seed bytes from a local path or a Cloud Storage
// gs://bucket/object URL.
func readSeedSource(ctx context.Context, source string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(source, "gs://"); ok {
		bucket, object, found := strings.Cut(rest, "/")
		if !found || bucket == "" || object == "" {
			return nil, goerr.New("invalid gs:// URL, expected gs://bucket/object", goerr.V("source", source))
		}

		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create storage client")
		}
		defer safe.Close(ctx, client)

		reader, err := client.Bucket(bucket).Object(object).NewReader(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open seed object",
				goerr.V("bucket", bucket), goerr.V("object", object))
		}
		defer safe.Close(ctx, reader)

		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read seed object", goerr.V("source", source))
		}
		return data, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read seed file", goerr.V("source", source))
	}
	return data, nil
}
