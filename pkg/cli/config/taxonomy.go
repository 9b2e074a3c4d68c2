package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Taxonomy holds the CLI flag for the vocabulary configuration file
type Taxonomy struct {
	path string
}

// Flags returns CLI flags for taxonomy configuration
func (t *Taxonomy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "taxonomy",
			Usage:       "Path to taxonomy TOML file (owners, business areas, AI categories, statuses)",
			Sources:     cli.EnvVars("RISKPORTAL_TAXONOMY"),
			Destination: &t.path,
		},
	}
}

// Configure loads the taxonomy from the TOML file, falling back to the
// built-in vocabulary when no path is given.
func (t *Taxonomy) Configure() (*model.Taxonomy, error) {
	if t.path == "" {
		logging.Default().Info("Using built-in taxonomy")
		return model.DefaultTaxonomy(), nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(t.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read taxonomy file", goerr.V("path", t.path))
	}

	var taxonomy model.Taxonomy
	if err := toml.Unmarshal(data, &taxonomy); err != nil {
		return nil, goerr.Wrap(err, "failed to parse taxonomy TOML", goerr.V("path", t.path))
	}

	if err := taxonomy.Validate(); err != nil {
		return nil, goerr.Wrap(err, "taxonomy validation failed", goerr.V("path", t.path))
	}

	logging.Default().Info("Loaded taxonomy", "path", t.path,
		"owners", len(taxonomy.Owners),
		"business_areas", len(taxonomy.BusinessAreas),
		"ai_categories", len(taxonomy.AICategories),
		"statuses", len(taxonomy.Statuses),
	)
	return &taxonomy, nil
}
