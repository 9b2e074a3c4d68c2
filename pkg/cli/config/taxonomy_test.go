package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskportal/pkg/cli/config"
)

func TestTaxonomyConfigure(t *testing.T) {
	t.Run("no path falls back to the built-in vocabulary", func(t *testing.T) {
		var cfg config.Taxonomy

		taxonomy, err := cfg.Configure()
		gt.NoError(t, err).Required()
		gt.Bool(t, taxonomy.HasOwner("Legal")).True()
		gt.Bool(t, taxonomy.HasStatus("Concept")).True()
	})

	t.Run("loads a TOML file", func(t *testing.T) {
		content := `
owners = ["Risk Office", "CISO"]
business_areas = ["Underwriting"]
ai_categories = ["Document Processing"]
statuses = ["Draft", "Live"]
`
		path := filepath.Join(t.TempDir(), "taxonomy.toml")
		gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()

		var cfg config.Taxonomy
		cfg.SetPath(path)

		taxonomy, err := cfg.Configure()
		gt.NoError(t, err).Required()

		gt.Array(t, taxonomy.Owners).Length(2)
		gt.Bool(t, taxonomy.HasOwner("CISO")).True()
		gt.Bool(t, taxonomy.HasOwner("Legal")).False()
		gt.Bool(t, taxonomy.HasBusinessArea("Underwriting")).True()
		gt.Bool(t, taxonomy.HasStatus("Live")).True()
	})

	t.Run("missing file is an error", func(t *testing.T) {
		var cfg config.Taxonomy
		cfg.SetPath(filepath.Join(t.TempDir(), "no-such-file.toml"))

		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("duplicate entries are rejected", func(t *testing.T) {
		content := `
owners = ["Risk Office", "Risk Office"]
`
		path := filepath.Join(t.TempDir(), "taxonomy.toml")
		gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()

		var cfg config.Taxonomy
		cfg.SetPath(path)

		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("malformed TOML is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "taxonomy.toml")
		gt.NoError(t, os.WriteFile(path, []byte("owners = [unclosed"), 0600)).Required()

		var cfg config.Taxonomy
		cfg.SetPath(path)

		_, err := cfg.Configure()
		gt.Error(t, err)
	})
}
