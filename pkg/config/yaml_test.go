package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/readpat/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		clone := c.Clone()
		assert.Nil(t, clone)
	})

	t.Run("empty config", func(t *testing.T) {
		c := &config.Config{}
		clone := c.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, c, clone)
	})

	t.Run("deep copies maps", func(t *testing.T) {
		original := config.NewConfig()
		original.Patterns["kv"] = "S|'=' S. R>"

		clone := original.Clone()
		clone.Patterns["kv"] = "R>"
		clone.Errors[config.ErrorKindEndOfStream] = config.ErrorActionSuppress

		assert.Equal(t, "S|'=' S. R>", original.Patterns["kv"])
		assert.Equal(t, config.ErrorActionWrap, original.Errors[config.ErrorKindEndOfStream])
	})

	t.Run("deep copies slices", func(t *testing.T) {
		original := &config.Config{
			Ignore:     []string{"*.bak", "vendor/**"},
			Extensions: []string{".txt"},
		}

		clone := original.Clone()
		assert.Equal(t, original.Ignore, clone.Ignore)

		clone.Ignore[0] = "changed"
		clone.Extensions[0] = ".log"
		assert.Equal(t, "*.bak", original.Ignore[0])
		assert.Equal(t, ".txt", original.Extensions[0])
	})

	t.Run("preserves CLI fields", func(t *testing.T) {
		original := &config.Config{
			Comparison: config.ComparisonCulture,
			Culture:    "de",
			Format:     config.FormatJSON,
			Jobs:       4,
			Color:      "never",
		}

		clone := original.Clone()
		assert.Equal(t, original, clone)
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("basic config serializes", func(t *testing.T) {
		cfg := &config.Config{
			Comparison: config.ComparisonCulture,
			LogLevel:   "debug",
			Format:     config.FormatJSON,
		}

		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Contains(t, string(data), "comparison: culture")
		assert.Contains(t, string(data), "log_level: debug")
		assert.NotContains(t, string(data), "json", "CLI fields are not persisted")
	})
}

func TestFromYAML(t *testing.T) {
	t.Run("parses valid YAML", func(t *testing.T) {
		yaml := []byte(`
comparison: culture
culture: tr
errors:
  end-of-stream: suppress
patterns:
  csv: "(R|',' S.)*"
`)
		cfg, err := config.FromYAML(yaml)
		require.NoError(t, err)
		assert.Equal(t, config.ComparisonCulture, cfg.Comparison)
		assert.Equal(t, "tr", cfg.Culture)
		assert.Equal(t, "suppress", cfg.Errors["end-of-stream"])
		assert.Equal(t, "(R|',' S.)*", cfg.Patterns["csv"])
	})

	t.Run("initializes empty maps", func(t *testing.T) {
		cfg, err := config.FromYAML([]byte(`comparison: ordinal`))
		require.NoError(t, err)
		assert.NotNil(t, cfg.Errors)
		assert.NotNil(t, cfg.Patterns)
	})

	t.Run("rejects malformed YAML", func(t *testing.T) {
		_, err := config.FromYAML([]byte("comparison: [unclosed"))
		require.Error(t, err)
	})
}

func TestTOML(t *testing.T) {
	t.Run("parses valid TOML", func(t *testing.T) {
		data := []byte(`
comparison = "culture"
extensions = [".txt"]

[patterns]
kv = "S|'=' S. R>"
`)
		cfg, err := config.FromTOML(data)
		require.NoError(t, err)
		assert.Equal(t, config.ComparisonCulture, cfg.Comparison)
		assert.Equal(t, []string{".txt"}, cfg.Extensions)
		assert.Equal(t, "S|'=' S. R>", cfg.Patterns["kv"])
		assert.NotNil(t, cfg.Errors)
	})

	t.Run("round trips", func(t *testing.T) {
		original := config.NewConfig()
		original.Patterns["kv"] = "S|'=' S. R>"

		data, err := original.ToTOML()
		require.NoError(t, err)

		decoded, err := config.FromTOML(data)
		require.NoError(t, err)
		assert.Equal(t, original.Patterns, decoded.Patterns)
		assert.Equal(t, original.Errors, decoded.Errors)
		assert.Equal(t, original.Comparison, decoded.Comparison)
	})
}
