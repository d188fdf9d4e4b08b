package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/readpat/pkg/config"
)

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		decode func([]byte) (*config.Config, error)
	}{
		{name: "default is yaml", format: "", decode: config.FromYAML},
		{name: "yaml", format: "yaml", decode: config.FromYAML},
		{name: "toml", format: "TOML", decode: config.FromTOML},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			data, err := config.GenerateTemplate(config.TemplateOptions{Format: testCase.format})
			require.NoError(t, err)
			assert.Contains(t, string(data), "# readpat configuration")

			cfg, err := testCase.decode(data)
			require.NoError(t, err, "template must decode")
			assert.Equal(t, config.ComparisonOrdinal, cfg.Comparison)
			assert.Equal(t, "wrap", cfg.Errors["end-of-stream"])
			assert.Equal(t, "S|'=' S. R>", cfg.Patterns["value"])
		})
	}
}

func TestGenerateTemplate_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
	require.ErrorIs(t, err, config.ErrUnknownTemplateFormat)
}

func TestComparison_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, config.ComparisonOrdinal.IsValid())
	assert.True(t, config.ComparisonCulture.IsValid())
	assert.False(t, config.Comparison("invariant").IsValid())
}
