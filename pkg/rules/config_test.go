// Test Type: Unit Test
// Description: Tests for the rules package - rules declared in configuration

package rules_test

import (
	"testing"

	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/shade/pkg/rules"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadMap(t *testing.T, m map[string]interface{}) *koanf.Koanf {
	t.Helper()
	k := koanf.New(".")
	require.NoError(t, k.Load(confmap.Provider(m, "."), nil))
	return k
}

func TestFromConfig(t *testing.T) {
	k := loadMap(t, map[string]interface{}{
		"rules": []interface{}{
			map[string]interface{}{"kind": "rule", "pattern": "org.**", "result": "foo.@1"},
			map[string]interface{}{"kind": "zap", "pattern": "com.junk.**"},
		},
	})

	got, err := rules.FromConfig(k)
	require.NoError(t, err)
	assert.Equal(t, []rules.Rule{
		{Kind: rules.KindRule, Pattern: "org.**", Result: "foo.@1"},
		{Kind: rules.KindZap, Pattern: "com.junk.**"},
	}, got)
}

func TestFromConfig_Missing(t *testing.T) {
	got, err := rules.FromConfig(loadMap(t, map[string]interface{}{"misplaced": "omit"}))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFromConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		rule map[string]interface{}
	}{
		{"unknown kind", map[string]interface{}{"kind": "shrink", "pattern": "org.**"}},
		{"missing result", map[string]interface{}{"kind": "rule", "pattern": "org.**"}},
		{"slash pattern", map[string]interface{}{"kind": "keep", "pattern": "org/Main"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := loadMap(t, map[string]interface{}{"rules": []interface{}{tt.rule}})
			_, err := rules.FromConfig(k)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrRuleSyntax))
			assert.Contains(t, err.Error(), "rules[0]")
		})
	}
}
