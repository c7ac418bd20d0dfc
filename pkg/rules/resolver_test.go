// Test Type: Unit Test
// Description: Tests for the rules package - rule resolution by specificity

package rules_test

import (
	"testing"

	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/shade/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rule(pattern, result string) rules.Rule {
	return rules.Rule{Kind: rules.KindRule, Pattern: pattern, Result: result}
}

func TestResolver_Replace(t *testing.T) {
	r, err := rules.NewResolver([]rules.Rule{
		rule("org.**", "foo.@1"),
		rule("org.example.**", "bar.@1"),
		rule("org.example.*", "first.@1"),
		rule("org.example.*", "second.@1"),
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"longest literal prefix wins", "org/example/sub/Thing", "bar/sub/Thing", true},
		{"equal prefix keeps first declared", "org/example/Thing", "bar/Thing", true},
		{"broad rule applies elsewhere", "org/other/Thing", "foo/other/Thing", true},
		{"no match", "com/example/Thing", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Replace(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_TieBreakByDeclarationOrder(t *testing.T) {
	r, err := rules.NewResolver([]rules.Rule{
		rule("org.example.*", "first.@1"),
		rule("org.example.*", "second.@1"),
	})
	require.NoError(t, err)

	m, ok := r.Resolve("org/example/Thing", rules.KindRule)
	require.True(t, ok)
	assert.Equal(t, "first/Thing", m.Result)
	assert.Equal(t, "first.@1", m.Rule.Result)
}

func TestResolver_Zap(t *testing.T) {
	r, err := rules.NewResolver([]rules.Rule{
		{Kind: rules.KindZap, Pattern: "org.**"},
		{Kind: rules.KindZap, Pattern: "META-INF.versions.9.**"},
	})
	require.NoError(t, err)

	assert.True(t, r.Zapped("org/example/Object"))
	assert.False(t, r.Zapped("com/example/Object"))
	assert.True(t, r.Zapped("META-INF/versions/9/org/example/Object"))
	assert.False(t, r.Zapped("META-INF/versions/8/org/example/Object"))

	// zap and rule tables are independent
	_, renamed := r.Replace("org/example/Object")
	assert.False(t, renamed)
}

func TestResolver_Keep(t *testing.T) {
	r, err := rules.NewResolver([]rules.Rule{
		rule("org.**", "foo.@1"),
		{Kind: rules.KindKeep, Pattern: "org.example.Main"},
		{Kind: rules.KindKeep, Pattern: "org.api.**"},
	})
	require.NoError(t, err)

	assert.True(t, r.HasKeeps())
	assert.True(t, r.Kept("org/example/Main"))
	assert.True(t, r.Kept("org/api/v1/Client"))
	assert.False(t, r.Kept("org/example/Helper"))
	assert.Len(t, r.Keeps(), 2)

	m, ok := r.Resolve("org/api/v1/Client", rules.KindKeep)
	require.True(t, ok)
	assert.Empty(t, m.Result)
}

func TestResolver_ExplicitRename(t *testing.T) {
	r, err := rules.NewResolver([]rules.Rule{
		{Kind: rules.KindRename, Pattern: "org/example/libnative.so", Result: "com/example/shaded_libnative.so"},
		{Kind: rules.KindRename, Pattern: "org/example/libnative.so", Result: "ignored.so"},
	})
	require.NoError(t, err)

	got, ok := r.ExplicitRename("org/example/libnative.so")
	require.True(t, ok)
	assert.Equal(t, "com/example/shaded_libnative.so", got)

	_, ok = r.ExplicitRename("com/example/shaded_libnative.so")
	assert.False(t, ok)
	assert.True(t, r.HasRules(rules.KindRename))
	assert.False(t, r.HasKeeps())
}

func TestNewResolver_Errors(t *testing.T) {
	tests := []struct {
		name string
		rule rules.Rule
		code errors.ErrorCode
	}{
		{"placeholder out of range", rules.Rule{Kind: rules.KindRule, Pattern: "org.*", Result: "foo.@2", Line: 4}, errors.ErrPatternInvalid},
		{"bare double star", rules.Rule{Kind: rules.KindZap, Pattern: "**"}, errors.ErrPatternInvalid},
		{"missing result", rules.Rule{Kind: rules.KindRule, Pattern: "org.**"}, errors.ErrRuleSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rules.NewResolver([]rules.Rule{tt.rule})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
			if tt.rule.Line > 0 {
				assert.Contains(t, err.Error(), "line 4")
			}
		})
	}
}

func TestResolver_Rules(t *testing.T) {
	in := []rules.Rule{rule("a.**", "b.@1"), {Kind: rules.KindZap, Pattern: "c.**"}}
	r, err := rules.NewResolver(in)
	require.NoError(t, err)
	assert.Equal(t, in, r.Rules())
}
