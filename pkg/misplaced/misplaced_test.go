// Test Type: Unit Test
// Description: Tests for the misplaced package - policy parsing and per-policy decisions

package misplaced_test

import (
	"testing"

	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/shade/pkg/misplaced"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want misplaced.Policy
	}{
		{"", misplaced.Omit},
		{"omit", misplaced.Omit},
		{"OMIT", misplaced.Omit},
		{"fatal", misplaced.Fail},
		{"Fail", misplaced.Fail},
		{"skip", misplaced.Skip},
		{" Move ", misplaced.Move},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := misplaced.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := misplaced.Parse("relocate")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPolicyInvalid))
}

func TestDefault(t *testing.T) {
	var p misplaced.Policy
	assert.Equal(t, misplaced.Omit, p)
	assert.Equal(t, misplaced.Omit, misplaced.Default)
}

func TestHandle(t *testing.T) {
	const entry, class = "Misnamed.class", "org/example/fake/Foobar"

	tests := []struct {
		policy misplaced.Policy
		want   misplaced.Decision
	}{
		{misplaced.Skip, misplaced.Decision{Keep: true, SkipTransform: true}},
		{misplaced.Omit, misplaced.Decision{Keep: false}},
		{misplaced.Move, misplaced.Decision{Keep: true}},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			got, err := tt.policy.Handle(entry, class)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := misplaced.Fail.Handle(entry, class)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMisplacedEntry))
	assert.Contains(t, err.Error(), "jar entry: Misnamed.class")
	assert.Contains(t, err.Error(), "class name: org/example/fake/Foobar.class")

	_, err = misplaced.Policy(42).Handle(entry, class)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPolicyInvalid))
}

func TestIsMisplaced(t *testing.T) {
	assert.False(t, misplaced.IsMisplaced("org/a/Foo.class", "org/a/Foo"))
	assert.True(t, misplaced.IsMisplaced("Misnamed.class", "org/a/Foo"))
	assert.True(t, misplaced.IsMisplaced("BOOT-INF/classes/org/a/Foo.class", "org/a/Foo"))
}

func TestTextRoundTrip(t *testing.T) {
	var p misplaced.Policy
	require.NoError(t, p.UnmarshalText([]byte("Skip")))
	assert.Equal(t, misplaced.Skip, p)

	text, err := misplaced.Move.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "move", string(text))

	assert.Error(t, p.UnmarshalText([]byte("nope")))
	assert.Equal(t, "Policy(9)", misplaced.Policy(9).String())
}
