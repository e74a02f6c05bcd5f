package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labs-lang/sliver/internal/info"
)

func TestSlugIncludesStepsFairnessAndValues(t *testing.T) {
	s := slug("/tmp/foo bar.labs", 10, true, false, []string{"N=3"})
	assert.Equal(t, "foo_bar_10_fair_N3", s)
}

func TestSlugMarksUnfair(t *testing.T) {
	s := slug("prog.labs", 5, false, true, nil)
	assert.Equal(t, "prog_5_unfair_sync", s)
}

func TestSanitizeIdentReplacesLeadingDigitAndSpecialChars(t *testing.T) {
	assert.Equal(t, "_3go", sanitizeIdent("23go"))
	assert.Equal(t, "a_b", sanitizeIdent("a-b"))
}

func TestSelectPropertyDefaultsToFirstWhenNameEmpty(t *testing.T) {
	inf := info.Info{Properties: []info.Property{{Name: "p1"}, {Name: "p2"}}}
	p, err := selectProperty(inf, "")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.Name)
}

func TestSelectPropertyFindsByName(t *testing.T) {
	inf := info.Info{Properties: []info.Property{{Name: "p1"}, {Name: "p2"}}}
	p, err := selectProperty(inf, "p2")
	require.NoError(t, err)
	assert.Equal(t, "p2", p.Name)
}

func TestSelectPropertyErrorsOnUnknownName(t *testing.T) {
	inf := info.Info{Properties: []info.Property{{Name: "p1"}}}
	_, err := selectProperty(inf, "missing")
	assert.Error(t, err)
}

func TestConditionTextStripsLeadingModalityKeyword(t *testing.T) {
	p := info.Property{Modality: info.Always, Text: "always i.x > 0"}
	assert.Equal(t, "i.x > 0", ConditionText(p))
}

func TestConditionTextLeavesTextAloneWithoutKeywordPrefix(t *testing.T) {
	p := info.Property{Modality: info.Always, Text: "i.x > 0"}
	assert.Equal(t, "i.x > 0", ConditionText(p))
}
