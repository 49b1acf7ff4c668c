package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/encypherai/c2patext/model"
)

func TestAssertionConstructors(t *testing.T) {
	a := model.NewActionsAssertion([]model.Action{{Label: model.ActionCreated}})
	assert.Equal(t, model.AssertionActions, a.Label)

	sb := model.NewSoftBindingAssertion("deadbeef")
	assert.Equal(t, "sha256", sb.Data["alg"])

	hd := model.NewHashDataAssertion("abc123", []model.ExclusionRange{{Start: 1, Length: 2}})
	assert.Equal(t, model.AssertionHashData, hd.Label)
}

func TestManifestAssertionLookup(t *testing.T) {
	m := model.C2PAManifest{
		Assertions: []model.Assertion{
			model.NewActionsAssertion(nil),
			model.NewSoftBindingAssertion("x"),
		},
	}
	_, ok := m.Assertion(model.AssertionHashData)
	assert.False(t, ok)
	_, ok = m.Assertion(model.AssertionSoftBind)
	assert.True(t, ok)
}

func TestAIAssertionInfoRoundTrip(t *testing.T) {
	name := "gpt-x"
	info := model.AIAssertionInfo{Generator: "encypher", ModelName: &name}
	m := info.ToMap()

	back, ok := model.AIAssertionInfoFromMap(m)
	assert.True(t, ok)
	assert.Equal(t, info.Generator, back.Generator)
	assert.Equal(t, *info.ModelName, *back.ModelName)
}

func TestFormatTags(t *testing.T) {
	assert.Equal(t, model.FormatBasic, model.Basic{}.FormatTag())
	assert.Equal(t, model.FormatManifestJSON, model.LegacyManifest{}.FormatTag())
	assert.Equal(t, model.FormatC2PA, model.C2PAManifest{}.FormatTag())
}
