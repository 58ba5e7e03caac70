package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mechbio/mechkb/statements"
)

func TestPoliciesFor(t *testing.T) {
	var p Policies
	assert.Equal(t, PolicyDefault, p.For(statements.KindModification))

	p.Global = PolicyTwoStep
	assert.Equal(t, PolicyTwoStep, p.For(statements.KindModification))
	assert.Equal(t, PolicyTwoStep, p.For(statements.KindComplex))

	p.PerKind = map[statements.Kind]string{statements.KindComplex: PolicyMultiWay}
	assert.Equal(t, PolicyMultiWay, p.For(statements.KindComplex))
	assert.Equal(t, PolicyTwoStep, p.For(statements.KindModification),
		"per-kind entries override the global policy only for their kind")
}

func TestResolveFallsBackToDefault(t *testing.T) {
	// Translocation registers no multi_way handler, so the default one
	// is picked up.
	fn, err := resolve(statements.KindTranslocation, StageAssemble, PolicyMultiWay)
	require.NoError(t, err)
	assert.NotNil(t, fn)
}

func TestResolveUnknownKind(t *testing.T) {
	_, err := resolve(statements.Kind("conversion"), StageAssemble, PolicyDefault)
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestRegistryCoversAssemblableKinds(t *testing.T) {
	for kind := range assemblable {
		for _, stage := range []Stage{StageMonomers, StageAssemble} {
			_, err := resolve(kind, stage, PolicyDefault)
			assert.NoError(t, err, "kind %s stage %s", kind, stage)
		}
	}
}
