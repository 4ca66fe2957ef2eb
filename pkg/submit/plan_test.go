package submit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drovertool/drover"
	"github.com/drovertool/drover/pkg/adapters/memory"
	"github.com/drovertool/drover/pkg/domain"
)

func TestFetchPlan_NoLinkageAsksNothing(t *testing.T) {
	w := newWorld(memory.GitFixture{}, memory.ForgeFixture{}, noStack())

	in := publishState("feat/x", domain.StrategyPlain)
	st, stepErr := fetchPlan(context.Background(), w.env, in)
	require.Nil(t, stepErr)
	assert.Equal(t, in, st)
	assert.Empty(t, w.forge.Ops())
}

func TestFetchPlan_FillsContext(t *testing.T) {
	w := newWorld(memory.GitFixture{}, memory.ForgeFixture{
		Issues: []domain.Issue{{Number: 42, Title: "Plan title", Body: "Plan body."}},
	}, noStack())

	in := publishState("feat/x", domain.StrategyPlain)
	in.PlanNumber = 42

	st, stepErr := fetchPlan(context.Background(), w.env, in)
	require.Nil(t, stepErr)
	assert.Equal(t, "Plan title", st.PlanTitle)
	assert.Equal(t, "Plan body.", st.PlanBody)
}

func TestFetchPlan_MissingIssueDropsLinkage(t *testing.T) {
	w := newWorld(memory.GitFixture{}, memory.ForgeFixture{}, noStack())

	in := publishState("421-cleanup", domain.StrategyPlain)
	in.PlanNumber = 421

	st, stepErr := fetchPlan(context.Background(), w.env, in)
	require.Nil(t, stepErr, "an inferred number that does not exist is not an error")
	assert.Zero(t, st.PlanNumber)
	assert.Empty(t, st.PlanTitle)
}

func TestFetchPlan_HostFailure(t *testing.T) {
	w := newWorld(memory.GitFixture{}, memory.ForgeFixture{}, noStack(),
		drover.WithForge(issueErrForge{
			Forge: memory.NewForge(memory.ForgeFixture{}),
			err:   errors.New("rate limited"),
		}),
	)

	in := publishState("feat/x", domain.StrategyPlain)
	in.PlanNumber = 5

	_, stepErr := fetchPlan(context.Background(), w.env, in)
	require.NotNil(t, stepErr)
	assert.Equal(t, domain.PhasePlan, stepErr.Phase)
	assert.Equal(t, domain.KindPlanFetch, stepErr.Kind)
}
