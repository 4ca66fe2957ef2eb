package submit

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/drovertool/drover"
	"github.com/drovertool/drover/pkg/domain"
)

// fallbackTrunk is used when the code host cannot be asked for the
// default branch, for example in an offline dry run.
const fallbackTrunk = "main"

// branchPlanPattern matches a plan number leading the final branch
// segment, the shape branches created from an issue carry
// (123-fix-crash, feat/123-add-oauth).
var branchPlanPattern = regexp.MustCompile(`^(\d{1,6})(?:[-_]|$)`)

// resolve performs all identity discovery: repository root, current
// branch, trunk, parent branch and plan linkage. No other step repeats
// any of it.
func resolve(ctx context.Context, env *drover.Env, st domain.State) (domain.State, *domain.StepError) {
	root, err := env.Git.Root(ctx, st.WorkDir)
	if err != nil {
		return st, toolError(domain.PhaseResolve, err, "cannot locate repository root from %s", st.WorkDir)
	}
	st.RepoRoot = root

	branch, err := env.Git.CurrentBranch(ctx)
	if err != nil {
		return st, toolError(domain.PhaseResolve, err, "cannot determine current branch")
	}
	st.Branch = branch

	if st.TrunkBranch == "" {
		trunk, err := env.Forge.DefaultBranch(ctx)
		if err != nil {
			env.Logger.Debug("default branch lookup failed, assuming fallback",
				"fallback", fallbackTrunk, "err", err)
			trunk = fallbackTrunk
		}
		st.TrunkBranch = trunk
	}

	if st.ParentBranch == "" {
		st.ParentBranch = st.TrunkBranch
		if st.Strategy == domain.StrategyStacked {
			rec, err := env.Stack.Tracked(ctx, st.Branch)
			switch {
			case err == nil && rec.Parent != "":
				st.ParentBranch = rec.Parent
			case err != nil && !errors.Is(err, domain.ErrNotTracked):
				// Not fatal here. If the manager is genuinely broken the
				// publish step will say so.
				env.Logger.Debug("stack parent lookup failed", "branch", st.Branch, "err", err)
			}
		}
	}

	if st.PlanNumber == 0 && st.InferPlan {
		st.PlanNumber = inferPlanNumber(st.Branch)
	}

	env.Logger.Debug("resolved identity",
		"root", st.RepoRoot, "branch", st.Branch,
		"parent", st.ParentBranch, "trunk", st.TrunkBranch,
		"plan", st.PlanNumber)
	return st, nil
}

// inferPlanNumber reads a plan number out of the branch name. Zero
// means no linkage.
func inferPlanNumber(branch string) int {
	segment := branch
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}
	m := branchPlanPattern.FindStringSubmatch(segment)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
