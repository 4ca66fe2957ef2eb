package domain

// PublishOutcome is the normalized result of the publish step. The
// stacked and plain strategies produce structurally different results;
// both are mapped into this one shape so every step after publish is
// strategy-agnostic.
type PublishOutcome struct {
	PRNumber   int
	PRURL      string
	BaseBranch string
	WasCreated bool
	// StackURL is set only when the stacked strategy ran. Its presence
	// is what makes the enhance step a no-op.
	StackURL string
}

// Apply folds the outcome into the state. This is the single place
// where a strategy result touches state fields.
func (o PublishOutcome) Apply(st State) State {
	st.PRNumber = o.PRNumber
	st.PRURL = o.PRURL
	st.BaseBranch = o.BaseBranch
	st.WasCreated = o.WasCreated
	if o.StackURL != "" {
		st.StackURL = o.StackURL
	}
	return st
}
