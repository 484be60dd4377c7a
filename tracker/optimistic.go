package tracker

// =============================================================================
// OPTIMISTIC MUTATION - apply(tentative) then commit-or-rollback(outcome)
// =============================================================================

// Optimistic models a two-phase local mutation: the tentative state is
// applied before the persisted write is issued, and the write's outcome
// decides which state survives. It is a pure value; no store, no UI.
type Optimistic[S any] struct {
	Prior     S
	Tentative S
}

// Apply records the prior state and the tentative replacement.
func Apply[S any](prior, tentative S) Optimistic[S] {
	return Optimistic[S]{Prior: prior, Tentative: tentative}
}

// Resolve returns the state that survives the write outcome: the
// tentative state on success, the prior state on failure. No retry.
func (o Optimistic[S]) Resolve(writeErr error) S {
	if writeErr != nil {
		return o.Prior
	}
	return o.Tentative
}
