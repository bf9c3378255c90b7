package domain

// CycleState is the lifecycle stage of one completion cycle.
type CycleState string

// Completion cycle states.
const (
	CycleIdle        CycleState = "idle"
	CycleDispatching CycleState = "dispatching"
	CycleCollecting  CycleState = "collecting"
	CycleRanking     CycleState = "ranking"
	CycleDelivered   CycleState = "delivered"

	// CycleSuperseded is terminal: a newer cycle was issued and this
	// cycle's result was discarded without delivery.
	CycleSuperseded CycleState = "superseded"

	// CycleFailed is terminal: delivery itself returned an error.
	CycleFailed CycleState = "failed"
)

// IsTerminal reports whether no further transitions follow.
func (s CycleState) IsTerminal() bool {
	switch s {
	case CycleDelivered, CycleSuperseded, CycleFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s CycleState) String() string {
	return string(s)
}
