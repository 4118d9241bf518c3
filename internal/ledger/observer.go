package ledger

// Outcome classifies a single device attempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeLocked  Outcome = "locked"
	OutcomeFailure Outcome = "failure"
	OutcomeTimeout Outcome = "timeout"
)

// Observer receives session and attempt events, e.g. to export metrics.
type Observer interface {
	ObserveSessionInit(err error)
	ObserveAttempt(op string, outcome Outcome)
}

type nopObserver struct{}

func (nopObserver) ObserveSessionInit(error) {}
func (nopObserver) ObserveAttempt(string, Outcome) {}
