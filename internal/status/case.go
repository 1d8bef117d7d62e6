package status

import (
	"github.com/e-wheels/workshop-service/internal/domain"
	"github.com/e-wheels/workshop-service/pkg/errorutil"
)

// caseTransitions is the same shape as the ticket table restricted to the
// case vocabulary: forward chain received -> diagnosed -> in_progress ->
// completed -> delivered with skips allowed, on_hold and cancelled reachable
// from any non-terminal state.
var caseTransitions = map[domain.CaseStatus][]domain.CaseStatus{
	domain.CaseStatusReceived: {
		domain.CaseStatusDiagnosed,
		domain.CaseStatusInProgress,
		domain.CaseStatusCompleted,
		domain.CaseStatusDelivered,
		domain.CaseStatusOnHold,
		domain.CaseStatusCancelled,
	},
	domain.CaseStatusDiagnosed: {
		domain.CaseStatusInProgress,
		domain.CaseStatusCompleted,
		domain.CaseStatusDelivered,
		domain.CaseStatusOnHold,
		domain.CaseStatusCancelled,
	},
	domain.CaseStatusInProgress: {
		domain.CaseStatusCompleted,
		domain.CaseStatusDelivered,
		domain.CaseStatusOnHold,
		domain.CaseStatusCancelled,
	},
	domain.CaseStatusCompleted: {
		domain.CaseStatusDelivered,
		domain.CaseStatusOnHold,
		domain.CaseStatusCancelled,
	},
	domain.CaseStatusOnHold: {
		domain.CaseStatusCancelled,
	},
	domain.CaseStatusDelivered: {},
	domain.CaseStatusCancelled: {},
}

// IsCaseStatus reports whether value names a known case status.
func IsCaseStatus(value domain.CaseStatus) bool {
	_, ok := caseTransitions[value]
	return ok
}

// IsCaseTerminal reports whether status admits no further transitions.
func IsCaseTerminal(status domain.CaseStatus) bool {
	return status == domain.CaseStatusDelivered || status == domain.CaseStatusCancelled
}

// ValidateCaseTransition checks the static transition table. Resuming out of
// on_hold is validated by ValidateCaseResume instead.
func ValidateCaseTransition(current, next domain.CaseStatus) error {
	if !IsCaseStatus(next) {
		return errorutil.NewValidationError("unknown case status", map[string]any{"status": string(next)})
	}
	for _, candidate := range caseTransitions[current] {
		if candidate == next {
			return nil
		}
	}
	return errorutil.NewInvalidTransition(string(current), string(next))
}

// ValidateCaseResume checks a transition out of on_hold against the pre-hold
// status recorded in history.
func ValidateCaseResume(next, preHold domain.CaseStatus) error {
	if next == preHold {
		return nil
	}
	return errorutil.NewInvalidTransition(string(domain.CaseStatusOnHold), string(next))
}
