// Package status holds the pure transition rules for ticket and case
// statuses. It performs no I/O; resume-from-hold targets are supplied by the
// caller, which infers them from history.
package status

import (
	"github.com/e-wheels/workshop-service/internal/domain"
	"github.com/e-wheels/workshop-service/pkg/errorutil"
)

// ticketTransitions maps each ticket status to the statuses directly
// reachable from it. Forward-chain skips are permitted; moving backward
// requires passing through on_hold. The reported->triaged move is absent on
// purpose: only a successful triage advances a ticket to triaged.
var ticketTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusReported: {
		domain.TicketStatusOnHold,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusTriaged: {
		domain.TicketStatusAssigned,
		domain.TicketStatusInProgress,
		domain.TicketStatusCompleted,
		domain.TicketStatusDelivered,
		domain.TicketStatusClosed,
		domain.TicketStatusOnHold,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusAssigned: {
		domain.TicketStatusInProgress,
		domain.TicketStatusCompleted,
		domain.TicketStatusDelivered,
		domain.TicketStatusClosed,
		domain.TicketStatusOnHold,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusInProgress: {
		domain.TicketStatusWaitingApproval,
		domain.TicketStatusCompleted,
		domain.TicketStatusDelivered,
		domain.TicketStatusClosed,
		domain.TicketStatusOnHold,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusWaitingApproval: {
		domain.TicketStatusInProgress,
		domain.TicketStatusOnHold,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusCompleted: {
		domain.TicketStatusDelivered,
		domain.TicketStatusClosed,
		domain.TicketStatusOnHold,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusDelivered: {
		domain.TicketStatusClosed,
		domain.TicketStatusOnHold,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusOnHold: {
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusClosed:    {},
	domain.TicketStatusCancelled: {},
}

// IsTicketStatus reports whether value names a known ticket status.
func IsTicketStatus(value domain.TicketStatus) bool {
	_, ok := ticketTransitions[value]
	return ok
}

// IsTicketTerminal reports whether status admits no further transitions.
func IsTicketTerminal(status domain.TicketStatus) bool {
	return status == domain.TicketStatusClosed || status == domain.TicketStatusCancelled
}

// ValidateTicketTransition checks the static transition table. Resuming out
// of on_hold is validated by ValidateTicketResume instead, because the
// target depends on the pre-hold status recorded in history.
func ValidateTicketTransition(current, next domain.TicketStatus) error {
	if !IsTicketStatus(next) {
		return errorutil.NewValidationError("unknown ticket status", map[string]any{"status": string(next)})
	}
	for _, candidate := range ticketTransitions[current] {
		if candidate == next {
			return nil
		}
	}
	return errorutil.NewInvalidTransition(string(current), string(next))
}

// ValidateTicketResume checks a transition out of on_hold: the only allowed
// target besides cancellation is the status held immediately before the hold.
func ValidateTicketResume(next, preHold domain.TicketStatus) error {
	if next == preHold {
		return nil
	}
	return errorutil.NewInvalidTransition(string(domain.TicketStatusOnHold), string(next))
}
