package models

import (
	"fmt"
	"time"
)

// LeaveStatus tracks a leave request through the two-stage approval flow.
type LeaveStatus string

const (
	StatusPendingSupervisor  LeaveStatus = "pending_supervisor_approval"
	StatusApprovedSupervisor LeaveStatus = "approved_by_supervisor"
	StatusApprovedHR         LeaveStatus = "approved_by_hr"
	StatusRejected           LeaveStatus = "rejected"
)

// Valid reports whether the status is one of the known workflow states.
func (s LeaveStatus) Valid() bool {
	switch s {
	case StatusPendingSupervisor, StatusApprovedSupervisor, StatusApprovedHR, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the status accepts no further transitions.
func (s LeaveStatus) Terminal() bool {
	return s == StatusApprovedHR || s == StatusRejected
}

// TransitionFrom returns the status a request must currently hold for a
// caller with the given role to move it to the target status. The only
// legal edges are:
//
//	pending_supervisor_approval -> approved_by_supervisor  (supervisor)
//	pending_supervisor_approval -> rejected                (supervisor)
//	approved_by_supervisor      -> approved_by_hr          (hr)
//	approved_by_supervisor      -> rejected                (hr)
//
// Any other (target, role) pair is a guard violation.
func TransitionFrom(target LeaveStatus, role Role) (LeaveStatus, error) {
	switch target {
	case StatusApprovedSupervisor:
		if role != RoleSupervisor {
			return "", fmt.Errorf("only a supervisor can set status %s", target)
		}
		return StatusPendingSupervisor, nil
	case StatusApprovedHR:
		if role != RoleHR {
			return "", fmt.Errorf("only hr can set status %s", target)
		}
		return StatusApprovedSupervisor, nil
	case StatusRejected:
		switch role {
		case RoleSupervisor:
			return StatusPendingSupervisor, nil
		case RoleHR:
			return StatusApprovedSupervisor, nil
		default:
			return "", fmt.Errorf("role %s cannot reject requests", role)
		}
	default:
		return "", fmt.Errorf("invalid target status %q", target)
	}
}

// LeaveRequest is the durable workflow entity. It is owned by the store
// and mutated only through guarded status transitions.
type LeaveRequest struct {
	ID           string      `json:"id"`
	EmployeeID   string      `json:"employee_id"`
	SupervisorID string      `json:"supervisor_id"`
	LeaveType    string      `json:"leave_type"`
	StartDate    time.Time   `json:"start_date"`
	EndDate      time.Time   `json:"end_date"`
	Reason       *string     `json:"reason,omitempty"`
	Status       LeaveStatus `json:"status"`
	RequestedAt  time.Time   `json:"requested_at"`

	// Audit trail, populated per approval stage reached.
	SupervisorActionBy *string    `json:"supervisor_action_by,omitempty"`
	SupervisorActionAt *time.Time `json:"supervisor_action_at,omitempty"`
	HRActionBy         *string    `json:"hr_action_by,omitempty"`
	HRActionAt         *time.Time `json:"hr_action_at,omitempty"`
	RejectionReason    *string    `json:"rejection_reason,omitempty"`
}

// StatusTransition describes one guarded status change to apply to a
// leave request. From is the status the record must currently hold; the
// store rejects the transition otherwise.
type StatusTransition struct {
	From            LeaveStatus
	To              LeaveStatus
	ActorID         string
	ActorRole       Role
	ActedAt         time.Time
	RejectionReason *string
}
