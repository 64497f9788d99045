package models

import "testing"

func TestTransitionFromLegalEdges(t *testing.T) {
	tests := []struct {
		target LeaveStatus
		role   Role
		from   LeaveStatus
	}{
		{StatusApprovedSupervisor, RoleSupervisor, StatusPendingSupervisor},
		{StatusApprovedHR, RoleHR, StatusApprovedSupervisor},
		{StatusRejected, RoleSupervisor, StatusPendingSupervisor},
		{StatusRejected, RoleHR, StatusApprovedSupervisor},
	}

	for _, tt := range tests {
		from, err := TransitionFrom(tt.target, tt.role)
		if err != nil {
			t.Errorf("TransitionFrom(%s, %s) failed: %v", tt.target, tt.role, err)
			continue
		}
		if from != tt.from {
			t.Errorf("TransitionFrom(%s, %s) = %s, want %s", tt.target, tt.role, from, tt.from)
		}
	}
}

func TestTransitionFromIllegalEdges(t *testing.T) {
	tests := []struct {
		name   string
		target LeaveStatus
		role   Role
	}{
		{"employee approves", StatusApprovedSupervisor, RoleEmployee},
		{"employee rejects", StatusRejected, RoleEmployee},
		{"hr takes supervisor stage", StatusApprovedSupervisor, RoleHR},
		{"supervisor takes hr stage", StatusApprovedHR, RoleSupervisor},
		{"pending is not a target", StatusPendingSupervisor, RoleSupervisor},
		{"unknown target", LeaveStatus("cancelled"), RoleHR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := TransitionFrom(tt.target, tt.role); err == nil {
				t.Errorf("TransitionFrom(%s, %s) should fail", tt.target, tt.role)
			}
		})
	}
}

func TestTerminalStatuses(t *testing.T) {
	if !StatusApprovedHR.Terminal() || !StatusRejected.Terminal() {
		t.Error("approved_by_hr and rejected are terminal")
	}
	if StatusPendingSupervisor.Terminal() || StatusApprovedSupervisor.Terminal() {
		t.Error("pending and supervisor-approved are not terminal")
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []LeaveStatus{StatusPendingSupervisor, StatusApprovedSupervisor, StatusApprovedHR, StatusRejected} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if LeaveStatus("on_hold").Valid() {
		t.Error("on_hold should not be valid")
	}
}
