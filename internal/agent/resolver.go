package agent

import (
	"fmt"

	"leavechat/internal/agent/tools"
	"leavechat/internal/domain/models"
)

// ResolveCall is the trust boundary between the gateway and the store.
// It checks that the caller's role may request the operation at all, then
// overwrites every identity-bearing argument with values from the
// authenticated caller. The gateway is instructed to use the right ids,
// but nothing it supplies is trusted: a prompt-injected conversation can
// never act as someone else.
//
// A nil error means the returned call is safe to dispatch. Errors are
// authorization failures and are always non-fatal to the conversation;
// the loop feeds them back as error results.
func ResolveCall(call tools.Call, caller *models.CallerIdentity) (tools.Call, error) {
	op, ok := tools.ParseOp(call.Name)
	if !ok {
		// Let the registry produce its not-found result.
		return call, nil
	}

	resolved := call
	resolved.Input = make(map[string]interface{}, len(call.Input))
	for k, v := range call.Input {
		resolved.Input[k] = v
	}

	switch op {
	case tools.OpCreateLeaveRequest:
		if caller.Role != models.RoleEmployee {
			return call, permissionError(call.Name, caller.Role)
		}
		resolved.Input["employee_id"] = caller.EmployeeID
		resolved.Input["supervisor_id"] = caller.SupervisorID

	case tools.OpGetMyLeaveRequests:
		if caller.Role != models.RoleEmployee {
			return call, permissionError(call.Name, caller.Role)
		}
		resolved.Input["employee_id"] = caller.EmployeeID

	case tools.OpGetPendingSupervisorQueue:
		if caller.Role != models.RoleSupervisor {
			return call, permissionError(call.Name, caller.Role)
		}
		resolved.Input["supervisor_id"] = caller.EmployeeID

	case tools.OpGetPendingHRQueue:
		if caller.Role != models.RoleHR {
			return call, permissionError(call.Name, caller.Role)
		}

	case tools.OpApproveOrRejectRequest:
		if caller.Role != models.RoleSupervisor && caller.Role != models.RoleHR {
			return call, permissionError(call.Name, caller.Role)
		}
		resolved.Input["approver_id"] = caller.EmployeeID
		resolved.Input["approver_role"] = string(caller.Role)
	}

	return resolved, nil
}

func permissionError(opName string, role models.Role) error {
	return fmt.Errorf("role %s is not permitted to use %s", role, opName)
}
