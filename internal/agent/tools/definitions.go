package tools

// Definition is the schema surfaced to the language model gateway for one
// operation: a name, a description, and a JSON-schema input object.
type Definition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// Definitions returns the catalog surfaced to the gateway, one entry per
// registered operation.
func (r *Registry) Definitions() []Definition {
	return []Definition{
		createLeaveRequestDefinition(),
		getMyLeaveRequestsDefinition(),
		getPendingSupervisorDefinition(),
		getPendingHRDefinition(),
		approveOrRejectDefinition(),
	}
}

func createLeaveRequestDefinition() Definition {
	return Definition{
		Name:        string(OpCreateLeaveRequest),
		Description: "Creates a new leave request for an employee.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"employee_id": map[string]interface{}{
					"type":        "string",
					"description": "The unique ID of the employee making the request.",
				},
				"supervisor_id": map[string]interface{}{
					"type":        "string",
					"description": "The unique ID of the employee's supervisor.",
				},
				"leave_type": map[string]interface{}{
					"type":        "string",
					"description": "Type of leave (e.g., 'Annual', 'Sick').",
				},
				"start_date": map[string]interface{}{
					"type":        "string",
					"description": "Start date of leave. Should be a clear date like '2025-07-15'.",
				},
				"end_date": map[string]interface{}{
					"type":        "string",
					"description": "End date of leave. Should be a clear date like '2025-07-16'.",
				},
				"reason": map[string]interface{}{
					"type":        "string",
					"description": "Reason for leave.",
				},
			},
			"required": []string{"employee_id", "supervisor_id", "leave_type", "start_date", "end_date"},
		},
	}
}

func getMyLeaveRequestsDefinition() Definition {
	return Definition{
		Name:        string(OpGetMyLeaveRequests),
		Description: "Fetches all leave requests for a specific employee.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"employee_id": map[string]interface{}{
					"type":        "string",
					"description": "The unique ID of the employee.",
				},
			},
			"required": []string{"employee_id"},
		},
	}
}

func getPendingSupervisorDefinition() Definition {
	return Definition{
		Name:        string(OpGetPendingSupervisorQueue),
		Description: "Fetches leave requests pending approval for a specific supervisor.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"supervisor_id": map[string]interface{}{
					"type":        "string",
					"description": "The unique ID of the supervisor.",
				},
			},
			"required": []string{"supervisor_id"},
		},
	}
}

func getPendingHRDefinition() Definition {
	return Definition{
		Name:        string(OpGetPendingHRQueue),
		Description: "Fetches leave requests pending final approval from HR.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	}
}

func approveOrRejectDefinition() Definition {
	return Definition{
		Name:        string(OpApproveOrRejectRequest),
		Description: "Approves or rejects a leave request and updates its status.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"request_id": map[string]interface{}{
					"type":        "string",
					"description": "The unique ID of the leave request.",
				},
				"new_status": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"approved_by_supervisor", "approved_by_hr", "rejected"},
					"description": "The new status: 'approved_by_supervisor', 'approved_by_hr', or 'rejected'.",
				},
				"approver_id": map[string]interface{}{
					"type":        "string",
					"description": "The employee ID of the person approving/rejecting.",
				},
				"approver_role": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"supervisor", "hr"},
					"description": "The role of the person approving/rejecting ('supervisor' or 'hr').",
				},
				"rejection_reason": map[string]interface{}{
					"type":        "string",
					"description": "Reason for rejection, if applicable.",
				},
			},
			"required": []string{"request_id", "new_status", "approver_id", "approver_role"},
		},
	}
}
