package tools

import (
	"context"
	"fmt"
	"strings"

	"leavechat/internal/domain/models"
	"leavechat/internal/service"
)

// LeaveOps is the slice of the leave service the operation executors need.
type LeaveOps interface {
	Create(ctx context.Context, input service.CreateLeaveRequestInput) (*models.LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*models.LeaveRequest, error)
	ListPendingForSupervisor(ctx context.Context, supervisorID string) ([]*models.LeaveRequest, error)
	ListPendingForHR(ctx context.Context) ([]*models.LeaveRequest, error)
	Decide(ctx context.Context, input service.DecideInput) (*models.LeaveRequest, error)
}

type createLeaveRequestTool struct {
	leave LeaveOps
}

func (t *createLeaveRequestTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	employeeID, err := stringArg(input, "employee_id")
	if err != nil {
		return nil, err
	}
	supervisorID, err := stringArg(input, "supervisor_id")
	if err != nil {
		return nil, err
	}
	leaveType, err := stringArg(input, "leave_type")
	if err != nil {
		return nil, err
	}
	startDate, err := stringArg(input, "start_date")
	if err != nil {
		return nil, err
	}
	endDate, err := stringArg(input, "end_date")
	if err != nil {
		return nil, err
	}

	created, err := t.leave.Create(ctx, service.CreateLeaveRequestInput{
		EmployeeID:   employeeID,
		SupervisorID: supervisorID,
		LeaveType:    leaveType,
		StartDate:    startDate,
		EndDate:      endDate,
		Reason:       optionalStringArg(input, "reason"),
	})
	if err != nil {
		return nil, err
	}

	return fmt.Sprintf("Successfully created the leave request. The request ID is %s.", created.ID), nil
}

type getMyLeaveRequestsTool struct {
	leave LeaveOps
}

func (t *getMyLeaveRequestsTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	employeeID, err := stringArg(input, "employee_id")
	if err != nil {
		return nil, err
	}
	return t.leave.ListByEmployee(ctx, employeeID)
}

type getPendingSupervisorTool struct {
	leave LeaveOps
}

func (t *getPendingSupervisorTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	supervisorID, err := stringArg(input, "supervisor_id")
	if err != nil {
		return nil, err
	}
	return t.leave.ListPendingForSupervisor(ctx, supervisorID)
}

type getPendingHRTool struct {
	leave LeaveOps
}

func (t *getPendingHRTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	return t.leave.ListPendingForHR(ctx)
}

type approveOrRejectTool struct {
	leave LeaveOps
}

func (t *approveOrRejectTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	requestID, err := stringArg(input, "request_id")
	if err != nil {
		return nil, err
	}
	newStatus, err := stringArg(input, "new_status")
	if err != nil {
		return nil, err
	}
	approverID, err := stringArg(input, "approver_id")
	if err != nil {
		return nil, err
	}
	approverRole, err := stringArg(input, "approver_role")
	if err != nil {
		return nil, err
	}

	updated, err := t.leave.Decide(ctx, service.DecideInput{
		RequestID:       requestID,
		NewStatus:       models.LeaveStatus(newStatus),
		ApproverID:      approverID,
		ApproverRole:    models.Role(approverRole),
		RejectionReason: optionalStringArg(input, "rejection_reason"),
	})
	if err != nil {
		return nil, err
	}

	return fmt.Sprintf("Request %s has been successfully updated to %s.", updated.ID, updated.Status), nil
}

func stringArg(input map[string]interface{}, key string) (string, error) {
	value, ok := input[key].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("missing required parameter: %s (string)", key)
	}
	return strings.TrimSpace(value), nil
}

func optionalStringArg(input map[string]interface{}, key string) *string {
	value, ok := input[key].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(value)
	return &trimmed
}
