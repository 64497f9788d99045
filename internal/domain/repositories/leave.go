package repositories

import (
	"context"

	"leavechat/internal/domain/models"
)

// LeaveRequestRepository is the persistence interface for leave requests.
// Implementations must support safe concurrent access: ApplyTransition on
// the same record from two goroutines must let exactly one caller win.
type LeaveRequestRepository interface {
	// Create persists a new leave request and returns it with its
	// assigned id.
	Create(ctx context.Context, req *models.LeaveRequest) (*models.LeaveRequest, error)

	// GetByID returns a single request, or domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.LeaveRequest, error)

	// ListByEmployee returns all requests filed by an employee, newest first.
	ListByEmployee(ctx context.Context, employeeID string) ([]*models.LeaveRequest, error)

	// ListPendingForSupervisor returns requests awaiting the given
	// supervisor's decision.
	ListPendingForSupervisor(ctx context.Context, supervisorID string) ([]*models.LeaveRequest, error)

	// ListPendingForHR returns supervisor-approved requests awaiting HR.
	ListPendingForHR(ctx context.Context) ([]*models.LeaveRequest, error)

	// ApplyTransition atomically moves a request from t.From to t.To and
	// records the audit fields. Returns domain.ErrNotFound if the id does
	// not exist and domain.ErrConflict if the record is no longer in
	// t.From (lost race or illegal transition).
	ApplyTransition(ctx context.Context, id string, t models.StatusTransition) (*models.LeaveRequest, error)
}
