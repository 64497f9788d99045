package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"leavechat/internal/domain"
	"leavechat/internal/domain/models"
	"leavechat/internal/domain/repositories"
)

// dateLayouts are the calendar-date formats accepted on creation.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// CreateLeaveRequestInput carries the arguments for filing a new request.
// Dates arrive as strings because they come from tool invocations.
type CreateLeaveRequestInput struct {
	EmployeeID   string
	SupervisorID string
	LeaveType    string
	StartDate    string
	EndDate      string
	Reason       *string
}

// DecideInput carries an approve/reject decision on an existing request.
type DecideInput struct {
	RequestID       string
	NewStatus       models.LeaveStatus
	ApproverID      string
	ApproverRole    models.Role
	RejectionReason *string
}

// TypeCatalog answers whether a leave type is part of the configured
// policy. Advisory only: an uncatalogued type is logged, not rejected.
type TypeCatalog interface {
	Known(name string) bool
}

// LeaveService owns the leave-request workflow rules: creation validation
// and the approval state machine. All status changes go through Decide;
// nothing else may write a status.
type LeaveService struct {
	repo   repositories.LeaveRequestRepository
	types  TypeCatalog
	logger *slog.Logger
	now    func() time.Time
}

// NewLeaveService creates a new LeaveService. types may be nil to skip
// the leave-type policy check.
func NewLeaveService(repo repositories.LeaveRequestRepository, types TypeCatalog, logger *slog.Logger) *LeaveService {
	return &LeaveService{
		repo:   repo,
		types:  types,
		logger: logger,
		now:    time.Now,
	}
}

// Create validates and persists a new leave request in the initial
// pending_supervisor_approval state.
func (s *LeaveService) Create(ctx context.Context, input CreateLeaveRequestInput) (*models.LeaveRequest, error) {
	if err := s.validateCreateInput(&input); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	start, err := parseDate(input.StartDate)
	if err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("start_date %q is not a valid date (expected YYYY-MM-DD)", input.StartDate)}
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("end_date %q is not a valid date (expected YYYY-MM-DD)", input.EndDate)}
	}
	if end.Before(start) {
		return nil, &domain.ValidationError{Message: "end_date must not precede start_date"}
	}

	if s.types != nil && !s.types.Known(input.LeaveType) {
		// Uncatalogued types are accepted; the catalog only steers the
		// assistant, it is not an allowlist.
		s.logger.Warn("uncatalogued leave type",
			"leave_type", input.LeaveType,
			"employee_id", input.EmployeeID,
		)
	}

	req := &models.LeaveRequest{
		EmployeeID:   input.EmployeeID,
		SupervisorID: input.SupervisorID,
		LeaveType:    input.LeaveType,
		StartDate:    start,
		EndDate:      end,
		Reason:       input.Reason,
		Status:       models.StatusPendingSupervisor,
		RequestedAt:  s.now().UTC(),
	}

	return s.repo.Create(ctx, req)
}

// ListByEmployee returns all requests filed by the employee.
func (s *LeaveService) ListByEmployee(ctx context.Context, employeeID string) ([]*models.LeaveRequest, error) {
	return s.repo.ListByEmployee(ctx, employeeID)
}

// ListPendingForSupervisor returns requests awaiting the supervisor.
func (s *LeaveService) ListPendingForSupervisor(ctx context.Context, supervisorID string) ([]*models.LeaveRequest, error) {
	return s.repo.ListPendingForSupervisor(ctx, supervisorID)
}

// ListPendingForHR returns supervisor-approved requests awaiting HR.
func (s *LeaveService) ListPendingForHR(ctx context.Context) ([]*models.LeaveRequest, error) {
	return s.repo.ListPendingForHR(ctx)
}

// Decide applies an approve or reject decision. The transition guard is
// enforced twice: once here against the loaded record (role authority and
// supervisor identity), and once atomically in the store through the
// conditional update, so a racing decision cannot double-apply.
func (s *LeaveService) Decide(ctx context.Context, input DecideInput) (*models.LeaveRequest, error) {
	if err := s.validateDecideInput(&input); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	from, err := models.TransitionFrom(input.NewStatus, input.ApproverRole)
	if err != nil {
		return nil, &domain.ForbiddenError{Message: err.Error()}
	}

	current, err := s.repo.GetByID(ctx, input.RequestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("leave request %s not found", input.RequestID)}
		}
		return nil, err
	}

	// Only the supervisor named on the request may act at the
	// supervisor stage.
	if input.ApproverRole == models.RoleSupervisor && current.SupervisorID != input.ApproverID {
		return nil, &domain.ForbiddenError{
			Message: fmt.Sprintf("request %s is assigned to supervisor %s", input.RequestID, current.SupervisorID),
		}
	}

	if current.Status != from {
		return nil, transitionConflict(current.Status)
	}

	updated, err := s.repo.ApplyTransition(ctx, input.RequestID, models.StatusTransition{
		From:            from,
		To:              input.NewStatus,
		ActorID:         input.ApproverID,
		ActorRole:       input.ApproverRole,
		ActedAt:         s.now().UTC(),
		RejectionReason: input.RejectionReason,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Lost the race between the read above and the update.
			latest, getErr := s.repo.GetByID(ctx, input.RequestID)
			if getErr == nil {
				return nil, transitionConflict(latest.Status)
			}
			return nil, transitionConflict("")
		}
		return nil, err
	}

	return updated, nil
}

func transitionConflict(current models.LeaveStatus) error {
	if current == "" {
		return &domain.ValidationError{Message: "request was already processed"}
	}
	return &domain.ValidationError{
		Message: fmt.Sprintf("request was already processed: current status is %s", current),
	}
}

func (s *LeaveService) validateCreateInput(input *CreateLeaveRequestInput) error {
	return validation.ValidateStruct(input,
		validation.Field(&input.EmployeeID, validation.Required),
		validation.Field(&input.SupervisorID, validation.Required),
		validation.Field(&input.LeaveType, validation.Required, validation.Length(1, 64)),
		validation.Field(&input.StartDate, validation.Required),
		validation.Field(&input.EndDate, validation.Required),
	)
}

func (s *LeaveService) validateDecideInput(input *DecideInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.RequestID, validation.Required),
		validation.Field(&input.NewStatus, validation.Required, validation.In(
			models.StatusApprovedSupervisor,
			models.StatusApprovedHR,
			models.StatusRejected,
		)),
		validation.Field(&input.ApproverID, validation.Required),
		validation.Field(&input.ApproverRole, validation.Required),
	)
	if err != nil {
		return err
	}

	// Rejections carry a reason; approvals do not require one.
	if input.NewStatus == models.StatusRejected {
		if input.RejectionReason == nil || *input.RejectionReason == "" {
			return fmt.Errorf("rejection_reason is required when rejecting a request")
		}
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Truncate(24 * time.Hour), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}
