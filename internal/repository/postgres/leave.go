package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leavechat/internal/domain"
	"leavechat/internal/domain/models"
	"leavechat/internal/domain/repositories"
)

// PostgresLeaveRequestRepository implements the LeaveRequestRepository
// interface. Status transitions use a conditional UPDATE keyed on the
// current status, so two racing transition attempts on the same record
// resolve to exactly one winner without any application-side locking.
type PostgresLeaveRequestRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewLeaveRequestRepository creates a new PostgresLeaveRequestRepository
func NewLeaveRequestRepository(config *RepositoryConfig) repositories.LeaveRequestRepository {
	return &PostgresLeaveRequestRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const leaveColumns = `
	id, employee_id, supervisor_id, leave_type, start_date, end_date,
	reason, status, requested_at,
	supervisor_action_by, supervisor_action_at,
	hr_action_by, hr_action_at, rejection_reason
`

// Create persists a new leave request with a freshly assigned id.
func (r *PostgresLeaveRequestRepository) Create(ctx context.Context, req *models.LeaveRequest) (*models.LeaveRequest, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			id, employee_id, supervisor_id, leave_type, start_date, end_date,
			reason, status, requested_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, r.tables.LeaveRequests, leaveColumns)

	id := uuid.New().String()
	row := r.pool.QueryRow(ctx, query,
		id,
		req.EmployeeID,
		req.SupervisorID,
		req.LeaveType,
		req.StartDate,
		req.EndDate,
		req.Reason,
		req.Status,
		req.RequestedAt,
	)

	created, err := scanLeaveRequest(row)
	if err != nil {
		return nil, fmt.Errorf("create leave request: %w", err)
	}

	r.logger.Info("leave request created",
		"request_id", created.ID,
		"employee_id", created.EmployeeID,
	)

	return created, nil
}

// GetByID returns a single request by id.
func (r *PostgresLeaveRequestRepository) GetByID(ctx context.Context, id string) (*models.LeaveRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, leaveColumns, r.tables.LeaveRequests)

	req, err := scanLeaveRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get leave request: %w", err)
	}

	return req, nil
}

// ListByEmployee returns all requests filed by an employee, newest first.
func (r *PostgresLeaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*models.LeaveRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE employee_id = $1
		ORDER BY requested_at DESC
	`, leaveColumns, r.tables.LeaveRequests)

	return r.queryMany(ctx, query, employeeID)
}

// ListPendingForSupervisor returns requests awaiting the supervisor's decision.
func (r *PostgresLeaveRequestRepository) ListPendingForSupervisor(ctx context.Context, supervisorID string) ([]*models.LeaveRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE supervisor_id = $1 AND status = $2
		ORDER BY requested_at ASC
	`, leaveColumns, r.tables.LeaveRequests)

	return r.queryMany(ctx, query, supervisorID, models.StatusPendingSupervisor)
}

// ListPendingForHR returns supervisor-approved requests awaiting HR.
func (r *PostgresLeaveRequestRepository) ListPendingForHR(ctx context.Context) ([]*models.LeaveRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE status = $1
		ORDER BY requested_at ASC
	`, leaveColumns, r.tables.LeaveRequests)

	return r.queryMany(ctx, query, models.StatusApprovedSupervisor)
}

// ApplyTransition atomically moves a request from t.From to t.To. The
// WHERE clause carries the expected current status; zero rows affected
// means either the id is unknown or another transition got there first,
// and a follow-up read disambiguates the two.
func (r *PostgresLeaveRequestRepository) ApplyTransition(ctx context.Context, id string, t models.StatusTransition) (*models.LeaveRequest, error) {
	var query string
	switch t.ActorRole {
	case models.RoleSupervisor:
		query = fmt.Sprintf(`
			UPDATE %s
			SET status = $1,
			    supervisor_action_by = $2,
			    supervisor_action_at = $3,
			    rejection_reason = COALESCE($4, rejection_reason)
			WHERE id = $5 AND status = $6
			RETURNING %s
		`, r.tables.LeaveRequests, leaveColumns)
	case models.RoleHR:
		query = fmt.Sprintf(`
			UPDATE %s
			SET status = $1,
			    hr_action_by = $2,
			    hr_action_at = $3,
			    rejection_reason = COALESCE($4, rejection_reason)
			WHERE id = $5 AND status = $6
			RETURNING %s
		`, r.tables.LeaveRequests, leaveColumns)
	default:
		return nil, fmt.Errorf("role %s cannot act on leave requests: %w", t.ActorRole, domain.ErrForbidden)
	}

	row := r.pool.QueryRow(ctx, query,
		t.To,
		t.ActorID,
		t.ActedAt,
		t.RejectionReason,
		id,
		t.From,
	)

	updated, err := scanLeaveRequest(row)
	if err == nil {
		r.logger.Info("leave request transitioned",
			"request_id", id,
			"from", t.From,
			"to", t.To,
			"actor", t.ActorID,
		)
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("transition leave request: %w", err)
	}

	// Conditional update matched nothing: missing record or status moved on.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, domain.ErrConflict
}

func (r *PostgresLeaveRequestRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*models.LeaveRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*models.LeaveRequest, 0)
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}

	return requests, nil
}

func scanLeaveRequest(row pgx.Row) (*models.LeaveRequest, error) {
	var req models.LeaveRequest
	err := row.Scan(
		&req.ID,
		&req.EmployeeID,
		&req.SupervisorID,
		&req.LeaveType,
		&req.StartDate,
		&req.EndDate,
		&req.Reason,
		&req.Status,
		&req.RequestedAt,
		&req.SupervisorActionBy,
		&req.SupervisorActionAt,
		&req.HRActionBy,
		&req.HRActionAt,
		&req.RejectionReason,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
