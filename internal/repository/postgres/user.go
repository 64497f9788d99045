package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leavechat/internal/domain"
	"leavechat/internal/domain/models"
	"leavechat/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserRepository creates a new PostgresUserRepository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByUsername retrieves an account by username
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT username, password_hash, role, employee_id, COALESCE(supervisor_id, '')
		FROM %s
		WHERE username = $1
	`, r.tables.Users)

	var user models.User
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.EmployeeID,
		&user.SupervisorID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// Create persists a new account, replacing an existing one with the same
// username. Only the seed command writes users.
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (username, password_hash, role, employee_id, supervisor_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		ON CONFLICT (username) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role,
			employee_id = EXCLUDED.employee_id,
			supervisor_id = EXCLUDED.supervisor_id
	`, r.tables.Users)

	_, err := r.pool.Exec(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.EmployeeID,
		user.SupervisorID,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	r.logger.Info("user upserted", "username", user.Username, "role", user.Role)
	return nil
}
