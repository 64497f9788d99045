package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"leavechat/internal/auth"
	"leavechat/internal/config"
	"leavechat/internal/domain/models"
	"leavechat/internal/repository/postgres"

	"github.com/joho/godotenv"
)

// seedUsers is the demo account set: one employee reporting to one
// supervisor, plus an HR manager.
var seedUsers = []struct {
	username     string
	password     string
	role         models.Role
	employeeID   string
	supervisorID string
}{
	{username: "hr_manager", password: "hr_password", role: models.RoleHR, employeeID: "HR001"},
	{username: "supervisor_john", password: "sup_password", role: models.RoleSupervisor, employeeID: "SUP001"},
	{username: "employee_kamal", password: "emp_password", role: models.RoleEmployee, employeeID: "EMP123", supervisorID: "SUP001"},
}

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed users")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := postgres.DropTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	log.Println("Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	users := postgres.NewUserRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	})

	for _, u := range seedUsers {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", u.username, err)
		}
		err = users.Create(ctx, &models.User{
			Username:     u.username,
			PasswordHash: hash,
			Role:         u.role,
			EmployeeID:   u.employeeID,
			SupervisorID: u.supervisorID,
		})
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", u.username, err)
		}
		log.Printf("Seeded user %s (%s)", u.username, u.role)
	}

	log.Println("Seeding complete")
	log.Println("--- Test Users ---")
	log.Println("HR:         username='hr_manager', password='hr_password'")
	log.Println("Supervisor: username='supervisor_john', password='sup_password'")
	log.Println("Employee:   username='employee_kamal', password='emp_password'")
}
