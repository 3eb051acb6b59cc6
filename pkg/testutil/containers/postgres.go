//go:build integration

package containers

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"coldchain/migrations"
	id "coldchain/pkg/domain"
)

// moduleTables lists every table the migrations create, children first.
var moduleTables = []string{
	"fleet_sets",
	"reefer_units",
	"trailers",
	"vehicles",
	"drivers",
	"carriers",
	"user_active_organizations",
	"memberships",
	"organizations",
	"users",
}

// PostgresContainer is a migrated database shared by the suites of one
// test binary.
type PostgresContainer struct {
	Container testcontainers.Container
	DB        *sql.DB
}

// NewPostgresContainer starts Postgres and applies the embedded migrations.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("coldchain_test"),
		postgres.WithUsername("coldchain"),
		postgres.WithPassword("coldchain_test_password"),
		testcontainers.WithWaitStrategy(
			// The server restarts once after initdb, hence two occurrences.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	fail := func(format string, args ...any) {
		_ = container.Terminate(ctx)
		t.Fatalf(format, args...)
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fail("failed to get postgres connection string: %v", err)
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		fail("failed to open postgres: %v", err)
	}
	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		fail("failed to run migrations: %v", err)
	}
	return &PostgresContainer{Container: container, DB: db}
}

// TruncateModuleTables empties every application table.
func (p *PostgresContainer) TruncateModuleTables(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+strings.Join(moduleTables, ", ")+" CASCADE")
	return err
}

// CreateTestOrganization inserts an active organization.
func (p *PostgresContainer) CreateTestOrganization(ctx context.Context, t testing.TB) id.OrganizationID {
	t.Helper()
	orgID := id.OrganizationID(uuid.New())
	p.mustExec(ctx, t, `
		INSERT INTO organizations (id, name, status, created_at, updated_at)
		VALUES ($1, $2, 'active', NOW(), NOW())
	`, uuid.UUID(orgID), "Reefer Co "+orgID.String()[:8])
	return orgID
}

// CreateTestUser inserts a user that cannot sign in.
func (p *PostgresContainer) CreateTestUser(ctx context.Context, t testing.TB) id.UserID {
	t.Helper()
	userID := id.UserID(uuid.New())
	p.mustExec(ctx, t, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, '!', 'Test', 'Driver', NOW(), NOW())
	`, uuid.UUID(userID), "user-"+userID.String()+"@polar.example")
	return userID
}

// CreateTestCarrier inserts a carrier owned by orgID.
func (p *PostgresContainer) CreateTestCarrier(ctx context.Context, t testing.TB, orgID id.OrganizationID) id.CarrierID {
	t.Helper()
	carrierID := id.CarrierID(uuid.New())
	p.mustExec(ctx, t, `
		INSERT INTO carriers (id, organization_id, name, created_at)
		VALUES ($1, $2, 'Nordic Haulage', NOW())
	`, uuid.UUID(carrierID), uuid.UUID(orgID))
	return carrierID
}

func (p *PostgresContainer) mustExec(ctx context.Context, t testing.TB, query string, args ...any) {
	t.Helper()
	if _, err := p.DB.ExecContext(ctx, query, args...); err != nil {
		t.Fatalf("fixture insert: %v", err)
	}
}
