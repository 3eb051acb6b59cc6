package organization

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"coldchain/internal/org/models"
	id "coldchain/pkg/domain"
	"coldchain/pkg/platform/sentinel"
	"coldchain/pkg/platform/tx"
)

// PostgresStore persists organizations in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, org *models.Organization) error {
	if org == nil {
		return fmt.Errorf("organization is required")
	}
	_, err := tx.QuerierFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO organizations (id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.UUID(org.ID), org.Name, string(org.Status), org.CreatedAt, org.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("organization exists: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, org *models.Organization) error {
	res, err := tx.QuerierFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE organizations SET name = $2, status = $3, updated_at = $4
		WHERE id = $1
	`, uuid.UUID(org.ID), org.Name, string(org.Status), org.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update organization rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, orgID id.OrganizationID) (*models.Organization, error) {
	var org models.Organization
	var rawID uuid.UUID
	var status string
	err := tx.QuerierFrom(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM organizations WHERE id = $1
	`, uuid.UUID(orgID)).Scan(&rawID, &org.Name, &status, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find organization by id: %w", err)
	}
	org.ID = id.OrganizationID(rawID)
	org.Status = models.OrganizationStatus(status)
	return &org, nil
}

func (s *PostgresStore) SetActiveOrganization(ctx context.Context, userID id.UserID, orgID id.OrganizationID, now time.Time) error {
	_, err := tx.QuerierFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO user_active_organizations (user_id, organization_id, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET organization_id = EXCLUDED.organization_id, updated_at = EXCLUDED.updated_at
	`, uuid.UUID(userID), uuid.UUID(orgID), now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("set active organization: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindActiveOrganization(ctx context.Context, userID id.UserID) (id.OrganizationID, error) {
	var rawID uuid.UUID
	err := tx.QuerierFrom(ctx, s.db).QueryRowContext(ctx, `
		SELECT organization_id FROM user_active_organizations WHERE user_id = $1
	`, uuid.UUID(userID)).Scan(&rawID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return id.OrganizationID{}, sentinel.ErrNotFound
		}
		return id.OrganizationID{}, fmt.Errorf("find active organization: %w", err)
	}
	return id.OrganizationID(rawID), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
