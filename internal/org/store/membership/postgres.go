package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"coldchain/contracts/session"
	"coldchain/internal/org/models"
	id "coldchain/pkg/domain"
	"coldchain/pkg/platform/sentinel"
	"coldchain/pkg/platform/tx"
)

const membershipColumns = `id, organization_id, user_id, email, role, status, invited_by, suspended_at, created_at, updated_at`

// PostgresStore persists memberships in PostgreSQL. The partial unique index
// on (organization_id, user_id) backs the one-membership-per-user rule.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, m *models.Membership) error {
	_, err := tx.QuerierFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO memberships (`+membershipColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, uuid.UUID(m.ID), uuid.UUID(m.OrganizationID), nullableUserID(m.UserID), m.Email,
		string(m.Role), string(m.Status), nullableUserID(m.InvitedBy), m.SuspendedAt, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("membership exists: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create membership: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, m *models.Membership) error {
	res, err := tx.QuerierFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE memberships
		SET user_id = $2, role = $3, status = $4, suspended_at = $5, updated_at = $6
		WHERE id = $1
	`, uuid.UUID(m.ID), nullableUserID(m.UserID), string(m.Role), string(m.Status), m.SuspendedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user already a member: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("update membership: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update membership rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, orgID id.OrganizationID, membershipID id.MembershipID) (*models.Membership, error) {
	row := tx.QuerierFrom(ctx, s.db).QueryRowContext(ctx, `
		SELECT `+membershipColumns+` FROM memberships
		WHERE organization_id = $1 AND id = $2
	`, uuid.UUID(orgID), uuid.UUID(membershipID))
	return scanOne(row, "find membership")
}

func (s *PostgresStore) FindByUser(ctx context.Context, orgID id.OrganizationID, userID id.UserID) (*models.Membership, error) {
	row := tx.QuerierFrom(ctx, s.db).QueryRowContext(ctx, `
		SELECT `+membershipColumns+` FROM memberships
		WHERE organization_id = $1 AND user_id = $2
	`, uuid.UUID(orgID), uuid.UUID(userID))
	return scanOne(row, "find membership by user")
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Membership, error) {
	return s.query(ctx, "list memberships by user", `
		SELECT `+membershipColumns+` FROM memberships
		WHERE user_id = $1 ORDER BY created_at
	`, uuid.UUID(userID))
}

func (s *PostgresStore) ListByOrganization(ctx context.Context, orgID id.OrganizationID) ([]*models.Membership, error) {
	return s.query(ctx, "list memberships by organization", `
		SELECT `+membershipColumns+` FROM memberships
		WHERE organization_id = $1 ORDER BY created_at
	`, uuid.UUID(orgID))
}

func (s *PostgresStore) ListPendingByEmail(ctx context.Context, email string) ([]*models.Membership, error) {
	return s.query(ctx, "list pending invitations", `
		SELECT `+membershipColumns+` FROM memberships
		WHERE user_id IS NULL AND status <> 'inactive' AND lower(email) = $1
		ORDER BY created_at DESC
		FOR UPDATE
	`, strings.ToLower(email))
}

func (s *PostgresStore) ListSuspendedSince(ctx context.Context, since time.Time) ([]*models.Membership, error) {
	return s.query(ctx, "list suspended memberships", `
		SELECT `+membershipColumns+` FROM memberships
		WHERE status = 'suspended' AND suspended_at > $1
		ORDER BY suspended_at
	`, since)
}

func (s *PostgresStore) query(ctx context.Context, action, query string, args ...any) ([]*models.Membership, error) {
	rows, err := tx.QuerierFrom(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	defer rows.Close()

	out := make([]*models.Membership, 0)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", action, err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	return out, nil
}

type membershipRow interface {
	Scan(dest ...any) error
}

func scanOne(row membershipRow, action string) (*models.Membership, error) {
	m, err := scanMembership(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	return m, nil
}

func scanMembership(row membershipRow) (*models.Membership, error) {
	var (
		m              models.Membership
		rawID, rawOrg  uuid.UUID
		rawUser, rawBy uuid.NullUUID
		role, status   string
		suspendedAt    sql.NullTime
	)
	if err := row.Scan(&rawID, &rawOrg, &rawUser, &m.Email, &role, &status, &rawBy, &suspendedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.ID = id.MembershipID(rawID)
	m.OrganizationID = id.OrganizationID(rawOrg)
	m.Role = session.Role(role)
	m.Status = session.MembershipStatus(status)
	if rawUser.Valid {
		u := id.UserID(rawUser.UUID)
		m.UserID = &u
	}
	if rawBy.Valid {
		u := id.UserID(rawBy.UUID)
		m.InvitedBy = &u
	}
	if suspendedAt.Valid {
		t := suspendedAt.Time
		m.SuspendedAt = &t
	}
	return &m, nil
}

func nullableUserID(u *id.UserID) uuid.NullUUID {
	if u == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*u), Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
