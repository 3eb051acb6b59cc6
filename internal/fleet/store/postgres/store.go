// Package postgres persists fleet resources and fleet sets in PostgreSQL.
// Every query runs on the transaction carried by ctx when one is present.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"coldchain/internal/fleet/models"
	id "coldchain/pkg/domain"
	"coldchain/pkg/platform/sentinel"
	"coldchain/pkg/platform/tx"
)

const (
	uniqueViolation = "23505"

	activeVehicleIndex = "fleet_sets_active_vehicle_key"
	activeDriverIndex  = "fleet_sets_active_driver_key"
	activeTrailerIndex = "fleet_sets_active_trailer_key"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) q(ctx context.Context) tx.Querier {
	return tx.QuerierFrom(ctx, s.db)
}

func (s *Store) CreateCarrier(ctx context.Context, c *models.Carrier) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO carriers (id, organization_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.UUID(c.ID), uuid.UUID(c.OrganizationID), c.Name, c.CreatedAt)
	if err != nil {
		return translateWriteErr(err, "create carrier")
	}
	return nil
}

func (s *Store) FindCarrier(ctx context.Context, orgID id.OrganizationID, carrierID id.CarrierID) (*models.Carrier, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT id, organization_id, name, created_at
		FROM carriers WHERE organization_id = $1 AND id = $2
	`, uuid.UUID(orgID), uuid.UUID(carrierID))
	c, err := scanCarrier(row)
	if err != nil {
		return nil, translateReadErr(err, "find carrier")
	}
	return c, nil
}

func (s *Store) ListCarriers(ctx context.Context, orgID id.OrganizationID) ([]*models.Carrier, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT id, organization_id, name, created_at
		FROM carriers WHERE organization_id = $1 ORDER BY created_at
	`, uuid.UUID(orgID))
	if err != nil {
		return nil, fmt.Errorf("list carriers: %w", err)
	}
	return scanAll(rows, scanCarrier)
}

func (s *Store) CreateDriver(ctx context.Context, d *models.Driver) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO drivers (id, organization_id, carrier_id, first_name, last_name, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.UUID(d.ID), uuid.UUID(d.OrganizationID), uuid.UUID(d.CarrierID), d.FirstName, d.LastName, d.Phone, d.CreatedAt)
	if err != nil {
		return translateWriteErr(err, "create driver")
	}
	return nil
}

func (s *Store) FindDriver(ctx context.Context, orgID id.OrganizationID, driverID id.DriverID) (*models.Driver, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT id, organization_id, carrier_id, first_name, last_name, phone, created_at
		FROM drivers WHERE organization_id = $1 AND id = $2
	`, uuid.UUID(orgID), uuid.UUID(driverID))
	d, err := scanDriver(row)
	if err != nil {
		return nil, translateReadErr(err, "find driver")
	}
	return d, nil
}

func (s *Store) ListDrivers(ctx context.Context, orgID id.OrganizationID) ([]*models.Driver, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT id, organization_id, carrier_id, first_name, last_name, phone, created_at
		FROM drivers WHERE organization_id = $1 ORDER BY created_at
	`, uuid.UUID(orgID))
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	return scanAll(rows, scanDriver)
}

func (s *Store) CreateVehicle(ctx context.Context, v *models.Vehicle) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO vehicles (id, organization_id, carrier_id, plate, vehicle_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.UUID(v.ID), uuid.UUID(v.OrganizationID), uuid.UUID(v.CarrierID), v.Plate, string(v.Type), v.CreatedAt)
	if err != nil {
		return translateWriteErr(err, "create vehicle")
	}
	return nil
}

func (s *Store) FindVehicle(ctx context.Context, orgID id.OrganizationID, vehicleID id.VehicleID) (*models.Vehicle, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT id, organization_id, carrier_id, plate, vehicle_type, created_at
		FROM vehicles WHERE organization_id = $1 AND id = $2
	`, uuid.UUID(orgID), uuid.UUID(vehicleID))
	v, err := scanVehicle(row)
	if err != nil {
		return nil, translateReadErr(err, "find vehicle")
	}
	return v, nil
}

func (s *Store) ListVehicles(ctx context.Context, orgID id.OrganizationID) ([]*models.Vehicle, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT id, organization_id, carrier_id, plate, vehicle_type, created_at
		FROM vehicles WHERE organization_id = $1 ORDER BY plate
	`, uuid.UUID(orgID))
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return scanAll(rows, scanVehicle)
}

func (s *Store) CreateTrailer(ctx context.Context, t *models.Trailer) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO trailers (id, organization_id, carrier_id, plate, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.UUID(t.ID), uuid.UUID(t.OrganizationID), uuid.UUID(t.CarrierID), t.Plate, t.CreatedAt)
	if err != nil {
		return translateWriteErr(err, "create trailer")
	}
	return nil
}

func (s *Store) FindTrailer(ctx context.Context, orgID id.OrganizationID, trailerID id.TrailerID) (*models.Trailer, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT id, organization_id, carrier_id, plate, created_at
		FROM trailers WHERE organization_id = $1 AND id = $2
	`, uuid.UUID(orgID), uuid.UUID(trailerID))
	t, err := scanTrailer(row)
	if err != nil {
		return nil, translateReadErr(err, "find trailer")
	}
	return t, nil
}

func (s *Store) ListTrailers(ctx context.Context, orgID id.OrganizationID) ([]*models.Trailer, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT id, organization_id, carrier_id, plate, created_at
		FROM trailers WHERE organization_id = $1 ORDER BY plate
	`, uuid.UUID(orgID))
	if err != nil {
		return nil, fmt.Errorf("list trailers: %w", err)
	}
	return scanAll(rows, scanTrailer)
}

const reeferColumns = `id, organization_id, serial_number, model, owner_kind, owner_id,
	device_ident, flespi_device_id, created_at, updated_at`

func (s *Store) CreateReefer(ctx context.Context, r *models.ReeferUnit) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO reefer_units (`+reeferColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, uuid.UUID(r.ID), uuid.UUID(r.OrganizationID), r.SerialNumber, r.Model,
		string(r.Owner.Kind()), r.Owner.OwnerID(), r.DeviceIdent, r.FlespiDeviceID, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return translateWriteErr(err, "create reefer unit")
	}
	return nil
}

func (s *Store) UpdateReefer(ctx context.Context, r *models.ReeferUnit) error {
	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE reefer_units
		SET model = $3, owner_kind = $4, owner_id = $5, device_ident = $6, flespi_device_id = $7, updated_at = $8
		WHERE organization_id = $1 AND id = $2
	`, uuid.UUID(r.OrganizationID), uuid.UUID(r.ID), r.Model, string(r.Owner.Kind()), r.Owner.OwnerID(),
		r.DeviceIdent, r.FlespiDeviceID, r.UpdatedAt)
	if err != nil {
		return translateWriteErr(err, "update reefer unit")
	}
	return requireAffected(res, "update reefer unit")
}

func (s *Store) FindReefer(ctx context.Context, orgID id.OrganizationID, reeferID id.ReeferID) (*models.ReeferUnit, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT `+reeferColumns+`
		FROM reefer_units WHERE organization_id = $1 AND id = $2
	`, uuid.UUID(orgID), uuid.UUID(reeferID))
	r, err := scanReefer(row)
	if err != nil {
		return nil, translateReadErr(err, "find reefer unit")
	}
	return r, nil
}

func (s *Store) ListReefers(ctx context.Context, orgID id.OrganizationID) ([]*models.ReeferUnit, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT `+reeferColumns+`
		FROM reefer_units WHERE organization_id = $1 ORDER BY serial_number
	`, uuid.UUID(orgID))
	if err != nil {
		return nil, fmt.Errorf("list reefer units: %w", err)
	}
	return scanAll(rows, scanReefer)
}

const setColumns = `id, organization_id, carrier_id, driver_id, vehicle_id, trailer_id,
	valid_from, valid_to, active, updated_at, created_at`

// Create inserts a fleet set. A second active binding for any resource is
// rejected by the partial unique indexes and reported as sentinel.ErrConflict.
func (s *Store) Create(ctx context.Context, set *models.FleetSet) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO fleet_sets (`+setColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, setArgs(set)...)
	if err != nil {
		return translateWriteErr(err, "create fleet set")
	}
	return nil
}

func (s *Store) Update(ctx context.Context, set *models.FleetSet) error {
	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE fleet_sets
		SET carrier_id = $3, driver_id = $4, vehicle_id = $5, trailer_id = $6,
		    valid_from = $7, valid_to = $8, active = $9, updated_at = $10
		WHERE id = $1 AND organization_id = $2
	`, setArgs(set)[:10]...)
	if err != nil {
		return translateWriteErr(err, "update fleet set")
	}
	return requireAffected(res, "update fleet set")
}

func (s *Store) FindByID(ctx context.Context, orgID id.OrganizationID, setID id.FleetSetID) (*models.FleetSet, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT `+setColumns+`
		FROM fleet_sets WHERE organization_id = $1 AND id = $2
	`, uuid.UUID(orgID), uuid.UUID(setID))
	set, err := scanSet(row)
	if err != nil {
		return nil, translateReadErr(err, "find fleet set")
	}
	return set, nil
}

func (s *Store) List(ctx context.Context, orgID id.OrganizationID, activeOnly bool) ([]*models.FleetSet, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT `+setColumns+`
		FROM fleet_sets
		WHERE organization_id = $1 AND (active OR NOT $2)
		ORDER BY valid_from DESC
	`, uuid.UUID(orgID), activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list fleet sets: %w", err)
	}
	return scanAll(rows, scanSet)
}

func (s *Store) FindActiveByDriver(ctx context.Context, orgID id.OrganizationID, driverID id.DriverID) (*models.FleetSet, error) {
	return s.findActive(ctx, "driver_id", uuid.UUID(orgID), uuid.UUID(driverID))
}

func (s *Store) FindActiveByTrailer(ctx context.Context, orgID id.OrganizationID, trailerID id.TrailerID) (*models.FleetSet, error) {
	return s.findActive(ctx, "trailer_id", uuid.UUID(orgID), uuid.UUID(trailerID))
}

func (s *Store) FindActiveByVehicle(ctx context.Context, orgID id.OrganizationID, vehicleID id.VehicleID) (*models.FleetSet, error) {
	return s.findActive(ctx, "vehicle_id", uuid.UUID(orgID), uuid.UUID(vehicleID))
}

// findActive looks up the active set holding a resource. column is one of a
// fixed set of identifiers and never user input.
func (s *Store) findActive(ctx context.Context, column string, orgID, resourceID uuid.UUID) (*models.FleetSet, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT `+setColumns+`
		FROM fleet_sets
		WHERE organization_id = $1 AND `+column+` = $2 AND active
		FOR UPDATE
	`, orgID, resourceID)
	set, err := scanSet(row)
	if err != nil {
		return nil, translateReadErr(err, "find active fleet set")
	}
	return set, nil
}

func (s *Store) ReleaseDriver(ctx context.Context, orgID id.OrganizationID, driverID id.DriverID, except id.FleetSetID, now time.Time) (int, error) {
	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE fleet_sets SET driver_id = NULL, updated_at = $4
		WHERE organization_id = $1 AND driver_id = $2 AND active AND id <> $3
	`, uuid.UUID(orgID), uuid.UUID(driverID), uuid.UUID(except), now)
	return affected(res, err, "release driver")
}

func (s *Store) ReleaseTrailer(ctx context.Context, orgID id.OrganizationID, trailerID id.TrailerID, except id.FleetSetID, now time.Time) (int, error) {
	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE fleet_sets SET trailer_id = NULL, updated_at = $4
		WHERE organization_id = $1 AND trailer_id = $2 AND active AND id <> $3
	`, uuid.UUID(orgID), uuid.UUID(trailerID), uuid.UUID(except), now)
	return affected(res, err, "release trailer")
}

func (s *Store) EndActiveForVehicle(ctx context.Context, orgID id.OrganizationID, vehicleID id.VehicleID, except id.FleetSetID, now time.Time) (int, error) {
	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE fleet_sets SET active = FALSE, valid_to = $4, updated_at = $4
		WHERE organization_id = $1 AND vehicle_id = $2 AND active AND id <> $3
	`, uuid.UUID(orgID), uuid.UUID(vehicleID), uuid.UUID(except), now)
	return affected(res, err, "end vehicle fleet set")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAll[T any](rows *sql.Rows, scan func(scanner) (*T, error)) ([]*T, error) {
	defer rows.Close()
	var out []*T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func scanCarrier(row scanner) (*models.Carrier, error) {
	var (
		c          models.Carrier
		cid, orgID uuid.UUID
	)
	if err := row.Scan(&cid, &orgID, &c.Name, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.ID = id.CarrierID(cid)
	c.OrganizationID = id.OrganizationID(orgID)
	return &c, nil
}

func scanDriver(row scanner) (*models.Driver, error) {
	var (
		d                     models.Driver
		did, orgID, carrierID uuid.UUID
	)
	if err := row.Scan(&did, &orgID, &carrierID, &d.FirstName, &d.LastName, &d.Phone, &d.CreatedAt); err != nil {
		return nil, err
	}
	d.ID = id.DriverID(did)
	d.OrganizationID = id.OrganizationID(orgID)
	d.CarrierID = id.CarrierID(carrierID)
	return &d, nil
}

func scanVehicle(row scanner) (*models.Vehicle, error) {
	var (
		v                     models.Vehicle
		vid, orgID, carrierID uuid.UUID
		vehicleType           string
	)
	if err := row.Scan(&vid, &orgID, &carrierID, &v.Plate, &vehicleType, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.ID = id.VehicleID(vid)
	v.OrganizationID = id.OrganizationID(orgID)
	v.CarrierID = id.CarrierID(carrierID)
	v.Type = models.VehicleType(vehicleType)
	return &v, nil
}

func scanTrailer(row scanner) (*models.Trailer, error) {
	var (
		t                     models.Trailer
		tid, orgID, carrierID uuid.UUID
	)
	if err := row.Scan(&tid, &orgID, &carrierID, &t.Plate, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.ID = id.TrailerID(tid)
	t.OrganizationID = id.OrganizationID(orgID)
	t.CarrierID = id.CarrierID(carrierID)
	return &t, nil
}

func scanReefer(row scanner) (*models.ReeferUnit, error) {
	var (
		r                  models.ReeferUnit
		rid, orgID         uuid.UUID
		ownerKind, ownerID string
	)
	if err := row.Scan(&rid, &orgID, &r.SerialNumber, &r.Model, &ownerKind, &ownerID,
		&r.DeviceIdent, &r.FlespiDeviceID, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	owner, err := models.ParseOwner(ownerKind, ownerID)
	if err != nil {
		return nil, fmt.Errorf("decode reefer owner: %w", err)
	}
	r.ID = id.ReeferID(rid)
	r.OrganizationID = id.OrganizationID(orgID)
	r.Owner = owner
	return &r, nil
}

func scanSet(row scanner) (*models.FleetSet, error) {
	var (
		f                          models.FleetSet
		sid, orgID, carrierID, vid uuid.UUID
		driverID, trailerID        uuid.NullUUID
		validTo                    sql.NullTime
	)
	if err := row.Scan(&sid, &orgID, &carrierID, &driverID, &vid, &trailerID,
		&f.ValidFrom, &validTo, &f.Active, &f.UpdatedAt, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.ID = id.FleetSetID(sid)
	f.OrganizationID = id.OrganizationID(orgID)
	f.CarrierID = id.CarrierID(carrierID)
	f.VehicleID = id.VehicleID(vid)
	if driverID.Valid {
		d := id.DriverID(driverID.UUID)
		f.DriverID = &d
	}
	if trailerID.Valid {
		t := id.TrailerID(trailerID.UUID)
		f.TrailerID = &t
	}
	if validTo.Valid {
		v := validTo.Time
		f.ValidTo = &v
	}
	return &f, nil
}

func setArgs(f *models.FleetSet) []any {
	var driverID, trailerID uuid.NullUUID
	if f.DriverID != nil {
		driverID = uuid.NullUUID{UUID: uuid.UUID(*f.DriverID), Valid: true}
	}
	if f.TrailerID != nil {
		trailerID = uuid.NullUUID{UUID: uuid.UUID(*f.TrailerID), Valid: true}
	}
	var validTo sql.NullTime
	if f.ValidTo != nil {
		validTo = sql.NullTime{Time: *f.ValidTo, Valid: true}
	}
	// created_at is last so updates can drop it.
	return []any{
		uuid.UUID(f.ID), uuid.UUID(f.OrganizationID), uuid.UUID(f.CarrierID), driverID,
		uuid.UUID(f.VehicleID), trailerID, f.ValidFrom, validTo, f.Active, f.UpdatedAt, f.CreatedAt,
	}
}

func affected(res sql.Result, err error, action string) (int, error) {
	if err != nil {
		return 0, fmt.Errorf("%s: %w", action, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s rows: %w", action, err)
	}
	return int(n), nil
}

func requireAffected(res sql.Result, action string) error {
	n, err := affected(res, nil, action)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", action, sentinel.ErrNotFound)
	}
	return nil
}

func translateReadErr(err error, action string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", action, sentinel.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// translateWriteErr separates active-binding races from plain duplicates.
func translateWriteErr(err error, action string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case activeVehicleIndex, activeDriverIndex, activeTrailerIndex:
			return fmt.Errorf("%s: %w", action, sentinel.ErrConflict)
		}
		return fmt.Errorf("%s: %w", action, sentinel.ErrAlreadyUsed)
	}
	return fmt.Errorf("%s: %w", action, err)
}
