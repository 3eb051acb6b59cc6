// Package memory is the in-process fleet store used in development and tests.
// It enforces the same one-active-set-per-resource rule as the postgres indexes.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"coldchain/internal/fleet/models"
	id "coldchain/pkg/domain"
	"coldchain/pkg/platform/sentinel"
)

type Store struct {
	mu       sync.RWMutex
	carriers map[id.CarrierID]*models.Carrier
	drivers  map[id.DriverID]*models.Driver
	vehicles map[id.VehicleID]*models.Vehicle
	trailers map[id.TrailerID]*models.Trailer
	reefers  map[id.ReeferID]*models.ReeferUnit
	sets     map[id.FleetSetID]*models.FleetSet
}

func New() *Store {
	return &Store{
		carriers: make(map[id.CarrierID]*models.Carrier),
		drivers:  make(map[id.DriverID]*models.Driver),
		vehicles: make(map[id.VehicleID]*models.Vehicle),
		trailers: make(map[id.TrailerID]*models.Trailer),
		reefers:  make(map[id.ReeferID]*models.ReeferUnit),
		sets:     make(map[id.FleetSetID]*models.FleetSet),
	}
}

func (s *Store) CreateCarrier(_ context.Context, c *models.Carrier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.carriers[c.ID] = &cp
	return nil
}

func (s *Store) FindCarrier(_ context.Context, orgID id.OrganizationID, carrierID id.CarrierID) (*models.Carrier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carriers[carrierID]
	if !ok || c.OrganizationID != orgID {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) ListCarriers(_ context.Context, orgID id.OrganizationID) ([]*models.Carrier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collect(s.carriers, func(c *models.Carrier) bool { return c.OrganizationID == orgID },
		func(a, b *models.Carrier) int { return a.CreatedAt.Compare(b.CreatedAt) }), nil
}

func (s *Store) CreateDriver(_ context.Context, d *models.Driver) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	s.drivers[d.ID] = &cp
	return nil
}

func (s *Store) FindDriver(_ context.Context, orgID id.OrganizationID, driverID id.DriverID) (*models.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drivers[driverID]
	if !ok || d.OrganizationID != orgID {
		return nil, sentinel.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *Store) ListDrivers(_ context.Context, orgID id.OrganizationID) ([]*models.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collect(s.drivers, func(d *models.Driver) bool { return d.OrganizationID == orgID },
		func(a, b *models.Driver) int { return a.CreatedAt.Compare(b.CreatedAt) }), nil
}

func (s *Store) CreateVehicle(_ context.Context, v *models.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.vehicles {
		if existing.OrganizationID == v.OrganizationID && existing.Plate == v.Plate {
			return sentinel.ErrAlreadyUsed
		}
	}
	cp := *v
	s.vehicles[v.ID] = &cp
	return nil
}

func (s *Store) FindVehicle(_ context.Context, orgID id.OrganizationID, vehicleID id.VehicleID) (*models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vehicles[vehicleID]
	if !ok || v.OrganizationID != orgID {
		return nil, sentinel.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (s *Store) ListVehicles(_ context.Context, orgID id.OrganizationID) ([]*models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collect(s.vehicles, func(v *models.Vehicle) bool { return v.OrganizationID == orgID },
		func(a, b *models.Vehicle) int { return strings.Compare(a.Plate, b.Plate) }), nil
}

func (s *Store) CreateTrailer(_ context.Context, t *models.Trailer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.trailers {
		if existing.OrganizationID == t.OrganizationID && existing.Plate == t.Plate {
			return sentinel.ErrAlreadyUsed
		}
	}
	cp := *t
	s.trailers[t.ID] = &cp
	return nil
}

func (s *Store) FindTrailer(_ context.Context, orgID id.OrganizationID, trailerID id.TrailerID) (*models.Trailer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trailers[trailerID]
	if !ok || t.OrganizationID != orgID {
		return nil, sentinel.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *Store) ListTrailers(_ context.Context, orgID id.OrganizationID) ([]*models.Trailer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collect(s.trailers, func(t *models.Trailer) bool { return t.OrganizationID == orgID },
		func(a, b *models.Trailer) int { return strings.Compare(a.Plate, b.Plate) }), nil
}

func (s *Store) CreateReefer(_ context.Context, r *models.ReeferUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reefers {
		if existing.OrganizationID == r.OrganizationID && existing.SerialNumber == r.SerialNumber {
			return sentinel.ErrAlreadyUsed
		}
	}
	cp := *r
	s.reefers[r.ID] = &cp
	return nil
}

func (s *Store) UpdateReefer(_ context.Context, r *models.ReeferUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reefers[r.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *r
	s.reefers[r.ID] = &cp
	return nil
}

func (s *Store) FindReefer(_ context.Context, orgID id.OrganizationID, reeferID id.ReeferID) (*models.ReeferUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reefers[reeferID]
	if !ok || r.OrganizationID != orgID {
		return nil, sentinel.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *Store) ListReefers(_ context.Context, orgID id.OrganizationID) ([]*models.ReeferUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collect(s.reefers, func(r *models.ReeferUnit) bool { return r.OrganizationID == orgID },
		func(a, b *models.ReeferUnit) int { return strings.Compare(a.SerialNumber, b.SerialNumber) }), nil
}

// Create rejects a set that would give a driver, trailer or vehicle a second
// active binding.
func (s *Store) Create(_ context.Context, set *models.FleetSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set.Active && s.violatesActiveUniqueness(set) {
		return sentinel.ErrConflict
	}
	s.sets[set.ID] = cloneSet(set)
	return nil
}

func (s *Store) Update(_ context.Context, set *models.FleetSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sets[set.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if set.Active && s.violatesActiveUniqueness(set) {
		return sentinel.ErrConflict
	}
	s.sets[set.ID] = cloneSet(set)
	return nil
}

func (s *Store) FindByID(_ context.Context, orgID id.OrganizationID, setID id.FleetSetID) (*models.FleetSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[setID]
	if !ok || set.OrganizationID != orgID {
		return nil, sentinel.ErrNotFound
	}
	return cloneSet(set), nil
}

func (s *Store) List(_ context.Context, orgID id.OrganizationID, activeOnly bool) ([]*models.FleetSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := collect(s.sets, func(f *models.FleetSet) bool {
		return f.OrganizationID == orgID && (!activeOnly || f.Active)
	}, func(a, b *models.FleetSet) int { return b.ValidFrom.Compare(a.ValidFrom) })
	for i, f := range out {
		out[i] = cloneSet(f)
	}
	return out, nil
}

func (s *Store) FindActiveByDriver(_ context.Context, orgID id.OrganizationID, driverID id.DriverID) (*models.FleetSet, error) {
	return s.findActive(orgID, func(f *models.FleetSet) bool { return f.HasDriver(driverID) })
}

func (s *Store) FindActiveByTrailer(_ context.Context, orgID id.OrganizationID, trailerID id.TrailerID) (*models.FleetSet, error) {
	return s.findActive(orgID, func(f *models.FleetSet) bool { return f.HasTrailer(trailerID) })
}

func (s *Store) FindActiveByVehicle(_ context.Context, orgID id.OrganizationID, vehicleID id.VehicleID) (*models.FleetSet, error) {
	return s.findActive(orgID, func(f *models.FleetSet) bool { return f.VehicleID == vehicleID })
}

func (s *Store) ReleaseDriver(_ context.Context, orgID id.OrganizationID, driverID id.DriverID, except id.FleetSetID, now time.Time) (int, error) {
	return s.mutateActive(orgID, except, func(f *models.FleetSet) bool {
		if !f.HasDriver(driverID) {
			return false
		}
		f.DriverID = nil
		f.UpdatedAt = now
		return true
	}), nil
}

func (s *Store) ReleaseTrailer(_ context.Context, orgID id.OrganizationID, trailerID id.TrailerID, except id.FleetSetID, now time.Time) (int, error) {
	return s.mutateActive(orgID, except, func(f *models.FleetSet) bool {
		if !f.HasTrailer(trailerID) {
			return false
		}
		f.TrailerID = nil
		f.UpdatedAt = now
		return true
	}), nil
}

func (s *Store) EndActiveForVehicle(_ context.Context, orgID id.OrganizationID, vehicleID id.VehicleID, except id.FleetSetID, now time.Time) (int, error) {
	return s.mutateActive(orgID, except, func(f *models.FleetSet) bool {
		if f.VehicleID != vehicleID {
			return false
		}
		return f.End(now) == nil
	}), nil
}

func (s *Store) findActive(orgID id.OrganizationID, match func(*models.FleetSet) bool) (*models.FleetSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.sets {
		if f.Active && f.OrganizationID == orgID && match(f) {
			return cloneSet(f), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) mutateActive(orgID id.OrganizationID, except id.FleetSetID, fn func(*models.FleetSet) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, f := range s.sets {
		if !f.Active || f.OrganizationID != orgID || f.ID == except {
			continue
		}
		if fn(f) {
			n++
		}
	}
	return n
}

func (s *Store) violatesActiveUniqueness(set *models.FleetSet) bool {
	for _, f := range s.sets {
		if !f.Active || f.ID == set.ID || f.OrganizationID != set.OrganizationID {
			continue
		}
		if f.VehicleID == set.VehicleID {
			return true
		}
		if set.DriverID != nil && f.HasDriver(*set.DriverID) {
			return true
		}
		if set.TrailerID != nil && f.HasTrailer(*set.TrailerID) {
			return true
		}
	}
	return false
}

func cloneSet(f *models.FleetSet) *models.FleetSet {
	cp := *f
	if f.DriverID != nil {
		d := *f.DriverID
		cp.DriverID = &d
	}
	if f.TrailerID != nil {
		t := *f.TrailerID
		cp.TrailerID = &t
	}
	if f.ValidTo != nil {
		v := *f.ValidTo
		cp.ValidTo = &v
	}
	return &cp
}

func collect[K comparable, V any](m map[K]*V, keep func(*V) bool, cmp func(a, b *V) int) []*V {
	out := make([]*V, 0, len(m))
	for _, v := range m {
		if keep(v) {
			cp := *v
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, cmp)
	return out
}

