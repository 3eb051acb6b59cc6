// Package assignment drives the dispatcher's save of a fleet set: check the
// trailer rule, ask the backend for conflicts, get confirmation when a
// resource is taken from elsewhere, then commit.
package assignment

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	fleetcontract "coldchain/contracts/fleet"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
)

var (
	// ErrBusy is returned by Save while a validation or commit is running.
	ErrBusy = errors.New("an assignment save is already in progress")
	// ErrNothingToConfirm is returned by Confirm outside AwaitingConfirmation.
	ErrNothingToConfirm = errors.New("no assignment is awaiting confirmation")
)

type State int

const (
	StateIdle State = iota
	StateValidating
	StateAwaitingConfirmation
	StateCommitting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateCommitting:
		return "committing"
	case StateDone:
		return "done"
	default:
		return "idle"
	}
}

// Candidate is the assignment entered in the form. FleetSetID is set when
// an existing fleet set is being edited.
type Candidate struct {
	FleetSetID *id.FleetSetID
	CarrierID  id.CarrierID
	DriverID   *id.DriverID
	VehicleID  id.VehicleID
	TrailerID  *id.TrailerID
	ValidFrom  *time.Time
}

func (c Candidate) request() fleetcontract.FleetSetRequest {
	return fleetcontract.FleetSetRequest{
		CarrierID: c.CarrierID,
		DriverID:  c.DriverID,
		VehicleID: c.VehicleID,
		TrailerID: c.TrailerID,
		ValidFrom: c.ValidFrom,
	}
}

// Backend is the fleet API surface the flow calls.
type Backend interface {
	Vehicle(ctx context.Context, vehicleID id.VehicleID) (*fleetcontract.Vehicle, error)
	ValidateFleetSet(ctx context.Context, in fleetcontract.ValidateRequest) (*fleetcontract.ValidationResult, error)
	CreateFleetSet(ctx context.Context, in fleetcontract.FleetSetRequest) (*fleetcontract.FleetSet, error)
	UpdateFleetSet(ctx context.Context, setID id.FleetSetID, in fleetcontract.FleetSetRequest) (*fleetcontract.FleetSet, error)
}

// View is whatever presents the flow to the dispatcher.
type View interface {
	ShowConflicts(messages []string)
	// Close dismisses the form. It is called when the commit starts.
	Close()
	Saved(set *fleetcontract.FleetSet)
	// Restore puts the entered values back into the form after a failure.
	Restore(c Candidate)
	Notify(err error)
}

// Outcome is the result of Save or Confirm.
type Outcome struct {
	State     State
	Conflicts []string
	FleetSet  *fleetcontract.FleetSet
}

type Flow struct {
	backend Backend
	view    View
	logger  *slog.Logger

	mu      sync.Mutex
	state   State
	pending *Candidate
	closed  bool
}

type Option func(*Flow)

func WithLogger(logger *slog.Logger) Option {
	return func(f *Flow) {
		f.logger = logger
	}
}

func NewFlow(backend Backend, view View, opts ...Option) *Flow {
	f := &Flow{backend: backend, view: view, logger: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Save validates the candidate and commits it when nothing conflicts.
// Otherwise the flow waits in AwaitingConfirmation for Confirm or Cancel.
// Saving again while awaiting confirmation replaces the pending candidate.
func (f *Flow) Save(ctx context.Context, c Candidate) (Outcome, error) {
	f.mu.Lock()
	if state := f.state; state == StateValidating || state == StateCommitting {
		f.mu.Unlock()
		return Outcome{State: state}, ErrBusy
	}
	f.state = StateValidating
	f.pending = nil
	f.mu.Unlock()

	result, err := f.validate(ctx, c)
	if err != nil {
		return f.fail(c, err)
	}

	if result.HasConflicts() {
		messages := ConflictMessages(result)
		f.mu.Lock()
		f.state = StateAwaitingConfirmation
		f.pending = &c
		f.mu.Unlock()
		f.present(func(v View) { v.ShowConflicts(messages) })
		return Outcome{State: StateAwaitingConfirmation, Conflicts: messages}, nil
	}

	f.mu.Lock()
	f.state = StateCommitting
	f.mu.Unlock()
	return f.commit(ctx, c)
}

// Confirm commits the candidate that produced the conflicts.
func (f *Flow) Confirm(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	if f.state != StateAwaitingConfirmation || f.pending == nil {
		state := f.state
		f.mu.Unlock()
		return Outcome{State: state}, ErrNothingToConfirm
	}
	c := *f.pending
	f.pending = nil
	f.state = StateCommitting
	f.mu.Unlock()
	return f.commit(ctx, c)
}

// Cancel drops a candidate awaiting confirmation and returns to Idle.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateAwaitingConfirmation {
		f.state = StateIdle
		f.pending = nil
	}
}

// Close detaches the view. Calls already in flight still finish, but no
// further view updates are made.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// validate rejects a trailer on a non-tractor before asking the backend.
func (f *Flow) validate(ctx context.Context, c Candidate) (*fleetcontract.ValidationResult, error) {
	if c.VehicleID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "vehicle is required")
	}
	if c.TrailerID != nil {
		vehicle, err := f.backend.Vehicle(ctx, c.VehicleID)
		if err != nil {
			return nil, err
		}
		if !vehicle.CanTowTrailer() {
			return nil, dErrors.New(dErrors.CodeValidation, "a trailer can only be assigned to a tractor")
		}
	}
	return f.backend.ValidateFleetSet(ctx, fleetcontract.ValidateRequest{
		DriverID:          c.DriverID,
		VehicleID:         c.VehicleID,
		TrailerID:         c.TrailerID,
		ExcludeFleetSetID: c.FleetSetID,
	})
}

func (f *Flow) commit(ctx context.Context, c Candidate) (Outcome, error) {
	f.present(func(v View) { v.Close() })

	var (
		set *fleetcontract.FleetSet
		err error
	)
	if c.FleetSetID != nil {
		set, err = f.backend.UpdateFleetSet(ctx, *c.FleetSetID, c.request())
	} else {
		set, err = f.backend.CreateFleetSet(ctx, c.request())
	}
	if err != nil {
		return f.fail(c, err)
	}

	f.mu.Lock()
	f.state = StateDone
	f.mu.Unlock()
	f.present(func(v View) { v.Saved(set) })
	return Outcome{State: StateDone, FleetSet: set}, nil
}

func (f *Flow) fail(c Candidate, err error) (Outcome, error) {
	f.mu.Lock()
	f.state = StateIdle
	f.mu.Unlock()
	f.logger.Warn("fleet set save failed", "error", err, "vehicle_id", c.VehicleID.String())
	f.present(func(v View) {
		v.Notify(err)
		v.Restore(c)
	})
	return Outcome{State: StateIdle}, err
}

func (f *Flow) present(fn func(View)) {
	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	if closed || f.view == nil {
		return
	}
	fn(f.view)
}
