package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	fleetcontract "coldchain/contracts/fleet"
	"coldchain/internal/dashboard/assignment"
	id "coldchain/pkg/domain"
)

var errAssignmentCancelled = errors.New("assignment cancelled; nothing was saved")

type assignFlags struct {
	carrier   string
	vehicle   string
	driver    string
	trailer   string
	fleetSet  string
	validFrom string
	yes       bool
}

func (f assignFlags) candidate() (assignment.Candidate, error) {
	var c assignment.Candidate
	var err error
	if c.CarrierID, err = id.ParseCarrierID(f.carrier); err != nil {
		return c, fmt.Errorf("invalid --carrier: %w", err)
	}
	if c.VehicleID, err = id.ParseVehicleID(f.vehicle); err != nil {
		return c, fmt.Errorf("invalid --vehicle: %w", err)
	}
	if c.DriverID, err = id.ParseOptionalDriverID(f.driver); err != nil {
		return c, fmt.Errorf("invalid --driver: %w", err)
	}
	if c.TrailerID, err = id.ParseOptionalTrailerID(f.trailer); err != nil {
		return c, fmt.Errorf("invalid --trailer: %w", err)
	}
	if f.fleetSet != "" {
		setID, err := id.ParseFleetSetID(f.fleetSet)
		if err != nil {
			return c, fmt.Errorf("invalid --fleet-set: %w", err)
		}
		c.FleetSetID = &setID
	}
	if f.validFrom != "" {
		from, err := time.Parse(time.RFC3339, f.validFrom)
		if err != nil {
			return c, fmt.Errorf("invalid --valid-from, want RFC 3339: %w", err)
		}
		c.ValidFrom = &from
	}
	return c, nil
}

func newAssignCommand(o *rootOptions) *cobra.Command {
	var f assignFlags
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Bind a driver, vehicle and trailer into a fleet set",
		Long: `Bind a driver, vehicle and trailer into a fleet set. When any of them is
already part of another active fleet set the conflicts are shown and the
assignment is saved only after confirmation. --yes confirms without asking.`,
		Example: `  dispatchctl assign --carrier C --vehicle V --driver D --trailer T
  dispatchctl assign --fleet-set S --carrier C --vehicle V --driver D2 --yes
  dispatchctl assign --carrier C --vehicle V --driver D --valid-from 2026-03-01T06:00:00Z`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			candidate, err := f.candidate()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := o.app.RequireSession(ctx); err != nil {
				return err
			}

			view := &promptView{out: cmd.OutOrStdout()}
			flow := assignment.NewFlow(o.app.Client, view, assignment.WithLogger(o.app.logger))
			defer flow.Close()

			outcome, err := flow.Save(ctx, candidate)
			if err != nil {
				return fmt.Errorf("save fleet set: %w", err)
			}
			if outcome.State == assignment.StateAwaitingConfirmation {
				ok := f.yes
				if !ok {
					if ok, err = confirm(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
						flow.Cancel()
						return err
					}
				}
				if !ok {
					flow.Cancel()
					return errAssignmentCancelled
				}
				if _, err := flow.Confirm(ctx); err != nil {
					return fmt.Errorf("save fleet set: %w", err)
				}
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.carrier, "carrier", "", "carrier id")
	fl.StringVar(&f.vehicle, "vehicle", "", "vehicle id")
	fl.StringVar(&f.driver, "driver", "", "driver id")
	fl.StringVar(&f.trailer, "trailer", "", "trailer id (tractors only)")
	fl.StringVar(&f.fleetSet, "fleet-set", "", "edit this fleet set instead of creating one")
	fl.StringVar(&f.validFrom, "valid-from", "", "start of the assignment (RFC 3339); defaults to now")
	fl.BoolVarP(&f.yes, "yes", "y", false, "confirm reassignments without asking")
	_ = cmd.MarkFlagRequired("carrier") //nolint:errcheck // flag is defined above
	_ = cmd.MarkFlagRequired("vehicle") //nolint:errcheck // flag is defined above
	return cmd
}

func confirm(in io.Reader, out io.Writer) (bool, error) {
	fmt.Fprint(out, "Save anyway? [y/N] ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// promptView renders the assignment flow as terminal lines.
type promptView struct {
	out io.Writer
}

func (v *promptView) ShowConflicts(messages []string) {
	fmt.Fprintln(v.out, "This assignment takes resources from other fleet sets:")
	for _, m := range messages {
		fmt.Fprintf(v.out, "  - %s\n", m)
	}
}

func (v *promptView) Close() {
	fmt.Fprintln(v.out, "Saving...")
}

func (v *promptView) Saved(set *fleetcontract.FleetSet) {
	fmt.Fprintf(v.out, "Saved fleet set %s.\n", set.ID)
}

func (v *promptView) Restore(assignment.Candidate) {
	fmt.Fprintln(v.out, "Nothing was saved.")
}

// Notify is a no-op; the command returns the same error.
func (v *promptView) Notify(error) {}
