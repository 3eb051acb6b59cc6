package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	fleetcontract "coldchain/contracts/fleet"
	id "coldchain/pkg/domain"
)

func newVehiclesCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "Inspect the organization's vehicles",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List vehicles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := o.app.RequireSession(ctx); err != nil {
				return err
			}
			vehicles, err := o.app.Client.ListVehicles(ctx)
			if err != nil {
				return fmt.Errorf("list vehicles: %w", err)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPLATE\tTYPE")
			for _, v := range vehicles {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", v.ID, v.Plate, v.Type)
			}
			return tw.Flush()
		},
	})
	return cmd
}

func newFleetSetsCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fleet-sets",
		Aliases: []string{"sets"},
		Short:   "List or end fleet sets",
	}

	var activeOnly bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List fleet sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := o.app.RequireSession(ctx); err != nil {
				return err
			}
			sets, err := o.app.Client.ListFleetSets(ctx, activeOnly)
			if err != nil {
				return fmt.Errorf("list fleet sets: %w", err)
			}
			return printFleetSets(cmd.OutOrStdout(), sets)
		},
	}
	list.Flags().BoolVar(&activeOnly, "active", false, "only active fleet sets")

	end := &cobra.Command{
		Use:   "end FLEET_SET_ID",
		Short: "End a fleet set, releasing its driver, vehicle and trailer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setID, err := id.ParseFleetSetID(args[0])
			if err != nil {
				return fmt.Errorf("invalid fleet set id: %w", err)
			}
			ctx := cmd.Context()
			if _, err := o.app.RequireSession(ctx); err != nil {
				return err
			}
			set, err := o.app.Client.EndFleetSet(ctx, setID)
			if err != nil {
				return fmt.Errorf("end fleet set: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ended fleet set %s.\n", set.ID)
			return nil
		},
	}

	cmd.AddCommand(list, end)
	return cmd
}

func printFleetSets(w io.Writer, sets []fleetcontract.FleetSet) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVEHICLE\tDRIVER\tTRAILER\tACTIVE")
	for _, s := range sets {
		driver, trailer := "-", "-"
		if s.DriverID != nil {
			driver = s.DriverID.String()
		}
		if s.TrailerID != nil {
			trailer = s.TrailerID.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", s.ID, s.VehicleID, driver, trailer, s.Active)
	}
	return tw.Flush()
}
