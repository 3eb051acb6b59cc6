package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	contract "coldchain/contracts/session"
	id "coldchain/pkg/domain"
)

func newOrgCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Create or switch organizations",
	}

	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an organization you own",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := o.app.Restore(ctx); err != nil {
				return err
			}
			if o.app.Provider.Current() == nil {
				return errNotSignedIn
			}
			org, err := o.app.Client.CreateOrganization(ctx, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("create organization: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created organization %s (%s).\n", org.Name, org.ID)

			sess, err := o.app.Sync.SwitchOrganization(ctx, org.ID)
			if err != nil {
				return fmt.Errorf("switch to new organization: %w", err)
			}
			return printSession(cmd.OutOrStdout(), sess)
		},
	}

	switchCmd := &cobra.Command{
		Use:   "switch ORGANIZATION_ID",
		Short: "Act in another organization you belong to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := id.ParseOrganizationID(args[0])
			if err != nil {
				return fmt.Errorf("invalid organization id: %w", err)
			}
			ctx := cmd.Context()
			if _, err := o.app.RequireSession(ctx); err != nil {
				return err
			}
			sess, err := o.app.Sync.SwitchOrganization(ctx, orgID)
			if err != nil {
				return fmt.Errorf("switch organization: %w", err)
			}
			return printSession(cmd.OutOrStdout(), sess)
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your organization memberships",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := o.app.RequireSession(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, m := range sess.Memberships {
				marker := " "
				if isActive(sess, m) {
					marker = "*"
				}
				fmt.Fprintf(w, "%s %s  %s\n", marker, m.OrganizationID, m.Role)
			}
			return nil
		},
	}

	cmd.AddCommand(create, switchCmd, list)
	return cmd
}

func isActive(sess *contract.Session, m contract.Membership) bool {
	return sess.Membership != nil && sess.Membership.ID == m.ID
}
