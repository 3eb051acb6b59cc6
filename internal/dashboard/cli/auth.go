package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	authcontract "coldchain/contracts/auth"
	contract "coldchain/contracts/session"
)

func newLoginCommand(o *rootOptions) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Example: `  dispatchctl login --email dispatch@polar.example
  DISPATCHCTL_PASSWORD=... dispatchctl login --email dispatch@polar.example`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := o.password(cmd, password)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			sess, err := o.app.await(ctx, func() error {
				return o.app.Provider.SignIn(ctx, email, secret)
			})
			if err != nil {
				return fmt.Errorf("sign in: %w", err)
			}
			return reportSignedIn(cmd.OutOrStdout(), sess)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password (prefer DISPATCHCTL_PASSWORD or stdin)")
	_ = cmd.MarkFlagRequired("email") //nolint:errcheck // flag is defined above
	return cmd
}

func newSignUpCommand(o *rootOptions) *cobra.Command {
	var in authcontract.SignUp
	var password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Long: `Create an account and sign in. Pending invitations for the email are
accepted, so an invited dispatcher lands directly in their organization.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := o.password(cmd, password)
			if err != nil {
				return err
			}
			in.Password = secret
			ctx := cmd.Context()
			sess, err := o.app.await(ctx, func() error {
				return o.app.Provider.SignUp(ctx, in)
			})
			if err != nil {
				return fmt.Errorf("sign up: %w", err)
			}
			return reportSignedIn(cmd.OutOrStdout(), sess)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Email, "email", "", "account email")
	f.StringVar(&password, "password", "", "password (prefer DISPATCHCTL_PASSWORD or stdin)")
	f.StringVar(&in.FirstName, "first-name", "", "first name")
	f.StringVar(&in.LastName, "last-name", "", "last name")
	f.StringVar(&in.Phone, "phone", "", "phone number")
	_ = cmd.MarkFlagRequired("email") //nolint:errcheck // flag is defined above
	return cmd
}

func newLogoutCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := o.app.Restore(ctx); err != nil {
				return err
			}
			sess, err := o.app.await(ctx, func() error {
				if err := o.app.Provider.SignOut(ctx); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: the server did not confirm sign-out: %v\n", err)
				}
				return nil
			})
			if err != nil {
				return err
			}
			if sess != nil {
				return errors.New("session still present after sign-out")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newSessionCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "session",
		Aliases: []string{"whoami"},
		Short:   "Show the signed-in user and organization",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := o.app.RequireSession(cmd.Context())
			if err != nil {
				return err
			}
			return printSession(cmd.OutOrStdout(), sess)
		},
	}
}

func newProfileCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the signed-in user's profile",
	}

	var first, last, phone string
	update := &cobra.Command{
		Use:   "update",
		Short: "Change name or phone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := o.app.RequireSession(ctx); err != nil {
				return err
			}
			var change authcontract.ProfileUpdate
			if cmd.Flags().Changed("first-name") {
				change.FirstName = &first
			}
			if cmd.Flags().Changed("last-name") {
				change.LastName = &last
			}
			if cmd.Flags().Changed("phone") {
				change.Phone = &phone
			}
			if change.FirstName == nil && change.LastName == nil && change.Phone == nil {
				return errors.New("nothing to update: pass --first-name, --last-name or --phone")
			}

			sess, err := o.app.await(ctx, func() error {
				_, err := o.app.Provider.UpdateProfile(ctx, change)
				return err
			})
			if err != nil {
				return fmt.Errorf("update profile: %w", err)
			}
			if sess == nil {
				return errNotSignedIn
			}
			return printSession(cmd.OutOrStdout(), sess)
		},
	}
	update.Flags().StringVar(&first, "first-name", "", "first name")
	update.Flags().StringVar(&last, "last-name", "", "last name")
	update.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.AddCommand(update)
	return cmd
}

// password picks the flag, then DISPATCHCTL_PASSWORD, then the first line
// of stdin.
func (o *rootOptions) password(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if v := o.env.Getenv("DISPATCHCTL_PASSWORD"); v != "" {
		return v, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is required")
	}
	return line, nil
}

func reportSignedIn(w io.Writer, sess *contract.Session) error {
	if sess == nil {
		fmt.Fprintln(w, "Signed in, but you have no active organization membership yet.")
		fmt.Fprintln(w, "Ask an organization admin for an invitation or run: dispatchctl org create NAME")
		return nil
	}
	return printSession(w, sess)
}

func printSession(w io.Writer, sess *contract.Session) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	name := strings.TrimSpace(sess.User.FirstName + " " + sess.User.LastName)
	if name == "" {
		name = "-"
	}
	fmt.Fprintf(tw, "User:\t%s <%s>\n", name, sess.User.Email)
	if sess.ActiveOrganization != nil {
		fmt.Fprintf(tw, "Organization:\t%s (%s)\n", sess.ActiveOrganization.Name, sess.ActiveOrganization.ID)
	}
	if sess.Membership != nil {
		fmt.Fprintf(tw, "Role:\t%s\n", sess.Membership.Role)
	}
	if sess.IsPlatformOperator {
		fmt.Fprintln(tw, "Platform operator:\tyes")
	}
	if len(sess.Memberships) > 1 {
		fmt.Fprintln(tw, "Other organizations:\t")
		for _, m := range sess.Memberships {
			if sess.Membership != nil && m.ID == sess.Membership.ID {
				continue
			}
			fmt.Fprintf(tw, "  %s\t%s\n", m.OrganizationID, m.Role)
		}
	}
	return tw.Flush()
}
