package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write or show the dispatchctl profile",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Save the effective settings to the profile file",
		Long: `Save the effective settings to the profile file. Flags such as --base-url
and --log-level are written into the profile.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fileExists(o.configPath) && !force {
				return fmt.Errorf("%s already exists; pass --force to overwrite", o.configPath)
			}
			if err := o.app.Profile.Save(o.configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", o.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing profile")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := yaml.Marshal(o.app.Profile)
			if err != nil {
				return fmt.Errorf("encode profile: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", o.configPath, raw)
			return nil
		},
	}

	cmd.AddCommand(initCmd, show)
	return cmd
}
