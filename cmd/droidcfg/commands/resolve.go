package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/droidcfg/internal/engine/planner"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the configuration and print the build plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			buildType, _ := cmd.Flags().GetString("build-type")
			output, _ := cmd.Flags().GetString("output")
			write, _ := cmd.Flags().GetBool("write")

			format, err := planner.ParseFormat(output)
			if err != nil {
				return err
			}

			resolve := c.app.Resolve
			if write {
				resolve = c.app.ResolveAndStore
			}
			res, err := resolve(cmd.Context(), c.options(buildType))
			if err != nil {
				return err
			}
			return planner.Render(cmd.OutOrStdout(), res.Plan, format)
		},
	}
	cmd.Flags().StringP("build-type", "b", "", "Build type to resolve (default: release)")
	cmd.Flags().StringP("output", "o", string(planner.FormatJSON), "Output format: json, yaml or properties")
	cmd.Flags().BoolP("write", "w", false, "Store the plan in the state directory")
	return cmd
}

func (c *CLI) newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration against every build invariant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			buildType, _ := cmd.Flags().GetString("build-type")
			if _, err := c.app.Validate(cmd.Context(), c.options(buildType)); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
			return nil
		},
	}
	cmd.Flags().StringP("build-type", "b", "", "Build type to resolve (default: release)")
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-resolve and store the plan whenever the configuration changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			buildType, _ := cmd.Flags().GetString("build-type")
			return c.app.Watch(cmd.Context(), c.options(buildType))
		},
	}
	cmd.Flags().StringP("build-type", "b", "", "Build type to resolve (default: release)")
	return cmd
}

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove stored plans and signatures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Clean(cmd.Context(), c.options(""))
		},
	}
}
