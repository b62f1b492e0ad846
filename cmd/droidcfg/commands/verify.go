package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/droidcfg/internal/app"
	"go.trai.ch/droidcfg/internal/core/domain"
	"go.trai.ch/droidcfg/internal/ui/output"
	"go.trai.ch/droidcfg/internal/ui/style"
)

func (c *CLI) newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that every dependency version exists in the configured repositories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			concurrency, _ := cmd.Flags().GetInt("concurrency")

			reports, err := c.app.Verify(cmd.Context(), app.VerifyOptions{
				Options:     c.options(""),
				Concurrency: concurrency,
			})
			printReports(cmd.OutOrStdout(), reports)
			return err
		},
	}
	cmd.Flags().IntP("concurrency", "j", app.DefaultConcurrency, "Number of dependencies checked in parallel")
	return cmd
}

func printReports(w io.Writer, reports []domain.DependencyReport) {
	out := output.New(w)
	check := out.String(style.Check).Foreground(out.Color(string(style.Green)))
	cross := out.String(style.Cross).Foreground(out.Color(string(style.Red)))

	for _, r := range reports {
		if r.Err != nil {
			_, _ = fmt.Fprintf(out, "%s %s lookup failed: %v\n", cross, r.Coordinate, r.Err)
			continue
		}
		if r.Found {
			_, _ = fmt.Fprintf(out, "%s %s (%s)\n", check, r.Coordinate, r.Repository)
			continue
		}
		if r.Latest != "" {
			_, _ = fmt.Fprintf(out, "%s %s not found (latest: %s)\n", cross, r.Coordinate, r.Latest)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s %s not found\n", cross, r.Coordinate)
	}
}
