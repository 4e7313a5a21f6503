package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/packtrack/internal/cli"
	"github.com/example/packtrack/internal/version"
	"github.com/example/packtrack/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "packtrack",
		Short:   "packtrack - boxes, pallets and shipments",
		Version: version.String(),
		Long: `packtrack tracks packing work: boxes filled with product lines and sealed,
stacked on pallets, and loaded into shipments.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			actor, _ := cmd.Flags().GetString("actor")
			cli.SetActor(actor)
		},
	}
	rootCmd.PersistentFlags().String("actor", "", "Acting user (defaults to PACKTRACK_ACTOR)")

	rootCmd.AddCommand(cli.DepartmentCmd())
	rootCmd.AddCommand(cli.BoxCmd())
	rootCmd.AddCommand(cli.PalletCmd())
	rootCmd.AddCommand(cli.ShipmentCmd())
	rootCmd.AddCommand(cli.PackCmd())

	err := rootCmd.Execute()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if cerr := wire.Shutdown(ctx); cerr != nil {
		fmt.Fprintln(os.Stderr, "shutdown:", cerr)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if hint := cli.Hint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		cancel()
		os.Exit(1)
	}
}
