package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/packtrack/internal/ctxutil"
	"github.com/example/packtrack/internal/ports/primary"
)

var palletCmd = &cobra.Command{
	Use:   "pallet",
	Short: "Manage pallets",
}

var palletCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create an empty pallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		fragile, _ := cmd.Flags().GetBool("fragile")
		p, err := s.Pallets.Create(ctx, primary.CreatePalletRequest{Name: args[0], IsFragile: fragile})
		if err != nil {
			return fmt.Errorf("failed to create pallet: %w", err)
		}
		fmt.Printf("✓ Created pallet %s: %s%s\n", p.Code, p.Name, fragileMarker(p.IsFragile))
		return nil
	},
}

var palletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pallets with their box counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		mine, _ := cmd.Flags().GetBool("mine")
		available, _ := cmd.Flags().GetBool("available")
		createdBy := ""
		if mine {
			createdBy = ctxutil.Actor(ctx)
		}

		var pallets []*primary.PalletSummary
		if available {
			pallets, err = s.Pallets.GetAvailableForShipment(ctx, createdBy)
		} else {
			pallets, err = s.Pallets.GetAll(ctx, primary.PalletFilters{CreatedBy: createdBy})
		}
		if err != nil {
			return fmt.Errorf("failed to list pallets: %w", err)
		}
		if len(pallets) == 0 {
			fmt.Println("No pallets found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME\tBOXES\tSHIPMENT")
		fmt.Fprintln(w, "----\t----\t-----\t--------")
		for _, p := range pallets {
			fmt.Fprintf(w, "%s\t%s%s\t%d\t%s\n", p.Code, p.Name, fragileMarker(p.IsFragile), p.BoxCount, orDash(p.ShipmentCode))
		}
		return w.Flush()
	},
}

var palletShowCmd = &cobra.Command{
	Use:   "show [code]",
	Short: "Show a pallet and its boxes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		p, err := s.Pallets.GetByCodeWithBoxes(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get pallet: %w", err)
		}
		printPallet(p, "")
		return nil
	},
}

func printPallet(p *primary.PalletWithBoxes, indent string) {
	fmt.Printf("%sPallet: %s %s%s (%d boxes)\n", indent, p.Code, p.Name, fragileMarker(p.IsFragile), p.BoxCount)
	if indent == "" {
		fmt.Printf("Shipment: %s\n", orDash(p.ShipmentCode))
	}
	for _, b := range p.Boxes {
		fmt.Printf("%s  - %s %s %s\n", indent, b.Code, b.Name, statusMarker(b.Status))
	}
}

var palletUpdateCmd = &cobra.Command{
	Use:   "update [code]",
	Short: "Update pallet fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}

		var patch primary.PalletPatch
		flags := cmd.Flags()
		if flags.Changed("name") {
			v, _ := flags.GetString("name")
			patch.Name = &v
		}
		if flags.Changed("photo") {
			v, _ := flags.GetString("photo")
			patch.PhotoURL = &v
		}
		if flags.Changed("photo2") {
			v, _ := flags.GetString("photo2")
			patch.PhotoURL2 = &v
		}
		if flags.Changed("fragile") {
			v, _ := flags.GetBool("fragile")
			patch.IsFragile = &v
		}

		p, err := s.Pallets.Update(ctx, args[0], patch)
		if err != nil {
			return fmt.Errorf("failed to update pallet: %w", err)
		}
		fmt.Printf("✓ Pallet %s updated\n", p.Code)
		return nil
	},
}

var palletShipCmd = &cobra.Command{
	Use:   "ship [code] [shipment-code]",
	Short: "Load a pallet into a shipment, or take it out with --clear",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		unlink, _ := cmd.Flags().GetBool("clear")

		if unlink {
			p, err := s.Pallets.ClearShipment(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to clear shipment: %w", err)
			}
			fmt.Printf("✓ Pallet %s is out of its shipment\n", p.Code)
			return nil
		}
		if len(args) != 2 {
			return fmt.Errorf("shipment code required (or use --clear)")
		}
		p, err := s.Pallets.SetShipment(ctx, args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to set shipment: %w", err)
		}
		fmt.Printf("✓ Pallet %s loaded into %s\n", p.Code, p.ShipmentCode)
		return nil
	},
}

var palletEmptyCmd = &cobra.Command{
	Use:   "empty [code]",
	Short: "Take every box off a pallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		n, err := s.Pallets.UnlinkAllBoxes(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to empty pallet after %d boxes: %w", n, err)
		}
		fmt.Printf("✓ %d boxes taken off pallet %s\n", n, args[0])
		return nil
	},
}

var palletDeleteCmd = &cobra.Command{
	Use:   "delete [code]",
	Short: "Delete a pallet",
	Long:  "Delete a pallet. Boxes on it keep the pallet code unless --empty is given.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		empty, _ := cmd.Flags().GetBool("empty")
		if empty {
			if n, err := s.Pallets.UnlinkAllBoxes(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to empty pallet after %d boxes: %w", n, err)
			}
		}
		if err := s.Pallets.Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete pallet: %w", err)
		}
		fmt.Printf("✓ Pallet %s deleted\n", args[0])
		return nil
	},
}

// PalletCmd returns the pallet command.
func PalletCmd() *cobra.Command {
	return palletCmd
}

func init() {
	palletCreateCmd.Flags().BoolP("fragile", "f", false, "Mark the pallet fragile")

	palletListCmd.Flags().Bool("mine", false, "Only pallets created by the acting user")
	palletListCmd.Flags().BoolP("available", "a", false, "Only pallets not yet in a shipment")

	palletUpdateCmd.Flags().String("name", "", "New name")
	palletUpdateCmd.Flags().String("photo", "", "Primary photo URL (empty clears)")
	palletUpdateCmd.Flags().String("photo2", "", "Secondary photo URL (empty clears)")
	palletUpdateCmd.Flags().Bool("fragile", false, "Fragile flag")

	palletShipCmd.Flags().Bool("clear", false, "Take the pallet out of its shipment")
	palletDeleteCmd.Flags().Bool("empty", false, "Take every box off the pallet first")

	palletCmd.AddCommand(palletCreateCmd)
	palletCmd.AddCommand(palletListCmd)
	palletCmd.AddCommand(palletShowCmd)
	palletCmd.AddCommand(palletUpdateCmd)
	palletCmd.AddCommand(palletShipCmd)
	palletCmd.AddCommand(palletEmptyCmd)
	palletCmd.AddCommand(palletDeleteCmd)
}
