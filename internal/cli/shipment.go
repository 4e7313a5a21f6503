package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/packtrack/internal/ports/primary"
)

var shipmentCmd = &cobra.Command{
	Use:   "shipment",
	Short: "Manage shipments",
	Long:  "Create shipments and load pallets and direct-shipment boxes into them",
}

var shipmentCreateCmd = &cobra.Command{
	Use:   "create [name-or-plate]",
	Short: "Create an empty shipment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		sh, err := s.Shipments.Create(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to create shipment: %w", err)
		}
		fmt.Printf("✓ Created shipment %s: %s\n", sh.Code, sh.NameOrPlate)
		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Printf("   packtrack pallet ship P-XXXX %s\n", sh.Code)
		return nil
	},
}

var shipmentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shipments with their totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		shipments, err := s.Shipments.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to list shipments: %w", err)
		}
		if len(shipments) == 0 {
			fmt.Println("No shipments found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME/PLATE\tPALLETS\tBOXES\tDIRECT")
		fmt.Fprintln(w, "----\t----------\t-------\t-----\t------")
		for _, sh := range shipments {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", sh.Code, sh.NameOrPlate, sh.PalletCount, sh.BoxCount, sh.DirectBoxCount)
		}
		return w.Flush()
	},
}

var shipmentShowCmd = &cobra.Command{
	Use:   "show [code]",
	Short: "Show a shipment with its pallets and direct boxes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		sh, err := s.Shipments.GetWithPallets(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get shipment: %w", err)
		}

		fmt.Printf("Shipment: %s\n", sh.Code)
		fmt.Printf("Name/plate: %s\n", sh.NameOrPlate)
		fmt.Printf("Totals: %d pallets, %d boxes, %d direct\n", sh.PalletCount, sh.BoxCount, sh.DirectBoxCount)
		fmt.Println()
		for _, p := range sh.Pallets {
			printPallet(p, "  ")
		}
		if len(sh.DirectBoxes) > 0 {
			fmt.Println("Direct boxes:")
			for _, b := range sh.DirectBoxes {
				fmt.Printf("  - %s %s %s\n", b.Code, b.Name, statusMarker(b.Status))
			}
		}
		return nil
	},
}

var shipmentUpdateCmd = &cobra.Command{
	Use:   "update [code]",
	Short: "Update shipment fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}

		var patch primary.ShipmentPatch
		flags := cmd.Flags()
		if flags.Changed("name") {
			v, _ := flags.GetString("name")
			patch.NameOrPlate = &v
		}
		if flags.Changed("photo") {
			v, _ := flags.GetString("photo")
			patch.PhotoURL = &v
		}
		if flags.Changed("photo2") {
			v, _ := flags.GetString("photo2")
			patch.PhotoURL2 = &v
		}

		sh, err := s.Shipments.Update(ctx, args[0], patch)
		if err != nil {
			return fmt.Errorf("failed to update shipment: %w", err)
		}
		fmt.Printf("✓ Shipment %s updated\n", sh.Code)
		return nil
	},
}

var shipmentUnloadCmd = &cobra.Command{
	Use:   "unload [code]",
	Short: "Take every pallet and direct box out of a shipment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		res, err := s.Shipments.UnlinkAllMembers(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to unload shipment: %w", err)
		}
		fmt.Printf("✓ Shipment %s unloaded: %d pallets, %d direct boxes\n", args[0], res.Pallets, res.DirectBoxes)
		return nil
	},
}

var shipmentDeleteCmd = &cobra.Command{
	Use:   "delete [code]",
	Short: "Delete a shipment",
	Long:  "Delete a shipment. Pallets and boxes keep the shipment code unless --unload is given.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		unload, _ := cmd.Flags().GetBool("unload")
		if unload {
			if _, err := s.Shipments.UnlinkAllMembers(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to unload shipment: %w", err)
			}
		}
		if err := s.Shipments.Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete shipment: %w", err)
		}
		fmt.Printf("✓ Shipment %s deleted\n", args[0])
		return nil
	},
}

// ShipmentCmd returns the shipment command.
func ShipmentCmd() *cobra.Command {
	return shipmentCmd
}

func init() {
	shipmentUpdateCmd.Flags().String("name", "", "New name or license plate")
	shipmentUpdateCmd.Flags().String("photo", "", "Primary photo URL (empty clears)")
	shipmentUpdateCmd.Flags().String("photo2", "", "Secondary photo URL (empty clears)")

	shipmentDeleteCmd.Flags().Bool("unload", false, "Take every member out first")

	shipmentCmd.AddCommand(shipmentCreateCmd)
	shipmentCmd.AddCommand(shipmentListCmd)
	shipmentCmd.AddCommand(shipmentShowCmd)
	shipmentCmd.AddCommand(shipmentUpdateCmd)
	shipmentCmd.AddCommand(shipmentUnloadCmd)
	shipmentCmd.AddCommand(shipmentDeleteCmd)
}
