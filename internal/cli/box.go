package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	corebox "github.com/example/packtrack/internal/core/box"
	"github.com/example/packtrack/internal/ctxutil"
	"github.com/example/packtrack/internal/ports/primary"
	"github.com/example/packtrack/internal/wire"
)

var boxCmd = &cobra.Command{
	Use:   "box",
	Short: "Manage boxes and their lines",
	Long:  "Create boxes, add lines, seal them and place them on pallets or direct shipments",
}

var boxCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a draft box",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		department, _ := cmd.Flags().GetString("department")
		direct, _ := cmd.Flags().GetBool("direct")
		fragile, _ := cmd.Flags().GetBool("fragile")

		b, err := s.Boxes.Create(ctx, primary.CreateBoxRequest{
			Name:             args[0],
			DepartmentID:     department,
			IsDirectShipment: direct,
			IsFragile:        fragile,
		})
		if err != nil {
			return fmt.Errorf("failed to create box: %w", err)
		}

		fmt.Printf("✓ Created box %s: %s %s\n", b.Code, b.Name, statusMarker(b.Status))
		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Printf("   packtrack box add-line %s \"Product\" 1\n", b.Code)
		return nil
	},
}

var boxListCmd = &cobra.Command{
	Use:   "list",
	Short: "List boxes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		status, _ := cmd.Flags().GetString("status")
		department, _ := cmd.Flags().GetString("department")
		mine, _ := cmd.Flags().GetBool("mine")
		available, _ := cmd.Flags().GetBool("available")

		createdBy := ""
		if mine {
			createdBy = ctxutil.Actor(ctx)
		}

		var boxes []*primary.Box
		if available {
			boxes, err = s.Boxes.GetAvailableForPallet(ctx, primary.AvailableBoxFilters{DepartmentID: department, CreatedBy: createdBy})
		} else {
			boxes, err = s.Boxes.GetAll(ctx, primary.BoxFilters{Status: status, DepartmentID: department, CreatedBy: createdBy})
		}
		if err != nil {
			return fmt.Errorf("failed to list boxes: %w", err)
		}
		if len(boxes) == 0 {
			fmt.Println("No boxes found.")
			return nil
		}

		names := departmentNames(ctx, s)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME\tSTATUS\tDEPARTMENT\tPALLET\tSHIPMENT\tFLAGS")
		fmt.Fprintln(w, "----\t----\t------\t----------\t------\t--------\t-----")
		for _, b := range boxes {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				b.Code, b.Name, statusMarker(b.Status), orDash(names[b.DepartmentID]),
				orDash(b.PalletCode), orDash(b.ShipmentCode), boxFlags(b))
		}
		return w.Flush()
	},
}

// departmentNames maps department ids to names for display. Failures only cost the labels.
func departmentNames(ctx context.Context, s *wire.Services) map[string]string {
	names := map[string]string{}
	departments, err := s.Departments.List(ctx)
	if err != nil {
		return names
	}
	for _, d := range departments {
		names[d.ID] = d.Name
	}
	return names
}

var boxShowCmd = &cobra.Command{
	Use:   "show [code]",
	Short: "Show a box with its lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		b, err := s.Boxes.GetByCode(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get box: %w", err)
		}
		printBox(b)
		return nil
	},
}

func printBox(b *primary.BoxDetail) {
	fmt.Printf("Box: %s %s%s\n", b.Code, statusMarker(b.Status), fragileMarker(b.IsFragile))
	fmt.Printf("Name: %s\n", b.Name)
	if b.Department != nil {
		fmt.Printf("Department: %s\n", b.Department.Name)
	} else {
		fmt.Printf("Department: %s (missing)\n", b.DepartmentID)
	}
	fmt.Printf("Created by: %s\n", b.CreatedBy)
	if b.IsDirectShipment {
		fmt.Printf("Direct shipment: %s\n", orDash(b.ShipmentCode))
	} else {
		fmt.Printf("Pallet: %s\n", orDash(b.PalletCode))
	}
	if b.PhotoURL != "" {
		fmt.Printf("Photo: %s\n", b.PhotoURL)
	}
	if b.PhotoURL2 != "" {
		fmt.Printf("Photo 2: %s\n", b.PhotoURL2)
	}

	fmt.Println()
	if len(b.Lines) == 0 {
		fmt.Println("No lines.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tPRODUCT\tQTY\tKIND")
	fmt.Fprintln(w, "----\t-------\t---\t----")
	for _, l := range b.Lines {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", l.ID, l.ProductName, l.Qty, orDash(l.Kind))
	}
	w.Flush()
}

var boxAddLineCmd = &cobra.Command{
	Use:   "add-line [code] [product] [qty]",
	Short: "Add a line to a draft box",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		kind, _ := cmd.Flags().GetString("kind")
		line, err := parseLine(args[1] + ":" + args[2] + ":" + kind)
		if err != nil {
			return err
		}

		added, err := s.Boxes.AddLine(ctx, primary.AddLineRequest{
			BoxCode:     args[0],
			ProductName: line.ProductName,
			Qty:         line.Qty,
			Kind:        line.Kind,
		})
		if err != nil {
			return fmt.Errorf("failed to add line: %w", err)
		}
		fmt.Printf("✓ Added %d x %s to %s (line %s)\n", added.Qty, added.ProductName, args[0], added.ID)
		return nil
	},
}

var boxRemoveLineCmd = &cobra.Command{
	Use:   "remove-line [line-id]",
	Short: "Remove a line from a draft box",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		if err := s.Boxes.DeleteLine(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to remove line: %w", err)
		}
		fmt.Printf("✓ Line %s removed\n", args[0])
		return nil
	},
}

var boxUpdateCmd = &cobra.Command{
	Use:   "update [code]",
	Short: "Update box fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}

		var patch primary.BoxPatch
		flags := cmd.Flags()
		if flags.Changed("name") {
			v, _ := flags.GetString("name")
			patch.Name = &v
		}
		if flags.Changed("department") {
			v, _ := flags.GetString("department")
			patch.DepartmentID = &v
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
		if flags.Changed("direct") {
			v, _ := flags.GetBool("direct")
			patch.IsDirectShipment = &v
		}
		if flags.Changed("status") {
			v, _ := flags.GetString("status")
			patch.Status = &v
		}

		b, err := s.Boxes.Update(ctx, args[0], patch)
		if err != nil {
			return fmt.Errorf("failed to update box: %w", err)
		}
		fmt.Printf("✓ Box %s updated %s\n", b.Code, statusMarker(b.Status))
		return nil
	},
}

var boxSealCmd = &cobra.Command{
	Use:   "seal [code]",
	Short: "Seal a box (needs at least one line and a photo)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		patch := primary.BoxPatch{}
		if photo, _ := cmd.Flags().GetString("photo"); photo != "" {
			patch.PhotoURL = &photo
		}
		sealed := corebox.StatusSealed
		patch.Status = &sealed

		b, err := s.Boxes.Update(ctx, args[0], patch)
		if err != nil {
			return fmt.Errorf("failed to seal box: %w", err)
		}
		fmt.Printf("✓ Box %s %s\n", b.Code, statusMarker(b.Status))
		return nil
	},
}

var boxPalletCmd = &cobra.Command{
	Use:   "pallet [code] [pallet-code]",
	Short: "Place a sealed box on a pallet, or take it off with --clear",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		unlink, _ := cmd.Flags().GetBool("clear")

		if unlink {
			b, err := s.Boxes.ClearPallet(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to clear pallet: %w", err)
			}
			fmt.Printf("✓ Box %s is off its pallet\n", b.Code)
			return nil
		}
		if len(args) != 2 {
			return fmt.Errorf("pallet code required (or use --clear)")
		}
		b, err := s.Boxes.SetPallet(ctx, args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to set pallet: %w", err)
		}
		fmt.Printf("✓ Box %s is on pallet %s\n", b.Code, b.PalletCode)
		return nil
	},
}

var boxShipCmd = &cobra.Command{
	Use:   "ship [code] [shipment-code]",
	Short: "Link a direct-shipment box to a shipment, or unlink it with --clear",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		unlink, _ := cmd.Flags().GetBool("clear")

		if unlink {
			b, err := s.Boxes.ClearShipment(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to clear shipment: %w", err)
			}
			fmt.Printf("✓ Box %s is out of its shipment\n", b.Code)
			return nil
		}
		if len(args) != 2 {
			return fmt.Errorf("shipment code required (or use --clear)")
		}
		b, err := s.Boxes.SetShipment(ctx, args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to set shipment: %w", err)
		}
		fmt.Printf("✓ Box %s ships directly with %s\n", b.Code, b.ShipmentCode)
		return nil
	},
}

var boxDeleteCmd = &cobra.Command{
	Use:   "delete [code-or-id]",
	Short: "Delete an unlinked box and its lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		if err := s.Boxes.Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete box: %w", err)
		}
		fmt.Printf("✓ Box %s deleted\n", args[0])
		return nil
	},
}

// BoxCmd returns the box command.
func BoxCmd() *cobra.Command {
	return boxCmd
}

func init() {
	// box create flags
	boxCreateCmd.Flags().StringP("department", "d", "", "Department ID (required)")
	boxCreateCmd.Flags().Bool("direct", false, "Ship this box directly, without a pallet")
	boxCreateCmd.Flags().BoolP("fragile", "f", false, "Mark the box fragile")
	_ = boxCreateCmd.MarkFlagRequired("department")

	// box list flags
	boxListCmd.Flags().StringP("status", "s", "", "Filter by status (draft, sealed)")
	boxListCmd.Flags().StringP("department", "d", "", "Filter by department ID")
	boxListCmd.Flags().Bool("mine", false, "Only boxes created by the acting user")
	boxListCmd.Flags().BoolP("available", "a", false, "Only sealed boxes free to go on a pallet")

	boxAddLineCmd.Flags().StringP("kind", "k", "", "Product kind, e.g. Porselen")

	// box update flags
	boxUpdateCmd.Flags().String("name", "", "New name")
	boxUpdateCmd.Flags().StringP("department", "d", "", "New department ID")
	boxUpdateCmd.Flags().String("photo", "", "Primary photo URL (empty clears)")
	boxUpdateCmd.Flags().String("photo2", "", "Secondary photo URL (empty clears)")
	boxUpdateCmd.Flags().Bool("fragile", false, "Fragile flag")
	boxUpdateCmd.Flags().Bool("direct", false, "Direct-shipment flag (only while unlinked)")
	boxUpdateCmd.Flags().String("status", "", "Status to set (draft, sealed)")

	boxSealCmd.Flags().String("photo", "", "Attach this photo before sealing")
	boxPalletCmd.Flags().Bool("clear", false, "Take the box off its pallet")
	boxShipCmd.Flags().Bool("clear", false, "Unlink the box from its shipment")

	// Register subcommands
	boxCmd.AddCommand(boxCreateCmd)
	boxCmd.AddCommand(boxListCmd)
	boxCmd.AddCommand(boxShowCmd)
	boxCmd.AddCommand(boxAddLineCmd)
	boxCmd.AddCommand(boxRemoveLineCmd)
	boxCmd.AddCommand(boxUpdateCmd)
	boxCmd.AddCommand(boxSealCmd)
	boxCmd.AddCommand(boxPalletCmd)
	boxCmd.AddCommand(boxShipCmd)
	boxCmd.AddCommand(boxDeleteCmd)
}
