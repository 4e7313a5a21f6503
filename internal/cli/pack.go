package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/packtrack/internal/ports/primary"
)

var packCmd = &cobra.Command{
	Use:   "pack [name]",
	Short: "Create, fill, photograph and seal a box in one go",
	Long: `Runs the packing flow: create the box, add every --line, attach --photo
and seal it with --seal. If a step fails, the box code is printed; run the
same command again with --box to finish it without duplicating lines.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, s, err := session()
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		boxCode, _ := flags.GetString("box")
		department, _ := flags.GetString("department")
		rawLines, _ := flags.GetStringArray("line")
		photo, _ := flags.GetString("photo")
		seal, _ := flags.GetBool("seal")
		direct, _ := flags.GetBool("direct")
		fragile, _ := flags.GetBool("fragile")

		req := primary.PackRequest{
			BoxCode:          boxCode,
			DepartmentID:     department,
			IsDirectShipment: direct,
			IsFragile:        fragile,
			PhotoURL:         photo,
			Seal:             seal,
		}
		if len(args) == 1 {
			req.Name = args[0]
		}
		if boxCode == "" && req.Name == "" {
			return fmt.Errorf("box name required (or resume with --box)")
		}
		for _, raw := range rawLines {
			line, err := parseLine(raw)
			if err != nil {
				return err
			}
			req.Lines = append(req.Lines, line)
		}

		res, err := s.Packing.Pack(ctx, req)
		if err != nil {
			return err
		}

		if len(res.Applied) == 0 {
			fmt.Printf("✓ Box %s already complete %s\n", res.Box.Code, statusMarker(res.Box.Status))
			return nil
		}
		fmt.Printf("✓ Packed box %s %s (%s)\n", res.Box.Code, statusMarker(res.Box.Status), strings.Join(res.Applied, ", "))
		return nil
	},
}

// PackCmd returns the pack command.
func PackCmd() *cobra.Command {
	return packCmd
}

func init() {
	packCmd.Flags().String("box", "", "Resume packing this box code")
	packCmd.Flags().StringP("department", "d", "", "Department ID for a new box")
	packCmd.Flags().StringArrayP("line", "l", nil, "Line as product:qty[:kind]; repeatable")
	packCmd.Flags().String("photo", "", "Primary photo URL")
	packCmd.Flags().Bool("seal", false, "Seal the box when done")
	packCmd.Flags().Bool("direct", false, "Create a direct-shipment box")
	packCmd.Flags().BoolP("fragile", "f", false, "Mark a new box fragile")
}
