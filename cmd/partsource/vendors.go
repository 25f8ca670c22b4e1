package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Farhaan96/CollisionOS-sub012/internal/cli"
	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
)

func vendorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendors",
		Short: "Manage the parts vendor registry",
		Long:  `View and manage the vendors the sourcing engine queries, including their reliability history.`,
	}

	cmd.AddCommand(vendorsListCmd())
	cmd.AddCommand(vendorsAddCmd())
	cmd.AddCommand(vendorsEnableCmd())
	cmd.AddCommand(vendorsDisableCmd())
	cmd.AddCommand(vendorsRecordCmd())

	return cmd
}

func vendorsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List enabled vendors",
		Long:  `List enabled vendors with their reliability and fulfillment history.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			vendors, err := store.ListVendors(ctx)
			if err != nil {
				return err
			}

			if len(vendors) == 0 {
				fmt.Println(cli.FormatInfo("No vendors registered yet. Add one with: partsource vendors add"))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tFILL RATE\tQUOTES\tUPDATED")
			for i := range vendors {
				v := &vendors[i]
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\t%s\n",
					v.ID, v.Name, v.FillRate(), v.QuoteCount,
					v.LastUpdated.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
}

func vendorsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <id> <name>",
		Short: "Register a vendor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reliability, _ := cmd.Flags().GetFloat64("reliability")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			vendor := &model.VendorInfo{
				ID:          args[0],
				Name:        args[1],
				Reliability: reliability,
				Enabled:     true,
			}
			if err := store.SaveVendor(ctx, vendor); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Registered vendor %s (%s)", vendor.ID, vendor.Name)))
			return nil
		},
	}

	cmd.Flags().Float64("reliability", 0.5, "reliability prior in [0,1] used until enough outcomes are recorded")

	return cmd
}

func vendorsEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <id>",
		Short: "Return a vendor to the sourcing rotation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setVendorEnabled(cmd, args[0], true)
		},
	}
}

func vendorsDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <id>",
		Short: "Remove a vendor from the sourcing rotation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setVendorEnabled(cmd, args[0], false)
		},
	}
}

func setVendorEnabled(cmd *cobra.Command, id string, enabled bool) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SetVendorEnabled(ctx, id, enabled); err != nil {
		return err
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Vendor %s %s", id, state)))
	return nil
}

func vendorsRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record <id>",
		Short: "Record a fulfillment outcome for a vendor",
		Long: `Record whether a vendor actually fulfilled an ordered part. Recorded
outcomes refine the fill rate that seeds reliability scoring.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fulfilled, _ := cmd.Flags().GetBool("fulfilled")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.RecordQuoteOutcome(ctx, args[0], fulfilled); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded outcome for %s (fulfilled: %t)", args[0], fulfilled)))
			return nil
		},
	}

	cmd.Flags().Bool("fulfilled", true, "whether the vendor fulfilled the order")

	return cmd
}
