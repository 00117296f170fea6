package cli

import (
	"time"

	"pantry-cli/internal/donations"
	"pantry-cli/internal/donordir"
	"pantry-cli/internal/model"

	"github.com/spf13/cobra"
)

func newDonationsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "donations",
		Short: "Donation record commands",
	}
	cmd.AddCommand(newDonationsListCmd(app))
	cmd.AddCommand(newDonationsDeleteCmd(app))
	cmd.AddCommand(newDonationsSubmitCmd(app))
	return cmd
}

func newDonationsListCmd(app *App) *cobra.Command {
	var order string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List donation records, newest first by default",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			sorted := donations.Sorted(db.Donations, donations.ParseDirection(order))
			return writeOut(cmd, app, map[string]any{"data": sorted})
		},
	}

	cmd.Flags().StringVar(&order, "order", string(donations.Descending), "Sort order (descending|ascending)")
	return cmd
}

func newDonationsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <donation-id>",
		Short: "Delete a donation record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := (donations.Register{Store: s}).DeleteByID(args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": args[0]}})
		},
	}
	return cmd
}

func newDonationsSubmitCmd(app *App) *cobra.Command {
	var (
		donor   string
		temp    string
		produce float64
		frozen  float64
		misc    float64
		bakery  float64
		dry     float64
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Record a donation without the TUI",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			// Resolve the stored casing; the donor must already exist.
			idx, ok := db.FindDonor(model.NormalizeDonor(donor))
			if !ok {
				return writeErr(cmd, donordir.NotFoundError{Name: donor})
			}
			donor = db.Donors[idx]

			sess := donations.NewSession()
			for _, entry := range []struct {
				cat model.Category
				w   float64
			}{
				{model.CategoryProduce, produce},
				{model.CategoryFrozenMeats, frozen},
				{model.CategoryMiscFrozen, misc},
				{model.CategoryBakery, bakery},
				{model.CategoryDry, dry},
			} {
				if entry.w == 0 {
					continue
				}
				if err := sess.LogWeight(entry.cat, entry.w); err != nil {
					return writeErr(cmd, err)
				}
			}

			d, err := sess.Build(donor, temp, time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := (donations.Register{Store: s}).Append(d); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": d})
		},
	}

	cmd.Flags().StringVar(&donor, "donor", "", "Donor name (must already exist in the directory)")
	cmd.Flags().StringVar(&temp, "temp", "", "Temperature in F (required when frozen meats weight > 0)")
	cmd.Flags().Float64Var(&produce, "produce", 0, "Produce weight (lbs)")
	cmd.Flags().Float64Var(&frozen, "frozen-meats", 0, "Frozen meats weight (lbs)")
	cmd.Flags().Float64Var(&misc, "misc-frozen", 0, "Misc frozen weight (lbs)")
	cmd.Flags().Float64Var(&bakery, "bakery", 0, "Bakery weight (lbs)")
	cmd.Flags().Float64Var(&dry, "dry", 0, "Dry goods weight (lbs)")
	_ = cmd.MarkFlagRequired("donor")
	return cmd
}
