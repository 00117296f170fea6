package cli

import (
	"errors"
	"fmt"

	"pantry-cli/internal/model"
	"pantry-cli/internal/receipt"

	"github.com/spf13/cobra"
)

func newReceiptCmd(app *App) *cobra.Command {
	var (
		plain bool
		width int
	)

	cmd := &cobra.Command{
		Use:   "receipt [receipt-id]",
		Short: "Print a staged donation receipt",
		Long: "Print a staged donation receipt.\n\n" +
			"Receipts are staged by the TUI and the web UI when a donation is\n" +
			"finalized. With an id the matching staged receipt is consumed\n" +
			"(a donation id also works); without one the most recently staged\n" +
			"receipt is printed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			var (
				d     model.Donation
				found bool
			)
			if len(args) == 1 {
				d, found, err = s.TakeReceipt(args[0])
				if err == nil && !found {
					// Not a staged key; maybe a donation id directly.
					if idx, ok := db.FindDonation(args[0]); ok {
						d, found = db.Donations[idx], true
					}
				}
			} else {
				d, found, err = s.LastReceipt()
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			if !found {
				return writeErr(cmd, errors.New("no staged receipt found"))
			}

			fmt.Fprint(cmd.OutOrStdout(), receipt.Render(d, width, plain))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print raw markdown without terminal styling")
	cmd.Flags().IntVar(&width, "width", 60, "Wrap width for styled output")
	return cmd
}
