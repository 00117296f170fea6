package cli

import (
	"fmt"
	"os"
	"strings"

	"pantry-cli/internal/format"
	"pantry-cli/internal/store"
	"pantry-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "pantry",
		Short:        "Food pantry donation intake CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive intake TUI
  pantry

  # Scriptable commands
  pantry donors list
  pantry donations list --order descending

  # Record a donation without the TUI
  pantry donations submit --donor "Acme Grocery" --produce 12.5

  # Serve the browser UI
  pantry web --port 8765
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("PANTRY_DIR", ""), "Path to store dir (default: discovered .pantry dir, else ./.pantry)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("PANTRY_FORMAT", "json"), "Output format (json)")

	cmd.AddCommand(newDonorsCmd(app))
	cmd.AddCommand(newDonationsCmd(app))
	cmd.AddCommand(newSortCmd(app))
	cmd.AddCommand(newReceiptCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newVersionCmd(app))

	return cmd
}

func runTUI(app *App) error {
	db, _, err := loadDB(app)
	if err != nil {
		return err
	}
	return tui.Run(app.Dir, db)
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return nil, store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}

	s := store.Store{Dir: dir}
	if err := s.Ensure(); err != nil {
		return nil, s, err
	}
	db, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
