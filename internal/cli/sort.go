package cli

import (
	"pantry-cli/internal/model"

	"github.com/spf13/cobra"
)

func newSortCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort [mode]",
		Short: "Show or set the donor sort mode",
		Long: "Show or set the donor sort mode.\n\n" +
			"Modes: insertion-descending (default), insertion-ascending,\n" +
			"alphabetical-ascending, alphabetical-descending.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"sortMode": db.SortMode}})
			}
			mode := model.ParseSortMode(args[0])
			if err := s.SaveSortMode(mode); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"sortMode": mode}})
		},
	}
	return cmd
}
