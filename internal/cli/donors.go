package cli

import (
	"strconv"

	"pantry-cli/internal/donordir"
	"pantry-cli/internal/model"

	"github.com/spf13/cobra"
)

func newDonorsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "donors",
		Short: "Donor directory commands",
	}
	cmd.AddCommand(newDonorsListCmd(app))
	cmd.AddCommand(newDonorsAddCmd(app))
	cmd.AddCommand(newDonorsRenameCmd(app))
	cmd.AddCommand(newDonorsRemoveCmd(app))
	cmd.AddCommand(newDonorsFavoriteCmd(app))
	cmd.AddCommand(newDonorsPinCmd(app))
	return cmd
}

type donorRow struct {
	Name     string `json:"name"`
	Favorite bool   `json:"favorite"`
}

func newDonorsListCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List donors in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			names := db.Donors
			if !raw {
				names = donordir.DisplayOrder(db.Donors, db.SortMode, db.FavoriteSet(), db.FavoritesPinned)
			}
			favorites := db.FavoriteSet()
			rows := make([]donorRow, 0, len(names))
			for _, n := range names {
				rows = append(rows, donorRow{Name: n, Favorite: favorites[model.NormalizeDonor(n)]})
			}
			return writeOut(cmd, app, map[string]any{
				"data":            rows,
				"sortMode":        db.SortMode,
				"favoritesPinned": db.FavoritesPinned,
			})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "List in storage (insertion) order, ignoring sort mode and pinning")
	return cmd
}

func newDonorsAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a donor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			name, err := donordir.Directory{Store: s}.Add(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": donorRow{Name: name}})
		},
	}
	return cmd
}

func newDonorsRenameCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <old-name> <new-name>",
		Short: "Rename a donor, keeping its position and favorite flag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			dir := donordir.Directory{Store: s}
			if err := dir.Rename(args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			fav, _ := dir.IsFavorite(args[1])
			return writeOut(cmd, app, map[string]any{"data": donorRow{Name: args[1], Favorite: fav}})
		},
	}
	return cmd
}

func newDonorsRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a donor (clears its favorite flag)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := (donordir.Directory{Store: s}).Remove(args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"removed": args[0]}})
		},
	}
	return cmd
}

func newDonorsFavoriteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorite <name>",
		Short: "Toggle a donor's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			dir := donordir.Directory{Store: s}
			if err := dir.ToggleFavorite(args[0]); err != nil {
				return writeErr(cmd, err)
			}
			fav, err := dir.IsFavorite(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": donorRow{Name: args[0], Favorite: fav}})
		},
	}
	return cmd
}

func newDonorsPinCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin [true|false]",
		Short: "Show or set whether favorites are pinned to the top",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"favoritesPinned": db.FavoritesPinned}})
			}
			pinned, err := strconv.ParseBool(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.SaveFavoritesPinned(pinned); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"favoritesPinned": pinned}})
		},
	}
	return cmd
}
