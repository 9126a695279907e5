package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/cinelist/internal/usecase"
)

func (a *app) favoritesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage favorite movies",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List favorite movie IDs",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				p, closer, err := a.preferences(cmd.Context())
				if err != nil {
					return err
				}
				defer closeQuietly(a.logger, closer)

				ids := p.Favorites()
				out := cmd.OutOrStdout()
				if len(ids) == 0 {
					fmt.Fprintln(out, "No favorites yet.")
					return nil
				}
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "toggle <id>",
			Short: "Add or remove a movie from favorites",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseMovieID(args[0])
				if err != nil {
					return err
				}
				p, closer, err := a.preferences(cmd.Context())
				if err != nil {
					return err
				}
				defer closeQuietly(a.logger, closer)

				res, err := p.ToggleFavorite(cmd.Context(), id)
				if err != nil {
					return err
				}
				if res.IsFavorite {
					fmt.Fprintf(cmd.OutOrStdout(), "Added %d to favorites.\n", res.MovieID)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %d from favorites.\n", res.MovieID)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <id>...",
			Short: "Mark movies as favorites",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.updateFavorites(cmd, args, "Added %d to favorites.\n", (*usecase.Preferences).AddFavorite)
			},
		},
		&cobra.Command{
			Use:   "remove <id>...",
			Short: "Unmark favorite movies",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.updateFavorites(cmd, args, "Removed %d from favorites.\n", (*usecase.Preferences).RemoveFavorite)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every favorite",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				p, closer, err := a.preferences(cmd.Context())
				if err != nil {
					return err
				}
				defer closeQuietly(a.logger, closer)

				p.ClearFavorites(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "Favorites cleared.")
				return nil
			},
		},
	)
	return cmd
}

// updateFavorites validates every id before touching the store.
func (a *app) updateFavorites(cmd *cobra.Command, args []string, done string, apply func(*usecase.Preferences, context.Context, int) error) error {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := parseMovieID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	p, closer, err := a.preferences(cmd.Context())
	if err != nil {
		return err
	}
	defer closeQuietly(a.logger, closer)

	for _, id := range ids {
		if err := apply(p, cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), done, id)
	}
	return nil
}

func (a *app) searchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Manage the saved title search",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the saved search",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				p, closer, err := a.preferences(cmd.Context())
				if err != nil {
					return err
				}
				defer closeQuietly(a.logger, closer)

				if q := p.SearchQuery(); q != "" {
					fmt.Fprintln(cmd.OutOrStdout(), q)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "No saved search.")
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <query>",
			Short: "Save a title search used by top-rated",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, closer, err := a.preferences(cmd.Context())
				if err != nil {
					return err
				}
				defer closeQuietly(a.logger, closer)

				q := strings.Join(args, " ")
				p.SetSearchQuery(cmd.Context(), q)
				fmt.Fprintf(cmd.OutOrStdout(), "Saved search %q.\n", q)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Forget the saved search",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				p, closer, err := a.preferences(cmd.Context())
				if err != nil {
					return err
				}
				defer closeQuietly(a.logger, closer)

				p.ClearSearch(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "Search cleared.")
				return nil
			},
		},
	)
	return cmd
}

func (a *app) themeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the colour theme",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current theme",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				p, closer, err := a.preferences(cmd.Context())
				if err != nil {
					return err
				}
				defer closeQuietly(a.logger, closer)

				fmt.Fprintln(cmd.OutOrStdout(), p.Theme())
				return nil
			},
		},
		&cobra.Command{
			Use:       "set <light|dark|system>",
			Short:     "Set the theme",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"light", "dark", "system"},
			RunE: func(cmd *cobra.Command, args []string) error {
				p, closer, err := a.preferences(cmd.Context())
				if err != nil {
					return err
				}
				defer closeQuietly(a.logger, closer)

				mode, err := p.SetTheme(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s.\n", mode)
				return nil
			},
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Switch between light and dark",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				p, closer, err := a.preferences(cmd.Context())
				if err != nil {
					return err
				}
				defer closeQuietly(a.logger, closer)

				fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s.\n", p.ToggleTheme(cmd.Context()))
				return nil
			},
		},
	)
	return cmd
}
