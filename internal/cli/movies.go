package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/cinelist/internal/domain"
	"github.com/Clark-Hu/cinelist/internal/format"
	"github.com/Clark-Hu/cinelist/internal/query"
	"github.com/Clark-Hu/cinelist/internal/tmdb"
)

func (a *app) topRatedCommand() *cobra.Command {
	var (
		pages  int
		search string
	)
	cmd := &cobra.Command{
		Use:         "top-rated",
		Short:       "List top rated movies",
		Long:        `Load the first pages of the top rated listing and print them. A search (from --search or the saved query) filters the loaded movies by title.`,
		Annotations: map[string]string{annotationProvider: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if pages < 1 {
				return fmt.Errorf("--pages must be at least 1")
			}

			movies, err := a.movies()
			if err != nil {
				return err
			}
			prefs, closer := a.optionalPreferences(ctx)
			defer closeQuietly(a.logger, closer)

			stream := query.NewStream(movies, query.Options{
				FreshFor:  a.cfg.CacheFresh(),
				RetainFor: a.cfg.CacheRetain(),
				Logger:    a.logger,
			})
			if err := stream.Start(ctx); err != nil {
				return err
			}
			// A failure past page 1 keeps what was loaded; it is reported
			// after the listing.
			var fetchErr error
			for len(stream.Pages()) < pages && stream.HasMore() {
				more, err := stream.FetchNext(ctx)
				if err != nil {
					fetchErr = err
					break
				}
				if !more {
					break
				}
			}

			q := search
			if !cmd.Flags().Changed("search") {
				q = prefs.SearchQuery()
			}
			q = strings.TrimSpace(q)
			if q != "" {
				stream.SetEnabled(false)
			}

			out := cmd.OutOrStdout()
			loaded := stream.Pages()
			if list := stream.Filter(q); len(list) == 0 {
				fmt.Fprintf(out, "No movies match %q.\n", q)
			} else {
				printMovieTable(out, list, prefs.IsFavorite)
				fmt.Fprintf(out, "\nShowing %d of %s movies", len(list), format.Int(float64(loaded[0].TotalResults)))
				if q != "" {
					fmt.Fprintf(out, " matching %q", q)
				}
				fmt.Fprintln(out)
			}

			if fetchErr != nil {
				failed := loaded[len(loaded)-1].Number + 1
				fmt.Fprintf(out, "\nCould not load page %d: %v\nRun the command again to retry.\n", failed, stream.Err())
				return fmt.Errorf("loaded %d of %d pages: %w", len(loaded), pages, fetchErr)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&pages, "pages", "n", 1, "number of listing pages to load")
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter loaded movies by title (defaults to the saved search)")
	return cmd
}

func printMovieTable(out io.Writer, list []domain.MovieSummary, isFavorite func(int) bool) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tTITLE\tYEAR\tRATING\tVOTES")
	for _, m := range list {
		mark := " "
		if isFavorite(m.ID) {
			mark = "★"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			mark, m.ID, m.Title, year(m.ReleaseYear), format.Rating(m.VoteAverage), format.Int(float64(m.VoteCount)))
	}
	_ = tw.Flush()
}

func (a *app) movieCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "movie <id>...",
		Short:       "Show details for one or more movies",
		Annotations: map[string]string{annotationProvider: "true"},
		Args:        cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ids := make([]int, 0, len(args))
			for _, arg := range args {
				id, err := parseMovieID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			movies, err := a.movies()
			if err != nil {
				return err
			}
			details := query.NewDetailQuery(movies, len(ids), query.Options{
				FreshFor:  a.cfg.CacheFresh(),
				RetainFor: a.cfg.CacheRetain(),
				Logger:    a.logger,
			})

			prefs, closer := a.optionalPreferences(ctx)
			defer closeQuietly(a.logger, closer)

			out := cmd.OutOrStdout()
			for i, id := range ids {
				detail, err := details.Get(ctx, id)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out, strings.Repeat("-", 60))
				}
				printMovieDetail(out, detail, movies.ImageURL(detail.PosterPath, tmdb.DefaultImageSize), prefs.IsFavorite(detail.ID))
			}
			return nil
		},
	}
}

func printMovieDetail(out io.Writer, d domain.MovieDetail, poster *string, favorite bool) {
	fmt.Fprintf(out, "%s (%s)\n", d.Title, year(d.ReleaseYear))
	if d.Tagline != nil && *d.Tagline != "" {
		fmt.Fprintln(out, *d.Tagline)
	}
	if d.Overview != "" {
		fmt.Fprintf(out, "\n%s\n", d.Overview)
	}
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Rating:\t%s (%s votes)\n", format.Rating(d.VoteAverage), format.Int(float64(d.VoteCount)))
	if d.FormattedRuntime != nil {
		fmt.Fprintf(tw, "Runtime:\t%s\n", *d.FormattedRuntime)
	}
	if len(d.Genres) > 0 {
		names := make([]string, 0, len(d.Genres))
		for _, g := range d.Genres {
			names = append(names, g.Name)
		}
		fmt.Fprintf(tw, "Genres:\t%s\n", strings.Join(names, ", "))
	}
	if d.Status != "" {
		fmt.Fprintf(tw, "Status:\t%s\n", d.Status)
	}
	fmt.Fprintf(tw, "Budget:\t%s\n", format.Currency(float64(d.Budget)))
	fmt.Fprintf(tw, "Revenue:\t%s\n", format.Currency(float64(d.Revenue)))
	if d.IsProfitable {
		fmt.Fprintf(tw, "Profit:\t%s\n", format.Currency(float64(d.Profit)))
	}
	if len(d.ProductionCompanies) > 0 {
		names := make([]string, 0, len(d.ProductionCompanies))
		for _, c := range d.ProductionCompanies {
			names = append(names, c.Name)
		}
		fmt.Fprintf(tw, "Studios:\t%s\n", strings.Join(names, ", "))
	}
	if d.Homepage != nil {
		fmt.Fprintf(tw, "Homepage:\t%s\n", *d.Homepage)
	}
	if d.IMDbURL != nil {
		fmt.Fprintf(tw, "IMDb:\t%s\n", *d.IMDbURL)
	}
	if poster != nil {
		fmt.Fprintf(tw, "Poster:\t%s\n", *poster)
	}
	fmt.Fprintf(tw, "Favorite:\t%s\n", yesNo(favorite))
	_ = tw.Flush()
}

// parseMovieID accepts only a plain positive integer.
func parseMovieID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("movie id", "Movie ID must be a positive integer")
	}
	return id, nil
}

func year(y int) string {
	if y == domain.InvalidYear {
		return "n/a"
	}
	return strconv.Itoa(y)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
