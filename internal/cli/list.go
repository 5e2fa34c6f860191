package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"heritage-gallery/internal/domain/access"
	"heritage-gallery/internal/gallery"
)

func newListCmd(app *App) *cobra.Command {
	var (
		q     gallery.Query
		pages int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.actor()
			if err != nil {
				return err
			}
			g, err := app.open(q)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := g.Reload(ctx); err != nil {
				return err
			}
			for i := 1; i < pages && g.Snapshot().HasMore; i++ {
				if err := g.LoadMore(ctx); err != nil {
					return err
				}
			}

			printList(cmd.OutOrStdout(), g, actor)
			return nil
		},
	}
	cmd.Flags().StringVar(&q.Search, "search", "", "Search titles and descriptions")
	cmd.Flags().StringVar(&q.Category, "category", "", "Only this category")
	cmd.Flags().StringVar(&q.Ordering, "ordering", "", "title|-title|year|-year|created_at|-created_at|view_count|-view_count")
	cmd.Flags().IntVar(&pages, "pages", 1, "How many pages to load")
	return cmd
}

func printList(w io.Writer, g *gallery.Gallery, actor access.Actor) {
	st := g.Snapshot()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tTITLE\tYEAR\tEDIT")
	for _, r := range st.Items {
		year, _ := r.Get("year")
		edit := ""
		if g.CanMutate(actor, r) {
			edit = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Slug, r.Title(), formatYear(year), edit)
	}
	tw.Flush()

	more := ""
	if st.HasMore {
		more = " (more available)"
	}
	fmt.Fprintf(w, "%d of %d shown%s\n", len(st.Items), st.TotalCount, more)
}

func formatYear(v any) string {
	switch t := v.(type) {
	case float64:
		return fmt.Sprintf("%.0f", t)
	case nil:
		return "-"
	default:
		return fmt.Sprint(t)
	}
}
