package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"heritage-gallery/internal/gallery"
)

func newDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <slug>...",
		Short: "Delete the given records you are allowed to delete",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.actor()
			if err != nil {
				return err
			}
			g, err := app.open(gallery.Query{})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			found, err := findLoaded(ctx, g, args...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, slug := range args {
				r, ok := found[slug]
				if !ok {
					fmt.Fprintf(out, "skipping %s: not found\n", slug)
					continue
				}
				g.ToggleSelect(r.ID)
			}
			if skipped := len(g.Selected()) - len(g.Eligible(actor)); skipped > 0 {
				fmt.Fprintf(out, "skipping %d record(s) you may not modify\n", skipped)
			}

			confirm := func(titles []string) bool {
				if yes {
					return true
				}
				return askConfirm(cmd.InOrStdin(), out, titles)
			}
			report, err := g.BulkDelete(ctx, actor, confirm)
			for _, id := range report.Deleted {
				fmt.Fprintf(out, "deleted %s\n", id)
			}
			var pf *gallery.PartialFailureError
			if errors.As(err, &pf) {
				for _, id := range report.FailedIDs() {
					fmt.Fprintf(out, "failed %s: %v\n", id, report.Failed[id])
				}
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func askConfirm(in io.Reader, out io.Writer, titles []string) bool {
	fmt.Fprintf(out, "Delete %d record(s)?\n", len(titles))
	for _, t := range titles {
		fmt.Fprintf(out, "  - %s\n", t)
	}
	fmt.Fprint(out, "[y/N] ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
