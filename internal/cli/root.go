// Package cli is the gallery command line: it browses a collection, selects
// records and runs create, edit and bulk delete through the gallery core.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"heritage-gallery/internal/client"
	"heritage-gallery/internal/domain/access"
	"heritage-gallery/internal/gallery"
	"heritage-gallery/internal/logging"
)

type App struct {
	APIURL   string
	Token    string
	Resource string
	LogLevel string

	log logging.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "gallery",
		Short:         "Browse and curate heritage gallery collections",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # First page of artworks, newest first
  gallery list

  # Archives matching "ledger", three pages deep
  gallery --resource archives list --search ledger --pages 3

  # Fix a title (only changed fields are sent)
  gallery edit the-night-watch --title "The Night Watch"

  # Delete what you own among the given records
  gallery delete atlas bestiary
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		app.log = logging.New(app.LogLevel, cmd.ErrOrStderr())
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api", envOr("GALLERY_API_URL", "http://localhost:8080"), "Backend base URL")
	cmd.PersistentFlags().StringVar(&app.Token, "token", envOr("GALLERY_TOKEN", ""), "Login token (from /login)")
	cmd.PersistentFlags().StringVar(&app.Resource, "resource", envOr("GALLERY_RESOURCE", "artworks"), "Collection: artworks|museums|archives|digital-content")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("GALLERY_LOG_LEVEL", "warn"), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newCreateCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newDeleteCmd(app))

	return cmd
}

func (app *App) logger() logging.Logger {
	if app.log == nil {
		return logging.Discard()
	}
	return app.log
}

func (app *App) actor() (access.Actor, error) {
	a, err := client.ActorFromToken(app.Token)
	if err != nil {
		return access.Actor{}, fmt.Errorf("read --token: %w", err)
	}
	return a, nil
}

func (app *App) open(q gallery.Query) (*gallery.Gallery, error) {
	coll, err := client.New(app.APIURL, app.Resource, client.WithToken(app.Token))
	if err != nil {
		return nil, err
	}
	return gallery.New(coll, q, gallery.WithLogger(app.logger().With("resource", app.Resource))), nil
}

// findLoaded pages through g until every slug is loaded or the list ends.
func findLoaded(ctx context.Context, g *gallery.Gallery, slugs ...string) (map[string]gallery.Record, error) {
	if err := g.Reload(ctx); err != nil {
		return nil, err
	}
	for {
		found := map[string]gallery.Record{}
		for _, r := range g.Items() {
			for _, s := range slugs {
				if r.Slug == s {
					found[s] = r
				}
			}
		}
		if len(found) == len(slugs) || !g.Snapshot().HasMore {
			return found, nil
		}
		if err := g.LoadMore(ctx); err != nil {
			return nil, err
		}
	}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
