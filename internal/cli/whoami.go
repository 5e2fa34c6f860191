package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"heritage-gallery/internal/domain/access"
)

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the login the token carries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.actor()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !actor.Authenticated() {
				fmt.Fprintln(out, "anonymous (read only)")
				return nil
			}
			name := actor.DisplayName()
			if name == "" {
				name = "user " + actor.ID
			}
			fmt.Fprintf(out, "%s (%s)\n", name, actor.Role)
			if caps := access.CapabilitiesFor(actor); len(caps) > 0 {
				fmt.Fprintf(out, "can: %s\n", strings.Join(caps, ", "))
			}
			return nil
		},
	}
}
