package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"heritage-gallery/internal/client"
	"heritage-gallery/internal/gallery"
)

// fieldFlags binds one flag per editable field. Only flags the user set end
// up in the draft.
type fieldFlags struct {
	text  map[string]*string
	lists map[string]*[]string
	image string
}

func bindFieldFlags(fs *pflag.FlagSet, fields gallery.FieldSet) *fieldFlags {
	ff := &fieldFlags{text: map[string]*string{}, lists: map[string]*[]string{}}
	for _, f := range fields {
		switch f.Kind {
		case gallery.KindList:
			ff.lists[f.Name] = fs.StringSlice(f.Name, nil, "Comma separated "+f.Name)
		default:
			ff.text[f.Name] = fs.String(f.Name, "", "Set "+f.Name+" (empty clears it)")
		}
	}
	fs.StringVar(&ff.image, "image", "", "Attach an image file")
	return ff
}

func (ff *fieldFlags) draft(fs *pflag.FlagSet) gallery.Draft {
	d := gallery.Draft{}
	for name, v := range ff.text {
		if fs.Changed(name) {
			d[name] = *v
		}
	}
	for name, v := range ff.lists {
		if fs.Changed(name) {
			d[name] = *v
		}
	}
	return d
}

func (ff *fieldFlags) attachment() (*gallery.Attachment, error) {
	if ff.image == "" {
		return nil, nil
	}
	data, err := os.ReadFile(ff.image)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return &gallery.Attachment{
		Field:       "image",
		Filename:    filepath.Base(ff.image),
		ContentType: mime.TypeByExtension(filepath.Ext(ff.image)),
		Data:        data,
	}, nil
}

func newCreateCmd(app *App) *cobra.Command {
	var ff *fieldFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.actor()
			if err != nil {
				return err
			}
			g, err := app.open(gallery.Query{})
			if err != nil {
				return err
			}
			att, err := ff.attachment()
			if err != nil {
				return err
			}

			created, err := g.SubmitCreate(cmd.Context(), actor, ff.draft(cmd.Flags()), att)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", created.Slug)
			return nil
		},
	}
	ff = bindFieldFlags(cmd.Flags(), gallery.DefaultFields)
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var ff *fieldFlags
	cmd := &cobra.Command{
		Use:   "edit <slug>",
		Short: "Update a record; only changed fields are sent",
		Args:  cobra.ExactArgs(1),
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
			found, err := findLoaded(ctx, g, args[0])
			if err != nil {
				return err
			}
			original, ok := found[args[0]]
			if !ok {
				return fmt.Errorf("%s: %w", args[0], client.ErrNotFound)
			}
			g.ToggleSelect(original.ID)
			target, err := g.BulkEdit(actor)
			if err != nil {
				return err
			}

			att, err := ff.attachment()
			if err != nil {
				return err
			}
			updated, err := g.SubmitEdit(ctx, actor, target, ff.draft(cmd.Flags()), att)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", updated.Slug)
			return nil
		},
	}
	ff = bindFieldFlags(cmd.Flags(), gallery.DefaultFields)
	return cmd
}
