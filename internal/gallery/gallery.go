package gallery

import (
	"context"
	"fmt"

	"heritage-gallery/internal/domain/access"
	"heritage-gallery/internal/logging"
)

// Gallery is what a view binds to: one Session plus the mutation flows that
// feed confirmed results back into it. The actor is passed per call so that
// permission checks always see the current login.
type Gallery struct {
	*Session

	source Collection
	fields FieldSet
	log    logging.Logger
}

type Option func(*Gallery)

func WithFields(fs FieldSet) Option {
	return func(g *Gallery) { g.fields = fs }
}

func WithLogger(l logging.Logger) Option {
	return func(g *Gallery) { g.log = l }
}

func WithSessionOptions(opts ...SessionOption) Option {
	return func(g *Gallery) {
		for _, opt := range opts {
			opt(g.Session)
		}
	}
}

func New(source Collection, initial Query, opts ...Option) *Gallery {
	g := &Gallery{
		Session: NewSession(source, initial),
		source:  source,
		fields:  DefaultFields,
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gallery) Fields() FieldSet {
	return g.fields
}

// CanMutate is the per-record UX gate.
func (g *Gallery) CanMutate(actor access.Actor, r Record) bool {
	return access.CanMutate(actor, r.Ownership())
}

// SubmitCreate validates draft, creates the record and places it in the list.
func (g *Gallery) SubmitCreate(ctx context.Context, actor access.Actor, draft Draft, attachment *Attachment) (Record, error) {
	if !actor.Authenticated() {
		return Record{}, ErrUnauthorized
	}
	if !access.CanCreate(actor) {
		return Record{}, ErrNoPermission
	}

	patch, err := g.fields.Create(draft, attachment)
	if err != nil {
		return Record{}, err
	}

	created, err := g.source.Create(ctx, patch)
	if err != nil {
		g.logFailure(ctx, "create failed", err)
		return Record{}, fmt.Errorf("create: %w", err)
	}

	g.ApplyCreated(created)
	return created, nil
}

// SubmitEdit sends only the changed fields of original and splices the
// server's answer back in place. Nothing local changes unless the server
// accepts the update.
func (g *Gallery) SubmitEdit(ctx context.Context, actor access.Actor, original Record, draft Draft, attachment *Attachment) (Record, error) {
	if !g.CanMutate(actor, original) {
		return Record{}, ErrNoPermission
	}

	patch, err := g.fields.Diff(original, draft, attachment)
	if err != nil {
		return Record{}, err
	}

	updated, err := g.source.Update(ctx, original.Slug, patch)
	if err != nil {
		g.logFailure(ctx, "update failed", err, "slug", original.Slug)
		return Record{}, fmt.Errorf("update %s: %w", original.Slug, err)
	}

	g.ApplyUpdated(updated)
	return updated, nil
}

func (g *Gallery) logFailure(ctx context.Context, msg string, err error, args ...any) {
	if IsValidation(err) {
		return
	}
	args = append(args, "error", err)
	if IsAuthorization(err) {
		g.log.Warn(ctx, msg, args...)
		return
	}
	g.log.Error(ctx, msg, args...)
}
