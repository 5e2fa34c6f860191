package records

import (
	"context"
	"errors"

	"heritage-gallery/internal/domain/content"
	"heritage-gallery/internal/domain/media"
)

var ErrNotFound = errors.New("record not found")

// ListParams is a resolved list request. Order is a whitelisted SQL order.
type ListParams struct {
	Search   string
	Category string
	Order    string
	Offset   int
	Limit    int
}

// Store persists content items. Lookups are always scoped to one kind.
type Store interface {
	List(ctx context.Context, kind content.Kind, p ListParams) ([]content.Item, int64, error)
	Get(ctx context.Context, kind content.Kind, slug string) (content.Item, error)
	SlugTaken(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, it *content.Item) error
	Save(ctx context.Context, it *content.Item) error
	Delete(ctx context.Context, it *content.Item) error
	IncrementViews(ctx context.Context, id string) error
	SaveImage(ctx context.Context, img *media.Image) error
	// DisplayNames resolves current "first last" names for user ids.
	DisplayNames(ctx context.Context, ids []uint) (map[uint]string, error)
}
