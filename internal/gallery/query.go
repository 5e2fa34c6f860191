package gallery

import "context"

// Query is the active filter state of a gallery list.
type Query struct {
	Search   string
	Category string
	Ordering string
	Page     int
}

// SameFilter reports whether q and other differ only in Page.
func (q Query) SameFilter(other Query) bool {
	return q.Search == other.Search &&
		q.Category == other.Category &&
		q.Ordering == other.Ordering
}

// Page is one response of the collection list endpoint.
type Page struct {
	Count   int
	Next    string
	Results []Record
}

func (p Page) HasNext() bool {
	return p.Next != ""
}

// Collection is the REST resource a gallery is backed by. The server is the
// authority on permissions; client checks only shape the UI.
type Collection interface {
	List(ctx context.Context, q Query) (Page, error)
	Create(ctx context.Context, p Patch) (Record, error)
	Update(ctx context.Context, slug string, p Patch) (Record, error)
	Delete(ctx context.Context, slug string) error
}
