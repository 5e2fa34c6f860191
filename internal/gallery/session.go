package gallery

import (
	"context"
	"fmt"
	"sync"
)

// Placement decides where ApplyCreated puts a new record.
type Placement int

const (
	PlaceFirst Placement = iota
	PlaceLast
)

type SessionOption func(*Session)

// WithCreatedPlacement matches new records to the list's sort order.
func WithCreatedPlacement(p Placement) SessionOption {
	return func(s *Session) { s.placement = p }
}

// State is a point-in-time copy of a Session for rendering.
type State struct {
	Query      Query
	Items      []Record
	TotalCount int
	HasMore    bool
	Loading    bool
	Selection  []string
}

// Session owns one gallery's paginated, filtered item list and its selection.
//
// The mutex is never held across a Collection call. Every reset bumps
// generation; a response that comes back under an older generation is dropped.
type Session struct {
	mu     sync.Mutex
	source Collection

	placement Placement

	query      Query
	items      []Record
	totalCount int
	hasMore    bool
	loading    bool
	generation uint64
	selection  Selection
}

func NewSession(source Collection, initial Query, opts ...SessionOption) *Session {
	initial.Page = 1
	s := &Session{
		source:    source,
		query:     initial,
		selection: Selection{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetQuery replaces the list when anything but the page changed.
func (s *Session) SetQuery(ctx context.Context, q Query) error {
	s.mu.Lock()
	if s.query.SameFilter(q) {
		s.mu.Unlock()
		return nil
	}
	q.Page = 1
	s.query = q
	gen := s.resetLocked()
	s.mu.Unlock()

	return s.fetchFirst(ctx, q, gen)
}

// Reload refetches page 1 of the current query. Used on mount and for retry.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.query.Page = 1
	q := s.query
	gen := s.resetLocked()
	s.mu.Unlock()

	return s.fetchFirst(ctx, q, gen)
}

// LoadMore appends the next page. It does nothing while a request is in
// flight or when the server reported no next page.
func (s *Session) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if s.loading || !s.hasMore {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	gen := s.generation
	q := s.query
	q.Page++
	s.mu.Unlock()

	page, err := s.source.List(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil
	}
	s.loading = false
	if err != nil {
		return fmt.Errorf("load page %d: %w", q.Page, err)
	}

	s.query.Page = q.Page
	s.items = append(s.items, page.Results...)
	s.hasMore = page.HasNext()
	s.totalCount = max(page.Count, len(s.items))
	return nil
}

// ApplyCreated inserts a record confirmed by the server.
func (s *Session) ApplyCreated(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.placement == PlaceLast {
		s.items = append(s.items, r)
	} else {
		s.items = append([]Record{r}, s.items...)
	}
	s.totalCount++
}

// ApplyUpdated swaps in the server's version of a record, in place. A record
// that is not loaded is ignored; the next reload brings it in.
func (s *Session) ApplyUpdated(r Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == r.ID {
			s.items[i] = r
			return true
		}
	}
	return false
}

// ApplyDeleted drops the given ids from the list and the selection and
// returns how many items were removed.
func (s *Session) ApplyDeleted(ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	gone := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	removed := 0
	for _, it := range s.items {
		if _, ok := gone[it.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	// Clear the tail so dropped records can be collected.
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = Record{}
	}
	s.items = kept

	s.totalCount = max(s.totalCount-removed, len(s.items))
	for id := range gone {
		delete(s.selection, id)
	}
	return removed
}

// ToggleSelect flips selection of a loaded record and returns the new state.
// Ids that are not in the list cannot be selected.
func (s *Session) ToggleSelect(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selection.Has(id) {
		delete(s.selection, id)
		return false
	}
	if s.indexLocked(id) < 0 {
		return false
	}
	s.selection[id] = struct{}{}
	return true
}

func (s *Session) ClearSelection() {
	s.mu.Lock()
	s.selection = Selection{}
	s.mu.Unlock()
}

func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.clone()
}

// Selected returns the selected records in list order.
func (s *Session) Selected() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, 0, len(s.selection))
	for _, it := range s.items {
		if s.selection.Has(it.ID) {
			out = append(out, it)
		}
	}
	return out
}

func (s *Session) Items() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.items...)
}

func (s *Session) Find(id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.items[i], true
	}
	return Record{}, false
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Query:      s.query,
		Items:      append([]Record(nil), s.items...),
		TotalCount: s.totalCount,
		HasMore:    s.hasMore,
		Loading:    s.loading,
		Selection:  s.selection.IDs(),
	}
}

func (s *Session) resetLocked() uint64 {
	s.generation++
	s.loading = true
	s.items = nil
	s.totalCount = 0
	s.hasMore = false
	s.selection = Selection{}
	return s.generation
}

func (s *Session) fetchFirst(ctx context.Context, q Query, gen uint64) error {
	page, err := s.source.List(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil
	}
	s.loading = false
	if err != nil {
		return fmt.Errorf("load page 1: %w", err)
	}

	s.items = append([]Record(nil), page.Results...)
	s.totalCount = max(page.Count, len(s.items))
	s.hasMore = page.HasNext()
	return nil
}

func (s *Session) indexLocked(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
