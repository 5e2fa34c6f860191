package gallery

import (
	"context"
	"fmt"
	"sync"
)

func rec(id, ownerID, title string) Record {
	return Record{
		ID:      id,
		Slug:    "slug-" + id,
		OwnerID: ownerID,
		Fields:  map[string]any{"id": id, "title": title},
	}
}

func ids(rs []Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

// fakeCollection answers List from pages keyed by page number unless listFn is set.
type fakeCollection struct {
	mu sync.Mutex

	pages  map[int]Page
	listFn func(ctx context.Context, q Query) (Page, error)

	createFn func(p Patch) (Record, error)
	updateFn func(slug string, p Patch) (Record, error)

	deleteErr map[string]error
	// deleteHook runs before a delete is recorded, outside the lock.
	deleteHook func(slug string)

	listCalls []Query
	creates   []Patch
	updates   []Patch
	deleted   []string
}

func (f *fakeCollection) List(ctx context.Context, q Query) (Page, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, q)
	fn := f.listFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, q)
	}
	p, ok := f.pages[q.Page]
	if !ok {
		return Page{}, fmt.Errorf("no page %d", q.Page)
	}
	return p, nil
}

func (f *fakeCollection) Create(ctx context.Context, p Patch) (Record, error) {
	f.mu.Lock()
	f.creates = append(f.creates, p)
	f.mu.Unlock()
	return f.createFn(p)
}

func (f *fakeCollection) Update(ctx context.Context, slug string, p Patch) (Record, error) {
	f.mu.Lock()
	f.updates = append(f.updates, p)
	f.mu.Unlock()
	return f.updateFn(slug, p)
}

func (f *fakeCollection) Delete(ctx context.Context, slug string) error {
	if f.deleteHook != nil {
		f.deleteHook(slug)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[slug]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, slug)
	return nil
}

func (f *fakeCollection) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls)
}
