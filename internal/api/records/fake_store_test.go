package records

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"heritage-gallery/internal/domain/content"
	"heritage-gallery/internal/domain/media"
)

// memStore is an in-memory Store. Order only understands the orderings the
// tests use.
type memStore struct {
	mu     sync.Mutex
	items  []content.Item
	images []media.Image
	names  map[uint]string

	nameCalls int
	lastList  ListParams

	// failWrites, when set, fails Create and Save.
	failWrites error
}

func newMemStore() *memStore {
	return &memStore{names: map[uint]string{}}
}

func (m *memStore) add(it content.Item) content.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Date(2024, 1, 1, 0, 0, len(m.items), 0, time.UTC)
	}
	m.items = append(m.items, it)
	return it
}

func (m *memStore) List(ctx context.Context, kind content.Kind, p ListParams) ([]content.Item, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastList = p

	var matched []content.Item
	for _, it := range m.items {
		if it.Kind != kind {
			continue
		}
		if p.Category != "" && it.Category != p.Category {
			continue
		}
		if s := strings.ToLower(strings.TrimSpace(p.Search)); s != "" &&
			!strings.Contains(strings.ToLower(it.Title), s) &&
			!strings.Contains(strings.ToLower(it.Description), s) {
			continue
		}
		matched = append(matched, it)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		switch p.Order {
		case "title ASC":
			return matched[i].Title < matched[j].Title
		default:
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
	})

	total := int64(len(matched))
	if p.Offset >= len(matched) {
		return nil, total, nil
	}
	end := min(p.Offset+p.Limit, len(matched))
	return matched[p.Offset:end], total, nil
}

func (m *memStore) Get(ctx context.Context, kind content.Kind, slug string) (content.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.Kind == kind && it.Slug == slug {
			return it, nil
		}
	}
	return content.Item{}, ErrNotFound
}

func (m *memStore) SlugTaken(ctx context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Create(ctx context.Context, it *content.Item) error {
	if m.failWrites != nil {
		return m.failWrites
	}
	created := m.add(*it)
	*it = created
	return nil
}

func (m *memStore) Save(ctx context.Context, it *content.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites != nil {
		return m.failWrites
	}
	for i := range m.items {
		if m.items[i].ID == it.ID {
			m.items[i] = *it
			return nil
		}
	}
	return ErrNotFound
}

func (m *memStore) Delete(ctx context.Context, it *content.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == it.ID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memStore) IncrementViews(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].ViewCount++
			return nil
		}
	}
	return ErrNotFound
}

func (m *memStore) SaveImage(ctx context.Context, img *media.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	img.ID = uuid.NewString()
	m.images = append(m.images, *img)
	return nil
}

func (m *memStore) DisplayNames(ctx context.Context, ids []uint) (map[uint]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nameCalls++
	out := map[uint]string{}
	for _, id := range ids {
		if n, ok := m.names[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

func (m *memStore) find(slug string) (content.Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.Slug == slug {
			return it, true
		}
	}
	return content.Item{}, false
}
