package records

import (
	"context"
	"errors"
	"strings"

	"heritage-gallery/internal/domain/content"
	"heritage-gallery/internal/domain/media"
	"heritage-gallery/internal/domain/users"

	"gorm.io/gorm"
)

// GormStore is the postgres-backed Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func kindQuery(db *gorm.DB, kind content.Kind) *gorm.DB {
	return db.Model(&content.Item{}).Where("kind = ?", kind)
}

func filteredQuery(db *gorm.DB, kind content.Kind, p ListParams) *gorm.DB {
	q := kindQuery(db, kind)
	if s := strings.TrimSpace(p.Search); s != "" {
		like := "%" + escapeLike(s) + "%"
		q = q.Where("(title ILIKE ? OR description ILIKE ?)", like, like)
	}
	if p.Category != "" {
		q = q.Where("category = ?", p.Category)
	}
	return q
}

func (s *GormStore) List(ctx context.Context, kind content.Kind, p ListParams) ([]content.Item, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := filteredQuery(db, kind, p).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []content.Item
	err := filteredQuery(db, kind, p).
		Preload("Image").
		Order(p.Order).
		Order("slug ASC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *GormStore) Get(ctx context.Context, kind content.Kind, slug string) (content.Item, error) {
	var it content.Item
	err := kindQuery(s.db.WithContext(ctx), kind).
		Preload("Image").
		Where("slug = ?", slug).
		First(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return content.Item{}, ErrNotFound
	}
	return it, err
}

func (s *GormStore) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&content.Item{}).Where("slug = ?", slug).Count(&n).Error
	return n > 0, err
}

func (s *GormStore) Create(ctx context.Context, it *content.Item) error {
	return s.db.WithContext(ctx).Create(it).Error
}

func (s *GormStore) Save(ctx context.Context, it *content.Item) error {
	return s.db.WithContext(ctx).Omit("Image").Save(it).Error
}

func (s *GormStore) Delete(ctx context.Context, it *content.Item) error {
	res := s.db.WithContext(ctx).Delete(&content.Item{}, "id = ?", it.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) IncrementViews(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Model(&content.Item{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

func (s *GormStore) SaveImage(ctx context.Context, img *media.Image) error {
	return s.db.WithContext(ctx).Create(img).Error
}

func (s *GormStore) DisplayNames(ctx context.Context, ids []uint) (map[uint]string, error) {
	out := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []users.User
	if err := s.db.WithContext(ctx).Select("id", "name", "lastname").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, u := range rows {
		out[u.ID] = u.DisplayName()
	}
	return out, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
