// Package content holds the stored heritage items behind every gallery
// resource.
package content

import (
	"strings"
	"time"

	"heritage-gallery/internal/domain/media"
)

type Kind string

const (
	KindArtwork Kind = "artwork"
	KindMuseum  Kind = "museum"
	KindArchive Kind = "archive"
	KindDigital Kind = "digital"
)

type Item struct {
	ID   string `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Kind Kind   `gorm:"type:varchar(20);not null;index"`
	Slug string `gorm:"not null;uniqueIndex"`

	Title       string `gorm:"not null"`
	Description string
	Category    string `gorm:"index"`
	TagList     string `gorm:"column:tags"`
	Year        *int

	ViewCount int `gorm:"not null;default:0"`

	UserID     *uint `gorm:"index"`
	UploadedBy string

	ImageID *string      `gorm:"type:uuid"`
	Image   *media.Image `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// Tags splits the stored comma list.
func (it Item) Tags() []string {
	return SplitTags(it.TagList)
}

func (it *Item) SetTags(tags []string) {
	it.TagList = strings.Join(cleanTags(tags), ",")
}

func SplitTags(s string) []string {
	return cleanTags(strings.Split(s, ","))
}

func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
