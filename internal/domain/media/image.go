package media

import (
	"path"
	"strings"
	"time"
)

// Image is an uploaded file attached to a content item. StoredName is the
// file name under the media directory; OriginalName is what the uploader sent.
type Image struct {
	ID           string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StoredName   string `gorm:"not null;uniqueIndex" json:"-"`
	OriginalName string `json:"original_name"`
	ContentType  string `json:"content_type"`
	Size         int64  `json:"size"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// URL is where the file is served from, relative to base.
func (img *Image) URL(base string) string {
	if img == nil || img.StoredName == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + path.Join("/media", img.StoredName)
}
