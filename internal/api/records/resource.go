package records

import "heritage-gallery/internal/domain/content"

// Resource is one collection endpoint backed by content items of one kind.
type Resource struct {
	Path string
	Kind content.Kind
	// ExposeOwnerID controls whether responses carry owner_id. Without it
	// clients can only match ownership by uploaded_by.
	ExposeOwnerID bool
}

var (
	Artworks       = Resource{Path: "artworks", Kind: content.KindArtwork, ExposeOwnerID: true}
	Museums        = Resource{Path: "museums", Kind: content.KindMuseum, ExposeOwnerID: true}
	Archives       = Resource{Path: "archives", Kind: content.KindArchive}
	DigitalContent = Resource{Path: "digital-content", Kind: content.KindDigital, ExposeOwnerID: true}
)

// All lists every mounted gallery resource.
var All = []Resource{Artworks, Museums, Archives, DigitalContent}
