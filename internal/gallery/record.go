// Package gallery is the content-synchronization core shared by the artwork,
// museum, archive and digital-content galleries: permission-aware selection,
// minimal partial updates and a paginated list that absorbs create, update and
// delete results without refetching.
package gallery

import (
	"encoding/json"
	"strconv"
	"strings"

	"heritage-gallery/internal/domain/access"
)

// Record is one content item as served by a collection resource. Identity and
// ownership are lifted out of the payload; everything else stays in Fields.
type Record struct {
	ID         string
	Slug       string
	OwnerID    string
	UploadedBy string
	Fields     map[string]any
}

// Draft is the edited form state: field name to value.
type Draft map[string]any

func (r Record) Ownership() access.Ownership {
	return access.Ownership{OwnerID: r.OwnerID, UploadedBy: r.UploadedBy}
}

// Title is the human label used in confirmations. Falls back to the slug.
func (r Record) Title() string {
	if s, ok := r.Fields["title"].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return r.Slug
}

// Get returns a content field.
func (r Record) Get(name string) (any, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

func (r *Record) UnmarshalJSON(b []byte) error {
	raw := map[string]any{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Fields = raw
	r.ID = scalarString(raw["id"])
	r.Slug = scalarString(raw["slug"])
	r.OwnerID = scalarString(raw["owner_id"])
	r.UploadedBy = scalarString(raw["uploaded_by"])
	return nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+4)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["id"] = r.ID
	out["slug"] = r.Slug
	if r.OwnerID != "" {
		out["owner_id"] = r.OwnerID
	}
	if r.UploadedBy != "" {
		out["uploaded_by"] = r.UploadedBy
	}
	return json.Marshal(out)
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
