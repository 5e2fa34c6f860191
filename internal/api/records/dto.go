package records

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"heritage-gallery/internal/domain/content"
)

// changes is a parsed create or update body. Only fields in set were sent.
type changes struct {
	set map[string]bool

	title       string
	description string
	category    string
	tags        []string
	year        *int
}

var editable = map[string]bool{
	"title":       true,
	"description": true,
	"category":    true,
	"tags":        true,
	"year":        true,
}

var readOnly = map[string]bool{
	"id":          true,
	"slug":        true,
	"view_count":  true,
	"owner_id":    true,
	"uploaded_by": true,
	"created_at":  true,
	"updated_at":  true,
}

// fieldError is a rejected request field; it becomes a 400.
type fieldError struct {
	field string
	msg   string
}

func (e *fieldError) Error() string {
	return e.field + ": " + e.msg
}

func checkField(name string) error {
	if readOnly[name] {
		return &fieldError{name, "field is read-only"}
	}
	if !editable[name] {
		return &fieldError{name, "unknown field"}
	}
	return nil
}

// parseJSON reads a sparse body as decoded by encoding/json into a map.
func parseJSON(body map[string]any) (changes, error) {
	ch := changes{set: map[string]bool{}}
	for name, raw := range body {
		if err := checkField(name); err != nil {
			return ch, err
		}
		ch.set[name] = true

		switch name {
		case "tags":
			tags, err := jsonTags(raw)
			if err != nil {
				return ch, err
			}
			ch.tags = tags
		case "year":
			year, err := jsonYear(raw)
			if err != nil {
				return ch, err
			}
			ch.year = year
		default:
			s, ok := raw.(string)
			if raw != nil && !ok {
				return ch, &fieldError{name, "must be a string"}
			}
			ch.setText(name, s)
		}
	}
	return ch, nil
}

// parseForm reads multipart values. Lists arrive as repeated keys and a
// cleared number as an empty value.
func parseForm(values map[string][]string, policy *bluemonday.Policy) (changes, error) {
	ch := changes{set: map[string]bool{}}
	for name, vs := range values {
		if err := checkField(name); err != nil {
			return ch, err
		}
		ch.set[name] = true

		clean := make([]string, len(vs))
		for i, v := range vs {
			clean[i] = policy.Sanitize(v)
		}

		switch name {
		case "tags":
			var tags []string
			for _, v := range clean {
				tags = append(tags, content.SplitTags(v)...)
			}
			ch.tags = tags
		case "year":
			year, err := parseYear(last(clean))
			if err != nil {
				return ch, err
			}
			ch.year = year
		default:
			ch.setText(name, last(clean))
		}
	}
	return ch, nil
}

func (ch *changes) setText(name, v string) {
	v = strings.TrimSpace(v)
	switch name {
	case "title":
		ch.title = v
	case "description":
		ch.description = v
	case "category":
		ch.category = v
	}
}

// validate checks required fields. Creates must carry a title; updates may
// omit it but not clear it.
func (ch changes) validate(creating bool) error {
	if (creating || ch.set["title"]) && ch.title == "" {
		return &fieldError{"title", "is required"}
	}
	return nil
}

func (ch changes) apply(it *content.Item) {
	if ch.set["title"] {
		it.Title = ch.title
	}
	if ch.set["description"] {
		it.Description = ch.description
	}
	if ch.set["category"] {
		it.Category = ch.category
	}
	if ch.set["tags"] {
		it.SetTags(ch.tags)
	}
	if ch.set["year"] {
		it.Year = ch.year
	}
}

func jsonTags(raw any) ([]string, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return content.SplitTags(t), nil
	case []any:
		out := make([]string, 0, len(t))
		for _, v := range t {
			s, ok := v.(string)
			if !ok {
				return nil, &fieldError{"tags", "must be a list of strings"}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &fieldError{"tags", "must be a list of strings"}
	}
}

func jsonYear(raw any) (*int, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		if t != math.Trunc(t) {
			return nil, &fieldError{"year", "must be a whole number"}
		}
		y := int(t)
		return &y, nil
	case string:
		return parseYear(t)
	default:
		return nil, &fieldError{"year", "must be a whole number"}
	}
}

func parseYear(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return nil, &fieldError{"year", "must be a whole number"}
	}
	y := int(f)
	return &y, nil
}

func last(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[len(vs)-1]
}

// ---------- responses

type itemResponse struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Year        *int     `json:"year"`
	ViewCount   int      `json:"view_count"`
	Image       *string  `json:"image"`
	UploadedBy  string   `json:"uploaded_by"`
	// Only set for resources that expose it.
	OwnerID *uint `json:"owner_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listResponse struct {
	Count   int64          `json:"count"`
	Next    *string        `json:"next"`
	Results []itemResponse `json:"results"`
}

func toItemResponse(it content.Item, res Resource, names map[uint]string, baseURL string) itemResponse {
	out := itemResponse{
		ID:          it.ID,
		Slug:        it.Slug,
		Title:       it.Title,
		Description: it.Description,
		Category:    it.Category,
		Tags:        it.Tags(),
		Year:        it.Year,
		ViewCount:   it.ViewCount,
		UploadedBy:  it.UploadedBy,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
	if u := it.Image.URL(baseURL); u != "" {
		out.Image = &u
	}
	if it.UserID != nil {
		if name, ok := names[*it.UserID]; ok && name != "" {
			out.UploadedBy = name
		}
		if res.ExposeOwnerID {
			id := *it.UserID
			out.OwnerID = &id
		}
	}
	return out
}

func decodeStrict(b []byte) (map[string]any, error) {
	body := map[string]any{}
	if len(strings.TrimSpace(string(b))) == 0 {
		return body, nil
	}
	if err := json.Unmarshal(b, &body); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	return body, nil
}
