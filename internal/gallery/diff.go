package gallery

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type FieldKind int

const (
	KindText FieldKind = iota
	KindList
	KindNumber
)

// Field describes one user-editable field. Anything not declared in a FieldSet
// is never sent to the server.
type Field struct {
	Name     string
	Kind     FieldKind
	Required bool
	// Default is the canonical value assumed when the original record lacks
	// the field.
	Default string
}

type FieldSet []Field

// DefaultFields is the editable set shared by the heritage galleries.
var DefaultFields = FieldSet{
	{Name: "title", Kind: KindText, Required: true},
	{Name: "description", Kind: KindText},
	{Name: "category", Kind: KindText},
	{Name: "tags", Kind: KindList},
	{Name: "year", Kind: KindNumber},
}

// Attachment is a new binary file submitted with a create or update.
type Attachment struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Patch holds only what changed, plus an optional attachment.
type Patch struct {
	Fields     map[string]any
	Attachment *Attachment
}

func (p Patch) Multipart() bool {
	return p.Attachment != nil
}

func (p Patch) Empty() bool {
	return len(p.Fields) == 0 && p.Attachment == nil
}

func (fs FieldSet) Lookup(name string) (Field, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Diff compares draft against original field by field and returns the sparse
// patch. It returns ErrNoChange when nothing differs and no attachment is given.
func (fs FieldSet) Diff(original Record, draft Draft, attachment *Attachment) (Patch, error) {
	patch := Patch{Fields: map[string]any{}, Attachment: attachment}

	for _, f := range fs {
		next, ok := draft[f.Name]
		if !ok {
			continue
		}

		nextCanon, value, err := f.canonical(next)
		if err != nil {
			return Patch{}, err
		}
		if f.Required && nextCanon == "" {
			return Patch{}, &FieldError{Field: f.Name, Reason: "is required"}
		}

		prevCanon := f.Default
		if prev, ok := original.Get(f.Name); ok && prev != nil {
			if c, _, err := f.canonical(prev); err == nil {
				prevCanon = c
			} else {
				prevCanon = strings.TrimSpace(scalarString(prev))
			}
		}

		if nextCanon != prevCanon {
			patch.Fields[f.Name] = value
		}
	}

	if patch.Empty() {
		return Patch{}, ErrNoChange
	}
	return patch, nil
}

// Create validates a new record's draft. Empty optional fields are left out.
func (fs FieldSet) Create(draft Draft, attachment *Attachment) (Patch, error) {
	patch := Patch{Fields: map[string]any{}, Attachment: attachment}

	for _, f := range fs {
		v, ok := draft[f.Name]
		canon, value := "", any(nil)
		if ok {
			var err error
			canon, value, err = f.canonical(v)
			if err != nil {
				return Patch{}, err
			}
		}
		if canon == "" {
			if f.Required {
				return Patch{}, &FieldError{Field: f.Name, Reason: "is required"}
			}
			continue
		}
		patch.Fields[f.Name] = value
	}
	return patch, nil
}

// canonical returns the comparison form of v and the value to submit.
func (f Field) canonical(v any) (string, any, error) {
	switch f.Kind {
	case KindList:
		items, err := listValues(v)
		if err != nil {
			return "", nil, &FieldError{Field: f.Name, Reason: "must be a list of strings"}
		}
		return strings.Join(items, ","), items, nil

	case KindNumber:
		s := strings.TrimSpace(scalarString(v))
		if s == "" {
			return "", nil, nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return "", nil, &FieldError{Field: f.Name, Reason: "must be a number"}
		}
		return strconv.FormatFloat(n, 'f', -1, 64), n, nil

	default:
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case nil:
		default:
			s = scalarString(t)
			if s == "" {
				s = fmt.Sprint(t)
			}
		}
		s = strings.TrimSpace(s)
		return s, s, nil
	}
}

func listValues(v any) ([]string, error) {
	var raw []string
	switch t := v.(type) {
	case nil:
	case []string:
		raw = t
	case []any:
		for _, e := range t {
			raw = append(raw, scalarString(e))
		}
	case string:
		raw = strings.Split(t, ",")
	case json.RawMessage:
		if err := json.Unmarshal(t, &raw); err != nil {
			return nil, err
		}
	default:
		raw = []string{fmt.Sprint(t)}
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
