package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strconv"

	"heritage-gallery/internal/gallery"
)

// encodePatch picks JSON for plain field changes and multipart once a file is
// attached. In multipart, lists become repeated keys and cleared numbers empty
// values.
func encodePatch(p gallery.Patch) ([]byte, string, error) {
	if !p.Multipart() {
		fields := p.Fields
		if fields == nil {
			fields = map[string]any{}
		}
		b, err := json.Marshal(fields)
		if err != nil {
			return nil, "", fmt.Errorf("encode patch: %w", err)
		}
		return b, "application/json", nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	names := make([]string, 0, len(p.Fields))
	for name := range p.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, v := range formValues(p.Fields[name]) {
			if err := w.WriteField(name, v); err != nil {
				return nil, "", fmt.Errorf("encode field %s: %w", name, err)
			}
		}
	}

	a := p.Attachment
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, a.Field, a.Filename))
	ct := a.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("encode attachment: %w", err)
	}
	if _, err := part.Write(a.Data); err != nil {
		return nil, "", fmt.Errorf("encode attachment: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("encode patch: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func formValues(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{""}
	case string:
		return []string{t}
	case []string:
		if len(t) == 0 {
			return []string{""}
		}
		return t
	case float64:
		return []string{strconv.FormatFloat(t, 'f', -1, 64)}
	case int:
		return []string{strconv.Itoa(t)}
	case bool:
		return []string{strconv.FormatBool(t)}
	default:
		return []string{fmt.Sprint(t)}
	}
}
