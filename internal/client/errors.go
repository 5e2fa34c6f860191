package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"heritage-gallery/internal/gallery"
)

var ErrNotFound = errors.New("not found")

// StatusError is any non-2xx answer without a more specific meaning.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server answered %d", e.Code)
	}
	return fmt.Sprintf("server answered %d: %s", e.Code, e.Message)
}

func statusError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return gallery.ErrUnauthorized
	case http.StatusForbidden:
		return gallery.ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}

	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &body) != nil {
		body.Error = ""
	}
	return &StatusError{Code: resp.StatusCode, Message: body.Error}
}
