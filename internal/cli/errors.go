package cli

import (
	"errors"

	"heritage-gallery/internal/client"
	"heritage-gallery/internal/gallery"
)

// UserMessage is what the command line prints for err. Gallery outcomes use
// the shared wording; anything else is shown as is.
func UserMessage(err error) string {
	var (
		pf *gallery.PartialFailureError
		se *client.StatusError
	)
	switch {
	case errors.As(err, &pf), gallery.IsValidation(err), gallery.IsAuthorization(err):
		return gallery.Message(err)
	case errors.Is(err, client.ErrNotFound):
		return "Not found"
	case errors.As(err, &se) && se.Message != "":
		return se.Message
	default:
		return err.Error()
	}
}
