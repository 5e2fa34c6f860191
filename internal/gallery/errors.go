package gallery

import (
	"errors"
	"fmt"
)

// Validation errors: raised before any network call and shown to the user as-is.
var (
	ErrNoChange     = errors.New("no changes to save")
	ErrNoPermission = errors.New("no permission for the selected items")
	ErrSelectOne    = errors.New("select only one item")
	ErrCanceled     = errors.New("action canceled")
)

// Authorization errors: the server said 401 / 403. Never retried.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// FieldError reports a single invalid draft field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// PartialFailureError is returned by BulkDelete when some deletions failed.
// The succeeded ones are already applied to the list.
type PartialFailureError struct {
	Succeeded int
	Failed    int
	// Cause is the first authorization error among the failures, or the
	// first failure when none was an authorization error.
	Cause error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%d of %d deletions failed: %v", e.Failed, e.Succeeded+e.Failed, e.Cause)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Cause
}

func IsValidation(err error) bool {
	var fe *FieldError
	return errors.Is(err, ErrNoChange) ||
		errors.Is(err, ErrNoPermission) ||
		errors.Is(err, ErrSelectOne) ||
		errors.Is(err, ErrCanceled) ||
		errors.As(err, &fe)
}

func IsAuthorization(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}

// Message maps an outcome onto the text the UI shows. Views render it; they do
// not pick it.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var pf *PartialFailureError
	if errors.As(err, &pf) {
		msg := fmt.Sprintf("%d of %d deletions failed", pf.Failed, pf.Succeeded+pf.Failed)
		if IsAuthorization(pf.Cause) {
			msg += ". " + Message(pf.Cause)
		}
		return msg
	}

	var fe *FieldError
	switch {
	case errors.As(err, &fe):
		return fmt.Sprintf("%s %s", capitalize(fe.Field), fe.Reason)
	case errors.Is(err, ErrNoChange):
		return "No changes to save"
	case errors.Is(err, ErrNoPermission):
		return "You don't have permission to modify the selected items"
	case errors.Is(err, ErrSelectOne):
		return "Select only one item to edit"
	case errors.Is(err, ErrCanceled):
		return "Canceled"
	case errors.Is(err, ErrUnauthorized):
		return "Log in as an admin or the item's owner to continue"
	case errors.Is(err, ErrForbidden):
		return "You lack permission for this action"
	default:
		return "Something went wrong. Please try again."
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
