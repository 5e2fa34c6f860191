package access

import (
	"strconv"
	"strings"
)

type Role string

const (
	RoleViewer  Role = "viewer"
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

// ParseRole maps a stored role string onto the closed role set.
// Anything unknown is treated as a viewer.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleCreator:
		return RoleCreator
	default:
		return RoleViewer
	}
}

// Actor is the current user as seen by permission checks. The zero value is
// the anonymous actor.
type Actor struct {
	ID        string `json:"id"`
	FirstName string `json:"name"`
	LastName  string `json:"lastname"`
	Role      Role   `json:"role"`
}

func (a Actor) Authenticated() bool {
	return strings.TrimSpace(a.ID) != ""
}

// DisplayName is the composed "first last" name used by records that only
// carry a denormalized uploader name.
func (a Actor) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
}

// Ownership is whichever owner identity a record carries. OwnerID wins when
// present; UploadedBy is the legacy display-name representation.
type Ownership struct {
	OwnerID    string
	UploadedBy string
}

// UserID renders a database user id the way records and tokens carry it.
// Zero is no user.
func UserID(id uint) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(id), 10)
}
