package access

import "strings"

// CanMutate reports whether actor may edit or delete a record with the given
// ownership.
//
// Rules:
//   - anonymous actors can mutate nothing, whatever their role claims
//   - admins can mutate anything
//   - with an owner id, only that user
//   - without one, the uploader display name must equal the actor's composed
//     display name
//   - no determinable owner means no one but admins
//
// The name fallback is ambiguous when two users share a name. Records served
// with an owner id never reach it.
func CanMutate(actor Actor, owner Ownership) bool {
	if !actor.Authenticated() {
		return false
	}
	if actor.Role == RoleAdmin {
		return true
	}

	if id := strings.TrimSpace(owner.OwnerID); id != "" {
		return id == strings.TrimSpace(actor.ID)
	}

	uploadedBy := strings.TrimSpace(owner.UploadedBy)
	if uploadedBy == "" {
		return false
	}
	name := actor.DisplayName()
	return name != "" && name == uploadedBy
}

// CanCreate reports whether actor may add new records.
func CanCreate(actor Actor) bool {
	if !actor.Authenticated() {
		return false
	}
	return actor.Role == RoleCreator || actor.Role == RoleAdmin
}
