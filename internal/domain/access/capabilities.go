package access

// CapabilitiesFor lists what the UI may offer the actor before any record is
// in play. Per-record rights still go through CanMutate.
func CapabilitiesFor(actor Actor) []string {
	if !actor.Authenticated() {
		return []string{}
	}

	switch actor.Role {
	case RoleAdmin:
		return []string{"create", "edit_any", "delete_any", "admin"}
	case RoleCreator:
		return []string{"create", "edit_own", "delete_own"}
	default:
		return []string{}
	}
}
