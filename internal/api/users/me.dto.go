package users

type MeResponse struct {
	User   UserDTO   `json:"user"`
	Access AccessDTO `json:"access"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Lastname     string `json:"lastname"`
	DisplayName  string `json:"display_name"`
	Role         string `json:"role"`
	AuthProvider string `json:"auth_provider"`
}

/* ---------- ACCESS ---------- */

type AccessDTO struct {
	CanCreate    bool     `json:"can_create"`
	Capabilities []string `json:"capabilities"`
	// Resources lists the gallery collections the client can browse.
	Resources []string `json:"resources"`
}
