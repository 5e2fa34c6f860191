package users

import (
	"heritage-gallery/internal/domain/access"
	"heritage-gallery/internal/domain/users"
)

func BuildMeResponse(user users.User, resources []string) MeResponse {
	actor := user.Actor()
	return MeResponse{
		User: UserDTO{
			ID:           user.ID,
			Email:        user.Email,
			Name:         user.Name,
			Lastname:     user.Lastname,
			DisplayName:  actor.DisplayName(),
			Role:         string(actor.Role),
			AuthProvider: user.AuthProvider,
		},
		Access: AccessDTO{
			CanCreate:    access.CanCreate(actor),
			Capabilities: access.CapabilitiesFor(actor),
			Resources:    resources,
		},
	}
}
