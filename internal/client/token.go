package client

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"heritage-gallery/internal/domain/access"
)

// ActorFromToken reads the login claims out of an app token without checking
// the signature. The server verifies it on every request; the client only
// needs it to decide what to show.
func ActorFromToken(token string) (access.Actor, error) {
	if token == "" {
		return access.Actor{}, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return access.Actor{}, fmt.Errorf("parse token: %w", err)
	}

	actor := access.Actor{Role: access.ParseRole(stringClaim(claims, "role"))}
	switch id := claims["user_id"].(type) {
	case float64:
		actor.ID = strconv.FormatFloat(id, 'f', -1, 64)
	case string:
		actor.ID = id
	}
	if actor.ID == "" {
		return access.Actor{}, fmt.Errorf("parse token: missing user_id")
	}
	actor.FirstName = stringClaim(claims, "name")
	actor.LastName = stringClaim(claims, "lastname")
	return actor, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
