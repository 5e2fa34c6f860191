package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"heritage-gallery/config"
	"heritage-gallery/database"
	"heritage-gallery/internal/domain/access"
	"heritage-gallery/internal/domain/users"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

func googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     config.GOOGLE_CLIENT_ID,
		ClientSecret: config.GOOGLE_CLIENT_SECRET,
		RedirectURL:  config.GOOGLE_REDIRECT_URL,
		Scopes: []string{
			"openid",
			"email",
			"profile",
		},
		Endpoint: google.Endpoint,
	}
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /auth/google
func GoogleStart(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	secure := strings.HasPrefix(config.PUBLIC_BASE_URL, "https://")
	c.SetCookie("oauth_state", state, 300, "/", "", secure, true)

	c.Redirect(http.StatusFound, googleOAuthConfig().AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// GET /auth/google/callback
func GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code/state"})
		return
	}

	cookieState, err := c.Cookie("oauth_state")
	secure := strings.HasPrefix(config.PUBLIC_BASE_URL, "https://")
	c.SetCookie("oauth_state", "", -1, "/", "", secure, true)
	if err != nil || cookieState != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}

	// exchange code -> tokens
	tok, err := googleOAuthConfig().Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to exchange code"})
		return
	}

	// Google returns an ID token (JWT) with openid scope
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing id_token"})
		return
	}

	claims, err := verifyGoogleIDToken(c.Request.Context(), rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if !claims.EmailVerified {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "google email is not verified"})
		return
	}

	user, err := findOrCreateGoogleUser(c.Request.Context(), claims)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	tokenString, err := issueAppJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create token"})
		return
	}

	redirect := config.GOOGLE_FRONTEND_REDIRECT
	if redirect == "" {
		c.JSON(http.StatusOK, gin.H{"token": tokenString})
		return
	}
	c.Redirect(http.StatusFound, redirect+"?token="+url.QueryEscape(tokenString))
}

/* ---------------- helpers ---------------- */

type googleIDClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

var (
	verifierMu sync.Mutex
	verifier   *oidc.IDTokenVerifier
)

// googleVerifier discovers Google's signing keys on first use. A failed
// discovery is retried on the next sign-in.
func googleVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	verifierMu.Lock()
	defer verifierMu.Unlock()
	if verifier != nil {
		return verifier, nil
	}

	// The key set outlives this request.
	provider, err := oidc.NewProvider(context.WithoutCancel(ctx), "https://accounts.google.com")
	if err != nil {
		return nil, fmt.Errorf("init google oidc provider: %w", err)
	}
	verifier = provider.Verifier(&oidc.Config{ClientID: config.GOOGLE_CLIENT_ID})
	return verifier, nil
}

// verifyGoogleIDToken checks the signature and audience of the ID token.
func verifyGoogleIDToken(ctx context.Context, rawIDToken string) (*googleIDClaims, error) {
	v, err := googleVerifier(ctx)
	if err != nil {
		return nil, err
	}

	idToken, err := v.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.New("invalid id_token")
	}

	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.New("failed to decode token claims")
	}
	if claims.Email == "" || claims.Sub == "" {
		return nil, errors.New("token missing required claims")
	}
	return &claims, nil
}

// newGoogleUser is the account created on first Google sign-in. It starts as
// a viewer until an admin promotes it.
func newGoogleUser(gc *googleIDClaims) users.User {
	sub := gc.Sub
	first, last := googleNames(gc)
	return users.User{
		Name:         first,
		Lastname:     last,
		Email:        strings.ToLower(strings.TrimSpace(gc.Email)),
		AuthProvider: "google",
		GoogleSub:    &sub,
		Role:         string(access.RoleViewer),
	}
}

// linkGoogle attaches the Google subject to an existing account and fills
// in missing names, which records without an owner id match against. It
// reports whether u changed.
func linkGoogle(u *users.User, gc *googleIDClaims) bool {
	changed := false
	if u.GoogleSub == nil {
		sub := gc.Sub
		u.GoogleSub = &sub
		changed = true
	}
	first, last := googleNames(gc)
	if strings.TrimSpace(u.Name) == "" && first != "" {
		u.Name = first
		changed = true
	}
	if strings.TrimSpace(u.Lastname) == "" && last != "" {
		u.Lastname = last
		changed = true
	}
	return changed
}

// googleNames prefers the split given/family names. A bare full name is
// split on its last space.
func googleNames(gc *googleIDClaims) (string, string) {
	first := strings.TrimSpace(gc.GivenName)
	last := strings.TrimSpace(gc.FamilyName)
	if first != "" || last != "" {
		return first, last
	}
	full := strings.TrimSpace(gc.Name)
	if i := strings.LastIndex(full, " "); i > 0 {
		return strings.TrimSpace(full[:i]), strings.TrimSpace(full[i+1:])
	}
	return full, ""
}

// findOrCreateGoogleUser links by google sub, then by email.
func findOrCreateGoogleUser(ctx context.Context, gc *googleIDClaims) (users.User, error) {
	db := database.DB.WithContext(ctx)
	var user users.User

	err := db.Where("google_sub = ?", gc.Sub).First(&user).Error
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return users.User{}, err
	}

	err = db.Where("email = ?", strings.ToLower(strings.TrimSpace(gc.Email))).First(&user).Error
	switch {
	case err == nil:
		if linkGoogle(&user, gc) {
			if err := db.Save(&user).Error; err != nil {
				return users.User{}, err
			}
		}
		return user, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return users.User{}, err
	}

	user = newGoogleUser(gc)
	if err := db.Create(&user).Error; err != nil {
		return users.User{}, err
	}
	return user, nil
}
