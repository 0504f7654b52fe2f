// Package auth turns the optional handshake credential into a connection identity.
package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"hospitalchat/backend/internal/models"

	jwt "github.com/golang-jwt/jwt/v5"
)

const issuer = "hospitalchat"

var errMissingSubject = errors.New("token has no subject id")

// Resolver verifies handshake tokens signed by the hospital web application.
type Resolver struct {
	secret     []byte
	staffRoles map[string]struct{}
	now        func() time.Time
}

// NewResolver creates a Resolver. staffRoles lists the token roles treated as staff-like.
func NewResolver(secret string, staffRoles []string) *Resolver {
	roles := make(map[string]struct{}, len(staffRoles))
	for _, r := range staffRoles {
		roles[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}
	return &Resolver{
		secret:     []byte(secret),
		staffRoles: roles,
		now:        time.Now,
	}
}

// Authenticate never fails: a missing or invalid token yields a guest identity.
func (r *Resolver) Authenticate(rawToken string) models.Identity {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return models.GuestIdentity()
	}

	identity, err := r.verify(rawToken)
	if err != nil {
		return models.GuestIdentity()
	}
	return identity
}

func (r *Resolver) verify(rawToken string) (models.Identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(rawToken, claims,
		func(t *jwt.Token) (any, error) { return r.secret, nil },
		jwt.WithValidMethods([]string{
			jwt.SigningMethodHS256.Alg(),
			jwt.SigningMethodHS384.Alg(),
			jwt.SigningMethodHS512.Alg(),
		}),
		jwt.WithTimeFunc(r.now),
	)
	if err != nil {
		return models.Identity{}, err
	}

	subject := stringClaim(claims, "id", "_id", "sub")
	if subject == "" {
		return models.Identity{}, errMissingSubject
	}

	role := stringClaim(claims, "role")
	identity := models.Identity{
		Kind:      models.IdentityVerified,
		SubjectID: subject,
		Name:      stringClaim(claims, "name", "username"),
		Role:      role,
		StaffLike: r.IsStaffRole(role),
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		identity.ExpiresAt = exp.Time
	}
	return identity, nil
}

// IsStaffRole reports whether role belongs to the configured staff roles.
func (r *Resolver) IsStaffRole(role string) bool {
	_, ok := r.staffRoles[strings.ToLower(strings.TrimSpace(role))]
	return ok
}

// Issue signs a token carrying the same claims the web application puts in its session cookies.
func (r *Resolver) Issue(subjectID, name, role string, ttl time.Duration) (string, error) {
	if subjectID == "" {
		return "", errMissingSubject
	}
	now := r.now()
	claims := jwt.MapClaims{
		"id":   subjectID,
		"name": name,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
		"iss":  issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(r.secret)
}

func stringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		switch v := claims[key].(type) {
		case string:
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
