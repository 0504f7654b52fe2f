package auth_test

import (
	"testing"
	"time"

	"hospitalchat/backend/internal/auth"
	"hospitalchat/backend/internal/models"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

var staffRoles = []string{"staff", "doctor", "admin", "receptionist"}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestAuthenticate_NoToken(t *testing.T) {
	r := auth.NewResolver(secret, staffRoles)

	assert.Equal(t, models.GuestIdentity(), r.Authenticate(""))
	assert.Equal(t, models.GuestIdentity(), r.Authenticate("   "))
}

func TestAuthenticate_ValidStaffToken(t *testing.T) {
	r := auth.NewResolver(secret, staffRoles)
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		"id":   "64f1c0ffee",
		"name": "Dr. Lee",
		"role": "Doctor",
		"exp":  exp.Unix(),
	})

	identity := r.Authenticate(token)

	assert.True(t, identity.IsVerified())
	assert.Equal(t, "64f1c0ffee", identity.SubjectID)
	assert.Equal(t, "Dr. Lee", identity.Name)
	assert.Equal(t, "Doctor", identity.Role)
	assert.True(t, identity.StaffLike, "role match is case-insensitive")
	assert.True(t, exp.Equal(identity.ExpiresAt))
}

func TestAuthenticate_PatientTokenIsNotStaffLike(t *testing.T) {
	r := auth.NewResolver(secret, staffRoles)
	token := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		"id":       float64(5),
		"username": "jane",
		"role":     "patient",
	})

	identity := r.Authenticate(token)

	assert.True(t, identity.IsVerified())
	assert.Equal(t, "5", identity.SubjectID, "numeric ids are rendered without a fraction")
	assert.Equal(t, "jane", identity.Name)
	assert.False(t, identity.StaffLike)
	assert.True(t, identity.ExpiresAt.IsZero())
}

func TestAuthenticate_DegradesToGuest(t *testing.T) {
	r := auth.NewResolver(secret, staffRoles)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "malformed",
			token: "not-a-jwt",
		},
		{
			name: "wrong secret",
			token: sign(t, jwt.SigningMethodHS256, []byte("other-secret"), jwt.MapClaims{
				"id": "1", "role": "staff",
			}),
		},
		{
			name: "expired",
			token: sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
				"id": "1", "role": "staff", "exp": time.Now().Add(-time.Minute).Unix(),
			}),
		},
		{
			name: "unsigned",
			token: sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{
				"id": "1", "role": "admin",
			}),
		},
		{
			name: "no subject",
			token: sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
				"name": "nobody", "role": "staff",
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, models.GuestIdentity(), r.Authenticate(tt.token))
		})
	}
}

func TestIssue_RoundTrip(t *testing.T) {
	r := auth.NewResolver(secret, staffRoles)

	token, err := r.Issue("10", "Dr. Lee", "staff", time.Hour)
	require.NoError(t, err)

	identity := r.Authenticate(token)
	assert.Equal(t, models.IdentityVerified, identity.Kind)
	assert.Equal(t, "10", identity.SubjectID)
	assert.Equal(t, "Dr. Lee", identity.Name)
	assert.True(t, identity.StaffLike)

	_, err = r.Issue("", "nobody", "staff", time.Hour)
	assert.Error(t, err)
}

func TestIsStaffRole(t *testing.T) {
	r := auth.NewResolver(secret, []string{" Nurse "})
	assert.True(t, r.IsStaffRole("nurse"))
	assert.False(t, r.IsStaffRole("patient"))
	assert.False(t, r.IsStaffRole(""))
}
