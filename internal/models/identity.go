package models

import "time"

type IdentityKind string

const (
	IdentityGuest    IdentityKind = "guest"
	IdentityVerified IdentityKind = "verified"
)

// Identity is the principal attached to a connection at handshake time.
// It never changes for the life of the connection.
type Identity struct {
	Kind      IdentityKind
	SubjectID string
	Name      string
	Role      string
	// StaffLike is resolved once by the auth layer from the configured staff roles.
	StaffLike bool
	// ExpiresAt is informational; it is not re-checked after the handshake.
	ExpiresAt time.Time
}

// GuestIdentity returns the fallback principal for missing or invalid credentials.
func GuestIdentity() Identity {
	return Identity{Kind: IdentityGuest}
}

func (i Identity) IsVerified() bool { return i.Kind == IdentityVerified }
