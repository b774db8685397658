package models

// IdentityKind classifies the caller of a request.
type IdentityKind string

const (
	// IdentityUser is an authenticated user bound to a session.
	IdentityUser IdentityKind = "user"
	// IdentityGuest is the non-persisted sentinel for guest browsing.
	// Guests may only reach read paths.
	IdentityGuest IdentityKind = "guest"
	// IdentityAnonymous is a request with no usable session.
	IdentityAnonymous IdentityKind = "anonymous"
)

// Identity is the resolved caller identity for a single request. It is
// resolved once per request from the session token and passed into every
// component operation rather than re-derived from ambient request state.
type Identity struct {
	Kind   IdentityKind
	UserID uint
}

// IsUser reports whether the identity is an authenticated user.
func (i Identity) IsUser() bool { return i.Kind == IdentityUser }

// IsGuest reports whether the identity is the guest sentinel.
func (i Identity) IsGuest() bool { return i.Kind == IdentityGuest }

// CanRead reports whether the identity may reach guest-allowed read paths.
func (i Identity) CanRead() bool { return i.Kind == IdentityUser || i.Kind == IdentityGuest }

// Anonymous returns the anonymous identity.
func Anonymous() Identity { return Identity{Kind: IdentityAnonymous} }

// GuestIdentity returns the guest sentinel identity.
func GuestIdentity() Identity { return Identity{Kind: IdentityGuest} }

// UserIdentity returns an authenticated identity for the given user id.
func UserIdentity(userID uint) Identity {
	return Identity{Kind: IdentityUser, UserID: userID}
}
