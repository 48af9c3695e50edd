package auth

import "errors"

// ErrNotAuthorized is returned when the caller is not the required principal.
var ErrNotAuthorized = errors.New("caller is not the required principal")

// Authenticator verifies that the principal a mutation requires actually
// made the call. It runs before any state is touched.
type Authenticator interface {
	RequireAuth(caller string, principal string) error
}

// StaticAuthenticator trusts the transport layer to have identified the
// caller and only checks that it names the required principal. It is a pure
// predicate, so it needs no backend to be exercised.
type StaticAuthenticator struct{}

func NewStaticAuthenticator() *StaticAuthenticator {
	return &StaticAuthenticator{}
}

func (a *StaticAuthenticator) RequireAuth(caller string, principal string) error {
	if caller == "" || principal == "" || caller != principal {
		return ErrNotAuthorized
	}
	return nil
}
