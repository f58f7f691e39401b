// Package account signs people up and in against an identity provider and hands out API tokens.
//
// Two providers exist: Firebase Authentication for deployments on Firestore, and a local provider
// that keeps bcrypt hashes in the document store for everything else.
package account

import (
	"context"
	"time"
)

type (
	Identity struct {
		UID   string
		Email string
	}

	// Session is a successful sign-in. The provider tokens are empty for the local provider.
	Session struct {
		UID          string
		IDToken      string
		RefreshToken string
	}

	Provider interface {
		// SignUp returns domain.ErrAccountExists when the email is taken.
		SignUp(ctx context.Context, email, password string) (Identity, error)
		// SignIn returns domain.ErrInvalidCredentials for an unknown email or a wrong password.
		SignIn(ctx context.Context, email, password string) (Session, error)
		SignOut(ctx context.Context, id Identity) error
		// ValidAfter is the earliest issue time a token for id may carry.
		ValidAfter(ctx context.Context, id Identity) (time.Time, error)
	}
)
