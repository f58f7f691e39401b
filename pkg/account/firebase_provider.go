package account

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/minischetti/meal-planner-api/domain"
)

type firebaseProvider struct {
	auth     *auth.Client
	identity *identitytoolkit.Service
}

// NewFirebaseProvider manages users through the Admin SDK and signs them in with the password
// endpoint of the Identity Toolkit, which needs the project's web API key.
func NewFirebaseProvider(ctx context.Context, client *auth.Client, apiKey string) (Provider, error) {
	identity, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("account: creating identity toolkit client: %w", err)
	}
	return &firebaseProvider{auth: client, identity: identity}, nil
}

func (p *firebaseProvider) SignUp(ctx context.Context, email, password string) (Identity, error) {
	params := (&auth.UserToCreate{}).Email(normalize(email)).Password(password)
	u, err := p.auth.CreateUser(ctx, params)
	if auth.IsEmailAlreadyExists(err) {
		return Identity{}, domain.ErrAccountExists
	}
	if err != nil {
		return Identity{}, fmt.Errorf("account: creating firebase user: %w", err)
	}
	return Identity{UID: u.UID, Email: u.Email}, nil
}

func (p *firebaseProvider) SignIn(ctx context.Context, email, password string) (Session, error) {
	res, err := p.identity.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             normalize(email),
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest {
		return Session{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("account: verifying password: %w", err)
	}
	return Session{UID: res.LocalId, IDToken: res.IdToken, RefreshToken: res.RefreshToken}, nil
}

func (p *firebaseProvider) SignOut(ctx context.Context, id Identity) error {
	if err := p.auth.RevokeRefreshTokens(ctx, id.UID); err != nil {
		return fmt.Errorf("account: revoking tokens of %s: %w", id.UID, err)
	}
	return nil
}

func (p *firebaseProvider) ValidAfter(ctx context.Context, id Identity) (time.Time, error) {
	u, err := p.auth.GetUser(ctx, id.UID)
	if auth.IsUserNotFound(err) {
		return time.Time{}, domain.ErrTokenInvalid
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("account: getting firebase user %s: %w", id.UID, err)
	}
	return time.UnixMilli(u.TokensValidAfterMillis), nil
}
