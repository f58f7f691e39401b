package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/entities"
	"github.com/minischetti/meal-planner-api/pkg/store"
)

type localProvider struct {
	store store.Store
	now   func() time.Time
}

// NewLocalProvider keeps accounts under accounts/{email}.
func NewLocalProvider(st store.Store) Provider {
	return &localProvider{store: st, now: time.Now}
}

func (p *localProvider) SignUp(ctx context.Context, email, password string) (Identity, error) {
	email = normalize(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, fmt.Errorf("account: hashing password: %w", err)
	}
	acc := entities.Account{
		UID:          store.NewID(),
		Email:        email,
		PasswordHash: string(hash),
	}
	err = p.store.Apply(ctx, store.Create(entities.Accounts.Doc(email), acc))
	if errors.Is(err, store.ErrAlreadyExists) {
		return Identity{}, domain.ErrAccountExists
	}
	if err != nil {
		return Identity{}, fmt.Errorf("account: creating account: %w", err)
	}
	return Identity{UID: acc.UID, Email: email}, nil
}

func (p *localProvider) SignIn(ctx context.Context, email, password string) (Session, error) {
	acc, err := p.account(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return Session{}, domain.ErrInvalidCredentials
	}
	return Session{UID: acc.UID}, nil
}

// SignOut moves the cut-off to the next whole second, since token issue times are second precision.
func (p *localProvider) SignOut(ctx context.Context, id Identity) error {
	acc, err := p.owned(ctx, id)
	if err != nil {
		return err
	}
	cutoff := p.now().Truncate(time.Second).Add(time.Second).Unix()
	err = p.store.Apply(ctx, store.UpdateFields(entities.Accounts.Doc(acc.Email),
		store.Update{Path: "signedOutAt", Value: cutoff}))
	if err != nil {
		return fmt.Errorf("account: signing out %s: %w", id.UID, err)
	}
	return nil
}

func (p *localProvider) ValidAfter(ctx context.Context, id Identity) (time.Time, error) {
	acc, err := p.owned(ctx, id)
	if err != nil {
		return time.Time{}, err
	}
	if acc.SignedOutAt == 0 {
		return time.Time{}, nil
	}
	return time.Unix(acc.SignedOutAt, 0), nil
}

func (p *localProvider) owned(ctx context.Context, id Identity) (entities.Account, error) {
	acc, err := p.account(ctx, id.Email)
	if errors.Is(err, store.ErrNotFound) || (err == nil && acc.UID != id.UID) {
		return entities.Account{}, domain.ErrTokenInvalid
	}
	return acc, err
}

func (p *localProvider) account(ctx context.Context, email string) (entities.Account, error) {
	snap, err := p.store.Get(ctx, entities.Accounts.Doc(normalize(email)))
	if err != nil {
		return entities.Account{}, fmt.Errorf("account: getting account: %w", err)
	}
	var acc entities.Account
	if err := snap.DataTo(&acc); err != nil {
		return entities.Account{}, fmt.Errorf("account: parsing account: %w", err)
	}
	return acc, nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
