package account

import (
	"context"

	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/pkg/jwt"
)

type (
	AccountService interface {
		Register(ctx context.Context, req domain.AccountRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.AccountRequest) (domain.LoginResponse, error)
		Logout(ctx context.Context, sub jwt.Subject) error
		// Active reports whether a token issued to sub has not been signed out since.
		Active(ctx context.Context, sub jwt.Subject) (bool, error)
	}

	accountService struct {
		provider   Provider
		jwtService jwt.JWTService
	}
)

func NewAccountService(provider Provider, jwtService jwt.JWTService) AccountService {
	return &accountService{
		provider:   provider,
		jwtService: jwtService,
	}
}

func (s *accountService) Register(ctx context.Context, req domain.AccountRequest) (domain.RegisterResponse, error) {
	id, err := s.provider.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return domain.RegisterResponse{}, err
	}
	return domain.RegisterResponse{UID: id.UID, Email: id.Email}, nil
}

func (s *accountService) Login(ctx context.Context, req domain.AccountRequest) (domain.LoginResponse, error) {
	session, err := s.provider.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	token, err := s.jwtService.GenerateToken(session.UID, normalize(req.Email))
	if err != nil {
		return domain.LoginResponse{}, err
	}
	return domain.LoginResponse{
		UID:          session.UID,
		IDToken:      session.IDToken,
		RefreshToken: session.RefreshToken,
		Token:        token,
	}, nil
}

func (s *accountService) Logout(ctx context.Context, sub jwt.Subject) error {
	return s.provider.SignOut(ctx, Identity{UID: sub.PersonID, Email: sub.Email})
}

func (s *accountService) Active(ctx context.Context, sub jwt.Subject) (bool, error) {
	after, err := s.provider.ValidAfter(ctx, Identity{UID: sub.PersonID, Email: sub.Email})
	if err != nil {
		return false, err
	}
	return !sub.IssuedAt.Before(after), nil
}
