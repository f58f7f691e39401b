package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/minischetti/meal-planner-api/domain"
)

const tokenLifetime = 120 * time.Minute

type (
	JWTService interface {
		GenerateToken(personID, email string) (string, error)
		ValidateToken(token string) (*jwt.Token, error)
		GetSubjectByToken(token string) (Subject, error)
	}

	// Subject is what an API token says about its bearer.
	Subject struct {
		PersonID string
		Email    string
		IssuedAt time.Time
	}

	jwtPersonClaim struct {
		PersonID string `json:"person_id"`
		Email    string `json:"email"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
		now       func() time.Time
	}
)

func NewJWTService(secretKey string) JWTService {
	return &jwtService{
		secretKey: secretKey,
		issuer:    "meal-planner",
		now:       time.Now,
	}
}

func (j *jwtService) GenerateToken(personID, email string) (string, error) {
	now := j.now()
	claims := jwtPersonClaim{
		personID,
		email,
		jwt.RegisteredClaims{
			Subject:   personID,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("jwt: signing token: %w", err)
	}
	return signed, nil
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateToken(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtPersonClaim{}, j.parseToken)
}

func (j *jwtService) GetSubjectByToken(token string) (Subject, error) {
	t_Token, err := j.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Subject{}, domain.ErrTokenExpired
		}
		return Subject{}, domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return Subject{}, domain.ErrTokenInvalid
	}

	claims := t_Token.Claims.(*jwtPersonClaim)
	if claims.PersonID == "" || claims.Issuer != j.issuer {
		return Subject{}, domain.ErrTokenInvalid
	}
	sub := Subject{PersonID: claims.PersonID, Email: claims.Email}
	if claims.IssuedAt != nil {
		sub.IssuedAt = claims.IssuedAt.Time
	}
	return sub, nil
}
