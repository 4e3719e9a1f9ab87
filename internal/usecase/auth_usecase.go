package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/tk-online/catalog-api/internal/config"
	"github.com/tk-online/catalog-api/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthUsecase guards the dashboard. There is a single admin identity,
// provisioned through configuration; sessions are stateless JWTs.
type AuthUsecase struct {
	adminEmail   string
	passwordHash string
	jwtSecret    []byte
	tokenTTL     time.Duration
}

func NewAuthUsecase(conf *config.Config) *AuthUsecase {
	return &AuthUsecase{
		adminEmail:   conf.Auth.AdminEmail,
		passwordHash: conf.Auth.AdminPassword,
		jwtSecret:    []byte(conf.Auth.JWTSecret),
		tokenTTL:     conf.Auth.TokenTTL,
	}
}

// Login checks the credentials against the provisioned admin account and
// issues a signed token. Failures are deliberately indistinguishable.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if email != uc.adminEmail {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.passwordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(uc.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &models.Session{
		Token:     token,
		Email:     email,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateToken parses and verifies a dashboard token, returning the
// authenticated identity.
func (uc *AuthUsecase) ValidateToken(ctx context.Context, tokenString string) (*models.AuthUser, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return uc.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}

	return &models.AuthUser{Email: claims.Subject}, nil
}
