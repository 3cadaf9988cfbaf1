package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/config"
	apperrors "storefront/internal/errors"
)

// TokenService signs and verifies the bearer credentials accepted by the
// access gate. Tokens are HS256 with issuer/audience claims, following
// the identity provider's format.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewTokenService(cfg config.AuthConfig) *TokenService {
	return &TokenService{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TokenTTL,
	}
}

func (s *TokenService) Issue(userID int) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"aud": s.audience,
		"sub": userID,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a raw token and returns the subject user id.
func (s *TokenService) Verify(raw string) (int, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithLeeway(30*time.Second))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, apperrors.NewUnauthenticatedError("token has expired")
		}
		return 0, apperrors.NewUnauthenticatedError("invalid token")
	}
	if !token.Valid {
		return 0, apperrors.NewUnauthenticatedError("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, apperrors.NewUnauthenticatedError("invalid token")
	}

	if iss, _ := claims["iss"].(string); iss != s.issuer {
		return 0, apperrors.NewUnauthenticatedError("invalid token")
	}
	if aud, _ := claims["aud"].(string); aud != s.audience {
		return 0, apperrors.NewUnauthenticatedError("invalid token")
	}

	// Numeric claims decode as float64.
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, apperrors.NewUnauthenticatedError("invalid token")
	}

	return int(sub), nil
}
