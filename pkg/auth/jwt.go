package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/carelink/carelink-api/internal/config"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims is the caller identity carried on a verified bearer token. Tokens
// are minted by the external auth provider; this service only verifies them.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

type carelinkClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

type TokenVerifier struct {
	cfg config.JWTConfig
}

func NewTokenVerifier(cfg config.JWTConfig) *TokenVerifier {
	return &TokenVerifier{cfg: cfg}
}

// Verify parses and validates a raw bearer token and returns its claims.
func (v *TokenVerifier) Verify(raw string) (*Claims, error) {
	var claims carelinkClaims

	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(v.cfg.Secret), nil
	}, jwt.WithIssuer(v.cfg.Issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	return &Claims{
		UserID: userID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}
