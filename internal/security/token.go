package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"habita/auth/internal/models"
)

var (
	// ErrTokenExpired marks a token whose signature checked out but
	// whose expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid marks any other decode failure.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the identity carried by an access token.
type Claims struct {
	UserID         string  `json:"id"`
	Username       string  `json:"username"`
	Role           string  `json:"role"`
	InmobiliariaID *string `json:"id_inmobiliaria"`
	jwt.RegisteredClaims
}

// Inmobiliaria returns the caller's tenant, or "" when unaffiliated.
func (c Claims) Inmobiliaria() string {
	if c.InmobiliariaID == nil {
		return ""
	}
	return *c.InmobiliariaID
}

// TokenCodec signs and verifies access tokens. Stateless; session
// binding lives elsewhere.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given user record.
func (tc *TokenCodec) Issue(user models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:         user.ID,
		Username:       user.Username,
		Role:           string(user.Role),
		InmobiliariaID: user.InmobiliariaID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tc.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tc.secret)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// Decode verifies signature and expiry. Expired and structurally
// invalid tokens are reported as distinct errors.
func (tc *TokenCodec) Decode(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tc.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
