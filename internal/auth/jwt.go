package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rogerio-castellano/kasir/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenClaims are the claims carried by an access token.
type TokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type Config struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

var (
	mu  sync.RWMutex
	cfg = Config{
		Secret:     "kasir-dev-secret",
		Expiration: time.Hour,
		Issuer:     "kasir",
	}
)

// SetConfig replaces the signing settings. Empty fields keep their current value.
func SetConfig(c Config) {
	mu.Lock()
	defer mu.Unlock()

	if c.Secret != "" {
		cfg.Secret = c.Secret
	}
	if c.Expiration > 0 {
		cfg.Expiration = c.Expiration
	}
	if c.Issuer != "" {
		cfg.Issuer = c.Issuer
	}
}

func current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

func GenerateToken(user models.User) (string, error) {
	c := current()
	now := time.Now()

	claims := TokenClaims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    c.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.Expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.Secret))
}

// ParseToken validates signature, algorithm, expiry and issuer.
func ParseToken(tokenStr string) (*TokenClaims, error) {
	c := current()

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(c.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
