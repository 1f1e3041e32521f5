package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Token errors.
var (
	ErrInvalidAPIKey = errors.New("invalid api key")
	ErrInvalidToken  = errors.New("invalid or expired token")
)

// TokenService issues and validates bearer tokens for API clients.
// Clients authenticate once with an API key and use the returned token
// for subsequent requests.
type TokenService interface {
	// Issue exchanges a valid API key for a signed bearer token.
	Issue(apiKey string) (token string, expiresAt time.Time, err error)

	// Validate parses and verifies a bearer token.
	Validate(token string) (*TokenClaims, error)
}

// TokenClaims are the claims carried by an issued token.
type TokenClaims struct {
	jwt.RegisteredClaims
}

// TokenConfig configures a TokenServiceImpl.
type TokenConfig struct {
	// SecretKey signs issued tokens (HS256).
	SecretKey string
	// TTL is the token lifetime.
	TTL time.Duration
	// APIKeys maps accepted plain API keys.
	APIKeys map[string]bool
	// APIKeyHashes holds bcrypt hashes of accepted API keys, for
	// deployments that do not want plain keys in the environment.
	APIKeyHashes []string
}

// TokenServiceImpl implements TokenService with HS256-signed JWTs.
type TokenServiceImpl struct {
	cfg TokenConfig
}

// NewTokenService creates a token service from the given configuration.
func NewTokenService(cfg TokenConfig) *TokenServiceImpl {
	if cfg.TTL == 0 {
		cfg.TTL = 15 * time.Minute
	}
	return &TokenServiceImpl{cfg: cfg}
}

// Issue exchanges a valid API key for a signed bearer token.
func (s *TokenServiceImpl) Issue(apiKey string) (string, time.Time, error) {
	if !s.acceptKey(apiKey) {
		return "", time.Time{}, ErrInvalidAPIKey
	}

	expiresAt := time.Now().Add(s.cfg.TTL)
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "pallet-analysis",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate parses and verifies a bearer token.
func (s *TokenServiceImpl) Validate(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// acceptKey checks the API key against the plain set, then the bcrypt
// hashes.
func (s *TokenServiceImpl) acceptKey(apiKey string) bool {
	if apiKey == "" {
		return false
	}
	if s.cfg.APIKeys[apiKey] {
		return true
	}
	for _, hash := range s.cfg.APIKeyHashes {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(apiKey)) == nil {
			return true
		}
	}
	return false
}
