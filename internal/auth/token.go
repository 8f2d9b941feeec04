package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenIssuer is the issuer written into tokens.
const DefaultTokenIssuer = "editor-note"

// ErrInvalidToken is returned when a token cannot be verified.
var ErrInvalidToken = errors.New("invalid token")

// TokenConfig configures a TokenManager.
type TokenConfig struct {
	SecretKey string
	Expiry    time.Duration
	Issuer    string
}

// Claims is the JWT payload for a principal.
type Claims struct {
	Login        string   `json:"login"`
	Name         string   `json:"name"`
	Capabilities []string `json:"caps"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	config TokenConfig
	now    func() time.Time
}

// NewTokenManager creates a TokenManager. Expiry defaults to 24 hours.
func NewTokenManager(cfg TokenConfig) *TokenManager {
	if cfg.Expiry == 0 {
		cfg.Expiry = 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultTokenIssuer
	}
	return &TokenManager{config: cfg, now: time.Now}
}

// Generate signs a token for p.
func (m *TokenManager) Generate(p Principal) (string, error) {
	now := m.now()
	claims := &Claims{
		Login:        p.Login,
		Name:         p.Name,
		Capabilities: p.Capabilities,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.Expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies token and returns the principal it names.
func (m *TokenManager) Parse(token string) (*Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.config.SecretKey), nil
	},
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return &Principal{
		UserID:       claims.Subject,
		Login:        claims.Login,
		Name:         claims.Name,
		Capabilities: claims.Capabilities,
	}, nil
}
