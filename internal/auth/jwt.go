package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/staffhub/staffhub/internal/domain"
)

// Claims holds the JWT token payload. Field types and JSON tags are shared
// with the middleware so tokens issued here are parsed correctly.
type Claims struct {
	jwt.RegisteredClaims
	UserID      int64  `json:"uid"`
	Username    string `json:"uname"`
	Role        string `json:"role"`
	Branch      string `json:"br,omitempty"`
	DisplayName string `json:"name,omitempty"`
	TokenType   string `json:"typ"` // "access" or "refresh"
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// ErrInvalidToken is returned when a JWT cannot be parsed or has expired.
var ErrInvalidToken = errors.New("auth: invalid or expired token")

// IssueAccessToken creates a signed JWT access token for the principal.
func IssueAccessToken(secret string, p *domain.Principal, ttl time.Duration) (string, error) {
	return issueToken(secret, p, tokenTypeAccess, ttl)
}

// IssueRefreshToken creates a signed JWT refresh token for the principal.
func IssueRefreshToken(secret string, p *domain.Principal, ttl time.Duration) (string, error) {
	return issueToken(secret, p, tokenTypeRefresh, ttl)
}

func issueToken(secret string, p *domain.Principal, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "staffhub",
		},
		UserID:      p.ID,
		Username:    p.Username,
		Role:        string(p.Role),
		Branch:      p.Branch,
		DisplayName: p.DisplayName,
		TokenType:   tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("auth.issueToken: %w", err)
	}

	return signed, nil
}

// ValidateToken parses and validates a JWT token string. Returns the embedded claims.
func ValidateToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("auth.ValidateToken: %w", ErrInvalidToken)
	}

	if !token.Valid {
		return nil, fmt.Errorf("auth.ValidateToken: %w", ErrInvalidToken)
	}

	return claims, nil
}

// Resolve verifies a raw bearer token and yields the authenticated principal,
// or nil when the token is missing, malformed, badly signed, expired, or not
// an access token. Absence of a principal is itself the signal; Resolve never
// returns an error to the transport.
func Resolve(secret, rawToken string) *domain.Principal {
	if rawToken == "" {
		return nil
	}

	claims, err := ValidateToken(secret, rawToken)
	if err != nil {
		return nil
	}
	if claims.TokenType != tokenTypeAccess {
		return nil
	}

	return &domain.Principal{
		ID:          claims.UserID,
		Username:    claims.Username,
		Role:        domain.Role(claims.Role),
		Branch:      claims.Branch,
		DisplayName: claims.DisplayName,
	}
}
