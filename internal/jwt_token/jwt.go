// Package jwttoken issues the short-lived HS256 access tokens and the opaque
// refresh tokens handed out at sign-in.
package jwttoken

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/requestcontext"
)

type AccessTokenClaims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Env       string `json:"env,omitempty"`
	jwt.RegisteredClaims
}

type JWTService struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	env      string
	parser   *jwt.Parser
}

func NewJWTService(signingKey, issuer, audience string, ttl time.Duration) *JWTService {
	return &JWTService{
		key:      []byte(signingKey),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithAudience(audience),
			jwt.WithIssuedAt(),
		),
	}
}

func (s *JWTService) TTL() time.Duration { return s.ttl }

// SetEnv stamps issued tokens with the deployment environment.
func (s *JWTService) SetEnv(env string) { s.env = env }

// GenerateAccessToken signs a token bound to one refresh session. Its clock
// is requestcontext.Now.
func (s *JWTService) GenerateAccessToken(ctx context.Context, userID id.UserID, sessionID id.SessionID) (string, error) {
	if userID.IsNil() || sessionID.IsNil() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user and session are required")
	}
	jti, err := randomBytes(16)
	if err != nil {
		return "", err
	}
	now := requestcontext.Now(ctx)
	claims := AccessTokenClaims{
		UserID:    userID.String(),
		SessionID: sessionID.String(),
		Env:       s.env,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        hex.EncodeToString(jti),
			Subject:   userID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks signature, algorithm, issuer, audience and expiry.
// Every failure is CodeUnauthorized.
func (s *JWTService) ValidateToken(raw string) (*AccessTokenClaims, error) {
	var claims AccessTokenClaims
	_, err := s.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) { return s.key, nil })
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
	case err != nil:
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return &claims, nil
}

// CreateRefreshToken returns 32 random bytes, base64url encoded. Only a hash
// of it is stored.
func (s *JWTService) CreateRefreshToken() (string, error) {
	b, err := randomBytes(32)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return b, nil
}
