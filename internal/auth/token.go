package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/portfolioapi/internal/telemetry/tracing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultTTL      = 30 * 24 * time.Hour
	minSecretLength = 32
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrRevokedToken = errors.New("token revoked")
	ErrWeakSecret   = fmt.Errorf("signing secret must be at least %d bytes", minSecretLength)
)

// Claims are the verified contents of a token
type Claims struct {
	UserID    uuid.UUID
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type TokenIssuer struct {
	signingKey []byte
	ttl        time.Duration
	// nil when forced logout is disabled
	revocations RevocationStore
	// ability to inject the clock (for unit testing)
	TimeFunc func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration, revocations RevocationStore) (*TokenIssuer, error) {
	if len(secret) < minSecretLength {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenIssuer{
		signingKey:  []byte(secret),
		ttl:         ttl,
		revocations: revocations,
		TimeFunc:    time.Now,
	}, nil
}

func (ti *TokenIssuer) RevocationEnabled() bool {
	return ti.revocations != nil
}

func (ti *TokenIssuer) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	_, span := tracing.GlobalTracer.Start(ctx, "auth.token.issue")
	defer span.End()

	now := ti.TimeFunc()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.signingKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

func (ti *TokenIssuer) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.token.verify")
	defer span.End()

	var registered jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(
		tokenString,
		&registered,
		func(token *jwt.Token) (interface{}, error) {
			return ti.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.TimeFunc),
	)
	if err != nil {
		span.SetStatus(codes.Error, "token-rejected")
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		log.Tracef("token rejected: %s", err)
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(registered.Subject)
	if err != nil || registered.ID == "" {
		span.SetStatus(codes.Error, "invalid-claims")
		return nil, ErrInvalidToken
	}

	claims := &Claims{
		UserID:    userID,
		TokenID:   registered.ID,
		ExpiresAt: registered.ExpiresAt.Time,
	}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}

	if ti.revocations != nil {
		revoked, err := ti.revocations.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			span.SetStatus(codes.Error, "token-revoked")
			return nil, ErrRevokedToken
		}
	}

	return claims, nil
}

// Revoke invalidates the token for its remaining lifetime. No-op when revocation is disabled.
func (ti *TokenIssuer) Revoke(ctx context.Context, claims *Claims) error {
	if ti.revocations == nil {
		return nil
	}

	remaining := claims.ExpiresAt.Sub(ti.TimeFunc())
	if remaining <= 0 {
		return nil
	}

	if err := ti.revocations.Revoke(ctx, claims.TokenID, remaining); err != nil {
		return fmt.Errorf("revoke token %s: %w", claims.TokenID, err)
	}
	return nil
}
