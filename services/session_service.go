package services

import (
	"context"
	"errors"
	"time"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/cache"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StaffClaims are the claims carried by a staff session token
type StaffClaims struct {
	StoreID string `json:"store_id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// IssuedSession is returned on login
type IssuedSession struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	User      *bridge.StaffUser `json:"user"`
}

// SessionService issues and verifies staff session tokens. Live sessions
// are recorded in the cache so logout can revoke them.
type SessionService struct {
	secret []byte
	ttl    time.Duration
	cache  cache.Store
	now    func() time.Time
}

// NewSessionService creates a session service signing with secret
func NewSessionService(secret string, ttl time.Duration, store cache.Store) *SessionService {
	return &SessionService{secret: []byte(secret), ttl: ttl, cache: store, now: time.Now}
}

// Issue signs a token for user and records the session
func (s *SessionService) Issue(ctx context.Context, user *bridge.StaffUser) (*IssuedSession, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	claims := StaffClaims{
		StoreID: user.StoreID,
		Name:    user.Name,
		Role:    user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, cache.SessionKey(claims.ID), user, s.ttl); err != nil {
		return nil, err
	}
	return &IssuedSession{Token: token, ExpiresAt: expires, User: user}, nil
}

// Parse verifies a token and checks the session has not been revoked
func (s *SessionService) Parse(ctx context.Context, tokenStr string) (*StaffClaims, error) {
	claims := &StaffClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	var user bridge.StaffUser
	if err := s.cache.GetJSON(ctx, cache.SessionKey(claims.ID), &user); err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	var revokedAt int64
	err = s.cache.GetJSON(ctx, cache.StaffRevokedKey(claims.Subject), &revokedAt)
	switch {
	case err == nil:
		return nil, ErrInvalidToken
	case !errors.Is(err, cache.ErrMiss):
		return nil, err
	}
	return claims, nil
}

// Revoke ends the session
func (s *SessionService) Revoke(ctx context.Context, claims *StaffClaims) error {
	return s.cache.Delete(ctx, cache.SessionKey(claims.ID))
}

// RevokeUser invalidates every token issued to a staff member. The marker
// lives as long as the longest session could.
func (s *SessionService) RevokeUser(ctx context.Context, waitstaffID string) error {
	return s.cache.SetJSON(ctx, cache.StaffRevokedKey(waitstaffID), s.now().UnixMilli(), s.ttl)
}
