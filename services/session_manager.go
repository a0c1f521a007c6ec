package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"personal-blog/access"
	"personal-blog/models"
	"personal-blog/repositories"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type sessionClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// SessionManager mints signed session tokens backed by a sessions row, so a
// session can be revoked before its token expires.
type SessionManager struct {
	store  *repositories.Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionManager(store *repositories.Store, secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

func (m *SessionManager) Create(ctx context.Context, userID uint, client ClientInfo) (string, error) {
	return m.createTx(ctx, m.store, userID, client)
}

// createTx stores the session row through tx, so it commits or rolls back
// with the caller's other writes.
func (m *SessionManager) createTx(ctx context.Context, tx *repositories.Store, userID uint, client ClientInfo) (string, error) {
	now := m.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		IPAddress: client.IP,
		UserAgent: truncate(client.UserAgent, 255),
		ExpiresAt: now.Add(m.ttl),
	}
	if err := tx.Sessions().Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	claims := sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Resolve maps a session token to its principal. The role comes from the
// account row, so role changes apply on the next request.
func (m *SessionManager) Resolve(ctx context.Context, tokenString string) (access.Principal, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return access.Anonymous(), models.ErrUnauthenticated
	}

	session, err := m.store.Sessions().GetActive(ctx, claims.ID, m.now())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return access.Anonymous(), models.ErrUnauthenticated
		}
		return access.Anonymous(), err
	}
	if session.UserID != claims.UserID {
		return access.Anonymous(), models.ErrUnauthenticated
	}

	user, err := m.store.Users().GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return access.Anonymous(), models.ErrUnauthenticated
		}
		return access.Anonymous(), err
	}

	return access.Principal{
		UserID:    user.ID,
		Role:      user.Role,
		SessionID: session.ID,
	}, nil
}

func (m *SessionManager) Revoke(ctx context.Context, sessionID string) error {
	return m.store.Sessions().Delete(ctx, sessionID)
}

// PurgeExpired drops sessions past their expiry.
func (m *SessionManager) PurgeExpired(ctx context.Context) (int64, error) {
	return m.store.Sessions().DeleteExpired(ctx, m.now())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
