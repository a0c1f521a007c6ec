package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"personal-blog/models"
	"personal-blog/repositories"
)

// resetTokenBytes gives 256 bits of entropy per token.
const resetTokenBytes = 32

// ResetRegistry issues and redeems single-use password reset tokens.
// Tokens are stored only as SHA-256 digests, one per account.
type ResetRegistry struct {
	store *repositories.Store
	creds *CredentialStore
	ttl   time.Duration
	now   func() time.Time
}

func NewResetRegistry(store *repositories.Store, creds *CredentialStore, ttl time.Duration) *ResetRegistry {
	return &ResetRegistry{
		store: store,
		creds: creds,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Issue creates a token for the account registered under email, replacing
// any token issued before. Unknown emails yield models.ErrNotFound; callers
// facing the public must not reveal that.
func (r *ResetRegistry) Issue(ctx context.Context, email string) (string, error) {
	user, err := r.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	token, err := generateResetToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	now := r.now()
	record := &models.ResetToken{
		UserID:    user.ID,
		TokenHash: hashResetToken(token),
		IssuedAt:  now,
		ExpiresAt: now.Add(r.ttl),
	}
	if err := r.store.ResetTokens().Upsert(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	return token, nil
}

// Validate checks that token is known and unexpired without consuming it.
func (r *ResetRegistry) Validate(ctx context.Context, token string) error {
	if token == "" {
		return models.ErrInvalidToken
	}
	record, err := r.store.ResetTokens().GetByHash(ctx, hashResetToken(token))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrInvalidToken
		}
		return err
	}
	if record.Expired(r.now()) {
		return models.ErrInvalidToken
	}
	return nil
}

// Confirm redeems token and sets newPassword. Token consumption, the
// password change and session revocation commit together; a token confirms
// at most once.
func (r *ResetRegistry) Confirm(ctx context.Context, token, newPassword string) (uint, error) {
	if token == "" {
		return 0, models.ErrInvalidToken
	}

	hashed, err := r.creds.hasher.Hash(newPassword)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	tokenHash := hashResetToken(token)
	var userID uint
	err = r.store.WithinTx(ctx, func(tx *repositories.Store) error {
		record, err := tx.ResetTokens().ConsumeByHash(ctx, tokenHash, r.now())
		if err != nil {
			return err
		}
		userID = record.UserID
		return r.creds.setPasswordTx(ctx, tx, record.UserID, hashed)
	})
	if err != nil {
		if errors.Is(err, models.ErrInvalidToken) {
			// an expired token is dead either way
			_ = r.store.ResetTokens().DeleteByHash(ctx, tokenHash)
		}
		return 0, err
	}
	return userID, nil
}

func generateResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
