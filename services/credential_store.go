package services

import (
	"context"
	"errors"
	"fmt"

	"personal-blog/access"
	"personal-blog/models"
	"personal-blog/repositories"
)

// CredentialStore owns account records: registration, password checks,
// password and role changes, and removal.
type CredentialStore struct {
	store  *repositories.Store
	hasher PasswordHasher
	gate   *access.Gate

	// compared against when the email is unknown so both failure paths
	// cost one hash comparison
	dummyHash string
}

func NewCredentialStore(store *repositories.Store, hasher PasswordHasher, gate *access.Gate) *CredentialStore {
	dummy, _ := hasher.Hash("placeholder-password")
	return &CredentialStore{
		store:     store,
		hasher:    hasher,
		gate:      gate,
		dummyHash: dummy,
	}
}

func (s *CredentialStore) Register(ctx context.Context, email, rawPassword, name string) (*models.User, error) {
	hashed, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user *models.User
	err = s.store.WithinTx(ctx, func(tx *repositories.Store) error {
		user, err = s.registerTx(ctx, tx, email, hashed, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *CredentialStore) registerTx(ctx context.Context, tx *repositories.Store, email, hashed, name string) (*models.User, error) {
	_, err := tx.Users().GetByEmail(ctx, email)
	if err == nil {
		return nil, models.ErrDuplicateEmail
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user := &models.User{
		Email:    email,
		Name:     name,
		Password: hashed,
		Role:     models.RoleCommunityMember,
	}

	// the unique index still catches a concurrent registration
	if err := tx.Users().Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate never tells the caller whether the email exists.
func (s *CredentialStore) Authenticate(ctx context.Context, email, rawPassword string) (*models.User, error) {
	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			_, _ = s.hasher.Verify(rawPassword, s.dummyHash)
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	ok, err := s.hasher.Verify(rawPassword, user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}

// SetPassword replaces the password and, in the same transaction, drops the
// user's reset token and every session.
func (s *CredentialStore) SetPassword(ctx context.Context, userID uint, rawPassword string) error {
	hashed, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.store.WithinTx(ctx, func(tx *repositories.Store) error {
		return s.setPasswordTx(ctx, tx, userID, hashed)
	})
}

func (s *CredentialStore) setPasswordTx(ctx context.Context, tx *repositories.Store, userID uint, hashed string) error {
	if err := tx.Users().UpdatePassword(ctx, userID, hashed); err != nil {
		return err
	}
	if err := tx.ResetTokens().DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear reset token: %w", err)
	}
	if err := tx.Sessions().DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}

// SetRole is reserved to the super-admin. Any assignment is allowed,
// including changing the super-admin's own role.
func (s *CredentialStore) SetRole(ctx context.Context, p access.Principal, userID uint, role models.UserRole) error {
	if err := s.gate.Check(p, s.gate.AccountAdmin()); err != nil {
		return err
	}
	if !role.Valid() {
		return models.ErrInvalidRole
	}
	return s.store.Users().UpdateRole(ctx, userID, role)
}

func (s *CredentialStore) Get(ctx context.Context, userID uint) (*models.User, error) {
	return s.store.Users().GetByID(ctx, userID)
}

func (s *CredentialStore) List(ctx context.Context, p access.Principal) ([]models.User, error) {
	if err := s.gate.Check(p, s.gate.AccountAdmin()); err != nil {
		return nil, err
	}
	return s.store.Users().GetAll(ctx)
}

// Delete removes an account together with everything it owns: sessions,
// reset token, its comment threads, and its posts with their comments. The
// owner or the super-admin may delete; the super-admin account itself is
// never deleted.
func (s *CredentialStore) Delete(ctx context.Context, p access.Principal, userID uint) error {
	policy := access.Any(s.gate.Owner(userID), s.gate.AccountAdmin())
	if err := s.gate.Check(p, policy); err != nil {
		return err
	}
	if s.gate.IsSuperAdminID(userID) {
		return models.ErrForbidden
	}

	return s.store.WithinTx(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Users().GetByID(ctx, userID); err != nil {
			return err
		}

		commentIDs, err := tx.Comments().GetIDsByAuthor(ctx, userID)
		if err != nil {
			return err
		}
		if err := tx.Comments().DeleteThreads(ctx, commentIDs); err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}

		postIDs, err := tx.Posts().GetIDsByAuthor(ctx, userID)
		if err != nil {
			return err
		}
		if err := tx.Comments().DeleteByPosts(ctx, postIDs); err != nil {
			return fmt.Errorf("failed to delete post comments: %w", err)
		}
		if err := tx.Posts().DeleteByIDs(ctx, postIDs); err != nil {
			return fmt.Errorf("failed to delete posts: %w", err)
		}

		if err := tx.ResetTokens().DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		if err := tx.Sessions().DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, userID)
	})
}
