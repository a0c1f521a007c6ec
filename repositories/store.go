package repositories

import (
	"context"
	"errors"

	"personal-blog/models"

	"gorm.io/gorm"
)

// Store hands out repositories bound to one database handle. Inside
// WithinTx that handle is the transaction, so every repository obtained from
// the callback's Store commits or rolls back together.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() UserRepository { return NewUserRepository(s.db) }
func (s *Store) ResetTokens() ResetTokenRepository { return NewResetTokenRepository(s.db) }
func (s *Store) Sessions() SessionRepository { return NewSessionRepository(s.db) }
func (s *Store) Posts() PostRepository { return NewPostRepository(s.db) }
func (s *Store) Comments() CommentRepository { return NewCommentRepository(s.db) }
func (s *Store) Suggestions() SuggestionRepository { return NewSuggestionRepository(s.db) }

// WithinTx runs fn in a single transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Migrate creates or updates every table the application owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ResetToken{},
		&models.Session{},
		&models.BlogPost{},
		&models.Comment{},
		&models.SuggestedEdit{},
	)
}

// notFound converts gorm's missing-row error into the domain one.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}
