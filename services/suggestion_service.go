package services

import (
	"context"

	"personal-blog/access"
	"personal-blog/models"
	"personal-blog/repositories"
)

// SuggestionService collects anonymous edit suggestions for the blog owner.
type SuggestionService struct {
	store *repositories.Store
	gate  *access.Gate
}

func NewSuggestionService(store *repositories.Store, gate *access.Gate) *SuggestionService {
	return &SuggestionService{store: store, gate: gate}
}

func (s *SuggestionService) Create(ctx context.Context, req models.SuggestEditRequest) (*models.SuggestedEdit, error) {
	edit := &models.SuggestedEdit{
		EditType:  req.EditType,
		EditText:  req.EditText,
		OtherInfo: req.OtherInfo,
	}
	if err := s.store.Suggestions().Create(ctx, edit); err != nil {
		return nil, err
	}
	return edit, nil
}

func (s *SuggestionService) List(ctx context.Context, p access.Principal) ([]models.SuggestedEdit, error) {
	if err := s.gate.Check(p, s.gate.ModerateSuggestions()); err != nil {
		return nil, err
	}
	return s.store.Suggestions().GetAll(ctx)
}

func (s *SuggestionService) Delete(ctx context.Context, p access.Principal, id uint) error {
	if err := s.gate.Check(p, s.gate.ModerateSuggestions()); err != nil {
		return err
	}
	return s.store.Suggestions().Delete(ctx, id)
}
