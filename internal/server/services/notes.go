package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

const maxNoteLength = 4096

type NoteService struct {
	repomanager repomanager.RepositoryManager
}

func NewNoteService(m repomanager.RepositoryManager) *NoteService {
	return &NoteService{repomanager: m}
}

func (s *NoteService) List(ctx context.Context, userID string) ([]models.Note, error) {
	return s.repomanager.Notes().List(ctx, userID)
}

func (s *NoteService) Create(ctx context.Context, userID, text string) (*models.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: note text is required", common.ErrorValidation)
	}
	if len(text) > maxNoteLength {
		return nil, fmt.Errorf("%w: note is longer than %d bytes", common.ErrorValidation, maxNoteLength)
	}
	return s.repomanager.Notes().Create(ctx, &models.Note{UserID: userID, Text: text})
}

func (s *NoteService) Delete(ctx context.Context, userID, id string) error {
	return s.repomanager.Notes().Delete(ctx, userID, id)
}
